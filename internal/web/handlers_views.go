package web

import (
	"log"
	"net/http"
)

type loginView struct {
	Providers []ProviderLink
}

type articlePageView struct {
	ArticleID string
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "login.html", loginView{Providers: s.providers})
}

func (s *Server) handleSignupPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "signup.html", nil)
}

func (s *Server) handleArticlesPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "articles.html", nil)
}

func (s *Server) handleArticlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "article.html", articlePageView{ArticleID: r.PathValue("id")})
}

func (s *Server) handleNewArticlePage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "new_article.html", nil)
}

func (s *Server) renderPage(w http.ResponseWriter, name string, view any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, name, view); err != nil {
		log.Printf("render %s: %v", name, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
