// Package web hosts the HTTP surface: the article API, token refresh,
// signup, and the HTML pages that drive them.
package web

import (
	"context"
	"io/fs"
	"net/http"
	"time"

	"github.com/inkpress/inkpress/internal/auth/token"
	"github.com/inkpress/inkpress/internal/blog"
	"github.com/inkpress/inkpress/internal/storage/sqlite"
	"github.com/inkpress/inkpress/internal/user"
)

// UserStore persists and resolves local accounts.
type UserStore interface {
	CreateUser(ctx context.Context, input user.CreateInput, now time.Time) (user.User, error)
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// RefreshTokenStore looks up the currently valid refresh token.
type RefreshTokenStore interface {
	GetRefreshTokenByValue(ctx context.Context, token string) (*sqlite.RefreshToken, error)
}

// ProviderLink names a configured login provider for the login page.
type ProviderLink struct {
	ID   string
	Name string
}

// Server handles the article API and the HTML views.
type Server struct {
	articles      *blog.Service
	users         UserStore
	refreshTokens RefreshTokenStore
	codec         *token.Codec
	accessTTL     time.Duration
	providers     []ProviderLink
	clock         func() time.Time
}

// NewServer builds the web server around the blog service and auth stores.
func NewServer(articles *blog.Service, users UserStore, refreshTokens RefreshTokenStore, codec *token.Codec, accessTTL time.Duration, providers []ProviderLink) *Server {
	return &Server{
		articles:      articles,
		users:         users,
		refreshTokens: refreshTokens,
		codec:         codec,
		accessTTL:     accessTTL,
		providers:     providers,
		clock:         time.Now,
	}
}

// RegisterRoutes registers all web endpoints on the provided mux.
//
// Article reads stay public; only mutations pass through the guard. The
// token refresh endpoint is public so an expired access token can still
// be replaced.
func (s *Server) RegisterRoutes(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	if guard == nil {
		guard = func(next http.Handler) http.Handler { return next }
	}

	mux.Handle("POST /api/article", guard(http.HandlerFunc(s.handleCreateArticle)))
	mux.HandleFunc("GET /api/articles", s.handleListArticles)
	mux.HandleFunc("GET /api/article/{id}", s.handleGetArticle)
	mux.Handle("PUT /api/article/{id}", guard(http.HandlerFunc(s.handleUpdateArticle)))
	mux.Handle("DELETE /api/article/{id}", guard(http.HandlerFunc(s.handleDeleteArticle)))

	mux.HandleFunc("POST /api/token", s.handleRefreshAccessToken)
	mux.HandleFunc("POST /user", s.handleSignup)

	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("GET /signup", s.handleSignupPage)
	mux.HandleFunc("GET /articles", s.handleArticlesPage)
	mux.HandleFunc("GET /articles/{id}", s.handleArticlePage)
	mux.HandleFunc("GET /new-article", s.handleNewArticlePage)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(mustStaticFS())))
	mux.HandleFunc("GET /up", s.handleHealth)
}

func mustStaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
