package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/inkpress/inkpress/internal/blog"
	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
	"github.com/inkpress/inkpress/internal/platform/requestctx"
)

type articlePayload struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type articleResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

func toArticleResponse(article blog.Article) articleResponse {
	return articleResponse{
		ID:        article.ID,
		Title:     article.Title,
		Content:   article.Content,
		Author:    article.Author,
		CreatedAt: article.CreatedAt,
	}
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var payload articlePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	input := blog.Input{Title: payload.Title, Content: payload.Content}
	article, err := s.articles.Create(r.Context(), input, requestctx.PrincipalName(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toArticleResponse(article))
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.articles.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	response := make([]articleResponse, 0, len(articles))
	for _, article := range articles {
		response = append(response, toArticleResponse(article))
	}
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	article, err := s.articles.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var payload articlePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	input := blog.Input{Title: payload.Title, Content: payload.Content}
	article, err := s.articles.Update(r.Context(), id, input, requestctx.PrincipalName(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toArticleResponse(article))
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.articles.Delete(r.Context(), id, requestctx.PrincipalName(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func articleID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.CodeInvalidArgument, "article id must be a number")
	}
	return id, nil
}
