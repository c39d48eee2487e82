package blog

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

// ArticleStore persists articles. Implemented by the SQLite store.
type ArticleStore interface {
	InsertArticle(ctx context.Context, input Input, author string, now time.Time) (Article, error)
	ListArticles(ctx context.Context) ([]Article, error)
	GetArticle(ctx context.Context, id int64) (*Article, error)
	UpdateArticle(ctx context.Context, id int64, input Input) error
	DeleteArticle(ctx context.Context, id int64) error
}

// Service applies ownership rules on top of the article store.
//
// The caller's principal name is passed explicitly per operation; there is no
// ambient identity lookup here.
type Service struct {
	store ArticleStore
	clock func() time.Time
}

// NewService builds an article service over the given store.
func NewService(store ArticleStore) *Service {
	return &Service{store: store, clock: time.Now}
}

// Create stores a new article owned by the given principal.
func (s *Service) Create(ctx context.Context, input Input, principal string) (Article, error) {
	if principal == "" {
		return Article{}, apperrors.New(apperrors.CodeUnauthenticated, "article creation requires an authenticated author")
	}
	if err := input.Validate(); err != nil {
		return Article{}, err
	}
	return s.store.InsertArticle(ctx, input, principal, s.clock())
}

// List returns all articles. Reads are public.
func (s *Service) List(ctx context.Context) ([]Article, error) {
	return s.store.ListArticles(ctx)
}

// Get returns a single article by id.
func (s *Service) Get(ctx context.Context, id int64) (Article, error) {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if article == nil {
		return Article{}, notFound(id)
	}
	return *article, nil
}

// Update replaces the title and content of an article the principal owns.
func (s *Service) Update(ctx context.Context, id int64, input Input, principal string) (Article, error) {
	if err := input.Validate(); err != nil {
		return Article{}, err
	}
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if article == nil {
		return Article{}, notFound(id)
	}
	if err := authorizeAuthor(*article, principal); err != nil {
		return Article{}, err
	}
	if err := s.store.UpdateArticle(ctx, id, input); err != nil {
		return Article{}, err
	}
	article.Title = input.Title
	article.Content = input.Content
	return *article, nil
}

// Delete removes an article the principal owns.
func (s *Service) Delete(ctx context.Context, id int64, principal string) error {
	article, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if article == nil {
		return notFound(id)
	}
	if err := authorizeAuthor(*article, principal); err != nil {
		return err
	}
	return s.store.DeleteArticle(ctx, id)
}

// authorizeAuthor compares the caller's principal name against the article
// author. The comparison is exact and case-sensitive.
func authorizeAuthor(article Article, principal string) error {
	if principal == "" || article.Author != principal {
		return apperrors.WithMetadata(
			apperrors.CodeNotAuthorized,
			"only the article author may modify it",
			map[string]string{"Author": article.Author},
		)
	}
	return nil
}

func notFound(id int64) error {
	return apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("article %d not found", id))
}
