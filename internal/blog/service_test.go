package blog

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

// fakeStore is an in-memory ArticleStore for service tests.
type fakeStore struct {
	nextID   int64
	articles map[int64]Article
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, articles: map[int64]Article{}}
}

func (f *fakeStore) InsertArticle(_ context.Context, input Input, author string, now time.Time) (Article, error) {
	article := Article{ID: f.nextID, Title: input.Title, Content: input.Content, Author: author, CreatedAt: now}
	f.articles[article.ID] = article
	f.nextID++
	return article, nil
}

func (f *fakeStore) ListArticles(context.Context) ([]Article, error) {
	var all []Article
	for _, article := range f.articles {
		all = append(all, article)
	}
	return all, nil
}

func (f *fakeStore) GetArticle(_ context.Context, id int64) (*Article, error) {
	article, ok := f.articles[id]
	if !ok {
		return nil, nil
	}
	return &article, nil
}

func (f *fakeStore) UpdateArticle(_ context.Context, id int64, input Input) error {
	article := f.articles[id]
	article.Title = input.Title
	article.Content = input.Content
	f.articles[id] = article
	return nil
}

func (f *fakeStore) DeleteArticle(_ context.Context, id int64) error {
	delete(f.articles, id)
	return nil
}

func seedArticle(t *testing.T, service *Service, author string) Article {
	t.Helper()
	article, err := service.Create(context.Background(), Input{Title: "t", Content: "c"}, author)
	if err != nil {
		t.Fatalf("seed article: %v", err)
	}
	return article
}

func TestCreateRequiresPrincipal(t *testing.T) {
	service := NewService(newFakeStore())
	_, err := service.Create(context.Background(), Input{Title: "t", Content: "c"}, "")
	if apperrors.CodeOf(err) != apperrors.CodeUnauthenticated {
		t.Fatalf("expected UNAUTHENTICATED, got %v", err)
	}
}

func TestCreateValidatesInput(t *testing.T) {
	service := NewService(newFakeStore())
	_, err := service.Create(context.Background(), Input{Title: " ", Content: "c"}, "alice")
	if apperrors.CodeOf(err) != apperrors.CodeInvalidArgument {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", err)
	}
}

func TestGetMissingArticle(t *testing.T) {
	service := NewService(newFakeStore())
	_, err := service.Get(context.Background(), 42)
	if apperrors.CodeOf(err) != apperrors.CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateAuthorization(t *testing.T) {
	service := NewService(newFakeStore())
	article := seedArticle(t, service, "alice")

	t.Run("author may update", func(t *testing.T) {
		updated, err := service.Update(context.Background(), article.ID, Input{Title: "new", Content: "body"}, "alice")
		if err != nil {
			t.Fatalf("author update: %v", err)
		}
		if updated.Title != "new" {
			t.Fatalf("title = %q, want new", updated.Title)
		}
	})

	t.Run("non-author is rejected", func(t *testing.T) {
		_, err := service.Update(context.Background(), article.ID, Input{Title: "x", Content: "y"}, "bob")
		if apperrors.CodeOf(err) != apperrors.CodeNotAuthorized {
			t.Fatalf("expected NOT_AUTHORIZED, got %v", err)
		}
	})

	t.Run("comparison is case-sensitive", func(t *testing.T) {
		_, err := service.Update(context.Background(), article.ID, Input{Title: "x", Content: "y"}, "Alice")
		if apperrors.CodeOf(err) != apperrors.CodeNotAuthorized {
			t.Fatalf("expected NOT_AUTHORIZED for case mismatch, got %v", err)
		}
	})

	t.Run("empty principal is rejected", func(t *testing.T) {
		_, err := service.Update(context.Background(), article.ID, Input{Title: "x", Content: "y"}, "")
		if apperrors.CodeOf(err) != apperrors.CodeNotAuthorized {
			t.Fatalf("expected NOT_AUTHORIZED for empty principal, got %v", err)
		}
	})
}

func TestDeleteAuthorization(t *testing.T) {
	service := NewService(newFakeStore())

	t.Run("non-author is rejected", func(t *testing.T) {
		article := seedArticle(t, service, "alice")
		err := service.Delete(context.Background(), article.ID, "bob")
		if apperrors.CodeOf(err) != apperrors.CodeNotAuthorized {
			t.Fatalf("expected NOT_AUTHORIZED, got %v", err)
		}
		if _, err := service.Get(context.Background(), article.ID); err != nil {
			t.Fatalf("article must survive rejected delete: %v", err)
		}
	})

	t.Run("author may delete", func(t *testing.T) {
		article := seedArticle(t, service, "alice")
		if err := service.Delete(context.Background(), article.ID, "alice"); err != nil {
			t.Fatalf("author delete: %v", err)
		}
		_, err := service.Get(context.Background(), article.ID)
		if apperrors.CodeOf(err) != apperrors.CodeNotFound {
			t.Fatalf("expected NOT_FOUND after delete, got %v", err)
		}
	})

	t.Run("missing article", func(t *testing.T) {
		err := service.Delete(context.Background(), 999, "alice")
		if apperrors.CodeOf(err) != apperrors.CodeNotFound {
			t.Fatalf("expected NOT_FOUND, got %v", err)
		}
	})
}
