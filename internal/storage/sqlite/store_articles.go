package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/inkpress/inkpress/internal/blog"
)

// InsertArticle persists a new article and returns it with the assigned id.
func (s *Store) InsertArticle(ctx context.Context, input blog.Input, author string, now time.Time) (blog.Article, error) {
	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO articles (title, content, author, created_at) VALUES (?, ?, ?, ?)`,
		input.Title, input.Content, author, toMillis(now),
	)
	if err != nil {
		return blog.Article{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return blog.Article{}, err
	}
	return blog.Article{
		ID:        id,
		Title:     input.Title,
		Content:   input.Content,
		Author:    author,
		CreatedAt: now.UTC(),
	}, nil
}

// ListArticles returns all articles, newest first.
func (s *Store) ListArticles(ctx context.Context) ([]blog.Article, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, title, content, author, created_at FROM articles ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []blog.Article
	for rows.Next() {
		article, err := scanArticle(rows.Scan)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

// GetArticle returns the article with the given id, or nil.
func (s *Store) GetArticle(ctx context.Context, id int64) (*blog.Article, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, title, content, author, created_at FROM articles WHERE id = ?`,
		id,
	)
	article, err := scanArticle(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// UpdateArticle replaces the title and content of an existing article.
func (s *Store) UpdateArticle(ctx context.Context, id int64, input blog.Input) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`UPDATE articles SET title = ?, content = ? WHERE id = ?`,
		input.Title, input.Content, id,
	)
	return err
}

// DeleteArticle removes an article.
func (s *Store) DeleteArticle(ctx context.Context, id int64) error {
	_, err := s.sqlDB.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	return err
}

func scanArticle(scan func(...any) error) (blog.Article, error) {
	var article blog.Article
	var createdAt int64
	if err := scan(&article.ID, &article.Title, &article.Content, &article.Author, &createdAt); err != nil {
		return blog.Article{}, err
	}
	article.CreatedAt = fromMillis(createdAt)
	return article, nil
}
