// Package blog holds the article domain model and the service that enforces
// author-only mutation.
package blog

import (
	"strings"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

// Article is a published blog entry. Author is the principal name of the
// user who created it and anchors all mutation checks.
type Article struct {
	ID        int64
	Title     string
	Content   string
	Author    string
	CreatedAt time.Time
}

// Input carries the mutable fields of an article.
type Input struct {
	Title   string
	Content string
}

// Validate checks article input before it reaches the store.
func (in Input) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "article title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "article content is required")
	}
	return nil
}
