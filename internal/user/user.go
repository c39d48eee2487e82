// Package user defines the local account model referenced by the auth core.
package user

import (
	"strings"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

// User is a local account. Email doubles as the principal name used for
// article ownership checks.
type User struct {
	ID              int64
	Email           string
	PasswordHash    string
	Provider        string
	ProviderSubject string
	CreatedAt       time.Time
}

// CreateInput carries the fields needed to create a local account.
type CreateInput struct {
	Email           string
	PasswordHash    string
	Provider        string
	ProviderSubject string
}

// Validate checks a CreateInput before it reaches the store.
func (in CreateInput) Validate() error {
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return apperrors.New(apperrors.CodeInvalidArgument, "a valid email is required")
	}
	return nil
}
