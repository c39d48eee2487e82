package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
	"github.com/inkpress/inkpress/internal/user"
)

// CreateUser inserts a local account and returns it with the assigned id.
func (s *Store) CreateUser(ctx context.Context, input user.CreateInput, now time.Time) (user.User, error) {
	if err := input.Validate(); err != nil {
		return user.User{}, err
	}
	email := strings.TrimSpace(input.Email)

	result, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, provider, provider_subject, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		email, input.PasswordHash, input.Provider, input.ProviderSubject, toMillis(now),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, apperrors.WithMetadata(
				apperrors.CodeUserEmailTaken,
				"email is already registered",
				map[string]string{"Email": email},
			)
		}
		return user.User{}, err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return user.User{}, err
	}
	return user.User{
		ID:              id,
		Email:           email,
		PasswordHash:    input.PasswordHash,
		Provider:        input.Provider,
		ProviderSubject: input.ProviderSubject,
		CreatedAt:       now.UTC(),
	}, nil
}

// GetUserByEmail returns the account registered under email, or nil.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getUser(ctx,
		`SELECT id, email, password_hash, provider, provider_subject, created_at
		FROM users WHERE email = ?`,
		strings.TrimSpace(email),
	)
}

// GetUserByID returns the account with the given id, or nil.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	return s.getUser(ctx,
		`SELECT id, email, password_hash, provider, provider_subject, created_at
		FROM users WHERE id = ?`,
		id,
	)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	var createdAt int64
	err := s.sqlDB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Provider, &u.ProviderSubject, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = fromMillis(createdAt)
	return &u, nil
}

// isUniqueViolation detects SQLite unique constraint failures.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
