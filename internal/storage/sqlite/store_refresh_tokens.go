package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// RefreshToken is the server-side record of a user's current refresh token.
// At most one row exists per user; login replaces the value in place.
type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	UpdatedAt time.Time
}

// UpsertRefreshToken stores the refresh token for a user, replacing any
// previous one.
//
// The UNIQUE constraint on user_id makes the upsert atomic per user, so two
// concurrent logins cannot leave two rows behind.
func (s *Store) UpsertRefreshToken(ctx context.Context, userID int64, token string, now time.Time) error {
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO refresh_tokens (user_id, token, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			token = excluded.token,
			updated_at = excluded.updated_at`,
		userID, token, toMillis(now),
	)
	return err
}

// GetRefreshTokenByUserID returns the stored refresh token for a user, or nil.
func (s *Store) GetRefreshTokenByUserID(ctx context.Context, userID int64) (*RefreshToken, error) {
	return s.getRefreshToken(ctx,
		`SELECT id, user_id, token, updated_at FROM refresh_tokens WHERE user_id = ?`,
		userID,
	)
}

// GetRefreshTokenByValue returns the row holding the given token string, or nil.
//
// A token that was rotated out no longer has a row, so a signature-valid but
// replaced refresh token fails this lookup.
func (s *Store) GetRefreshTokenByValue(ctx context.Context, token string) (*RefreshToken, error) {
	return s.getRefreshToken(ctx,
		`SELECT id, user_id, token, updated_at FROM refresh_tokens WHERE token = ?`,
		token,
	)
}

func (s *Store) getRefreshToken(ctx context.Context, query string, arg any) (*RefreshToken, error) {
	var row RefreshToken
	var updatedAt int64
	err := s.sqlDB.QueryRowContext(ctx, query, arg).Scan(&row.ID, &row.UserID, &row.Token, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	row.UpdatedAt = fromMillis(updatedAt)
	return &row, nil
}
