// Package token mints and validates the signed credentials that carry a
// user's identity between requests.
package token

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
	"github.com/inkpress/inkpress/internal/user"
)

// Codec signs and verifies self-contained identity tokens.
//
// Tokens are HMAC-signed with a shared secret, so validation is a local CPU
// operation with no I/O. A Codec is safe for concurrent use.
type Codec struct {
	issuer string
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec for the given issuer and signing secret.
func NewCodec(cfg Config) (*Codec, error) {
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Codec{
		issuer: strings.TrimSpace(cfg.Issuer),
		secret: []byte(secret),
		now:    now,
	}, nil
}

// Mint creates a signed token for the user with the given lifetime.
//
// The token kind (access vs refresh) is distinguished only by the lifetime,
// matching the rotation flow where both are minted by the same code path.
func (c *Codec) Mint(u user.User, lifetime time.Duration) (string, error) {
	issuedAt := c.now().UTC()
	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   strconv.FormatInt(u.ID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Validate verifies the token signature and expiry window and returns the
// embedded subject user id. No storage lookup is involved.
func (c *Codec) Validate(tokenString string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return 0, mapJWTError(err)
	}

	// The expiry instant itself is still valid; only strictly later fails.
	now := c.now().UTC()
	if claims.ExpiresAt == nil || now.After(claims.ExpiresAt.Time) {
		return 0, apperrors.New(apperrors.CodeTokenExpired, "token is expired")
	}
	if claims.IssuedAt != nil && now.Before(claims.IssuedAt.Time.UTC()) {
		return 0, apperrors.New(apperrors.CodeTokenExpired, "token is not valid yet")
	}

	subject, err := parseSubject(claims.Subject)
	if err != nil {
		return 0, apperrors.New(apperrors.CodeTokenMalformed, "token subject is not a user id")
	}
	return subject, nil
}

// Subject extracts the subject user id without verifying signature or expiry.
//
// Best-effort only, for audit logging of tokens validated elsewhere. Never an
// authorization decision.
func (c *Codec) Subject(tokenString string) (int64, bool) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return 0, false
	}
	subject, err := parseSubject(claims.Subject)
	if err != nil {
		return 0, false
	}
	return subject, true
}

func (c *Codec) keyFunc(*jwt.Token) (any, error) {
	return c.secret, nil
}

func parseSubject(subject string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(subject), 10, 64)
}

// mapJWTError translates jwt library errors to domain errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.Wrap(apperrors.CodeTokenInvalidSignature, "token signature is invalid", err)
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.Wrap(apperrors.CodeTokenInvalidSignature, "token alg is invalid", err)
	}
	return apperrors.Wrap(apperrors.CodeTokenMalformed, "token is malformed", err)
}
