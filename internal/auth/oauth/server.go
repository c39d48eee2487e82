package oauth

import (
	"context"
	"net/http"
	"time"

	"github.com/inkpress/inkpress/internal/auth/authrequest"
	"github.com/inkpress/inkpress/internal/auth/token"
	"github.com/inkpress/inkpress/internal/user"
)

// UserStore resolves provider identities to local accounts.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*user.User, error)
}

// RefreshTokenStore persists the single refresh token per user.
type RefreshTokenStore interface {
	UpsertRefreshToken(ctx context.Context, userID int64, token string, now time.Time) error
}

// Server hosts the external provider login flow.
type Server struct {
	config        Config
	authRequests  *authrequest.Store
	users         UserStore
	refreshTokens RefreshTokenStore
	codec         *token.Codec
	accessTTL     time.Duration
	refreshTTL    time.Duration
	clock         func() time.Time
	httpClient    *http.Client
}

// NewServer builds an OAuth server bound to provider config and backing stores.
func NewServer(config Config, authRequests *authrequest.Store, users UserStore, refreshTokens RefreshTokenStore, codec *token.Codec, accessTTL, refreshTTL time.Duration) *Server {
	return &Server{
		config:        config,
		authRequests:  authRequests,
		users:         users,
		refreshTokens: refreshTokens,
		codec:         codec,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		clock:         time.Now,
		httpClient:    http.DefaultClient,
	}
}

// RegisterRoutes registers the provider login endpoints on the provided mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /oauth2/authorization/{provider}", func(w http.ResponseWriter, r *http.Request) {
		s.handleStart(w, r, r.PathValue("provider"))
	})
	mux.HandleFunc("GET /login/oauth2/code/{provider}", func(w http.ResponseWriter, r *http.Request) {
		s.handleCallback(w, r, r.PathValue("provider"))
	})
}
