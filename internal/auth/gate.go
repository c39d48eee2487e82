package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/inkpress/inkpress/internal/auth/token"
	"github.com/inkpress/inkpress/internal/platform/requestctx"
	"github.com/inkpress/inkpress/internal/user"
)

// authorizationHeader carries the bearer credential on API requests.
const authorizationHeader = "Authorization"

// bearerPrefix marks the credential scheme in the authorization header.
const bearerPrefix = "Bearer "

// UserStore resolves a token subject to a local account.
type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*user.User, error)
}

// GateConfig decides which paths the route guard protects.
type GateConfig struct {
	// ProtectedPrefix is the path prefix requiring authentication.
	// Paths outside it are public by default.
	ProtectedPrefix string
	// PublicPaths are exact paths inside the protected prefix that stay
	// public, such as the token refresh endpoint.
	PublicPaths []string
}

// Gate authenticates requests by bearer token.
//
// The gate never rejects a request itself: a missing or invalid token simply
// leaves the request without an identity and the route guard decides. That
// keeps public routes reachable even when a stale token is still attached.
type Gate struct {
	codec           *token.Codec
	users           UserStore
	protectedPrefix string
	publicPaths     map[string]struct{}
}

// NewGate builds the authentication gate.
func NewGate(codec *token.Codec, users UserStore, cfg GateConfig) *Gate {
	prefix := strings.TrimSpace(cfg.ProtectedPrefix)
	if prefix == "" {
		prefix = "/api/"
	}
	public := make(map[string]struct{}, len(cfg.PublicPaths))
	for _, path := range cfg.PublicPaths {
		path = strings.TrimSpace(path)
		if path != "" {
			public[path] = struct{}{}
		}
	}
	return &Gate{
		codec:           codec,
		users:           users,
		protectedPrefix: prefix,
		publicPaths:     public,
	}
}

// Attach wraps next with identity resolution.
//
// The pipeline is: bearer extraction, token validation, subject resolution,
// identity injection. Each step degrades to "no identity" on failure and the
// request always proceeds.
func (g *Gate) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer, ok := extractBearer(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		identity, ok := g.resolveIdentity(r.Context(), bearer)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(requestctx.WithIdentity(r.Context(), identity)))
	})
}

// RequireAuth wraps next with the route-level authentication requirement.
//
// Requests under the protected prefix without an identity receive a 401;
// the public allow-list and paths outside the prefix pass through.
func (g *Gate) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.isProtected(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := requestctx.IdentityFromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// isProtected reports whether a path requires an authenticated identity.
func (g *Gate) isProtected(path string) bool {
	if _, ok := g.publicPaths[path]; ok {
		return false
	}
	return strings.HasPrefix(path, g.protectedPrefix)
}

// resolveIdentity validates the bearer token and loads its subject account.
func (g *Gate) resolveIdentity(ctx context.Context, bearer string) (requestctx.Identity, bool) {
	subject, err := g.codec.Validate(bearer)
	if err != nil {
		// Swallowed: the route guard produces the client-visible failure.
		if sub, ok := g.codec.Subject(bearer); ok {
			log.Printf("auth gate: rejected token for subject %d: %v", sub, err)
		}
		return requestctx.Identity{}, false
	}
	account, err := g.users.GetUserByID(ctx, subject)
	if err != nil {
		log.Printf("auth gate: user lookup for subject %d: %v", subject, err)
		return requestctx.Identity{}, false
	}
	if account == nil {
		return requestctx.Identity{}, false
	}
	return requestctx.Identity{UserID: account.ID, Name: account.Email}, true
}

// extractBearer pulls the bearer credential from the authorization header.
func extractBearer(r *http.Request) (string, bool) {
	header := r.Header.Get(authorizationHeader)
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	bearer := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if bearer == "" {
		return "", false
	}
	return bearer, true
}
