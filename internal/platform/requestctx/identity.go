// Package requestctx carries request-scoped identity through explicit context.
package requestctx

import "context"

// Identity is the authenticated principal attached to a request.
//
// Name is the authorization anchor used by resource ownership checks and
// matches the author field stored on articles.
type Identity struct {
	UserID int64
	Name   string
}

// identityContextKey is the context key for authenticated user identity.
type identityContextKey struct{}

// WithIdentity stores an authenticated identity in context.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the identity stored in context, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}

// PrincipalName returns the principal name stored in context, or "" when
// the request is unauthenticated.
func PrincipalName(ctx context.Context) string {
	identity, ok := IdentityFromContext(ctx)
	if !ok {
		return ""
	}
	return identity.Name
}
