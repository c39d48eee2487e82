// Package auth decides which requests carry an authenticated identity.
//
// The request pipeline has two halves. Attach runs on every request: it
// extracts a bearer token, validates it, resolves the subject to a local
// account, and stores the identity in the request context. Failures do not
// stop the request; they only leave the identity unset. RequireAuth runs on
// protected routes and rejects requests that reached it without an identity.
//
// Subpackages cover the token codec, the OAuth provider flow, and the
// cookies that carry handshake state and refresh tokens.
package auth
