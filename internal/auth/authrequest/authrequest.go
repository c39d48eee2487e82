// Package authrequest persists in-progress OAuth handshake state in a signed
// cookie, so no server-side session is needed across the provider redirect.
package authrequest

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

// CookieName is the canonical authorization request cookie name.
const CookieName = "oauth2_auth_request"

// cookieMaxAge outlives a typical provider redirect round-trip without
// letting abandoned handshakes linger.
const cookieMaxAge = 30 * time.Minute

// schemaVersion is bumped whenever the payload shape changes; cookies from
// older versions are treated as absent state.
const schemaVersion = 1

// State is an in-progress OAuth handshake. It is created when a login flow
// starts, carried across the provider redirect, and consumed exactly once.
type State struct {
	Version      int       `json:"v"`
	Provider     string    `json:"provider"`
	Nonce        string    `json:"state"`
	CodeVerifier string    `json:"code_verifier"`
	RedirectURI  string    `json:"redirect_uri"`
	CreatedAt    time.Time `json:"created_at"`
}

// Store serializes handshake state to the authorization request cookie.
//
// The payload carries an HMAC tag over the JSON bytes, so a tampered or
// truncated cookie reads back as corrupt instead of being deserialized.
// A Store is stateless and safe for concurrent use.
type Store struct {
	secret []byte
}

// NewStore builds a cookie store keyed with the given signing secret.
func NewStore(secret string) (*Store, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth request cookie secret is required")
	}
	return &Store{secret: []byte(secret)}, nil
}

// Save writes the handshake state to the response cookie. A nil state
// clears the cookie instead.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, state *State) error {
	if state == nil {
		s.Clear(w, r)
		return nil
	}
	state.Version = schemaVersion
	payload, err := json.Marshal(state)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    s.encode(payload),
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Load reads the handshake state from the request cookie.
//
// An absent cookie returns (nil, nil). An unreadable payload returns a
// CORRUPT_SESSION error; callers treat that as "no session" rather than
// failing the request pipeline.
func (s *Store) Load(r *http.Request) (*State, error) {
	if r == nil {
		return nil, nil
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return nil, nil
	}

	payload, err := s.decode(cookie.Value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorruptSession, "auth request cookie is unreadable", err)
	}

	var state State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeCorruptSession, "auth request payload is not valid state", err)
	}
	if state.Version != schemaVersion {
		return nil, apperrors.New(apperrors.CodeCorruptSession, "auth request payload has unknown schema version")
	}
	return &state, nil
}

// Clear expires every cookie matching the authorization request name.
//
// Deletion is an overwrite-and-expire on the response; the client removes
// the cookie only once it processes the response. That window is inherent
// to cookie-based state.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil || r == nil {
		return
	}
	for _, cookie := range r.Cookies() {
		if cookie.Name != CookieName {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// encode produces base64url(payload).base64url(hmac-sha256(payload)).
func (s *Store) encode(payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	tag := mac.Sum(nil)
	return base64.RawURLEncoding.EncodeToString(payload) + "." + base64.RawURLEncoding.EncodeToString(tag)
}

func (s *Store) decode(value string) ([]byte, error) {
	encodedPayload, encodedTag, ok := strings.Cut(value, ".")
	if !ok {
		return nil, errors.New("missing payload tag")
	}
	payload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, err
	}
	tag, err := base64.RawURLEncoding.DecodeString(encodedTag)
	if err != nil {
		return nil, err
	}
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(payload)
	if !hmac.Equal(tag, mac.Sum(nil)) {
		return nil, errors.New("payload tag mismatch")
	}
	return payload, nil
}
