package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/inkpress/inkpress/internal/auth/authrequest"
	"github.com/inkpress/inkpress/internal/auth/refreshcookie"
)

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request, providerID string) {
	provider, ok := s.config.Providers[providerID]
	if !ok {
		http.NotFound(w, r)
		return
	}

	codeVerifier, err := newCodeVerifier()
	if err != nil {
		http.Error(w, "failed to generate code verifier", http.StatusInternalServerError)
		return
	}
	codeChallenge := computeS256Challenge(codeVerifier)

	state := &authrequest.State{
		Provider:     providerID,
		Nonce:        uuid.NewString(),
		CodeVerifier: codeVerifier,
		RedirectURI:  provider.RedirectURI,
		CreatedAt:    s.clock().UTC(),
	}
	if err := s.authRequests.Save(w, r, state); err != nil {
		http.Error(w, "failed to start provider flow", http.StatusInternalServerError)
		return
	}

	query := url.Values{}
	query.Set("response_type", "code")
	query.Set("client_id", provider.ClientID)
	query.Set("redirect_uri", provider.RedirectURI)
	query.Set("scope", strings.Join(provider.Scopes, " "))
	query.Set("state", state.Nonce)
	query.Set("code_challenge", codeChallenge)
	query.Set("code_challenge_method", "S256")

	authURL, err := url.Parse(provider.AuthURL)
	if err != nil {
		http.Error(w, "invalid provider config", http.StatusInternalServerError)
		return
	}
	authURL.RawQuery = query.Encode()
	http.Redirect(w, r, authURL.String(), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request, providerID string) {
	provider, ok := s.config.Providers[providerID]
	if !ok {
		http.NotFound(w, r)
		return
	}

	state, err := s.authRequests.Load(r)
	if err != nil {
		// An unreadable cookie means no usable session; drop it and start over.
		s.authRequests.Clear(w, r)
		http.Error(w, "login session is unreadable", http.StatusBadRequest)
		return
	}
	if state == nil {
		http.Error(w, "no login in progress", http.StatusBadRequest)
		return
	}
	// The handshake is consumed exactly once, success or not. The deletion
	// cookie must be on the response before any status is written, so this
	// cannot wait until the end of the handler.
	s.authRequests.Clear(w, r)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		http.Error(w, "provider rejected the login: "+errParam, http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	nonce := r.URL.Query().Get("state")
	if code == "" || nonce == "" {
		http.Error(w, "missing code or state", http.StatusBadRequest)
		return
	}
	if state.Provider != providerID || nonce != state.Nonce {
		http.Error(w, "state mismatch", http.StatusBadRequest)
		return
	}

	providerAccess, err := s.exchangeProviderToken(r.Context(), provider, code, state.CodeVerifier)
	if err != nil {
		http.Error(w, "failed to exchange provider token", http.StatusBadRequest)
		return
	}

	email, err := s.fetchProviderEmail(r.Context(), provider, providerAccess)
	if err != nil {
		http.Error(w, "failed to fetch provider profile", http.StatusBadRequest)
		return
	}

	s.completeLogin(w, r, email)
}

// completeLogin turns a verified provider identity into local tokens.
//
// The refresh token row is written before any cookie or redirect goes out,
// so a storage failure leaves the client fully logged out.
func (s *Server) completeLogin(w http.ResponseWriter, r *http.Request, email string) {
	u, err := s.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		http.Error(w, "failed to resolve account", http.StatusInternalServerError)
		return
	}
	if u == nil {
		log.Printf("oauth login rejected: no account for %s", email)
		http.Error(w, "no account for this login", http.StatusNotFound)
		return
	}

	refresh, err := s.codec.Mint(*u, s.refreshTTL)
	if err != nil {
		http.Error(w, "failed to issue tokens", http.StatusInternalServerError)
		return
	}
	access, err := s.codec.Mint(*u, s.accessTTL)
	if err != nil {
		http.Error(w, "failed to issue tokens", http.StatusInternalServerError)
		return
	}

	if err := s.refreshTokens.UpsertRefreshToken(r.Context(), u.ID, refresh, s.clock().UTC()); err != nil {
		http.Error(w, "failed to persist refresh token", http.StatusInternalServerError)
		return
	}

	refreshcookie.Write(w, r, refresh, s.refreshTTL)
	http.Redirect(w, r, PostLoginRedirectPath+"?token="+url.QueryEscape(access), http.StatusFound)
}

func (s *Server) exchangeProviderToken(ctx context.Context, provider ProviderConfig, code, codeVerifier string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", provider.RedirectURI)
	form.Set("client_id", provider.ClientID)
	form.Set("client_secret", provider.ClientSecret)
	form.Set("code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, provider.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("token exchange failed")
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", errors.New("missing access token")
	}
	return payload.AccessToken, nil
}

func (s *Server) fetchProviderEmail(ctx context.Context, provider ProviderConfig, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.UserInfoURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("profile request failed")
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if strings.TrimSpace(payload.Email) == "" {
		return "", errors.New("provider profile has no email")
	}
	return payload.Email, nil
}
