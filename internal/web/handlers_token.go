package web

import (
	"net/http"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// handleRefreshAccessToken trades a valid refresh token for a new access
// token. The presented value must match the stored row exactly; a token
// rotated out by a newer login no longer resolves and is rejected even
// though its signature still verifies.
func (s *Server) handleRefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	var payload refreshRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.RefreshToken == "" {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "refreshToken is required"))
		return
	}

	if _, err := s.codec.Validate(payload.RefreshToken); err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeUnauthenticated, "refresh token is not valid", err))
		return
	}

	row, err := s.refreshTokens.GetRefreshTokenByValue(r.Context(), payload.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}
	if row == nil {
		writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "refresh token is no longer valid"))
		return
	}

	u, err := s.users.GetUserByID(r.Context(), row.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if u == nil {
		writeError(w, apperrors.New(apperrors.CodeUnauthenticated, "refresh token subject no longer exists"))
		return
	}

	access, err := s.codec.Mint(*u, s.accessTTL)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, refreshResponse{AccessToken: access})
}
