package web

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
	"github.com/inkpress/inkpress/internal/user"
)

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var payload signupRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if len(payload.Password) < 8 {
		writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "password must be at least 8 characters"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, err)
		return
	}

	input := user.CreateInput{
		Email:        strings.TrimSpace(payload.Email),
		PasswordHash: string(hash),
	}
	if err := input.Validate(); err != nil {
		writeError(w, err)
		return
	}

	created, err := s.users.CreateUser(r.Context(), input, s.clock().UTC())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{ID: created.ID, Email: created.Email})
}
