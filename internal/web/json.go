package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

// writeError maps a domain error to its HTTP status. Messages from coded
// errors are safe to expose; anything else becomes an opaque 500.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	message := "internal error"
	var coded *apperrors.Error
	if errors.As(err, &coded) {
		message = coded.Message
	}
	if status >= http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "request body is not valid JSON", err)
	}
	return nil
}
