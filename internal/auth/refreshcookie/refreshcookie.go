// Package refreshcookie reads and writes the long-lived refresh token cookie.
package refreshcookie

import (
	"net/http"
	"time"
)

// Name is the refresh token cookie name.
const Name = "refresh_token"

// Write replaces the refresh token cookie. Any cookie already on the request
// is expired first so stale copies do not shadow the new value.
func Write(w http.ResponseWriter, r *http.Request, token string, maxAge time.Duration) {
	Clear(w, r)
	http.SetCookie(w, &http.Cookie{
		Name:     Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the refresh token carried by the request, or "" when absent.
func Read(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Clear expires every refresh token cookie present on the request.
func Clear(w http.ResponseWriter, r *http.Request) {
	if w == nil || r == nil {
		return
	}
	for _, cookie := range r.Cookies() {
		if cookie.Name != Name {
			continue
		}
		http.SetCookie(w, &http.Cookie{
			Name:     Name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
