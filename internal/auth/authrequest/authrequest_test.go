package authrequest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apperrors "github.com/inkpress/inkpress/internal/platform/errors"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore("cookie-test-secret")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return store
}

// requestWithSavedState saves state through a recorder and replays the
// resulting cookie on a fresh request, mimicking a browser round-trip.
func requestWithSavedState(t *testing.T, store *Store, state *State) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	if err := store.Save(w, httptest.NewRequest(http.MethodGet, "/", nil), state); err != nil {
		t.Fatalf("save state: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	return req
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := testStore(t)
	saved := &State{
		Provider:     "google",
		Nonce:        "nonce-123",
		CodeVerifier: "verifier-abc",
		RedirectURI:  "/articles",
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}

	req := requestWithSavedState(t, store, saved)
	loaded, err := store.Load(req)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected state, got nil")
	}
	if loaded.Provider != saved.Provider || loaded.Nonce != saved.Nonce ||
		loaded.CodeVerifier != saved.CodeVerifier || loaded.RedirectURI != saved.RedirectURI {
		t.Fatalf("loaded state %+v does not match saved %+v", loaded, saved)
	}
	if !loaded.CreatedAt.Equal(saved.CreatedAt) {
		t.Fatalf("CreatedAt = %v, want %v", loaded.CreatedAt, saved.CreatedAt)
	}
}

func TestSaveSetsCookieAttributes(t *testing.T) {
	store := testStore(t)
	w := httptest.NewRecorder()
	err := store.Save(w, httptest.NewRequest(http.MethodGet, "/", nil), &State{Provider: "google"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	cookie := w.Result().Cookies()[0]
	if cookie.Name != CookieName {
		t.Fatalf("cookie name = %q, want %q", cookie.Name, CookieName)
	}
	if cookie.Path != "/" {
		t.Fatalf("cookie path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge != 1800 {
		t.Fatalf("cookie max-age = %d, want 1800", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Fatal("expected HttpOnly cookie")
	}
}

func TestSaveNilStateClearsCookie(t *testing.T) {
	store := testStore(t)
	req := requestWithSavedState(t, store, &State{Provider: "google"})

	w := httptest.NewRecorder()
	if err := store.Save(w, req, nil); err != nil {
		t.Fatalf("save nil state: %v", err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected expiry cookie, got %d cookies", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected overwrite-and-expire cookie, got value %q max-age %d",
			cookies[0].Value, cookies[0].MaxAge)
	}
}

func TestLoadAbsentCookie(t *testing.T) {
	store := testStore(t)
	state, err := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("load with no cookie: %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
}

func TestLoadCorruptPayload(t *testing.T) {
	store := testStore(t)

	for name, value := range map[string]string{
		"not base64":    "!!!.!!!",
		"no tag":        "YWJj",
		"garbage":       "YWJj.ZGVm",
		"empty payload": ".",
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: value})
			_, err := store.Load(req)
			if apperrors.CodeOf(err) != apperrors.CodeCorruptSession {
				t.Fatalf("expected CORRUPT_SESSION, got %v", err)
			}
		})
	}
}

func TestLoadTamperedPayload(t *testing.T) {
	store := testStore(t)
	req := requestWithSavedState(t, store, &State{Provider: "google", Nonce: "n"})

	cookie, err := req.Cookie(CookieName)
	if err != nil {
		t.Fatalf("read cookie: %v", err)
	}
	tampered := strings.Replace(cookie.Value, cookie.Value[:1], "x", 1)

	forged := httptest.NewRequest(http.MethodGet, "/", nil)
	forged.AddCookie(&http.Cookie{Name: CookieName, Value: tampered})
	_, err = store.Load(forged)
	if apperrors.CodeOf(err) != apperrors.CodeCorruptSession {
		t.Fatalf("expected CORRUPT_SESSION for tampered cookie, got %v", err)
	}
}

func TestLoadRejectsForeignSecret(t *testing.T) {
	store := testStore(t)
	req := requestWithSavedState(t, store, &State{Provider: "google"})

	other, err := NewStore("a-different-secret")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, err = other.Load(req)
	if apperrors.CodeOf(err) != apperrors.CodeCorruptSession {
		t.Fatalf("expected CORRUPT_SESSION across secrets, got %v", err)
	}
}

func TestClearExpiresMatchingCookies(t *testing.T) {
	store := testStore(t)
	req := requestWithSavedState(t, store, &State{Provider: "google"})
	req.AddCookie(&http.Cookie{Name: "unrelated", Value: "keep"})

	w := httptest.NewRecorder()
	store.Clear(w, req)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 expiry cookie, got %d", len(cookies))
	}
	if cookies[0].Name != CookieName || cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Fatalf("unexpected expiry cookie %+v", cookies[0])
	}
}

func TestClearNoCookiesIsNoop(t *testing.T) {
	store := testStore(t)
	w := httptest.NewRecorder()
	store.Clear(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := len(w.Result().Cookies()); got != 0 {
		t.Fatalf("expected no cookies written, got %d", got)
	}
}
