package app

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/inkpress/inkpress/internal/storage/sqlite"
)

func TestNewRequiresSigningSecret(t *testing.T) {
	t.Setenv("INKPRESS_JWT_SECRET", "")

	_, err := New("127.0.0.1:0", filepath.Join(t.TempDir(), "app.db"))
	if err == nil {
		t.Fatal("New() should fail without a signing secret")
	}
}

func TestServerServesHealth(t *testing.T) {
	t.Setenv("INKPRESS_JWT_SECRET", "app-test-secret")

	server, err := New("127.0.0.1:0", filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Serve(ctx) }()

	url := fmt.Sprintf("http://%s/up", server.Addr())
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(url)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("GET /up error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /up status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestBootstrapUsers(t *testing.T) {
	t.Setenv("INKPRESS_BOOTSTRAP_USERS", `[{"email":"admin@example.com","password":"bootstrap-pass"}]`)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bootstrap.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer store.Close()

	if err := bootstrapUsers(store); err != nil {
		t.Fatalf("bootstrapUsers() error = %v", err)
	}
	created, err := store.GetUserByEmail(t.Context(), "admin@example.com")
	if err != nil || created == nil {
		t.Fatalf("GetUserByEmail() = %v, %v", created, err)
	}
	if created.PasswordHash == "" || created.PasswordHash == "bootstrap-pass" {
		t.Fatal("bootstrap password must be stored hashed")
	}

	// A second run must not fail or duplicate the account.
	if err := bootstrapUsers(store); err != nil {
		t.Fatalf("second bootstrapUsers() error = %v", err)
	}
	again, err := store.GetUserByEmail(t.Context(), "admin@example.com")
	if err != nil || again == nil {
		t.Fatalf("GetUserByEmail() after rerun = %v, %v", again, err)
	}
	if again.ID != created.ID {
		t.Fatalf("rerun created a new account: id %d -> %d", created.ID, again.ID)
	}
}

func TestBootstrapUsersInvalidJSON(t *testing.T) {
	t.Setenv("INKPRESS_BOOTSTRAP_USERS", "not json")

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bootstrap.db"))
	if err != nil {
		t.Fatalf("sqlite.Open() error = %v", err)
	}
	defer store.Close()

	if err := bootstrapUsers(store); err == nil {
		t.Fatal("bootstrapUsers() should reject malformed JSON")
	}
}
