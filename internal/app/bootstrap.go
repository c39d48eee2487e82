package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"

	"github.com/inkpress/inkpress/internal/storage/sqlite"
	"github.com/inkpress/inkpress/internal/user"
)

// bootstrapUser is one entry of the INKPRESS_BOOTSTRAP_USERS JSON list.
type bootstrapUser struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type bootstrapEnv struct {
	Users string `env:"INKPRESS_BOOTSTRAP_USERS"`
}

// bootstrapUsers seeds accounts from the environment so a fresh install
// has someone who can log in. Existing accounts are left untouched.
func bootstrapUsers(store *sqlite.Store) error {
	var raw bootstrapEnv
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parse bootstrap env: %w", err)
	}
	if strings.TrimSpace(raw.Users) == "" {
		return nil
	}

	var entries []bootstrapUser
	if err := json.Unmarshal([]byte(raw.Users), &entries); err != nil {
		return fmt.Errorf("INKPRESS_BOOTSTRAP_USERS is not valid JSON: %w", err)
	}

	ctx := context.Background()
	for _, entry := range entries {
		email := strings.TrimSpace(entry.Email)
		password := strings.TrimSpace(entry.Password)
		if email == "" || password == "" {
			continue
		}
		existing, err := store.GetUserByEmail(ctx, email)
		if err != nil {
			return fmt.Errorf("lookup bootstrap user: %w", err)
		}
		if existing != nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash bootstrap password: %w", err)
		}
		created, err := store.CreateUser(ctx, user.CreateInput{Email: email, PasswordHash: string(hash)}, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("create bootstrap user: %w", err)
		}
		log.Printf("bootstrapped user %s (id %d)", created.Email, created.ID)
	}
	return nil
}
