// Package server parses command configuration and starts the blog server.
package server

import (
	"context"
	"flag"
	"strings"

	"github.com/inkpress/inkpress/internal/app"
)

// Config holds server command configuration.
type Config struct {
	Addr   string
	DBPath string
}

// EnvLookup returns the value for a key when present.
type EnvLookup func(string) (string, bool)

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string, lookup EnvLookup) (Config, error) {
	cfg := Config{
		Addr:   envOrDefault(lookup, "INKPRESS_HTTP_ADDR", ":8080"),
		DBPath: envOrDefault(lookup, "INKPRESS_DB_PATH", "data/inkpress.db"),
	}

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The HTTP server address")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The sqlite database path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the server.
func Run(ctx context.Context, cfg Config) error {
	return app.Run(ctx, cfg.Addr, cfg.DBPath)
}

func envOrDefault(lookup EnvLookup, key, fallback string) string {
	if lookup == nil {
		return fallback
	}
	value, ok := lookup(key)
	if !ok {
		return fallback
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}
