// Package app assembles the stores, auth plumbing, and HTTP surface into
// a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/auth/authrequest"
	"github.com/inkpress/inkpress/internal/auth/oauth"
	"github.com/inkpress/inkpress/internal/auth/token"
	"github.com/inkpress/inkpress/internal/blog"
	"github.com/inkpress/inkpress/internal/storage/sqlite"
	"github.com/inkpress/inkpress/internal/web"
)

// Server hosts the blog application.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
}

// New creates a configured server listening on the provided address.
func New(addr, dbPath string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	store, err := openStore(dbPath)
	if err != nil {
		_ = listener.Close()
		return nil, err
	}

	tokenConfig, err := token.LoadConfigFromEnv()
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}
	codec, err := token.NewCodec(tokenConfig)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}
	authRequests, err := authrequest.NewStore(tokenConfig.Secret)
	if err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	if err := bootstrapUsers(store); err != nil {
		_ = listener.Close()
		_ = store.Close()
		return nil, err
	}

	oauthConfig := oauth.LoadConfigFromEnv()
	oauthServer := oauth.NewServer(oauthConfig, authRequests, store, store, codec, tokenConfig.AccessTTL, tokenConfig.RefreshTTL)

	gate := auth.NewGate(codec, store, auth.GateConfig{
		ProtectedPrefix: "/api/",
		PublicPaths:     []string{"/api/token"},
	})

	articles := blog.NewService(store)
	webServer := web.NewServer(articles, store, store, codec, tokenConfig.AccessTTL, providerLinks(oauthConfig))

	mux := http.NewServeMux()
	oauthServer.RegisterRoutes(mux)
	webServer.RegisterRoutes(mux, gate.RequireAuth)

	return &Server{
		listener:   listener,
		httpServer: &http.Server{Handler: gate.Attach(mux)},
		store:      store,
	}, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Run creates and serves a server until the context ends.
func Run(ctx context.Context, addr, dbPath string) error {
	server, err := New(addr, dbPath)
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}

// Serve starts the server and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	defer s.closeStore()

	log.Printf("server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		err := <-serveErr
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}
}

func (s *Server) closeStore() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close store: %v", err)
	}
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "inkpress.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	return store, nil
}

func providerLinks(cfg oauth.Config) []web.ProviderLink {
	links := make([]web.ProviderLink, 0, len(cfg.Providers))
	for id, provider := range cfg.Providers {
		links = append(links, web.ProviderLink{ID: id, Name: provider.Name})
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links
}
