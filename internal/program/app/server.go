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
	"strings"
	"time"

	"github.com/labstack/echo/v5"

	httpapi "github.com/Ah-Riz/mythra-program/internal/program/api/http"
	"github.com/Ah-Riz/mythra-program/internal/program/domain"
	"github.com/Ah-Riz/mythra-program/internal/program/gategrant"
	"github.com/Ah-Riz/mythra-program/internal/program/service"
	"github.com/Ah-Riz/mythra-program/internal/program/storage/sqlite"
)

// Server hosts the program HTTP API.
type Server struct {
	listener   net.Listener
	httpServer *http.Server
	store      *sqlite.Store
}

// New creates a configured server listening on addr. The platform treasury
// address is read from MYTHRA_PLATFORM_TREASURY and is required.
func New(addr, dbPath string) (*Server, error) {
	treasury, err := platformTreasuryFromEnv()
	if err != nil {
		return nil, err
	}
	store, err := openStore(dbPath)
	if err != nil {
		return nil, err
	}
	gate, err := gateConfigFromEnv()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	svc := service.New(store, treasury)
	e := echo.New()
	httpapi.New(svc, gate).Routes(e)

	return &Server{
		listener:   listener,
		httpServer: &http.Server{Handler: e},
		store:      store,
	}, nil
}

// Addr returns the listener address for the server.
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
	defer func() {
		if err := s.store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	log.Printf("program server listening at %v", s.listener.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve HTTP: %w", err)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

func platformTreasuryFromEnv() (domain.Address, error) {
	raw := strings.TrimSpace(os.Getenv("MYTHRA_PLATFORM_TREASURY"))
	if raw == "" {
		return domain.Address{}, fmt.Errorf("MYTHRA_PLATFORM_TREASURY is required")
	}
	treasury, err := domain.ParseAddress(raw)
	if err != nil {
		return domain.Address{}, fmt.Errorf("parse platform treasury: %w", err)
	}
	return treasury, nil
}

// gateConfigFromEnv loads the check-in grant verification key. The grant
// config is optional: without it the signed check-in route rejects all
// grants.
func gateConfigFromEnv() (gategrant.Config, error) {
	if strings.TrimSpace(os.Getenv("MYTHRA_GATE_GRANT_PUBLIC_KEY")) == "" {
		return gategrant.Config{}, nil
	}
	return gategrant.LoadConfigFromEnv(nil)
}

func openStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = filepath.Join("data", "mythra.db")
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
