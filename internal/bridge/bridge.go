// ABOUTME: Bridge orchestrator wiring config, ProPresenter client, catalog, and MCP server.
// ABOUTME: Owns the HTTP server lifecycle, health endpoints, and graceful shutdown.

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/2389/propresenter-mcp/internal/auth"
	"github.com/2389/propresenter-mcp/internal/catalog"
	"github.com/2389/propresenter-mcp/internal/config"
	"github.com/2389/propresenter-mcp/internal/mcp"
	"github.com/2389/propresenter-mcp/internal/propresenter"
	"github.com/2389/propresenter-mcp/internal/tools"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

// Bridge wires the ProPresenter client, the tool catalog, and the MCP
// server together and runs the selected transport.
type Bridge struct {
	config     *config.Config
	logger     *slog.Logger
	client     *propresenter.Client
	registry   *tools.Registry
	router     *tools.Router
	tokens     *mcp.TokenStore
	mcpServer  *mcp.Server
	httpServer *http.Server
	version    string
}

// Option adjusts Bridge construction.
type Option func(*Bridge)

// WithVersion sets the version string advertised to MCP clients.
func WithVersion(v string) Option {
	return func(b *Bridge) { b.version = v }
}

// New creates a Bridge from the given configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Bridge, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bridge{
		config:  cfg,
		logger:  logger,
		version: "dev",
	}
	for _, opt := range opts {
		opt(b)
	}

	b.client = propresenter.New(propresenter.Config{
		Host:    cfg.ProPresenter.Host,
		Port:    cfg.ProPresenter.Port,
		Timeout: cfg.ProPresenter.Timeout,
		Logger:  logger.With("component", "propresenter"),
	})

	b.registry = tools.NewRegistry(logger.With("component", "registry"))
	if err := catalog.RegisterAll(b.registry, b.client); err != nil {
		return nil, fmt.Errorf("registering tool catalog: %w", err)
	}

	b.router = tools.NewRouter(tools.RouterConfig{
		Registry: b.registry,
		Logger:   logger.With("component", "router"),
	})

	var verifier auth.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		v, err := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
		if err != nil {
			return nil, fmt.Errorf("creating JWT verifier: %w", err)
		}
		verifier = v
	}

	b.tokens = mcp.NewTokenStore()
	for _, at := range cfg.Auth.AccessTokens {
		b.tokens.AddToken(at.Token, at.Capabilities)
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Registry:      b.registry,
		Router:        b.router,
		Logger:        logger.With("component", "mcp"),
		TokenVerifier: verifier,
		TokenStore:    b.tokens,
		RequireAuth:   cfg.Auth.RequireAuth,
		DefaultCaps:   []string{catalog.CapabilityControl},
		ServerName:    "propresenter_control_server",
		ServerVersion: b.version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}
	b.mcpServer = mcpServer

	return b, nil
}

// ToolCount returns the number of registered tools.
func (b *Bridge) ToolCount() int {
	return b.registry.ToolCount()
}

// Packs returns information about the registered tool packs.
func (b *Bridge) Packs() []tools.PackInfo {
	return b.registry.ListPacks()
}

// Run starts the configured transport and blocks until the context is
// canceled or the transport fails.
func (b *Bridge) Run(ctx context.Context) error {
	b.logger.Info("starting propresenter-mcp",
		"transport", b.config.Server.Transport,
		"upstream", b.client.BaseURL(),
		"tools", b.registry.ToolCount(),
	)

	if b.config.Server.Transport == config.TransportStdio {
		return b.mcpServer.ServeStdio(ctx, os.Stdin, os.Stdout)
	}
	return b.runHTTP(ctx)
}

// runHTTP serves the MCP http transport plus health endpoints.
func (b *Bridge) runHTTP(ctx context.Context) error {
	mux := b.newMux()

	b.httpServer = &http.Server{
		Addr:              b.config.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", b.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		b.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := b.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		b.logger.Info("shutdown signal received")
	case serverErr = <-errCh:
	}

	// Shut down with a fresh context; the run context is already canceled.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := b.httpServer.Shutdown(shutdownCtx); err != nil {
		b.logger.Warn("HTTP shutdown error", "error", err)
		if serverErr == nil {
			serverErr = err
		}
	}

	return serverErr
}

// newMux builds the HTTP routes: the MCP endpoint and the health endpoints.
func (b *Bridge) newMux() *http.ServeMux {
	mux := http.NewServeMux()
	b.mcpServer.RegisterRoutes(mux)
	mux.HandleFunc("/health", b.handleHealth)
	mux.HandleFunc("/health/ready", b.handleReady)
	return mux
}

// handleHealth reports process liveness.
func (b *Bridge) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"tools":  b.registry.ToolCount(),
	})
}

// handleReady reports readiness: whether the configured ProPresenter
// instance answers a version probe.
func (b *Bridge) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	version, err := b.client.Get(r.Context(), "/v1/version")
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":       "ready",
		"propresenter": json.RawMessage(version),
	})
}

// CreateAccessToken mints an access token for the http transport carrying
// the given capabilities.
func (b *Bridge) CreateAccessToken(capabilities []string) string {
	return b.tokens.CreateToken(capabilities)
}
