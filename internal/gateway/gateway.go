// ABOUTME: Gateway orchestrator that wires the store, capability servers, and HTTP server
// ABOUTME: Manages startup order, the WhatsApp webhook, and graceful shutdown

package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/zapvendedor/zap-gateway/internal/auth"
	"github.com/zapvendedor/zap-gateway/internal/capabilities"
	"github.com/zapvendedor/zap-gateway/internal/chat"
	"github.com/zapvendedor/zap-gateway/internal/config"
	"github.com/zapvendedor/zap-gateway/internal/mcp"
	"github.com/zapvendedor/zap-gateway/internal/ollama"
	"github.com/zapvendedor/zap-gateway/internal/store"
	"github.com/zapvendedor/zap-gateway/internal/webadmin"
	"github.com/zapvendedor/zap-gateway/internal/webtool"
	"github.com/zapvendedor/zap-gateway/internal/whatsapp"
)

// Gateway orchestrates the zap-gateway server components: the SQLite
// store, the capability servers behind one protocol client, the chat
// orchestrator, and the HTTP surface (webhook, admin API, admin pages).
type Gateway struct {
	config       *config.Config
	store        store.Store
	mcpClient    *mcp.Client
	dbServer     *mcp.Server
	webServer    *mcp.Server
	model        *ollama.Client
	orchestrator *chat.Orchestrator
	webhook      *whatsapp.Webhook
	webAdmin     *webadmin.Admin
	httpServer   *http.Server
	logger       *slog.Logger
}

// initStore creates the store from config, honoring the ZAP_DB_PATH
// environment override.
func initStore(cfg *config.Config) (store.Store, error) {
	dbPath := cfg.Database.Path
	if envPath := os.Getenv("ZAP_DB_PATH"); envPath != "" {
		dbPath = envPath
	}

	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("initializing store: %w", err)
	}
	return s, nil
}

// startCapabilityServers builds the database and web capability
// servers, starts them, and connects both to a fresh protocol client.
// Any failure here aborts startup: the assistant must not come up
// without its tools.
func startCapabilityServers(s store.Store, logger *slog.Logger) (*mcp.Client, *mcp.Server, *mcp.Server, error) {
	dbServer, err := capabilities.NewDatabaseServer(s, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating database capability server: %w", err)
	}

	webServer, err := capabilities.NewWebServer(webtool.NewHTTPFetcher(30*time.Second), logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating web capability server: %w", err)
	}

	dbServer.Start()
	webServer.Start()

	client := mcp.NewClient(logger)
	if err := client.Connect(dbServer); err != nil {
		return nil, nil, nil, fmt.Errorf("connecting database server: %w", err)
	}
	if err := client.Connect(webServer); err != nil {
		return nil, nil, nil, fmt.Errorf("connecting web server: %w", err)
	}

	return client, dbServer, webServer, nil
}

// New creates a new Gateway instance with the given configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	s, err := initStore(cfg)
	if err != nil {
		return nil, err
	}

	mcpClient, dbServer, webServer, err := startCapabilityServers(s, logger)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	model := ollama.New(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.Timeout, logger)

	orchestrator := chat.New(model, mcpClient, s, logger, chat.Options{
		SystemPrompt: cfg.Assistant.SystemPrompt,
	})

	gw := &Gateway{
		config:       cfg,
		store:        s,
		mcpClient:    mcpClient,
		dbServer:     dbServer,
		webServer:    webServer,
		model:        model,
		orchestrator: orchestrator,
		webAdmin:     webadmin.NewAdmin(s, logger),
		logger:       logger.With("component", "gateway"),
	}

	mux := http.NewServeMux()

	// Health endpoints - no auth required
	mux.HandleFunc("/healthz", gw.handleHealth)
	mux.HandleFunc("/healthz/ready", gw.handleReady)

	// WhatsApp webhook
	if cfg.WhatsApp.Enabled {
		waOpts := []whatsapp.ClientOption{}
		if cfg.WhatsApp.GraphURL != "" {
			waOpts = append(waOpts, whatsapp.WithGraphURL(cfg.WhatsApp.GraphURL))
		}
		waClient := whatsapp.NewClient(cfg.WhatsApp.PhoneNumberID, cfg.WhatsApp.AccessToken, waOpts...)
		gw.webhook = whatsapp.NewWebhook(cfg.WhatsApp.VerifyToken, orchestrator, waClient, logger)
		mux.Handle("/webhook", gw.webhook)
		logger.Info("whatsapp webhook enabled at /webhook")
	} else {
		logger.Warn("whatsapp frontend disabled - only the admin surface is served")
	}

	// Admin JSON API - JWT-protected when a secret is configured
	gw.registerAPIRoutes(mux)

	// Admin HTML pages
	gw.webAdmin.Register(mux)
	logger.Info("admin pages enabled at /admin")

	gw.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return gw, nil
}

// Orchestrator exposes the chat orchestrator, used by the local REPL.
func (g *Gateway) Orchestrator() *chat.Orchestrator {
	return g.orchestrator
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (g *Gateway) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		g.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := g.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		g.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		g.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := g.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (g *Gateway) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.Shutdown(ctx)
}

// Shutdown gracefully stops the HTTP server and releases resources.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.logger.Info("shutting down gateway")

	var errs []error
	if err := g.httpServer.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("HTTP shutdown: %w", err))
	}

	if g.webhook != nil {
		g.webhook.Close()
	}
	g.dbServer.Stop()
	g.webServer.Stop()

	if err := g.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store close: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// handleHealth returns 200 OK if the server is alive.
func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 200 OK if the model backend is reachable and has
// the configured model available.
func (g *Gateway) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	available, err := g.model.Status(ctx)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("model backend unreachable"))
		return
	}
	if !available {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = fmt.Fprintf(w, "model %q not available", g.model.Model())
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// authMiddleware returns the JWT middleware when a secret is
// configured, or a pass-through otherwise.
func (g *Gateway) authMiddleware() func(http.Handler) http.Handler {
	if g.config.Auth.JWTSecret == "" {
		g.logger.Warn("HTTP auth disabled - no jwt_secret configured")
		return func(next http.Handler) http.Handler { return next }
	}
	verifier := auth.NewJWTVerifier([]byte(g.config.Auth.JWTSecret))
	g.logger.Info("HTTP auth middleware enabled")
	return auth.Middleware(verifier)
}
