// Package api provides the HTTP server the frontend talks to.
//
// It exposes one route per financial statement kind, backed by the
// configured statement provider, an AI-analysis proxy, and two diagnostic
// routes. Success bodies are bare JSON; errors are {"error": "<message>"}.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/seenimoa/fingateway/internal/config"
	"github.com/seenimoa/fingateway/internal/llm"
	"github.com/seenimoa/fingateway/internal/logger"
	"github.com/seenimoa/fingateway/internal/provider"
	"github.com/seenimoa/fingateway/pkg/models"
)

// maxAIRequestBytes caps the AI-analysis request body.
const maxAIRequestBytes = 1 << 20

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	cfg      *config.Config
	provider provider.StatementProvider
	ai       llm.Forwarder
	logger   *zap.Logger
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config, p provider.StatementProvider, ai llm.Forwarder, log *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("api: nil config")
	}
	if p == nil {
		return nil, errors.New("api: nil statement provider")
	}
	if ai == nil {
		return nil, errors.New("api: nil AI forwarder")
	}
	if log == nil {
		log = zap.NewNop()
	}

	srv := &Server{
		cfg:      cfg,
		provider: p,
		ai:       ai,
		logger:   log,
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server and blocks until SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) ListenAndServe(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Serve(ctx, addr)
}

// Serve runs the HTTP server until ctx is done.
func (s *Server) Serve(ctx context.Context, addr string) error {
	// No write timeout: upstream calls are not bounded by default.
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			zap.String("addr", addr),
			zap.String("provider", s.provider.Info().Name))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logger.Middleware(s.logger))
	r.Use(middleware.Recoverer)

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "HEAD", "PUT", "PATCH", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Diagnostics
	r.Get("/", s.handleHealth)
	r.Get("/test-keys", s.handleTestKeys)

	r.Route("/api", func(r chi.Router) {
		// Statements
		for _, kind := range models.AllKinds() {
			r.Get("/"+kind.String()+"/{ticker}", s.handleStatement(kind))
		}

		// AI analysis
		r.Post("/ai-analysis", s.handleAIAnalysis)
	})

	return r
}

// ── Handlers ──

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "Backend is running!"})
}

// handleStatement serves one statement kind for the {ticker} path parameter.
func (s *Server) handleStatement(kind models.StatementKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ticker := chi.URLParam(r, "ticker")

		// The upstream call completes even if the client goes away.
		ctx := context.WithoutCancel(r.Context())

		out, err := provider.Run(ctx, s.provider, kind, ticker)
		if err != nil {
			var rejected *provider.ErrUpstreamRejected
			if errors.As(err, &rejected) {
				writeError(w, http.StatusTooManyRequests, rejected.Message)
				return
			}
			s.logger.Error("statement request failed",
				zap.String("statement", kind.String()),
				zap.String("ticker", ticker),
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.Error(err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// handleAIAnalysis forwards the request body to the AI upstream and relays
// its JSON answer with status 200, whatever the upstream status was.
func (s *Server) handleAIAnalysis(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxAIRequestBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body: "+err.Error())
		return
	}

	body, err := llm.PrepareBody(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.ai.Forward(context.WithoutCancel(r.Context()), body)
	if err != nil {
		s.logger.Error("ai analysis failed",
			zap.String("upstream", s.ai.Name()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// ── Response helpers ──

// writeJSON writes v as JSON. json.RawMessage values are written byte for
// byte.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")

	if raw, ok := v.(json.RawMessage); ok {
		w.WriteHeader(status)
		_, _ = w.Write(raw)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to encode response"}`))
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
