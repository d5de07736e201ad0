// Package server exposes the analysis pipeline over HTTP and WebSocket.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/NullMeDev/mediabias/internal/analyzer"
	"github.com/NullMeDev/mediabias/internal/history"
	"github.com/NullMeDev/mediabias/internal/logger"
	"github.com/NullMeDev/mediabias/internal/model"
	"github.com/NullMeDev/mediabias/internal/ratings"
	"github.com/NullMeDev/mediabias/internal/speech"
)

// Analyzer runs one analysis
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string, progress analyzer.ProgressFunc) (*model.AnalysisResult, error)
}

// Registry answers source-rating queries
type Registry interface {
	Lookup(nameOrURL string) *model.SourceRating
	All() []model.SourceRating
	Directory() []ratings.BiasGroup
}

// Speech synthesizes read-aloud audio
type Speech interface {
	Synthesize(ctx context.Context, text, voice string) (*speech.Audio, error)
}

// Dashboard serves history analytics
type Dashboard interface {
	Dashboard(ctx context.Context) (*history.Dashboard, error)
}

// Deps are the collaborators behind the routes. Speech and Dashboard may be nil.
type Deps struct {
	Analyzer  Analyzer
	Registry  Registry
	Speech    Speech
	Dashboard Dashboard
}

// Options tune the HTTP layer
type Options struct {
	// RatePerMinute limits analyze and speech calls per client; 0 disables it
	RatePerMinute  int
	AnalyzeTimeout time.Duration
}

// Server routes API requests to the pipeline
type Server struct {
	deps      Deps
	opts      Options
	log       *logger.Logger
	router    *mux.Router
	limiter   *clientLimiter
	startedAt time.Time
}

// New builds the router
func New(deps Deps, opts Options, log *logger.Logger) *Server {
	if opts.AnalyzeTimeout <= 0 {
		opts.AnalyzeTimeout = 90 * time.Second
	}
	s := &Server{
		deps:      deps,
		opts:      opts,
		log:       log,
		router:    mux.NewRouter(),
		startedAt: time.Now(),
	}
	if opts.RatePerMinute > 0 {
		s.limiter = newClientLimiter(opts.RatePerMinute)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.requestIDMiddleware, s.recoverMiddleware, s.loggingMiddleware)

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Handle("/analyze", s.rateLimited(s.handleAnalyze)).Methods(http.MethodPost)
	api.HandleFunc("/sources", s.handleSources).Methods(http.MethodGet)
	api.HandleFunc("/sources/{name}", s.handleSource).Methods(http.MethodGet)
	api.Handle("/speech", s.rateLimited(s.handleSpeech)).Methods(http.MethodPost)
	api.HandleFunc("/voices", s.handleVoices).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	api.HandleFunc("/ws", s.handleWebsocket)

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "not found")
	})
}

// ServeHTTP makes Server an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe runs until ctx ends, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.log.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}
