// Package api is the stateless JSON API: every request carries its own
// payload or snapshot and nothing is kept between calls.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"sheetgen/app"
	"sheetgen/domain/generation"
	"sheetgen/domain/sheet"
	"sheetgen/internal"
	"sheetgen/internal/errors"
	"sheetgen/internal/inspect"
	"sheetgen/internal/workbook"
)

const maxBodySize = 10 << 20

// Server routes /v1 requests to the normalization core
type Server struct {
	router     *chi.Mux
	generation *app.GenerationService
	opts       workbook.Options
	logger     *internal.Logger
}

// NewServer creates a new API server. gen may be nil, in which case
// /v1/generate reports a configuration error.
func NewServer(gen *app.GenerationService, opts workbook.Options, logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	s := &Server{
		router:     chi.NewRouter(),
		generation: gen,
		opts:       opts,
		logger:     logger.Named("API"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler exposes the router
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.logger.GetLevel() >= internal.LogLevelDebug {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/normalize", s.handleNormalize)
		r.Post("/generate", s.handleGenerate)
		r.Post("/summary", s.handleSummary)
		r.Post("/cells", s.handleCells)
		r.Post("/table", s.handleTable)
		r.Post("/stats", s.handleStats)
		r.Get("/usage", s.handleUsage)
	})
}

// Start serves on addr until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting JSON API on http://%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// handleNormalize turns any supported payload into a snapshot
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := s.opts
	if name := r.URL.Query().Get("sheet_name"); name != "" {
		opts.SheetName = name
	}
	if name := r.URL.Query().Get("workbook_name"); name != "" {
		opts.WorkbookName = name
	}

	snap, err := workbook.FromJSON(body, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.generation == nil {
		s.writeError(w, r, errors.ConfigInvalid("generation is not configured"))
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req generation.Request
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, errors.InvalidInput("request body must be a generation request object"))
		return
	}

	outcome, err := s.generation.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if s.generation == nil {
		s.writeError(w, r, errors.ConfigInvalid("generation is not configured"))
		return
	}
	writeJSON(w, http.StatusOK, s.generation.Usage())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inspect.SummaryOrEmpty(snap))
}

func (s *Server) handleCells(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sheets": inspect.ExtractCellsOrEmpty(snap)})
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readSnapshot(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	table, err := inspect.ToTable(snap, q.Get("sheet"), q.Get("headers") != "false")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.readSnapshot(w, r)
	if !ok {
		return
	}
	table, err := inspect.ToTable(snap, r.URL.Query().Get("sheet"), true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	stats, err := inspect.Describe(table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"columns": stats})
}

func (s *Server) readSnapshot(w http.ResponseWriter, r *http.Request) (*sheet.Snapshot, bool) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	snap, err := app.DecodeSnapshot(body)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return snap, true
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, errors.InvalidInput("request body too large or unreadable")
	}
	return body, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errors.ToBody(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
