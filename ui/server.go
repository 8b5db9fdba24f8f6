package ui

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sheetgen/adapters/excel"
	"sheetgen/app"
	"sheetgen/internal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server is the browser-facing workbook server: one page plus the session
// JSON API it talks to.
type Server struct {
	router    *gin.Engine
	sheets    *app.SheetService
	templates *template.Template
	logger    *internal.Logger
}

// NewServer creates a new web server instance. mode is a gin mode
// (debug, release or test).
func NewServer(sheets *app.SheetService, mode string, logger *internal.Logger) (*Server, error) {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	if mode != "" {
		gin.SetMode(mode)
	}

	s := &Server{
		router: gin.New(),
		sheets: sheets,
		logger: logger.Named("UI"),
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)

	api := s.router.Group("/api")
	api.GET("/example", s.handleExample)
	api.POST("/sessions", s.handleCreateSession)

	sessions := api.Group("/sessions/:id")
	sessions.POST("/populate", s.handlePopulate)
	sessions.POST("/import", s.handleImport)
	sessions.GET("/summary", s.handleSummary)
	sessions.GET("/summary.html", s.handleSummaryHTML)
	sessions.GET("/cells", s.handleCells)
	sessions.GET("/table", s.handleTable)
	sessions.GET("/stats", s.handleStats)
	sessions.GET("/export.json", s.handleExport(excel.FormatJSON))
	sessions.GET("/export.csv", s.handleExport(excel.FormatCSV))
	sessions.GET("/export.xlsx", s.handleExport(excel.FormatXLSX))
	sessions.POST("/clear", s.handleClear)
	sessions.DELETE("", s.handleDeleteSession)
}

// Start serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting sheet UI on http://%s", addr)
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
		s.logger.Info("Shutting down sheet UI")
		return srv.Shutdown(shutdownCtx)
	}
}
