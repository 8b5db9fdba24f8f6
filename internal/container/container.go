package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"sheetgen/adapters/db"
	"sheetgen/adapters/llm"
	"sheetgen/app"
	"sheetgen/internal"
	"sheetgen/internal/config"
	"sheetgen/internal/migration"
	"sheetgen/internal/session"
	"sheetgen/internal/workbook"
	"sheetgen/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; DB is nil for the memory store
	DB    *sqlx.DB
	Store ports.SnapshotRepository

	Generator  ports.GeneratorPort
	Generation *app.GenerationService
	Sheets     *app.SheetService
}

// New wires every component from cfg. The session store is opened and
// migrated here, so ctx bounds the database connect.
func New(ctx context.Context, cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	c := &Container{Config: cfg, Logger: logger}

	if err := c.initStore(ctx); err != nil {
		return nil, err
	}

	gen, err := llm.NewGenerator(LLMConfig(cfg), logger)
	if err != nil {
		c.Shutdown(ctx)
		return nil, err
	}
	c.Generator = gen

	opts := WorkbookOptions(cfg)
	c.Generation = app.NewGenerationService(gen, cfg.Generation.MaxConcurrent, cfg.Generation.DefaultRows, opts, logger)
	c.Sheets = app.NewSheetService(c.Store, c.Generation, opts, logger)

	logger.Info("Container ready: provider=%s model=%s store=%s", cfg.AI.Provider, cfg.AI.Model, cfg.Store.Driver)
	return c, nil
}

func (c *Container) initStore(ctx context.Context) error {
	if c.Config.Store.Driver == "memory" {
		c.Store = session.NewMemoryStore()
		return nil
	}

	conn, err := db.Open(ctx, c.Config.Store.Driver, c.Config.Store.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migration.NewRunner(c.Logger).Run(ctx, conn); err != nil {
		conn.Close()
		return err
	}
	c.DB = conn
	c.Store = db.NewSnapshotRepository(conn)
	return nil
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	err := c.DB.Close()
	c.DB = nil
	return err
}

// LLMConfig maps application settings onto the LLM adapter config
func LLMConfig(cfg *config.Config) llm.Config {
	return llm.Config{
		Provider:            cfg.AI.Provider,
		Model:               cfg.AI.Model,
		APIKey:              cfg.AI.APIKey(),
		BaseURL:             cfg.AI.BaseURL,
		Temperature:         cfg.AI.Temperature,
		MaxTokens:           cfg.AI.MaxTokens,
		Timeout:             cfg.AI.Timeout,
		PromptsDir:          cfg.AI.PromptsDir,
		FallbackToHeuristic: cfg.AI.UseHeuristic,
	}
}

// WorkbookOptions are the builder options for the configured sheet names
func WorkbookOptions(cfg *config.Config) workbook.Options {
	return workbook.Options{SheetName: cfg.Sheet.SheetName, WorkbookName: cfg.Sheet.WorkbookName}
}
