package app

import (
	"context"

	"golang.org/x/sync/semaphore"

	"sheetgen/domain/generation"
	"sheetgen/domain/sheet"
	"sheetgen/internal"
	"sheetgen/internal/errors"
	"sheetgen/internal/usage"
	"sheetgen/internal/workbook"
	"sheetgen/ports"
)

// GenerationService turns a generation request into a snapshot: validate the
// request, call the generator once, enforce the row/column contract, then hand
// the result to the payload dispatcher.
type GenerationService struct {
	generator   ports.GeneratorPort
	sem         *semaphore.Weighted
	defaultRows int
	opts        workbook.Options
	usage       *usage.Tracker
	logger      *internal.Logger
}

// GenerationOutcome is everything a caller may want to show about one run
type GenerationOutcome struct {
	Request  generation.Request    `json:"request"`
	Result   *generation.Result    `json:"result"`
	Snapshot *sheet.Snapshot       `json:"snapshot"`
	Audit    ports.GenerationAudit `json:"audit"`
}

// NewGenerationService caps in-flight generator calls at maxConcurrent
func NewGenerationService(generator ports.GeneratorPort, maxConcurrent, defaultRows int, opts workbook.Options, logger *internal.Logger) *GenerationService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &GenerationService{
		generator:   generator,
		sem:         semaphore.NewWeighted(int64(maxConcurrent)),
		defaultRows: defaultRows,
		opts:        opts,
		usage:       usage.NewTracker(logger),
		logger:      logger.Named("GenerationService"),
	}
}

// Generate runs one request end to end
func (s *GenerationService) Generate(ctx context.Context, req generation.Request) (*GenerationOutcome, error) {
	if !req.HasRowCount() && s.defaultRows > 0 {
		req.RowCount = s.defaultRows
	}
	norm, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	gen, err := s.generate(ctx, norm)
	if err != nil {
		return nil, err
	}
	if gen == nil || gen.Result == nil {
		return nil, errors.InternalError("generator returned no result")
	}
	s.usage.Record(gen.Audit.Usage)
	if err := gen.Result.Validate(); err != nil {
		return nil, err
	}
	if err := generation.CheckContract(norm, gen.Result); err != nil {
		s.logger.Warn("Generated data broke the request contract: %v", err)
		return nil, err
	}

	snap, err := workbook.FromPayload(gen.Result.Document(), s.opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build workbook from generated data")
	}
	s.logger.Info("Generated %s via %s", gen.Result, gen.Audit.GeneratorType)

	return &GenerationOutcome{Request: norm, Result: gen.Result, Snapshot: snap, Audit: gen.Audit}, nil
}

func (s *GenerationService) generate(ctx context.Context, req generation.Request) (*ports.SheetGeneration, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)
	return s.generator.GenerateSheetData(ctx, req)
}

// Usage returns the token usage of every generator call so far
func (s *GenerationService) Usage() usage.Summary {
	return s.usage.Summary()
}
