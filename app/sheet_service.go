package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"sheetgen/adapters/excel"
	"sheetgen/domain/core"
	"sheetgen/domain/generation"
	"sheetgen/domain/sheet"
	"sheetgen/internal"
	"sheetgen/internal/errors"
	"sheetgen/internal/inspect"
	"sheetgen/internal/jsonval"
	"sheetgen/internal/workbook"
	"sheetgen/ports"
)

// Populate sources
const (
	SourceJSON      = "json"
	SourceGenerated = "generated"
	SourceImport    = "import"
)

// PopulateInput is the text box plus the generation fields next to it
type PopulateInput struct {
	Text        string `json:"text"`
	RowCount    *int   `json:"row_count,omitempty"`
	Columns     string `json:"columns"`
	Constraints string `json:"constraints"`
}

// PopulateResult describes how the session snapshot was replaced
type PopulateResult struct {
	SessionID core.SessionID         `json:"session_id"`
	Source    string                 `json:"source"`
	Summary   *inspect.Summary       `json:"summary"`
	Audit     *ports.GenerationAudit `json:"audit,omitempty"`
	Snapshot  *sheet.Snapshot        `json:"-"`
}

// SheetService owns the per-session workbook: populate, import, inspect,
// export and clear.
type SheetService struct {
	store      ports.SnapshotRepository
	generation *GenerationService
	reader     *excel.DataReader
	opts       workbook.Options
	logger     *internal.Logger
}

// NewSheetService creates a new sheet service
func NewSheetService(store ports.SnapshotRepository, gen *GenerationService, opts workbook.Options, logger *internal.Logger) *SheetService {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &SheetService{
		store:      store,
		generation: gen,
		reader:     excel.NewDataReader(logger),
		opts:       opts,
		logger:     logger.Named("SheetService"),
	}
}

// CreateSession starts an empty session
func (s *SheetService) CreateSession(ctx context.Context) (core.SessionID, error) {
	id := core.NewSessionID()
	if err := s.store.Save(ctx, id, nil); err != nil {
		return "", err
	}
	s.logger.Debug("Created session %s", id)
	return id, nil
}

// Snapshot returns the session snapshot, nil when nothing is loaded
func (s *SheetService) Snapshot(ctx context.Context, id core.SessionID) (*sheet.Snapshot, error) {
	stored, err := s.store.Get(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return nil, &errors.AppError{Code: errors.CodeNotFound, Message: "session not found", Cause: err}
		}
		return nil, err
	}
	return stored.Snapshot, nil
}

// Populate replaces the snapshot from free text. Text that parses as JSON is
// dispatched as a payload; anything else is a generation request.
func (s *SheetService) Populate(ctx context.Context, id core.SessionID, in PopulateInput) (*PopulateResult, error) {
	if _, err := s.Snapshot(ctx, id); err != nil {
		return nil, err
	}

	text := strings.TrimSpace(in.Text)
	result := &PopulateResult{SessionID: id}

	if payload, err := jsonval.ParseString(text); err == nil {
		snap, err := workbook.FromPayload(payload, s.opts)
		if err != nil {
			return nil, err
		}
		result.Source = SourceJSON
		result.Snapshot = snap
	} else {
		if s.generation == nil {
			return nil, errors.ConfigInvalid("generation is not configured")
		}
		req := generation.Request{
			UserRequest: text,
			Columns:     generation.ParseColumnList(in.Columns),
			Constraints: in.Constraints,
		}
		if in.RowCount != nil {
			req = req.WithRowCount(*in.RowCount)
		}
		outcome, err := s.generation.Generate(ctx, req)
		if err != nil {
			return nil, err
		}
		result.Source = SourceGenerated
		result.Snapshot = outcome.Snapshot
		result.Audit = &outcome.Audit
	}

	if err := s.store.Save(ctx, id, result.Snapshot); err != nil {
		return nil, err
	}
	result.Summary = inspect.SummaryOrEmpty(result.Snapshot)
	s.logger.Info("Session %s populated from %s (%d cells)", id, result.Source, result.Summary.TotalCells)
	return result, nil
}

// Import replaces the snapshot with an uploaded file. JSON files are snapshot
// documents; CSV and XLSX files go through the grid builder.
func (s *SheetService) Import(ctx context.Context, id core.SessionID, fileName string, src io.Reader) (*PopulateResult, error) {
	if _, err := s.Snapshot(ctx, id); err != nil {
		return nil, err
	}
	format, err := excel.DetectFormat(fileName)
	if err != nil {
		return nil, err
	}

	var snap *sheet.Snapshot
	if format == excel.FormatJSON {
		data, err := io.ReadAll(src)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read upload")
		}
		snap, err = DecodeSnapshot(data)
		if err != nil {
			return nil, err
		}
	} else {
		grid, err := s.reader.ReadGrid(src, format)
		if err != nil {
			return nil, err
		}
		snap = workbook.BuildFromGrid(grid, s.opts)
	}

	if err := s.store.Save(ctx, id, snap); err != nil {
		return nil, err
	}
	s.logger.Info("Session %s imported %s", id, fileName)
	return &PopulateResult{SessionID: id, Source: SourceImport, Snapshot: snap, Summary: inspect.SummaryOrEmpty(snap)}, nil
}

// DecodeSnapshot parses an uploaded snapshot document. It must be a JSON
// object; everything inside it is read leniently.
func DecodeSnapshot(data []byte) (*sheet.Snapshot, error) {
	doc, err := jsonval.Parse(data)
	if err != nil {
		return nil, errors.InvalidInput("uploaded file is not valid JSON").WithField("file")
	}
	snap, err := sheet.FromDocument(doc)
	if err != nil {
		return nil, errors.InvalidInput("uploaded JSON must be an object").WithField("file")
	}
	return snap, nil
}

// Summary is never an error for a loaded session; an empty session has an
// empty summary.
func (s *SheetService) Summary(ctx context.Context, id core.SessionID) (*inspect.Summary, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return inspect.SummaryOrEmpty(snap), nil
}

// Cells returns the dense grid of every non-empty sheet
func (s *SheetService) Cells(ctx context.Context, id core.SessionID) ([]inspect.SheetGrid, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return inspect.ExtractCellsOrEmpty(snap), nil
}

// Previews returns the stringified head of every non-empty sheet
func (s *SheetService) Previews(ctx context.Context, id core.SessionID, limit int) ([]inspect.Preview, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	return inspect.Previews(snap, limit), nil
}

// Table returns one sheet as a table; an empty session is NOT_FOUND
func (s *SheetService) Table(ctx context.Context, id core.SessionID, sheetID string, hasHeaders bool) (*inspect.Table, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, errors.NotFound("snapshot")
	}
	return inspect.ToTable(snap, sheetID, hasHeaders)
}

// Stats describes the numeric columns of one sheet
func (s *SheetService) Stats(ctx context.Context, id core.SessionID, sheetID string) ([]inspect.ColumnStats, error) {
	t, err := s.Table(ctx, id, sheetID, true)
	if err != nil {
		return nil, err
	}
	return inspect.Describe(t)
}

// Report renders the markdown summary of the session
func (s *SheetService) Report(ctx context.Context, id core.SessionID) (string, error) {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return "", err
	}
	return inspect.Markdown(snap, inspect.PreviewRows), nil
}

// Export writes the session snapshot in format
func (s *SheetService) Export(ctx context.Context, id core.SessionID, format excel.Format, w io.Writer) error {
	snap, err := s.Snapshot(ctx, id)
	if err != nil {
		return err
	}
	if snap == nil {
		return errors.NotFound("snapshot")
	}
	return ExportSnapshot(snap, format, w)
}

// ExportSnapshot writes snap as JSON, CSV or XLSX
func ExportSnapshot(snap *sheet.Snapshot, format excel.Format, w io.Writer) error {
	switch format {
	case excel.FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return errors.Wrap(err, "failed to encode snapshot")
		}
		_, err := w.Write(buf.Bytes())
		return err
	case excel.FormatCSV:
		return excel.WriteCSV(w, snap)
	case excel.FormatXLSX:
		return excel.WriteXLSX(w, snap)
	}
	return errors.InvalidInput(fmt.Sprintf("unsupported export format %q", format))
}

// Clear discards the snapshot but keeps the session
func (s *SheetService) Clear(ctx context.Context, id core.SessionID) error {
	if _, err := s.Snapshot(ctx, id); err != nil {
		return err
	}
	return s.store.Save(ctx, id, nil)
}

// DeleteSession forgets the session entirely
func (s *SheetService) DeleteSession(ctx context.Context, id core.SessionID) error {
	return s.store.Delete(ctx, id)
}

// Example returns the canned generation request
func (s *SheetService) Example() generation.Request {
	return generation.ExampleRequest()
}
