package excel

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetgen/internal"
	"sheetgen/internal/errors"
)

// DataReader turns uploaded CSV and Excel files into grids for the grid
// builder. The first row is kept as data; headers are not interpreted here.
type DataReader struct {
	logger *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{logger: logger.Named("DataReader")}
}

// DetectFormat picks the format from a file name extension
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", fileName)).WithField("file")
}

// ReadGrid reads r in the given tabular format
func (r *DataReader) ReadGrid(src io.Reader, format Format) ([][]any, error) {
	switch format {
	case FormatCSV:
		return r.readCSV(src)
	case FormatXLSX:
		return r.readExcel(src)
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("%s is not a tabular format", format))
	}
}

func (r *DataReader) readExcel(src io.Reader) ([][]any, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: "failed to open Excel file", Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.InvalidInput("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: "failed to read sheet " + sheets[0], Cause: err}
	}
	r.logger.Debug("Sheet %q read in %.2fms (%d rows)", sheets[0], float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	return processRows(rows), nil
}

func (r *DataReader) readCSV(src io.Reader) ([][]any, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &errors.AppError{Code: errors.CodeInvalidInput, Message: "failed to read CSV file", Cause: err}
	}
	r.logger.Debug("CSV file read (%d rows)", len(rows))

	return processRows(rows), nil
}

// processRows converts raw string rows into typed grid rows
func processRows(rows [][]string) [][]any {
	grid := make([][]any, len(rows))
	for i, row := range rows {
		out := make([]any, len(row))
		for j, cell := range row {
			out[j] = InferValue(cell)
		}
		grid[i] = out
	}
	return grid
}

// InferValue types a raw text cell: blank is nil, true/false in lower, title
// or upper case become booleans, finite JSON-style numbers keep their text as
// json.Number, everything else stays a string. Numbers with leading zeros such
// as postal codes stay text.
func InferValue(raw string) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	if !jsonNumber.MatchString(s) {
		return raw
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) {
		return json.Number(s)
	}
	return raw
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)
