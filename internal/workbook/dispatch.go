package workbook

import (
	"fmt"

	"sheetgen/domain/sheet"
	"sheetgen/internal/errors"
	"sheetgen/internal/jsonval"
)

// PayloadKind names the shape the dispatcher recognised.
type PayloadKind string

const (
	KindEmpty      PayloadKind = "empty"
	KindRecords    PayloadKind = "records"
	KindRows       PayloadKind = "rows"
	KindHeaderRows PayloadKind = "headers_rows"
)

// Classify decides which builder handles payload. Only the first element of a
// list is inspected.
func Classify(payload any) (PayloadKind, error) {
	if list, ok := asList(payload); ok {
		if len(list) == 0 {
			return KindEmpty, nil
		}
		switch {
		case jsonval.IsObject(list[0]):
			return KindRecords, nil
		case isList(list[0]):
			return KindRows, nil
		}
		return "", errors.UnsupportedPayload(fmt.Sprintf("list of %s is not a supported payload", describe(list[0])))
	}

	if jsonval.IsObject(payload) {
		headers, hasHeaders := jsonval.Lookup(payload, "headers")
		rows, hasRows := jsonval.Lookup(payload, "rows")
		if hasHeaders && hasRows && isList(headers) && isList(rows) {
			return KindHeaderRows, nil
		}
		return "", errors.UnsupportedPayload("object payload needs \"headers\" and \"rows\" arrays")
	}

	return "", errors.UnsupportedPayload(fmt.Sprintf("%s is not a supported payload", describe(payload)))
}

// FromPayload converts any decoded payload into a snapshot.
func FromPayload(payload any, opts Options) (*sheet.Snapshot, error) {
	kind, err := Classify(payload)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindEmpty:
		return BuildFromGrid([][]any{{}}, opts), nil
	case KindRecords:
		list, _ := asList(payload)
		return BuildFromRecords(list, opts)
	case KindRows:
		return BuildFromValue(payload, opts)
	default:
		headers, _ := jsonval.Lookup(payload, "headers")
		rows, _ := jsonval.Lookup(payload, "rows")
		head, _ := asList(headers)
		body, _ := asList(rows)
		grid := make([]any, 0, len(body)+1)
		grid = append(grid, head)
		grid = append(grid, body...)
		return BuildFromValue(grid, opts)
	}
}

// FromJSON decodes raw JSON, preserving key order, and dispatches it.
func FromJSON(data []byte, opts Options) (*sheet.Snapshot, error) {
	payload, err := jsonval.Parse(data)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return FromPayload(payload, opts)
}

func isList(v any) bool {
	_, ok := asList(v)
	return ok
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	if sheet.IsNumber(v) {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
