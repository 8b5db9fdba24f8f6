package ui

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"

	"sheetgen/adapters/llm/heuristic"
	"sheetgen/app"
	"sheetgen/internal/session"
	"sheetgen/internal/workbook"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	gen := app.NewGenerationService(heuristic.NewGenerator(), 1, 0, workbook.DefaultOptions(), nil)
	sheets := app.NewSheetService(session.NewMemoryStore(), gen, workbook.DefaultOptions(), nil)
	srv, err := NewServer(sheets, "test", nil)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/sessions", nil, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.SessionID)
	return body.SessionID
}

func TestIndexPage(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Generate a mentorship spreadsheet")
	assert.Contains(t, rec.Body.String(), "</html>")
}

func TestExampleEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/example", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, float64(12), body["row_count"])
}

func TestPopulateJSONThenInspect(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)
	base := "/api/sessions/" + id

	payload, _ := json.Marshal(map[string]any{"text": `{"headers":["Name","Score"],"rows":[["Ana",1],["Bo",3]]}`})
	rec := do(t, h, http.MethodPost, base+"/populate", payload, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"json"`)

	rec = do(t, h, http.MethodGet, base+"/summary", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_cells":6`)

	rec = do(t, h, http.MethodGet, base+"/cells", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `[["Name","Score"],["Ana",1],["Bo",3]]`)

	rec = do(t, h, http.MethodGet, base+"/cells?preview=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `[["Name","Score"]]`)

	rec = do(t, h, http.MethodGet, base+"/stats", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"column":"Score"`)

	rec = do(t, h, http.MethodGet, base+"/summary.html", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<table>")
	assert.Contains(t, rec.Body.String(), "Sheet: Generated Data")

	rec = do(t, h, http.MethodGet, base+"/export.csv", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Name,Score\nAna,1\nBo,3\n", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "workbook.csv")

	rec = do(t, h, http.MethodGet, base+"/export.xlsx", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	v, err := f.GetCellValue("Generated Data", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Ana", v)
	require.NoError(t, f.Close())
}

func TestPopulateGeneratesFromText(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)

	payload, _ := json.Marshal(map[string]any{"text": "people", "row_count": 5, "columns": "Name, Country"})
	rec := do(t, h, http.MethodPost, "/api/sessions/"+id+"/populate", payload, "application/json")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"generated"`)

	rec = do(t, h, http.MethodGet, "/api/sessions/"+id+"/table", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var table struct {
		Columns []string `json:"columns"`
		Rows    [][]any  `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &table))
	assert.Equal(t, []string{"Name", "Country"}, table.Columns)
	assert.Len(t, table.Rows, 5)
}

func TestErrorStatuses(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)
	base := "/api/sessions/" + id

	rec := do(t, h, http.MethodGet, "/api/sessions/not-a-uuid/summary", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/sessions/0190a6d2-6a3c-7cc1-8f32-4a1d9e1c2b3a/summary", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/populate", []byte(`{"text":"{\"foo\":1}"}`), "application/json")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNSUPPORTED_PAYLOAD")

	rec = do(t, h, http.MethodPost, base+"/populate", []byte(`{"text":"   "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"user_request"`)

	rec = do(t, h, http.MethodGet, base+"/table", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, base+"/export.json", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, h, http.MethodGet, base+"/cells?preview=zero", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportClearDelete(t *testing.T) {
	h := newTestServer(t)
	id := createSession(t, h)
	base := "/api/sessions/" + id

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "people.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("Name,Age\nAna,31\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	rec := do(t, h, http.MethodPost, base+"/import", body.Bytes(), mw.FormDataContentType())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"source":"import"`)

	rec = do(t, h, http.MethodGet, base+"/export.json", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"sheetOrder"`))

	rec = do(t, h, http.MethodPost, base+"/clear", nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, base+"/summary", nil, "")
	assert.Contains(t, rec.Body.String(), `"num_sheets":0`)

	rec = do(t, h, http.MethodDelete, base, nil, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, base+"/summary", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, base+"/import", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
