package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ledgerlens/internal/analysis"
	"ledgerlens/internal/config"
	"ledgerlens/internal/ledger"
	"ledgerlens/internal/workbook"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.Server.MaxUploadBytes = 10 << 20
	cfg.Server.RateLimitRPS = 100
	cfg.Server.RateLimitBurst = 100
	loader := workbook.NewLoader(logger)
	service := analysis.NewService(logger, ledger.DefaultVocabulary(), 2)
	return NewRouter(cfg, logger, loader, service, "test")
}

func workbookUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := "상품매출 (41110)"
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	headers := []interface{}{"일자", "적요", "거래처", "차변", "대변"}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
	data := []interface{}{"03-15", "세금계산서발행", "Acme Co", 0, 1000000}
	require.NoError(t, f.SetSheetRow(sheet, "A2", &data))
	noise := []interface{}{"[ 월계 ]", "", "", 0, 1000000}
	require.NoError(t, f.SetSheetRow(sheet, "A3", &noise))

	var xlsx bytes.Buffer
	require.NoError(t, f.Write(&xlsx))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "ledger.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestAnalysisHandler_AnalyzeWorkbook(t *testing.T) {
	router := testRouter(t)
	body, contentType := workbookUpload(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/workbooks?include_records=1", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Analysis struct {
			ID     string `json:"id"`
			Sheets []struct {
				SheetName      string `json:"sheet_name"`
				Classification string `json:"classification"`
				RecordCount    int    `json:"record_count"`
			} `json:"sheets"`
		} `json:"analysis"`
		Records map[string][]map[string]string `json:"records"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Analysis.ID)
	require.Len(t, resp.Analysis.Sheets, 1)
	assert.Equal(t, "sales", resp.Analysis.Sheets[0].Classification)
	assert.Equal(t, 1, resp.Analysis.Sheets[0].RecordCount)

	rows := resp.Records["상품매출 (41110)"]
	require.Len(t, rows, 1)
	assert.Equal(t, "세금계산서발행", rows[0]["적요"])
}

func TestAnalysisHandler_MissingFile(t *testing.T) {
	router := testRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/workbooks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
}

func TestAnalysisHandler_UnreadableWorkbook(t *testing.T) {
	router := testRouter(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "not-a-workbook.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("this is not a zip archive"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/workbooks", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "WORKBOOK_UNREADABLE")
}

func TestAnalysisHandler_InvalidQuery(t *testing.T) {
	router := testRouter(t)
	body, contentType := workbookUpload(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis/workbooks?include_records=maybe", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
