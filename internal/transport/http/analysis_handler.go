package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"ledgerlens/internal/analysis"
	apierrors "ledgerlens/internal/errors"
	"ledgerlens/internal/workbook"
)

// AnalysisHandler serves workbook upload-and-analyze requests.
type AnalysisHandler struct {
	loader         *workbook.Loader
	service        *analysis.Service
	logger         *slog.Logger
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewAnalysisHandler creates the handler.
func NewAnalysisHandler(loader *workbook.Loader, service *analysis.Service, logger *slog.Logger, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		loader:         loader,
		service:        service,
		logger:         logger.With(slog.String("component", "analysis_handler")),
		validate:       validator.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/workbooks", h.AnalyzeWorkbook)
	return r
}

// analyzeQuery are the validated query options for an analysis request.
type analyzeQuery struct {
	IncludeRecords string `validate:"omitempty,oneof=0 1 true false"`
}

// analyzeResponse wraps the analysis result; records are attached per
// sheet only when explicitly requested.
type analyzeResponse struct {
	Analysis *analysis.WorkbookAnalysis `json:"analysis"`
	Records  map[string][]recordJSON    `json:"records,omitempty"`
}

type recordJSON map[string]string

func (a *analyzeResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// AnalyzeWorkbook handles POST /api/v1/analysis/workbooks: a multipart
// upload with the workbook under the "file" field.
func (h *AnalysisHandler) AnalyzeWorkbook(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	q := analyzeQuery{IncludeRecords: r.URL.Query().Get("include_records")}
	if err := h.validate.Struct(&q); err != nil {
		apierrors.Handle(w, r, apierrors.ErrValidation("include_records", "must be one of 0, 1, true, false"))
		return
	}
	includeRecords := q.IncludeRecords == "1" || q.IncludeRecords == "true"

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		apierrors.Handle(w, r, apierrors.ErrUploadTooLarge(h.maxUploadBytes))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.Handle(w, r, apierrors.ErrValidation("file", "multipart field 'file' is required"))
		return
	}
	defer file.Close()

	wb, err := h.loader.LoadReader(file, header.Filename)
	if err != nil {
		h.logger.WarnContext(r.Context(), "unreadable workbook upload",
			slog.String("request_id", reqID),
			slog.String("filename", header.Filename),
			slog.String("error", err.Error()))
		apierrors.Handle(w, r, apierrors.ErrWorkbookUnreadable(err))
		return
	}

	result, err := h.service.AnalyzeWorkbook(r.Context(), wb)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "workbook analysis failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()))
		apierrors.Handle(w, r, apierrors.ErrInternalServer)
		return
	}

	resp := &analyzeResponse{Analysis: result}
	if includeRecords {
		resp.Records = recordsBySheet(result)
	}
	render.Status(r, http.StatusOK)
	render.Render(w, r, resp)
}

// recordsBySheet flattens each sheet's records into label-keyed maps
// for JSON consumers. Duplicate header labels keep the last value; the
// CSV export preserves all columns positionally.
func recordsBySheet(result *analysis.WorkbookAnalysis) map[string][]recordJSON {
	out := make(map[string][]recordJSON, len(result.Sheets))
	for _, sheet := range result.Sheets {
		if sheet.Empty() {
			continue
		}
		rows := make([]recordJSON, 0, len(sheet.Records))
		for _, rec := range sheet.Records {
			row := make(recordJSON, len(sheet.Header))
			for i, label := range sheet.Header {
				if i < len(rec) {
					row[label] = rec[i].String()
				} else {
					row[label] = ""
				}
			}
			rows = append(rows, row)
		}
		out[sheet.SheetName] = rows
	}
	return out
}
