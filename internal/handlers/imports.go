package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"hotel-inventory-api/internal/export"
	"hotel-inventory-api/pkg/importer"
)

// ImportsHandler handles Excel import operations
type ImportsHandler struct {
	Sink        importer.Sink
	MaxBytes    int64
	MappingPath string
	Log         *zap.Logger
}

// NewImportsHandler creates a new imports handler
func NewImportsHandler(sink importer.Sink, mappingPath string, log *zap.Logger) *ImportsHandler {
	return &ImportsHandler{
		Sink:        sink,
		MaxBytes:    20 << 20, // 20 MB
		MappingPath: mappingPath,
		Log:         log,
	}
}

// UploadExcel imports devices from an uploaded workbook
func (h *ImportsHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		WriteErrorMessage(w, http.StatusBadRequest, "content-type must be multipart/form-data", "INVALID_CONTENT_TYPE")
		return
	}

	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, "invalid multipart form: "+err.Error(), "INVALID_FORM")
		return
	}

	dryRun := r.FormValue("dry_run") == "true"
	maxErrors := 50
	if v := r.FormValue("max_errors"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			WriteErrorMessage(w, http.StatusBadRequest, "max_errors must be a positive integer", "INVALID_MAX_ERRORS")
			return
		}
		maxErrors = n
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, "file is required: "+err.Error(), "MISSING_FILE")
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		WriteErrorMessage(w, http.StatusBadRequest, "only .xlsx files are accepted", "INVALID_FILE_TYPE")
		return
	}

	sum, impErr := importer.ImportExcel(r.Context(), h.Sink, file, importer.ImportOptions{
		MappingPath: h.MappingPath,
		DryRun:      dryRun,
		MaxErrors:   maxErrors,
	})
	h.Log.Info("device import finished",
		zap.String("file", header.Filename),
		zap.Bool("dry_run", dryRun),
		zap.Int("created", sum.Created),
		zap.Int("assigned", sum.Assigned),
		zap.Int("errors", sum.Errors),
	)
	if impErr != nil {
		code := "IMPORT_FAILED"
		if errors.Is(impErr, importer.ErrTooManyErrors) {
			code = "TOO_MANY_ERRORS"
		}
		WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": impErr.Error(),
			"code":  code,
			"data":  sum,
		})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"data": sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// Template serves an example workbook with the expected headers.
func (h *ImportsHandler) Template(w http.ResponseWriter, r *http.Request) {
	f, err := importer.Template()
	if err != nil {
		WriteError(w, h.Log, err)
		return
	}
	attachment(w, importer.TemplateFileName, xlsxContentType)
	if err := export.Write(w, f); err != nil {
		h.Log.Warn("write import template", zap.Error(err))
	}
}

// isXLSX checks if the uploaded file is an Excel .xlsx file
func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}
