package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/tealeg/xlsx/v3"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/export"
	"hotel-inventory-api/internal/state"
	"hotel-inventory-api/internal/stats"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	jsonContentType = "application/json"

	maxBackupBytes = 50 << 20
)

// ExportsHandler serves the report workbooks and JSON backups built from the cache.
type ExportsHandler struct {
	State *state.Store
	Log   *zap.Logger
	Now   func() time.Time
}

func NewExportsHandler(st *state.Store, log *zap.Logger) *ExportsHandler {
	return &ExportsHandler{State: st, Log: log, Now: time.Now}
}

func attachment(w http.ResponseWriter, name, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}

func (h *ExportsHandler) workbook(w http.ResponseWriter, kind export.Kind, build func() (*xlsx.File, error)) {
	f, err := build()
	if err != nil {
		WriteError(w, h.Log, err)
		return
	}
	attachment(w, export.FileName(kind, h.Now()), xlsxContentType)
	if err := export.Write(w, f); err != nil {
		h.Log.Warn("write workbook", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (h *ExportsHandler) document(w http.ResponseWriter, kind export.Kind, build func(time.Time) ([]byte, error)) {
	now := h.Now()
	data, err := build(now)
	if err != nil {
		WriteError(w, h.Log, err)
		return
	}
	attachment(w, export.FileName(kind, now), jsonContentType)
	if _, err := w.Write(data); err != nil {
		h.Log.Warn("write backup", zap.String("kind", string(kind)), zap.Error(err))
	}
}

// AssignmentReport serves the device, personnel and assignment workbook.
func (h *ExportsHandler) AssignmentReport(w http.ResponseWriter, r *http.Request) {
	h.workbook(w, export.AssignmentReport, func() (*xlsx.File, error) {
		return export.AssignmentWorkbook(h.State.Snapshot())
	})
}

func (h *ExportsHandler) InventoryReport(w http.ResponseWriter, r *http.Request) {
	h.workbook(w, export.InventoryReport, func() (*xlsx.File, error) {
		return export.InventoryWorkbook(h.State.InventorySnapshot())
	})
}

func (h *ExportsHandler) AssignmentBackup(w http.ResponseWriter, r *http.Request) {
	h.document(w, export.AssignmentBackup, func(now time.Time) ([]byte, error) {
		return export.AssignmentJSON(h.State.Snapshot(), now)
	})
}

func (h *ExportsHandler) InventoryBackup(w http.ResponseWriter, r *http.Request) {
	h.document(w, export.InventoryBackup, func(now time.Time) ([]byte, error) {
		return export.InventoryJSON(h.State.InventorySnapshot(), now)
	})
}

// InventoryAnalysis serves the analysis report for the range query parameter.
func (h *ExportsHandler) InventoryAnalysis(w http.ResponseWriter, r *http.Request) {
	rng, err := stats.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		WriteError(w, h.Log, err)
		return
	}
	h.document(w, export.InventoryAnalysis, func(now time.Time) ([]byte, error) {
		return stats.ReportJSON(stats.BuildReport(h.State.InventorySnapshot(), now, rng), now)
	})
}

// VerifyBackup parses an uploaded assignment backup and reports what it holds
// without writing anything.
func (h *ExportsHandler) VerifyBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, "could not read body: "+err.Error(), "INVALID_BODY")
		return
	}
	b, err := export.ParseBackup(data)
	if err != nil {
		WriteErrorMessage(w, http.StatusBadRequest, err.Error(), "INVALID_BACKUP")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"exportDate":  b.ExportDate,
			"devices":     len(b.Devices),
			"personnel":   len(b.Personnel),
			"assignments": len(b.Assignments),
		},
	})
}
