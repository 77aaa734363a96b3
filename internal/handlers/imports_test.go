package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository/memory"
	"hotel-inventory-api/internal/service"
	"hotel-inventory-api/internal/state"
	"hotel-inventory-api/pkg/importer"
)

func newCoordinator() (*service.Coordinator, *state.Store) {
	db := memory.New()
	st := state.New()
	return service.NewCoordinator(db.Devices(), db.Personnel(), db.Assignments(), st, zap.NewNop()), st
}

func deviceWorkbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()
	f := xlsx.NewFile()
	sh, err := f.AddSheet("Sayfa1")
	require.NoError(t, err)
	for _, cells := range append([][]string{{"Marka", "Kategori", "Seri Numarası", "Durum", "Zimmetli Kişi", "Departman"}}, rows...) {
		row := sh.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		fw, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports/excel", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImportsHandler_UploadExcel(t *testing.T) {
	coord, st := newCoordinator()
	handler := NewImportsHandler(coord, "", zap.NewNop())

	t.Run("Rejects non-multipart content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/imports/excel", nil)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.UploadExcel(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "content-type must be multipart/form-data")
	})

	t.Run("Rejects missing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "", nil, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "file is required")
	})

	t.Run("Rejects bad max_errors", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "a.xlsx", []byte("x"), map[string]string{"max_errors": "-1"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_MAX_ERRORS")
	})

	t.Run("Rejects non-xlsx file", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "test.xls", []byte("fake excel content"), nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "only .xlsx files are accepted")
	})

	t.Run("Unreadable workbook is unprocessable", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "test.xlsx", []byte("fake excel content"), nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "IMPORT_FAILED")
	})

	t.Run("Dry run reports without writing", func(t *testing.T) {
		data := deviceWorkbook(t, []string{"Dell", "Laptop", "DL1", "Müsait", "", ""})
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "cihazlar.xlsx", data, map[string]string{"dry_run": "true"}))

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data importer.ImportSummary `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Data.DryRun)
		assert.Equal(t, 1, resp.Data.Created)
		assert.Empty(t, st.Devices())
	})

	t.Run("Imports and assigns", func(t *testing.T) {
		data := deviceWorkbook(t,
			[]string{"Dell", "Laptop", "DL1", "Müsait", "", ""},
			[]string{"HP", "Masaüstü", "HP2", "Zimmetli", "Ahmet Yılmaz", "CRM"},
		)
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "cihazlar.xlsx", data, nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Len(t, st.Devices(), 2)
		assert.Len(t, st.Assignments(), 1)
	})

	t.Run("Too many errors", func(t *testing.T) {
		data := deviceWorkbook(t,
			[]string{"", "Laptop", "X1", "", "", ""},
			[]string{"Dell", "Laptop", "X2", "", "", ""},
		)
		w := httptest.NewRecorder()
		handler.UploadExcel(w, uploadRequest(t, "cihazlar.xlsx", data, map[string]string{"max_errors": "1"}))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "TOO_MANY_ERRORS")
	})
}

func TestImportTemplate(t *testing.T) {
	handler := NewImportsHandler(nil, "", zap.NewNop())
	w := httptest.NewRecorder()
	handler.Template(w, httptest.NewRequest(http.MethodGet, "/imports/template", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), importer.TemplateFileName)

	f, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, importer.TemplateSheetName, f.Sheets[0].Name)
}

func TestIsXLSX(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		expected bool
	}{
		{"Valid xlsx", "test.xlsx", true},
		{"Valid xlsx uppercase", "TEST.XLSX", true},
		{"Invalid xls", "test.xls", false},
		{"Invalid xlsm", "test.xlsm", false},
		{"No extension", "test", false},
		{"Empty filename", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isXLSX(&multipart.FileHeader{Filename: tt.filename}))
		})
	}
}

func TestExportsHandler(t *testing.T) {
	coord, st := newCoordinator()
	ctx := context.Background()
	d, err := coord.AddDevice(ctx, models.DeviceInput{Brand: "Dell", Category: "Laptop", SerialNumber: "DL001"})
	require.NoError(t, err)
	p, err := coord.AddPersonnel(ctx, models.PersonnelInput{Name: "Ahmet Yılmaz", Department: "CRM"})
	require.NoError(t, err)
	_, err = coord.AssignDevice(ctx, d.ID, p.ID, "")
	require.NoError(t, err)

	h := NewExportsHandler(st, zap.NewNop())
	h.Now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }

	w := httptest.NewRecorder()
	h.AssignmentReport(w, httptest.NewRequest(http.MethodGet, "/exports/assignments.xlsx", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "zimmet_raporu_15-03-2024.xlsx")
	f, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, f.Sheets, 4)

	w = httptest.NewRecorder()
	h.InventoryReport(w, httptest.NewRequest(http.MethodGet, "/exports/inventory.xlsx", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "envanter_raporu_15-03-2024.xlsx")

	w = httptest.NewRecorder()
	h.InventoryBackup(w, httptest.NewRequest(http.MethodGet, "/exports/inventory.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "envanter_yedegi_15-03-2024.json")

	w = httptest.NewRecorder()
	h.AssignmentBackup(w, httptest.NewRequest(http.MethodGet, "/exports/assignments.json", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "zimmet_yedegi_15-03-2024.json")
	backup := w.Body.Bytes()

	w = httptest.NewRecorder()
	h.VerifyBackup(w, httptest.NewRequest(http.MethodPost, "/imports/backup", bytes.NewReader(backup)))
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp.Data["devices"])
	assert.Equal(t, float64(1), resp.Data["assignments"])

	w = httptest.NewRecorder()
	h.VerifyBackup(w, httptest.NewRequest(http.MethodPost, "/imports/backup", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{errs.NotFound("device x"), http.StatusNotFound, "NOT_FOUND", "not found: device x"},
		{errs.Invalid("busy"), http.StatusConflict, "INVALID_STATE", "invalid state: busy"},
		{errs.ErrAlreadyExists, http.StatusConflict, "ALREADY_EXISTS", "already exists"},
		{errs.Validation("brand is required"), http.StatusBadRequest, "VALIDATION_FAILED", "validation failed: brand is required"},
		{&service.NotConfirmedError{Prompt: service.PromptDeleteDevice}, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", service.PromptDeleteDevice},
		{errs.Remote("devices.list", errors.New("connection refused")), http.StatusBadGateway, "REMOTE_FAILURE", "remote store failure"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR", "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp["code"])
			assert.Equal(t, tt.message, resp["error"])
		})
	}
}
