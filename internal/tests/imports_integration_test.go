//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v3"

	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/pkg/importer"
)

func workbook(t *testing.T, rows ...[]string) []byte {
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

func upload(t *testing.T, e *env, data []byte, dryRun bool) (*httptest.ResponseRecorder, importer.ImportSummary) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if dryRun {
		require.NoError(t, writer.WriteField("dry_run", "true"))
	}
	fw, err := writer.CreateFormFile("file", "cihazlar.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	token, _, err := e.srv.JWTManager.GenerateToken(1, "Entegrasyon", []string{models.RoleStaff})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/imports/excel", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(w, req)

	var resp struct {
		Data importer.ImportSummary `json:"data"`
	}
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp.Data
}

func TestImportsIntegration(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	data := workbook(t,
		[]string{"Dell", "Laptop", "DL-1", "Müsait", "", ""},
		[]string{"HP", "Masaüstü", "HP-2", "Zimmetli", "Zeynep Aydın", "Kat Hizmetleri"},
	)

	t.Run("Dry run leaves the database untouched", func(t *testing.T) {
		w, summary := upload(t, e, data, true)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, summary.DryRun)
		assert.Equal(t, 2, summary.Created)

		devices, err := e.stores.Devices.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, devices)
	})

	t.Run("Import creates devices, personnel and assignments", func(t *testing.T) {
		w, summary := upload(t, e, data, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 2, summary.Created)
		assert.Equal(t, 1, summary.Assigned)

		devices, err := e.stores.Devices.List(ctx)
		require.NoError(t, err)
		assert.Len(t, devices, 2)

		people, err := e.stores.Personnel.List(ctx)
		require.NoError(t, err)
		require.Len(t, people, 1)
		assert.Equal(t, "Kat Hizmetleri", people[0].Department)

		assignments, err := e.stores.Assignments.List(ctx)
		require.NoError(t, err)
		assert.Len(t, assignments, 1)
	})

	t.Run("Second import reports duplicate serials", func(t *testing.T) {
		w, summary := upload(t, e, data, false)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 0, summary.Created)
		assert.Equal(t, 2, summary.Errors)
		assert.NotEmpty(t, summary.Samples)
	})
}
