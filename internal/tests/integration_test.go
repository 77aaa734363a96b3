//go:build integration

package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hotel-inventory-api/internal"
	"hotel-inventory-api/internal/backend"
	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/service"
	"hotel-inventory-api/internal/state"
	"hotel-inventory-api/internal/testutil"
)

type env struct {
	srv    *internal.Server
	stores backend.Stores
	coord  *service.Coordinator
	inv    *service.Inventory
}

func newEnv(t *testing.T) *env {
	t.Helper()
	stores := testutil.NewStores(t)
	log := zap.NewNop()
	st := state.New()
	proc := config.DefaultProcurement()

	metrics := internal.NewMetrics()
	coord := service.NewCoordinator(stores.Devices, stores.Personnel, stores.Assignments, st, log, service.WithRecorder(metrics))
	inv := service.NewInventory(stores.Items, stores.Maintenance, stores.Audit, st, log)
	alerts := service.NewAlertEngine(proc)
	procurement := service.NewProcurement(proc, stores.Suppliers, log)
	require.NoError(t, coord.Refresh(context.Background()))
	require.NoError(t, inv.Refresh(context.Background()))

	cfg := &config.Config{
		JWTSecret:   "supersecretkeyforintegrationtestingonly",
		JWTIssuer:   "hotel-inventory-api",
		JWTAudience: "hotel-inventory-api",
		JWTExpiry:   time.Hour,
	}
	srv, err := internal.NewServer(cfg, internal.Services{
		Coordinator: coord,
		Inventory:   inv,
		Alerts:      alerts,
		Procurement: procurement,
		Suppliers:   service.NewSuppliers(stores.Suppliers, log),
		Watcher:     service.NewWatcher(st, alerts, procurement, nil, time.Minute, log),
		Operators:   stores.Operators,
		Settings:    proc,
		Ping:        stores.Ping,
	}, metrics, log)
	require.NoError(t, err)
	return &env{srv: srv, stores: stores, coord: coord, inv: inv}
}

func (e *env) request(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.srv.Router.ServeHTTP(w, req)
	return w
}

func TestHealthAndDBPing(t *testing.T) {
	e := newEnv(t)

	w := e.request(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = e.request(t, "", http.MethodGet, "/dbping", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginAgainstPostgres(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("resepsiyon1"), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, err = e.stores.Operators.Create(ctx, models.Operator{
		Name:         "Ayşe Kaya",
		Email:        "ayse@otel.test",
		PasswordHash: string(hash),
		Roles:        []string{models.RoleStaff},
		Active:       true,
	})
	require.NoError(t, err)

	w := e.request(t, "", http.MethodPost, "/auth/login", models.LoginRequest{Email: "ayse@otel.test", Password: "resepsiyon1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.Token)

	w = e.request(t, resp.Data.Token, http.MethodGet, "/devices", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.request(t, "", http.MethodPost, "/auth/login", models.LoginRequest{Email: "ayse@otel.test", Password: "yanlis-parola"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAssignmentRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	d, err := e.coord.AddDevice(ctx, models.DeviceInput{Brand: "Lenovo", Category: "Laptop", SerialNumber: "LNV-100"})
	require.NoError(t, err)
	p, err := e.coord.AddPersonnel(ctx, models.PersonnelInput{Name: "Mehmet Demir", Department: "Ön Büro"})
	require.NoError(t, err)

	a, err := e.coord.AssignDevice(ctx, d.ID, p.ID, "resepsiyon")
	require.NoError(t, err)

	stored, err := e.stores.Devices.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceAssigned, stored.Status)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, "Mehmet Demir", *stored.AssignedTo)

	_, err = e.coord.AssignDevice(ctx, d.ID, p.ID, "")
	assert.Error(t, err)

	returned, err := e.coord.ReturnDevice(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentReturned, returned.Status)

	stored, err = e.stores.Devices.Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DeviceAvailable, stored.Status)

	// A fresh coordinator sees the same rows after a reload.
	fresh := service.NewCoordinator(e.stores.Devices, e.stores.Personnel, e.stores.Assignments, state.New(), zap.NewNop())
	require.NoError(t, fresh.Refresh(ctx))
	assert.Len(t, fresh.Assignments(), 1)
	assert.Len(t, fresh.Devices(), 1)
}

func TestDefectiveItemWritesMaintenanceAndAudit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	item, err := e.inv.AddItem(ctx, models.InventoryItemInput{
		ItemName:           "Yazıcı",
		SerialNumber:       "PRN-7",
		Category:           "Printer",
		LocationDepartment: "Muhasebe",
	})
	require.NoError(t, err)

	updated, rec, err := e.inv.MarkAsDefective(ctx, item.ID, "kağıt sıkışıyor")
	require.NoError(t, err)
	assert.Equal(t, models.InventoryDefective, updated.CurrentStatus)
	assert.Equal(t, item.ID, rec.InventoryItemID)

	records, err := e.stores.Maintenance.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	audit, err := e.stores.Audit.List(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(audit), 2)
}

func TestSeededSuppliers(t *testing.T) {
	e := newEnv(t)
	suppliers, err := e.stores.Suppliers.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, suppliers, 2)
}
