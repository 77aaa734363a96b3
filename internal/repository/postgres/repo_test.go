package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &DB{Pool: mock}, mock
}

var (
	deviceCols     = []string{"id", "brand", "category", "serial_number", "status", "assigned_to", "assigned_date", "maintenance_date", "specifications", "created_at"}
	personnelCols  = []string{"id", "name", "department", "title", "email", "phone", "assigned_devices", "created_at"}
	assignmentCols = []string{"id", "device_id", "personnel_id", "assigned_date", "returned_date", "status", "notes"}
)

func strPtr(s string) *string        { return &s }
func timePtr(t time.Time) *time.Time { return &t }

func TestDeviceRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO devices (id, brand, category, serial_number, status, maintenance_date, specifications)`)).
		WithArgs(pgxmock.AnyArg(), "Dell", "Laptop", "DL001", "available", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Dell", "Laptop", "DL001", "available", nil, nil, nil, []byte(`{"ram":"16GB","processor":"i7"}`), created))

	d, err := r.Create(context.Background(), models.DeviceInput{
		Brand: "Dell", Category: "Laptop", SerialNumber: "DL001", Status: models.DeviceAvailable,
		Specifications: models.Specifications{RAM: "16GB", Processor: "i7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "d1", d.ID)
	assert.Equal(t, models.DeviceAvailable, d.Status)
	assert.Nil(t, d.AssignedTo)
	assert.Equal(t, "16GB", d.Specifications.RAM)
	assert.Equal(t, created, d.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepo_CreateDuplicateSerial(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)

	mock.ExpectQuery(`INSERT INTO devices`).
		WithArgs(pgxmock.AnyArg(), "Dell", "Laptop", "DL001", "available", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := r.Create(context.Background(), models.DeviceInput{
		Brand: "Dell", Category: "Laptop", SerialNumber: "DL001", Status: models.DeviceAvailable,
	})
	assert.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestDeviceRepo_GetNotFound(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)

	mock.ExpectQuery(`FROM devices WHERE id = \$1`).WithArgs("missing").WillReturnError(pgx.ErrNoRows)

	_, err := r.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeviceRepo_UpdateSendsOnlyProvidedFields(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)
	status := models.DeviceMaintenance

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE devices SET brand = $1, status = $2 WHERE id = $3 RETURNING`)).
		WithArgs("Lenovo", "maintenance", "d1").
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Lenovo", "Laptop", "DL001", "maintenance", nil, nil, nil, []byte(`{}`), time.Now()))

	d, err := r.Update(context.Background(), "d1", models.DevicePatch{Brand: strPtr("Lenovo"), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, models.DeviceMaintenance, d.Status)
	require.NoError(t, mock.ExpectationsWereMet())

	_, err = r.Update(context.Background(), "d1", models.DevicePatch{})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDeviceRepo_UpdateBreakingHolderCheck(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)
	status := models.DeviceAvailable

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE devices SET status = $1 WHERE id = $2 RETURNING`)).
		WithArgs("available", "d1").
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "devices_assigned_consistent"})

	_, err := r.Update(context.Background(), "d1", models.DevicePatch{Status: &status})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeviceRepo_DeleteMissing(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)

	mock.ExpectExec(`DELETE FROM devices WHERE id = \$1`).WithArgs("d1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, r.Delete(context.Background(), "d1"), errs.ErrNotFound)
}

func TestDeviceRepo_List(t *testing.T) {
	db, mock := newDB(t)
	r := NewDeviceRepo(db)
	at := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM devices ORDER BY created_at DESC`).
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d2", "HP", "Yazıcı", "HP9", "available", nil, nil, nil, []byte(nil), at).
			AddRow("d1", "Dell", "Laptop", "DL001", "assigned", strPtr("Ahmet Yılmaz"), timePtr(at), nil, []byte(`{}`), at))

	devices, err := r.List(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "d2", devices[0].ID)
	require.NotNil(t, devices[1].AssignedTo)
	assert.Equal(t, "Ahmet Yılmaz", *devices[1].AssignedTo)
}

func TestAssignmentRepo_AssignCommitsThreeWrites(t *testing.T) {
	db, mock := newDB(t)
	r := NewAssignmentRepo(db)
	at := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE devices SET status = 'assigned', assigned_to = $2, assigned_date = $3`)).
		WithArgs("d1", "Ahmet Yılmaz", at).
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Dell", "Laptop", "DL001", "assigned", strPtr("Ahmet Yılmaz"), timePtr(at), nil, []byte(`{}`), at))
	mock.ExpectQuery(`INSERT INTO assignments`).
		WithArgs(pgxmock.AnyArg(), "d1", "p1", at, "yeni laptop").
		WillReturnRows(pgxmock.NewRows(assignmentCols).
			AddRow("a1", "d1", "p1", at, nil, "active", "yeni laptop"))
	mock.ExpectQuery(`UPDATE personnel SET assigned_devices = array_append`).
		WithArgs("d1", "p1").
		WillReturnRows(pgxmock.NewRows(personnelCols).
			AddRow("p1", "Ahmet Yılmaz", "CRM", "", "", "", []string{"d1"}, at))
	mock.ExpectCommit()

	res, err := r.Assign(context.Background(), models.AssignParams{
		DeviceID: "d1", PersonnelID: "p1", PersonnelName: "Ahmet Yılmaz", Notes: "yeni laptop", At: at,
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", res.Assignment.ID)
	assert.Equal(t, models.AssignmentActive, res.Assignment.Status)
	require.NotNil(t, res.Device)
	assert.Equal(t, models.DeviceAssigned, res.Device.Status)
	require.NotNil(t, res.Personnel)
	assert.Equal(t, []string{"d1"}, res.Personnel.AssignedDevices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepo_AssignUnavailableRollsBack(t *testing.T) {
	db, mock := newDB(t)
	r := NewAssignmentRepo(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE devices SET status = 'assigned'`).
		WithArgs("d1", "Mehmet Demir", at).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Assign(context.Background(), models.AssignParams{
		DeviceID: "d1", PersonnelID: "p2", PersonnelName: "Mehmet Demir", At: at,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepo_AssignSecondActiveRowRollsBack(t *testing.T) {
	db, mock := newDB(t)
	r := NewAssignmentRepo(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE devices SET status = 'assigned'`).
		WithArgs("d1", "Ahmet Yılmaz", at).
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Dell", "Laptop", "DL001", "assigned", strPtr("Ahmet Yılmaz"), timePtr(at), nil, []byte(`{}`), at))
	mock.ExpectQuery(`INSERT INTO assignments`).
		WithArgs(pgxmock.AnyArg(), "d1", "p1", at, "").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := r.Assign(context.Background(), models.AssignParams{
		DeviceID: "d1", PersonnelID: "p1", PersonnelName: "Ahmet Yılmaz", At: at,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepo_Return(t *testing.T) {
	db, mock := newDB(t)
	r := NewAssignmentRepo(db)
	assigned := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	returned := assigned.Add(48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE assignments SET status = 'returned', returned_date = $2`)).
		WithArgs("a1", returned).
		WillReturnRows(pgxmock.NewRows(assignmentCols).
			AddRow("a1", "d1", "p1", assigned, timePtr(returned), "returned", ""))
	mock.ExpectQuery(`UPDATE devices SET status = 'available', assigned_to = NULL`).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Dell", "Laptop", "DL001", "available", nil, nil, nil, []byte(`{}`), assigned))
	mock.ExpectQuery(`UPDATE personnel SET assigned_devices = array_remove`).
		WithArgs("d1", "p1").
		WillReturnRows(pgxmock.NewRows(personnelCols).
			AddRow("p1", "Ahmet Yılmaz", "CRM", "", "", "", []string{}, assigned))
	mock.ExpectCommit()

	res, err := r.Return(context.Background(), "a1", returned)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentReturned, res.Assignment.Status)
	require.NotNil(t, res.Assignment.ReturnedDate)
	assert.Equal(t, returned, *res.Assignment.ReturnedDate)
	require.NotNil(t, res.Device)
	assert.Nil(t, res.Device.AssignedTo)
	require.NotNil(t, res.Personnel)
	assert.Empty(t, res.Personnel.AssignedDevices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepo_ReturnTwiceIsRejected(t *testing.T) {
	db, mock := newDB(t)
	r := NewAssignmentRepo(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE assignments SET status = 'returned'`).
		WithArgs("a1", at).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err := r.Return(context.Background(), "a1", at)
	assert.ErrorIs(t, err, errs.ErrInvalidState)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepo_ReturnToleratesDeletedPersonnel(t *testing.T) {
	db, mock := newDB(t)
	r := NewAssignmentRepo(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE assignments SET status = 'returned'`).
		WithArgs("a1", at).
		WillReturnRows(pgxmock.NewRows(assignmentCols).AddRow("a1", "d1", "p1", at, timePtr(at), "returned", ""))
	mock.ExpectQuery(`UPDATE devices SET status = 'available'`).
		WithArgs("d1").
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Dell", "Laptop", "DL001", "available", nil, nil, nil, []byte(`{}`), at))
	mock.ExpectQuery(`UPDATE personnel SET assigned_devices = array_remove`).
		WithArgs("d1", "p1").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectCommit()

	res, err := r.Return(context.Background(), "a1", at)
	require.NoError(t, err)
	assert.Nil(t, res.Personnel)
	assert.NotNil(t, res.Device)
}

func TestPersonnelRepo_RenameRefreshesHeldDevices(t *testing.T) {
	db, mock := newDB(t)
	r := NewPersonnelRepo(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE personnel SET name = $1 WHERE id = $2 RETURNING`)).
		WithArgs("Ahmet Yılmaz Kaya", "p1").
		WillReturnRows(pgxmock.NewRows(personnelCols).
			AddRow("p1", "Ahmet Yılmaz Kaya", "CRM", "", "", "", []string{"d1"}, at))
	mock.ExpectQuery(`UPDATE devices SET assigned_to = \$1`).
		WithArgs("Ahmet Yılmaz Kaya", []string{"d1"}).
		WillReturnRows(pgxmock.NewRows(deviceCols).
			AddRow("d1", "Dell", "Laptop", "DL001", "assigned", strPtr("Ahmet Yılmaz Kaya"), timePtr(at), nil, []byte(`{}`), at))
	mock.ExpectCommit()

	p, devices, err := r.Update(context.Background(), "p1", models.PersonnelPatch{Name: strPtr("Ahmet Yılmaz Kaya")})
	require.NoError(t, err)
	assert.Equal(t, "Ahmet Yılmaz Kaya", p.Name)
	require.Len(t, devices, 1)
	assert.Equal(t, "Ahmet Yılmaz Kaya", *devices[0].AssignedTo)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonnelRepo_UpdateWithoutRenameSkipsDevices(t *testing.T) {
	db, mock := newDB(t)
	r := NewPersonnelRepo(db)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE personnel SET phone = $1 WHERE id = $2`)).
		WithArgs("+90-555-1234", "p1").
		WillReturnRows(pgxmock.NewRows(personnelCols).
			AddRow("p1", "Ahmet Yılmaz", "CRM", "", "", "+90-555-1234", []string{"d1"}, at))
	mock.ExpectCommit()

	_, devices, err := r.Update(context.Background(), "p1", models.PersonnelPatch{Phone: strPtr("+90-555-1234")})
	require.NoError(t, err)
	assert.Empty(t, devices)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierRepo_RecordOrder(t *testing.T) {
	db, mock := newDB(t)
	r := NewSupplierRepo(db)
	at := time.Now()
	cols := []string{"id", "name", "contact_person", "email", "phone", "address", "categories", "rating",
		"total_orders", "total_value", "last_order_date", "payment_terms", "delivery_time", "notes", "created_at"}

	mock.ExpectQuery(`SET total_orders = total_orders \+ 1`).
		WithArgs("TechnoSA", 15000.0, at).
		WillReturnRows(pgxmock.NewRows(cols).AddRow("s1", "TechnoSA", "", "", "", "", []string{"Laptop"}, 4.5,
			13, 165000.0, timePtr(at), "30 gün", "3-5 iş günü", "", at))

	s, err := r.RecordOrder(context.Background(), "TechnoSA", 15000, at)
	require.NoError(t, err)
	assert.Equal(t, 13, s.TotalOrders)
	assert.Equal(t, 165000.0, s.TotalValue)
}

func TestUpdateBuilder(t *testing.T) {
	var b updateBuilder
	assert.True(t, b.empty())
	b.set("name", "x")
	b.set("phone", "y")
	b.raw("updated_at = now()")

	q, args := b.build("personnel", "p1", "id")
	assert.Equal(t, "UPDATE personnel SET name = $1, phone = $2, updated_at = now() WHERE id = $3 RETURNING id", q)
	assert.Equal(t, []any{"x", "y", "p1"}, args)
}
