// Package memory is an in-process implementation of the repository interfaces. It backs
// STORE=memory and the service and HTTP tests, and it enforces the same conditional
// assign and return rules as the postgres implementation.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

// Store holds every table behind one lock so that assign and return are atomic.
type Store struct {
	mu          sync.Mutex
	now         func() time.Time
	devices     map[string]models.Device
	personnel   map[string]models.Personnel
	assignments map[string]models.Assignment
	items       map[string]models.InventoryItem
	maintenance map[string]models.MaintenanceRecord
	audit       map[string]models.AuditRecord
	suppliers   map[string]models.Supplier
	operators   map[int64]models.Operator
	nextOpID    int64

	// Fail, when set, is consulted before every write; a non-nil result aborts it.
	Fail func(op string) error
}

func New() *Store {
	return &Store{
		now:         time.Now,
		devices:     map[string]models.Device{},
		personnel:   map[string]models.Personnel{},
		assignments: map[string]models.Assignment{},
		items:       map[string]models.InventoryItem{},
		maintenance: map[string]models.MaintenanceRecord{},
		audit:       map[string]models.AuditRecord{},
		suppliers:   map[string]models.Supplier{},
		operators:   map[int64]models.Operator{},
	}
}

// SetClock replaces the time source used for created/updated stamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func (s *Store) Devices() *DeviceRepo          { return &DeviceRepo{s} }
func (s *Store) Personnel() *PersonnelRepo     { return &PersonnelRepo{s} }
func (s *Store) Assignments() *AssignmentRepo  { return &AssignmentRepo{s} }
func (s *Store) Inventory() *InventoryRepo     { return &InventoryRepo{s} }
func (s *Store) Maintenance() *MaintenanceRepo { return &MaintenanceRepo{s} }
func (s *Store) Audit() *AuditRepo             { return &AuditRepo{s} }
func (s *Store) Suppliers() *SupplierRepo      { return &SupplierRepo{s} }
func (s *Store) Operators() *OperatorRepo      { return &OperatorRepo{s} }

func sortedNewestFirst[T any](m map[string]T, at func(T) time.Time) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return at(out[i]).After(at(out[j])) })
	return out
}

// DeviceRepo implements repository.DeviceRepository.
type DeviceRepo struct{ s *Store }

func (r *DeviceRepo) List(ctx context.Context) ([]models.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedNewestFirst(r.s.devices, func(d models.Device) time.Time { return d.CreatedAt }), nil
}

func (r *DeviceRepo) Get(ctx context.Context, id string) (models.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.devices[id]
	if !ok {
		return models.Device{}, errs.NotFound("device %s", id)
	}
	return d, nil
}

func (r *DeviceRepo) serialTaken(serial, except string) bool {
	for id, d := range r.s.devices {
		if id != except && strings.EqualFold(d.SerialNumber, serial) {
			return true
		}
	}
	return false
}

func (r *DeviceRepo) Create(ctx context.Context, in models.DeviceInput) (models.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("device.create"); err != nil {
		return models.Device{}, err
	}
	if r.serialTaken(in.SerialNumber, "") {
		return models.Device{}, errs.ErrAlreadyExists
	}
	d := models.Device{
		ID:              uuid.NewString(),
		Brand:           in.Brand,
		Category:        in.Category,
		SerialNumber:    in.SerialNumber,
		Status:          in.Status,
		MaintenanceDate: in.MaintenanceDate,
		Specifications:  in.Specifications,
		CreatedAt:       r.s.now(),
	}
	r.s.devices[d.ID] = d
	return d, nil
}

func (r *DeviceRepo) Update(ctx context.Context, id string, patch models.DevicePatch) (models.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("device.update"); err != nil {
		return models.Device{}, err
	}
	d, ok := r.s.devices[id]
	if !ok {
		return models.Device{}, errs.NotFound("device %s", id)
	}
	if patch.Empty() {
		return models.Device{}, errs.Validation("no fields to update")
	}
	if patch.SerialNumber != nil && r.serialTaken(*patch.SerialNumber, id) {
		return models.Device{}, errs.ErrAlreadyExists
	}
	d = patch.Apply(d)
	if (d.Status == models.DeviceAssigned) != (d.AssignedTo != nil) {
		return models.Device{}, errs.Invalid("device %s: assigned status and holder disagree", d.SerialNumber)
	}
	r.s.devices[id] = d
	return d, nil
}

func (r *DeviceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("device.delete"); err != nil {
		return err
	}
	if _, ok := r.s.devices[id]; !ok {
		return errs.NotFound("device %s", id)
	}
	delete(r.s.devices, id)
	return nil
}

// PersonnelRepo implements repository.PersonnelRepository.
type PersonnelRepo struct{ s *Store }

func (r *PersonnelRepo) List(ctx context.Context) ([]models.Personnel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := sortedNewestFirst(r.s.personnel, func(p models.Personnel) time.Time { return p.CreatedAt })
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out, nil
}

func (r *PersonnelRepo) Get(ctx context.Context, id string) (models.Personnel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.personnel[id]
	if !ok {
		return models.Personnel{}, errs.NotFound("personnel %s", id)
	}
	return p.Clone(), nil
}

func (r *PersonnelRepo) Create(ctx context.Context, in models.PersonnelInput) (models.Personnel, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("personnel.create"); err != nil {
		return models.Personnel{}, err
	}
	p := models.Personnel{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Department: in.Department,
		Title:      in.Title,
		Email:      in.Email,
		Phone:      in.Phone,
		CreatedAt:  r.s.now(),
	}.Clone()
	r.s.personnel[p.ID] = p
	return p.Clone(), nil
}

func (r *PersonnelRepo) Update(ctx context.Context, id string, patch models.PersonnelPatch) (models.Personnel, []models.Device, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("personnel.update"); err != nil {
		return models.Personnel{}, nil, err
	}
	p, ok := r.s.personnel[id]
	if !ok {
		return models.Personnel{}, nil, errs.NotFound("personnel %s", id)
	}
	if patch.Empty() {
		return models.Personnel{}, nil, errs.Validation("no fields to update")
	}
	p = patch.Apply(p)
	r.s.personnel[id] = p

	var devices []models.Device
	if patch.Name != nil {
		for _, deviceID := range p.AssignedDevices {
			d, ok := r.s.devices[deviceID]
			if !ok || d.Status != models.DeviceAssigned {
				continue
			}
			name := p.Name
			d.AssignedTo = &name
			r.s.devices[deviceID] = d
			devices = append(devices, d)
		}
	}
	return p.Clone(), devices, nil
}

func (r *PersonnelRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("personnel.delete"); err != nil {
		return err
	}
	if _, ok := r.s.personnel[id]; !ok {
		return errs.NotFound("personnel %s", id)
	}
	delete(r.s.personnel, id)
	return nil
}

// AssignmentRepo implements repository.AssignmentRepository.
type AssignmentRepo struct{ s *Store }

func (r *AssignmentRepo) List(ctx context.Context) ([]models.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedNewestFirst(r.s.assignments, func(a models.Assignment) time.Time { return a.AssignedDate }), nil
}

func (r *AssignmentRepo) Get(ctx context.Context, id string) (models.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.assignments[id]
	if !ok {
		return models.Assignment{}, errs.NotFound("assignment %s", id)
	}
	return a, nil
}

func (r *AssignmentRepo) Assign(ctx context.Context, p models.AssignParams) (models.AssignmentResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("assignment.assign"); err != nil {
		return models.AssignmentResult{}, err
	}
	d, ok := r.s.devices[p.DeviceID]
	if !ok || d.Status != models.DeviceAvailable {
		return models.AssignmentResult{}, errs.Invalid("device %s is not available", p.DeviceID)
	}
	person, ok := r.s.personnel[p.PersonnelID]
	if !ok {
		return models.AssignmentResult{}, errs.NotFound("personnel %s", p.PersonnelID)
	}

	a := models.Assignment{
		ID:           uuid.NewString(),
		DeviceID:     p.DeviceID,
		PersonnelID:  p.PersonnelID,
		AssignedDate: p.At,
		Status:       models.AssignmentActive,
		Notes:        p.Notes,
	}
	name := p.PersonnelName
	at := p.At
	d.Status = models.DeviceAssigned
	d.AssignedTo = &name
	d.AssignedDate = &at
	person = person.Clone()
	if !person.Holds(p.DeviceID) {
		person.AssignedDevices = append(person.AssignedDevices, p.DeviceID)
	}

	r.s.assignments[a.ID] = a
	r.s.devices[d.ID] = d
	r.s.personnel[person.ID] = person
	out := person.Clone()
	return models.AssignmentResult{Assignment: a, Device: &d, Personnel: &out}, nil
}

func (r *AssignmentRepo) Return(ctx context.Context, assignmentID string, at time.Time) (models.AssignmentResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("assignment.return"); err != nil {
		return models.AssignmentResult{}, err
	}
	a, ok := r.s.assignments[assignmentID]
	if !ok || a.Status != models.AssignmentActive {
		return models.AssignmentResult{}, errs.Invalid("assignment %s is not active", assignmentID)
	}
	returned := at
	a.Status = models.AssignmentReturned
	a.ReturnedDate = &returned
	r.s.assignments[a.ID] = a
	res := models.AssignmentResult{Assignment: a}

	if d, ok := r.s.devices[a.DeviceID]; ok && d.Status == models.DeviceAssigned {
		d.Status = models.DeviceAvailable
		d.AssignedTo = nil
		d.AssignedDate = nil
		r.s.devices[d.ID] = d
		res.Device = &d
	}
	if person, ok := r.s.personnel[a.PersonnelID]; ok {
		person = person.Clone()
		person.AssignedDevices = slices.DeleteFunc(person.AssignedDevices, func(id string) bool { return id == a.DeviceID })
		r.s.personnel[person.ID] = person
		out := person.Clone()
		res.Personnel = &out
	}
	return res, nil
}
