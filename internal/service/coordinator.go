// Package service holds the application logic between the HTTP/CLI surfaces and the
// repositories: the assignment coordinator, the inventory service, stock alerts, auto
// ordering, and the background watcher.
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/repository"
	"hotel-inventory-api/internal/state"
)

// Recorder receives counts of completed operations. internal.Metrics implements it.
type Recorder interface {
	AssignmentDone(op string)
}

type nopRecorder struct{}

func (nopRecorder) AssignmentDone(string) {}

// Coordinator owns the device, personnel and assignment collections. Every write goes
// to the store first and is merged into the shared state only after it succeeds.
type Coordinator struct {
	devices     repository.DeviceRepository
	personnel   repository.PersonnelRepository
	assignments repository.AssignmentRepository
	state       *state.Store
	log         *zap.Logger
	rec         Recorder
	now         func() time.Time
}

type Option func(*Coordinator)

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) {
		if r != nil {
			c.rec = r
		}
	}
}

func NewCoordinator(
	devices repository.DeviceRepository,
	personnel repository.PersonnelRepository,
	assignments repository.AssignmentRepository,
	st *state.Store,
	log *zap.Logger,
	opts ...Option,
) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Coordinator{
		devices:     devices,
		personnel:   personnel,
		assignments: assignments,
		state:       st,
		log:         log,
		rec:         nopRecorder{},
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) State() *state.Store { return c.state }

// remote logs a failed store call and wraps it for the caller. Domain errors pass through.
func (c *Coordinator) remote(op string, err error) error {
	if errs.IsDomain(err) {
		return err
	}
	c.log.Error("store call failed", zap.String("op", op), zap.Error(err))
	return errs.Remote(op, err)
}

// Refresh reloads devices, personnel and assignments from the store.
func (c *Coordinator) Refresh(ctx context.Context) error {
	var (
		devices     []models.Device
		personnel   []models.Personnel
		assignments []models.Assignment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		devices, err = c.devices.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		personnel, err = c.personnel.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		assignments, err = c.assignments.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return c.remote("refresh", err)
	}
	c.state.LoadDevices(devices)
	c.state.LoadPersonnel(personnel)
	c.state.LoadAssignments(assignments)
	c.log.Debug("assignment state refreshed",
		zap.Int("devices", len(devices)),
		zap.Int("personnel", len(personnel)),
		zap.Int("assignments", len(assignments)),
	)
	return nil
}

// AssignDevice checks a device out to a person. The device must be available.
func (c *Coordinator) AssignDevice(ctx context.Context, deviceID, personnelID, notes string) (models.Assignment, error) {
	d, ok := c.state.Device(deviceID)
	if !ok {
		return models.Assignment{}, errs.NotFound("device %s", deviceID)
	}
	person, ok := c.state.Person(personnelID)
	if !ok {
		return models.Assignment{}, errs.NotFound("personnel %s", personnelID)
	}
	if d.Status != models.DeviceAvailable {
		return models.Assignment{}, errs.Invalid("device %s is not assignable (status %s)", d.SerialNumber, d.Status)
	}

	res, err := c.assignments.Assign(ctx, models.AssignParams{
		DeviceID:      deviceID,
		PersonnelID:   personnelID,
		PersonnelName: person.Name,
		Notes:         notes,
		At:            c.now(),
	})
	if err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			// Lost a race with another writer; pull the winner's state.
			c.reload(ctx, deviceID)
		}
		return models.Assignment{}, c.remote("assign", err)
	}
	c.state.ApplyAssignment(res)
	c.rec.AssignmentDone("assign")
	c.log.Info("device assigned",
		zap.String("assignment_id", res.Assignment.ID),
		zap.String("device_id", deviceID),
		zap.String("personnel_id", personnelID),
	)
	return res.Assignment, nil
}

// ReturnDevice checks a device back in. Returning an assignment twice is InvalidState.
func (c *Coordinator) ReturnDevice(ctx context.Context, assignmentID string) (models.Assignment, error) {
	a, ok := c.state.Assignment(assignmentID)
	if !ok {
		return models.Assignment{}, errs.NotFound("assignment %s", assignmentID)
	}
	if !a.Active() {
		return models.Assignment{}, errs.Invalid("assignment %s is already returned", assignmentID)
	}

	res, err := c.assignments.Return(ctx, assignmentID, c.now())
	if err != nil {
		if errors.Is(err, errs.ErrInvalidState) {
			c.reload(ctx, a.DeviceID)
		}
		return models.Assignment{}, c.remote("return", err)
	}
	c.state.ApplyAssignment(res)
	c.rec.AssignmentDone("return")
	c.log.Info("device returned",
		zap.String("assignment_id", assignmentID),
		zap.String("device_id", a.DeviceID),
	)
	return res.Assignment, nil
}

// reload pulls fresh state after the store rejected a conditional write.
func (c *Coordinator) reload(ctx context.Context, deviceID string) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn("reload after conflict failed", zap.String("device_id", deviceID), zap.Error(err))
	}
}

func (c *Coordinator) Devices() []models.Device { return c.state.Devices() }

func (c *Coordinator) Device(id string) (models.Device, error) {
	d, ok := c.state.Device(id)
	if !ok {
		return models.Device{}, errs.NotFound("device %s", id)
	}
	return d, nil
}

func (c *Coordinator) AddDevice(ctx context.Context, in models.DeviceInput) (models.Device, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Device{}, err
	}
	if in.Status == models.DeviceAssigned {
		return models.Device{}, errs.Invalid("a new device cannot start as assigned")
	}
	d, err := c.devices.Create(ctx, in)
	if err != nil {
		return models.Device{}, c.remote("device.create", err)
	}
	c.state.PutDevice(d)
	c.log.Info("device added", zap.String("device_id", d.ID), zap.String("serial", d.SerialNumber))
	return d, nil
}

// UpdateDevice applies a partial update. Only assign and return move a device into or
// out of the assigned status.
func (c *Coordinator) UpdateDevice(ctx context.Context, id string, patch models.DevicePatch) (models.Device, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return models.Device{}, err
	}
	if patch.Empty() {
		return models.Device{}, errs.Validation("no fields to update")
	}
	cur, ok := c.state.Device(id)
	if !ok {
		return models.Device{}, errs.NotFound("device %s", id)
	}
	if patch.Status != nil && *patch.Status != cur.Status {
		if *patch.Status == models.DeviceAssigned {
			return models.Device{}, errs.Invalid("use assign to hand out a device")
		}
		if cur.Status == models.DeviceAssigned {
			return models.Device{}, errs.Invalid("device %s is assigned; return it first", cur.SerialNumber)
		}
	}
	d, err := c.devices.Update(ctx, id, patch)
	if err != nil {
		return models.Device{}, c.remote("device.update", err)
	}
	c.state.PutDevice(d)
	return d, nil
}

func (c *Coordinator) DeleteDevice(ctx context.Context, id string, confirmer Confirmer) error {
	d, ok := c.state.Device(id)
	if !ok {
		return errs.NotFound("device %s", id)
	}
	if d.Status == models.DeviceAssigned {
		return errs.Invalid("device %s is assigned; return it first", d.SerialNumber)
	}
	if err := confirm(ctx, confirmer, PromptDeleteDevice); err != nil {
		return err
	}
	if err := c.devices.Delete(ctx, id); err != nil {
		return c.remote("device.delete", err)
	}
	c.state.RemoveDevice(id)
	c.log.Info("device deleted", zap.String("device_id", id))
	return nil
}

func (c *Coordinator) Personnel() []models.Personnel { return c.state.Personnel() }

func (c *Coordinator) Person(id string) (models.Personnel, error) {
	p, ok := c.state.Person(id)
	if !ok {
		return models.Personnel{}, errs.NotFound("personnel %s", id)
	}
	return p, nil
}

// FindPersonnelByName resolves a display name to a person, ignoring case.
func (c *Coordinator) FindPersonnelByName(name string) (models.Personnel, bool) {
	return c.state.PersonByName(name)
}

func (c *Coordinator) AddPersonnel(ctx context.Context, in models.PersonnelInput) (models.Personnel, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return models.Personnel{}, err
	}
	p, err := c.personnel.Create(ctx, in)
	if err != nil {
		return models.Personnel{}, c.remote("personnel.create", err)
	}
	c.state.PutPersonnel(p)
	c.log.Info("personnel added", zap.String("personnel_id", p.ID))
	return p, nil
}

// UpdatePersonnel applies a partial update. A rename is carried onto the devices the
// person holds.
func (c *Coordinator) UpdatePersonnel(ctx context.Context, id string, patch models.PersonnelPatch) (models.Personnel, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return models.Personnel{}, err
	}
	if patch.Empty() {
		return models.Personnel{}, errs.Validation("no fields to update")
	}
	if _, ok := c.state.Person(id); !ok {
		return models.Personnel{}, errs.NotFound("personnel %s", id)
	}
	p, devices, err := c.personnel.Update(ctx, id, patch)
	if err != nil {
		return models.Personnel{}, c.remote("personnel.update", err)
	}
	c.state.PutPersonnel(p)
	for _, d := range devices {
		c.state.PutDevice(d)
	}
	out, _ := c.state.Person(id)
	return out, nil
}

func (c *Coordinator) DeletePersonnel(ctx context.Context, id string, confirmer Confirmer) error {
	p, ok := c.state.Person(id)
	if !ok {
		return errs.NotFound("personnel %s", id)
	}
	if len(p.AssignedDevices) > 0 {
		return errs.Invalid("%s still holds %d device(s)", p.Name, len(p.AssignedDevices))
	}
	if err := confirm(ctx, confirmer, PromptDeletePersonnel); err != nil {
		return err
	}
	if err := c.personnel.Delete(ctx, id); err != nil {
		return c.remote("personnel.delete", err)
	}
	c.state.RemovePersonnel(id)
	c.log.Info("personnel deleted", zap.String("personnel_id", id))
	return nil
}

func (c *Coordinator) Assignments() []models.Assignment { return c.state.Assignments() }

func (c *Coordinator) Assignment(id string) (models.Assignment, error) {
	a, ok := c.state.Assignment(id)
	if !ok {
		return models.Assignment{}, errs.NotFound("assignment %s", id)
	}
	return a, nil
}
