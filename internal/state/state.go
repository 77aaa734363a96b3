// Package state holds the cached, eventually consistent copy of every collection the
// services read from. Writers merge single rows; readers always receive copies.
package state

import (
	"sort"
	"strings"
	"sync"
	"time"

	"hotel-inventory-api/internal/models"
)

type collection[T any] struct {
	items map[string]T
	id    func(T) string
	at    func(T) time.Time
}

func newCollection[T any](id func(T) string, at func(T) time.Time) *collection[T] {
	return &collection[T]{items: map[string]T{}, id: id, at: at}
}

func (c *collection[T]) load(rows []T) {
	c.items = make(map[string]T, len(rows))
	for _, r := range rows {
		c.items[c.id(r)] = r
	}
}

func (c *collection[T]) put(v T) { c.items[c.id(v)] = v }

func (c *collection[T]) remove(id string) bool {
	_, ok := c.items[id]
	delete(c.items, id)
	return ok
}

func (c *collection[T]) get(id string) (T, bool) {
	v, ok := c.items[id]
	return v, ok
}

// list returns the rows newest first, ties broken by id for stable output.
func (c *collection[T]) list() []T {
	out := make([]T, 0, len(c.items))
	for _, v := range c.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := c.at(out[i]), c.at(out[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		return c.id(out[i]) < c.id(out[j])
	})
	return out
}

// Store is the application state shared by the HTTP handlers, the CLI and the realtime
// syncer. The zero value is not usable; call New.
type Store struct {
	mu          sync.RWMutex
	devices     *collection[models.Device]
	personnel   *collection[models.Personnel]
	assignments *collection[models.Assignment]
	items       *collection[models.InventoryItem]
	maintenance *collection[models.MaintenanceRecord]
	audit       *collection[models.AuditRecord]
}

func New() *Store {
	return &Store{
		devices: newCollection(
			func(d models.Device) string { return d.ID },
			func(d models.Device) time.Time { return d.CreatedAt }),
		personnel: newCollection(
			func(p models.Personnel) string { return p.ID },
			func(p models.Personnel) time.Time { return p.CreatedAt }),
		assignments: newCollection(
			func(a models.Assignment) string { return a.ID },
			func(a models.Assignment) time.Time { return a.AssignedDate }),
		items: newCollection(
			func(it models.InventoryItem) string { return it.ID },
			func(it models.InventoryItem) time.Time { return it.CreatedAt }),
		maintenance: newCollection(
			func(m models.MaintenanceRecord) string { return m.ID },
			func(m models.MaintenanceRecord) time.Time { return m.MaintenanceDate }),
		audit: newCollection(
			func(a models.AuditRecord) string { return a.ID },
			func(a models.AuditRecord) time.Time { return a.CreatedAt }),
	}
}

func (s *Store) LoadDevices(rows []models.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices.load(rows)
}

func (s *Store) PutDevice(d models.Device) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devices.put(d)
}

func (s *Store) RemoveDevice(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devices.remove(id)
}

func (s *Store) Device(id string) (models.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices.get(id)
}

func (s *Store) Devices() []models.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices.list()
}

func (s *Store) LoadPersonnel(rows []models.Personnel) {
	cloned := make([]models.Personnel, len(rows))
	for i, p := range rows {
		cloned[i] = p.Clone()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personnel.load(cloned)
}

func (s *Store) PutPersonnel(p models.Personnel) {
	p = p.Clone()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personnel.put(p)
}

func (s *Store) RemovePersonnel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personnel.remove(id)
}

// withHistory fills in the derived assignment history. Callers hold the read lock.
func (s *Store) withHistory(p models.Personnel) models.Personnel {
	p = p.Clone()
	p.AssignmentHistory = p.AssignmentHistory[:0]
	for _, a := range s.assignments.list() {
		if a.PersonnelID == p.ID {
			p.AssignmentHistory = append(p.AssignmentHistory, a.ID)
		}
	}
	return p
}

func (s *Store) Person(id string) (models.Personnel, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.personnel.get(id)
	if !ok {
		return models.Personnel{}, false
	}
	return s.withHistory(p), true
}

func (s *Store) Personnel() []models.Personnel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.personnel.list()
	for i := range rows {
		rows[i] = s.withHistory(rows[i])
	}
	return rows
}

// PersonByName finds a person by display name, ignoring case and surrounding space.
// The newest match wins when names repeat.
func (s *Store) PersonByName(name string) (models.Personnel, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Personnel{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.personnel.list() {
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return s.withHistory(p), true
		}
	}
	return models.Personnel{}, false
}

func (s *Store) LoadAssignments(rows []models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments.load(rows)
}

func (s *Store) PutAssignment(a models.Assignment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments.put(a)
}

func (s *Store) RemoveAssignment(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.assignments.remove(id)
}

func (s *Store) Assignment(id string) (models.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assignments.get(id)
}

func (s *Store) Assignments() []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.assignments.list()
}

// ActiveAssignment returns the open assignment of a device, if any.
func (s *Store) ActiveAssignment(deviceID string) (models.Assignment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments.items {
		if a.DeviceID == deviceID && a.Active() {
			return a, true
		}
	}
	return models.Assignment{}, false
}

// ApplyAssignment merges the rows touched by an assign or a return in one step, so
// readers never see the assignment without the matching device and personnel state.
func (s *Store) ApplyAssignment(res models.AssignmentResult) {
	var person *models.Personnel
	if res.Personnel != nil {
		p := res.Personnel.Clone()
		person = &p
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assignments.put(res.Assignment)
	if res.Device != nil {
		s.devices.put(*res.Device)
	}
	if person != nil {
		s.personnel.put(*person)
	}
}

func (s *Store) LoadInventory(rows []models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.load(rows)
}

func (s *Store) PutInventoryItem(it models.InventoryItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items.put(it)
}

func (s *Store) RemoveInventoryItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.remove(id)
}

func (s *Store) InventoryItem(id string) (models.InventoryItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.get(id)
}

func (s *Store) InventoryItems() []models.InventoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items.list()
}

func (s *Store) LoadMaintenance(rows []models.MaintenanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance.load(rows)
}

func (s *Store) PutMaintenance(m models.MaintenanceRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maintenance.put(m)
}

func (s *Store) RemoveMaintenance(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maintenance.remove(id)
}

func (s *Store) MaintenanceRecord(id string) (models.MaintenanceRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenance.get(id)
}

func (s *Store) Maintenance() []models.MaintenanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.maintenance.list()
}

// MaintenanceFor returns the records of one item, newest first.
func (s *Store) MaintenanceFor(itemID string) []models.MaintenanceRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MaintenanceRecord
	for _, m := range s.maintenance.list() {
		if m.InventoryItemID == itemID {
			out = append(out, m)
		}
	}
	return out
}

// RemoveItemMaintenance drops the records of a deleted item, mirroring the cascade
// in the database.
func (s *Store) RemoveItemMaintenance(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.maintenance.items {
		if m.InventoryItemID == itemID {
			delete(s.maintenance.items, id)
		}
	}
}

func (s *Store) LoadAudit(rows []models.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit.load(rows)
}

func (s *Store) PutAudit(a models.AuditRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit.put(a)
}

func (s *Store) RemoveAudit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audit.remove(id)
}

func (s *Store) Audit() []models.AuditRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.audit.list()
}

// Snapshot is a consistent copy of the assignment-side collections.
type Snapshot struct {
	Devices     []models.Device
	Personnel   []models.Personnel
	Assignments []models.Assignment
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	people := s.personnel.list()
	for i := range people {
		people[i] = s.withHistory(people[i])
	}
	return Snapshot{
		Devices:     s.devices.list(),
		Personnel:   people,
		Assignments: s.assignments.list(),
	}
}

// InventorySnapshot is a consistent copy of the inventory-side collections.
type InventorySnapshot struct {
	Items       []models.InventoryItem
	Maintenance []models.MaintenanceRecord
	Audit       []models.AuditRecord
}

func (s *Store) InventorySnapshot() InventorySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return InventorySnapshot{
		Items:       s.items.list(),
		Maintenance: s.maintenance.list(),
		Audit:       s.audit.list(),
	}
}
