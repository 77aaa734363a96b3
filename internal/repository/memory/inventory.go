package memory

import (
	"context"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

type InventoryRepo struct{ s *Store }

func (r *InventoryRepo) List(ctx context.Context) ([]models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedNewestFirst(r.s.items, func(it models.InventoryItem) time.Time { return it.CreatedAt }), nil
}

func (r *InventoryRepo) Get(ctx context.Context, id string) (models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	it, ok := r.s.items[id]
	if !ok {
		return models.InventoryItem{}, errs.NotFound("inventory item %s", id)
	}
	return it, nil
}

func (r *InventoryRepo) Create(ctx context.Context, in models.InventoryItemInput) (models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventory.create"); err != nil {
		return models.InventoryItem{}, err
	}
	now := r.s.now()
	it := models.InventoryItem{
		ID:                 uuid.NewString(),
		ItemName:           in.ItemName,
		SerialNumber:       in.SerialNumber,
		PurchaseDate:       in.PurchaseDate,
		CurrentStatus:      in.CurrentStatus,
		LocationDepartment: in.LocationDepartment,
		WarrantyStartDate:  in.WarrantyStartDate,
		WarrantyEndDate:    in.WarrantyEndDate,
		WarrantyProvider:   in.WarrantyProvider,
		PurchasePrice:      in.PurchasePrice,
		Supplier:           in.Supplier,
		Category:           in.Category,
		Brand:              in.Brand,
		Model:              in.Model,
		Specifications:     maps.Clone(in.Specifications),
		Notes:              in.Notes,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	r.s.items[it.ID] = it
	return it, nil
}

func (r *InventoryRepo) Update(ctx context.Context, id string, p models.InventoryItemPatch) (models.InventoryItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventory.update"); err != nil {
		return models.InventoryItem{}, err
	}
	it, ok := r.s.items[id]
	if !ok {
		return models.InventoryItem{}, errs.NotFound("inventory item %s", id)
	}
	if p.Empty() {
		return models.InventoryItem{}, errs.Validation("no fields to update")
	}
	str := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	str(&it.ItemName, p.ItemName)
	str(&it.SerialNumber, p.SerialNumber)
	if p.PurchaseDate != nil {
		it.PurchaseDate = p.PurchaseDate
	}
	if p.CurrentStatus != nil {
		it.CurrentStatus = *p.CurrentStatus
	}
	str(&it.LocationDepartment, p.LocationDepartment)
	if p.WarrantyStartDate != nil {
		it.WarrantyStartDate = p.WarrantyStartDate
	}
	if p.WarrantyEndDate != nil {
		it.WarrantyEndDate = p.WarrantyEndDate
	}
	str(&it.WarrantyProvider, p.WarrantyProvider)
	if p.PurchasePrice != nil {
		v := *p.PurchasePrice
		it.PurchasePrice = &v
	}
	str(&it.Supplier, p.Supplier)
	str(&it.Category, p.Category)
	str(&it.Brand, p.Brand)
	str(&it.Model, p.Model)
	if p.Specifications != nil {
		it.Specifications = maps.Clone(p.Specifications)
	}
	str(&it.Notes, p.Notes)
	it.UpdatedAt = r.s.now()
	r.s.items[id] = it
	return it, nil
}

func (r *InventoryRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("inventory.delete"); err != nil {
		return err
	}
	if _, ok := r.s.items[id]; !ok {
		return errs.NotFound("inventory item %s", id)
	}
	delete(r.s.items, id)
	for mid, m := range r.s.maintenance {
		if m.InventoryItemID == id {
			delete(r.s.maintenance, mid)
		}
	}
	return nil
}

type MaintenanceRepo struct{ s *Store }

func (r *MaintenanceRepo) List(ctx context.Context) ([]models.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedNewestFirst(r.s.maintenance, func(m models.MaintenanceRecord) time.Time { return m.MaintenanceDate }), nil
}

func (r *MaintenanceRepo) Get(ctx context.Context, id string) (models.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.maintenance[id]
	if !ok {
		return models.MaintenanceRecord{}, errs.NotFound("maintenance record %s", id)
	}
	return m, nil
}

func (r *MaintenanceRepo) Create(ctx context.Context, in models.MaintenanceInput) (models.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("maintenance.create"); err != nil {
		return models.MaintenanceRecord{}, err
	}
	if _, ok := r.s.items[in.InventoryItemID]; !ok {
		return models.MaintenanceRecord{}, errs.NotFound("inventory item %s", in.InventoryItemID)
	}
	now := r.s.now()
	m := models.MaintenanceRecord{
		ID:              uuid.NewString(),
		InventoryItemID: in.InventoryItemID,
		MaintenanceDate: in.MaintenanceDate,
		MaintenanceType: in.MaintenanceType,
		Description:     in.Description,
		Cost:            in.Cost,
		Technician:      in.Technician,
		SupplierService: in.SupplierService,
		Status:          in.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.s.maintenance[m.ID] = m
	return m, nil
}

func (r *MaintenanceRepo) Update(ctx context.Context, id string, p models.MaintenancePatch) (models.MaintenanceRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("maintenance.update"); err != nil {
		return models.MaintenanceRecord{}, err
	}
	m, ok := r.s.maintenance[id]
	if !ok {
		return models.MaintenanceRecord{}, errs.NotFound("maintenance record %s", id)
	}
	if p.Empty() {
		return models.MaintenanceRecord{}, errs.Validation("no fields to update")
	}
	if p.MaintenanceDate != nil {
		m.MaintenanceDate = *p.MaintenanceDate
	}
	if p.MaintenanceType != nil {
		m.MaintenanceType = *p.MaintenanceType
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Cost != nil {
		v := *p.Cost
		m.Cost = &v
	}
	if p.Technician != nil {
		m.Technician = *p.Technician
	}
	if p.SupplierService != nil {
		m.SupplierService = *p.SupplierService
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	m.UpdatedAt = r.s.now()
	r.s.maintenance[id] = m
	return m, nil
}

type AuditRepo struct{ s *Store }

func (r *AuditRepo) List(ctx context.Context) ([]models.AuditRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return sortedNewestFirst(r.s.audit, func(a models.AuditRecord) time.Time { return a.CreatedAt }), nil
}

func (r *AuditRepo) Get(ctx context.Context, id string) (models.AuditRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.audit[id]
	if !ok {
		return models.AuditRecord{}, errs.NotFound("audit record %s", id)
	}
	return a, nil
}

func (r *AuditRepo) Create(ctx context.Context, rec models.AuditRecord) (models.AuditRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("audit.create"); err != nil {
		return models.AuditRecord{}, err
	}
	rec.ID = uuid.NewString()
	rec.CreatedAt = r.s.now()
	r.s.audit[rec.ID] = rec
	return rec, nil
}

type SupplierRepo struct{ s *Store }

func (r *SupplierRepo) List(ctx context.Context) ([]models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Supplier, 0, len(r.s.suppliers))
	for _, s := range r.s.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *SupplierRepo) Get(ctx context.Context, id string) (models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.s.suppliers[id]
	if !ok {
		return models.Supplier{}, errs.NotFound("supplier %s", id)
	}
	return s, nil
}

func (r *SupplierRepo) byName(name string) (models.Supplier, bool) {
	for _, s := range r.s.suppliers {
		if strings.EqualFold(s.Name, name) {
			return s, true
		}
	}
	return models.Supplier{}, false
}

func (r *SupplierRepo) GetByName(ctx context.Context, name string) (models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.byName(name)
	if !ok {
		return models.Supplier{}, errs.NotFound("supplier %s", name)
	}
	return s, nil
}

func (r *SupplierRepo) Create(ctx context.Context, in models.SupplierInput) (models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("supplier.create"); err != nil {
		return models.Supplier{}, err
	}
	if _, taken := r.byName(in.Name); taken {
		return models.Supplier{}, errs.ErrAlreadyExists
	}
	categories := append([]string{}, in.Categories...)
	s := models.Supplier{
		ID:            uuid.NewString(),
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		Categories:    categories,
		Rating:        in.Rating,
		PaymentTerms:  in.PaymentTerms,
		DeliveryTime:  in.DeliveryTime,
		Notes:         in.Notes,
		CreatedAt:     r.s.now(),
	}
	r.s.suppliers[s.ID] = s
	return s, nil
}

func (r *SupplierRepo) Update(ctx context.Context, id string, p models.SupplierPatch) (models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("supplier.update"); err != nil {
		return models.Supplier{}, err
	}
	s, ok := r.s.suppliers[id]
	if !ok {
		return models.Supplier{}, errs.NotFound("supplier %s", id)
	}
	str := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	str(&s.Name, p.Name)
	str(&s.ContactPerson, p.ContactPerson)
	str(&s.Email, p.Email)
	str(&s.Phone, p.Phone)
	str(&s.Address, p.Address)
	if p.Categories != nil {
		s.Categories = append([]string{}, (*p.Categories)...)
	}
	if p.Rating != nil {
		s.Rating = *p.Rating
	}
	str(&s.PaymentTerms, p.PaymentTerms)
	str(&s.DeliveryTime, p.DeliveryTime)
	str(&s.Notes, p.Notes)
	r.s.suppliers[id] = s
	return s, nil
}

func (r *SupplierRepo) RecordOrder(ctx context.Context, name string, value float64, at time.Time) (models.Supplier, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	s, ok := r.byName(name)
	if !ok {
		return models.Supplier{}, errs.NotFound("supplier %s", name)
	}
	s.TotalOrders++
	s.TotalValue += value
	s.LastOrderDate = &at
	r.s.suppliers[s.ID] = s
	return s, nil
}

func (r *SupplierRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("supplier.delete"); err != nil {
		return err
	}
	if _, ok := r.s.suppliers[id]; !ok {
		return errs.NotFound("supplier %s", id)
	}
	delete(r.s.suppliers, id)
	return nil
}

type OperatorRepo struct{ s *Store }

func (r *OperatorRepo) GetByEmail(ctx context.Context, email string) (models.Operator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.operators {
		if strings.EqualFold(o.Email, strings.TrimSpace(email)) {
			return o, nil
		}
	}
	return models.Operator{}, errs.NotFound("operator %s", email)
}

func (r *OperatorRepo) Get(ctx context.Context, id int64) (models.Operator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.operators[id]
	if !ok {
		return models.Operator{}, errs.NotFound("operator %d", id)
	}
	return o, nil
}

func (r *OperatorRepo) Create(ctx context.Context, op models.Operator) (models.Operator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.operators {
		if strings.EqualFold(o.Email, op.Email) {
			return models.Operator{}, errs.ErrAlreadyExists
		}
	}
	r.s.nextOpID++
	op.ID = r.s.nextOpID
	op.Email = strings.ToLower(op.Email)
	op.CreatedAt = r.s.now()
	r.s.operators[op.ID] = op
	return op, nil
}

func (r *OperatorRepo) List(ctx context.Context) ([]models.Operator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Operator, 0, len(r.s.operators))
	for _, o := range r.s.operators {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// SeedSuppliers loads the two suppliers the postgres migration seeds.
func (s *Store) SeedSuppliers() {
	r := s.Suppliers()
	for _, in := range []models.SupplierInput{
		{
			Name: "TechnoSA", ContactPerson: "Mehmet Kaya", Email: "satis@technosa.com.tr",
			Phone: "+90-212-555-0101", Address: "İstanbul", Categories: []string{"Laptop", "Masaüstü", "Monitör"},
			Rating: 4.5, PaymentTerms: "30 gün", DeliveryTime: "3-5 iş günü", Notes: "Kurumsal indirim mevcut",
		},
		{
			Name: "Vatan Bilgisayar", ContactPerson: "Ayşe Demir", Email: "kurumsal@vatanbilgisayar.com",
			Phone: "+90-216-555-0202", Address: "İstanbul", Categories: []string{"Monitör", "Yazıcı", "Ağ Ekipmanı"},
			Rating: 4.2, PaymentTerms: "15 gün", DeliveryTime: "1-3 iş günü",
		},
	} {
		_, _ = r.Create(context.Background(), in)
	}
}
