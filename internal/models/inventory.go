package models

import (
	"strings"
	"time"

	"hotel-inventory-api/internal/errs"
)

type InventoryStatus string

const (
	InventoryInStock     InventoryStatus = "in_stock"
	InventoryDefective   InventoryStatus = "defective"
	InventoryUnderRepair InventoryStatus = "under_repair"
	InventoryDisposed    InventoryStatus = "disposed"
)

func (s InventoryStatus) Valid() bool {
	switch s {
	case InventoryInStock, InventoryDefective, InventoryUnderRepair, InventoryDisposed:
		return true
	}
	return false
}

// JSONB is a free-form object stored in a jsonb column.
type JSONB map[string]interface{}

type InventoryItem struct {
	ID                 string          `json:"id"`
	ItemName           string          `json:"itemName"`
	SerialNumber       string          `json:"serialNumber"`
	PurchaseDate       *time.Time      `json:"purchaseDate,omitempty"`
	CurrentStatus      InventoryStatus `json:"currentStatus"`
	LocationDepartment string          `json:"locationDepartment"`
	WarrantyStartDate  *time.Time      `json:"warrantyStartDate,omitempty"`
	WarrantyEndDate    *time.Time      `json:"warrantyEndDate,omitempty"`
	WarrantyProvider   string          `json:"warrantyProvider,omitempty"`
	PurchasePrice      *float64        `json:"purchasePrice,omitempty"`
	Supplier           string          `json:"supplier,omitempty"`
	Category           string          `json:"category"`
	Brand              string          `json:"brand"`
	Model              string          `json:"model"`
	Specifications     JSONB           `json:"specifications,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type InventoryItemInput struct {
	ItemName           string          `json:"itemName"`
	SerialNumber       string          `json:"serialNumber"`
	PurchaseDate       *time.Time      `json:"purchaseDate,omitempty"`
	CurrentStatus      InventoryStatus `json:"currentStatus,omitempty"`
	LocationDepartment string          `json:"locationDepartment"`
	WarrantyStartDate  *time.Time      `json:"warrantyStartDate,omitempty"`
	WarrantyEndDate    *time.Time      `json:"warrantyEndDate,omitempty"`
	WarrantyProvider   string          `json:"warrantyProvider,omitempty"`
	PurchasePrice      *float64        `json:"purchasePrice,omitempty"`
	Supplier           string          `json:"supplier,omitempty"`
	Category           string          `json:"category"`
	Brand              string          `json:"brand"`
	Model              string          `json:"model"`
	Specifications     JSONB           `json:"specifications,omitempty"`
	Notes              string          `json:"notes,omitempty"`
}

func (in *InventoryItemInput) Normalize() {
	in.ItemName = strings.TrimSpace(in.ItemName)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	in.Category = strings.TrimSpace(in.Category)
	if in.CurrentStatus == "" {
		in.CurrentStatus = InventoryInStock
	}
}

func (in InventoryItemInput) Validate() error {
	switch {
	case in.ItemName == "":
		return errs.Validation("item name is required")
	case in.SerialNumber == "":
		return errs.Validation("serial number is required")
	case in.Category == "":
		return errs.Validation("category is required")
	case !in.CurrentStatus.Valid():
		return errs.Validation("unknown inventory status %q", in.CurrentStatus)
	case in.PurchasePrice != nil && *in.PurchasePrice < 0:
		return errs.Validation("purchase price must not be negative")
	case in.WarrantyStartDate != nil && in.WarrantyEndDate != nil && in.WarrantyEndDate.Before(*in.WarrantyStartDate):
		return errs.Validation("warranty end precedes warranty start")
	}
	return nil
}

type InventoryItemPatch struct {
	ItemName           *string          `json:"itemName,omitempty"`
	SerialNumber       *string          `json:"serialNumber,omitempty"`
	PurchaseDate       *time.Time       `json:"purchaseDate,omitempty"`
	CurrentStatus      *InventoryStatus `json:"currentStatus,omitempty"`
	LocationDepartment *string          `json:"locationDepartment,omitempty"`
	WarrantyStartDate  *time.Time       `json:"warrantyStartDate,omitempty"`
	WarrantyEndDate    *time.Time       `json:"warrantyEndDate,omitempty"`
	WarrantyProvider   *string          `json:"warrantyProvider,omitempty"`
	PurchasePrice      *float64         `json:"purchasePrice,omitempty"`
	Supplier           *string          `json:"supplier,omitempty"`
	Category           *string          `json:"category,omitempty"`
	Brand              *string          `json:"brand,omitempty"`
	Model              *string          `json:"model,omitempty"`
	Specifications     JSONB            `json:"specifications,omitempty"`
	Notes              *string          `json:"notes,omitempty"`
}

func (p *InventoryItemPatch) Normalize() {
	trimPtr(p.ItemName)
	trimPtr(p.SerialNumber)
	trimPtr(p.Category)
}

func (p InventoryItemPatch) Validate() error {
	if p.ItemName != nil && strings.TrimSpace(*p.ItemName) == "" {
		return errs.Validation("item name must not be empty")
	}
	if p.SerialNumber != nil && strings.TrimSpace(*p.SerialNumber) == "" {
		return errs.Validation("serial number must not be empty")
	}
	if p.CurrentStatus != nil && !p.CurrentStatus.Valid() {
		return errs.Validation("unknown inventory status %q", *p.CurrentStatus)
	}
	if p.PurchasePrice != nil && *p.PurchasePrice < 0 {
		return errs.Validation("purchase price must not be negative")
	}
	return nil
}

// Changes lists the patched fields with their new values, keyed by JSON name.
func (p InventoryItemPatch) Changes() JSONB {
	out := JSONB{}
	put := func(key string, set bool, v interface{}) {
		if set {
			out[key] = v
		}
	}
	put("itemName", p.ItemName != nil, deref(p.ItemName))
	put("serialNumber", p.SerialNumber != nil, deref(p.SerialNumber))
	put("purchaseDate", p.PurchaseDate != nil, p.PurchaseDate)
	if p.CurrentStatus != nil {
		out["currentStatus"] = string(*p.CurrentStatus)
	}
	put("locationDepartment", p.LocationDepartment != nil, deref(p.LocationDepartment))
	put("warrantyStartDate", p.WarrantyStartDate != nil, p.WarrantyStartDate)
	put("warrantyEndDate", p.WarrantyEndDate != nil, p.WarrantyEndDate)
	put("warrantyProvider", p.WarrantyProvider != nil, deref(p.WarrantyProvider))
	if p.PurchasePrice != nil {
		out["purchasePrice"] = *p.PurchasePrice
	}
	put("supplier", p.Supplier != nil, deref(p.Supplier))
	put("category", p.Category != nil, deref(p.Category))
	put("brand", p.Brand != nil, deref(p.Brand))
	put("model", p.Model != nil, deref(p.Model))
	put("specifications", p.Specifications != nil, map[string]interface{}(p.Specifications))
	put("notes", p.Notes != nil, deref(p.Notes))
	return out
}

func (p InventoryItemPatch) Empty() bool { return len(p.Changes()) == 0 }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type MaintenanceType string

const (
	MaintenanceRepair      MaintenanceType = "repair"
	MaintenancePreventive  MaintenanceType = "preventive"
	MaintenanceInspection  MaintenanceType = "inspection"
	MaintenanceReplacement MaintenanceType = "replacement"
)

func (t MaintenanceType) Valid() bool {
	switch t {
	case MaintenanceRepair, MaintenancePreventive, MaintenanceInspection, MaintenanceReplacement:
		return true
	}
	return false
}

type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "scheduled"
	MaintenanceInProgress MaintenanceStatus = "in_progress"
	MaintenanceCompleted  MaintenanceStatus = "completed"
	MaintenanceCancelled  MaintenanceStatus = "cancelled"
)

func (s MaintenanceStatus) Valid() bool {
	switch s {
	case MaintenanceScheduled, MaintenanceInProgress, MaintenanceCompleted, MaintenanceCancelled:
		return true
	}
	return false
}

// Open reports whether work on the record is still pending.
func (s MaintenanceStatus) Open() bool {
	return s == MaintenanceScheduled || s == MaintenanceInProgress
}

type MaintenanceRecord struct {
	ID              string            `json:"id"`
	InventoryItemID string            `json:"inventoryItemId"`
	MaintenanceDate time.Time         `json:"maintenanceDate"`
	MaintenanceType MaintenanceType   `json:"maintenanceType"`
	Description     string            `json:"description"`
	Cost            *float64          `json:"cost,omitempty"`
	Technician      string            `json:"technician,omitempty"`
	SupplierService string            `json:"supplierService,omitempty"`
	Status          MaintenanceStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type MaintenanceInput struct {
	InventoryItemID string            `json:"inventoryItemId"`
	MaintenanceDate time.Time         `json:"maintenanceDate"`
	MaintenanceType MaintenanceType   `json:"maintenanceType"`
	Description     string            `json:"description"`
	Cost            *float64          `json:"cost,omitempty"`
	Technician      string            `json:"technician,omitempty"`
	SupplierService string            `json:"supplierService,omitempty"`
	Status          MaintenanceStatus `json:"status,omitempty"`
}

func (in MaintenanceInput) Validate() error {
	switch {
	case in.InventoryItemID == "":
		return errs.Validation("inventory item id is required")
	case !in.MaintenanceType.Valid():
		return errs.Validation("unknown maintenance type %q", in.MaintenanceType)
	case !in.Status.Valid():
		return errs.Validation("unknown maintenance status %q", in.Status)
	case strings.TrimSpace(in.Description) == "":
		return errs.Validation("description is required")
	case in.Cost != nil && *in.Cost < 0:
		return errs.Validation("cost must not be negative")
	}
	return nil
}

type MaintenancePatch struct {
	MaintenanceDate *time.Time         `json:"maintenanceDate,omitempty"`
	MaintenanceType *MaintenanceType   `json:"maintenanceType,omitempty"`
	Description     *string            `json:"description,omitempty"`
	Cost            *float64           `json:"cost,omitempty"`
	Technician      *string            `json:"technician,omitempty"`
	SupplierService *string            `json:"supplierService,omitempty"`
	Status          *MaintenanceStatus `json:"status,omitempty"`
}

func (p MaintenancePatch) Validate() error {
	if p.MaintenanceType != nil && !p.MaintenanceType.Valid() {
		return errs.Validation("unknown maintenance type %q", *p.MaintenanceType)
	}
	if p.Status != nil && !p.Status.Valid() {
		return errs.Validation("unknown maintenance status %q", *p.Status)
	}
	if p.Cost != nil && *p.Cost < 0 {
		return errs.Validation("cost must not be negative")
	}
	return nil
}

func (p MaintenancePatch) Empty() bool {
	return p.MaintenanceDate == nil && p.MaintenanceType == nil && p.Description == nil &&
		p.Cost == nil && p.Technician == nil && p.SupplierService == nil && p.Status == nil
}

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

type AuditRecord struct {
	ID              string      `json:"id"`
	InventoryItemID string      `json:"inventoryItemId"`
	Action          AuditAction `json:"action"`
	OldValues       JSONB       `json:"oldValues,omitempty"`
	NewValues       JSONB       `json:"newValues,omitempty"`
	ChangedBy       string      `json:"changedBy"`
	ChangeReason    string      `json:"changeReason"`
	CreatedAt       time.Time   `json:"createdAt"`
}
