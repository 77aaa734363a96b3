package models

import (
	"strings"
	"time"

	"hotel-inventory-api/internal/errs"
)

type DeviceStatus string

const (
	DeviceAvailable   DeviceStatus = "available"
	DeviceAssigned    DeviceStatus = "assigned"
	DeviceMaintenance DeviceStatus = "maintenance"
	DeviceRetired     DeviceStatus = "retired"
)

func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceAvailable, DeviceAssigned, DeviceMaintenance, DeviceRetired:
		return true
	}
	return false
}

// Specifications are free-form hardware details; every field is optional.
type Specifications struct {
	RAM             string `json:"ram,omitempty"`
	Processor       string `json:"processor,omitempty"`
	Generation      string `json:"generation,omitempty"`
	StorageType     string `json:"storageType,omitempty"`
	StorageCapacity string `json:"storageCapacity,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// Storage renders type and capacity as one label, e.g. "SSD 512GB".
func (s Specifications) Storage() string {
	return strings.TrimSpace(s.StorageType + " " + s.StorageCapacity)
}

// Device is a tracked piece of hardware. AssignedTo is the holder's display name and is
// set exactly when Status is assigned.
type Device struct {
	ID              string         `json:"id"`
	Brand           string         `json:"brand"`
	Category        string         `json:"category"`
	SerialNumber    string         `json:"serialNumber"`
	Status          DeviceStatus   `json:"status"`
	AssignedTo      *string        `json:"assignedTo,omitempty"`
	AssignedDate    *time.Time     `json:"assignedDate,omitempty"`
	MaintenanceDate *time.Time     `json:"maintenanceDate,omitempty"`
	Specifications  Specifications `json:"specifications"`
	CreatedAt       time.Time      `json:"createdAt"`
}

type DeviceInput struct {
	Brand           string         `json:"brand"`
	Category        string         `json:"category"`
	SerialNumber    string         `json:"serialNumber"`
	Status          DeviceStatus   `json:"status,omitempty"`
	MaintenanceDate *time.Time     `json:"maintenanceDate,omitempty"`
	Specifications  Specifications `json:"specifications"`
}

// Normalize trims text fields and defaults the status to available.
func (in *DeviceInput) Normalize() {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Category = strings.TrimSpace(in.Category)
	in.SerialNumber = strings.TrimSpace(in.SerialNumber)
	if in.Status == "" {
		in.Status = DeviceAvailable
	}
}

func (in DeviceInput) Validate() error {
	switch {
	case in.Brand == "":
		return errs.Validation("brand is required")
	case in.Category == "":
		return errs.Validation("category is required")
	case in.SerialNumber == "":
		return errs.Validation("serial number is required")
	case !in.Status.Valid():
		return errs.Validation("unknown device status %q", in.Status)
	}
	return nil
}

// DevicePatch carries only the fields being changed.
type DevicePatch struct {
	Brand           *string         `json:"brand,omitempty"`
	Category        *string         `json:"category,omitempty"`
	SerialNumber    *string         `json:"serialNumber,omitempty"`
	Status          *DeviceStatus   `json:"status,omitempty"`
	MaintenanceDate *time.Time      `json:"maintenanceDate,omitempty"`
	Specifications  *Specifications `json:"specifications,omitempty"`
}

func (p DevicePatch) Empty() bool {
	return p.Brand == nil && p.Category == nil && p.SerialNumber == nil &&
		p.Status == nil && p.MaintenanceDate == nil && p.Specifications == nil
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

// Normalize trims the text fields being changed.
func (p *DevicePatch) Normalize() {
	trimPtr(p.Brand)
	trimPtr(p.Category)
	trimPtr(p.SerialNumber)
}

func (p DevicePatch) Validate() error {
	if p.Brand != nil && strings.TrimSpace(*p.Brand) == "" {
		return errs.Validation("brand must not be empty")
	}
	if p.Category != nil && strings.TrimSpace(*p.Category) == "" {
		return errs.Validation("category must not be empty")
	}
	if p.SerialNumber != nil && strings.TrimSpace(*p.SerialNumber) == "" {
		return errs.Validation("serial number must not be empty")
	}
	if p.Status != nil && !p.Status.Valid() {
		return errs.Validation("unknown device status %q", *p.Status)
	}
	return nil
}

// Apply returns d with the patch applied, as the store would persist it. Callers
// normalize the patch first.
func (p DevicePatch) Apply(d Device) Device {
	if p.Brand != nil {
		d.Brand = *p.Brand
	}
	if p.Category != nil {
		d.Category = *p.Category
	}
	if p.SerialNumber != nil {
		d.SerialNumber = *p.SerialNumber
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.MaintenanceDate != nil {
		t := *p.MaintenanceDate
		d.MaintenanceDate = &t
	}
	if p.Specifications != nil {
		d.Specifications = *p.Specifications
	}
	return d
}
