package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/state"
)

// Date is a calendar day encoded as "dd.MM.yyyy". Time of day is dropped.
type Date time.Time

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(DateLayout))
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return fmt.Errorf("date %q: %w", s, err)
	}
	*d = Date(t)
	return nil
}

func datePtr(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	d := Date(*t)
	return &d
}

func timePtr(d *Date) *time.Time {
	if d == nil {
		return nil
	}
	t := time.Time(*d)
	return &t
}

type backupDevice struct {
	ID              string                `json:"id"`
	Brand           string                `json:"brand"`
	Category        string                `json:"category"`
	SerialNumber    string                `json:"serialNumber"`
	Status          models.DeviceStatus   `json:"status"`
	AssignedTo      *string               `json:"assignedTo"`
	AssignedDate    *Date                 `json:"assignedDate"`
	MaintenanceDate *Date                 `json:"maintenanceDate"`
	Specifications  models.Specifications `json:"specifications"`
	CreatedAt       Date                  `json:"createdAt"`
}

type backupAssignment struct {
	ID           string                  `json:"id"`
	DeviceID     string                  `json:"deviceId"`
	PersonnelID  string                  `json:"personnelId"`
	AssignedDate Date                    `json:"assignedDate"`
	ReturnedDate *Date                   `json:"returnedDate"`
	Status       models.AssignmentStatus `json:"status"`
	Notes        string                  `json:"notes,omitempty"`
}

type assignmentBackup struct {
	ExportDate  Date               `json:"exportDate"`
	Devices     []backupDevice     `json:"devices"`
	Personnel   []models.Personnel `json:"personnel"`
	Assignments []backupAssignment `json:"assignments"`
}

// Backup is a parsed assignment backup.
type Backup struct {
	ExportDate  time.Time
	Devices     []models.Device
	Personnel   []models.Personnel
	Assignments []models.Assignment
}

// AssignmentJSON renders devices, personnel and assignments as an indented JSON backup.
func AssignmentJSON(snap state.Snapshot, now time.Time) ([]byte, error) {
	doc := assignmentBackup{
		ExportDate:  Date(now),
		Devices:     make([]backupDevice, 0, len(snap.Devices)),
		Personnel:   make([]models.Personnel, 0, len(snap.Personnel)),
		Assignments: make([]backupAssignment, 0, len(snap.Assignments)),
	}
	for _, d := range snap.Devices {
		doc.Devices = append(doc.Devices, backupDevice{
			ID:              d.ID,
			Brand:           d.Brand,
			Category:        d.Category,
			SerialNumber:    d.SerialNumber,
			Status:          d.Status,
			AssignedTo:      d.AssignedTo,
			AssignedDate:    datePtr(d.AssignedDate),
			MaintenanceDate: datePtr(d.MaintenanceDate),
			Specifications:  d.Specifications,
			CreatedAt:       Date(d.CreatedAt),
		})
	}
	for _, p := range snap.Personnel {
		doc.Personnel = append(doc.Personnel, p.Clone())
	}
	for _, a := range snap.Assignments {
		doc.Assignments = append(doc.Assignments, backupAssignment{
			ID:           a.ID,
			DeviceID:     a.DeviceID,
			PersonnelID:  a.PersonnelID,
			AssignedDate: Date(a.AssignedDate),
			ReturnedDate: datePtr(a.ReturnedDate),
			Status:       a.Status,
			Notes:        a.Notes,
		})
	}
	return marshal(doc)
}

func marshal(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseBackup reads a document produced by AssignmentJSON.
func ParseBackup(data []byte) (Backup, error) {
	var doc assignmentBackup
	if err := json.Unmarshal(data, &doc); err != nil {
		return Backup{}, fmt.Errorf("parse backup: %w", err)
	}
	out := Backup{ExportDate: time.Time(doc.ExportDate)}
	for _, d := range doc.Devices {
		if !d.Status.Valid() {
			return Backup{}, fmt.Errorf("parse backup: device %s has unknown status %q", d.ID, d.Status)
		}
		out.Devices = append(out.Devices, models.Device{
			ID:              d.ID,
			Brand:           d.Brand,
			Category:        d.Category,
			SerialNumber:    d.SerialNumber,
			Status:          d.Status,
			AssignedTo:      d.AssignedTo,
			AssignedDate:    timePtr(d.AssignedDate),
			MaintenanceDate: timePtr(d.MaintenanceDate),
			Specifications:  d.Specifications,
			CreatedAt:       time.Time(d.CreatedAt),
		})
	}
	for _, p := range doc.Personnel {
		out.Personnel = append(out.Personnel, p.Clone())
	}
	for _, a := range doc.Assignments {
		out.Assignments = append(out.Assignments, models.Assignment{
			ID:           a.ID,
			DeviceID:     a.DeviceID,
			PersonnelID:  a.PersonnelID,
			AssignedDate: time.Time(a.AssignedDate),
			ReturnedDate: timePtr(a.ReturnedDate),
			Status:       a.Status,
			Notes:        a.Notes,
		})
	}
	return out, nil
}

type backupItem struct {
	models.InventoryItem
	PurchaseDate      *Date `json:"purchaseDate"`
	WarrantyStartDate *Date `json:"warrantyStartDate"`
	WarrantyEndDate   *Date `json:"warrantyEndDate"`
	CreatedAt         Date  `json:"createdAt"`
	UpdatedAt         Date  `json:"updatedAt"`
}

type backupMaintenance struct {
	models.MaintenanceRecord
	MaintenanceDate Date `json:"maintenanceDate"`
	CreatedAt       Date `json:"createdAt"`
	UpdatedAt       Date `json:"updatedAt"`
}

// InventoryJSON renders items and maintenance records as an indented JSON backup.
func InventoryJSON(snap state.InventorySnapshot, now time.Time) ([]byte, error) {
	doc := struct {
		ExportDate  Date                `json:"exportDate"`
		Inventory   []backupItem        `json:"inventory"`
		Maintenance []backupMaintenance `json:"maintenance"`
	}{
		ExportDate:  Date(now),
		Inventory:   make([]backupItem, 0, len(snap.Items)),
		Maintenance: make([]backupMaintenance, 0, len(snap.Maintenance)),
	}
	for _, it := range snap.Items {
		doc.Inventory = append(doc.Inventory, backupItem{
			InventoryItem:     it,
			PurchaseDate:      datePtr(it.PurchaseDate),
			WarrantyStartDate: datePtr(it.WarrantyStartDate),
			WarrantyEndDate:   datePtr(it.WarrantyEndDate),
			CreatedAt:         Date(it.CreatedAt),
			UpdatedAt:         Date(it.UpdatedAt),
		})
	}
	for _, m := range snap.Maintenance {
		doc.Maintenance = append(doc.Maintenance, backupMaintenance{
			MaintenanceRecord: m,
			MaintenanceDate:   Date(m.MaintenanceDate),
			CreatedAt:         Date(m.CreatedAt),
			UpdatedAt:         Date(m.UpdatedAt),
		})
	}
	return marshal(doc)
}
