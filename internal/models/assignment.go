package models

import "time"

type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "active"
	AssignmentReturned AssignmentStatus = "returned"
)

// Assignment links one device to one person. It is never deleted; it moves from
// active to returned exactly once.
type Assignment struct {
	ID           string           `json:"id"`
	DeviceID     string           `json:"deviceId"`
	PersonnelID  string           `json:"personnelId"`
	AssignedDate time.Time        `json:"assignedDate"`
	ReturnedDate *time.Time       `json:"returnedDate,omitempty"`
	Status       AssignmentStatus `json:"status"`
	Notes        string           `json:"notes,omitempty"`
}

func (a Assignment) Active() bool { return a.Status == AssignmentActive }

// AssignParams are the inputs of the transactional assign write.
type AssignParams struct {
	DeviceID      string
	PersonnelID   string
	PersonnelName string
	Notes         string
	At            time.Time
}

// AssignmentResult is the state of the three rows touched by an assign or a return.
// Device or Personnel is nil when the row no longer exists.
type AssignmentResult struct {
	Assignment Assignment
	Device     *Device
	Personnel  *Personnel
}
