package models

import (
	"slices"
	"strings"
	"time"

	"hotel-inventory-api/internal/errs"
)

// Personnel is a staff member who can hold devices. AssignedDevices lists the ids of the
// devices currently held; AssignmentHistory lists every assignment id, newest first.
type Personnel struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Department        string    `json:"department"`
	Title             string    `json:"title"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	AssignedDevices   []string  `json:"assignedDevices"`
	AssignmentHistory []string  `json:"assignmentHistory"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (p Personnel) Clone() Personnel {
	p.AssignedDevices = slices.Clone(p.AssignedDevices)
	p.AssignmentHistory = slices.Clone(p.AssignmentHistory)
	if p.AssignedDevices == nil {
		p.AssignedDevices = []string{}
	}
	if p.AssignmentHistory == nil {
		p.AssignmentHistory = []string{}
	}
	return p
}

func (p Personnel) Holds(deviceID string) bool {
	return slices.Contains(p.AssignedDevices, deviceID)
}

type PersonnelInput struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Title      string `json:"title"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
}

func (in *PersonnelInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Department = strings.TrimSpace(in.Department)
	in.Title = strings.TrimSpace(in.Title)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

func (in PersonnelInput) Validate() error {
	if in.Name == "" {
		return errs.Validation("name is required")
	}
	if in.Department == "" {
		return errs.Validation("department is required")
	}
	return nil
}

type PersonnelPatch struct {
	Name       *string `json:"name,omitempty"`
	Department *string `json:"department,omitempty"`
	Title      *string `json:"title,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
}

func (p PersonnelPatch) Empty() bool {
	return p.Name == nil && p.Department == nil && p.Title == nil && p.Email == nil && p.Phone == nil
}

func (p *PersonnelPatch) Normalize() {
	for _, v := range []*string{p.Name, p.Department, p.Title, p.Email, p.Phone} {
		trimPtr(v)
	}
}

func (p PersonnelPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errs.Validation("name must not be empty")
	}
	if p.Department != nil && strings.TrimSpace(*p.Department) == "" {
		return errs.Validation("department must not be empty")
	}
	return nil
}

func (p PersonnelPatch) Apply(person Personnel) Personnel {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&person.Name, p.Name)
	set(&person.Department, p.Department)
	set(&person.Title, p.Title)
	set(&person.Email, p.Email)
	set(&person.Phone, p.Phone)
	return person
}
