package internal

import (
	"cmp"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel-inventory-api/internal/models"
)

var deviceSort = map[string]sortKey[models.Device]{
	"brand":        byString(func(d models.Device) string { return d.Brand }),
	"category":     byString(func(d models.Device) string { return d.Category }),
	"serialNumber": byString(func(d models.Device) string { return d.SerialNumber }),
	"status":       byString(func(d models.Device) string { return string(d.Status) }),
	"createdAt":    func(a, b models.Device) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

// listDevices filters the cached devices. q matches brand, serial number and holder.
func (s *Server) listDevices(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	rows := []models.Device{}
	for _, d := range s.svc.Coordinator.Devices() {
		holder := ""
		if d.AssignedTo != nil {
			holder = *d.AssignedTo
		}
		if !equalOrEmpty(params.status, string(d.Status)) ||
			!equalOrEmpty(params.category, d.Category) ||
			!matches(params.q, d.Brand, d.SerialNumber, holder, d.Category) {
			continue
		}
		rows = append(rows, d)
	}
	sendListResponse(w, rows, params, deviceSort)
}

func (s *Server) getDevice(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Coordinator.Device(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, d)
}

func (s *Server) createDevice(w http.ResponseWriter, r *http.Request) {
	var in models.DeviceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	d, err := s.svc.Coordinator.AddDevice(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, d)
}

func (s *Server) updateDevice(w http.ResponseWriter, r *http.Request) {
	var patch models.DevicePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	d, err := s.svc.Coordinator.UpdateDevice(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, d)
}

func (s *Server) deleteDevice(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, s.svc.Coordinator.DeleteDevice(r.Context(), chi.URLParam(r, "id"), confirmer(r)))
}

var personnelSort = map[string]sortKey[models.Personnel]{
	"name":       byString(func(p models.Personnel) string { return p.Name }),
	"department": byString(func(p models.Personnel) string { return p.Department }),
	"devices":    func(a, b models.Personnel) int { return cmp.Compare(len(a.AssignedDevices), len(b.AssignedDevices)) },
	"createdAt":  func(a, b models.Personnel) int { return a.CreatedAt.Compare(b.CreatedAt) },
}

func (s *Server) listPersonnel(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	rows := []models.Personnel{}
	for _, p := range s.svc.Coordinator.Personnel() {
		if !equalOrEmpty(params.department, p.Department) ||
			!matches(params.q, p.Name, p.Email, p.Title, p.Department) {
			continue
		}
		rows = append(rows, p)
	}
	sendListResponse(w, rows, params, personnelSort)
}

func (s *Server) getPersonnel(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Coordinator.Person(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, p)
}

// personnelAssignments lists a person's assignment history, newest first.
func (s *Server) personnelAssignments(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Coordinator.Person(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	rows := make([]models.Assignment, 0, len(p.AssignmentHistory))
	for _, id := range p.AssignmentHistory {
		if a, err := s.svc.Coordinator.Assignment(id); err == nil {
			rows = append(rows, a)
		}
	}
	s.ok(w, http.StatusOK, rows)
}

func (s *Server) createPersonnel(w http.ResponseWriter, r *http.Request) {
	var in models.PersonnelInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := s.svc.Coordinator.AddPersonnel(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, p)
}

func (s *Server) updatePersonnel(w http.ResponseWriter, r *http.Request) {
	var patch models.PersonnelPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	p, err := s.svc.Coordinator.UpdatePersonnel(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, p)
}

func (s *Server) deletePersonnel(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, s.svc.Coordinator.DeletePersonnel(r.Context(), chi.URLParam(r, "id"), confirmer(r)))
}

var assignmentSort = map[string]sortKey[models.Assignment]{
	"assignedDate": func(a, b models.Assignment) int { return a.AssignedDate.Compare(b.AssignedDate) },
	"status":       byString(func(a models.Assignment) string { return string(a.Status) }),
}

// listAssignments supports status, deviceId and personnelId filters.
func (s *Server) listAssignments(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	deviceID := r.URL.Query().Get("deviceId")
	personnelID := r.URL.Query().Get("personnelId")
	rows := []models.Assignment{}
	for _, a := range s.svc.Coordinator.Assignments() {
		if !equalOrEmpty(params.status, string(a.Status)) ||
			!equalOrEmpty(deviceID, a.DeviceID) ||
			!equalOrEmpty(personnelID, a.PersonnelID) ||
			!matches(params.q, a.Notes) {
			continue
		}
		rows = append(rows, a)
	}
	sendListResponse(w, rows, params, assignmentSort)
}

func (s *Server) getAssignment(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Coordinator.Assignment(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, a)
}

type assignRequest struct {
	DeviceID    string `json:"deviceId"`
	PersonnelID string `json:"personnelId"`
	Notes       string `json:"notes,omitempty"`
}

func (s *Server) assignDevice(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := s.svc.Coordinator.AssignDevice(r.Context(), req.DeviceID, req.PersonnelID, req.Notes)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, a)
}

func (s *Server) returnDevice(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Coordinator.ReturnDevice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, a)
}
