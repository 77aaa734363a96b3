package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/stats"
)

// timeOrZero sorts missing dates first.
func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

var itemSort = map[string]sortKey[models.InventoryItem]{
	"itemName":      byString(func(it models.InventoryItem) string { return it.ItemName }),
	"category":      byString(func(it models.InventoryItem) string { return it.Category }),
	"currentStatus": byString(func(it models.InventoryItem) string { return string(it.CurrentStatus) }),
	"department":    byString(func(it models.InventoryItem) string { return it.LocationDepartment }),
	"purchaseDate": func(a, b models.InventoryItem) int {
		return timeOrZero(a.PurchaseDate).Compare(timeOrZero(b.PurchaseDate))
	},
	"warrantyEndDate": func(a, b models.InventoryItem) int {
		return timeOrZero(a.WarrantyEndDate).Compare(timeOrZero(b.WarrantyEndDate))
	},
	"updatedAt": func(a, b models.InventoryItem) int { return a.UpdatedAt.Compare(b.UpdatedAt) },
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	rows := []models.InventoryItem{}
	for _, it := range s.svc.Inventory.Items() {
		if !equalOrEmpty(params.status, string(it.CurrentStatus)) ||
			!equalOrEmpty(params.category, it.Category) ||
			!equalOrEmpty(params.department, it.LocationDepartment) ||
			!matches(params.q, it.ItemName, it.SerialNumber, it.Brand, it.Model, it.Supplier) {
			continue
		}
		rows = append(rows, it)
	}
	sendListResponse(w, rows, params, itemSort)
}

func (s *Server) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.svc.Inventory.Item(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, it)
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var in models.InventoryItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	it, err := s.svc.Inventory.AddItem(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, it)
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	var patch models.InventoryItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	it, err := s.svc.Inventory.UpdateItem(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, it)
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, s.svc.Inventory.DeleteItem(r.Context(), chi.URLParam(r, "id"), confirmer(r)))
}

// itemHistory returns the item's maintenance records and audit trail.
func (s *Server) itemHistory(w http.ResponseWriter, r *http.Request) {
	maint, audit, err := s.svc.Inventory.History(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, map[string]any{"maintenance": maint, "audit": audit})
}

type defectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) markDefective(w http.ResponseWriter, r *http.Request) {
	var req defectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	it, rec, err := s.svc.Inventory.MarkAsDefective(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, map[string]any{"item": it, "maintenance": rec})
}

func (s *Server) markRepaired(w http.ResponseWriter, r *http.Request) {
	it, rec, err := s.svc.Inventory.MarkAsRepaired(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, map[string]any{"item": it, "maintenance": rec})
}

var maintenanceSort = map[string]sortKey[models.MaintenanceRecord]{
	"maintenanceDate": func(a, b models.MaintenanceRecord) int { return a.MaintenanceDate.Compare(b.MaintenanceDate) },
	"status":          byString(func(m models.MaintenanceRecord) string { return string(m.Status) }),
	"type":            byString(func(m models.MaintenanceRecord) string { return string(m.MaintenanceType) }),
}

// listMaintenance filters by status, itemId and type.
func (s *Server) listMaintenance(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	itemID := r.URL.Query().Get("itemId")
	kind := r.URL.Query().Get("type")
	rows := []models.MaintenanceRecord{}
	for _, m := range s.svc.Inventory.Maintenance() {
		if !equalOrEmpty(params.status, string(m.Status)) ||
			!equalOrEmpty(itemID, m.InventoryItemID) ||
			!equalOrEmpty(kind, string(m.MaintenanceType)) ||
			!matches(params.q, m.Description, m.Technician, m.SupplierService) {
			continue
		}
		rows = append(rows, m)
	}
	sendListResponse(w, rows, params, maintenanceSort)
}

func (s *Server) createMaintenance(w http.ResponseWriter, r *http.Request) {
	var in models.MaintenanceInput
	if !decodeJSON(w, r, &in) {
		return
	}
	rec, err := s.svc.Inventory.AddMaintenance(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, rec)
}

func (s *Server) updateMaintenance(w http.ResponseWriter, r *http.Request) {
	var patch models.MaintenancePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	rec, err := s.svc.Inventory.UpdateMaintenance(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, rec)
}

var auditSort = map[string]sortKey[models.AuditRecord]{
	"createdAt": func(a, b models.AuditRecord) int { return a.CreatedAt.Compare(b.CreatedAt) },
	"action":    byString(func(a models.AuditRecord) string { return string(a.Action) }),
}

func (s *Server) listAudit(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	itemID := r.URL.Query().Get("itemId")
	action := r.URL.Query().Get("action")
	rows := []models.AuditRecord{}
	for _, a := range s.svc.Coordinator.State().Audit() {
		if !equalOrEmpty(itemID, a.InventoryItemID) ||
			!equalOrEmpty(action, string(a.Action)) ||
			!matches(params.q, a.ChangedBy, a.ChangeReason) {
			continue
		}
		rows = append(rows, a)
	}
	sendListResponse(w, rows, params, auditSort)
}

func (s *Server) deviceStats(w http.ResponseWriter, r *http.Request) {
	s.ok(w, http.StatusOK, stats.Devices(s.svc.Coordinator.State().Snapshot()))
}

func (s *Server) inventoryStats(w http.ResponseWriter, r *http.Request) {
	s.ok(w, http.StatusOK, stats.Inventory(s.svc.Coordinator.State().InventorySnapshot()))
}

// inventoryReport analyses the items created within ?range= (30, 90, 365 or all).
func (s *Server) inventoryReport(w http.ResponseWriter, r *http.Request) {
	rng, err := stats.ParseRange(r.URL.Query().Get("range"))
	if err != nil {
		s.fail(w, err)
		return
	}
	snap := s.svc.Coordinator.State().InventorySnapshot()
	s.ok(w, http.StatusOK, stats.BuildReport(snap, s.exports.Now(), rng))
}
