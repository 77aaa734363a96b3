package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/models"
)

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	kind := r.URL.Query().Get("type")
	rows := []models.StockAlert{}
	for _, a := range s.svc.Alerts.Alerts(r.URL.Query().Get("all") == "true") {
		if !equalOrEmpty(params.category, a.Category) ||
			!equalOrEmpty(kind, string(a.Type)) ||
			!matches(params.q, a.Message, a.ItemName) {
			continue
		}
		rows = append(rows, a)
	}
	// Alerts come back most severe first; no sort keys are offered.
	sendListResponse(w, rows, params, nil)
}

func (s *Server) acknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	a, err := s.svc.Alerts.Acknowledge(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, a)
}

func (s *Server) listThresholds(w http.ResponseWriter, r *http.Request) {
	s.ok(w, http.StatusOK, s.svc.Alerts.Thresholds())
}

// setThreshold replaces one category's settings and re-evaluates right away.
func (s *Server) setThreshold(w http.ResponseWriter, r *http.Request) {
	var t config.CategoryThreshold
	if !decodeJSON(w, r, &t) {
		return
	}
	if err := s.svc.Alerts.SetThreshold(t); err != nil {
		s.fail(w, err)
		return
	}
	s.kick()
	s.ok(w, http.StatusOK, t)
}

func (s *Server) kick() {
	if s.svc.Watcher != nil {
		s.svc.Watcher.Kick()
	}
}

var orderSort = map[string]sortKey[models.PurchaseOrder]{
	"orderDate":     func(a, b models.PurchaseOrder) int { return a.OrderDate.Compare(b.OrderDate) },
	"status":        byString(func(o models.PurchaseOrder) string { return string(o.Status) }),
	"category":      byString(func(o models.PurchaseOrder) string { return o.Category }),
	"estimatedCost": func(a, b models.PurchaseOrder) int { return cmpFloat(a.EstimatedCost, b.EstimatedCost) },
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	rows := []models.PurchaseOrder{}
	for _, o := range s.svc.Procurement.Orders() {
		if !equalOrEmpty(params.status, string(o.Status)) ||
			!equalOrEmpty(params.category, o.Category) ||
			!matches(params.q, o.Supplier, o.Notes) {
			continue
		}
		rows = append(rows, o)
	}
	sendListResponse(w, rows, params, orderSort)
}

// checkOrders runs an evaluation pass now and returns what it raised.
func (s *Server) checkOrders(w http.ResponseWriter, r *http.Request) {
	var (
		alerts []models.StockAlert
		orders []models.PurchaseOrder
	)
	if s.svc.Watcher != nil {
		alerts, orders = s.svc.Watcher.Evaluate(r.Context())
	} else {
		orders = s.svc.Procurement.Check(s.svc.Inventory.Items())
	}
	if alerts == nil {
		alerts = []models.StockAlert{}
	}
	if orders == nil {
		orders = []models.PurchaseOrder{}
	}
	s.ok(w, http.StatusOK, map[string]any{"alerts": alerts, "orders": orders})
}

func (s *Server) orderStep(w http.ResponseWriter, o models.PurchaseOrder, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, o)
}

func (s *Server) approveOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Procurement.Approve(chi.URLParam(r, "id"))
	s.orderStep(w, o, err)
}

func (s *Server) markOrdered(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Procurement.MarkOrdered(chi.URLParam(r, "id"))
	s.orderStep(w, o, err)
}

func (s *Server) receiveOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Procurement.Receive(r.Context(), chi.URLParam(r, "id"))
	s.orderStep(w, o, err)
}

func (s *Server) advanceOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Procurement.Advance(r.Context(), chi.URLParam(r, "id"))
	s.orderStep(w, o, err)
}

func (s *Server) rejectOrder(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, s.svc.Procurement.Reject(chi.URLParam(r, "id")))
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	s.ok(w, http.StatusOK, s.svc.Procurement.Rules())
}

func (s *Server) createRule(w http.ResponseWriter, r *http.Request) {
	var rule models.AutoOrderRule
	if !decodeJSON(w, r, &rule) {
		return
	}
	created, err := s.svc.Procurement.AddRule(rule)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.kick()
	s.ok(w, http.StatusCreated, created)
}

func (s *Server) toggleRule(w http.ResponseWriter, r *http.Request) {
	rule, err := s.svc.Procurement.ToggleRule(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, rule)
}

func (s *Server) deleteRule(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, s.svc.Procurement.DeleteRule(r.Context(), chi.URLParam(r, "id"), confirmer(r)))
}

var supplierSort = map[string]sortKey[models.Supplier]{
	"name":        byString(func(sp models.Supplier) string { return sp.Name }),
	"rating":      func(a, b models.Supplier) int { return cmpFloat(a.Rating, b.Rating) },
	"totalOrders": func(a, b models.Supplier) int { return a.TotalOrders - b.TotalOrders },
}

// listSuppliers reads through to the store; category matches any listed category.
func (s *Server) listSuppliers(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)
	all, err := s.svc.Suppliers.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	rows := []models.Supplier{}
	for _, sp := range all {
		if params.category != "" && !containsFold(sp.Categories, params.category) {
			continue
		}
		if !matches(params.q, sp.Name, sp.ContactPerson, sp.Email) {
			continue
		}
		rows = append(rows, sp)
	}
	sendListResponse(w, rows, params, supplierSort)
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if equalOrEmpty(v, s) {
			return true
		}
	}
	return false
}

func (s *Server) getSupplier(w http.ResponseWriter, r *http.Request) {
	sp, err := s.svc.Suppliers.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, sp)
}

func (s *Server) createSupplier(w http.ResponseWriter, r *http.Request) {
	var in models.SupplierInput
	if !decodeJSON(w, r, &in) {
		return
	}
	sp, err := s.svc.Suppliers.Create(r.Context(), in)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, sp)
}

func (s *Server) updateSupplier(w http.ResponseWriter, r *http.Request) {
	var patch models.SupplierPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	sp, err := s.svc.Suppliers.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, sp)
}

func (s *Server) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	s.noContent(w, s.svc.Suppliers.Delete(r.Context(), chi.URLParam(r, "id"), confirmer(r)))
}
