package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"hotel-inventory-api/internal/auth"
	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/handlers"
	"hotel-inventory-api/internal/repository"
	"hotel-inventory-api/internal/service"
)

const maxBodyBytes = 1 << 20

// Services are the application components the HTTP layer drives.
type Services struct {
	Coordinator *service.Coordinator
	Inventory   *service.Inventory
	Alerts      *service.AlertEngine
	Procurement *service.Procurement
	Suppliers   *service.Suppliers
	Watcher     *service.Watcher
	Operators   repository.OperatorRepository
	Settings    *config.Procurement
	// Ping checks the backing store for /dbping. Nil reports ok.
	Ping func(ctx context.Context) error
}

type Server struct {
	Router     *chi.Mux
	JWTManager *auth.JWTManager
	Metrics    *Metrics
	Log        *zap.Logger

	svc     Services
	imports *handlers.ImportsHandler
	exports *handlers.ExportsHandler
}

// NewServer wires the router. metrics may be nil; it is created when missing so the
// coordinator and listener can share the caller's instance when there is one.
func NewServer(cfg *config.Config, svc Services, metrics *Metrics, log *zap.Logger) (*Server, error) {
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	if svc.Settings == nil {
		svc.Settings = config.DefaultProcurement()
	}

	s := &Server{
		Router:     chi.NewRouter(),
		JWTManager: jwtManager,
		Metrics:    metrics,
		Log:        log,
		svc:        svc,
		imports:    handlers.NewImportsHandler(svc.Coordinator, cfg.ImportMappingPath, log),
		exports:    handlers.NewExportsHandler(svc.Coordinator.State(), log),
	}

	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	s.Router.Use(requestLogger(log))
	if cfg.EnableMetrics {
		s.Router.Use(s.Metrics.Middleware())
		s.Router.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	// Public routes
	s.Router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	s.Router.Get("/dbping", s.dbPing)
	s.Router.Post("/auth/login", s.login)

	s.Router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.JWTManager))
		r.Use(auth.MustRole(auth.Readers...))
		r.Use(withActor)

		s.mountProtectedRoutes(r)
	})

	return s, nil
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.Ping(ctx); err != nil {
			s.Log.Warn("db ping failed", zap.Error(err))
			handlers.WriteErrorMessage(w, http.StatusServiceUnavailable, "db: unavailable", "DB_UNAVAILABLE")
			return
		}
	}
	if _, err := w.Write([]byte("db: ok")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writers and admins wrap a handler with the role check for mutating routes.
func writers(h http.HandlerFunc) http.HandlerFunc {
	return auth.MustRole(auth.Writers...)(h).ServeHTTP
}

func admins(h http.HandlerFunc) http.HandlerFunc {
	return auth.MustRole(auth.Admins...)(h).ServeHTTP
}

// mountProtectedRoutes mounts all protected routes that require authentication
func (s *Server) mountProtectedRoutes(r chi.Router) {
	r.Get("/auth/profile", s.profile)
	r.Get("/settings", s.settings)

	r.Route("/devices", func(r chi.Router) {
		r.Get("/", s.listDevices)
		r.Post("/", writers(s.createDevice))
		r.Get("/{id}", s.getDevice)
		r.Patch("/{id}", writers(s.updateDevice))
		r.Delete("/{id}", admins(s.deleteDevice))
	})

	r.Route("/personnel", func(r chi.Router) {
		r.Get("/", s.listPersonnel)
		r.Post("/", writers(s.createPersonnel))
		r.Get("/{id}", s.getPersonnel)
		r.Get("/{id}/assignments", s.personnelAssignments)
		r.Patch("/{id}", writers(s.updatePersonnel))
		r.Delete("/{id}", admins(s.deletePersonnel))
	})

	r.Route("/assignments", func(r chi.Router) {
		r.Get("/", s.listAssignments)
		r.Post("/", writers(s.assignDevice))
		r.Get("/{id}", s.getAssignment)
		r.Post("/{id}/return", writers(s.returnDevice))
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/items", s.listItems)
		r.Post("/items", writers(s.createItem))
		r.Get("/items/{id}", s.getItem)
		r.Patch("/items/{id}", writers(s.updateItem))
		r.Delete("/items/{id}", admins(s.deleteItem))
		r.Get("/items/{id}/history", s.itemHistory)
		r.Post("/items/{id}/mark-defective", writers(s.markDefective))
		r.Post("/items/{id}/mark-repaired", writers(s.markRepaired))

		r.Get("/maintenance", s.listMaintenance)
		r.Post("/maintenance", writers(s.createMaintenance))
		r.Patch("/maintenance/{id}", writers(s.updateMaintenance))

		r.Get("/audit", s.listAudit)
	})

	r.Route("/alerts", func(r chi.Router) {
		r.Get("/", s.listAlerts)
		r.Post("/{id}/acknowledge", writers(s.acknowledgeAlert))
		r.Get("/thresholds", s.listThresholds)
		r.Put("/thresholds", admins(s.setThreshold))
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.listOrders)
		r.Post("/check", writers(s.checkOrders))
		r.Post("/{id}/approve", writers(s.approveOrder))
		r.Post("/{id}/ordered", writers(s.markOrdered))
		r.Post("/{id}/receive", writers(s.receiveOrder))
		r.Post("/{id}/advance", writers(s.advanceOrder))
		r.Post("/{id}/reject", writers(s.rejectOrder))

		r.Get("/rules", s.listRules)
		r.Post("/rules", admins(s.createRule))
		r.Post("/rules/{id}/toggle", admins(s.toggleRule))
		r.Delete("/rules/{id}", admins(s.deleteRule))
	})

	r.Route("/suppliers", func(r chi.Router) {
		r.Get("/", s.listSuppliers)
		r.Post("/", writers(s.createSupplier))
		r.Get("/{id}", s.getSupplier)
		r.Patch("/{id}", writers(s.updateSupplier))
		r.Delete("/{id}", admins(s.deleteSupplier))
	})

	r.Get("/stats/devices", s.deviceStats)
	r.Get("/stats/inventory", s.inventoryStats)
	r.Get("/stats/inventory/report", s.inventoryReport)

	r.Get("/exports/assignments.xlsx", s.exports.AssignmentReport)
	r.Get("/exports/assignments.json", s.exports.AssignmentBackup)
	r.Get("/exports/inventory.xlsx", s.exports.InventoryReport)
	r.Get("/exports/inventory.json", s.exports.InventoryBackup)
	r.Get("/exports/inventory-report.json", s.exports.InventoryAnalysis)

	r.Get("/imports/template", s.imports.Template)
	r.Post("/imports/excel", writers(s.imports.UploadExcel))
	r.Post("/imports/backup", writers(s.exports.VerifyBackup))

	r.Get("/operators", admins(s.listOperators))
	r.Post("/operators", admins(s.createOperator))
}

// decodeJSON reads a JSON body into v, answering 400 itself when it cannot.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		handlers.WriteErrorMessage(w, http.StatusBadRequest, "invalid JSON: "+err.Error(), "INVALID_JSON")
		return false
	}
	return true
}

// confirmer answers delete prompts from the confirm query parameter.
func confirmer(r *http.Request) service.Confirmer {
	if r.URL.Query().Get("confirm") == "true" {
		return service.Always
	}
	return service.Never
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	handlers.WriteError(w, s.Log, err)
}

func (s *Server) ok(w http.ResponseWriter, status int, v any) {
	handlers.WriteJSON(w, status, map[string]any{"data": v})
}

// noContent finishes a delete.
func (s *Server) noContent(w http.ResponseWriter, err error) {
	if err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) settings(w http.ResponseWriter, r *http.Request) {
	s.ok(w, http.StatusOK, map[string]any{
		"categories":  s.svc.Settings.Categories,
		"departments": s.svc.Settings.Departments,
	})
}
