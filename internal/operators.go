package internal

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"hotel-inventory-api/internal/auth"
	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/handlers"
	"hotel-inventory-api/internal/models"
)

var validRoles = []string{models.RoleViewer, models.RoleStaff, models.RoleAdmin}

// login checks the operator's password and issues a token.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		handlers.WriteErrorMessage(w, http.StatusBadRequest, "email and password are required", "VALIDATION_FAILED")
		return
	}
	if s.svc.Operators == nil {
		handlers.WriteErrorMessage(w, http.StatusServiceUnavailable, "login is not configured", "LOGIN_DISABLED")
		return
	}

	op, err := s.svc.Operators.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, errs.ErrNotFound) {
		handlers.WriteErrorMessage(w, http.StatusUnauthorized, "invalid credentials", "INVALID_CREDENTIALS")
		return
	}
	if err != nil {
		s.fail(w, err)
		return
	}
	if !op.Active || bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)) != nil {
		handlers.WriteErrorMessage(w, http.StatusUnauthorized, "invalid credentials", "INVALID_CREDENTIALS")
		return
	}

	token, expiresAt, err := s.JWTManager.GenerateToken(op.ID, op.Name, op.Roles)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.Log.Info("operator signed in", zap.Int64("operator_id", op.ID))
	s.ok(w, http.StatusOK, models.LoginResponse{Token: token, ExpiresAt: expiresAt, Operator: op})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		handlers.WriteErrorMessage(w, http.StatusUnauthorized, "no claims in context", "UNAUTHORIZED")
		return
	}
	out := map[string]any{
		"id":    claims.UserID,
		"name":  claims.Name,
		"roles": claims.Roles,
	}
	if claims.ExpiresAt != nil {
		out["expiresAt"] = claims.ExpiresAt.Time
	}
	if s.svc.Operators != nil {
		if op, err := s.svc.Operators.Get(r.Context(), claims.UserID); err == nil {
			out["email"] = op.Email
		}
	}
	s.ok(w, http.StatusOK, out)
}

func (s *Server) listOperators(w http.ResponseWriter, r *http.Request) {
	if s.svc.Operators == nil {
		s.ok(w, http.StatusOK, []models.Operator{})
		return
	}
	ops, err := s.svc.Operators.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusOK, ops)
}

type createOperatorRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

func (req createOperatorRequest) validate() error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return errs.Validation("name is required")
	case strings.TrimSpace(req.Email) == "":
		return errs.Validation("email is required")
	case len(req.Password) < 8:
		return errs.Validation("password must be at least 8 characters")
	case len(req.Roles) == 0:
		return errs.Validation("at least one role is required")
	}
	for _, role := range req.Roles {
		if !slices.Contains(validRoles, role) {
			return errs.Validation("unknown role %q", role)
		}
	}
	return nil
}

func (s *Server) createOperator(w http.ResponseWriter, r *http.Request) {
	var req createOperatorRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		s.fail(w, err)
		return
	}
	if s.svc.Operators == nil {
		handlers.WriteErrorMessage(w, http.StatusServiceUnavailable, "login is not configured", "LOGIN_DISABLED")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.fail(w, err)
		return
	}
	op, err := s.svc.Operators.Create(r.Context(), models.Operator{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Roles:        req.Roles,
		Active:       true,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	s.ok(w, http.StatusCreated, op)
}
