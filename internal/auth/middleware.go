package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"hotel-inventory-api/internal/models"
)

type contextKey string

// ClaimsKey holds the verified operator claims on the request context.
const ClaimsKey contextKey = "claims"

// maxTokenBytes bounds the bearer token before it is parsed.
const maxTokenBytes = 8 << 10

// expiryWarning is how close to expiry a token gets the X-Token-Expires-* headers.
const expiryWarning = time.Hour

// Role sets, from least to most privileged.
var (
	Readers = []string{models.RoleViewer, models.RoleStaff, models.RoleAdmin}
	Writers = []string{models.RoleStaff, models.RoleAdmin}
	Admins  = []string{models.RoleAdmin}
)

// ErrorResponse is the JSON error body shared with the handlers.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsKey).(*Claims)
	return claims
}

// NameFromContext returns the signed-in operator's name, recorded as the actor on
// audit entries.
func NameFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.Name
	}
	return ""
}

func sendErrorResponse(w http.ResponseWriter, message, code string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// tokenFailures maps validation errors to response codes, first match wins.
var tokenFailures = []struct {
	err     error
	code    string
	message string
}{
	{jwt.ErrTokenExpired, "TOKEN_EXPIRED", "Token has expired"},
	{ErrSigningMethod, "INVALID_SIGNING_METHOD", "Invalid token signing method"},
	{jwt.ErrTokenMalformed, "MALFORMED_TOKEN", "Token is malformed"},
	{jwt.ErrTokenInvalidAudience, "INVALID_TOKEN_AUDIENCE", "Token was not issued for this service"},
	{jwt.ErrTokenInvalidIssuer, "INVALID_TOKEN_AUDIENCE", "Token was not issued for this service"},
	{ErrNoOperator, "INVALID_OPERATOR", "Token does not name an operator with roles"},
}

func classify(err error) (code, message string) {
	for _, f := range tokenFailures {
		if errors.Is(err, f.err) {
			return f.code, f.message
		}
	}
	return "INVALID_TOKEN", "Invalid or expired token"
}

// bearerToken extracts the token from the Authorization header, or returns the
// failure code and message.
func bearerToken(r *http.Request) (token, code, message string) {
	header := r.Header.Get("Authorization")
	switch {
	case header == "":
		return "", "MISSING_AUTH_HEADER", "Authorization header required"
	case !strings.HasPrefix(header, "Bearer "):
		return "", "INVALID_AUTH_FORMAT", "Invalid authorization header format. Expected: Bearer <token>"
	}
	token = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || len(token) > maxTokenBytes || strings.Count(token, ".") != 2 {
		return "", "INVALID_TOKEN_FORMAT", "Invalid token format"
	}
	return token, "", ""
}

// AuthMiddleware verifies the bearer token and stores the operator claims on the
// request context.
func AuthMiddleware(jwtManager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, code, message := bearerToken(r)
			if code != "" {
				sendErrorResponse(w, message, code, http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.ValidateToken(token)
			if err != nil {
				code, message := classify(err)
				sendErrorResponse(w, message, code, http.StatusUnauthorized)
				return
			}

			if claims.IsExpiringSoon(expiryWarning) {
				w.Header().Set("X-Token-Expires-At", claims.ExpiresAt.Time.Format(time.RFC3339))
				w.Header().Set("X-Token-Expires-In", time.Until(claims.ExpiresAt.Time).Round(time.Second).String())
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ClaimsKey, claims)))
		})
	}
}

// MustRole lets the request through when the operator holds any of roles.
func MustRole(roles ...string) func(http.Handler) http.Handler {
	if len(roles) == 0 {
		panic("auth: MustRole needs at least one role")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				sendErrorResponse(w, "Authentication required", "AUTHENTICATION_REQUIRED", http.StatusUnauthorized)
				return
			}
			if !claims.HasRole(roles...) {
				sendErrorResponse(w, "Insufficient permissions", "INSUFFICIENT_PERMISSIONS", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
