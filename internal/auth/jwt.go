package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims structure
type Claims struct {
	UserID int64    `json:"uid"`
	Name   string   `json:"name"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT operations
type JWTManager struct {
	secret   string
	issuer   string
	audience string
	expiry   time.Duration
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret, issuer, audience string, expiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		expiry:   expiry,
	}
}

func (j *JWTManager) ValidateConfig() error {
	if j.secret == "" {
		return errors.New("jwt secret is empty")
	}
	if len(j.secret) < 32 {
		return errors.New("jwt secret must be at least 32 characters")
	}
	if j.issuer == "" {
		return errors.New("jwt issuer is empty")
	}
	if j.audience == "" {
		return errors.New("jwt audience is empty")
	}
	if j.expiry <= 0 {
		return fmt.Errorf("jwt expiry must be positive, got %s", j.expiry)
	}
	return nil
}

// GenerateToken signs a token for an operator and reports when it expires.
func (j *JWTManager) GenerateToken(userID int64, name string, roles []string) (string, time.Time, error) {
	if userID <= 0 {
		return "", time.Time{}, errors.New("user id must be positive")
	}
	if len(roles) == 0 {
		return "", time.Time{}, errors.New("at least one role is required")
	}

	now := time.Now()
	expiresAt := now.Add(j.expiry)
	claims := &Claims{
		UserID: userID,
		Name:   name,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Audience:  []string{j.audience},
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

var (
	// ErrSigningMethod rejects tokens not signed with HMAC.
	ErrSigningMethod = errors.New("unexpected signing method")
	// ErrNoOperator rejects tokens without a positive operator id or any role.
	ErrNoOperator = errors.New("token does not name an operator with roles")
)

// ValidateToken parses tokenString and checks its signature, issuer, audience and
// operator claims.
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrSigningMethod, token.Header["alg"])
		}
		return []byte(j.secret), nil
	}, jwt.WithIssuer(j.issuer), jwt.WithAudience(j.audience))
	if err != nil {
		return nil, err
	}
	if claims.UserID <= 0 || len(claims.Roles) == 0 {
		return nil, ErrNoOperator
	}
	return claims, nil
}

// HasRole checks if the user has any of the required roles
func (c *Claims) HasRole(requiredRoles ...string) bool {
	for _, required := range requiredRoles {
		for _, userRole := range c.Roles {
			if userRole == required {
				return true
			}
		}
	}
	return false
}

// IsExpiringSoon reports whether the token expires within d. Expired tokens count.
func (c *Claims) IsExpiringSoon(d time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Until(c.ExpiresAt.Time) <= d
}
