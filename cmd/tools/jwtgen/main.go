// Command jwtgen mints an operator token for local testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"hotel-inventory-api/internal/auth"
	"hotel-inventory-api/internal/config"
)

func main() {
	var (
		userID     = flag.Int64("user", 1, "Operator ID")
		name       = flag.String("name", "Yerel Operatör", "Operator name recorded in audit entries")
		roles      = flag.String("roles", "admin", "Comma-separated list of roles (viewer, staff, admin)")
		expiryMins = flag.Int("expiry", 1440, "Token expiry in minutes (default: 24 hours)")
		secret     = flag.String("secret", "", "JWT secret (overrides JWT_SECRET env var)")
		issuer     = flag.String("issuer", "", "JWT issuer (overrides JWT_ISS env var)")
		audience   = flag.String("audience", "", "JWT audience (overrides JWT_AUD env var)")
	)
	flag.Parse()

	cfg := config.Load()
	if *secret != "" {
		cfg.JWTSecret = *secret
	}
	if *issuer != "" {
		cfg.JWTIssuer = *issuer
	}
	if *audience != "" {
		cfg.JWTAudience = *audience
	}

	roleList := strings.Split(*roles, ",")
	for i, role := range roleList {
		roleList[i] = strings.TrimSpace(role)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, time.Duration(*expiryMins)*time.Minute)
	if err := jwtManager.ValidateConfig(); err != nil {
		log.Fatalf("Invalid JWT settings: %v", err)
	}

	token, expiresAt, err := jwtManager.GenerateToken(*userID, *name, roleList)
	if err != nil {
		log.Fatalf("Failed to generate token: %v", err)
	}

	fmt.Printf("Operator ID: %d\n", *userID)
	fmt.Printf("Name: %s\n", *name)
	fmt.Printf("Roles: %s\n", strings.Join(roleList, ", "))
	fmt.Printf("Expires: %s\n", expiresAt.Format(time.RFC3339))
	fmt.Printf("Issuer: %s\n", cfg.JWTIssuer)
	fmt.Printf("Audience: %s\n", cfg.JWTAudience)
	fmt.Printf("\nToken:\n%s\n\n", token)

	fmt.Printf("Usage example:\n")
	fmt.Printf("curl -H \"Authorization: Bearer %s\" http://localhost:8080/devices\n", token)
}
