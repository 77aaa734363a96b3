// Package backend opens the configured store and hands out its repositories.
package backend

import (
	"context"
	"fmt"

	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/migrate"
	"hotel-inventory-api/internal/repository"
	"hotel-inventory-api/internal/repository/memory"
	"hotel-inventory-api/internal/repository/postgres"
)

// Stores is one backend's set of repositories.
type Stores struct {
	Devices     repository.DeviceRepository
	Personnel   repository.PersonnelRepository
	Assignments repository.AssignmentRepository
	Items       repository.InventoryRepository
	Maintenance repository.MaintenanceRepository
	Audit       repository.AuditRepository
	Suppliers   repository.SupplierRepository
	Operators   repository.OperatorRepository

	// Ping is nil for the memory store.
	Ping  func(context.Context) error
	Close func()
}

// Memory returns a fresh in-memory backend seeded with the default suppliers.
func Memory() Stores {
	db := memory.New()
	db.SeedSuppliers()
	return Stores{
		Devices:     db.Devices(),
		Personnel:   db.Personnel(),
		Assignments: db.Assignments(),
		Items:       db.Inventory(),
		Maintenance: db.Maintenance(),
		Audit:       db.Audit(),
		Suppliers:   db.Suppliers(),
		Operators:   db.Operators(),
		Close:       func() {},
	}
}

// Open connects to the store named by cfg. With migrateUp set, pending postgres
// migrations run first.
func Open(ctx context.Context, cfg *config.Config, migrateUp bool) (Stores, error) {
	if cfg.Store == config.StoreMemory {
		return Memory(), nil
	}

	if migrateUp {
		if err := migrate.Up(ctx, cfg.DBDSN); err != nil {
			return Stores{}, fmt.Errorf("migrate up: %w", err)
		}
	}
	db, err := postgres.New(ctx, cfg.DBDSN)
	if err != nil {
		return Stores{}, fmt.Errorf("connect: %w", err)
	}
	return Stores{
		Devices:     postgres.NewDeviceRepo(db),
		Personnel:   postgres.NewPersonnelRepo(db),
		Assignments: postgres.NewAssignmentRepo(db),
		Items:       postgres.NewInventoryRepo(db),
		Maintenance: postgres.NewMaintenanceRepo(db),
		Audit:       postgres.NewAuditRepo(db),
		Suppliers:   postgres.NewSupplierRepo(db),
		Operators:   postgres.NewOperatorRepo(db),
		Ping:        db.Ping,
		Close:       db.Close,
	}, nil
}
