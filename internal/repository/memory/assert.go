package memory

import "hotel-inventory-api/internal/repository"

var (
	_ repository.DeviceRepository      = (*DeviceRepo)(nil)
	_ repository.PersonnelRepository   = (*PersonnelRepo)(nil)
	_ repository.AssignmentRepository  = (*AssignmentRepo)(nil)
	_ repository.InventoryRepository   = (*InventoryRepo)(nil)
	_ repository.MaintenanceRepository = (*MaintenanceRepo)(nil)
	_ repository.AuditRepository       = (*AuditRepo)(nil)
	_ repository.SupplierRepository    = (*SupplierRepo)(nil)
	_ repository.OperatorRepository    = (*OperatorRepo)(nil)
)
