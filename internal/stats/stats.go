// Package stats computes the dashboard and report counters from state snapshots.
package stats

import (
	"sort"

	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/state"
)

// RecentLimit is how many assignments Devices reports as recent.
const RecentLimit = 5

type DeviceStats struct {
	TotalDevices          int                 `json:"totalDevices"`
	AvailableDevices      int                 `json:"availableDevices"`
	AssignedDevices       int                 `json:"assignedDevices"`
	MaintenanceDevices    int                 `json:"maintenanceDevices"`
	RetiredDevices        int                 `json:"retiredDevices"`
	TotalPersonnel        int                 `json:"totalPersonnel"`
	TotalAssignments      int                 `json:"totalAssignments"`
	ActiveAssignments     int                 `json:"activeAssignments"`
	DevicesByCategory     map[string]int      `json:"devicesByCategory"`
	DevicesByStatus       map[string]int      `json:"devicesByStatus"`
	PersonnelByDepartment map[string]int      `json:"personnelByDepartment"`
	RecentAssignments     []models.Assignment `json:"recentAssignments"`
}

func Devices(snap state.Snapshot) DeviceStats {
	s := DeviceStats{
		TotalDevices:          len(snap.Devices),
		TotalPersonnel:        len(snap.Personnel),
		TotalAssignments:      len(snap.Assignments),
		DevicesByCategory:     map[string]int{},
		DevicesByStatus:       map[string]int{},
		PersonnelByDepartment: map[string]int{},
	}
	for _, d := range snap.Devices {
		s.DevicesByCategory[d.Category]++
		s.DevicesByStatus[string(d.Status)]++
		switch d.Status {
		case models.DeviceAvailable:
			s.AvailableDevices++
		case models.DeviceAssigned:
			s.AssignedDevices++
		case models.DeviceMaintenance:
			s.MaintenanceDevices++
		case models.DeviceRetired:
			s.RetiredDevices++
		}
	}
	for _, p := range snap.Personnel {
		s.PersonnelByDepartment[p.Department]++
	}
	for _, a := range snap.Assignments {
		if a.Active() {
			s.ActiveAssignments++
		}
	}

	recent := append([]models.Assignment(nil), snap.Assignments...)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].AssignedDate.After(recent[j].AssignedDate) })
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	s.RecentAssignments = recent
	return s
}

type InventoryStats struct {
	TotalItems        int                `json:"totalItems"`
	InStock           int                `json:"inStock"`
	Defective         int                `json:"defective"`
	UnderRepair       int                `json:"underRepair"`
	Disposed          int                `json:"disposed"`
	TotalMaintenance  int                `json:"totalMaintenance"`
	ActiveMaintenance int                `json:"activeMaintenance"`
	TotalValue        float64            `json:"totalValue"`
	MaintenanceCost   float64            `json:"maintenanceCost"`
	ItemsByCategory   map[string]int     `json:"itemsByCategory"`
	ValueByCategory   map[string]float64 `json:"valueByCategory"`
	ItemsByDepartment map[string]int     `json:"itemsByDepartment"`
}

func Inventory(snap state.InventorySnapshot) InventoryStats {
	s := InventoryStats{
		TotalItems:        len(snap.Items),
		TotalMaintenance:  len(snap.Maintenance),
		ItemsByCategory:   map[string]int{},
		ValueByCategory:   map[string]float64{},
		ItemsByDepartment: map[string]int{},
	}
	for _, it := range snap.Items {
		switch it.CurrentStatus {
		case models.InventoryInStock:
			s.InStock++
		case models.InventoryDefective:
			s.Defective++
		case models.InventoryUnderRepair:
			s.UnderRepair++
		case models.InventoryDisposed:
			s.Disposed++
		}
		s.ItemsByCategory[it.Category]++
		if it.LocationDepartment != "" {
			s.ItemsByDepartment[it.LocationDepartment]++
		}
		if it.PurchasePrice != nil {
			s.TotalValue += *it.PurchasePrice
			s.ValueByCategory[it.Category] += *it.PurchasePrice
		}
	}
	for _, m := range snap.Maintenance {
		if m.Status == models.MaintenanceInProgress {
			s.ActiveMaintenance++
		}
		if m.Cost != nil {
			s.MaintenanceCost += *m.Cost
		}
	}
	return s
}
