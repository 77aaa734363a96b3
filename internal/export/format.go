package export

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"hotel-inventory-api/internal/models"
)

// Layouts used for display dates and file names.
const (
	DateLayout     = "02.01.2006"
	FileDateLayout = "02-01-2006"
)

// Placeholders for missing values.
const (
	None        = "Yok"
	Unknown     = "Bilinmiyor"
	Unspecified = "Belirtilmemiş"
	Active      = "Aktif"
	Ongoing     = "Devam Ediyor"
)

var printer = message.NewPrinter(language.Turkish)

func formatDate(t time.Time) string { return t.Format(DateLayout) }

func formatDatePtr(t *time.Time, missing string) string {
	if t == nil || t.IsZero() {
		return missing
	}
	return formatDate(*t)
}

// Currency renders an amount in Turkish lira, e.g. ₺12.500,00.
func Currency(v float64) string {
	return "₺" + printer.Sprintf("%.2f", v)
}

func currencyPtr(v *float64) string {
	if v == nil || *v == 0 {
		return Unspecified
	}
	return Currency(*v)
}

func orElse(s, missing string) string {
	if s == "" {
		return missing
	}
	return s
}

func DeviceStatusText(s models.DeviceStatus) string {
	switch s {
	case models.DeviceAvailable:
		return "Müsait"
	case models.DeviceAssigned:
		return "Zimmetli"
	case models.DeviceMaintenance:
		return "Bakımda"
	case models.DeviceRetired:
		return "Emekli"
	}
	return string(s)
}

func AssignmentStatusText(s models.AssignmentStatus) string {
	if s == models.AssignmentActive {
		return Active
	}
	return "İade Edildi"
}

func InventoryStatusText(s models.InventoryStatus) string {
	switch s {
	case models.InventoryInStock:
		return "Stokta"
	case models.InventoryDefective:
		return "Arızalı"
	case models.InventoryUnderRepair:
		return "Onarımda"
	case models.InventoryDisposed:
		return "İmha Edildi"
	}
	return string(s)
}

func MaintenanceTypeText(t models.MaintenanceType) string {
	switch t {
	case models.MaintenanceRepair:
		return "Onarım"
	case models.MaintenancePreventive:
		return "Önleyici Bakım"
	case models.MaintenanceInspection:
		return "İnceleme"
	case models.MaintenanceReplacement:
		return "Değiştirme"
	}
	return string(t)
}

func MaintenanceStatusText(s models.MaintenanceStatus) string {
	switch s {
	case models.MaintenanceScheduled:
		return "Planlandı"
	case models.MaintenanceInProgress:
		return Ongoing
	case models.MaintenanceCompleted:
		return "Tamamlandı"
	case models.MaintenanceCancelled:
		return "İptal Edildi"
	}
	return string(s)
}

// storage renders the storage spec, or the placeholder when neither part is set.
func storage(s models.Specifications) string {
	return orElse(s.Storage(), Unspecified)
}
