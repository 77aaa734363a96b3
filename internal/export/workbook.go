// Package export renders the cached collections as Excel workbooks and JSON backups
// for download. Lookups that miss degrade to placeholder text.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx/v3"

	"hotel-inventory-api/internal/models"
	"hotel-inventory-api/internal/state"
	"hotel-inventory-api/internal/stats"
)

// Kind names a downloadable export.
type Kind string

const (
	AssignmentReport Kind = "zimmet_raporu"
	InventoryReport  Kind = "envanter_raporu"
	AssignmentBackup Kind = "zimmet_yedegi"
	InventoryBackup  Kind = "envanter_yedegi"
	// InventoryAnalysis is the JSON analysis report with trends and warranty counts.
	InventoryAnalysis Kind = "envanter_analizi"
)

// FileName is the download name of an export made at now.
func FileName(k Kind, now time.Time) string {
	ext := "xlsx"
	if k == AssignmentBackup || k == InventoryBackup || k == InventoryAnalysis {
		ext = "json"
	}
	return fmt.Sprintf("%s_%s.%s", k, now.Format(FileDateLayout), ext)
}

// Sheet names.
const (
	SheetDevices     = "Cihazlar"
	SheetPersonnel   = "Personel"
	SheetAssignments = "Zimmetler"
	SheetSummary     = "Özet"
	SheetInventory   = "Envanter"
	SheetMaintenance = "Bakım Kayıtları"
)

var (
	deviceHeader = []string{
		"Cihaz ID", "Marka", "Kategori", "Seri Numarası", "Durum", "Zimmetli Kişi", "Departman",
		"Ünvan", "RAM", "İşlemci", "Nesil", "Depolama", "Oluşturma Tarihi", "Zimmet Tarihi",
	}
	personnelHeader = []string{
		"Personel ID", "Ad Soyad", "Departman", "Ünvan", "E-posta", "Telefon", "Zimmetli Cihaz Sayısı",
	}
	assignmentHeader = []string{
		"Zimmet ID", "Cihaz", "Seri Numarası", "Depolama", "Personel", "Departman",
		"Zimmet Tarihi", "İade Tarihi", "Durum", "Notlar",
	}
	inventoryHeader = []string{
		"Envanter ID", "Öğe Adı", "Seri Numarası", "Kategori", "Marka", "Model", "Durum",
		"Lokasyon/Departman", "Satın Alma Tarihi", "Satın Alma Fiyatı", "Tedarikçi",
		"Garanti Başlangıç", "Garanti Bitiş", "Garanti Sağlayıcı", "Notlar", "Oluşturma Tarihi",
	}
	maintenanceHeader = []string{
		"Bakım ID", "Öğe Adı", "Seri Numarası", "Bakım Türü", "Açıklama", "Bakım Tarihi",
		"Bitiş Tarihi", "Durum", "Maliyet", "Teknisyen", "Servis Sağlayıcı",
	}
	summaryHeader = []string{"Kategori", "Sayı"}
)

// addSheet writes a header row followed by rows. Cells holding ints are stored as
// numbers, everything else as text.
func addSheet(f *xlsx.File, name string, header []string, rows [][]any) error {
	sh, err := f.AddSheet(name)
	if err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	hr := sh.AddRow()
	for _, h := range header {
		hr.AddCell().SetString(h)
	}
	for _, r := range rows {
		row := sh.AddRow()
		for _, v := range r {
			c := row.AddCell()
			switch v := v.(type) {
			case int:
				c.SetInt(v)
			case string:
				c.SetString(v)
			default:
				c.SetString(fmt.Sprint(v))
			}
		}
	}
	return nil
}

// AssignmentWorkbook builds the device, personnel, assignment and summary sheets.
func AssignmentWorkbook(snap state.Snapshot) (*xlsx.File, error) {
	byName := map[string]models.Personnel{}
	byID := map[string]models.Personnel{}
	for _, p := range snap.Personnel {
		if _, dup := byName[p.Name]; !dup {
			byName[p.Name] = p
		}
		byID[p.ID] = p
	}
	devices := map[string]models.Device{}
	for _, d := range snap.Devices {
		devices[d.ID] = d
	}

	deviceRows := make([][]any, 0, len(snap.Devices))
	for _, d := range snap.Devices {
		holder, dept, title := None, None, None
		if d.AssignedTo != nil && *d.AssignedTo != "" {
			holder = *d.AssignedTo
			if p, ok := byName[holder]; ok {
				dept, title = orElse(p.Department, None), orElse(p.Title, None)
			}
		}
		deviceRows = append(deviceRows, []any{
			d.ID, d.Brand, d.Category, d.SerialNumber, DeviceStatusText(d.Status), holder, dept, title,
			orElse(d.Specifications.RAM, Unspecified),
			orElse(d.Specifications.Processor, Unspecified),
			orElse(d.Specifications.Generation, Unspecified),
			storage(d.Specifications),
			formatDate(d.CreatedAt),
			formatDatePtr(d.AssignedDate, None),
		})
	}

	personRows := make([][]any, 0, len(snap.Personnel))
	for _, p := range snap.Personnel {
		personRows = append(personRows, []any{
			p.ID, p.Name, p.Department, p.Title, p.Email, p.Phone, len(p.AssignedDevices),
		})
	}

	assignmentRows := make([][]any, 0, len(snap.Assignments))
	for _, a := range snap.Assignments {
		device, serial, store := Unknown, Unknown, Unknown
		if d, ok := devices[a.DeviceID]; ok {
			device = d.Brand + " " + d.Category
			serial = orElse(d.SerialNumber, Unknown)
			store = storage(d.Specifications)
		}
		person, dept := Unknown, Unknown
		if p, ok := byID[a.PersonnelID]; ok {
			person, dept = orElse(p.Name, Unknown), orElse(p.Department, Unknown)
		}
		assignmentRows = append(assignmentRows, []any{
			a.ID, device, serial, store, person, dept,
			formatDate(a.AssignedDate),
			formatDatePtr(a.ReturnedDate, Active),
			AssignmentStatusText(a.Status),
			orElse(a.Notes, None),
		})
	}

	s := stats.Devices(snap)
	summary := [][]any{
		{"Toplam Cihaz", s.TotalDevices},
		{"Müsait", s.AvailableDevices},
		{"Zimmetli", s.AssignedDevices},
		{"Bakımda", s.MaintenanceDevices},
		{"Emekli", s.RetiredDevices},
		{"Toplam Personel", s.TotalPersonnel},
		{"Toplam Zimmet", s.TotalAssignments},
		{"Aktif Zimmet", s.ActiveAssignments},
	}

	f := xlsx.NewFile()
	for _, sh := range []struct {
		name   string
		header []string
		rows   [][]any
	}{
		{SheetDevices, deviceHeader, deviceRows},
		{SheetPersonnel, personnelHeader, personRows},
		{SheetAssignments, assignmentHeader, assignmentRows},
		{SheetSummary, summaryHeader, summary},
	} {
		if err := addSheet(f, sh.name, sh.header, sh.rows); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// InventoryWorkbook builds the inventory, maintenance and summary sheets.
func InventoryWorkbook(snap state.InventorySnapshot) (*xlsx.File, error) {
	items := map[string]models.InventoryItem{}
	for _, it := range snap.Items {
		items[it.ID] = it
	}

	itemRows := make([][]any, 0, len(snap.Items))
	for _, it := range snap.Items {
		itemRows = append(itemRows, []any{
			it.ID, it.ItemName, it.SerialNumber, it.Category,
			orElse(it.Brand, Unspecified),
			orElse(it.Model, Unspecified),
			InventoryStatusText(it.CurrentStatus),
			it.LocationDepartment,
			formatDatePtr(it.PurchaseDate, Unspecified),
			currencyPtr(it.PurchasePrice),
			orElse(it.Supplier, Unspecified),
			formatDatePtr(it.WarrantyStartDate, Unspecified),
			formatDatePtr(it.WarrantyEndDate, Unspecified),
			orElse(it.WarrantyProvider, Unspecified),
			orElse(it.Notes, None),
			formatDate(it.CreatedAt),
		})
	}

	maintRows := make([][]any, 0, len(snap.Maintenance))
	for _, m := range snap.Maintenance {
		name, serial := Unknown, Unknown
		if it, ok := items[m.InventoryItemID]; ok {
			name, serial = orElse(it.ItemName, Unknown), orElse(it.SerialNumber, Unknown)
		}
		finished := Ongoing
		if m.Status == models.MaintenanceCompleted {
			finished = formatDate(m.UpdatedAt)
		}
		maintRows = append(maintRows, []any{
			m.ID, name, serial,
			MaintenanceTypeText(m.MaintenanceType),
			m.Description,
			formatDate(m.MaintenanceDate),
			finished,
			MaintenanceStatusText(m.Status),
			currencyPtr(m.Cost),
			orElse(m.Technician, Unspecified),
			orElse(m.SupplierService, Unspecified),
		})
	}

	s := stats.Inventory(snap)
	summary := [][]any{
		{"Toplam Envanter", s.TotalItems},
		{"Stokta", s.InStock},
		{"Arızalı", s.Defective},
		{"Onarımda", s.UnderRepair},
		{"İmha Edildi", s.Disposed},
		{"Toplam Bakım Kaydı", s.TotalMaintenance},
		{"Aktif Bakım", s.ActiveMaintenance},
	}

	f := xlsx.NewFile()
	if err := addSheet(f, SheetInventory, inventoryHeader, itemRows); err != nil {
		return nil, err
	}
	if err := addSheet(f, SheetMaintenance, maintenanceHeader, maintRows); err != nil {
		return nil, err
	}
	if err := addSheet(f, SheetSummary, summaryHeader, summary); err != nil {
		return nil, err
	}
	return f, nil
}

// Write serializes a workbook.
func Write(w io.Writer, f *xlsx.File) error {
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
