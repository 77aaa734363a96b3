package importer

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/tealeg/xlsx/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"hotel-inventory-api/internal/models"
)

//go:embed mapping.yaml
var defaultMapping []byte

// Canonical column keys used by the mapping aliases.
const (
	ColBrand        = "brand"
	ColCategory     = "category"
	ColSerialNumber = "serial_number"
	ColStatus       = "status"
	ColRAM          = "ram"
	ColProcessor    = "processor"
	ColGeneration   = "generation"
	ColAssignedTo   = "assigned_to"
	ColDepartment   = "department"
	ColNotes        = "notes"
)

// Defaults for people created on the fly from the "Zimmetli Kişi" column.
const (
	NewPersonTitle  = "Çalışan"
	NewPersonPhone  = "+90-555-0000"
	NewPersonDomain = "otel.com"
)

// ImportOptions defines the configuration for Excel import operations
type ImportOptions struct {
	MappingPath string // empty uses the built-in mapping
	DryRun      bool
	MaxErrors   int // default 50
}

// RowError is a problem with one spreadsheet row. Row is the 1-based sheet row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string { return fmt.Sprintf("Satır %d: %s", e.Row, e.Message) }

// ImportSummary contains the overall import statistics
type ImportSummary struct {
	Rows             int        `json:"rows"`
	Created          int        `json:"created"`
	Assigned         int        `json:"assigned"`
	PersonnelCreated int        `json:"personnel_created"`
	Skipped          int        `json:"skipped"`
	Errors           int        `json:"errors"`
	Samples          []RowError `json:"error_samples,omitempty"`
	DryRun           bool       `json:"dry_run"`
}

func (s *ImportSummary) fail(row int, msg string) {
	s.Errors++
	s.Samples = append(s.Samples, RowError{Row: row, Message: msg})
}

// ErrTooManyErrors stops an import once MaxErrors rows have failed.
var ErrTooManyErrors = errors.New("too many errors")

// Mapping binds workbook headers to canonical columns.
type Mapping struct {
	Version int                 `yaml:"version"`
	Sheet   string              `yaml:"sheet"` // empty reads the first sheet
	Aliases map[string][]string `yaml:"aliases"`
}

func DefaultMapping() *Mapping {
	m, err := ParseMapping(defaultMapping)
	if err != nil {
		panic("importer: built-in mapping is invalid: " + err.Error())
	}
	return m
}

func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	for _, col := range []string{ColBrand, ColCategory, ColSerialNumber} {
		if len(m.Aliases[col]) == 0 {
			return nil, fmt.Errorf("mapping has no aliases for required column %q", col)
		}
	}
	return &m, nil
}

// LoadMapping reads a mapping file, or returns the built-in mapping for an empty path.
func LoadMapping(path string) (*Mapping, error) {
	if path == "" {
		return DefaultMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping %s: %w", path, err)
	}
	return ParseMapping(data)
}

// normalize lowercases with Turkish rules and folds the dotless i, so "ZIMMETLI",
// "Zimmetli" and "ZİMMETLİ" compare equal.
func normalize(s string) string {
	return strings.ReplaceAll(cases.Lower(language.Turkish).String(strings.TrimSpace(s)), "ı", "i")
}

// column resolves a header cell to its canonical key.
func (m *Mapping) column(header string) (string, bool) {
	h := normalize(header)
	for col, aliases := range m.Aliases {
		for _, a := range aliases {
			if normalize(a) == h {
				return col, true
			}
		}
	}
	return "", false
}

// Row is one parsed device line.
type Row struct {
	Line         int
	Brand        string
	Category     string
	SerialNumber string
	Status       models.DeviceStatus
	RAM          string
	Processor    string
	Generation   string
	AssignedTo   string
	Department   string
	Notes        string
}

var statusLabels = map[string]models.DeviceStatus{
	"müsait":      models.DeviceAvailable,
	"available":   models.DeviceAvailable,
	"zimmetli":    models.DeviceAssigned,
	"assigned":    models.DeviceAssigned,
	"bakımda":     models.DeviceMaintenance,
	"maintenance": models.DeviceMaintenance,
	"emekli":      models.DeviceRetired,
	"retired":     models.DeviceRetired,
}

var statusMap = func() map[string]models.DeviceStatus {
	m := make(map[string]models.DeviceStatus, len(statusLabels))
	for label, st := range statusLabels {
		m[normalize(label)] = st
	}
	return m
}()

// MapStatus accepts Turkish or English labels. Unknown or empty values are available.
func MapStatus(s string) models.DeviceStatus {
	if st, ok := statusMap[normalize(s)]; ok {
		return st
	}
	return models.DeviceAvailable
}

// Validate lists the problems that keep a row from being imported.
func (r Row) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.Brand) == "" {
		problems = append(problems, "Marka boş olamaz")
	}
	if strings.TrimSpace(r.Category) == "" {
		problems = append(problems, "Kategori boş olamaz")
	}
	if strings.TrimSpace(r.SerialNumber) == "" {
		problems = append(problems, "Seri numarası boş olamaz")
	}
	if r.Status == models.DeviceAssigned && strings.TrimSpace(r.AssignedTo) == "" {
		problems = append(problems, "Zimmetli durumdaki cihazlar için kişi adı gerekli")
	}
	return problems
}

// Parse reads device rows from the workbook. Blank rows are dropped.
func Parse(r io.Reader, m *Mapping) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel file: %w", err)
	}
	xlFile, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := xlFile.Sheets[0]
	if m.Sheet != "" {
		s, ok := xlFile.Sheet[m.Sheet]
		if !ok {
			return nil, fmt.Errorf("sheet %q not found", m.Sheet)
		}
		sheet = s
	}

	// GetCell creates missing cells, so every loop is bounded by MaxRow/MaxCol.
	headerRow, err := sheet.Row(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	columns := make(map[int]string)
	for c := 0; c < sheet.MaxCol; c++ {
		if col, ok := m.column(headerRow.GetCell(c).String()); ok {
			columns[c] = col
		}
	}
	if len(columns) == 0 {
		return nil, errors.New("no known columns in header row")
	}

	var rows []Row
	for i := 1; i < sheet.MaxRow; i++ {
		row, err := sheet.Row(i)
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", i+1, err)
		}
		values := make(map[string]string, len(columns))
		for c, col := range columns {
			if v := strings.TrimSpace(row.GetCell(c).String()); v != "" {
				values[col] = v
			}
		}
		if len(values) == 0 {
			continue
		}
		rows = append(rows, Row{
			Line:         i + 1,
			Brand:        values[ColBrand],
			Category:     values[ColCategory],
			SerialNumber: values[ColSerialNumber],
			Status:       MapStatus(values[ColStatus]),
			RAM:          values[ColRAM],
			Processor:    values[ColProcessor],
			Generation:   values[ColGeneration],
			AssignedTo:   values[ColAssignedTo],
			Department:   values[ColDepartment],
			Notes:        values[ColNotes],
		})
	}
	return rows, nil
}

// Sink receives imported rows. service.Coordinator satisfies it.
type Sink interface {
	AddDevice(ctx context.Context, in models.DeviceInput) (models.Device, error)
	FindPersonnelByName(name string) (models.Personnel, bool)
	AddPersonnel(ctx context.Context, in models.PersonnelInput) (models.Personnel, error)
	AssignDevice(ctx context.Context, deviceID, personnelID, notes string) (models.Assignment, error)
}

var spaces = regexp.MustCompile(`\s+`)

// EmailFor builds the placeholder address given to people created by an import.
func EmailFor(name string) string {
	return spaces.ReplaceAllString(cases.Lower(language.Turkish).String(strings.TrimSpace(name)), ".") + "@" + NewPersonDomain
}

// Apply writes rows through sink. Assigned rows are created as available and then
// assigned, finding or creating the named person. A person is only created when the
// row names a department.
func Apply(ctx context.Context, sink Sink, rows []Row, opts ImportOptions) (ImportSummary, error) {
	if opts.MaxErrors == 0 {
		opts.MaxErrors = 50
	}
	summary := ImportSummary{DryRun: opts.DryRun, Rows: len(rows)}

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if summary.Errors >= opts.MaxErrors {
			summary.Skipped++
			continue
		}
		if problems := row.Validate(); len(problems) > 0 {
			summary.fail(row.Line, strings.Join(problems, ", "))
			continue
		}
		if opts.DryRun {
			summary.Created++
			continue
		}
		applyRow(ctx, sink, row, &summary)
	}

	if summary.Errors >= opts.MaxErrors && summary.Skipped > 0 {
		return summary, fmt.Errorf("%w (%d), stopped after %d rows", ErrTooManyErrors, summary.Errors, summary.Rows-summary.Skipped)
	}
	return summary, nil
}

func applyRow(ctx context.Context, sink Sink, row Row, summary *ImportSummary) {
	status := row.Status
	if status == models.DeviceAssigned {
		status = models.DeviceAvailable
	}
	device, err := sink.AddDevice(ctx, models.DeviceInput{
		Brand:        row.Brand,
		Category:     row.Category,
		SerialNumber: row.SerialNumber,
		Status:       status,
		Specifications: models.Specifications{
			RAM:        row.RAM,
			Processor:  row.Processor,
			Generation: row.Generation,
			Notes:      row.Notes,
		},
	})
	if err != nil {
		summary.fail(row.Line, err.Error())
		return
	}
	summary.Created++

	if row.Status != models.DeviceAssigned {
		return
	}
	person, ok := sink.FindPersonnelByName(row.AssignedTo)
	if !ok {
		if row.Department == "" {
			summary.fail(row.Line, fmt.Sprintf("%s bulunamadı, departman belirtilmediği için personel oluşturulmadı", row.AssignedTo))
			return
		}
		person, err = sink.AddPersonnel(ctx, models.PersonnelInput{
			Name:       row.AssignedTo,
			Department: row.Department,
			Title:      NewPersonTitle,
			Email:      EmailFor(row.AssignedTo),
			Phone:      NewPersonPhone,
		})
		if err != nil {
			summary.fail(row.Line, err.Error())
			return
		}
		summary.PersonnelCreated++
	}
	if _, err := sink.AssignDevice(ctx, device.ID, person.ID, row.Notes); err != nil {
		summary.fail(row.Line, err.Error())
		return
	}
	summary.Assigned++
}

// ImportExcel parses the workbook in r and applies it through sink.
func ImportExcel(ctx context.Context, sink Sink, r io.Reader, opts ImportOptions) (ImportSummary, error) {
	mapping, err := LoadMapping(opts.MappingPath)
	if err != nil {
		return ImportSummary{DryRun: opts.DryRun}, fmt.Errorf("failed to load mapping config: %w", err)
	}
	rows, err := Parse(r, mapping)
	if err != nil {
		return ImportSummary{DryRun: opts.DryRun}, err
	}
	return Apply(ctx, sink, rows, opts)
}
