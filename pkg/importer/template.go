package importer

import (
	"fmt"

	"github.com/tealeg/xlsx/v3"
)

const (
	TemplateFileName  = "cihaz_import_sablonu.xlsx"
	TemplateSheetName = "Cihaz Şablonu"
)

var templateHeader = []string{
	"Marka", "Kategori", "Seri Numarası", "Durum", "RAM", "İşlemci", "Nesil",
	"Zimmetli Kişi", "Departman", "Notlar",
}

var templateRows = [][]string{
	{"Dell", "Laptop", "DL001234", "available", "16GB", "Intel Core i7", "12. Nesil", "", "", ""},
	{"HP", "Masaüstü", "HP005678", "assigned", "8GB", "Intel Core i5", "11. Nesil", "Ahmet Yılmaz", "CRM", "Yeni zimmet"},
}

// Template returns a workbook with the expected headers and two example rows.
func Template() (*xlsx.File, error) {
	f := xlsx.NewFile()
	sh, err := f.AddSheet(TemplateSheetName)
	if err != nil {
		return nil, fmt.Errorf("add template sheet: %w", err)
	}
	for _, cells := range append([][]string{templateHeader}, templateRows...) {
		row := sh.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	return f, nil
}
