package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/tealeg/xlsx/v3"

	"hotel-inventory-api/internal/export"
	"hotel-inventory-api/internal/stats"
	"hotel-inventory-api/pkg/importer"
)

func newExportCommand(app *App) *cobra.Command {
	var format, dir, rangeLabel string
	cmd := &cobra.Command{
		Use:   "export assignments|inventory|report",
		Short: "Write a report workbook, JSON backup or inventory analysis",
		Long: `Write a report workbook (--format xlsx) or JSON backup (--format json).
"report" always writes the JSON inventory analysis for --range.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"assignments", "inventory", "report"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "xlsx" && format != "json" {
				return fmt.Errorf("unknown format %q, want xlsx or json", format)
			}
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			now := app.Now()

			var (
				kind export.Kind
				data []byte
				err  error
			)
			switch {
			case args[0] == "assignments" && format == "xlsx":
				kind = export.AssignmentReport
				data, err = workbookBytes(export.AssignmentWorkbook(app.cache.Snapshot()))
			case args[0] == "assignments":
				kind = export.AssignmentBackup
				data, err = export.AssignmentJSON(app.cache.Snapshot(), now)
			case args[0] == "inventory" && format == "xlsx":
				kind = export.InventoryReport
				data, err = workbookBytes(export.InventoryWorkbook(app.cache.InventorySnapshot()))
			case args[0] == "inventory":
				kind = export.InventoryBackup
				data, err = export.InventoryJSON(app.cache.InventorySnapshot(), now)
			case args[0] == "report":
				var rng stats.Range
				if rng, err = stats.ParseRange(rangeLabel); err != nil {
					return err
				}
				kind = export.InventoryAnalysis
				data, err = stats.ReportJSON(stats.BuildReport(app.cache.InventorySnapshot(), now, rng), now)
			default:
				return fmt.Errorf("unknown export %q, want assignments, inventory or report", args[0])
			}
			if err != nil {
				return err
			}

			path := filepath.Join(dir, export.FileName(kind, now))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Yazıldı: %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "xlsx", "xlsx or json")
	cmd.Flags().StringVar(&dir, "dir", ".", "Output directory")
	cmd.Flags().StringVar(&rangeLabel, "range", stats.DefaultRange, "Report range in days: 30, 90, 365 or all")
	return cmd
}

func workbookBytes(f *xlsx.File, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := export.Write(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func newImportCommand(app *App) *cobra.Command {
	var opts importer.ImportOptions
	var template bool
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import devices from an Excel workbook",
		Long: `Import devices from an .xlsx workbook. Rows marked as assigned are assigned to the
named person, who is created when missing and a department is given.
With --template, FILE is written as an empty template instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				f, err := importer.Template()
				if err != nil {
					return err
				}
				if err := f.Save(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(app.Out, "Şablon yazıldı: %s\n", args[0])
				return nil
			}

			if opts.MappingPath == "" {
				opts.MappingPath = app.Config.ImportMappingPath
			}
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			summary, err := importer.ImportExcel(cmd.Context(), app.coord, file, opts)
			fmt.Fprintf(app.Out, "Satır: %d, eklenen: %d, zimmetlenen: %d, yeni personel: %d, hata: %d, atlanan: %d\n",
				summary.Rows, summary.Created, summary.Assigned, summary.PersonnelCreated, summary.Errors, summary.Skipped)
			for _, e := range summary.Samples {
				fmt.Fprintln(app.Out, "  "+e.Error())
			}
			if summary.DryRun {
				fmt.Fprintln(app.Out, "Deneme modu: hiçbir kayıt yazılmadı.")
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Validate without writing")
	cmd.Flags().IntVar(&opts.MaxErrors, "max-errors", 50, "Stop after this many failed rows")
	cmd.Flags().StringVar(&opts.MappingPath, "mapping", "", "Header mapping YAML (default: IMPORT_MAPPING or built in)")
	cmd.Flags().BoolVar(&template, "template", false, "Write the import template to FILE")
	return cmd
}
