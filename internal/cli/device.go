package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/export"
	"hotel-inventory-api/internal/models"
)

func newDeviceCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "device",
		Aliases: []string{"d", "devices"},
		Short:   "Manage and list devices",
	}

	var status, category string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tMARKA\tKATEGORİ\tSERİ NO\tDURUM\tZİMMETLİ")
			for _, d := range app.coord.Devices() {
				if status != "" && string(d.Status) != status {
					continue
				}
				if category != "" && !strings.EqualFold(d.Category, category) {
					continue
				}
				holder := "-"
				if d.AssignedTo != nil {
					holder = *d.AssignedTo
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					d.ID, d.Brand, d.Category, d.SerialNumber, export.DeviceStatusText(d.Status), holder)
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "Only devices with this status")
	list.Flags().StringVar(&category, "category", "", "Only devices in this category")

	var in models.DeviceInput
	var devStatus string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			in.Status = models.DeviceStatus(devStatus)
			d, err := app.coord.AddDevice(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Cihaz eklendi: %s (%s)\n", d.ID, d.SerialNumber)
			return nil
		},
	}
	add.Flags().StringVar(&in.Brand, "brand", "", "Brand (required)")
	add.Flags().StringVar(&in.Category, "category", "", "Category (required)")
	add.Flags().StringVar(&in.SerialNumber, "serial", "", "Serial number (required)")
	add.Flags().StringVar(&devStatus, "status", "", "available, maintenance or retired")
	add.Flags().StringVar(&in.Specifications.RAM, "ram", "", "RAM")
	add.Flags().StringVar(&in.Specifications.Processor, "processor", "", "Processor")
	add.Flags().StringVar(&in.Specifications.Notes, "notes", "", "Notes")

	del := &cobra.Command{
		Use:     "delete DEVICE",
		Aliases: []string{"rm"},
		Short:   "Delete a device by id or serial number",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			d, err := app.findDevice(args[0])
			if err != nil {
				return err
			}
			if err := app.coord.DeleteDevice(cmd.Context(), d.ID, app.confirmer()); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Cihaz silindi: %s\n", d.SerialNumber)
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

// findDevice matches an id or a serial number.
func (a *App) findDevice(ref string) (models.Device, error) {
	if d, err := a.coord.Device(ref); err == nil {
		return d, nil
	}
	for _, d := range a.coord.Devices() {
		if strings.EqualFold(d.SerialNumber, ref) {
			return d, nil
		}
	}
	return models.Device{}, errs.NotFound("device %s", ref)
}
