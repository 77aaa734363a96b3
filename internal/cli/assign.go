package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAssignCommand(app *App) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "assign DEVICE PERSON",
		Short: "Assign a device to a person",
		Long:  "Assign a device (id or serial number) to a person (id or full name).",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			d, err := app.findDevice(args[0])
			if err != nil {
				return err
			}
			p, err := app.findPerson(args[1])
			if err != nil {
				return err
			}
			a, err := app.coord.AssignDevice(cmd.Context(), d.ID, p.ID, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "%s %s kişisine zimmetlendi (zimmet %s)\n", d.SerialNumber, p.Name, a.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "Assignment notes")
	return cmd
}

func newReturnCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "return ASSIGNMENT",
		Short: "Return an assigned device",
		Long:  "Return by assignment id, or by the serial number of an assigned device.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			id := args[0]
			if d, err := app.findDevice(id); err == nil {
				if a, ok := app.cache.ActiveAssignment(d.ID); ok {
					id = a.ID
				}
			}
			a, err := app.coord.ReturnDevice(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Zimmet iade alındı: %s\n", a.ID)
			return nil
		},
	}
}
