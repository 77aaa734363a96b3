package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

func newPersonnelCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "personnel",
		Aliases: []string{"p", "person"},
		Short:   "Manage and list personnel",
	}

	var department string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List personnel",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tAD SOYAD\tDEPARTMAN\tÜNVAN\tCİHAZ")
			for _, p := range app.coord.Personnel() {
				if department != "" && !strings.EqualFold(p.Department, department) {
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", p.ID, p.Name, p.Department, p.Title, len(p.AssignedDevices))
			}
			return nil
		},
	}
	list.Flags().StringVar(&department, "department", "", "Only personnel of this department")

	var in models.PersonnelInput
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a person",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			p, err := app.coord.AddPersonnel(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Personel eklendi: %s (%s)\n", p.ID, p.Name)
			return nil
		},
	}
	add.Flags().StringVar(&in.Name, "name", "", "Full name (required)")
	add.Flags().StringVar(&in.Department, "department", "", "Department (required)")
	add.Flags().StringVar(&in.Title, "title", "", "Title")
	add.Flags().StringVar(&in.Email, "email", "", "Email")
	add.Flags().StringVar(&in.Phone, "phone", "", "Phone")

	del := &cobra.Command{
		Use:     "delete PERSON",
		Aliases: []string{"rm"},
		Short:   "Delete a person by id or name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			p, err := app.findPerson(args[0])
			if err != nil {
				return err
			}
			if err := app.coord.DeletePersonnel(cmd.Context(), p.ID, app.confirmer()); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Personel silindi: %s\n", p.Name)
			return nil
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

// findPerson matches an id or a full name.
func (a *App) findPerson(ref string) (models.Personnel, error) {
	if p, err := a.coord.Person(ref); err == nil {
		return p, nil
	}
	if p, ok := a.coord.FindPersonnelByName(ref); ok {
		return p, nil
	}
	return models.Personnel{}, errs.NotFound("personnel %s", ref)
}
