package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"hotel-inventory-api/internal/errs"
	"hotel-inventory-api/internal/models"
)

func newOperatorCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "operator",
		Aliases: []string{"op", "operators"},
		Short:   "Manage API operators",
	}

	var (
		name, email, password string
		roles                 []string
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an operator who can sign in to the API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" {
				return errs.Validation("name and email are required")
			}
			if len(password) < 8 {
				return errs.Validation("password must be at least 8 characters")
			}
			for _, r := range roles {
				if r != models.RoleViewer && r != models.RoleStaff && r != models.RoleAdmin {
					return errs.Validation("unknown role %q", r)
				}
			}
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			op, err := app.stores.Operators.Create(cmd.Context(), models.Operator{
				Name:         strings.TrimSpace(name),
				Email:        strings.TrimSpace(email),
				PasswordHash: string(hash),
				Roles:        roles,
				Active:       true,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Operatör oluşturuldu: %d (%s)\n", op.ID, op.Email)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Display name")
	create.Flags().StringVar(&email, "email", "", "Sign-in email")
	create.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	create.Flags().StringSliceVar(&roles, "role", []string{models.RoleViewer}, "Roles: viewer, staff, admin")

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List operators",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.open(cmd.Context()); err != nil {
				return err
			}
			ops, err := app.stores.Operators.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(app.Out, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLES\tACTIVE")
			for _, op := range ops {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\n", op.ID, op.Name, op.Email, strings.Join(op.Roles, ","), op.Active)
			}
			return nil
		},
	}

	cmd.AddCommand(create, list)
	return cmd
}
