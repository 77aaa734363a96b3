package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Migrate == nil {
				return errors.New("migrations need STORE=postgres")
			}
			if err := app.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.Out, "Migrations applied.")
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.MigrationVersion == nil {
				return errors.New("migrations need STORE=postgres")
			}
			v, err := app.MigrationVersion(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Schema version: %d\n", v)
			return nil
		},
	})
	return cmd
}
