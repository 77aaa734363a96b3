// Package cli implements zimmetctl, the operator command line for the inventory store.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotel-inventory-api/internal/backend"
	"hotel-inventory-api/internal/config"
	"hotel-inventory-api/internal/service"
	"hotel-inventory-api/internal/state"
)

// App carries what the commands share. Services are opened on first use.
type App struct {
	Config *config.Config
	Log    *zap.Logger
	In     io.Reader
	Out    io.Writer
	Now    func() time.Time

	// OpenStores connects to the backend.
	OpenStores func(ctx context.Context) (backend.Stores, error)
	// Migrate applies pending migrations; MigrationVersion reports the applied one.
	Migrate          func(ctx context.Context) error
	MigrationVersion func(ctx context.Context) (int64, error)

	stores backend.Stores
	cache  *state.Store
	coord  *service.Coordinator
	inv    *service.Inventory
	yes    bool
	input  *bufio.Reader
}

func NewApp(cfg *config.Config, log *zap.Logger) *App {
	return &App{
		Config: cfg,
		Log:    log,
		In:     os.Stdin,
		Out:    os.Stdout,
		Now:    time.Now,
		OpenStores: func(ctx context.Context) (backend.Stores, error) {
			return backend.Open(ctx, cfg, false)
		},
	}
}

// open connects and loads the cache once.
func (a *App) open(ctx context.Context) error {
	if a.coord != nil {
		return nil
	}
	st, err := a.OpenStores(ctx)
	if err != nil {
		return err
	}
	a.stores = st
	a.cache = state.New()
	a.coord = service.NewCoordinator(st.Devices, st.Personnel, st.Assignments, a.cache, a.Log)
	a.inv = service.NewInventory(st.Items, st.Maintenance, st.Audit, a.cache, a.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.coord.Refresh(gctx) })
	g.Go(func() error { return a.inv.Refresh(gctx) })
	return g.Wait()
}

// Close releases the backend if it was opened.
func (a *App) Close() {
	if a.stores.Close != nil {
		a.stores.Close()
	}
}

// confirmer skips the prompt with --yes, otherwise asks on the terminal.
func (a *App) confirmer() service.Confirmer {
	if a.yes {
		return service.Always
	}
	return service.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		if a.input == nil {
			a.input = bufio.NewReader(a.In)
		}
		fmt.Fprintf(a.Out, "%s [e/H] ", prompt)
		line, err := a.input.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "e", "evet", "y", "yes":
			return true, nil
		}
		return false, nil
	})
}

// actor names the operating system user in audit entries.
func actor() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "zimmetctl"
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "zimmetctl",
		Short: "Hotel IT inventory and assignment tool",
		Long: `zimmetctl manages devices, personnel and assignments in the hotel inventory
store, and exports or imports them as spreadsheets.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(service.WithActor(cmd.Context(), actor()))
		},
	}
	root.SetIn(app.In)
	root.SetOut(app.Out)
	root.PersistentFlags().BoolVarP(&app.yes, "yes", "y", false, "Answer yes to confirmation prompts")

	root.AddCommand(
		newDeviceCommand(app),
		newPersonnelCommand(app),
		newAssignCommand(app),
		newReturnCommand(app),
		newExportCommand(app),
		newImportCommand(app),
		newOperatorCommand(app),
		newMigrateCommand(app),
	)
	return root
}
