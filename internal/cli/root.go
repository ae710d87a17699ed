package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/cli/formatter"
	"github.com/Sandip-2006/diigital-village-hub/internal/config"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/spf13/cobra"
)

// cliSession is the session id the terminal user's preferences live
// under: the bare storage key, as a single-user browser would use.
const cliSession = ""

// App holds the services and settings CLI commands run against.
type App struct {
	Villages    service.VillageService
	Preferences service.PreferenceService
	Registry    *registry.Registry
	Config      config.Config
	Logger      *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
	// IsInteractive reports whether stdin is a terminal; forms and the
	// watch view need one.
	IsInteractive func() bool
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// state returns the terminal user's current preferences.
func (a *App) state(ctx context.Context) (store.State, error) {
	st, err := a.Preferences.Open(ctx, cliSession)
	if err != nil {
		return store.State{}, err
	}
	return st.Snapshot(), nil
}

// palette returns the styles for the user's chosen theme along with
// the snapshot it was derived from.
func (a *App) palette(ctx context.Context) (formatter.Palette, store.State, error) {
	st, err := a.state(ctx)
	if err != nil {
		return formatter.Palette{}, store.State{}, err
	}
	return formatter.PaletteFor(st.Theme), st, nil
}

// NewRootCmd creates the top-level "villageportal" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "villageportal",
		Short:         "Digital village portal: village lookup, themes and preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newVillagesCmd(app),
		newLocateCmd(app),
		newThemesCmd(app),
		newPrefsCmd(app),
		newDetectCmd(app),
		newWatchCmd(app),
		newServeCmd(app),
	)

	return root
}
