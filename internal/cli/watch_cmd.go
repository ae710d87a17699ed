package cli

import (
	"context"
	"errors"

	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *App) *cobra.Command {
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of your preferences and the visitor counter",
		Long: `Opens a live view bound to your saved preferences. Keys cycle the
language, theme and village; d runs location detection using the
position given by --lat/--lng.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("watch needs an interactive terminal")
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			st, err := app.Preferences.Open(ctx, cliSession)
			if err != nil {
				return err
			}
			var src locate.PositionSource = locate.FailingSource{Err: locate.ErrPositionUnavailable}
			if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
				src = locate.StaticSource{Lat: lat, Lng: lng}
			}

			p := tea.NewProgram(newWatchModel(ctx, app, st, src),
				tea.WithContext(ctx),
				tea.WithOutput(cmd.OutOrStdout()),
			)

			// Listeners run on the mutating goroutine, which may be the
			// program's own event loop; only signal here and let a
			// separate goroutine deliver the message.
			changed := make(chan struct{}, 1)
			unsubscribe := st.Subscribe(func(store.State, store.Field) {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			defer unsubscribe()
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-changed:
						p.Send(refreshMsg{})
					}
				}
			}()
			go func() {
				_ = store.RunVisitorTicker(ctx, st, app.Config.VisitorInterval)
			}()

			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return err
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Position used when detecting")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Position used when detecting")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
	return cmd
}
