package cli

import (
	"fmt"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/cli/formatter"
	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/spf13/cobra"
)

func newThemesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "themes",
		Aliases: []string{"theme"},
		Short:   "Festival themes",
	}
	cmd.AddCommand(newThemesListCmd(app), newThemesCurrentCmd(app))
	return cmd
}

func newThemesListCmd(app *App) *cobra.Command {
	var (
		date time.Time
		lang domain.Language
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List festival themes and their date windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, st, err := app.palette(cmd.Context())
			if err != nil {
				return err
			}
			on := app.now()
			if cmd.Flags().Changed("date") {
				on = date
			}
			fmt.Fprint(cmd.OutOrStdout(), p.FormatThemeList(domain.FestivalThemes(), langOr(cmd.Flags(), lang, st.Language), on))
			return nil
		},
	}
	cmd.Flags().Var(&dateValue{t: &date}, "date", "Evaluate windows on this day (YYYY-MM-DD)")
	addLangFlag(cmd.Flags(), &lang)
	return cmd
}

func newThemesCurrentCmd(app *App) *cobra.Command {
	var (
		date time.Time
		lang domain.Language
	)

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the festival theme active today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.state(cmd.Context())
			if err != nil {
				return err
			}
			on := app.now()
			if cmd.Flags().Changed("date") {
				on = date
			}
			t := domain.CurrentFestivalTheme(on)
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTheme(t, langOr(cmd.Flags(), lang, st.Language)))
			return nil
		},
	}
	cmd.Flags().Var(&dateValue{t: &date}, "date", "Day to evaluate (YYYY-MM-DD)")
	addLangFlag(cmd.Flags(), &lang)
	return cmd
}
