package cli

import (
	"fmt"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/spf13/cobra"
)

func newVillagesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "villages",
		Aliases: []string{"village", "v"},
		Short:   "Browse the village registry",
	}
	cmd.AddCommand(newVillagesListCmd(app), newVillagesShowCmd(app))
	return cmd
}

func newVillagesListCmd(app *App) *cobra.Command {
	var lang domain.Language

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered villages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, st, err := app.palette(ctx)
			if err != nil {
				return err
			}
			villages := app.Villages.List(ctx)
			if len(villages) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No villages registered.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), p.FormatVillageList(villages, langOr(cmd.Flags(), lang, st.Language), st.SelectedVillage))
			return nil
		},
	}
	addLangFlag(cmd.Flags(), &lang)
	return cmd
}

func newVillagesShowCmd(app *App) *cobra.Command {
	var lang domain.Language

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show a village's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, st, err := app.palette(ctx)
			if err != nil {
				return err
			}
			v, err := app.Villages.Get(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.FormatVillage(v, langOr(cmd.Flags(), lang, st.Language)))
			return nil
		},
	}
	addLangFlag(cmd.Flags(), &lang)
	return cmd
}
