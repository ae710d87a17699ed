package cli

import (
	"errors"
	"fmt"

	"github.com/Sandip-2006/diigital-village-hub/internal/cli/formatter"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Show or change your portal preferences",
	}
	cmd.AddCommand(
		newPrefsShowCmd(app),
		newPrefsSetCmd(app),
		newPrefsResetCmd(app),
		newPrefsSetupCmd(app),
	)
	return cmd
}

func newPrefsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.state(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPreferences(st, app.now()))
			return nil
		},
	}
}

func newPrefsSetCmd(app *App) *cobra.Command {
	var (
		language, theme, village, role, name string
		authenticated, google, phone, wa     bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			var u service.PreferenceUpdate
			if fs.Changed("language") {
				u.Language = &language
			}
			if fs.Changed("theme") {
				u.Theme = &theme
			}
			if fs.Changed("village") {
				u.VillageID = &village
			}
			if fs.Changed("role") {
				u.Role = &role
			}
			if fs.Changed("name") {
				u.UserName = &name
			}
			if fs.Changed("authenticated") {
				u.Authenticated = &authenticated
			}
			if fs.Changed("google") {
				u.Google = &google
			}
			if fs.Changed("phone") {
				u.Phone = &phone
			}
			if fs.Changed("whatsapp") {
				u.WhatsAppOptIn = &wa
			}
			if u.Empty() {
				return errors.New("nothing to change; pass at least one flag (see --help)")
			}

			st, err := app.Preferences.Update(cmd.Context(), cliSession, u)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPreferences(st, app.now()))
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&language, "language", "", "Language (en, hi, gu)")
	fs.StringVar(&theme, "theme", "", "Theme (default, diwali, holi, navratri, independence)")
	fs.StringVar(&village, "village", "", "Selected village ID")
	fs.StringVar(&role, "role", "", "Demo role (villager, business_owner, operator, govt_officer, admin)")
	fs.StringVar(&name, "name", "", "Display name")
	fs.BoolVar(&authenticated, "authenticated", false, "Mark the demo user signed in")
	fs.BoolVar(&google, "google", false, "Google account linked")
	fs.BoolVar(&phone, "phone", false, "Phone number linked")
	fs.BoolVar(&wa, "whatsapp", false, "Opt in to WhatsApp updates")

	return cmd
}

func newPrefsResetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget saved preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.Preferences.Reset(cmd.Context(), cliSession)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPreferences(st, app.now()))
			return nil
		},
	}
}

func newPrefsSetupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Choose preferences interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("prefs setup needs an interactive terminal; use prefs set instead")
			}
			ctx := cmd.Context()
			st, err := app.state(ctx)
			if err != nil {
				return err
			}

			values := newSetupValues(st)
			if err := setupForm(app, values).RunWithContext(ctx); err != nil {
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				return err
			}
			st, err = app.Preferences.Update(ctx, cliSession, values.update())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPreferences(st, app.now()))
			return nil
		},
	}
}
