package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Sandip-2006/diigital-village-hub/internal/cli/formatter"
	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/spf13/cobra"
)

// failureSource maps a --fail reason to a source reporting that error.
func failureSource(reason string) (locate.PositionSource, error) {
	err, ok := locate.FailureCodes[reason]
	if !ok {
		codes := make([]string, 0, len(locate.FailureCodes))
		for c := range locate.FailureCodes {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		return nil, fmt.Errorf("unknown failure %q (want %s)", reason, strings.Join(codes, ", "))
	}
	return locate.FailingSource{Err: err}, nil
}

// describeOutcome renders a one-line summary of a detection.
func describeOutcome(out locate.Outcome, lang domain.Language, radiusKm float64) string {
	switch {
	case out.Err != nil:
		return formatter.StyleRed.Render("Detection failed: ") + out.Err.Error() + formatter.Dim(" (selection unchanged)")
	case out.Match.Found():
		return formatter.StyleGreen.Render("Selected ") + formatter.Bold(out.Match.Village.DisplayName(lang)) +
			formatter.Dim(fmt.Sprintf(" (%s away)", formatter.FormatDistance(out.Match.DistanceKm)))
	default:
		return formatter.StyleYellow.Render("No village within ") + formatter.FormatDistance(radiusKm) +
			formatter.Dim(" (selection unchanged)")
	}
}

func newDetectCmd(app *App) *cobra.Command {
	var (
		lat, lng float64
		fail     string
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect your village from a position and select it",
		Long: `Runs the location detection flow against your saved preferences.
Pass the device position with --lat/--lng, or simulate a platform
failure with --fail (permission_denied, position_unavailable, timeout).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var src locate.PositionSource = locate.StaticSource{Lat: lat, Lng: lng}
			if cmd.Flags().Changed("fail") {
				var err error
				if src, err = failureSource(fail); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Detecting your village…")
			}
			out, err := app.Preferences.Detect(ctx, cliSession, src)
			stop()
			if err != nil {
				return err
			}

			st, err := app.state(ctx)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, describeOutcome(out, st.Language, app.Config.RadiusKm))
			fmt.Fprintln(w, formatter.FormatPreferences(st, app.now()))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Device latitude")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Device longitude")
	cmd.Flags().StringVar(&fail, "fail", "", "Simulate a geolocation failure")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
	cmd.MarkFlagsMutuallyExclusive("lat", "fail")
	cmd.MarkFlagsMutuallyExclusive("lng", "fail")
	cmd.MarkFlagsOneRequired("lat", "fail")

	return cmd
}
