package cli

import (
	"fmt"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/spf13/cobra"
)

func newLocateCmd(app *App) *cobra.Command {
	var (
		lat, lng, radius float64
		policy           geo.Policy
		lang             domain.Language
	)

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve a coordinate to a registered village",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, st, err := app.palette(ctx)
			if err != nil {
				return err
			}
			c := domain.Coordinate{Lat: lat, Lng: lng}
			if err := geo.ValidateCoordinate(c); err != nil {
				return err
			}

			if !cmd.Flags().Changed("radius") {
				radius = app.Config.RadiusKm
			}
			if !cmd.Flags().Changed("policy") {
				policy = app.Config.Policy
			}
			r := geo.NewResolver(radius, policy)

			var m geo.Match
			if cmd.Flags().Changed("radius") || cmd.Flags().Changed("policy") {
				m = r.Resolve(c, app.Villages.List(ctx))
			} else if m, err = app.Villages.Locate(ctx, c); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p.FormatMatch(c, m, r, langOr(cmd.Flags(), lang, st.Language)))
			return nil
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64Var(&lng, "lng", 0, "Longitude in decimal degrees")
	cmd.Flags().Float64Var(&radius, "radius", geo.DefaultRadiusKm, "Match radius in km")
	cmd.Flags().Var(&policyValue{policy: &policy}, "policy", "Resolution policy (first or nearest)")
	addLangFlag(cmd.Flags(), &lang)
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")

	return cmd
}
