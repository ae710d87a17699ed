package formatter

import (
	"fmt"
	"strings"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
)

// FormatVillageList renders the registry as a table. The selected
// village, if any, is marked.
func (p Palette) FormatVillageList(villages []*domain.Village, lang domain.Language, selected *domain.Village) string {
	rows := make([][]string, 0, len(villages))
	for _, v := range villages {
		marker := " "
		if selected != nil && v.ID == selected.ID {
			marker = p.Accent.Render("★")
		}
		rows = append(rows, []string{
			marker,
			v.ID,
			Bold(v.DisplayName(lang)),
			v.SubDistrict + ", " + v.District,
			fmt.Sprintf("%d", v.Population),
			fmt.Sprintf("%.4f, %.4f", v.Location.Lat, v.Location.Lng),
		})
	}
	return p.RenderTable([]string{"", "ID", "NAME", "SUB-DISTRICT", "POPULATION", "LOCATION"}, rows)
}

// FormatVillage renders one village's details in a box.
func (p Palette) FormatVillage(v *domain.Village, lang domain.Language) string {
	body := kv([][2]string{
		{"id", v.ID},
		{"names", fmt.Sprintf("%s · %s · %s", v.Name.EN, v.Name.HI, v.Name.GU)},
		{"sub-district", v.SubDistrict},
		{"district", v.District},
		{"state", v.State},
		{"pincode", v.Pincode},
		{"population", fmt.Sprintf("%d", v.Population)},
		{"area", fmt.Sprintf("%.1f km²", v.AreaKm2)},
		{"location", fmt.Sprintf("%.4f, %.4f", v.Location.Lat, v.Location.Lng)},
		{"sarpanch", strings.TrimSpace(v.Sarpanch.Name + "  " + Dim(v.Sarpanch.Phone))},
	})
	return p.RenderBox(v.DisplayName(lang), body)
}

// FormatMatch renders the outcome of resolving c.
func (p Palette) FormatMatch(c domain.Coordinate, m geo.Match, r *geo.Resolver, lang domain.Language) string {
	var b strings.Builder
	b.WriteString(p.Header("Location"))
	b.WriteString("\n")
	pairs := [][2]string{
		{"position", fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lng)},
		{"radius", FormatDistance(r.RadiusKm())},
		{"policy", string(r.Policy())},
	}
	if m.Found() {
		pairs = append(pairs,
			[2]string{"village", p.Accent.Render(m.Village.DisplayName(lang)) + Dim(" ("+m.Village.ID+")")},
			[2]string{"distance", RenderProximity(m.DistanceKm, r.RadiusKm(), 16)},
		)
	} else {
		pairs = append(pairs, [2]string{"village", StyleRed.Render("no village within radius")})
	}
	b.WriteString(kv(pairs))
	return b.String()
}
