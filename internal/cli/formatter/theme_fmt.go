package formatter

import (
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// swatch renders a two-cell color sample.
func swatch(hex string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

func themeWindow(t domain.FestivalTheme) string {
	if t.Start == nil || t.End == nil {
		return Dim("all year")
	}
	return t.Start.String() + " → " + t.End.String()
}

// FormatThemeList renders the festival catalogue, marking the theme
// active on now and the one currently chosen.
func (p Palette) FormatThemeList(themes []domain.FestivalTheme, lang domain.Language, now time.Time) string {
	current := domain.CurrentFestivalTheme(now).ID
	rows := make([][]string, 0, len(themes))
	for _, t := range themes {
		status := ""
		switch {
		case t.ID == current && t.ID == p.Theme.ID:
			status = StyleGreen.Render("today · chosen")
		case t.ID == current:
			status = StyleGreen.Render("today")
		case t.ID == p.Theme.ID:
			status = p.Accent.Render("chosen")
		}
		rows = append(rows, []string{
			t.Emoji,
			string(t.ID),
			Bold(t.Name.In(lang)),
			themeWindow(t),
			swatch(t.Colors.Primary) + swatch(t.Colors.Secondary) + swatch(t.Colors.Accent),
			status,
		})
	}
	return p.RenderTable([]string{"", "ID", "NAME", "WINDOW", "COLORS", ""}, rows)
}

// FormatTheme renders one theme.
func FormatTheme(t domain.FestivalTheme, lang domain.Language) string {
	p := PaletteFor(t.ID)
	body := kv([][2]string{
		{"id", string(t.ID)},
		{"window", themeWindow(t)},
		{"about", t.Description},
		{"colors", swatch(t.Colors.Primary) + " " + t.Colors.Primary + "  " +
			swatch(t.Colors.Secondary) + " " + t.Colors.Secondary + "  " +
			swatch(t.Colors.Accent) + " " + t.Colors.Accent},
	})
	return p.RenderBox(t.Emoji+" "+t.Name.In(lang), body)
}
