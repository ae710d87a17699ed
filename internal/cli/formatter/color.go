package formatter

import (
	"fmt"
	"strings"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Base palette shared by every festival theme.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Palette is the set of styles derived from a festival theme's colors.
type Palette struct {
	Theme     domain.FestivalTheme
	Primary   lipgloss.Style
	Accent    lipgloss.Style
	Secondary lipgloss.Style
}

// PaletteFor builds the styles for theme id. Unknown ids get the
// default theme.
func PaletteFor(id domain.ThemeID) Palette {
	t := domain.ThemeByID(id)
	return Palette{
		Theme:     t,
		Primary:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Primary)).Bold(true),
		Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Accent)),
		Secondary: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Colors.Secondary)),
	}
}

// Header renders a section header with the theme's primary color and an underline.
func (p Palette) Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", p.Primary.Render(upper), StyleDim.Render(line))
}


// DetectionBadge renders a detection state such as "● RESOLVED".
func DetectionBadge(s domain.DetectionState) string {
	switch s {
	case domain.DetectionResolved:
		return StyleGreen.Render("● RESOLVED")
	case domain.DetectionFailed:
		return StyleRed.Render("● FAILED")
	case domain.DetectionDetecting:
		return StyleYellow.Render("◌ DETECTING")
	default:
		return StyleDim.Render("○ IDLE")
	}
}

// Dim renders text in the muted color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// YesNo renders a boolean as a colored check or dash.
func YesNo(b bool) string {
	if b {
		return StyleGreen.Render("✔ yes")
	}
	return Dim("– no")
}
