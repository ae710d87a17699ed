package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProximity renders how close a match is to the search center,
// like [████░░░░] 1.2 km. A full bar means the point is on the village
// center; an empty bar means it sits on the radius edge.
func RenderProximity(distanceKm, radiusKm float64, width int) string {
	if width < 2 {
		width = 2
	}
	closeness := 0.0
	if radiusKm > 0 {
		closeness = 1 - distanceKm/radiusKm
	}
	closeness = min(max(closeness, 0), 1)

	filled := int(closeness * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case closeness < 0.33:
		style = StyleRed
	case closeness < 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %s", style.Render(bar), FormatDistance(distanceKm))
}

// FormatDistance renders kilometers with two decimals, or meters under 1 km.
func FormatDistance(km float64) string {
	if km < 1 {
		return fmt.Sprintf("%.0f m", km*1000)
	}
	return fmt.Sprintf("%.2f km", km)
}
