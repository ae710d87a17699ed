package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(month time.Month, d int) time.Time {
	return time.Date(2026, month, d, 12, 0, 0, 0, time.UTC)
}

func TestCurrentFestivalTheme_ByDate(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want ThemeID
	}{
		{"diwali start inclusive", day(time.October, 20), ThemeDiwali},
		{"diwali end inclusive", day(time.November, 15), ThemeDiwali},
		{"after diwali", day(time.November, 16), ThemeDefault},
		{"holi", day(time.March, 14), ThemeHoli},
		{"navratri", day(time.September, 30), ThemeNavratri},
		{"independence", day(time.August, 15), ThemeIndependence},
		{"quiet january", day(time.January, 10), ThemeDefault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CurrentFestivalTheme(tc.now).ID)
		})
	}
}

func TestCurrentFestivalTheme_OverlapPicksCatalogueOrder(t *testing.T) {
	// Oct 15 is the last day of Navratri; Diwali starts later, so no overlap.
	assert.Equal(t, ThemeNavratri, CurrentFestivalTheme(day(time.October, 15)).ID)
}

func TestFestivalTheme_ActiveOn_WrapsNewYear(t *testing.T) {
	th := FestivalTheme{
		ID:    "newyear",
		Start: &MonthDay{time.December, 25},
		End:   &MonthDay{time.January, 5},
	}
	assert.True(t, th.ActiveOn(day(time.December, 31)))
	assert.True(t, th.ActiveOn(day(time.January, 2)))
	assert.False(t, th.ActiveOn(day(time.February, 1)))
}

func TestFestivalTheme_ActiveOn_NoRange(t *testing.T) {
	assert.False(t, ThemeByID(ThemeDefault).ActiveOn(day(time.October, 25)))
}

func TestThemeByID_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, ThemeDefault, ThemeByID("carnival").ID)
	assert.Equal(t, ThemeHoli, ThemeByID(ThemeHoli).ID)
}

func TestParseThemeID(t *testing.T) {
	id, err := ParseThemeID("navratri")
	require.NoError(t, err)
	assert.Equal(t, ThemeNavratri, id)

	_, err = ParseThemeID("Navratri")
	assert.Error(t, err)
}

func TestFestivalThemes_ReturnsCopy(t *testing.T) {
	themes := FestivalThemes()
	themes[0].Emoji = "x"
	assert.Equal(t, "🏡", FestivalThemes()[0].Emoji)
}
