package domain

import (
	"fmt"
	"time"
)

type ThemeID string

const (
	ThemeDefault      ThemeID = "default"
	ThemeDiwali       ThemeID = "diwali"
	ThemeHoli         ThemeID = "holi"
	ThemeNavratri     ThemeID = "navratri"
	ThemeIndependence ThemeID = "independence"
)

// MonthDay is a calendar day independent of year.
type MonthDay struct {
	Month time.Month
	Day   int
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(md.Month), md.Day)
}

func (md MonthDay) before(o MonthDay) bool {
	if md.Month != o.Month {
		return md.Month < o.Month
	}
	return md.Day < o.Day
}

type ThemeColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// FestivalTheme is a cosmetic styling identifier, optionally active over
// a yearly date range.
type FestivalTheme struct {
	ID          ThemeID
	Name        LocalizedText
	Description string
	Emoji       string
	Start       *MonthDay
	End         *MonthDay
	Colors      ThemeColors
}

// ActiveOn reports whether t's date range contains the calendar day of now.
// Both ends are inclusive. A range whose end precedes its start wraps over
// the new year.
func (t FestivalTheme) ActiveOn(now time.Time) bool {
	if t.Start == nil || t.End == nil {
		return false
	}
	today := MonthDay{Month: now.Month(), Day: now.Day()}
	afterStart := !today.before(*t.Start)
	beforeEnd := !t.End.before(today)
	if t.End.before(*t.Start) {
		return afterStart || beforeEnd
	}
	return afterStart && beforeEnd
}

var festivalThemes = []FestivalTheme{
	{
		ID:          ThemeDefault,
		Name:        LocalizedText{EN: "Default", HI: "डिफ़ॉल्ट", GU: "ડિફૉલ્ટ"},
		Description: "Classic village portal theme with warm earth tones",
		Emoji:       "🏡",
		Colors:      ThemeColors{Primary: "#e67525", Secondary: "#3d7a5a", Accent: "#f5a623"},
	},
	{
		ID:          ThemeDiwali,
		Name:        LocalizedText{EN: "Diwali", HI: "दीवाली", GU: "દિવાળી"},
		Description: "Festival of Lights - Golden & Purple theme",
		Emoji:       "🪔",
		Start:       &MonthDay{time.October, 20},
		End:         &MonthDay{time.November, 15},
		Colors:      ThemeColors{Primary: "#e6a525", Secondary: "#7c3aed", Accent: "#fbbf24"},
	},
	{
		ID:          ThemeHoli,
		Name:        LocalizedText{EN: "Holi", HI: "होली", GU: "હોળી"},
		Description: "Festival of Colors - Vibrant rainbow theme",
		Emoji:       "🎨",
		Start:       &MonthDay{time.March, 1},
		End:         &MonthDay{time.March, 31},
		Colors:      ThemeColors{Primary: "#ec4899", Secondary: "#06b6d4", Accent: "#eab308"},
	},
	{
		ID:          ThemeNavratri,
		Name:        LocalizedText{EN: "Navratri", HI: "नवरात्रि", GU: "નવરાત્રી"},
		Description: "Nine Nights Festival - Red, Yellow & Green",
		Emoji:       "🔱",
		Start:       &MonthDay{time.September, 15},
		End:         &MonthDay{time.October, 15},
		Colors:      ThemeColors{Primary: "#dc2626", Secondary: "#16a34a", Accent: "#facc15"},
	},
	{
		ID:          ThemeIndependence,
		Name:        LocalizedText{EN: "Independence Day", HI: "स्वतंत्रता दिवस", GU: "સ્વાતંત્ર્ય દિવસ"},
		Description: "Tricolor theme for National celebrations",
		Emoji:       "🇮🇳",
		Start:       &MonthDay{time.August, 1},
		End:         &MonthDay{time.August, 20},
		Colors:      ThemeColors{Primary: "#ff9933", Secondary: "#138808", Accent: "#ffffff"},
	},
}

// FestivalThemes returns the theme catalogue, default first.
func FestivalThemes() []FestivalTheme {
	out := make([]FestivalTheme, len(festivalThemes))
	copy(out, festivalThemes)
	return out
}

// CurrentFestivalTheme returns the first theme active on now, or the
// default theme when no festival is running.
func CurrentFestivalTheme(now time.Time) FestivalTheme {
	for _, t := range festivalThemes {
		if t.ActiveOn(now) {
			return t
		}
	}
	return festivalThemes[0]
}

// ThemeByID falls back to the default theme for unknown ids.
func ThemeByID(id ThemeID) FestivalTheme {
	for _, t := range festivalThemes {
		if t.ID == id {
			return t
		}
	}
	return festivalThemes[0]
}

func ParseThemeID(s string) (ThemeID, error) {
	for _, t := range festivalThemes {
		if string(t.ID) == s {
			return t.ID, nil
		}
	}
	return "", fmt.Errorf("unknown theme %q", s)
}
