package domain

import "math"

// LocalizedText holds the three language variants of a display string.
type LocalizedText struct {
	EN string `json:"en" yaml:"en"`
	HI string `json:"hi" yaml:"hi"`
	GU string `json:"gu" yaml:"gu"`
}

// In returns the variant for lang, falling back to English when it is empty.
func (t LocalizedText) In(lang Language) string {
	switch lang {
	case LangHindi:
		if t.HI != "" {
			return t.HI
		}
	case LangGujarati:
		if t.GU != "" {
			return t.GU
		}
	}
	return t.EN
}

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Valid reports whether c is finite and inside the geographic range.
func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Contact struct {
	Name  string `json:"name" yaml:"name"`
	Phone string `json:"phone" yaml:"phone"`
	Photo string `json:"photo,omitempty" yaml:"photo,omitempty"`
}

// Village is an entry of the static registry. Values are never mutated
// after load; the rest of the program shares them by pointer.
type Village struct {
	ID          string        `json:"id" yaml:"id"`
	Name        LocalizedText `json:"name" yaml:"name"`
	SubDistrict string        `json:"sub_district" yaml:"sub_district"`
	District    string        `json:"district" yaml:"district"`
	State       string        `json:"state" yaml:"state"`
	Pincode     string        `json:"pincode" yaml:"pincode"`
	Population  int           `json:"population" yaml:"population"`
	AreaKm2     float64       `json:"area_km2" yaml:"area_km2"`
	Location    Coordinate    `json:"location" yaml:"location"`
	Sarpanch    Contact       `json:"sarpanch" yaml:"sarpanch"`
}

// DisplayName returns the village name in the given language.
func (v *Village) DisplayName(lang Language) string {
	if v == nil {
		return ""
	}
	return v.Name.In(lang)
}
