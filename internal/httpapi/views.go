package httpapi

import (
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

type villageView struct {
	*domain.Village
	DisplayName string `json:"display_name"`
}

func newVillageView(v *domain.Village, lang domain.Language) *villageView {
	if v == nil {
		return nil
	}
	return &villageView{Village: v, DisplayName: v.DisplayName(lang)}
}

type matchView struct {
	Matched    bool         `json:"matched"`
	Village    *villageView `json:"village"`
	DistanceKm *float64     `json:"distance_km"`
}

func newMatchView(m geo.Match, lang domain.Language) matchView {
	if !m.Found() {
		return matchView{}
	}
	d := m.DistanceKm
	return matchView{Matched: true, Village: newVillageView(m.Village, lang), DistanceKm: &d}
}

type themeView struct {
	ID          domain.ThemeID     `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Emoji       string             `json:"emoji"`
	Start       string             `json:"start,omitempty"`
	End         string             `json:"end,omitempty"`
	Colors      domain.ThemeColors `json:"colors"`
	Active      bool               `json:"active"`
}

func newThemeView(t domain.FestivalTheme, lang domain.Language, now time.Time) themeView {
	v := themeView{
		ID:          t.ID,
		Name:        t.Name.In(lang),
		Description: t.Description,
		Emoji:       t.Emoji,
		Colors:      t.Colors,
		Active:      t.ActiveOn(now),
	}
	if t.Start != nil {
		v.Start = t.Start.String()
	}
	if t.End != nil {
		v.End = t.End.String()
	}
	return v
}

type detectionView struct {
	State     domain.DetectionState `json:"state"`
	VillageID string                `json:"village_id,omitempty"`
	Error     string                `json:"error,omitempty"`
	At        *time.Time            `json:"at,omitempty"`
}

type preferencesView struct {
	Language        domain.Language       `json:"language"`
	Theme           domain.ThemeID        `json:"theme"`
	SelectedVillage *villageView          `json:"selected_village"`
	Role            domain.UserRole       `json:"role"`
	RoleLabel       string                `json:"role_label"`
	Authenticated   bool                  `json:"authenticated"`
	UserName        string                `json:"user_name"`
	LinkedAccounts  domain.LinkedAccounts `json:"linked_accounts"`
	WhatsAppOptedIn bool                  `json:"whatsapp_opted_in"`
	Detecting       bool                  `json:"location_detecting"`
	LastDetection   detectionView         `json:"last_detection"`
}

func newPreferencesView(st store.State) preferencesView {
	last := detectionView{
		State:     st.LastDetection.State,
		VillageID: st.LastDetection.VillageID,
		Error:     st.LastDetection.Err,
	}
	if !st.LastDetection.At.IsZero() {
		at := st.LastDetection.At
		last.At = &at
	}
	return preferencesView{
		Language:        st.Language,
		Theme:           st.Theme,
		SelectedVillage: newVillageView(st.SelectedVillage, st.Language),
		Role:            st.Profile.Role,
		RoleLabel:       st.Profile.Role.Label(st.Language),
		Authenticated:   st.Profile.Authenticated,
		UserName:        st.Profile.Name,
		LinkedAccounts:  st.Profile.LinkedAccounts,
		WhatsAppOptedIn: st.WhatsAppOptedIn,
		Detecting:       st.LocationDetecting,
		LastDetection:   last,
	}
}
