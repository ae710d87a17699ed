package formatter

import (
	"strings"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

// FormatPreferences renders a store snapshot in its own theme.
func FormatPreferences(st store.State, now time.Time) string {
	p := PaletteFor(st.Theme)

	village := Dim("none")
	if st.SelectedVillage != nil {
		village = p.Accent.Render(st.SelectedVillage.DisplayName(st.Language)) + Dim(" ("+st.SelectedVillage.ID+")")
	}
	name := st.Profile.Name
	if name == "" {
		name = Dim("anonymous")
	}
	var linked []string
	if st.Profile.LinkedAccounts.Google {
		linked = append(linked, "google")
	}
	if st.Profile.LinkedAccounts.Phone {
		linked = append(linked, "phone")
	}
	accounts := Dim("none")
	if len(linked) > 0 {
		accounts = strings.Join(linked, ", ")
	}

	detection := DetectionBadge(st.LastDetection.State)
	if !st.LastDetection.At.IsZero() {
		detection += Dim(" · " + HumanTimestampFrom(st.LastDetection.At, now))
	}
	if st.LastDetection.Err != "" {
		detection += Dim(" · " + st.LastDetection.Err)
	}

	body := kv([][2]string{
		{"language", string(st.Language)},
		{"theme", p.Theme.Emoji + " " + p.Theme.Name.In(st.Language)},
		{"village", village},
		{"role", st.Profile.Role.Label(st.Language)},
		{"signed in", YesNo(st.Profile.Authenticated)},
		{"name", name},
		{"accounts", accounts},
		{"whatsapp", YesNo(st.WhatsAppOptedIn)},
		{"detection", detection},
	})
	return p.RenderBox("Preferences", body)
}
