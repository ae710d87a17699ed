package cli

import (
	"github.com/Sandip-2006/diigital-village-hub/internal/cli/formatter"
	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// portalHuhTheme returns a huh theme tinted with a festival palette.
func portalHuhTheme(p formatter.Palette) *huh.Theme {
	t := huh.ThemeBase()
	primary := lipgloss.Color(p.Theme.Colors.Primary)
	accent := lipgloss.Color(p.Theme.Colors.Accent)

	// Focused state: festival primary
	t.Focused.Title = lipgloss.NewStyle().Foreground(primary).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(primary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(accent)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(primary).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(primary)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(primary)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// setupValues are the form-bound fields of prefs setup.
type setupValues struct {
	Language  string
	Theme     string
	VillageID string
	Role      string
	Name      string
	WhatsApp  bool
}

func newSetupValues(st store.State) *setupValues {
	v := &setupValues{
		Language: string(st.Language),
		Theme:    string(st.Theme),
		Role:     string(st.Profile.Role),
		Name:     st.Profile.Name,
		WhatsApp: st.WhatsAppOptedIn,
	}
	if st.SelectedVillage != nil {
		v.VillageID = st.SelectedVillage.ID
	}
	return v
}

func (v *setupValues) update() service.PreferenceUpdate {
	u := service.PreferenceUpdate{
		Language:      &v.Language,
		Theme:         &v.Theme,
		Role:          &v.Role,
		UserName:      &v.Name,
		WhatsAppOptIn: &v.WhatsApp,
	}
	if v.VillageID != "" {
		u.VillageID = &v.VillageID
	}
	return u
}

var languageNames = map[domain.Language]string{
	domain.LangEnglish:  "English",
	domain.LangHindi:    "हिन्दी",
	domain.LangGujarati: "ગુજરાતી",
}

func languageOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.Languages()))
	for _, l := range domain.Languages() {
		opts = append(opts, huh.NewOption(languageNames[l], string(l)))
	}
	return opts
}

func themeOptions(lang domain.Language) []huh.Option[string] {
	themes := domain.FestivalThemes()
	opts := make([]huh.Option[string], 0, len(themes))
	for _, t := range themes {
		opts = append(opts, huh.NewOption(t.Emoji+" "+t.Name.In(lang), string(t.ID)))
	}
	return opts
}

func villageOptions(villages []*domain.Village, lang domain.Language) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(villages))
	for _, v := range villages {
		opts = append(opts, huh.NewOption(v.DisplayName(lang)+" · "+v.District, v.ID))
	}
	return opts
}

func roleOptions(lang domain.Language) []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(domain.Roles()))
	for _, r := range domain.Roles() {
		opts = append(opts, huh.NewOption(r.Label(lang), string(r)))
	}
	return opts
}

// setupForm builds the interactive preferences form.
func setupForm(app *App, v *setupValues) *huh.Form {
	lang := domain.Language(v.Language)
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Language").
				Options(languageOptions()...).
				Value(&v.Language),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themeOptions(lang)...).
				Value(&v.Theme),
			huh.NewSelect[string]().
				Title("Your Village").
				Options(villageOptions(app.Registry.All(), lang)...).
				Value(&v.VillageID),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Role").
				Options(roleOptions(lang)...).
				Value(&v.Role),
			huh.NewInput().
				Title("Name").
				Placeholder("optional").
				Value(&v.Name),
			huh.NewConfirm().
				Title("Receive WhatsApp updates?").
				Value(&v.WhatsApp),
		),
	).WithTheme(portalHuhTheme(formatter.PaletteFor(domain.ThemeID(v.Theme)))).WithShowHelp(false)
}
