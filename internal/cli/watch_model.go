package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/Sandip-2006/diigital-village-hub/internal/cli/formatter"
	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/service"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type watchKeyMap struct {
	Language key.Binding
	Theme    key.Binding
	Village  key.Binding
	Detect   key.Binding
	Quit     key.Binding
}

func defaultWatchKeyMap() watchKeyMap {
	return watchKeyMap{
		Language: key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "language")),
		Theme:    key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Village:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "village")),
		Detect:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "detect")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// refreshMsg asks the model to re-read the store.
type refreshMsg struct{}

type detectDoneMsg struct {
	out locate.Outcome
	err error
}

// watchModel is a live view of the terminal user's store.
type watchModel struct {
	ctx    context.Context
	app    *App
	store  *store.Store
	source locate.PositionSource
	keys   watchKeyMap

	state     store.State
	spinner   spinner.Model
	detecting bool
	outcome   string
	err       error
	quitting  bool
}

func newWatchModel(ctx context.Context, app *App, st *store.Store, src locate.PositionSource) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return watchModel{
		ctx:     ctx,
		app:     app,
		store:   st,
		source:  src,
		keys:    defaultWatchKeyMap(),
		state:   st.Snapshot(),
		spinner: sp,
	}
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

// cycle returns the element after cur in all, wrapping around.
func cycle[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (m watchModel) update(u service.PreferenceUpdate) watchModel {
	if _, err := m.app.Preferences.Update(m.ctx, cliSession, u); err != nil {
		m.err = err
	} else {
		m.err = nil
	}
	m.state = m.store.Snapshot()
	return m
}

func (m watchModel) detect() tea.Cmd {
	ctx, app, src := m.ctx, m.app, m.source
	return func() tea.Msg {
		out, err := app.Preferences.Detect(ctx, cliSession, src)
		return detectDoneMsg{out: out, err: err}
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Language):
			lang := string(cycle(domain.Languages(), m.state.Language))
			return m.update(service.PreferenceUpdate{Language: &lang}), nil
		case key.Matches(msg, m.keys.Theme):
			ids := make([]domain.ThemeID, 0, 5)
			for _, t := range domain.FestivalThemes() {
				ids = append(ids, t.ID)
			}
			theme := string(cycle(ids, m.state.Theme))
			return m.update(service.PreferenceUpdate{Theme: &theme}), nil
		case key.Matches(msg, m.keys.Village):
			villages := m.app.Registry.All()
			if len(villages) == 0 {
				return m, nil
			}
			ids := make([]string, len(villages))
			for i, v := range villages {
				ids[i] = v.ID
			}
			cur := ""
			if m.state.SelectedVillage != nil {
				cur = m.state.SelectedVillage.ID
			}
			id := cycle(ids, cur)
			return m.update(service.PreferenceUpdate{VillageID: &id}), nil
		case key.Matches(msg, m.keys.Detect):
			if m.detecting {
				return m, nil
			}
			m.detecting = true
			m.outcome = ""
			return m, tea.Batch(m.spinner.Tick, m.detect())
		}

	case refreshMsg:
		m.state = m.store.Snapshot()

	case detectDoneMsg:
		m.detecting = false
		m.err = msg.err
		m.state = m.store.Snapshot()
		if msg.err == nil {
			m.outcome = describeOutcome(msg.out, m.state.Language, m.app.Config.RadiusKm)
		}

	case spinner.TickMsg:
		if !m.detecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.quitting {
		return ""
	}
	st := m.state
	p := formatter.PaletteFor(st.Theme)

	var b strings.Builder
	b.WriteString(p.Header(p.Theme.Emoji + " Village Portal"))
	b.WriteString("\n\n")

	village := formatter.Dim("no village selected")
	if st.SelectedVillage != nil {
		village = p.Accent.Render(st.SelectedVillage.DisplayName(st.Language))
	}
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("village "), village)
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("language"), st.Language)
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("theme   "), p.Theme.Name.In(st.Language))
	fmt.Fprintf(&b, "  %s  %s\n", formatter.Dim("visitors"), p.Secondary.Render(fmt.Sprintf("%d online", st.LiveVisitors)))
	b.WriteString("\n")

	if m.detecting {
		fmt.Fprintf(&b, "  %s %s\n", m.spinner.View(), formatter.Dim("Detecting your village…"))
	} else {
		fmt.Fprintf(&b, "  %s\n", formatter.DetectionBadge(st.LastDetection.State))
	}
	if m.outcome != "" {
		fmt.Fprintf(&b, "  %s\n", m.outcome)
	}
	if m.err != nil {
		fmt.Fprintf(&b, "  %s\n", formatter.StyleRed.Render(m.err.Error()))
	}

	b.WriteString("\n")
	help := make([]string, 0, 5)
	for _, k := range []key.Binding{m.keys.Language, m.keys.Theme, m.keys.Village, m.keys.Detect, m.keys.Quit} {
		h := k.Help()
		help = append(help, p.Primary.Render(h.Key)+" "+formatter.Dim(h.Desc))
	}
	b.WriteString("  " + strings.Join(help, formatter.Dim(" · ")))
	b.WriteString("\n")
	return b.String()
}
