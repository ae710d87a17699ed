package store

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietDay = time.Date(2026, time.January, 10, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	base := []Option{
		WithClock(func() time.Time { return quietDay }),
		WithRand(rand.New(rand.NewPCG(1, 2))),
	}
	return New(registry.Default(), append(base, opts...)...)
}

type recorded struct {
	field Field
	state State
}

func record(s *Store) *[]recorded {
	var got []recorded
	s.Subscribe(func(st State, f Field) {
		got = append(got, recorded{field: f, state: st})
	})
	return &got
}

func TestNew_Defaults(t *testing.T) {
	s := newTestStore(t)
	st := s.Snapshot()

	assert.Equal(t, domain.LangEnglish, st.Language)
	assert.Equal(t, domain.ThemeDefault, st.Theme)
	assert.Same(t, s.Registry().First(), st.SelectedVillage)
	assert.Equal(t, domain.RoleVillager, st.Profile.Role)
	assert.False(t, st.Profile.Authenticated)
	assert.Equal(t, domain.DetectionIdle, st.Detection)
	assert.GreaterOrEqual(t, st.LiveVisitors, 100)
	assert.Less(t, st.LiveVisitors, 150)
}

func TestNew_FestivalThemeFromClock(t *testing.T) {
	diwali := time.Date(2026, time.October, 25, 0, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return diwali }))
	assert.Equal(t, domain.ThemeDiwali, s.Snapshot().Theme)
}

func TestNew_EmptyRegistryHasNoSelection(t *testing.T) {
	reg, err := registry.New(nil)
	require.NoError(t, err)
	s := New(reg)
	assert.Nil(t, s.Snapshot().SelectedVillage)
}

func TestSetters_NotifyWithChangedField(t *testing.T) {
	s := newTestStore(t)
	got := record(s)

	require.NoError(t, s.SetLanguage(domain.LangGujarati))
	require.NoError(t, s.SetTheme(domain.ThemeHoli))
	require.NoError(t, s.SetMobileMenuOpen(true))
	require.NoError(t, s.SetRole(domain.RoleAdmin))
	require.NoError(t, s.SetAuthenticated(true))
	require.NoError(t, s.SetUserName("Demo User"))
	require.NoError(t, s.SetLinkedAccounts(domain.LinkedAccounts{Google: true}))
	require.NoError(t, s.SetWhatsAppOptedIn(true))

	fields := make([]Field, 0, len(*got))
	for _, r := range *got {
		fields = append(fields, r.field)
	}
	assert.Equal(t, []Field{
		FieldLanguage, FieldTheme, FieldMobileMenuOpen, FieldRole,
		FieldAuthenticated, FieldUserName, FieldLinkedAccounts, FieldWhatsAppOptIn,
	}, fields)

	last := (*got)[len(*got)-1].state
	assert.Equal(t, domain.LangGujarati, last.Language)
	assert.Equal(t, domain.ThemeHoli, last.Theme)
	assert.True(t, last.MobileMenuOpen)
	assert.Equal(t, domain.UserProfile{
		Role:           domain.RoleAdmin,
		Authenticated:  true,
		Name:           "Demo User",
		LinkedAccounts: domain.LinkedAccounts{Google: true},
	}, last.Profile)
	assert.True(t, last.WhatsAppOptedIn)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := newTestStore(t)
	calls := 0
	unsubscribe := s.Subscribe(func(State, Field) { calls++ })

	require.NoError(t, s.SetLanguage(domain.LangHindi))
	unsubscribe()
	unsubscribe()
	require.NoError(t, s.SetLanguage(domain.LangEnglish))

	assert.Equal(t, 1, calls)
}

func TestSetSelectedVillage_ByRegistryIdentity(t *testing.T) {
	s := newTestStore(t)
	danta, ok := s.Registry().ByID("danta")
	require.True(t, ok)

	dup := *danta
	require.NoError(t, s.SetSelectedVillage(&dup))
	assert.Same(t, danta, s.Snapshot().SelectedVillage)

	require.NoError(t, s.SetSelectedVillage(nil))
	assert.Nil(t, s.Snapshot().SelectedVillage)

	err := s.SetSelectedVillage(&domain.Village{ID: "atlantis"})
	assert.ErrorIs(t, err, ErrUnknownVillage)

	err = s.SelectVillageByID("atlantis")
	assert.ErrorIs(t, err, ErrUnknownVillage)
	require.NoError(t, s.SelectVillageByID("vadgam"))
	assert.Equal(t, "vadgam", s.Snapshot().SelectedVillage.ID)
}

func TestSet_ReentrantSameFieldRejected(t *testing.T) {
	s := newTestStore(t)
	var inner error
	s.Subscribe(func(st State, f Field) {
		if f == FieldLanguage && st.Language == domain.LangHindi {
			inner = s.SetLanguage(domain.LangGujarati)
		}
	})

	require.NoError(t, s.SetLanguage(domain.LangHindi))
	assert.True(t, errors.Is(inner, ErrReentrantSet))
	assert.Equal(t, domain.LangHindi, s.Snapshot().Language)

	// The guard is released once notification finishes.
	require.NoError(t, s.SetLanguage(domain.LangGujarati))
}

func TestSet_ListenerMaySetOtherField(t *testing.T) {
	s := newTestStore(t)
	s.Subscribe(func(st State, f Field) {
		if f == FieldRole && st.Profile.Role == domain.RoleAdmin {
			_ = s.SetAuthenticated(true)
		}
	})

	require.NoError(t, s.SetRole(domain.RoleAdmin))
	assert.True(t, s.Snapshot().Profile.Authenticated)
}

func TestIncrementVisitors_FloorsAtZero(t *testing.T) {
	s := newTestStore(t)
	start := s.Snapshot().LiveVisitors

	require.NoError(t, s.IncrementVisitors(1))
	assert.Equal(t, start+1, s.Snapshot().LiveVisitors)

	require.NoError(t, s.IncrementVisitors(-10_000))
	assert.Equal(t, 0, s.Snapshot().LiveVisitors)
}

func TestRestore_UnknownVillageFallsBack(t *testing.T) {
	s := newTestStore(t)
	p := s.DefaultPreferences()
	p.SelectedVillage = &domain.Village{ID: "atlantis"}
	p.Language = domain.LangHindi

	require.NoError(t, s.Restore(p))
	st := s.Snapshot()
	assert.Same(t, s.Registry().First(), st.SelectedVillage)
	assert.Equal(t, domain.LangHindi, st.Language)
}

func TestField_Persisted(t *testing.T) {
	assert.True(t, FieldLanguage.Persisted())
	assert.True(t, FieldSelectedVillage.Persisted())
	assert.True(t, FieldPreferences.Persisted())
	assert.False(t, FieldLiveVisitors.Persisted())
	assert.False(t, FieldMobileMenuOpen.Persisted())
	assert.False(t, FieldLocationDetecting.Persisted())
}
