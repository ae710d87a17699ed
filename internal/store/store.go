// Package store is the portal's preference store: an injectable state
// container for user-facing settings and ephemeral UI flags. Consumers
// subscribe for change notification; persistence is bound explicitly
// through a Persister.
package store

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
)

var (
	// ErrReentrantSet is returned when a listener sets the field whose
	// change it is being notified about.
	ErrReentrantSet = errors.New("reentrant set")
	// ErrUnknownVillage is returned when a village is not in the registry.
	ErrUnknownVillage = errors.New("village not in registry")
)

// Field names a piece of state in change notifications.
type Field string

const (
	FieldLanguage          Field = "language"
	FieldTheme             Field = "theme"
	FieldSelectedVillage   Field = "selected_village"
	FieldLiveVisitors      Field = "live_visitors"
	FieldMobileMenuOpen    Field = "mobile_menu_open"
	FieldLocationDetecting Field = "location_detecting"
	FieldRole              Field = "role"
	FieldAuthenticated     Field = "authenticated"
	FieldUserName          Field = "user_name"
	FieldLinkedAccounts    Field = "linked_accounts"
	FieldWhatsAppOptIn     Field = "whatsapp_opt_in"
	// FieldPreferences is reported when the whole persisted subset is
	// replaced at once, e.g. on hydration.
	FieldPreferences Field = "preferences"
)

// Persisted reports whether changes to f are written to durable storage.
func (f Field) Persisted() bool {
	switch f {
	case FieldLanguage, FieldTheme, FieldSelectedVillage, FieldRole,
		FieldAuthenticated, FieldUserName, FieldLinkedAccounts,
		FieldWhatsAppOptIn, FieldPreferences:
		return true
	}
	return false
}

// DetectionOutcome records how the last geolocation request ended.
type DetectionOutcome struct {
	State     domain.DetectionState
	VillageID string
	Err       string
	At        time.Time
}

// State is an immutable snapshot of the store.
type State struct {
	Language        domain.Language
	Theme           domain.ThemeID
	SelectedVillage *domain.Village
	LiveVisitors    int
	MobileMenuOpen  bool

	LocationDetecting bool
	Detection         domain.DetectionState
	LastDetection     DetectionOutcome

	Profile         domain.UserProfile
	WhatsAppOptedIn bool
}

// Preferences is the subset of State that survives a restart.
type Preferences struct {
	Language        domain.Language
	Theme           domain.ThemeID
	SelectedVillage *domain.Village
	Profile         domain.UserProfile
	WhatsAppOptedIn bool
}

// Listener is called synchronously after every mutation.
type Listener func(s State, changed Field)

type options struct {
	now    func() time.Time
	rng    *rand.Rand
	logger *slog.Logger
}

type Option func(*options)

// WithClock sets the clock used to pick the date-derived default theme.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithRand sets the source for the cosmetic visitor counter.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// Store holds the preference state. Mutations are serialized and
// listeners run after the lock is released, in subscription order.
//
// A set of a field whose listeners are still running fails with
// ErrReentrantSet. The store cannot tell a listener re-entering from
// another goroutine writing the same field at that moment, so owners
// with more than one writer must serialize their writes;
// service.PreferenceService does this per session.
type Store struct {
	reg    *registry.Registry
	now    func() time.Time
	rng    *rand.Rand
	logger *slog.Logger

	mu        sync.Mutex
	state     State
	listeners []subscription
	nextSub   int
	notifying map[Field]bool
}

type subscription struct {
	id int
	fn Listener
}

// New returns a store seeded with defaults: primary language, the
// festival theme active today, and the registry's first village.
func New(reg *registry.Registry, opts ...Option) *Store {
	o := options{
		now: time.Now,
		rng: rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	s := &Store{
		reg:       reg,
		now:       o.now,
		rng:       o.rng,
		logger:    o.logger,
		notifying: make(map[Field]bool),
	}
	s.state = State{
		LiveVisitors: 100 + s.rng.IntN(50),
		Detection:    domain.DetectionIdle,
		LastDetection: DetectionOutcome{
			State: domain.DetectionIdle,
		},
	}
	s.applyPreferences(&s.state, s.DefaultPreferences())
	return s
}

// DefaultPreferences returns what a fresh session starts with.
func (s *Store) DefaultPreferences() Preferences {
	return Preferences{
		Language:        domain.DefaultLanguage,
		Theme:           domain.CurrentFestivalTheme(s.now()).ID,
		SelectedVillage: s.reg.First(),
		Profile:         domain.DefaultUserProfile(),
	}
}

func (s *Store) Registry() *registry.Registry {
	return s.reg
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Preferences returns the persisted subset of the current state.
func (s *Store) Preferences() Preferences {
	st := s.Snapshot()
	return Preferences{
		Language:        st.Language,
		Theme:           st.Theme,
		SelectedVillage: st.SelectedVillage,
		Profile:         st.Profile,
		WhatsAppOptedIn: st.WhatsAppOptedIn,
	}
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, sub := range s.listeners {
				if sub.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// set applies fn under the lock, then notifies listeners with the new
// snapshot.
func (s *Store) set(f Field, fn func(st *State)) error {
	s.mu.Lock()
	if s.notifying[f] {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrReentrantSet, f)
	}
	fn(&s.state)
	snap := s.state
	if len(s.listeners) == 0 {
		s.mu.Unlock()
		return nil
	}
	listeners := make([]Listener, len(s.listeners))
	for i, sub := range s.listeners {
		listeners[i] = sub.fn
	}
	s.notifying[f] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.notifying, f)
		s.mu.Unlock()
	}()

	for _, l := range listeners {
		l(snap, f)
	}
	return nil
}

func (s *Store) SetLanguage(lang domain.Language) error {
	return s.set(FieldLanguage, func(st *State) { st.Language = lang })
}

func (s *Store) SetTheme(theme domain.ThemeID) error {
	return s.set(FieldTheme, func(st *State) { st.Theme = theme })
}

// SetSelectedVillage selects v by identity. A village equal by id to a
// registry entry is replaced by that entry; nil clears the selection.
func (s *Store) SetSelectedVillage(v *domain.Village) error {
	if v != nil {
		canonical, ok := s.reg.ByID(v.ID)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownVillage, v.ID)
		}
		v = canonical
	}
	return s.set(FieldSelectedVillage, func(st *State) { st.SelectedVillage = v })
}

// SelectVillageByID looks id up in the registry and selects it.
func (s *Store) SelectVillageByID(id string) error {
	v, ok := s.reg.ByID(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownVillage, id)
	}
	return s.SetSelectedVillage(v)
}

func (s *Store) SetMobileMenuOpen(open bool) error {
	return s.set(FieldMobileMenuOpen, func(st *State) { st.MobileMenuOpen = open })
}

// SetLocationDetecting sets the raw detecting flag. Callers running a
// full detection use BeginDetection and FinishDetection instead.
func (s *Store) SetLocationDetecting(detecting bool) error {
	return s.set(FieldLocationDetecting, func(st *State) {
		st.LocationDetecting = detecting
		if detecting {
			st.Detection = domain.DetectionDetecting
		} else {
			st.Detection = domain.DetectionIdle
		}
	})
}

func (s *Store) SetRole(role domain.UserRole) error {
	return s.set(FieldRole, func(st *State) { st.Profile.Role = role })
}

func (s *Store) SetAuthenticated(auth bool) error {
	return s.set(FieldAuthenticated, func(st *State) { st.Profile.Authenticated = auth })
}

func (s *Store) SetUserName(name string) error {
	return s.set(FieldUserName, func(st *State) { st.Profile.Name = name })
}

func (s *Store) SetLinkedAccounts(la domain.LinkedAccounts) error {
	return s.set(FieldLinkedAccounts, func(st *State) { st.Profile.LinkedAccounts = la })
}

func (s *Store) SetWhatsAppOptedIn(opted bool) error {
	return s.set(FieldWhatsAppOptIn, func(st *State) { st.WhatsAppOptedIn = opted })
}

// IncrementVisitors adds delta to the cosmetic visitor counter, never
// going below zero.
func (s *Store) IncrementVisitors(delta int) error {
	return s.set(FieldLiveVisitors, func(st *State) {
		st.LiveVisitors += delta
		if st.LiveVisitors < 0 {
			st.LiveVisitors = 0
		}
	})
}

// Restore replaces the persisted subset in one notification. Villages
// not in the registry fall back to the default village.
func (s *Store) Restore(p Preferences) error {
	if p.SelectedVillage != nil {
		if canonical, ok := s.reg.ByID(p.SelectedVillage.ID); ok {
			p.SelectedVillage = canonical
		} else {
			s.logger.Debug("restored village not in registry", "village_id", p.SelectedVillage.ID)
			p.SelectedVillage = s.reg.First()
		}
	}
	return s.set(FieldPreferences, func(st *State) { s.applyPreferences(st, p) })
}

func (s *Store) applyPreferences(st *State, p Preferences) {
	st.Language = p.Language
	st.Theme = p.Theme
	st.SelectedVillage = p.SelectedVillage
	st.Profile = p.Profile
	st.WhatsAppOptedIn = p.WhatsAppOptedIn
}
