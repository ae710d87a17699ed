package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
)

// StorageKey is the namespaced key preferences are written under.
const StorageKey = "village-portal-storage"

// storageVersion 0 blobs hold the whole village object under
// selectedVillage; version 1 holds its id.
const storageVersion = 1

// Storage is a string-keyed durable store with localStorage semantics.
type Storage interface {
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// SessionKey namespaces StorageKey for one client session.
func SessionKey(sessionID string) string {
	if sessionID == "" {
		return StorageKey
	}
	return StorageKey + ":" + sessionID
}

type envelope struct {
	State   json.RawMessage `json:"state"`
	Version int             `json:"version"`
}

type persistedState struct {
	Language        *string                `json:"language,omitempty"`
	Theme           *string                `json:"theme,omitempty"`
	SelectedVillage json.RawMessage        `json:"selectedVillage,omitempty"`
	UserRole        *string                `json:"userRole,omitempty"`
	IsAuthenticated *bool                  `json:"isAuthenticated,omitempty"`
	UserName        *string                `json:"userName,omitempty"`
	LinkedAccounts  *domain.LinkedAccounts `json:"linkedAccounts,omitempty"`
	WhatsAppOptedIn *bool                  `json:"whatsappOptedIn,omitempty"`
}

// Encode serializes the persisted subset of p.
func Encode(p Preferences) ([]byte, error) {
	lang := string(p.Language)
	theme := string(p.Theme)
	role := string(p.Profile.Role)
	ps := persistedState{
		Language:        &lang,
		Theme:           &theme,
		SelectedVillage: json.RawMessage("null"),
		UserRole:        &role,
		IsAuthenticated: &p.Profile.Authenticated,
		UserName:        &p.Profile.Name,
		LinkedAccounts:  &p.Profile.LinkedAccounts,
		WhatsAppOptedIn: &p.WhatsAppOptedIn,
	}
	if p.SelectedVillage != nil {
		id, err := json.Marshal(p.SelectedVillage.ID)
		if err != nil {
			return nil, err
		}
		ps.SelectedVillage = id
	}
	state, err := json.Marshal(ps)
	if err != nil {
		return nil, fmt.Errorf("encoding preferences: %w", err)
	}
	return json.Marshal(envelope{State: state, Version: storageVersion})
}

// Decode overlays the fields found in data onto defaults. Fields that are
// missing or fail validation keep their default; unknown fields are
// ignored. Only a blob that is not a JSON envelope is an error.
func (s *Store) Decode(data []byte, defaults Preferences) (Preferences, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return defaults, fmt.Errorf("decoding envelope: %w", err)
	}
	if len(env.State) == 0 || bytes.Equal(env.State, []byte("null")) {
		return defaults, fmt.Errorf("envelope has no state")
	}
	var ps persistedState
	if err := json.Unmarshal(env.State, &ps); err != nil {
		return defaults, fmt.Errorf("decoding state: %w", err)
	}

	p := defaults
	if ps.Language != nil {
		if lang, err := domain.ParseLanguage(*ps.Language); err == nil {
			p.Language = lang
		}
	}
	if ps.Theme != nil {
		if theme, err := domain.ParseThemeID(*ps.Theme); err == nil {
			p.Theme = theme
		}
	}
	if len(ps.SelectedVillage) > 0 {
		p.SelectedVillage = s.decodeVillage(ps.SelectedVillage, env.Version, defaults.SelectedVillage)
	}
	if ps.UserRole != nil {
		if role, err := domain.ParseUserRole(*ps.UserRole); err == nil {
			p.Profile.Role = role
		}
	}
	if ps.IsAuthenticated != nil {
		p.Profile.Authenticated = *ps.IsAuthenticated
	}
	if ps.UserName != nil {
		p.Profile.Name = *ps.UserName
	}
	if ps.LinkedAccounts != nil {
		p.Profile.LinkedAccounts = *ps.LinkedAccounts
	}
	if ps.WhatsAppOptedIn != nil {
		p.WhatsAppOptedIn = *ps.WhatsAppOptedIn
	}
	return p, nil
}

func (s *Store) decodeVillage(raw json.RawMessage, version int, fallback *domain.Village) *domain.Village {
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var id string
	if version == 0 {
		var legacy struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return fallback
		}
		id = legacy.ID
	} else if err := json.Unmarshal(raw, &id); err != nil {
		return fallback
	}
	if v, ok := s.reg.ByID(id); ok {
		return v
	}
	return fallback
}

// Persister writes a store's preferences to Storage under one key.
type Persister struct {
	storage Storage
	key     string
	logger  *slog.Logger

	mu      sync.Mutex
	lastErr error
}

func NewPersister(storage Storage, key string, logger *slog.Logger) *Persister {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Persister{storage: storage, key: key, logger: logger}
}

func (p *Persister) Key() string {
	return p.key
}

// Persist writes prefs to storage.
func (p *Persister) Persist(ctx context.Context, prefs Preferences) error {
	data, err := Encode(prefs)
	if err != nil {
		return err
	}
	if err := p.storage.SetItem(ctx, p.key, string(data)); err != nil {
		return fmt.Errorf("persisting %s: %w", p.key, err)
	}
	return nil
}

// Hydrate seeds s from storage. A missing blob leaves the defaults in
// place. A corrupt blob is removed and the defaults are kept; that is
// not reported as an error. Only storage failures are returned.
func (p *Persister) Hydrate(ctx context.Context, s *Store) error {
	raw, ok, err := p.storage.GetItem(ctx, p.key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.key, err)
	}
	defaults := s.DefaultPreferences()
	if !ok {
		return s.Restore(defaults)
	}

	prefs, derr := s.Decode([]byte(raw), defaults)
	if derr != nil {
		p.logger.Debug("discarding corrupt preferences", "key", p.key, "error", derr)
		if err := p.storage.RemoveItem(ctx, p.key); err != nil {
			return fmt.Errorf("removing corrupt %s: %w", p.key, err)
		}
	}
	return s.Restore(prefs)
}

// Bind subscribes p to s so that every change to a persisted field is
// written through. Write failures are logged and kept for Err.
func (p *Persister) Bind(ctx context.Context, s *Store) (unbind func()) {
	return s.Subscribe(func(st State, changed Field) {
		if !changed.Persisted() {
			return
		}
		err := p.Persist(ctx, Preferences{
			Language:        st.Language,
			Theme:           st.Theme,
			SelectedVillage: st.SelectedVillage,
			Profile:         st.Profile,
			WhatsAppOptedIn: st.WhatsAppOptedIn,
		})
		p.mu.Lock()
		p.lastErr = err
		p.mu.Unlock()
		if err != nil {
			p.logger.Warn("persisting preferences", "key", p.key, "error", err)
		}
	})
}

// Err returns the result of the most recent bound write.
func (p *Persister) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastErr
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu    sync.Mutex
	items map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
