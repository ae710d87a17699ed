package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

const (
	maxSessionIDLen = 64

	// DefaultMaxSessions bounds the sessions a PreferenceService keeps
	// in memory.
	DefaultMaxSessions = 10000
)

// PreferenceStorage is durable storage that can also expire old keys.
type PreferenceStorage interface {
	store.Storage
	PruneBefore(ctx context.Context, prefix string, cutoff time.Time, keep ...string) (int64, error)
}

// session is one cached store. write serializes every writer of the
// store so that a listener-guarded field never sees two setters at once.
type session struct {
	store     *store.Store
	persister *store.Persister
	unbind    func()
	lastUsed  time.Time
	write     sync.Mutex
}

// recorder serializes detection writes with the session's other writers.
// The position wait happens outside the lock, so overlapping detections
// still both run and the last to finish wins.
type recorder struct{ sess *session }

func (r recorder) BeginDetection() error {
	r.sess.write.Lock()
	defer r.sess.write.Unlock()
	return r.sess.store.BeginDetection()
}

func (r recorder) FinishDetection(v *domain.Village, err error) error {
	r.sess.write.Lock()
	defer r.sess.write.Unlock()
	return r.sess.store.FinishDetection(v, err)
}

type preferenceService struct {
	storage   PreferenceStorage
	reg       *registry.Registry
	detector  *locate.Detector
	storeOpts []store.Option
	logger    *slog.Logger
	observer  UseCaseObserver
	now       func() time.Time
	max       int

	mu       sync.Mutex
	sessions map[string]*session
}

// PreferenceConfig holds the optional parts of a PreferenceService.
type PreferenceConfig struct {
	StoreOptions []store.Option
	Logger       *slog.Logger
	Now          func() time.Time
	// MaxSessions caps the cached sessions; the least recently used one
	// is dropped to make room. Zero means DefaultMaxSessions.
	MaxSessions int
}

func NewPreferenceService(
	storage PreferenceStorage,
	reg *registry.Registry,
	detector *locate.Detector,
	cfg PreferenceConfig,
	observers ...UseCaseObserver,
) PreferenceService {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	return &preferenceService{
		storage:   storage,
		reg:       reg,
		detector:  detector,
		storeOpts: cfg.StoreOptions,
		logger:    cfg.Logger,
		observer:  useCaseObserverOrNoop(observers),
		now:       cfg.Now,
		max:       cfg.MaxSessions,
		sessions:  make(map[string]*session),
	}
}

func validateSessionID(id string) error {
	if len(id) > maxSessionIDLen || strings.ContainsAny(id, " \t\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidSession, id)
	}
	return nil
}

func (s *preferenceService) Open(ctx context.Context, sessionID string) (*store.Store, error) {
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.store, nil
}

func (s *preferenceService) session(ctx context.Context, sessionID string) (*session, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastUsed = s.now()
		return sess, nil
	}

	logger := s.logger.With("session", sessionID)
	opts := append([]store.Option{store.WithLogger(logger)}, s.storeOpts...)
	st := store.New(s.reg, opts...)
	p := store.NewPersister(s.storage, store.SessionKey(sessionID), logger)
	if err := p.Hydrate(ctx, st); err != nil {
		return nil, fmt.Errorf("hydrating session: %w", err)
	}
	sess := &session{
		store:     st,
		persister: p,
		unbind:    p.Bind(context.WithoutCancel(ctx), st),
		lastUsed:  s.now(),
	}
	if len(s.sessions) >= s.max {
		s.evictOldest()
	}
	s.sessions[sessionID] = sess
	return sess, nil
}

// evictOldest drops the least recently used session. The terminal
// session is never evicted. Callers hold s.mu.
func (s *preferenceService) evictOldest() {
	var (
		oldestID string
		oldest   *session
	)
	for id, sess := range s.sessions {
		if id == "" {
			continue
		}
		if oldest == nil || sess.lastUsed.Before(oldest.lastUsed) {
			oldestID, oldest = id, sess
		}
	}
	if oldest == nil {
		return
	}
	oldest.unbind()
	delete(s.sessions, oldestID)
	s.logger.Debug("evicted idle session", "session", oldestID)
}

// parsedUpdate is a PreferenceUpdate with every value validated.
type parsedUpdate struct {
	language *domain.Language
	theme    *domain.ThemeID
	village  *domain.Village
	role     *domain.UserRole
}

func (s *preferenceService) parse(u PreferenceUpdate) (parsedUpdate, error) {
	var (
		out  parsedUpdate
		errs []error
	)
	if u.Language != nil {
		if lang, err := domain.ParseLanguage(*u.Language); err != nil {
			errs = append(errs, err)
		} else {
			out.language = &lang
		}
	}
	if u.Theme != nil {
		if id, err := domain.ParseThemeID(*u.Theme); err != nil {
			errs = append(errs, err)
		} else {
			out.theme = &id
		}
	}
	if u.VillageID != nil {
		if v, ok := s.reg.ByID(*u.VillageID); !ok {
			errs = append(errs, fmt.Errorf("unknown village %q", *u.VillageID))
		} else {
			out.village = v
		}
	}
	if u.Role != nil {
		if r, err := domain.ParseUserRole(*u.Role); err != nil {
			errs = append(errs, err)
		} else {
			out.role = &r
		}
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("%w: %w", ErrInvalidPreference, errors.Join(errs...))
	}
	return out, nil
}

func (s *preferenceService) Update(ctx context.Context, sessionID string, u PreferenceUpdate) (state store.State, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": sessionID}
	defer func() { observe(ctx, s.observer, "update-preferences", startedAt, fields, &err) }()

	parsed, err := s.parse(u)
	if err != nil {
		return store.State{}, err
	}
	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return store.State{}, err
	}
	st := sess.store
	sess.write.Lock()
	defer sess.write.Unlock()

	var changed []string
	apply := func(name string, fn func() error) {
		if err != nil {
			return
		}
		if err = fn(); err == nil {
			changed = append(changed, name)
		}
	}
	if parsed.language != nil {
		apply("language", func() error { return st.SetLanguage(*parsed.language) })
	}
	if parsed.theme != nil {
		apply("theme", func() error { return st.SetTheme(*parsed.theme) })
	}
	if parsed.village != nil {
		apply("village", func() error { return st.SetSelectedVillage(parsed.village) })
	}
	if parsed.role != nil {
		apply("role", func() error { return st.SetRole(*parsed.role) })
	}
	if u.UserName != nil {
		apply("user_name", func() error { return st.SetUserName(strings.TrimSpace(*u.UserName)) })
	}
	if u.Authenticated != nil {
		apply("authenticated", func() error { return st.SetAuthenticated(*u.Authenticated) })
	}
	if u.Google != nil || u.Phone != nil {
		la := st.Snapshot().Profile.LinkedAccounts
		if u.Google != nil {
			la.Google = *u.Google
		}
		if u.Phone != nil {
			la.Phone = *u.Phone
		}
		apply("linked_accounts", func() error { return st.SetLinkedAccounts(la) })
	}
	if u.WhatsAppOptIn != nil {
		apply("whatsapp", func() error { return st.SetWhatsAppOptedIn(*u.WhatsAppOptIn) })
	}
	fields["changed"] = strings.Join(changed, ",")
	if err != nil {
		return st.Snapshot(), err
	}
	if len(changed) > 0 {
		if perr := sess.persister.Err(); perr != nil {
			err = perr
			return st.Snapshot(), err
		}
	}
	return st.Snapshot(), nil
}

func (s *preferenceService) Reset(ctx context.Context, sessionID string) (state store.State, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": sessionID}
	defer func() { observe(ctx, s.observer, "reset-preferences", startedAt, fields, &err) }()

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return store.State{}, err
	}
	sess.write.Lock()
	defer sess.write.Unlock()

	// Subscribers keep the same store; only its preferences go back to
	// the defaults and the blob is removed.
	if err = sess.store.Restore(sess.store.DefaultPreferences()); err != nil {
		return sess.store.Snapshot(), err
	}
	if err = s.storage.RemoveItem(ctx, sess.persister.Key()); err != nil {
		return sess.store.Snapshot(), fmt.Errorf("removing preferences: %w", err)
	}
	return sess.store.Snapshot(), nil
}

func (s *preferenceService) Detect(ctx context.Context, sessionID string, src locate.PositionSource) (out locate.Outcome, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"session": sessionID}
	defer func() {
		fields["matched"] = out.Match.Found()
		if out.Match.Found() {
			fields["village"] = out.Match.Village.ID
		}
		if out.Err != nil {
			fields["detect_error"] = out.Err.Error()
		}
		observe(ctx, s.observer, "detect-location", startedAt, fields, &err)
	}()

	sess, err := s.session(ctx, sessionID)
	if err != nil {
		return locate.Outcome{}, err
	}
	return s.detector.Detect(ctx, recorder{sess}, src)
}

func (s *preferenceService) Prune(ctx context.Context, ttl time.Duration) (n int64, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"ttl": ttl.String()}
	defer func() {
		fields["pruned"] = n
		observe(ctx, s.observer, "prune-sessions", startedAt, fields, &err)
	}()

	cutoff := s.now().Add(-ttl)
	var live []string
	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			sess.unbind()
			delete(s.sessions, id)
			continue
		}
		live = append(live, sess.persister.Key())
	}
	s.mu.Unlock()

	// A blob's age only tracks writes; sessions read since the cutoff
	// are still cached and keep theirs.
	n, err = s.storage.PruneBefore(ctx, store.SessionKey("")+":", cutoff, live...)
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return n, nil
}

func (s *preferenceService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.unbind()
		delete(s.sessions, id)
	}
}
