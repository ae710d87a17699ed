package service

import (
	"context"
	"errors"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

var (
	ErrVillageNotFound   = errors.New("village not found")
	ErrInvalidPreference = errors.New("invalid preference")
	ErrInvalidSession    = errors.New("invalid session id")
)

type VillageService interface {
	List(ctx context.Context) []*domain.Village
	Get(ctx context.Context, id string) (*domain.Village, error)
	Locate(ctx context.Context, c domain.Coordinate) (geo.Match, error)
}

// PreferenceUpdate carries optional changes; nil fields are left alone.
type PreferenceUpdate struct {
	Language      *string
	Theme         *string
	VillageID     *string
	Role          *string
	UserName      *string
	Authenticated *bool
	Google        *bool
	Phone         *bool
	WhatsAppOptIn *bool
}

// Empty reports whether u changes nothing.
func (u PreferenceUpdate) Empty() bool {
	return u == PreferenceUpdate{}
}

type PreferenceService interface {
	// Open returns the hydrated store for a session, creating it on first use.
	Open(ctx context.Context, sessionID string) (*store.Store, error)
	Update(ctx context.Context, sessionID string, u PreferenceUpdate) (store.State, error)
	Reset(ctx context.Context, sessionID string) (store.State, error)
	Detect(ctx context.Context, sessionID string, src locate.PositionSource) (locate.Outcome, error)
	// Prune forgets sessions untouched for longer than ttl.
	Prune(ctx context.Context, ttl time.Duration) (int64, error)
	Close()
}
