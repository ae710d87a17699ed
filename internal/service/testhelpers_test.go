package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/locate"
	"github.com/Sandip-2006/diigital-village-hub/internal/registry"
	"github.com/Sandip-2006/diigital-village-hub/internal/repository"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
	"github.com/Sandip-2006/diigital-village-hub/internal/testutil"
)

var june15 = time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return june15 }

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

func newTestDetector(reg *registry.Registry) *locate.Detector {
	return locate.NewDetector(geo.NewResolver(geo.DefaultRadiusKm, geo.PolicyNearest), reg.All(), time.Second)
}

// setupPreferences returns a service over a fresh in-memory database,
// along with the storage so tests can inspect blobs or build a second
// service over the same data.
func setupPreferences(t *testing.T, observers ...UseCaseObserver) (PreferenceService, *repository.SQLiteStorage) {
	t.Helper()
	storage := repository.NewSQLiteStorage(testutil.NewTestDB(t))
	return newPreferences(t, storage, observers...), storage
}

func newPreferences(t *testing.T, storage *repository.SQLiteStorage, observers ...UseCaseObserver) PreferenceService {
	t.Helper()
	reg := registry.Default()
	svc := NewPreferenceService(storage, reg, newTestDetector(reg), PreferenceConfig{
		StoreOptions: []store.Option{store.WithClock(fixedClock)},
	}, observers...)
	t.Cleanup(svc.Close)
	return svc
}

func ptr[T any](v T) *T { return &v }
