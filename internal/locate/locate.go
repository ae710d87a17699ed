// Package locate runs the "detect my village" flow: it asks a position
// source for the device's coordinate, resolves it against the registry
// and records the outcome in the preference store.
package locate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/geo"
	"github.com/Sandip-2006/diigital-village-hub/internal/store"
)

// DefaultTimeout bounds a single position request.
const DefaultTimeout = 10 * time.Second

// Failures a position source may report. They mirror the platform
// geolocation error codes.
var (
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrPositionUnavailable = errors.New("position unavailable")
	ErrTimeout             = errors.New("location request timed out")
	ErrInvalidPosition     = errors.New("invalid position")
)

// FailureCodes maps the platform geolocation error codes to sentinels.
var FailureCodes = map[string]error{
	"permission_denied":    ErrPermissionDenied,
	"position_unavailable": ErrPositionUnavailable,
	"timeout":              ErrTimeout,
}

// PositionSource yields the device's current coordinate.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (domain.Coordinate, error)
}

// StaticSource always reports the same coordinate.
type StaticSource domain.Coordinate

func (s StaticSource) CurrentPosition(context.Context) (domain.Coordinate, error) {
	return domain.Coordinate(s), nil
}

// FailingSource always reports Err.
type FailingSource struct {
	Err error
}

func (s FailingSource) CurrentPosition(context.Context) (domain.Coordinate, error) {
	return domain.Coordinate{}, s.Err
}

// SourceFunc adapts a function to PositionSource.
type SourceFunc func(ctx context.Context) (domain.Coordinate, error)

func (f SourceFunc) CurrentPosition(ctx context.Context) (domain.Coordinate, error) {
	return f(ctx)
}

// Outcome describes how a detection ended.
type Outcome struct {
	Position domain.Coordinate
	Match    geo.Match
	Err      error
}

// Detector drives a store through Idle → Detecting → Resolved|Failed → Idle.
type Detector struct {
	resolve func(domain.Coordinate) geo.Match
	timeout time.Duration
}

// NewDetector resolves against villages with r. A non-positive timeout
// uses DefaultTimeout.
func NewDetector(r *geo.Resolver, villages []*domain.Village, timeout time.Duration) *Detector {
	return newDetector(func(c domain.Coordinate) geo.Match { return r.Resolve(c, villages) }, timeout)
}

// NewCachedDetector resolves through a CachedResolver.
func NewCachedDetector(cr *geo.CachedResolver, timeout time.Duration) *Detector {
	return newDetector(cr.Resolve, timeout)
}

func newDetector(resolve func(domain.Coordinate) geo.Match, timeout time.Duration) *Detector {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Detector{resolve: resolve, timeout: timeout}
}

// Recorder is the part of a store that a detection writes to.
// *store.Store satisfies it.
type Recorder interface {
	BeginDetection() error
	FinishDetection(v *domain.Village, err error) error
}

var _ Recorder = (*store.Store)(nil)

// Detect runs one detection. The returned Outcome carries source and
// validation failures; the error result is reserved for store failures.
// Overlapping calls on one store are not coordinated: the last to
// finish wins.
func (d *Detector) Detect(ctx context.Context, r Recorder, src PositionSource) (Outcome, error) {
	if err := r.BeginDetection(); err != nil {
		return Outcome{}, err
	}

	out := d.position(ctx, src)
	if out.Err == nil {
		out.Match = d.resolve(out.Position)
	}

	if err := r.FinishDetection(out.Match.Village, out.Err); err != nil {
		return out, fmt.Errorf("recording detection: %w", err)
	}
	return out, nil
}

func (d *Detector) position(ctx context.Context, src PositionSource) Outcome {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	type result struct {
		c   domain.Coordinate
		err error
	}
	ch := make(chan result, 1)
	go func() {
		c, err := src.CurrentPosition(ctx)
		ch <- result{c, err}
	}()

	select {
	case <-ctx.Done():
		return Outcome{Err: contextFailure(ctx.Err())}
	case r := <-ch:
		switch {
		case errors.Is(r.err, context.DeadlineExceeded), errors.Is(r.err, context.Canceled):
			return Outcome{Err: contextFailure(r.err)}
		case r.err != nil:
			return Outcome{Err: r.err}
		}
		if err := geo.ValidateCoordinate(r.c); err != nil {
			return Outcome{Position: r.c, Err: fmt.Errorf("%w: %v", ErrInvalidPosition, err)}
		}
		return Outcome{Position: r.c}
	}
}

// contextFailure reports an expired deadline as ErrTimeout, like the
// platform's timeout callback. Cancellation by the caller is passed
// through unchanged.
func contextFailure(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
