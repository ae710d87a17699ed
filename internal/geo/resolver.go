package geo

import (
	"errors"
	"fmt"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
)

var ErrInvalidCoordinate = errors.New("coordinate out of range")

// DefaultRadiusKm is the match radius used when none is configured.
const DefaultRadiusKm = 5.0

// Policy decides which village wins when several lie inside the radius.
type Policy string

const (
	// PolicyFirst picks the earliest village in registry order.
	PolicyFirst Policy = "first"
	// PolicyNearest picks the closest village; ties keep registry order.
	PolicyNearest Policy = "nearest"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyFirst, PolicyNearest:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown resolver policy %q (want first or nearest)", s)
}

// Match is the outcome of a resolution. The zero value is NoMatch.
type Match struct {
	Village    *domain.Village
	DistanceKm float64
}

// NoMatch is returned when no village lies inside the radius.
var NoMatch = Match{}

func (m Match) Found() bool {
	return m.Village != nil
}

// Resolver maps a coordinate to a registry village. It holds no state
// beyond its configuration and is safe for concurrent use.
type Resolver struct {
	radiusKm float64
	policy   Policy
}

// NewResolver returns a resolver. Non-positive radii fall back to
// DefaultRadiusKm and an empty policy to PolicyNearest.
func NewResolver(radiusKm float64, policy Policy) *Resolver {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if policy == "" {
		policy = PolicyNearest
	}
	return &Resolver{radiusKm: radiusKm, policy: policy}
}

func (r *Resolver) RadiusKm() float64 { return r.radiusKm }
func (r *Resolver) Policy() Policy    { return r.policy }

// Resolve returns the village for c among villages, or NoMatch. The
// returned village is the caller's pointer, never a copy.
func (r *Resolver) Resolve(c domain.Coordinate, villages []*domain.Village) Match {
	best := NoMatch
	for _, v := range villages {
		if v == nil {
			continue
		}
		d := Distance(c, v.Location)
		if d > r.radiusKm {
			continue
		}
		if r.policy == PolicyFirst {
			return Match{Village: v, DistanceKm: d}
		}
		if !best.Found() || d < best.DistanceKm {
			best = Match{Village: v, DistanceKm: d}
		}
	}
	return best
}
