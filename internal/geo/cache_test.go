package geo

import (
	"testing"

	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/Sandip-2006/diigital-village-hub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedResolver_AgreesWithResolver(t *testing.T) {
	villages := testutil.DefaultVillages()
	r := NewResolver(DefaultRadiusKm, PolicyNearest)
	cr := NewCachedResolver(r, villages)

	points := []domain.Coordinate{
		{Lat: 24.1730, Lng: 72.4330},
		{Lat: 24.5125, Lng: 72.0271},
		{Lat: 0, Lng: 0},
		{Lat: 24.1892, Lng: 72.7621},
	}
	for _, p := range points {
		want := r.Resolve(p, villages)
		got := cr.Resolve(p)
		assert.Equal(t, want.Found(), got.Found(), "point %v", p)
		if want.Found() {
			assert.Same(t, want.Village, got.Village)
		}
	}
	assert.Equal(t, len(points), cr.Len())
}

func TestCachedResolver_HitReturnsSamePointer(t *testing.T) {
	villages := testutil.DefaultVillages()
	cr := NewCachedResolver(NewResolver(DefaultRadiusKm, PolicyFirst), villages)

	p := domain.Coordinate{Lat: 24.1725, Lng: 72.4323}
	first := cr.Resolve(p)
	require.True(t, first.Found())
	second := cr.Resolve(p)
	assert.Same(t, first.Village, second.Village)
	assert.Equal(t, 1, cr.Len())

	cr.Flush()
	assert.Equal(t, 0, cr.Len())
}

func TestCachedResolver_HitUsesDistanceOfQueriedPoint(t *testing.T) {
	villages := testutil.DefaultVillages()
	r := NewResolver(DefaultRadiusKm, PolicyNearest)
	cr := NewCachedResolver(r, villages)

	// A second point about a metre away in the same 9-character cell.
	a := domain.Coordinate{Lat: 24.17300, Lng: 72.43300}
	var b domain.Coordinate
	for _, off := range [][2]float64{{1e-5, 1e-5}, {1e-5, -1e-5}, {-1e-5, 1e-5}, {-1e-5, -1e-5}} {
		b = domain.Coordinate{Lat: a.Lat + off[0], Lng: a.Lng + off[1]}
		if cr.cacheKey(a) == cr.cacheKey(b) {
			break
		}
	}
	require.Equal(t, cr.cacheKey(a), cr.cacheKey(b))

	first := cr.Resolve(a)
	require.True(t, first.Found())
	second := cr.Resolve(b)
	require.True(t, second.Found())

	assert.Same(t, first.Village, second.Village)
	assert.Equal(t, 1, cr.Len())
	assert.InDelta(t, r.Resolve(b, villages).DistanceKm, second.DistanceKm, 1e-12)
}

func TestCachedResolver_HitOutsideRadiusResolvesAgain(t *testing.T) {
	v := testutil.NewTestVillage("edge", testutil.WithLocation(24, 72))
	villages := []*domain.Village{v}
	cr := NewCachedResolver(NewResolver(DefaultRadiusKm, PolicyNearest), villages)

	inside := domain.Coordinate{Lat: 24, Lng: 72.03}
	require.True(t, cr.Resolve(inside).Found())

	// Seed the cell of a point beyond the radius with the village, as a
	// neighbour just inside the edge would.
	outside := domain.Coordinate{Lat: 24, Lng: 72.06}
	cr.cache.SetDefault(cr.cacheKey(outside), v)
	assert.False(t, cr.Resolve(outside).Found())
}
