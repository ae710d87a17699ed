package geo

import (
	"fmt"
	"time"

	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/Sandip-2006/diigital-village-hub/internal/domain"
	"github.com/patrickmn/go-cache"
)

const (
	resolveCacheDuration        = 24 * time.Hour
	resolveCacheCleanupInterval = 48 * time.Hour

	// A 9-character geohash cell is under 5 m on a side.
	cellPrecision = 9
)

// CachedResolver memoizes resolutions per geohash cell. The registry is
// immutable, so entries never go stale; expiry only bounds memory.
type CachedResolver struct {
	resolver *Resolver
	villages []*domain.Village
	cache    *cache.Cache
}

func NewCachedResolver(r *Resolver, villages []*domain.Village) *CachedResolver {
	return &CachedResolver{
		resolver: r,
		villages: villages,
		cache:    cache.New(resolveCacheDuration, resolveCacheCleanupInterval),
	}
}

func (c *CachedResolver) cacheKey(coord domain.Coordinate) string {
	cell := geohash.Encode(coord.Lat, coord.Lng)
	if len(cell) > cellPrecision {
		cell = cell[:cellPrecision]
	}
	return fmt.Sprintf("%s:%g:%s", c.resolver.policy, c.resolver.radiusKm, cell)
}

// Resolve returns the match for coord, reusing the village resolved for
// its geohash cell. The distance and radius check are always computed
// for coord itself; a cached village that falls outside the radius for
// coord triggers a fresh resolution. A cell cached as NoMatch stays
// NoMatch, which can be wrong only within one cell of the radius edge.
func (c *CachedResolver) Resolve(coord domain.Coordinate) Match {
	key := c.cacheKey(coord)
	if cached, ok := c.cache.Get(key); ok {
		v, _ := cached.(*domain.Village)
		if v == nil {
			return NoMatch
		}
		if d := Distance(coord, v.Location); d <= c.resolver.radiusKm {
			return Match{Village: v, DistanceKm: d}
		}
	}
	m := c.resolver.Resolve(coord, c.villages)
	c.cache.SetDefault(key, m.Village)
	return m
}

// Flush drops all cached resolutions.
func (c *CachedResolver) Flush() {
	c.cache.Flush()
}

func (c *CachedResolver) Len() int {
	return c.cache.ItemCount()
}
