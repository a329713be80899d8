package app

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"hotel_ops/internal/domain"
)

const hotelsKey = "hotels:all"

// HotelDirectory serves the hotel list cache-aside. Hotels are not mutated by
// any workflow here, so a TTL is the only invalidation.
type HotelDirectory struct {
	repo     domain.Repository
	cache    domain.Cache
	cacheTTL time.Duration
	fill     singleflight.Group
}

// NewHotelDirectory caches through c for ttl. A ttl under one second
// disables caching since redis expiries are whole seconds.
func NewHotelDirectory(r domain.Repository, c domain.Cache, ttl time.Duration) *HotelDirectory {
	if c == nil || ttl < time.Second {
		c = NopCache{}
	}
	return &HotelDirectory{repo: r, cache: c, cacheTTL: ttl}
}

func (d *HotelDirectory) Hotels(ctx context.Context) ([]domain.Hotel, error) {
	var hs []domain.Hotel
	if ok, _ := d.cache.Get(ctx, hotelsKey, &hs); ok {
		return hs, nil
	}
	// concurrent misses share one store read
	v, err, _ := d.fill.Do(hotelsKey, func() (any, error) {
		hs, err := d.repo.ListHotels(ctx)
		if err != nil {
			return nil, err
		}
		_ = d.cache.Set(ctx, hotelsKey, hs, int(d.cacheTTL.Seconds()))
		return hs, nil
	})
	if err != nil {
		return nil, err
	}
	// copy so callers cannot mutate the shared result
	src := v.([]domain.Hotel)
	out := make([]domain.Hotel, len(src))
	copy(out, src)
	return out, nil
}

func (d *HotelDirectory) Invalidate(ctx context.Context) error {
	return d.cache.Del(ctx, hotelsKey)
}

// NopCache never hits. Used when no redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopCache) Set(context.Context, string, any, int) error    { return nil }
func (NopCache) Del(context.Context, string) error              { return nil }
