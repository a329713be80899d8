package app_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hotel_ops/internal/app"
	"hotel_ops/internal/domain"
)

// ---- fakes ----

// fakeRepo implements only what the directory reads; any other call panics
// through the nil embedded interface.
type fakeRepo struct {
	domain.Repository
	hotels []domain.Hotel
	err    error
	calls  atomic.Int32
	gate   chan struct{}
}

func (f *fakeRepo) ListHotels(ctx context.Context) ([]domain.Hotel, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]domain.Hotel, len(f.hotels))
	copy(out, f.hotels)
	return out, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]domain.Hotel
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*dst.(*[]domain.Hotel) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]domain.Hotel{}
	}
	c.store[key] = v.([]domain.Hotel)
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// ---- tests ----

func TestHotels_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{ID: 1, Name: "Harbor", Lat: 34, Lon: -117}}}
	dir := app.NewHotelDirectory(repo, &fakeCache{}, 10*time.Minute)

	hs, err := dir.Hotels(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(hs) != 1 || hs[0].Name != "Harbor" {
		t.Fatalf("unexpected hotels: %+v", hs)
	}

	repo.hotels[0].Name = "SHOULD NOT SEE THIS"

	hs2, err := dir.Hotels(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if hs2[0].Name != "Harbor" {
		t.Fatalf("expected cached name, got %s", hs2[0].Name)
	}
	if n := repo.calls.Load(); n != 1 {
		t.Fatalf("expected 1 store read, got %d", n)
	}
}

func TestHotels_InvalidateRereads(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{ID: 1, Name: "Harbor"}}}
	dir := app.NewHotelDirectory(repo, &fakeCache{}, time.Minute)
	ctx := context.Background()

	if _, err := dir.Hotels(ctx); err != nil {
		t.Fatalf("err: %v", err)
	}
	repo.hotels[0].Name = "Renamed"
	if err := dir.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	hs, err := dir.Hotels(ctx)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if hs[0].Name != "Renamed" {
		t.Fatalf("expected fresh name, got %s", hs[0].Name)
	}
}

func TestHotels_NoCacheAlwaysReads(t *testing.T) {
	repo := &fakeRepo{}
	dir := app.NewHotelDirectory(repo, nil, time.Minute)
	for i := 0; i < 3; i++ {
		if _, err := dir.Hotels(context.Background()); err != nil {
			t.Fatalf("err: %v", err)
		}
	}
	if n := repo.calls.Load(); n != 3 {
		t.Fatalf("expected 3 store reads, got %d", n)
	}
}

func TestHotels_ConcurrentMissesShareRead(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{ID: 7}}, gate: make(chan struct{})}
	dir := app.NewHotelDirectory(repo, nil, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := dir.Hotels(context.Background()); err != nil {
				t.Errorf("err: %v", err)
			}
		}()
	}
	// let the callers pile up behind the first read
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	if n := repo.calls.Load(); n != 1 {
		t.Fatalf("expected one shared read, got %d", n)
	}
}

func TestHotels_StoreErrorNotCached(t *testing.T) {
	boom := errors.New("boom")
	repo := &fakeRepo{err: boom}
	cache := &fakeCache{}
	dir := app.NewHotelDirectory(repo, cache, time.Minute)

	if _, err := dir.Hotels(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(cache.store) != 0 {
		t.Fatalf("error result was cached: %+v", cache.store)
	}
}

func TestHotels_ZeroTTLDisablesCache(t *testing.T) {
	repo := &fakeRepo{hotels: []domain.Hotel{{ID: 1, Name: "Harbor"}}}
	cache := &fakeCache{}
	dir := app.NewHotelDirectory(repo, cache, 0)

	for i := 0; i < 2; i++ {
		if _, err := dir.Hotels(context.Background()); err != nil {
			t.Fatalf("Hotels: %v", err)
		}
	}
	if got := repo.calls.Load(); got != 2 {
		t.Fatalf("expected every call to reach the store, got %d", got)
	}
	if len(cache.store) != 0 {
		t.Fatalf("nothing should be cached with ttl 0, got %v", cache.store)
	}
}
