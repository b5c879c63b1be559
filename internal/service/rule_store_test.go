package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

// fakeRulesetSource serves documents from memory and counts calls so
// tests can tell cache hits from reloads.
type fakeRulesetSource struct {
	mu      sync.Mutex
	docs    map[string]fakeDoc
	markers atomic.Int64
	gets    atomic.Int64
	err     error
}

type fakeDoc struct {
	body   []byte
	marker time.Time
}

func newFakeSource() *fakeRulesetSource {
	return &fakeRulesetSource{docs: make(map[string]fakeDoc)}
}

func (f *fakeRulesetSource) set(tenantID, body string, marker time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[tenantID] = fakeDoc{body: []byte(body), marker: marker}
}

func (f *fakeRulesetSource) remove(tenantID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, tenantID)
}

func (f *fakeRulesetSource) GetMarker(_ context.Context, tenantID string) (time.Time, bool, error) {
	f.markers.Add(1)
	if f.err != nil {
		return time.Time{}, false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[tenantID]
	return doc.marker, ok, nil
}

func (f *fakeRulesetSource) Get(_ context.Context, tenantID string) ([]byte, time.Time, bool, error) {
	f.gets.Add(1)
	if f.err != nil {
		return nil, time.Time{}, false, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[tenantID]
	return doc.body, doc.marker, ok, nil
}

func TestRuleStore_Resolve(t *testing.T) {
	ctx := context.Background()
	t0 := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)

	t.Run("absent document falls back to defaults", func(t *testing.T) {
		store := NewRuleStore(newFakeSource())

		rules, err := store.Resolve(ctx, "ghost")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultRuleSet(), rules)
	})

	t.Run("unchanged marker serves from cache", func(t *testing.T) {
		source := newFakeSource()
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		store := NewRuleStore(source)

		first, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, 10, first.Global.RoundTo)
		assert.EqualValues(t, 1, source.gets.Load())

		second, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.EqualValues(t, 1, source.gets.Load(), "second resolve must not re-read the document")
		assert.EqualValues(t, 2, source.markers.Load(), "marker is probed on every resolve")
	})

	t.Run("marker change triggers a full reload", func(t *testing.T) {
		source := newFakeSource()
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		store := NewRuleStore(source)

		_, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)

		source.set("acme", `{"global": {"round_to": 25}}`, t1)

		rules, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, 25, rules.Global.RoundTo)
		assert.EqualValues(t, 2, source.gets.Load())
	})

	t.Run("malformed document fails the request and leaves the cache intact", func(t *testing.T) {
		source := newFakeSource()
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		store := NewRuleStore(source)

		_, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)

		source.set("acme", `{"global": "not an object"`, t1)
		_, err = store.Resolve(ctx, "acme")
		require.Error(t, err)

		// Roll the document back to its original marker: the cached
		// entry from the first resolve must still be served.
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		rules, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, 10, rules.Global.RoundTo)
		assert.EqualValues(t, 2, source.gets.Load(), "cached entry survived the failed parse")
	})

	t.Run("document removed after caching falls back to defaults", func(t *testing.T) {
		source := newFakeSource()
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		store := NewRuleStore(source)

		_, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)

		source.remove("acme")

		rules, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, model.DefaultRuleSet(), rules)
	})

	t.Run("source failure is fatal for the request only", func(t *testing.T) {
		source := newFakeSource()
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		store := NewRuleStore(source)

		_, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)

		source.err = errors.New("connection reset")
		_, err = store.Resolve(ctx, "acme")
		assert.Error(t, err)

		source.err = nil
		rules, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, 10, rules.Global.RoundTo)
	})

	t.Run("tenants are isolated", func(t *testing.T) {
		source := newFakeSource()
		source.set("acme", `{"global": {"round_to": 10}}`, t0)
		source.set("gulfhaul", `{"vehicle_minimums": {"van": 250.0}}`, t0)
		store := NewRuleStore(source)

		acme, err := store.Resolve(ctx, "acme")
		require.NoError(t, err)
		gulf, err := store.Resolve(ctx, "gulfhaul")
		require.NoError(t, err)

		assert.Equal(t, 10, acme.Global.RoundTo)
		assert.Equal(t, 200.0, acme.VehicleMinimums["van"])
		assert.Equal(t, 5, gulf.Global.RoundTo)
		assert.Equal(t, 250.0, gulf.VehicleMinimums["van"])
	})
}

func TestRuleStore_ConcurrentResolves(t *testing.T) {
	ctx := context.Background()
	source := newFakeSource()
	source.set("acme", `{"global": {"round_to": 10}}`, time.Now())
	source.set("gulfhaul", `{"vehicle_minimums": {"van": 250.0}}`, time.Now())
	store := NewRuleStore(source)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		tenantID := "acme"
		if i%2 == 0 {
			tenantID = "gulfhaul"
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			rules, err := store.Resolve(ctx, id)
			assert.NoError(t, err)
			assert.NotZero(t, rules.Global.RoundTo)
		}(tenantID)
	}
	wg.Wait()
}
