package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/adxlogistics/freight-rate-engine/internal/model"
)

// RulesetSource fetches a tenant's persisted rules document and its
// modification marker.
type RulesetSource interface {
	GetMarker(ctx context.Context, tenantID string) (time.Time, bool, error)
	Get(ctx context.Context, tenantID string) ([]byte, time.Time, bool, error)
}

type cachedRuleset struct {
	rules  model.RuleSet
	marker time.Time
}

// RuleStore resolves the effective ruleset for a tenant, caching the
// merged result keyed by the document's modification marker. An entry
// is replaced wholesale when the marker changes; a failed parse never
// touches the cache.
type RuleStore struct {
	source RulesetSource

	mu    sync.Mutex
	cache map[string]cachedRuleset
}

func NewRuleStore(source RulesetSource) *RuleStore {
	return &RuleStore{
		source: source,
		cache:  make(map[string]cachedRuleset),
	}
}

// Resolve returns the tenant's effective ruleset. Tenants without a
// document get the built-in defaults; that is not an error.
func (s *RuleStore) Resolve(ctx context.Context, tenantID string) (model.RuleSet, error) {
	marker, exists, err := s.source.GetMarker(ctx, tenantID)
	if err != nil {
		return model.RuleSet{}, fmt.Errorf("resolve ruleset for %s: %w", tenantID, err)
	}

	if !exists {
		s.mu.Lock()
		delete(s.cache, tenantID)
		s.mu.Unlock()
		return model.DefaultRuleSet(), nil
	}

	s.mu.Lock()
	entry, ok := s.cache[tenantID]
	s.mu.Unlock()
	if ok && entry.marker.Equal(marker) {
		return entry.rules, nil
	}

	doc, docMarker, exists, err := s.source.Get(ctx, tenantID)
	if err != nil {
		return model.RuleSet{}, fmt.Errorf("resolve ruleset for %s: %w", tenantID, err)
	}
	if !exists {
		// Document vanished between the marker probe and the read.
		s.mu.Lock()
		delete(s.cache, tenantID)
		s.mu.Unlock()
		return model.DefaultRuleSet(), nil
	}

	var override model.RuleSetOverride
	if err := json.Unmarshal(doc, &override); err != nil {
		return model.RuleSet{}, fmt.Errorf("parse ruleset document for %s: %w", tenantID, err)
	}

	merged := override.ApplyTo(model.DefaultRuleSet())

	// Two concurrent reloads may race here; both reflect true document
	// content at read time, and the marker check bounds any staleness.
	s.mu.Lock()
	s.cache[tenantID] = cachedRuleset{rules: merged, marker: docMarker}
	s.mu.Unlock()

	return merged, nil
}
