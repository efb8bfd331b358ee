// Package cache memoizes task selections by classification fingerprint.
package cache

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"verigraph/internal/classification"
	"verigraph/internal/selection"
)

// DefaultSize is the number of selections kept when no size is configured.
const DefaultSize = 1024

// Observer is notified of cache lookups.
type Observer interface {
	ObserveCacheHit()
	ObserveCacheMiss()
}

type nopObserver struct{}

func (nopObserver) ObserveCacheHit()  {}
func (nopObserver) ObserveCacheMiss() {}

// Cache wraps an engine and memoizes SelectAndExplain.
//
// Selection is a pure function of the engine and the classification, so the
// classification fingerprint is a complete key. Failures are never cached and
// every result handed out is a deep copy.
type Cache struct {
	engine   *selection.Engine
	entries  *lru.Cache[string, selection.Selection]
	observer Observer
}

// New creates a cache of the given size over eng. size <= 0 means DefaultSize.
func New(eng *selection.Engine, size int, obs Observer) (*Cache, error) {
	if eng == nil {
		return nil, fmt.Errorf("cache: engine is required")
	}
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[string, selection.Selection](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	if obs == nil {
		obs = nopObserver{}
	}
	return &Cache{engine: eng, entries: entries, observer: obs}, nil
}

// SelectAndExplain returns the cached selection for c or computes it.
//
// A hit is reported to the engine observer like a computed selection, with
// the lookup time as its duration, so selection metrics count every answer.
func (c *Cache) SelectAndExplain(cl classification.Classification) (selection.Selection, error) {
	start := time.Now()
	key := cl.Fingerprint()
	if sel, ok := c.entries.Get(key); ok {
		c.observer.ObserveCacheHit()
		out := sel.Clone()
		out.Stats.Duration = time.Since(start)
		c.engine.Observer().ObserveSelection(out.Stats)
		return out, nil
	}
	c.observer.ObserveCacheMiss()

	sel, err := c.engine.SelectAndExplain(cl)
	if err != nil {
		return selection.Selection{}, err
	}
	c.entries.Add(key, sel.Clone())
	return sel, nil
}

// Select returns the ordered ids for cl.
func (c *Cache) Select(cl classification.Classification) ([]string, error) {
	sel, err := c.SelectAndExplain(cl)
	if err != nil {
		return nil, err
	}
	return sel.IDs, nil
}

// Len reports the number of cached selections.
func (c *Cache) Len() int { return c.entries.Len() }

// Purge drops every cached selection.
func (c *Cache) Purge() { c.entries.Purge() }
