package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered chart markup so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is an in-memory TTL cache for rendered charts.
type ChartCache struct {
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	entries map[string]cachedChart
}

type cachedChart struct {
	markup  string
	expires time.Time
}

// NewChartCache builds a cache with the provided TTL. A zero TTL disables caching.
func NewChartCache(ttl time.Duration) *ChartCache {
	return &ChartCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedChart),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if markup, ok := c.get(key); ok {
		return markup, nil
	}
	markup, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, markup)
	return markup, nil
}

// Purge drops every entry.
func (c *ChartCache) Purge() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]cachedChart)
	c.mu.Unlock()
}

func (c *ChartCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.markup, true
}

func (c *ChartCache) set(key, markup string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedChart{
		markup:  markup,
		expires: c.now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// renderKey returns a deterministic cache key for a backend and chart request.
func renderKey(backend string, req ChartRequest) string {
	b, err := json.Marshal(struct {
		Backend   string  `json:"b"`
		Chart     string  `json:"c"`
		TimeFrame int     `json:"t"`
		Width     float64 `json:"w"`
		Height    float64 `json:"h"`
		Locale    string  `json:"l"`
	}{backend, normalizeChartID(req.ChartID), req.TimeFrame.Index(), req.Size.Width, req.Size.Height, normalizeLocale(req.Locale)})
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
