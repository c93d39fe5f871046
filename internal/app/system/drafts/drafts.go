// Package drafts keeps each visitor's in-progress application in memory.
//
// A draft lives only as long as its entry in a bounded, expiring LRU keyed by
// the session's draft key. Nothing is persisted: a restart or an idle period
// longer than the TTL starts the visitor over at step 1.
package drafts

import (
	"sync"
	"time"

	"github.com/dalemusser/hackreg/internal/app/system/submission"
	"github.com/dalemusser/hackreg/internal/app/system/wizard"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	DefaultTTL         = 2 * time.Hour
	DefaultMaxSessions = 10000
)

var draftsEvicted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "hackreg_drafts_evicted_total",
	Help: "Drafts dropped from memory by expiry or capacity.",
})

// Entry is one visitor's wizard and submission pipeline.
type Entry struct {
	Wizard   *wizard.Wizard
	Pipeline *submission.Pipeline
}

// Registry maps draft keys to entries.
type Registry struct {
	mu    sync.Mutex
	cache *expirable.LRU[string, *Entry]
	table *wizard.Table
	svc   *submission.Service
}

// New creates a registry holding up to maxSessions drafts, each expiring ttl
// after it was last created or touched.
func New(table *wizard.Table, svc *submission.Service, maxSessions int, ttl time.Duration) *Registry {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	onEvict := func(string, *Entry) { draftsEvicted.Inc() }
	return &Registry{
		cache: expirable.NewLRU[string, *Entry](maxSessions, onEvict, ttl),
		table: table,
		svc:   svc,
	}
}

// Get returns the entry for key, creating a fresh one at step 1 if none exists.
// Re-adding the entry refreshes its expiry.
func (r *Registry) Get(key string) *Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.cache.Get(key)
	if !ok {
		e = &Entry{Wizard: wizard.New(r.table), Pipeline: r.svc.NewPipeline()}
	}
	r.cache.Add(key, e)
	return e
}

// Peek returns the entry for key without creating one.
func (r *Registry) Peek(key string) (*Entry, bool) {
	return r.cache.Peek(key)
}

// Forget drops the entry for key.
func (r *Registry) Forget(key string) {
	r.cache.Remove(key)
}

// Len is the number of live drafts.
func (r *Registry) Len() int {
	return r.cache.Len()
}
