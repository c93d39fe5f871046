// Package timeouts provides centralized timeout values for gateway calls.
//
// Every call to the record store or the notification transport runs under one
// of these values via context.WithTimeout (or WithTimeout below, which also
// logs expiry). Values are set once at startup with Configure; until then the
// defaults apply.
//
//   - Ping: health checks and connectivity verification
//   - Store: duplicate check and insert during submission
//   - Query: admin listing and CSV export (reads every record)
//   - Notify: one confirmation email send
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultStore  = 5 * time.Second
	DefaultQuery  = 15 * time.Second
	DefaultNotify = 20 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	store  = DefaultStore
	query  = DefaultQuery
	notify = DefaultNotify
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Store returns the timeout for a single record store call.
func Store() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// Query returns the timeout for admin reads over the whole store.
func Query() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return query
}

// Notify returns the timeout for one notification send.
func Notify() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return notify
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Store  time.Duration
	Query  time.Duration
	Notify time.Duration
}

// Configure sets custom timeout values. Call during startup before handlers
// are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Store > 0 {
		store = cfg.Store
	}
	if cfg.Query > 0 {
		query = cfg.Query
	}
	if cfg.Notify > 0 {
		notify = cfg.Notify
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	store = DefaultStore
	query = DefaultQuery
	notify = DefaultNotify
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Store: store, Query: query, Notify: notify}
}

// WithTimeout creates a context with timeout and returns a cancel function that
// logs a warning if the context expired.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Store(), p.log, "applicant insert")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
