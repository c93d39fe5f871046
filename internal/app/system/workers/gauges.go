// internal/app/system/workers/gauges.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// DefaultGaugeInterval is how often Gauges refreshes its values.
const DefaultGaugeInterval = 30 * time.Second

var (
	applicationsStored = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hackreg_applications_stored",
		Help: "Applications in the record store at the last refresh.",
	})
	draftsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hackreg_drafts_active",
		Help: "In-progress applications held in memory at the last refresh.",
	})
)

// Counter reports how many applications are stored.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Lener reports how many drafts are live.
type Lener interface {
	Len() int
}

// Gauges is a background worker that refreshes the store and draft gauges.
type Gauges struct {
	store    Counter
	drafts   Lener
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewGauges creates the worker. interval <= 0 uses DefaultGaugeInterval.
func NewGauges(store Counter, drafts Lener, logger *zap.Logger, interval time.Duration) *Gauges {
	if interval <= 0 {
		interval = DefaultGaugeInterval
	}
	return &Gauges{
		store:    store,
		drafts:   drafts,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start refreshes once, then begins the background loop.
func (w *Gauges) Start() {
	w.Refresh()
	w.wg.Add(1)
	go w.run()
	w.log.Info("gauge worker started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call
// more than once.
func (w *Gauges) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("gauge worker stopped")
	})
}

func (w *Gauges) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Refresh()
		}
	}
}

// Refresh updates both gauges now.
func (w *Gauges) Refresh() {
	if w.drafts != nil {
		draftsActive.Set(float64(w.drafts.Len()))
	}
	if w.store == nil {
		return
	}

	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Query(), w.log, "count applications")
	defer cancel()

	n, err := w.store.Count(ctx)
	if err != nil {
		w.log.Warn("failed to count applications", zap.Error(err))
		return
	}
	applicationsStored.Set(float64(n))
}
