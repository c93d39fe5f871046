// Package submission runs an applicant's finished draft through the intake
// pipeline: duplicate check, insert, confirmation email, reset.
//
// Side effects are strictly ordered. The email is sent on a detached
// goroutine with its own timeout and never affects the result. Store calls
// run on a context detached from the caller's cancellation, so a client
// that navigates away cannot abort an insert halfway.
package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var submissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "hackreg_submissions_total",
	Help: "Application submissions, by result.",
}, []string{"result"})

// RecordStore is the part of the applicant store the pipeline uses.
type RecordStore interface {
	Exists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, app models.Application) (models.Application, error)
}

// Notifier sends the confirmation for a stored application.
type Notifier interface {
	Notify(ctx context.Context, app models.Application) error
}

// Draft is the wizard surface the pipeline needs. *wizard.Wizard implements it.
type Draft interface {
	// Snapshot returns the record and its readiness read under one lock.
	Snapshot() (models.Application, bool)
	ValidateAll() map[string]string
	Reset()
}

// Confirmation is returned by a successful Submit.
type Confirmation struct {
	ID            string
	Email         string
	FullName      string
	SubmittedAt   time.Time
	RedirectAfter time.Duration
}

// DefaultRedirectAfter is how long the success view waits before returning
// to the landing page.
const DefaultRedirectAfter = 2 * time.Second

// Service holds the shared collaborators. Each form session gets its own
// Pipeline from NewPipeline.
type Service struct {
	store         RecordStore
	notifier      Notifier
	redirectAfter time.Duration
	log           *zap.Logger

	notifies sync.WaitGroup
}

// NewService wires the pipeline collaborators. notifier may be nil.
func NewService(store RecordStore, notifier Notifier, redirectAfter time.Duration, logger *zap.Logger) *Service {
	if redirectAfter <= 0 {
		redirectAfter = DefaultRedirectAfter
	}
	return &Service{store: store, notifier: notifier, redirectAfter: redirectAfter, log: logger}
}

// NewPipeline returns a pipeline for one form session.
func (s *Service) NewPipeline() *Pipeline {
	return &Pipeline{svc: s}
}

// Wait blocks until every detached notification has finished or ctx ends.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.notifies.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Pipeline submits one session's draft. At most one Submit runs at a time.
type Pipeline struct {
	svc      *Service
	inFlight atomic.Bool
}

// Submit validates d, stores it and schedules the confirmation email. On
// success d is reset to an empty draft on step 1. On any error d is left
// untouched (except that validation failures refresh its field errors).
func (p *Pipeline) Submit(ctx context.Context, d Draft) (Confirmation, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		submissionsTotal.WithLabelValues("in_progress").Inc()
		return Confirmation{}, ErrSubmitInProgress
	}
	defer p.inFlight.Store(false)

	s := p.svc
	app, ready := d.Snapshot()
	if !ready {
		submissionsTotal.WithLabelValues("invalid").Inc()
		return Confirmation{}, &ValidationError{Fields: d.ValidateAll()}
	}
	storeCtx := context.WithoutCancel(ctx)

	exists, err := s.exists(storeCtx, app.Email)
	if err != nil {
		submissionsTotal.WithLabelValues("store_unavailable").Inc()
		s.log.Error("duplicate check failed", zap.Error(err))
		return Confirmation{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if exists {
		submissionsTotal.WithLabelValues("duplicate").Inc()
		return Confirmation{}, ErrDuplicateEmail
	}

	saved, err := s.insert(storeCtx, app)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			submissionsTotal.WithLabelValues("duplicate").Inc()
			return Confirmation{}, ErrDuplicateEmail
		case errors.Is(err, context.DeadlineExceeded):
			submissionsTotal.WithLabelValues("store_unavailable").Inc()
			s.log.Error("applicant insert timed out", zap.Error(err))
			return Confirmation{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		default:
			submissionsTotal.WithLabelValues("write_failed").Inc()
			s.log.Error("applicant insert failed", zap.Error(err))
			return Confirmation{}, fmt.Errorf("%w: %w", ErrStoreWriteFailed, err)
		}
	}

	s.notifyDetached(saved)
	d.Reset()
	submissionsTotal.WithLabelValues("ok").Inc()
	s.log.Info("application submitted",
		zap.String("id", saved.ID),
		zap.String("track", saved.Track),
		zap.String("team_preference", saved.TeamPreference))

	return Confirmation{
		ID:            saved.ID,
		Email:         saved.Email,
		FullName:      saved.FullName,
		SubmittedAt:   saved.CreatedAt,
		RedirectAfter: s.redirectAfter,
	}, nil
}

func (s *Service) exists(ctx context.Context, email string) (bool, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Store(), s.log, "applicant exists")
	defer cancel()
	return s.store.Exists(ctx, email)
}

func (s *Service) insert(ctx context.Context, app models.Application) (models.Application, error) {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Store(), s.log, "applicant insert")
	defer cancel()
	return s.store.Insert(ctx, app)
}

func (s *Service) notifyDetached(app models.Application) {
	if s.notifier == nil {
		return
	}
	s.notifies.Add(1)
	go func() {
		defer s.notifies.Done()
		ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Notify(), s.log, "confirmation email")
		defer cancel()

		if err := s.notifier.Notify(ctx, app); err != nil {
			s.log.Warn("confirmation email failed",
				zap.String("id", app.ID),
				zap.Error(err))
			return
		}
		s.log.Info("confirmation email sent", zap.String("id", app.ID))
	}()
}
