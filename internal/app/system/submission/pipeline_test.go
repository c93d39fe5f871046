package submission

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	applicantstore "github.com/dalemusser/hackreg/internal/app/store/applicants"
	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/app/system/wizard"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// filledWizard returns a wizard on the review step holding a valid draft.
func filledWizard(t *testing.T, email string) *wizard.Wizard {
	t.Helper()
	w := wizard.New(wizard.NewTable(wizard.DefaultConfig()))
	set := func(f, v string) { require.NoError(t, w.Set(f, v)) }

	set(wizard.FieldFullName, "Ada Lovelace")
	set(wizard.FieldEmail, email)
	require.True(t, w.Next())
	set(wizard.FieldExperience, "Engines.")
	set(wizard.FieldMotivation, "Robots.")
	set(wizard.FieldTrack, models.TrackBeginner)
	w.SetSkills([]string{"Go"})
	require.True(t, w.Next())
	set(wizard.FieldTeamPreference, models.TeamIndividual)
	require.True(t, w.Next())
	require.True(t, w.ReadyToSubmit())
	return w
}

// spyStore counts calls and can inject failures or block.
type spyStore struct {
	inner     RecordStore
	exists    atomic.Int32
	inserts   atomic.Int32
	existsErr error
	insertErr error
	block     chan struct{} // when set, Exists waits on it (or ctx)
	entered   chan struct{}
}

func (s *spyStore) Exists(ctx context.Context, email string) (bool, error) {
	s.exists.Add(1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.inner.Exists(ctx, email)
}

func (s *spyStore) Insert(ctx context.Context, app models.Application) (models.Application, error) {
	s.inserts.Add(1)
	if s.insertErr != nil {
		return models.Application{}, s.insertErr
	}
	return s.inner.Insert(ctx, app)
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.Application
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, app models.Application) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, app)
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

func waitNotifies(t *testing.T, s *Service) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestSubmit_Success(t *testing.T) {
	mem := applicantstore.NewMemStore()
	notifier := &fakeNotifier{}
	svc := NewService(mem, notifier, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	conf, err := svc.NewPipeline().Submit(context.Background(), w)
	require.NoError(t, err)

	assert.NotEmpty(t, conf.ID)
	assert.Equal(t, "ada@example.edu", conf.Email)
	assert.False(t, conf.SubmittedAt.IsZero())
	assert.Equal(t, DefaultRedirectAfter, conf.RedirectAfter)

	assert.Equal(t, 1, w.Step(), "wizard reset to step 1")
	assert.Equal(t, wizard.Draft{}, w.Draft(), "draft cleared")

	apps, err := mem.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, []string{"Go"}, apps[0].Skills)

	waitNotifies(t, svc)
	assert.Equal(t, 1, notifier.count())
}

// Two sessions submit the same email concurrently: exactly one record is
// stored and the loser sees ErrDuplicateEmail with its draft intact.
func TestSubmit_ConcurrentSameEmail(t *testing.T) {
	mem := applicantstore.NewMemStore()
	svc := NewService(mem, nil, 0, zap.NewNop())

	w1 := filledWizard(t, "same@example.edu")
	w2 := filledWizard(t, "same@example.edu")
	p1, p2 := svc.NewPipeline(), svc.NewPipeline()

	var wg sync.WaitGroup
	var err1, err2 error
	wg.Add(2)
	go func() { defer wg.Done(); _, err1 = p1.Submit(context.Background(), w1) }()
	go func() { defer wg.Done(); _, err2 = p2.Submit(context.Background(), w2) }()
	wg.Wait()

	n, err := mem.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	if err1 == nil {
		assert.ErrorIs(t, err2, ErrDuplicateEmail)
		assert.Equal(t, "same@example.edu", w2.Draft().Email, "loser keeps its draft")
	} else {
		assert.ErrorIs(t, err1, ErrDuplicateEmail)
		assert.NoError(t, err2)
		assert.Equal(t, "same@example.edu", w1.Draft().Email, "loser keeps its draft")
	}
}

// Exists passes but the unique constraint fires on insert.
func TestSubmit_InsertRaceMapsToDuplicate(t *testing.T) {
	spy := &spyStore{inner: applicantstore.NewMemStore(), insertErr: applicantstore.ErrDuplicateEmail}
	svc := NewService(spy, nil, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	_, err := svc.NewPipeline().Submit(context.Background(), w)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, wizard.FinalStep, w.Step())
}

func TestSubmit_ExistingEmail(t *testing.T) {
	mem := applicantstore.NewMemStore()
	_, err := mem.Insert(context.Background(), models.Application{Email: "ADA@example.edu"})
	require.NoError(t, err)
	spy := &spyStore{inner: mem}
	svc := NewService(spy, nil, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	_, err = svc.NewPipeline().Submit(context.Background(), w)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.EqualValues(t, 0, spy.inserts.Load(), "no insert after a found duplicate")
	assert.Equal(t, "ada@example.edu", w.Draft().Email)
}

// A disposable domain fails validation before any store call.
func TestSubmit_DisposableEmailNoStoreCall(t *testing.T) {
	spy := &spyStore{inner: applicantstore.NewMemStore()}
	svc := NewService(spy, nil, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	require.NoError(t, w.Set(wizard.FieldEmail, "ada@mailinator.com"))

	_, err := svc.NewPipeline().Submit(context.Background(), w)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Please use a permanent email address", verr.Fields[wizard.FieldEmail])
	assert.EqualValues(t, 0, spy.exists.Load())
	assert.EqualValues(t, 0, spy.inserts.Load())
	assert.Equal(t, 1, w.Step(), "wizard moved to the failing step")
}

func TestSubmit_NotOnFinalStep(t *testing.T) {
	spy := &spyStore{inner: applicantstore.NewMemStore()}
	svc := NewService(spy, nil, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	w.Previous()

	_, err := svc.NewPipeline().Submit(context.Background(), w)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, verr.Fields)
	assert.EqualValues(t, 0, spy.exists.Load())
}

// A failed notification is logged but the submission still succeeds.
func TestSubmit_NotifyFailureIsLoggedOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	notifier := &fakeNotifier{err: errors.New("smtp: connection refused")}
	svc := NewService(applicantstore.NewMemStore(), notifier, 0, zap.New(core))

	w := filledWizard(t, "ada@example.edu")
	conf, err := svc.NewPipeline().Submit(context.Background(), w)
	require.NoError(t, err)
	assert.NotEmpty(t, conf.ID)

	waitNotifies(t, svc)
	failed := logs.FilterMessage("confirmation email failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, conf.ID, failed[0].ContextMap()["id"])
}

func TestSubmit_StoreUnavailable(t *testing.T) {
	spy := &spyStore{inner: applicantstore.NewMemStore(), existsErr: errors.New("connection reset")}
	svc := NewService(spy, nil, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	_, err := svc.NewPipeline().Submit(context.Background(), w)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.EqualValues(t, 0, spy.inserts.Load())
	assert.Equal(t, wizard.FinalStep, w.Step())
	assert.Equal(t, "ada@example.edu", w.Draft().Email)
}

func TestSubmit_WriteFailed(t *testing.T) {
	cause := errors.New("disk full")
	spy := &spyStore{inner: applicantstore.NewMemStore(), insertErr: cause}
	svc := NewService(spy, nil, 0, zap.NewNop())

	w := filledWizard(t, "ada@example.edu")
	_, err := svc.NewPipeline().Submit(context.Background(), w)
	assert.ErrorIs(t, err, ErrStoreWriteFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "ada@example.edu", w.Draft().Email)
}

func TestSubmit_StoreTimeout(t *testing.T) {
	timeouts.Configure(timeouts.Config{Store: 30 * time.Millisecond})
	defer timeouts.Reset()

	spy := &spyStore{inner: applicantstore.NewMemStore(), block: make(chan struct{})}
	svc := NewService(spy, nil, 0, zap.NewNop())

	_, err := svc.NewPipeline().Submit(context.Background(), filledWizard(t, "ada@example.edu"))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSubmit_CallerCancelDoesNotAbortStore(t *testing.T) {
	mem := applicantstore.NewMemStore()
	svc := NewService(mem, nil, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.NewPipeline().Submit(ctx, filledWizard(t, "ada@example.edu"))
	require.NoError(t, err)

	ok, err := mem.Exists(context.Background(), "ada@example.edu")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubmit_InFlightGuard(t *testing.T) {
	spy := &spyStore{
		inner:   applicantstore.NewMemStore(),
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	svc := NewService(spy, nil, 0, zap.NewNop())
	p := svc.NewPipeline()
	w := filledWizard(t, "ada@example.edu")

	done := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), w)
		done <- err
	}()
	<-spy.entered

	_, err := p.Submit(context.Background(), w)
	assert.ErrorIs(t, err, ErrSubmitInProgress)
	assert.EqualValues(t, 1, spy.exists.Load(), "second submit must not touch the store")

	close(spy.block)
	require.NoError(t, <-done)

	// Guard released after completion.
	_, err = p.Submit(context.Background(), w)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr, "reset wizard is no longer submittable")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "An application with this email already exists.", UserMessage(ErrDuplicateEmail))
	assert.Contains(t, UserMessage(&ValidationError{}), "fix the highlighted fields")
	assert.Contains(t, UserMessage(ErrSubmitInProgress), "already being submitted")
	assert.Contains(t, UserMessage(ErrStoreUnavailable), "try again")
	assert.Equal(t, "Error submitting application. Please try again.", UserMessage(ErrStoreWriteFailed))
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"email": "x", "full_name": "y"}}
	assert.Equal(t, "application has invalid fields: email, full_name", err.Error())
}
