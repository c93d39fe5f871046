package applicantstore

import (
	"context"
	"sync"

	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// MemStore keeps applications in process memory. It enforces the same
// folded-email uniqueness as the database backends and is used for local
// development and tests.
type MemStore struct {
	mu      sync.RWMutex
	apps    []models.Application
	byEmail map[string]int
}

func NewMemStore() *MemStore {
	return &MemStore{byEmail: map[string]int{}}
}

func (s *MemStore) Exists(ctx context.Context, email string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail[text.Fold(email)]
	return ok, nil
}

func (s *MemStore) Insert(ctx context.Context, app models.Application) (models.Application, error) {
	if err := ctx.Err(); err != nil {
		return models.Application{}, err
	}
	app = prepare(app, now())

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.byEmail[app.EmailCI]; dup {
		return models.Application{}, ErrDuplicateEmail
	}
	s.byEmail[app.EmailCI] = len(s.apps)
	s.apps = append(s.apps, app)
	return app, nil
}

func (s *MemStore) ListAll(ctx context.Context) ([]models.Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]models.Application, len(s.apps))
	for i, a := range s.apps {
		out[len(out)-1-i] = a
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}

// GetByID returns the application with id, or ErrNotFound.
func (s *MemStore) GetByID(ctx context.Context, id string) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Application{}, ErrNotFound
}

// Count returns the number of stored applications.
func (s *MemStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.apps)), nil
}

// Ping always succeeds unless ctx is done.
func (s *MemStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
