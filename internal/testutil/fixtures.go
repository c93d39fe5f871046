package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Applicant returns a complete, valid application for name and email. Tests
// adjust fields before inserting.
func Applicant(name, email string) models.Application {
	return models.Application{
		FullName:       name,
		Email:          email,
		University:     "State University",
		Track:          models.TrackBeginner,
		Skills:         []string{"Python"},
		Experience:     "Some projects.",
		Motivation:     "Learn robotics.",
		TeamPreference: models.TeamIndividual,
	}
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateApplicant inserts app directly, bypassing the store, with the given
// creation time. Returns the stored record.
func (f *Fixtures) CreateApplicant(ctx context.Context, app models.Application, createdAt time.Time) models.Application {
	f.t.Helper()

	app.ID = uuid.NewString()
	app.CreatedAt = createdAt.UTC().Truncate(time.Millisecond)
	app.EmailCI = text.Fold(app.Email)
	if app.Skills == nil {
		app.Skills = []string{}
	}

	if _, err := f.db.Collection("applicants").InsertOne(ctx, app); err != nil {
		f.t.Fatalf("failed to create test applicant: %v", err)
	}
	return app
}
