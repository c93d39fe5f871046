// internal/app/store/applicants/applicantstore.go
package applicantstore

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dalemusser/hackreg/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName is the Mongo collection (and Postgres table) holding applications.
const CollectionName = "applicants"

// ErrDuplicateEmail is returned by Insert when an application with the same
// (case-folded) email already exists.
var ErrDuplicateEmail = errors.New("an application with this email already exists")

// ErrNotFound is returned by GetByID for unknown IDs.
var ErrNotFound = errors.New("application not found")

// Gateway is implemented by every backend: Store (Mongo), PGStore and MemStore.
type Gateway interface {
	Ping(ctx context.Context) error
	Exists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, app models.Application) (models.Application, error)
	ListAll(ctx context.Context) ([]models.Application, error)
	GetByID(ctx context.Context, id string) (models.Application, error)
	Count(ctx context.Context) (int64, error)
}

var (
	_ Gateway = (*Store)(nil)
	_ Gateway = (*PGStore)(nil)
	_ Gateway = (*MemStore)(nil)
)

// Store is the Mongo-backed applicant store.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Ping checks the Mongo deployment is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.c.Database().Client().Ping(ctx, readpref.Primary())
}

// Exists reports whether an application with email has been stored.
// Not-found is a normal false result.
func (s *Store) Exists(ctx context.Context, email string) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert assigns ID and CreatedAt and stores app. The unique index on
// email_ci turns a concurrent second insert into ErrDuplicateEmail.
func (s *Store) Insert(ctx context.Context, app models.Application) (models.Application, error) {
	app = prepare(app, now())
	if _, err := s.c.InsertOne(ctx, app); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, ErrDuplicateEmail
		}
		return models.Application{}, err
	}
	return app, nil
}

// ListAll returns every application, newest first.
func (s *Store) ListAll(ctx context.Context) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var apps []models.Application
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetByID loads one application.
func (s *Store) GetByID(ctx context.Context, id string) (models.Application, error) {
	var app models.Application
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return models.Application{}, ErrNotFound
	}
	if err != nil {
		return models.Application{}, err
	}
	return app, nil
}

// Count returns the number of stored applications.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// prepare fills the store-assigned and derived fields shared by every backend.
func prepare(app models.Application, now time.Time) models.Application {
	app.ID = uuid.NewString()
	app.CreatedAt = now
	app.EmailCI = text.Fold(app.Email)
	app.Skills = dedupeSorted(app.Skills)
	app.TeamMembers = app.ListedTeamMembers()
	return app
}

func dedupeSorted(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := append([]string(nil), in...)
	sort.Strings(out)
	n := 0
	for i, s := range out {
		if s == "" || (i > 0 && s == out[i-1]) {
			continue
		}
		out[n] = s
		n++
	}
	return out[:n]
}

// sortNewestFirst orders apps by CreatedAt descending. Equal timestamps keep
// their relative order.
func sortNewestFirst(apps []models.Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}

// now is millisecond-truncated so the returned record matches what every
// backend reads back.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
