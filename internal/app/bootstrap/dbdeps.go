// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	applicantstore "github.com/dalemusser/hackreg/internal/app/store/applicants"
	"github.com/dalemusser/hackreg/internal/app/system/submission"
	"github.com/dalemusser/hackreg/internal/app/system/workers"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Only the clients for the configured backend are set.
type DBDeps struct {
	Backend string

	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	PGPool        *pgxpool.Pool

	// Store is the applicant record store for Backend.
	Store applicantstore.Gateway

	// Runtime is filled in by BuildHandler so Shutdown can drain it.
	Runtime *Runtime
}

// Runtime holds services created while building the handler that need
// teardown at shutdown.
type Runtime struct {
	Submissions *submission.Service
	Gauges      *workers.Gauges
}
