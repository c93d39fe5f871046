// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	applicantstore "github.com/dalemusser/hackreg/internal/app/store/applicants"
	"github.com/dalemusser/hackreg/internal/app/system/indexes"
	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the record store selected by store_backend.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	deps := DBDeps{Backend: appCfg.StoreBackend, Runtime: &Runtime{}}

	switch appCfg.StoreBackend {
	case BackendMongo:
		opts := options.Client().
			ApplyURI(appCfg.MongoURI).
			SetMaxPoolSize(appCfg.MongoMaxPoolSize).
			SetMinPoolSize(appCfg.MongoMinPoolSize)
		client, err := mongo.Connect(ctx, opts)
		if err != nil {
			return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.DefaultPing)
		defer cancel()
		if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
			_ = client.Disconnect(context.Background())
			return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
		}
		db := client.Database(appCfg.MongoDatabase)
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Store = applicantstore.New(db)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	case BackendPostgres:
		pool, err := applicantstore.ConnectPG(ctx, appCfg.PostgresDSN)
		if err != nil {
			return DBDeps{}, err
		}
		deps.PGPool = pool
		deps.Store = applicantstore.NewPGStore(pool)
		logger.Info("connected to Postgres")

	case BackendMemory:
		deps.Store = applicantstore.NewMemStore()
		logger.Info("using in-memory applicant store")

	default:
		return DBDeps{}, fmt.Errorf("unknown store_backend %q", appCfg.StoreBackend)
	}

	return deps, nil
}

// EnsureSchema sets up indexes or schema as needed.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	switch {
	case deps.MongoDatabase != nil:
		if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("ensure validators failed", zap.Error(err))
			return err
		}
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("ensure indexes failed", zap.Error(err))
			return err
		}
	case deps.PGPool != nil:
		if err := applicantstore.NewPGStore(deps.PGPool).EnsureSchema(ctx); err != nil {
			logger.Error("ensure postgres schema failed", zap.Error(err))
			return err
		}
	}
	return nil
}

