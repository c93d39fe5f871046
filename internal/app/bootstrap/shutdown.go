// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown waits for in-flight submissions, then tears down DB connections.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Runtime != nil && deps.Runtime.Gauges != nil {
		deps.Runtime.Gauges.Stop()
	}
	if deps.Runtime != nil && deps.Runtime.Submissions != nil {
		if err := deps.Runtime.Submissions.Wait(ctx); err != nil {
			logger.Warn("submissions still in flight at shutdown", zap.Error(err))
		}
	}
	if deps.PGPool != nil {
		logger.Info("closing Postgres pool")
		deps.PGPool.Close()
	}
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			return err
		}
	}
	return nil
}
