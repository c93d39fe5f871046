// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/hackreg/internal/app/resources"
	"github.com/dalemusser/hackreg/internal/app/system/ratelimit"
	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared templates and applies app-wide settings that handlers read.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.SetSiteName(appCfg.EventName)
	ratelimit.SetTrustProxyHeaders(appCfg.TrustProxyHeaders)

	timeouts.Configure(timeouts.Config{
		Store:  appCfg.TimeoutStore,
		Query:  appCfg.TimeoutQuery,
		Notify: appCfg.TimeoutNotify,
	})

	if deps.Store != nil {
		ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Store(), logger, "count applications")
		defer cancel()
		n, err := deps.Store.Count(ctx)
		if err != nil {
			logger.Warn("could not count stored applications", zap.Error(err))
		} else {
			logger.Info("applicant store ready", zap.String("backend", deps.Backend), zap.Int64("applications", n))
		}
	}
	return nil
}
