// internal/app/bootstrap/routes.go
package bootstrap

import (
	"context"
	"net/http"

	adminfeature "github.com/dalemusser/hackreg/internal/app/features/admin"
	applyfeature "github.com/dalemusser/hackreg/internal/app/features/apply"
	errorsfeature "github.com/dalemusser/hackreg/internal/app/features/errors"
	healthfeature "github.com/dalemusser/hackreg/internal/app/features/health"
	homefeature "github.com/dalemusser/hackreg/internal/app/features/home"
	"github.com/dalemusser/hackreg/internal/app/system/auth"
	"github.com/dalemusser/hackreg/internal/app/system/drafts"
	"github.com/dalemusser/hackreg/internal/app/system/httpmetrics"
	"github.com/dalemusser/hackreg/internal/app/system/inputval"
	"github.com/dalemusser/hackreg/internal/app/system/mailer"
	"github.com/dalemusser/hackreg/internal/app/system/notify"
	"github.com/dalemusser/hackreg/internal/app/system/ratelimit"
	"github.com/dalemusser/hackreg/internal/app/system/skills"
	"github.com/dalemusser/hackreg/internal/app/system/submission"
	"github.com/dalemusser/hackreg/internal/app/system/wizard"
	"github.com/dalemusser/hackreg/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It builds the application services
// (draft registry, submission pipeline, notification gateway), boots the
// template engine, and mounts the public wizard, the admin area and the
// operational endpoints.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"

	sess, err := auth.NewSessions(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session store init failed", zap.Error(err))
		return nil, err
	}

	capability, err := auth.NewCapability(appCfg.AdminKeyHash, appCfg.SessionKey, secure)
	if err != nil {
		logger.Error("admin capability init failed", zap.Error(err))
		return nil, err
	}

	sender, err := notify.NewSender(context.Background(), notify.SenderConfig{
		Transport: appCfg.NotifyTransport,
		SMTP: mailer.Config{
			Host:     appCfg.MailSMTPHost,
			Port:     appCfg.MailSMTPPort,
			User:     appCfg.MailSMTPUser,
			Pass:     appCfg.MailSMTPPass,
			From:     appCfg.MailFrom,
			FromName: appCfg.MailFromName,
		},
		SESRegion: appCfg.SESRegion,
	}, logger)
	if err != nil {
		logger.Error("notification sender init failed", zap.Error(err))
		return nil, err
	}
	notifier := notify.New(sender, appCfg.EventName, logger)

	svc := submission.NewService(deps.Store, notifier, appCfg.RedirectDelay, logger)
	if deps.Runtime != nil {
		deps.Runtime.Submissions = svc
	}

	table := wizard.NewTable(wizard.Config{
		DisposableDomains: inputval.NewDomainSet(appCfg.DisposableDomains...),
		TeamPreferences:   appCfg.TeamPreferences,
	})
	registry := drafts.New(table, svc, appCfg.DraftMaxSessions, appCfg.DraftTTL)
	catalog := skills.NewCatalog(appCfg.SkillCatalog)

	gauges := workers.NewGauges(deps.Store, registry, logger, workers.DefaultGaugeInterval)
	if deps.Runtime != nil {
		deps.Runtime.Gauges = gauges
	}

	var submitLimiter *ratelimit.Limiter
	if appCfg.SubmitRatePerMin > 0 {
		submitLimiter = ratelimit.PerMinute(appCfg.SubmitRatePerMin)
	}
	var loginLimiter *ratelimit.Limiter
	if appCfg.LoginRatePerMin > 0 {
		loginLimiter = ratelimit.PerMinute(appCfg.LoginRatePerMin)
	}

	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)
	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()
	r.Use(httpmetrics.Middleware)
	r.NotFound(errorsHandler.NotFound)

	// Operational endpoints sit outside CSRF protection; both are GET only.
	healthHandler := healthfeature.NewHandler(deps.Store, deps.Backend, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(csrfProtect(appCfg.CSRFKey, secure, errorsHandler))

		homeHandler := homefeature.NewHandler(logger)
		r.Mount("/", homefeature.Routes(homeHandler))

		applyHandler := applyfeature.NewHandler(registry, sess, catalog, submitLimiter, errLog, logger)
		r.Mount("/apply", applyfeature.Routes(applyHandler))

		adminHandler := adminfeature.NewHandler(deps.Store, capability, loginLimiter, appCfg.EventName, errLog, logger)
		r.Mount("/admin", adminfeature.Routes(adminHandler))

		r.Get("/unauthorized", errorsHandler.Unauthorized)
	})

	gauges.Start()
	return r, nil
}

// csrfProtect wraps gorilla/csrf. Outside production the app is served over
// plain HTTP, so requests are marked as such before the origin checks run.
func csrfProtect(key string, secure bool, errorsHandler *errorsfeature.Handler) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		csrfKey(key),
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(errorsHandler.Forbidden)),
	)
	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// csrfKey pads or trims key to the 32 bytes gorilla/csrf expects.
func csrfKey(key string) []byte {
	b := make([]byte, 32)
	copy(b, key)
	return b
}
