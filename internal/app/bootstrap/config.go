// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/hackreg/internal/app/system/drafts"
	"github.com/dalemusser/hackreg/internal/app/system/inputval"
	"github.com/dalemusser/hackreg/internal/app/system/notify"
	"github.com/dalemusser/hackreg/internal/app/system/skills"
	"github.com/dalemusser/hackreg/internal/app/system/submission"
	"github.com/dalemusser/hackreg/internal/app/system/timeouts"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// Store backends.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// defaultSessionKey is the development session key. Production refuses it
// when admin access is enabled, since it also signs the admin cookie.
const defaultSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// minProdKeyLen is the shortest session key accepted in production with
// admin access enabled.
const minProdKeyLen = 32

// appConfigKeys defines the configuration keys for hackreg.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: HACKREG_MONGO_URI, HACKREG_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "store_backend", Default: BackendMongo, Desc: "Record store: 'mongo', 'postgres' or 'memory' (dev only)"},
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "hackreg", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 5, Desc: "MongoDB min connection pool size (default: 5)"},
	{Name: "postgres_dsn", Default: "", Desc: "Postgres DSN (required when store_backend is 'postgres')"},

	{Name: "session_key", Default: defaultSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "hackreg-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "csrf_key", Default: "dev-only-csrf-key-0123456789ABCDEF", Desc: "CSRF token key (32 bytes)"},

	{Name: "admin_key_hash", Default: "", Desc: "bcrypt hash of the admin key (blank disables /admin)"},

	// Notification
	{Name: "notify_transport", Default: notify.TransportLog, Desc: "Confirmation email transport: 'smtp', 'ses' or 'log'"},
	{Name: "mail_smtp_host", Default: "localhost", Desc: "SMTP server host"},
	{Name: "mail_smtp_port", Default: 1025, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@hackathon.local", Desc: "From email address"},
	{Name: "mail_from_name", Default: "Hackathon Team", Desc: "From display name"},
	{Name: "ses_region", Default: "us-east-1", Desc: "AWS region for the SES transport"},

	// Event and form
	{Name: "event_name", Default: "Hackathon", Desc: "Event name used in pages and emails"},
	{Name: "disposable_domains", Default: strings.Join(inputval.DefaultDisposableDomains, ","), Desc: "Comma-separated email domains rejected as disposable"},
	{Name: "team_preferences", Default: strings.Join(models.DefaultTeamPreferences, ","), Desc: "Comma-separated accepted team preference values"},
	{Name: "skill_catalog", Default: strings.Join(skills.DefaultCatalog, ","), Desc: "Comma-separated skills offered on the form"},

	// Drafts and submission
	{Name: "draft_ttl", Default: drafts.DefaultTTL.String(), Desc: "Idle time after which an in-progress application is dropped"},
	{Name: "draft_max_sessions", Default: drafts.DefaultMaxSessions, Desc: "Maximum in-progress applications held in memory"},
	{Name: "redirect_delay", Default: submission.DefaultRedirectAfter.String(), Desc: "Delay before the success page returns to the landing page"},
	{Name: "submit_rate_per_min", Default: 5, Desc: "Submissions allowed per client IP per minute (0 disables)"},
	{Name: "login_rate_per_min", Default: 10, Desc: "Admin login attempts allowed per client IP per minute"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Read client IPs from X-Forwarded-For / X-Real-IP (only behind a trusted proxy)"},

	// Gateway timeouts
	{Name: "timeout_store", Default: timeouts.DefaultStore.String(), Desc: "Timeout for one record store call"},
	{Name: "timeout_notify", Default: timeouts.DefaultNotify.String(), Desc: "Timeout for one confirmation email send"},
	{Name: "timeout_query", Default: timeouts.DefaultQuery.String(), Desc: "Timeout for admin reads"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, HACKREG_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "HACKREG", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StoreBackend:     strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		PostgresDSN:      appValues.String("postgres_dsn"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		CSRFKey:       appValues.String("csrf_key"),

		AdminKeyHash: appValues.String("admin_key_hash"),

		NotifyTransport: strings.ToLower(strings.TrimSpace(appValues.String("notify_transport"))),
		MailSMTPHost:    appValues.String("mail_smtp_host"),
		MailSMTPPort:    appValues.Int("mail_smtp_port"),
		MailSMTPUser:    appValues.String("mail_smtp_user"),
		MailSMTPPass:    appValues.String("mail_smtp_pass"),
		MailFrom:        appValues.String("mail_from"),
		MailFromName:    appValues.String("mail_from_name"),
		SESRegion:       appValues.String("ses_region"),

		EventName:         appValues.String("event_name"),
		DisposableDomains: splitList(appValues.String("disposable_domains")),
		TeamPreferences:   splitList(appValues.String("team_preferences")),
		SkillCatalog:      splitList(appValues.String("skill_catalog")),

		DraftTTL:         appValues.Duration("draft_ttl", drafts.DefaultTTL),
		DraftMaxSessions: appValues.Int("draft_max_sessions"),
		RedirectDelay:    appValues.Duration("redirect_delay", submission.DefaultRedirectAfter),
		SubmitRatePerMin: appValues.Int("submit_rate_per_min"),
		LoginRatePerMin:  appValues.Int("login_rate_per_min"),

		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),

		TimeoutStore:  appValues.Duration("timeout_store", timeouts.DefaultStore),
		TimeoutNotify: appValues.Duration("timeout_notify", timeouts.DefaultNotify),
		TimeoutQuery:  appValues.Duration("timeout_query", timeouts.DefaultQuery),
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated config value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	return validateAppConfig(coreCfg.Env, appCfg, logger)
}

func validateAppConfig(env string, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	case BackendPostgres:
		if appCfg.PostgresDSN == "" {
			return fmt.Errorf("store_backend 'postgres' requires postgres_dsn")
		}
	case BackendMemory:
		logger.Warn("using in-memory store; applications are lost on restart")
	default:
		return fmt.Errorf("unknown store_backend %q (want mongo, postgres or memory)", appCfg.StoreBackend)
	}

	if !isKnownTransport(appCfg.NotifyTransport) {
		return fmt.Errorf("unknown notify_transport %q (want %s)", appCfg.NotifyTransport, strings.Join(notify.Transports, ", "))
	}
	if appCfg.NotifyTransport == notify.TransportSES && appCfg.SESRegion == "" {
		return fmt.Errorf("notify_transport 'ses' requires ses_region")
	}

	if len(appCfg.TeamPreferences) == 0 {
		return fmt.Errorf("team_preferences must list at least one value")
	}
	hasTeam := false
	for _, p := range appCfg.TeamPreferences {
		if p == models.TeamHaveTeam {
			hasTeam = true
		}
	}
	if !hasTeam {
		logger.Warn("team_preferences omits have_team; team member emails will never be collected")
	}

	if len(appCfg.CSRFKey) < 32 {
		logger.Warn("csrf key is short; 32+ chars recommended", zap.Int("length", len(appCfg.CSRFKey)))
	}
	if appCfg.AdminKeyHash == "" {
		logger.Warn("admin_key_hash not set; admin dashboard is disabled")
	} else if env == "prod" && (appCfg.SessionKey == defaultSessionKey || len(appCfg.SessionKey) < minProdKeyLen) {
		return fmt.Errorf("session_key must be set to a private value of at least %d bytes when admin_key_hash is set in prod", minProdKeyLen)
	}
	if appCfg.DraftTTL < time.Minute {
		return fmt.Errorf("draft_ttl must be at least 1m, got %s", appCfg.DraftTTL)
	}
	return nil
}

func isKnownTransport(t string) bool {
	for _, known := range notify.Transports {
		if t == known {
			return true
		}
	}
	return false
}
