// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
type AppConfig struct {
	// Record store: "mongo", "postgres" or "memory"
	StoreBackend string

	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Postgres connection configuration (StoreBackend "postgres")
	PostgresDSN string

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: hackreg-session)
	SessionDomain string // Cookie domain (blank means current host)
	CSRFKey       string // 32-byte key for CSRF tokens

	// Admin access
	AdminKeyHash string // bcrypt hash of the admin key; blank disables /admin

	// Notification
	NotifyTransport string // "smtp", "ses" or "log"
	MailSMTPHost    string // SMTP server host (e.g., localhost for Mailpit)
	MailSMTPPort    int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES SMTP)
	MailSMTPUser    string // SMTP username (empty for Mailpit)
	MailSMTPPass    string // SMTP password
	MailFrom        string // From email address
	MailFromName    string // From display name
	SESRegion       string // AWS region for the SES API transport

	// Event and form
	EventName         string
	DisposableDomains []string
	TeamPreferences   []string
	SkillCatalog      []string

	// Drafts
	DraftTTL         time.Duration
	DraftMaxSessions int

	// Submission
	RedirectDelay    time.Duration // success page → landing
	SubmitRatePerMin int
	LoginRatePerMin  int

	// TrustProxyHeaders makes rate limits key on X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool

	// Gateway timeouts
	TimeoutStore  time.Duration
	TimeoutNotify time.Duration
	TimeoutQuery  time.Duration
}
