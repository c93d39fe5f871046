package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/hackreg/internal/app/system/notify"
	"github.com/dalemusser/hackreg/internal/app/system/submission"
	"github.com/dalemusser/hackreg/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		StoreBackend:    BackendMemory,
		SessionKey:      "a-private-session-key-of-32-bytes+",
		MongoURI:        "mongodb://localhost:27017",
		CSRFKey:         "0123456789abcdef0123456789abcdef",
		AdminKeyHash:    "$2a$10$abcdefghijklmnopqrstuuabcdefghijklmnopqrstuvwxyzABCDE",
		NotifyTransport: notify.TransportLog,
		TeamPreferences: models.DefaultTeamPreferences,
		DraftTTL:        2 * time.Hour,
	}
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.com", "b.com"}, splitList(" a.com, ,b.com ,"))
	assert.Nil(t, splitList(""))
}

func TestValidateAppConfig_Accepts(t *testing.T) {
	require.NoError(t, validateAppConfig("dev", validConfig(), testLogger()))

	cfg := validConfig()
	cfg.StoreBackend = BackendMongo
	require.NoError(t, validateAppConfig("dev", cfg, testLogger()))

	cfg = validConfig()
	cfg.StoreBackend = BackendPostgres
	cfg.PostgresDSN = "postgres://localhost/hackreg"
	require.NoError(t, validateAppConfig("dev", cfg, testLogger()))

	require.NoError(t, validateAppConfig("prod", validConfig(), testLogger()))

	cfg = validConfig()
	cfg.SessionKey = defaultSessionKey
	require.NoError(t, validateAppConfig("dev", cfg, testLogger()), "default key is fine outside prod")

	cfg.AdminKeyHash = ""
	require.NoError(t, validateAppConfig("prod", cfg, testLogger()), "default key is fine in prod with admin disabled")
}

func TestValidateAppConfig_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		env    string
		mutate func(*AppConfig)
	}{
		{"unknown backend", "dev", func(c *AppConfig) { c.StoreBackend = "sqlite" }},
		{"bad mongo uri", "dev", func(c *AppConfig) { c.StoreBackend = BackendMongo; c.MongoURI = "" }},
		{"postgres without dsn", "dev", func(c *AppConfig) { c.StoreBackend = BackendPostgres }},
		{"unknown transport", "dev", func(c *AppConfig) { c.NotifyTransport = "pigeon" }},
		{"ses without region", "dev", func(c *AppConfig) { c.NotifyTransport = notify.TransportSES; c.SESRegion = "" }},
		{"no team preferences", "dev", func(c *AppConfig) { c.TeamPreferences = nil }},
		{"tiny draft ttl", "dev", func(c *AppConfig) { c.DraftTTL = time.Second }},
		{"prod admin with default session key", "prod", func(c *AppConfig) { c.SessionKey = defaultSessionKey }},
		{"prod admin with short session key", "prod", func(c *AppConfig) { c.SessionKey = "short" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			assert.Error(t, validateAppConfig(tt.env, cfg, testLogger()))
		})
	}
}

func TestValidateAppConfig_WarnsWhenAdminDisabled(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cfg := validConfig()
	cfg.AdminKeyHash = ""

	require.NoError(t, validateAppConfig("dev", cfg, zap.New(core)))
	assert.Equal(t, 1, logs.FilterMessage("admin_key_hash not set; admin dashboard is disabled").Len())
}

func TestConnectDB_Memory(t *testing.T) {
	ctx := context.Background()
	deps, err := ConnectDB(ctx, &config.CoreConfig{}, validConfig(), testLogger())
	require.NoError(t, err)
	require.NotNil(t, deps.Store)
	require.NotNil(t, deps.Runtime)
	require.NoError(t, deps.Store.Ping(ctx))

	require.NoError(t, EnsureSchema(ctx, &config.CoreConfig{}, validConfig(), deps, testLogger()))
	require.NoError(t, Shutdown(ctx, &config.CoreConfig{}, validConfig(), deps, testLogger()))
}

func TestShutdown_WaitsForSubmissions(t *testing.T) {
	ctx := context.Background()
	deps, err := ConnectDB(ctx, &config.CoreConfig{}, validConfig(), testLogger())
	require.NoError(t, err)
	deps.Runtime.Submissions = submission.NewService(deps.Store, nil, 0, testLogger())

	require.NoError(t, Shutdown(ctx, &config.CoreConfig{}, validConfig(), deps, testLogger()))
}
