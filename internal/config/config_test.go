package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CLERK_SECRET_KEY", "sk_test")
	t.Setenv("CLERK_PUBLISHABLE_KEY", "pk_test")
	t.Setenv("CLERK_JWK_PUBLIC_KEY", "-----BEGIN PUBLIC KEY-----")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/reading")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("NODE_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("FRONTEND_URL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.FrontendURLs)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "token-balance-events", cfg.Kafka.BalanceTopic)
	assert.False(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("CLERK_SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CLERK_SECRET_KEY")
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfigRejectsUnknownEnv(t *testing.T) {
	setRequired(t)
	t.Setenv("NODE_ENV", "staging")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NODE_ENV")
}

func TestLoadConfigLists(t *testing.T) {
	setRequired(t)
	t.Setenv("FRONTEND_URL", "https://a.example, https://b.example ,")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("SPACES_REGION", "sgp1")
	t.Setenv("SPACES_BUCKET", "assets")
	t.Setenv("SPACES_ACCESS_KEY_ID", "key")
	t.Setenv("SPACES_SECRET_KEY", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.FrontendURLs)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, "sgp1.digitaloceanspaces.com", cfg.Storage.Endpoint)
	assert.Equal(t, "https://assets.sgp1.cdn.digitaloceanspaces.com", cfg.Storage.CDNBase())
}
