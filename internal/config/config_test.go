package config

import (
	"testing"
	"time"

	"github.com/SAP-F-2025/survey-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BUNDLE_CACHE_TTL", "")
	t.Setenv("EVENTS_ENABLED", "")
	t.Setenv("ADMIN_API_TOKEN", "  secret  ")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "secret", cfg.AdminAPIToken)
	assert.Equal(t, 5*time.Minute, cfg.BundleCacheTTL)
	assert.False(t, cfg.Events.Enabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("BUNDLE_CACHE_TTL", "30s")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.BundleCacheTTL)
	assert.True(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.GetKafkaBrokers())
	assert.False(t, cfg.IsDevelopment())
}

func TestCreateEventPublisher_FallsBackToMock(t *testing.T) {
	for _, cfg := range []EventConfig{
		{Enabled: false, Publisher: "kafka"},
		{Enabled: true, Publisher: "mock"},
		{Enabled: true, Publisher: "carrier-pigeon"},
	} {
		pub, err := cfg.CreateEventPublisher(zap.NewNop())
		require.NoError(t, err)
		assert.IsType(t, &events.MockEventPublisher{}, pub)
	}
}
