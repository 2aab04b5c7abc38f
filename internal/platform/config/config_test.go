package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PGSQL_URL", "postgres://localhost/ledger")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://localhost/ledger", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, SequenceBackendPostgres, cfg.EntrySequenceBackend)
	assert.Equal(t, PublisherNone, cfg.EventPublisher)
	assert.Equal(t, 3, cfg.ConflictRetryAttempts)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("ENTRY_SEQUENCE_BACKEND", "REDIS")
	t.Setenv("EVENT_PUBLISHER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CONFLICT_RETRY_ATTEMPTS", "0")
	t.Setenv("REPORT_CURRENCY", "eur")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, SequenceBackendRedis, cfg.EntrySequenceBackend)
	assert.Equal(t, PublisherKafka, cfg.EventPublisher)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 3, cfg.ConflictRetryAttempts)
	assert.Equal(t, "EUR", cfg.ReportCurrency)
}

func TestLoadConfig_UnknownPublisherFallsBack(t *testing.T) {
	viper.Reset()
	t.Setenv("EVENT_PUBLISHER", "carrier-pigeon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, PublisherNone, cfg.EventPublisher)
}
