package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "POSTGRES_DSN", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"KAFKA_BROKERS", "KAFKA_ORDER_TOPIC", "PAYPAL_CLIENT_ID", "PAYPAL_CLIENT_SECRET", "PAYPAL_MODE",
		"PAYMENT_RETURN_URL", "PAYMENT_CANCEL_URL", "PAYMENT_GATEWAY_TIMEOUT_SECONDS",
		"SESSION_TTL_HOURS", "SESSION_PURGE_INTERVAL_MINUTES", "SESSION_SEED_TOKENS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, client.DefaultHostPort, cfg.TemporalAddress)
	assert.Equal(t, client.DefaultNamespace, cfg.TemporalNamespace)
	assert.False(t, cfg.TemporalDisabled)
	assert.Equal(t, "orders.events", cfg.KafkaOrderTopic)
	assert.Equal(t, "sandbox", cfg.PayPalMode)
	assert.False(t, cfg.PayPalEnabled())
	assert.Equal(t, "http://localhost:8080/payment/success", cfg.PaymentReturnURL)
	assert.Equal(t, "http://localhost:8080/payment/cancel", cfg.PaymentCancelURL)
	assert.Equal(t, 15*time.Second, cfg.PaymentGatewayTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Zero(t, cfg.SessionPurgeInterval)
	assert.Empty(t, cfg.SessionSeedTokens)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka:9092")
	t.Setenv("PAYPAL_CLIENT_ID", "id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "secret")
	t.Setenv("PAYPAL_MODE", "LIVE")
	t.Setenv("PAYMENT_GATEWAY_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("SESSION_PURGE_INTERVAL_MINUTES", "10")
	t.Setenv("SESSION_SEED_TOKENS", "alice:1, bob:2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, "kafka:9092", cfg.KafkaBrokers)
	assert.True(t, cfg.PayPalEnabled())
	assert.Equal(t, "live", cfg.PayPalMode)
	assert.Equal(t, "http://localhost:9090/payment/success", cfg.PaymentReturnURL)
	assert.Equal(t, 3*time.Second, cfg.PaymentGatewayTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10*time.Minute, cfg.SessionPurgeInterval)
	assert.Equal(t, map[string]int64{"alice": 1, "bob": 2}, cfg.SessionSeedTokens)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORT":                            "http",
		"PAYPAL_MODE":                     "staging",
		"PAYMENT_GATEWAY_TIMEOUT_SECONDS": "0",
		"SESSION_TTL_HOURS":               "-1",
		"SESSION_PURGE_INTERVAL_MINUTES":  "soon",
		"SESSION_SEED_TOKENS":             "alice",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}
