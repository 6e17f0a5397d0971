package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	paypalclient "github.com/Apurer/go-gin-shop-api/internal/clients/http/paypal"
	orderevents "github.com/Apurer/go-gin-shop-api/internal/domains/orders/adapters/events"
	paymentsapp "github.com/Apurer/go-gin-shop-api/internal/domains/payments/application"
	sessionports "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/ports"
)

// Config carries environment-driven settings for the API, worker, and purger processes.
type Config struct {
	Port        string
	PostgresDSN string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	KafkaBrokers    string
	KafkaOrderTopic string

	PayPalClientID     string
	PayPalClientSecret string
	PayPalMode         string

	PaymentReturnURL      string
	PaymentCancelURL      string
	PaymentGatewayTimeout time.Duration

	SessionTTL           time.Duration
	SessionPurgeInterval time.Duration
	// SessionSeedTokens maps bearer tokens to user ids for local runs without an identity provider.
	SessionSeedTokens map[string]int64
}

// PayPalEnabled reports whether live gateway credentials were supplied.
func (c Config) PayPalEnabled() bool {
	return c.PayPalClientID != "" && c.PayPalClientSecret != ""
}

// LoadConfig reads a .env file when present, then environment variables, applies defaults, and validates.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	port := envDefault("PORT", "8080")
	cfg := Config{
		Port:               port,
		PostgresDSN:        strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:    envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace:  envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:   isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		KafkaBrokers:       strings.TrimSpace(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic:    envDefault("KAFKA_ORDER_TOPIC", orderevents.DefaultTopic),
		PayPalClientID:     strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_ID")),
		PayPalClientSecret: strings.TrimSpace(os.Getenv("PAYPAL_CLIENT_SECRET")),
		PayPalMode:         strings.ToLower(envDefault("PAYPAL_MODE", paypalclient.ModeSandbox)),
		PaymentReturnURL:   envDefault("PAYMENT_RETURN_URL", "http://localhost:"+port+"/payment/success"),
		PaymentCancelURL:   envDefault("PAYMENT_CANCEL_URL", "http://localhost:"+port+"/payment/cancel"),
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("PORT must be numeric: %q", cfg.Port)
	}
	if cfg.PayPalMode != paypalclient.ModeSandbox && cfg.PayPalMode != paypalclient.ModeLive {
		return Config{}, fmt.Errorf("PAYPAL_MODE must be %q or %q", paypalclient.ModeSandbox, paypalclient.ModeLive)
	}

	var err error
	if cfg.PaymentGatewayTimeout, err = positiveDuration("PAYMENT_GATEWAY_TIMEOUT_SECONDS", time.Second, paymentsapp.DefaultGatewayTimeout); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = positiveDuration("SESSION_TTL_HOURS", time.Hour, sessionports.DefaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionPurgeInterval, err = positiveDuration("SESSION_PURGE_INTERVAL_MINUTES", time.Minute, 0); err != nil {
		return Config{}, err
	}
	if cfg.SessionSeedTokens, err = parseSeedTokens(os.Getenv("SESSION_SEED_TOKENS")); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func positiveDuration(key string, unit, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return time.Duration(n) * unit, nil
}

// parseSeedTokens reads "token:userId,token:userId".
func parseSeedTokens(raw string) (map[string]int64, error) {
	seeds := map[string]int64{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, id, ok := strings.Cut(pair, ":")
		token = strings.TrimSpace(token)
		userID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if !ok || token == "" || err != nil || userID <= 0 {
			return nil, fmt.Errorf("SESSION_SEED_TOKENS entry %q must be token:userId", pair)
		}
		seeds[token] = userID
	}
	return seeds, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
