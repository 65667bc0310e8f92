package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PlaceholderAPIKey is the sentinel shipped in setup instructions. A key
// equal to it (or empty) means the service is unconfigured and must not
// issue metered provider requests.
const PlaceholderAPIKey = "YOUR_API_KEY_HERE"

// Provider names accepted by WEATHER_PROVIDER.
const (
	ProviderWeatherAPI  = "weatherapi"
	ProviderOpenWeather = "openweather"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	Provider        string
	APIKey          string
	HTTPAddr        string
	StaticDir       string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	DefaultCity     string
	RefreshInterval time.Duration
	ProviderTimeout time.Duration
	ForecastDays    int

	// Optional severe-alert notification topic.
	KafkaBrokers    []string
	KafkaAlertTopic string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parseDurationEnv("REFRESH_INTERVAL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	providerTimeout, err := parseDurationEnv("PROVIDER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	forecastDays, err := parseForecastDays()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Provider:        strings.ToLower(envOrDefault("WEATHER_PROVIDER", ProviderWeatherAPI)),
		APIKey:          os.Getenv("WEATHER_API_KEY"),
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		StaticDir:       envOrDefault("STATIC_DIR", "static"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		DefaultCity:     envOrDefault("DEFAULT_CITY", "New York"),
		RefreshInterval: refreshInterval,
		ProviderTimeout: providerTimeout,
		ForecastDays:    forecastDays,
		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaAlertTopic: os.Getenv("KAFKA_ALERT_TOPIC"),
	}

	if cfg.Provider != ProviderWeatherAPI && cfg.Provider != ProviderOpenWeather {
		return nil, fmt.Errorf("unknown WEATHER_PROVIDER %q", cfg.Provider)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaAlertTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_ALERT_TOPIC is not")
	}
	if cfg.KafkaAlertTopic != "" && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ALERT_TOPIC is set but KAFKA_BROKERS is not")
	}

	return cfg, nil
}

// Configured reports whether a usable API key is present.
func (c *Config) Configured() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

// AlertPublishingEnabled reports whether the severe-alert Kafka publisher
// should be wired.
func (c *Config) AlertPublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaAlertTopic != ""
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return d, nil
}

func parseForecastDays() (int, error) {
	s := os.Getenv("FORECAST_DAYS")
	if s == "" {
		return 5, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 5 {
		return 0, fmt.Errorf("invalid FORECAST_DAYS %q: must be 1-5", s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
