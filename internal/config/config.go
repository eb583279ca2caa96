package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration

	CORSOrigins []string

	Redis    RedisConfig
	Kafka    KafkaConfig
	Provider ProviderConfig
}

type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	FlightsCacheTTL time.Duration
}

type KafkaConfig struct {
	Brokers      []string
	BookingTopic string
}

// ProviderConfig points at the hosted checkout gateway. APIKey is sent as a
// bearer credential on every provider call.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
}

// Load reads configuration from the environment. A .env file is honored when
// present; missing JWT_SECRET or DATABASE_URL is a startup error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:    envOrDefault("HTTP_ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      24 * time.Hour,
		CORSOrigins: splitList(envOrDefault("CORS_ORIGINS", "*")),
		Redis: RedisConfig{
			Addr:            os.Getenv("REDIS_ADDR"),
			Password:        os.Getenv("REDIS_PASSWORD"),
			DB:              envInt("REDIS_DB", 0),
			FlightsCacheTTL: time.Duration(envInt("FLIGHTS_CACHE_TTL_SECONDS", 60)) * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      splitList(os.Getenv("KAFKA_BROKERS")),
			BookingTopic: envOrDefault("KAFKA_BOOKING_TOPIC", "booking-events"),
		},
		Provider: ProviderConfig{
			BaseURL: os.Getenv("CHECKOUT_PROVIDER_URL"),
			APIKey:  os.Getenv("CHECKOUT_API_KEY"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is empty")
	}

	return cfg, nil
}

func envOrDefault(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
