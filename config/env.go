package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings is everything the service reads from the environment.
type Settings struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	JWTExpiryHours int

	BookingLocation *time.Location
	MaxDaysAhead    int

	RedisAddr          string
	RedisPassword      string
	RateLimitPerMinute int

	KafkaBrokers      []string
	KafkaBookingTopic string

	OTelEnabled     bool
	OTelEndpoint    string
	OTelSampleRatio float64

	CORSOrigins []string
	MetricsCron string
}

// Load reads a .env file when present and then the process environment.
func Load() (*Settings, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	s := &Settings{
		Port:               getenv("PORT", "8080"),
		DatabaseURL:        os.Getenv("DB_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		JWTExpiryHours:     getInt("JWT_EXPIRY_HOURS", 24),
		MaxDaysAhead:       getInt("BOOKING_MAX_DAYS_AHEAD", 90),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 30),
		KafkaBrokers:       splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaBookingTopic:  getenv("KAFKA_BOOKING_TOPIC", "booking.appointments"),
		OTelEnabled:        getBool("OTEL_ENABLED", false),
		OTelEndpoint:       getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTelSampleRatio:    getFloat("OTEL_SAMPLING_RATIO", 1),
		CORSOrigins:        splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		MetricsCron:        getenv("METRICS_CRON", "5 0 * * *"),
	}

	loc, err := time.LoadLocation(getenv("BOOKING_TIMEZONE", "UTC"))
	if err != nil {
		return nil, errors.New("BOOKING_TIMEZONE: " + err.Error())
	}
	s.BookingLocation = loc

	if s.DatabaseURL == "" {
		return nil, errors.New("DB_URL not set")
	}
	if s.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET not set")
	}
	if s.OTelSampleRatio < 0 || s.OTelSampleRatio > 1 {
		s.OTelSampleRatio = 1
	}
	return s, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getenv(key, "")); err == nil && v > 0 {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(getenv(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getenv(key, "")); err == nil {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
