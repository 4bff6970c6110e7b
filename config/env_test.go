package config

import (
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/enorae")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOOKING_TIMEZONE", "Europe/London")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "-4")
	t.Setenv("OTEL_SAMPLING_RATIO", "3")

	s, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, "Europe/London", s.BookingLocation.String())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, s.KafkaBrokers)
	assert.Equal(t, 30, s.RateLimitPerMinute)
	assert.Equal(t, 90, s.MaxDaysAhead)
	assert.Equal(t, 1.0, s.OTelSampleRatio)
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	_, err := Load()
	assert.EqualError(t, err, "DB_URL not set")

	t.Setenv("DB_URL", "postgres://localhost/enorae")
	t.Setenv("JWT_SECRET", "")
	_, err = Load()
	assert.EqualError(t, err, "JWT_SECRET not set")

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BOOKING_TIMEZONE", "Mars/Olympus")
	_, err = Load()
	assert.Error(t, err)
}
