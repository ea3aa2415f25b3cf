package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ANIMALIA_SERVICE_PORT", "PORT", "STORE", "SESSION_IDLE_MINUTES", "TIMEZONE", "CORS_ORIGINS", "START_ROOMS", "PLAY_ROOMS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "mongo", cfg.Store)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
	assert.Equal(t, 2, cfg.StartRooms)
	assert.Equal(t, 4, cfg.PlayRooms)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ANIMALIA_SERVICE_PORT", "")
	t.Setenv("SESSION_IDLE_MINUTES", "5")
	t.Setenv("RATE_LIMIT", "not-a-number")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("NATS_TOKEN", "s3cret")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdle)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "s3cret", cfg.NatsToken)
}

func TestUnknownTimezoneFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, loadLocation("Nowhere/Atlantis"))
}
