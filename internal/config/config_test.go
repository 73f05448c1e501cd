package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MY_CELL", "+15550001111")
	t.Setenv("MY_TWILIO_NUM", "+15550002222")
	t.Setenv("TWILIO_SID", "AC123")
	t.Setenv("TWILIO_TOKEN", "secret")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8000", cfg.ListenAddr)
	assert.Equal(t, "1", cfg.CountryCode)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 120*time.Minute, cfg.OfferTimeout)
}

func TestFromEnv_MissingRequired(t *testing.T) {
	t.Setenv("MY_CELL", "")
	t.Setenv("MY_TWILIO_NUM", "+15550002222")
	t.Setenv("TWILIO_SID", "AC123")
	t.Setenv("TWILIO_TOKEN", "secret")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestFromEnv_BadInterval(t *testing.T) {
	setRequired(t)
	t.Setenv("SCHED_POLL_INTERVAL", "-3s")

	_, err := FromEnv()
	assert.Error(t, err)
}
