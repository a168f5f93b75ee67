package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyUSB0", cfg.SerialPort)
	assert.Equal(t, 9600, cfg.SerialBaud)
	assert.Equal(t, 100*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, SpeechEspeak, cfg.SpeechProvider)
	assert.Equal(t, 150, cfg.SpeechRate)
	assert.Equal(t, 0.9, cfg.SpeechVolume)
	assert.Equal(t, int64(1<<20), cfg.JournalMaxBytes)
	assert.Empty(t, cfg.DailyQuoteSchedule, "daily schedule should be disabled by default")
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("SERIAL_PORT", "/dev/ttyACM0")
	t.Setenv("SERIAL_BAUD", "115200")
	t.Setenv("SPEECH_PROVIDER", "log")
	t.Setenv("MAX_CONCURRENT_SPEECH", "3")
	t.Setenv("JOURNAL_MAX_BYTES", "4096")
	t.Setenv("DAILY_QUOTE_SCHEDULE", "0 9 * * *")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "/dev/ttyACM0", cfg.SerialPort)
	assert.Equal(t, 115200, cfg.SerialBaud)
	assert.Equal(t, SpeechLog, cfg.SpeechProvider)
	assert.Equal(t, 3, cfg.MaxConcurrentSpeech)
	assert.Equal(t, int64(4096), cfg.JournalMaxBytes)
	assert.Equal(t, "0 9 * * *", cfg.DailyQuoteSchedule)
}

func TestParseInvalid(t *testing.T) {
	t.Setenv("SERIAL_BAUD", "fast")
	_, err := Parse()
	assert.Error(t, err, "non-numeric baud must be rejected")
}
