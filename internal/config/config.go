package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type SpeechProvider string

const (
	SpeechEspeak SpeechProvider = "espeak"
	SpeechOpenAI SpeechProvider = "openai"
	SpeechLog    SpeechProvider = "log"
)

type Config struct {
	// Serial link to the microcontroller
	SerialPort   string        `env:"SERIAL_PORT" envDefault:"/dev/ttyUSB0"`
	SerialBaud   int           `env:"SERIAL_BAUD" envDefault:"9600"`
	SerialSettle time.Duration `env:"SERIAL_SETTLE" envDefault:"2s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"100ms"`
	ErrorBackoff time.Duration `env:"ERROR_BACKOFF" envDefault:"1s"`

	// Storage
	QuotesFilePath  string `env:"QUOTES_FILE_PATH" envDefault:"data/quotes.json"`
	JournalFilePath string `env:"JOURNAL_FILE_PATH" envDefault:"logs/commands.jsonl"`
	JournalMaxBytes int64  `env:"JOURNAL_MAX_BYTES" envDefault:"1048576"`

	// Speech
	SpeechProvider      SpeechProvider `env:"SPEECH_PROVIDER" envDefault:"espeak"`
	EspeakBinary        string         `env:"ESPEAK_BINARY" envDefault:"espeak"`
	SpeechVoice         string         `env:"SPEECH_VOICE"`
	SpeechRate          int            `env:"SPEECH_RATE" envDefault:"150"`
	SpeechVolume        float64        `env:"SPEECH_VOLUME" envDefault:"0.9"`
	MaxConcurrentSpeech int            `env:"MAX_CONCURRENT_SPEECH" envDefault:"0"`

	// Remote synthesis (optional)
	OpenAIAPIKey   string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string `env:"OPENAI_BASE_URL"`
	OpenAITTSModel string `env:"OPENAI_TTS_MODEL" envDefault:"tts-1"`
	OpenAITTSVoice string `env:"OPENAI_TTS_VOICE" envDefault:"alloy"`
	AudioPlayer    string `env:"AUDIO_PLAYER" envDefault:"mpg123 -q -"`

	// Cron spec (UTC) for the daily quote announcement, empty disables it
	DailyQuoteSchedule string `env:"DAILY_QUOTE_SCHEDULE"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the environment without exiting on error.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
