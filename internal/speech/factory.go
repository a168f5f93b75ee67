package speech

import (
	"fmt"

	"smart-dustbin/internal/config"
)

// NewEngine builds the engine selected by cfg.SpeechProvider.
func NewEngine(cfg *config.Config) (Engine, error) {
	voice := Voice{Name: cfg.SpeechVoice, Rate: cfg.SpeechRate, Volume: cfg.SpeechVolume}
	switch cfg.SpeechProvider {
	case config.SpeechEspeak:
		return NewEspeak(cfg.EspeakBinary, voice), nil
	case config.SpeechOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("speech provider %s requires OPENAI_API_KEY", cfg.SpeechProvider)
		}
		return NewOpenAI(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAITTSModel, cfg.OpenAITTSVoice, cfg.AudioPlayer, voice), nil
	case config.SpeechLog:
		return LogEngine{}, nil
	default:
		return nil, fmt.Errorf("unknown speech provider: %s", cfg.SpeechProvider)
	}
}
