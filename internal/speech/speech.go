// Package speech turns text into audio. Engines block until the audio has
// been played; Runner wraps an engine so callers can fire and forget.
package speech

import (
	"context"
	"fmt"
)

// Engine is a blocking text-to-speech synthesiser.
type Engine interface {
	Speak(ctx context.Context, text string) error
}

// Voice holds the properties an engine applies to every utterance.
type Voice struct {
	Name   string
	Rate   int     // words per minute
	Volume float64 // 0.0 - 1.0
}

// DefaultVoice is 150 words per minute at 90% volume.
var DefaultVoice = Voice{Rate: 150, Volume: 0.9}

// SpeechError reports a failed utterance.
type SpeechError struct {
	Provider string
	Text     string
	Err      error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speech %s: speak %q: %v", e.Provider, e.Text, e.Err)
}

func (e *SpeechError) Unwrap() error { return e.Err }

func clampVolume(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
