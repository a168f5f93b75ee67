package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAI synthesises speech remotely and pipes the returned MP3 into a local
// player command that reads audio from stdin.
type OpenAI struct {
	client *openai.Client
	model  string
	voice  string
	speed  float64
	player []string
}

func NewOpenAI(apiKey, baseURL, model, voice, player string, v Voice) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
		voice:  voice,
		speed:  speedFromRate(v.Rate),
		player: strings.Fields(player),
	}
}

func (o *OpenAI) Speak(ctx context.Context, text string) error {
	if len(o.player) == 0 {
		return &SpeechError{Provider: "openai", Text: text, Err: fmt.Errorf("no audio player configured")}
	}
	audio, err := o.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(o.model),
		Input:          text,
		Voice:          openai.SpeechVoice(o.voice),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          o.speed,
	})
	if err != nil {
		return &SpeechError{Provider: "openai", Text: text, Err: fmt.Errorf("synthesise: %w", err)}
	}
	defer func() {
		_ = audio.Close()
	}()

	cmd := exec.CommandContext(ctx, o.player[0], o.player[1:]...)
	cmd.Stdin = audio
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return &SpeechError{Provider: "openai", Text: text, Err: fmt.Errorf("play: %w", err)}
	}
	return nil
}

// speedFromRate maps words per minute onto the API's speed multiplier,
// taking DefaultVoice's rate as 1.0.
func speedFromRate(rate int) float64 {
	if rate <= 0 {
		return 1.0
	}
	speed := float64(rate) / float64(DefaultVoice.Rate)
	switch {
	case speed < 0.25:
		return 0.25
	case speed > 4.0:
		return 4.0
	default:
		return speed
	}
}
