package speech

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
)

// Espeak speaks through a local espeak-compatible binary. The text is passed
// on stdin so it is never interpreted as an option.
type Espeak struct {
	binary string
	voice  Voice
}

func NewEspeak(binary string, voice Voice) *Espeak {
	if binary == "" {
		binary = "espeak"
	}
	return &Espeak{binary: binary, voice: voice}
}

func (e *Espeak) args() []string {
	args := []string{"--stdin"}
	if e.voice.Rate > 0 {
		args = append(args, "-s", strconv.Itoa(e.voice.Rate))
	}
	// espeak amplitude runs 0-200 with 100 as its default
	args = append(args, "-a", strconv.Itoa(int(math.Round(clampVolume(e.voice.Volume)*200))))
	if e.voice.Name != "" {
		args = append(args, "-v", e.voice.Name)
	}
	return args
}

func (e *Espeak) Speak(ctx context.Context, text string) error {
	cmd := exec.CommandContext(ctx, e.binary, e.args()...)
	cmd.Stdin = strings.NewReader(text)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return &SpeechError{Provider: "espeak", Text: text, Err: err}
	}
	return nil
}
