package speech

import (
	"context"
	"log"
)

// LogEngine produces no audio; it only logs what would have been said.
// It stands in when no synthesiser is installed.
type LogEngine struct{}

func (LogEngine) Speak(_ context.Context, text string) error {
	log.Printf("speech (log only): %q", text)
	return nil
}
