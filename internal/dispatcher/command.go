package dispatcher

import "strings"

// Kind identifies a command received from the microcontroller.
type Kind int

const (
	KindUnknown Kind = iota
	KindQuote
	KindSpeak
	KindWelcome
	KindThankYou
	KindSanitize
	KindNextQuote
	KindDailyQuote
	KindRandomQuote
)

const (
	quotePrefix = "QUOTE:"
	speakPrefix = "SPEAK:"
)

// Fixed messages spoken for the literal commands.
const (
	WelcomeMessage  = "Hello! I am your smart dustbin. Please dispose your waste properly."
	ThankYouMessage = "Thank you for keeping the environment clean!"
	SanitizeMessage = "Please sanitize your hands. Stay healthy!"
)

var kindNames = map[Kind]string{
	KindUnknown:     "unknown",
	KindQuote:       "quote",
	KindSpeak:       "speak",
	KindWelcome:     "welcome",
	KindThankYou:    "thankyou",
	KindSanitize:    "sanitize",
	KindNextQuote:   "next_quote",
	KindDailyQuote:  "daily_quote",
	KindRandomQuote: "random_quote",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// exact maps whole-line commands, checked after the prefixed ones.
var exact = map[string]Kind{
	"WELCOME":  KindWelcome,
	"THANKYOU": KindThankYou,
	"SANITIZE": KindSanitize,
	"QUOTE":    KindNextQuote,
	"DAILY":    KindDailyQuote,
	"RANDOM":   KindRandomQuote,
}

// Command is a classified line. Payload is the literal text carried by
// QUOTE: and SPEAK: lines.
type Command struct {
	Kind    Kind
	Line    string
	Payload string
}

// Parse classifies an already trimmed, non-empty line. Matching is case
// sensitive; QUOTE: wins over SPEAK:, and both win over whole-line commands.
func Parse(line string) Command {
	switch {
	case strings.HasPrefix(line, quotePrefix):
		return Command{Kind: KindQuote, Line: line, Payload: strings.TrimSpace(line[len(quotePrefix):])}
	case strings.HasPrefix(line, speakPrefix):
		return Command{Kind: KindSpeak, Line: line, Payload: strings.TrimSpace(line[len(speakPrefix):])}
	}
	if kind, ok := exact[line]; ok {
		return Command{Kind: kind, Line: line}
	}
	return Command{Kind: KindUnknown, Line: line}
}
