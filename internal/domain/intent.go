package domain

import (
	"slices"
	"strings"
	"time"
)

type Intent string

const (
	IntentNone Intent = "none"
	IntentQuit Intent = "quit"
	IntentTime Intent = "time"
	IntentChat Intent = "chat"
)

var quitTokens = []string{"quit", "exit", "quit."}

var timePatterns = []string{
	"what time",
	"current time",
	"tell me the time",
	"time is it",
	"say the time",
}

// Classify maps an utterance to the branch the voice loop takes for it.
// Quit tokens match exactly on the trimmed, lower-cased text; time queries
// match by substring.
func Classify(text string) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return IntentNone
	}

	if slices.Contains(quitTokens, lower) {
		return IntentQuit
	}

	for _, pattern := range timePatterns {
		if strings.Contains(lower, pattern) {
			return IntentTime
		}
	}

	return IntentChat
}

// TimeReply renders t as the spoken answer to a time query, e.g. "It's 03:04 PM.".
func TimeReply(t time.Time) string {
	return "It's " + t.Format("03:04 PM") + "."
}
