package application

import (
	"context"

	"voice-chat/internal/domain"
)

// Transcriber blocks on a single recognition attempt. No-match and canceled
// recognitions are reported through the utterance status; the error is
// reserved for failures to run the recognizer at all.
type Transcriber interface {
	Transcribe(ctx context.Context) (domain.Utterance, error)
}

// Synthesizer speaks text synchronously.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// NoopSynthesizer discards everything, for running the loop without a speaker.
type NoopSynthesizer struct{}

func (n *NoopSynthesizer) Speak(_ context.Context, _ string) error {
	return nil
}
