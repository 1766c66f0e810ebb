package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"voice-chat/internal/domain"
)

type Assistant struct {
	stt       Transcriber
	tts       Synthesizer
	chat      Chatter
	notifier  Notifier
	maxTokens int
	now       func() time.Time
	log       *logrus.Entry
}

func NewAssistant(
	stt Transcriber,
	tts Synthesizer,
	chat Chatter,
	notifier Notifier,
	maxTokens int,
	logger *logrus.Logger,
) *Assistant {
	return &Assistant{
		stt:       stt,
		tts:       tts,
		chat:      chat,
		notifier:  notifier,
		maxTokens: maxTokens,
		now:       time.Now,
		log:       logger.WithField("component", "assistant"),
	}
}

// WithClock replaces the time source used to answer time queries.
func (a *Assistant) WithClock(now func() time.Time) *Assistant {
	a.now = now
	return a
}

// Run listens for utterances until a quit phrase is heard or ctx is
// canceled. Both are a normal shutdown and return nil.
func (a *Assistant) Run(ctx context.Context) error {
	a.say(ctx, "🤖  Voice ChatGPT ready at "+a.now().Format("15:04:05"))

	for {
		select {
		case <-ctx.Done():
			a.say(context.Background(), "👋  Bye!")
			return nil
		default:
		}

		quit, err := a.processOneUtterance(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				a.say(context.Background(), "👋  Interrupted.")
				return nil
			}
			a.log.WithError(err).Error("processing utterance")
			continue
		}
		if quit {
			a.say(ctx, "👋  Bye!")
			return nil
		}
	}
}

func (a *Assistant) processOneUtterance(ctx context.Context) (bool, error) {
	a.say(ctx, "🎙️  Listening…  (say “quit” to exit)")

	utterance, err := a.stt.Transcribe(ctx)
	if err != nil {
		return false, fmt.Errorf("transcribing: %w", err)
	}

	switch utterance.Status {
	case domain.StatusNoMatch:
		a.say(ctx, "🤔  Didn’t catch that.")
		return false, nil
	case domain.StatusCanceled:
		a.say(ctx, "✖  STT Error: "+utterance.Detail)
		a.log.WithField("detail", utterance.Detail).Warn("recognition canceled")
		return false, nil
	}

	if !utterance.Usable() {
		return false, nil
	}

	a.say(ctx, "🗣️  You : "+utterance.Text)

	switch domain.Classify(utterance.Text) {
	case domain.IntentQuit:
		return true, nil
	case domain.IntentTime:
		a.tellTime(ctx)
	case domain.IntentChat:
		a.answer(ctx, utterance.Text)
	}

	return false, nil
}

func (a *Assistant) tellTime(ctx context.Context) {
	reply := domain.TimeReply(a.now())
	a.say(ctx, "⏰ "+reply)
	a.speak(ctx, reply)
}

func (a *Assistant) answer(ctx context.Context, text string) {
	reply, err := a.chat.Chat(ctx, text, a.maxTokens)
	if err != nil {
		a.say(ctx, fmt.Sprintf("✖  GPT Error: %v", err))
		a.log.WithError(err).Warn("chat completion failed")
		return
	}

	a.say(ctx, "🤖  GPT: "+reply)
	a.speak(ctx, reply)
}

// speak never fails the turn: audio output is best-effort.
func (a *Assistant) speak(ctx context.Context, text string) {
	if err := a.tts.Speak(ctx, text); err != nil {
		a.say(ctx, fmt.Sprintf("✖  TTS Error: %v", err))
		a.log.WithError(err).Error("synthesizing reply")
	}
}

func (a *Assistant) say(ctx context.Context, message string) {
	if err := a.notifier.Notify(ctx, message); err != nil {
		a.log.WithError(err).Error("notifying")
	}
}
