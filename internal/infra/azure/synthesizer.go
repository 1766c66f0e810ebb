package azure

import (
	"context"
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/sirupsen/logrus"

	"voice-chat/config"
)

// Synthesizer speaks text on the default speaker with the configured voice.
type Synthesizer struct {
	conf        *speech.SpeechConfig
	audioConfig *audio.AudioConfig
	synthesizer *speech.SpeechSynthesizer
	log         *logrus.Entry
}

func NewSynthesizer(cfg config.SpeechConfig, logger *logrus.Logger) (*Synthesizer, error) {
	conf, err := newSpeechConfig(cfg)
	if err != nil {
		return nil, err
	}

	audioConfig, err := audio.NewAudioConfigFromDefaultSpeakerOutput()
	if err != nil {
		conf.Close()
		return nil, fmt.Errorf("opening default speaker: %w", err)
	}

	synthesizer, err := speech.NewSpeechSynthesizerFromConfig(conf, audioConfig)
	if err != nil {
		audioConfig.Close()
		conf.Close()
		return nil, fmt.Errorf("creating speech synthesizer: %w", err)
	}

	return &Synthesizer{
		conf:        conf,
		audioConfig: audioConfig,
		synthesizer: synthesizer,
		log:         logger.WithFields(logrus.Fields{"service": "azure-tts", "voice": cfg.Voice}),
	}, nil
}

// Speak blocks until playback of text has finished.
func (s *Synthesizer) Speak(ctx context.Context, text string) error {
	task := s.synthesizer.SpeakTextAsync(text)

	var outcome speech.SpeechSynthesisOutcome
	select {
	case outcome = <-task:
	case <-ctx.Done():
		go func() {
			o := <-task
			o.Close()
		}()
		return fmt.Errorf("context cancelled while speaking: %w", ctx.Err())
	}
	defer outcome.Close()

	if outcome.Error != nil {
		return fmt.Errorf("synthesis outcome error: %w", outcome.Error)
	}

	if outcome.Result.Reason != common.SynthesizingAudioCompleted {
		cancellation, err := speech.NewCancellationDetailsFromSpeechSynthesisResult(outcome.Result)
		if err != nil || cancellation == nil {
			return fmt.Errorf("synthesis failed: reason=%s", outcome.Result.Reason.String())
		}
		return fmt.Errorf("synthesis failed: reason=%s, details=%s", outcome.Result.Reason.String(), cancellation.ErrorDetails)
	}

	s.log.WithField("chars", len(text)).Debug("spoke reply")
	return nil
}

func (s *Synthesizer) Close() {
	s.synthesizer.Close()
	s.audioConfig.Close()
	s.conf.Close()
}
