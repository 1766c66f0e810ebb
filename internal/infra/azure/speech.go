package azure

import (
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"

	"voice-chat/config"
)

// newSpeechConfig builds the SDK configuration shared by recognition and
// synthesis: subscription, recognition language and neural voice.
func newSpeechConfig(cfg config.SpeechConfig) (*speech.SpeechConfig, error) {
	if cfg.Key == "" || cfg.Region == "" {
		return nil, fmt.Errorf("azure speech requires key and region")
	}

	conf, err := speech.NewSpeechConfigFromSubscription(cfg.Key, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("creating speech config: %w", err)
	}

	if err := conf.SetSpeechRecognitionLanguage(cfg.Language); err != nil {
		conf.Close()
		return nil, fmt.Errorf("setting recognition language: %w", err)
	}

	if cfg.Voice != "" {
		if err := conf.SetSpeechSynthesisVoiceName(cfg.Voice); err != nil {
			conf.Close()
			return nil, fmt.Errorf("setting synthesis voice: %w", err)
		}
	}

	return conf, nil
}
