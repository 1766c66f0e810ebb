package azure

import (
	"context"
	"fmt"

	"github.com/Microsoft/cognitive-services-speech-sdk-go/audio"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/common"
	"github.com/Microsoft/cognitive-services-speech-sdk-go/speech"
	"github.com/sirupsen/logrus"

	"voice-chat/config"
	"voice-chat/internal/application"
	"voice-chat/internal/domain"
	wav "voice-chat/internal/infra/audio"
)

// Recognizer performs one recognize-once call per Transcribe. Without a
// capture source it listens on the default microphone through the SDK;
// with one, each captured WAV is pushed through an input stream.
type Recognizer struct {
	conf   *speech.SpeechConfig
	source application.AudioSource
	log    *logrus.Entry

	// set only for the default-microphone mode
	micConfig  *audio.AudioConfig
	recognizer *speech.SpeechRecognizer
}

func NewMicrophoneRecognizer(cfg config.SpeechConfig, logger *logrus.Logger) (*Recognizer, error) {
	conf, err := newSpeechConfig(cfg)
	if err != nil {
		return nil, err
	}

	micConfig, err := audio.NewAudioConfigFromDefaultMicrophoneInput()
	if err != nil {
		conf.Close()
		return nil, fmt.Errorf("opening default microphone: %w", err)
	}

	recognizer, err := speech.NewSpeechRecognizerFromConfig(conf, micConfig)
	if err != nil {
		micConfig.Close()
		conf.Close()
		return nil, fmt.Errorf("creating speech recognizer: %w", err)
	}

	return &Recognizer{
		conf:       conf,
		log:        logger.WithField("service", "azure-stt"),
		micConfig:  micConfig,
		recognizer: recognizer,
	}, nil
}

func NewStreamRecognizer(cfg config.SpeechConfig, source application.AudioSource, logger *logrus.Logger) (*Recognizer, error) {
	conf, err := newSpeechConfig(cfg)
	if err != nil {
		return nil, err
	}

	return &Recognizer{
		conf:   conf,
		source: source,
		log:    logger.WithFields(logrus.Fields{"service": "azure-stt", "source": source.Name()}),
	}, nil
}

func (r *Recognizer) Transcribe(ctx context.Context) (domain.Utterance, error) {
	if r.source == nil {
		return r.recognizeOnce(ctx, r.recognizer)
	}
	return r.transcribeCaptured(ctx)
}

func (r *Recognizer) transcribeCaptured(ctx context.Context) (domain.Utterance, error) {
	captured, err := r.source.NextCommand(ctx)
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("capturing audio: %w", err)
	}

	pcm, format, err := wav.DecodeWAV(captured)
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("decoding captured audio: %w", err)
	}

	streamFormat, err := audio.GetWaveFormatPCM(uint32(format.SampleRate), uint8(format.BitDepth), uint8(format.Channels))
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("creating audio format: %w", err)
	}
	defer streamFormat.Close()

	stream, err := audio.CreatePushAudioInputStreamFromFormat(streamFormat)
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("creating push stream: %w", err)
	}
	defer stream.Close()

	audioConfig, err := audio.NewAudioConfigFromStreamInput(stream)
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("creating audio config: %w", err)
	}
	defer audioConfig.Close()

	recognizer, err := speech.NewSpeechRecognizerFromConfig(r.conf, audioConfig)
	if err != nil {
		return domain.Utterance{}, fmt.Errorf("creating speech recognizer: %w", err)
	}
	defer recognizer.Close()

	if err := stream.Write(pcm); err != nil {
		return domain.Utterance{}, fmt.Errorf("writing push stream: %w", err)
	}
	stream.CloseStream()

	return r.recognizeOnce(ctx, recognizer)
}

func (r *Recognizer) recognizeOnce(ctx context.Context, recognizer *speech.SpeechRecognizer) (domain.Utterance, error) {
	task := recognizer.RecognizeOnceAsync()

	var outcome speech.SpeechRecognitionOutcome
	select {
	case outcome = <-task:
	case <-ctx.Done():
		go func() {
			o := <-task
			o.Close()
		}()
		return domain.Utterance{}, ctx.Err()
	}
	defer outcome.Close()

	if outcome.Error != nil {
		return domain.Utterance{}, fmt.Errorf("recognition outcome error: %w", outcome.Error)
	}

	result := outcome.Result
	switch result.Reason {
	case common.RecognizedSpeech:
		r.log.WithField("text", result.Text).Debug("recognized speech")
		return domain.Utterance{Text: result.Text, Status: domain.StatusRecognized}, nil
	case common.NoMatch:
		return domain.Utterance{Status: domain.StatusNoMatch, Detail: result.Reason.String()}, nil
	case common.Canceled:
		detail := result.Reason.String()
		if cancellation, err := speech.NewCancellationDetailsFromSpeechRecognitionResult(result); err == nil && cancellation != nil {
			detail = fmt.Sprintf("%s: %s", result.Reason.String(), cancellation.ErrorDetails)
		}
		return domain.Utterance{Status: domain.StatusCanceled, Detail: detail}, nil
	default:
		return domain.Utterance{Status: domain.StatusCanceled, Detail: result.Reason.String()}, nil
	}
}

func (r *Recognizer) Close() {
	if r.recognizer != nil {
		r.recognizer.Close()
	}
	if r.micConfig != nil {
		r.micConfig.Close()
	}
	r.conf.Close()
}
