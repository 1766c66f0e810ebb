//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"

	"github.com/gordonklaus/portaudio"
	"github.com/sirupsen/logrus"
)

const (
	framesPerBuffer  = 1024
	silenceThreshold = int16(500)
)

// MicrophoneSource records from the default input device until a second of
// silence follows some speech, capped at ten seconds per utterance.
type MicrophoneSource struct {
	stream     *portaudio.Stream
	frames     []int16
	sampleRate int
	log        *logrus.Entry
}

func NewMicrophoneSource(sampleRate int, logger *logrus.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		sampleRate: sampleRate,
		frames:     make([]int16, framesPerBuffer),
		log:        logger.WithField("source", "microphone"),
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), framesPerBuffer, m.frames)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("opening stream: %w", err)
	}
	m.stream = stream

	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	m.log.WithField("sample_rate", m.sampleRate).Info("microphone started")
	return nil
}

func (m *MicrophoneSource) Stop() error {
	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	return portaudio.Terminate()
}

func (m *MicrophoneSource) NextCommand(ctx context.Context) ([]byte, error) {
	samples := make([]int16, 0, m.sampleRate*5)
	heardSpeech := false
	silentFrames := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := m.stream.Read(); err != nil {
			return nil, fmt.Errorf("reading from stream: %w", err)
		}

		silent := isSilent(m.frames)
		if silent && !heardSpeech {
			continue
		}
		heardSpeech = true
		samples = append(samples, m.frames...)

		if silent {
			silentFrames += len(m.frames)
		} else {
			silentFrames = 0
		}

		if silentFrames > m.sampleRate || len(samples) > m.sampleRate*10 {
			break
		}
	}

	m.log.WithField("samples", len(samples)).Debug("captured utterance")
	return EncodeWAV(samples, m.sampleRate), nil
}

func isSilent(frames []int16) bool {
	for _, sample := range frames {
		if sample > silenceThreshold || sample < -silenceThreshold {
			return false
		}
	}
	return true
}
