//go:build !portaudio
// +build !portaudio

package audio

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// MicrophoneSource stub when portaudio is not available
type MicrophoneSource struct {
	log *logrus.Entry
}

func NewMicrophoneSource(_ int, logger *logrus.Logger) *MicrophoneSource {
	return &MicrophoneSource{log: logger.WithField("source", "microphone")}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	return fmt.Errorf("microphone source not available: rebuild with -tags portaudio or use audio.source sdk")
}

func (m *MicrophoneSource) Stop() error {
	return nil
}

func (m *MicrophoneSource) NextCommand(_ context.Context) ([]byte, error) {
	return nil, fmt.Errorf("microphone source not available")
}
