package domain

import "strings"

type RecognitionStatus string

const (
	StatusRecognized RecognitionStatus = "recognized"
	StatusNoMatch    RecognitionStatus = "no_match"
	StatusCanceled   RecognitionStatus = "canceled"
)

// Utterance is one transcribed span of microphone audio.
type Utterance struct {
	Text   string
	Status RecognitionStatus
	// Detail carries the recognizer's reason when Status is not StatusRecognized.
	Detail string
}

// Usable reports whether the utterance carries recognized, non-blank text.
func (u Utterance) Usable() bool {
	return u.Status == StatusRecognized && strings.TrimSpace(u.Text) != ""
}
