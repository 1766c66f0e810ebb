package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"voice-chat/internal/application"
)

var ErrNotWAV = errors.New("not a RIFF/WAVE document")

// EncodeWAV wraps 16-bit mono samples in a canonical 44-byte PCM header.
func EncodeWAV(samples []int16, sampleRate int) []byte {
	var buf bytes.Buffer

	dataSize := len(samples) * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	binary.Write(&buf, binary.LittleEndian, samples)

	return buf.Bytes()
}

// DecodeWAV walks the RIFF chunks of a PCM WAV document and returns the raw
// sample bytes of the data chunk with the format from the fmt chunk.
func DecodeWAV(data []byte) ([]byte, application.AudioFormat, error) {
	var format application.AudioFormat

	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, format, ErrNotWAV
	}

	haveFormat := false
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		end := body + size
		if end > len(data) {
			end = len(data)
		}

		switch id {
		case "fmt ":
			if end-body < 16 {
				return nil, format, fmt.Errorf("fmt chunk too short: %d bytes", end-body)
			}
			if tag := binary.LittleEndian.Uint16(data[body:]); tag != 1 {
				return nil, format, fmt.Errorf("unsupported wav encoding %d, want PCM", tag)
			}
			format.Channels = int(binary.LittleEndian.Uint16(data[body+2:]))
			format.SampleRate = int(binary.LittleEndian.Uint32(data[body+4:]))
			format.BitDepth = int(binary.LittleEndian.Uint16(data[body+14:]))
			haveFormat = true
		case "data":
			if !haveFormat {
				return nil, format, fmt.Errorf("data chunk before fmt chunk")
			}
			return data[body:end], format, nil
		}

		// chunks are word aligned
		pos = end + size%2
	}

	return nil, format, fmt.Errorf("no data chunk found")
}
