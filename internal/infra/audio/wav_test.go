package audio_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-chat/internal/application"
	"voice-chat/internal/infra/audio"
)

func TestDecodeWAV_ReadsEncodedSamples(t *testing.T) {
	samples := []int16{0, 1200, -1200, 32767, -32768}

	pcm, format, err := audio.DecodeWAV(audio.EncodeWAV(samples, 16000))
	require.NoError(t, err)

	assert.Equal(t, application.DefaultAudioFormat(), format)
	require.Len(t, pcm, len(samples)*2)
	for i, want := range samples {
		assert.Equal(t, want, int16(binary.LittleEndian.Uint16(pcm[i*2:])))
	}
}

func TestDecodeWAV_SkipsUnknownChunks(t *testing.T) {
	wav := audio.EncodeWAV([]int16{7, 8}, 8000)

	// splice a LIST chunk with an odd size between fmt and data
	list := []byte("LIST\x03\x00\x00\x00abc\x00")
	spliced := append(append(append([]byte{}, wav[:36]...), list...), wav[36:]...)

	pcm, format, err := audio.DecodeWAV(spliced)
	require.NoError(t, err)
	assert.Equal(t, 8000, format.SampleRate)
	assert.Equal(t, []byte{7, 0, 8, 0}, pcm)
}

func TestDecodeWAV_Rejects(t *testing.T) {
	_, _, err := audio.DecodeWAV([]byte("fake audio data"))
	assert.ErrorIs(t, err, audio.ErrNotWAV)

	wav := audio.EncodeWAV([]int16{1}, 16000)
	binary.LittleEndian.PutUint16(wav[20:], 3) // IEEE float
	_, _, err = audio.DecodeWAV(wav)
	assert.ErrorContains(t, err, "unsupported wav encoding")

	_, _, err = audio.DecodeWAV(audio.EncodeWAV(nil, 16000)[:36])
	assert.ErrorContains(t, err, "no data chunk")
}
