package audio

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sineish(frames int) []int {
	samples := make([]int, frames)
	for i := range samples {
		samples[i] = (i%200 - 100) * 50
	}
	return samples
}

func TestEncodeWAVRoundTrip(t *testing.T) {
	format := Format{SampleRate: 8000, NumChannels: 1, BitDepth: 16}
	samples := sineish(8000 * 2) // 2 seconds

	data, err := EncodeWAV(samples, format)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	path := filepath.Join(t.TempDir(), "asset.wav")
	require.NoError(t, os.WriteFile(path, data, 0644))

	info, err := Info(path)
	require.NoError(t, err)
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 1, info.NumChannels)
	assert.Equal(t, 16, info.BitDepth)
	assert.InDelta(t, 2.0, info.Duration(), 1.0/8000)

	asset, err := ReadPCM(path)
	require.NoError(t, err)
	assert.Len(t, asset.Samples, len(samples))
	assert.Equal(t, samples[:100], asset.Samples[:100])
}

func TestEncodeWAVStereoFrames(t *testing.T) {
	format := Format{SampleRate: 8000, NumChannels: 2, BitDepth: 16}
	samples := sineish(8000) // 0.5 seconds of stereo frames

	data, err := EncodeWAV(samples, format)
	require.NoError(t, err)

	decoder := wav.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()
	require.True(t, decoder.IsValidFile())
	assert.Equal(t, uint16(2), decoder.NumChans)

	dur, err := decoder.Duration()
	require.NoError(t, err)
	assert.InDelta(t, 0.5, dur.Seconds(), 1.0/8000)
}

func TestInfoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0644))

	_, err := Info(path)
	assert.Error(t, err)
}

func TestInfoMissingFile(t *testing.T) {
	_, err := Info(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}
