package clip

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RA1LGUN/AudioClipTool/core/audio"
	"github.com/RA1LGUN/AudioClipTool/model"
)

const testSampleRate = 8000

// writeTestAsset writes a canonical mono asset of the given length in
// seconds and returns its path.
func writeTestAsset(t *testing.T, seconds float64) string {
	t.Helper()
	frames := int(seconds * testSampleRate)
	samples := make([]int, frames)
	for i := range samples {
		samples[i] = (i%100 - 50) * 80
	}
	data, err := audio.EncodeWAV(samples, audio.Format{SampleRate: testSampleRate, NumChannels: 1})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "asset.wav")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func clipDuration(t *testing.T, data []byte) float64 {
	t.Helper()
	decoder := wav.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()
	require.True(t, decoder.IsValidFile())
	dur, err := decoder.Duration()
	require.NoError(t, err)
	return dur.Seconds()
}

func TestExtractDurations(t *testing.T) {
	path := writeTestAsset(t, 10)
	extractor := NewExtractor()

	clips, err := extractor.Extract(path, "", []model.Region{
		{Start: 2.0, End: 5.0},
		{Start: 0.0, End: 0.5},
		{Start: 9.0, End: 10.0},
	})
	require.NoError(t, err)
	require.Len(t, clips, 3)

	frameTolerance := 1.0 / testSampleRate
	assert.InDelta(t, 3.0, clipDuration(t, clips[0].Data), frameTolerance)
	assert.InDelta(t, 0.5, clipDuration(t, clips[1].Data), frameTolerance)
	assert.InDelta(t, 1.0, clipDuration(t, clips[2].Data), frameTolerance)
}

func TestExtractNamingPreservesOrder(t *testing.T) {
	path := writeTestAsset(t, 10)
	extractor := NewExtractor()

	clips, err := extractor.Extract(path, "", []model.Region{
		{Start: 4.0, End: 6.0},
		{Start: 1.0, End: 2.0},
	})
	require.NoError(t, err)
	require.Len(t, clips, 2)

	assert.Equal(t, "clip_001_4.000s-6.000s.wav", clips[0].Name)
	assert.Equal(t, "clip_002_1.000s-2.000s.wav", clips[1].Name)
}

func TestExtractSubMillisecondTruncation(t *testing.T) {
	path := writeTestAsset(t, 10)
	extractor := NewExtractor()

	// 2.0004s truncates to 2000ms, so the clip spans exactly one second.
	clips, err := extractor.Extract(path, "", []model.Region{{Start: 2.0004, End: 3.0004}})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, clipDuration(t, clips[0].Data), 1.0/testSampleRate)
}

func TestExtractRejectsInvalidRegions(t *testing.T) {
	path := writeTestAsset(t, 10)
	extractor := NewExtractor()

	tests := []struct {
		name    string
		regions []model.Region
		index   int
	}{
		{"end before start", []model.Region{{Start: 1, End: 2}, {Start: 4, End: 3}}, 2},
		{"zero length", []model.Region{{Start: 5, End: 5}}, 1},
		{"negative start", []model.Region{{Start: -0.5, End: 2}}, 1},
		{"end past duration", []model.Region{{Start: 1, End: 2}, {Start: 2, End: 11}}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clips, err := extractor.Extract(path, "", tt.regions)
			require.Error(t, err)
			assert.Nil(t, clips, "no clips may be committed when any region is invalid")

			var invalid *InvalidRegionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.index, invalid.Index)
		})
	}
}

func TestExtractErrorCarriesTrackName(t *testing.T) {
	path := writeTestAsset(t, 10)
	extractor := NewExtractor()

	_, err := extractor.Extract(path, "Drums", []model.Region{{Start: 3, End: 1}})
	var invalid *InvalidRegionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Drums", invalid.Track)
	assert.Contains(t, err.Error(), "Drums")
}

func TestExtractFullAsset(t *testing.T) {
	path := writeTestAsset(t, 2)
	extractor := NewExtractor()

	clips, err := extractor.Extract(path, "", []model.Region{{Start: 0, End: 2}})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, clipDuration(t, clips[0].Data), 1.0/testSampleRate)
}
