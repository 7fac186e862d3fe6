package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RA1LGUN/AudioClipTool/core/clip"
)

type fakeUploader struct {
	keys    []string
	failKey string
}

func (f *fakeUploader) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	if key == f.failKey {
		return "", errors.New("boom")
	}
	f.keys = append(f.keys, key)
	return "https://cdn.example/" + key, nil
}

func twoTrackFixture() []clip.TrackClips {
	return []clip.TrackClips{
		{
			TrackName: "Drums", SafeName: "Drums",
			Clips: []clip.Clip{
				{Name: "clip_001_0.000s-1.000s.wav", Data: []byte("a"), Start: 0, End: 1},
				{Name: "clip_002_1.500s-2.000s.wav", Data: []byte("b"), Start: 1.5, End: 2},
			},
		},
		{
			TrackName: "Bass", SafeName: "Bass",
			Clips: []clip.Clip{
				{Name: "clip_001_3.000s-4.000s.wav", Data: []byte("c"), Start: 3, End: 4},
			},
		},
	}
}

func TestPublishKeysAndOrder(t *testing.T) {
	up := &fakeUploader{}
	published, err := Publish(context.Background(), up, twoTrackFixture(), 1700000000)
	require.NoError(t, err)
	require.Len(t, published, 3)

	assert.Equal(t, []string{
		"clips/1700000000_Drums/clip_001_0.000s-1.000s.wav",
		"clips/1700000000_Drums/clip_002_1.500s-2.000s.wav",
		"clips/1700000000_Bass/clip_001_3.000s-4.000s.wav",
	}, up.keys)

	assert.Equal(t, "clip_001_0.000s-1.000s.wav", published[0].Name)
	assert.Equal(t, "https://cdn.example/clips/1700000000_Drums/clip_001_0.000s-1.000s.wav", published[0].URL)
	assert.Equal(t, 1.5, published[1].Start)
	assert.Equal(t, "Bass", published[2].TrackName)
}

func TestPublishUploadFailureAborts(t *testing.T) {
	up := &fakeUploader{failKey: "clips/42_Drums/clip_002_1.500s-2.000s.wav"}
	published, err := Publish(context.Background(), up, twoTrackFixture(), 42)
	require.Error(t, err)
	assert.Nil(t, published)

	var uploadErr *UploadError
	require.ErrorAs(t, err, &uploadErr)
	assert.Equal(t, "clips/42_Drums/clip_002_1.500s-2.000s.wav", uploadErr.Key)

	// The upload before the failure stays persisted; nothing after it runs.
	assert.Equal(t, []string{"clips/42_Drums/clip_001_0.000s-1.000s.wav"}, up.keys)
}

func TestPublishEmptyTracks(t *testing.T) {
	up := &fakeUploader{}
	published, err := Publish(context.Background(), up, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, published)
	assert.Empty(t, up.keys)
}

func TestContentItemsExpansion(t *testing.T) {
	published := []PublishedClip{
		{Name: "clip_001_2.000s-5.000s.wav", URL: "https://cdn.example/a", Start: 2, End: 5},
		{Name: "clip_002_6.000s-7.500s.wav", URL: "https://cdn.example/b", Start: 6, End: 7.5},
	}

	items := ContentItems(published)
	require.Len(t, items, 6)

	assert.Equal(t, "TITLE", string(items[0].Type))
	assert.Equal(t, "clip_001_2.000s-5.000s.wav", items[0].Content)
	assert.Equal(t, "AUDIO", string(items[1].Type))
	assert.Equal(t, "https://cdn.example/a", items[1].Content)
	assert.Equal(t, "TEXT", string(items[2].Type))
	assert.Equal(t, "start timestamp 2.000 / end timestamp 5.000", items[2].Content)

	assert.Equal(t, "clip_002_6.000s-7.500s.wav", items[3].Content)
	assert.Equal(t, "https://cdn.example/b", items[4].Content)
	assert.Equal(t, "start timestamp 6.000 / end timestamp 7.500", items[5].Content)
}

func TestContentItemsEmpty(t *testing.T) {
	assert.Empty(t, ContentItems(nil))
}
