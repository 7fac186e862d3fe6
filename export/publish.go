package export

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"

	"github.com/RA1LGUN/AudioClipTool/core/clip"
	"github.com/RA1LGUN/AudioClipTool/logger"
)

const (
	clipContentType  = "audio/wav"
	maxUploadRetries = 2
)

// Uploader persists a byte buffer under a key and returns a publicly
// resolvable URL. Implemented by storage.Client.
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// UploadError reports a failed clip upload. Uploads that already succeeded
// stay published; there is no compensating delete.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed for %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PublishedClip pairs a published clip with its public URL and the region
// bounds it was cut from.
type PublishedClip struct {
	TrackName string
	Name      string
	URL       string
	Start     float64
	End       float64
}

// Publish uploads every clip to blob storage under
// clips/{timestamp}_{safe_name}/{clip_name}, in track and region order, and
// collects the public URLs. A terminally failed upload aborts the rest of
// the request; earlier uploads remain persisted.
func Publish(ctx context.Context, up Uploader, tracks []clip.TrackClips, timestamp int64) ([]PublishedClip, error) {
	var published []PublishedClip
	for _, track := range tracks {
		prefix := fmt.Sprintf("clips/%d_%s", timestamp, track.SafeName)
		for _, c := range track.Clips {
			key := prefix + "/" + c.Name

			var url string
			operation := func() error {
				var err error
				url, err = up.Upload(ctx, key, c.Data, clipContentType)
				return err
			}
			b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxUploadRetries)
			if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
				logger.Error("clip upload failed",
					logger.String("key", key),
					logger.ErrorField(err))
				return nil, &UploadError{Key: key, Err: err}
			}

			published = append(published, PublishedClip{
				TrackName: track.TrackName,
				Name:      c.Name,
				URL:       url,
				Start:     c.Start,
				End:       c.End,
			})
		}
	}
	return published, nil
}
