// Package export packages extracted clips for delivery: a single ZIP archive
// (bundle mode) or individually published objects in blob storage with an
// optional content-item reshape (publish mode).
package export

import (
	"archive/zip"
	"fmt"
	"io"

	"github.com/RA1LGUN/AudioClipTool/core/clip"
)

// WriteBundle streams all clips as one ZIP archive to w. Multi-track
// exports place each clip at {safe_track_name}/{clip_name}; single-track
// exports (no track name) use flat entries. Clips arrive fully extracted,
// so by the time the first archive byte is written nothing can fail halfway
// into the artifact except the writer itself.
func WriteBundle(w io.Writer, tracks []clip.TrackClips) error {
	zw := zip.NewWriter(w)

	for _, track := range tracks {
		for _, c := range track.Clips {
			name := c.Name
			if track.TrackName != "" {
				name = track.SafeName + "/" + c.Name
			}
			entry, err := zw.Create(name)
			if err != nil {
				return fmt.Errorf("failed to create archive entry %s: %w", name, err)
			}
			if _, err := entry.Write(c.Data); err != nil {
				return fmt.Errorf("failed to write archive entry %s: %w", name, err)
			}
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
