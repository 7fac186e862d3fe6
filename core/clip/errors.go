package clip

import (
	"errors"
	"fmt"
)

var (
	// ErrNoRegions is returned when a clip request carries an empty region list.
	ErrNoRegions = errors.New("no regions specified")
	// ErrNoTracks is returned when a multi-track request carries no tracks.
	ErrNoTracks = errors.New("no tracks specified")
)

// InvalidRegionError reports a malformed or out-of-bounds region. Index is
// the 1-based position of the region within its track's region list.
type InvalidRegionError struct {
	Track  string // Empty for single-track requests
	Index  int
	Start  float64
	End    float64
	Reason string
}

func (e *InvalidRegionError) Error() string {
	if e.Track != "" {
		return fmt.Sprintf("track '%s': invalid region %d (%.3fs-%.3fs): %s",
			e.Track, e.Index, e.Start, e.End, e.Reason)
	}
	return fmt.Sprintf("invalid region %d (%.3fs-%.3fs): %s",
		e.Index, e.Start, e.End, e.Reason)
}
