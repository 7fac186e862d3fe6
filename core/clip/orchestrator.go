package clip

import (
	"github.com/RA1LGUN/AudioClipTool/logger"
	"github.com/RA1LGUN/AudioClipTool/model"
)

// Resolver resolves an asset handle to its canonical file path. Implemented
// by the workspace store.
type Resolver interface {
	Resolve(handle string) (string, error)
}

// TrackClips is the ordered output for one track: its sanitized name, the
// handle it was cut from, and the extracted clips in region order.
type TrackClips struct {
	TrackName string
	SafeName  string
	Handle    string
	Clips     []Clip
}

// Orchestrator fans the extractor out over a set of named tracks.
type Orchestrator struct {
	store     Resolver
	extractor *Extractor
}

// NewOrchestrator creates an Orchestrator backed by the given store.
func NewOrchestrator(store Resolver) *Orchestrator {
	return &Orchestrator{store: store, extractor: NewExtractor()}
}

// Export resolves and extracts every track. The contract is all-or-nothing:
// a missing handle or an invalid region in any track fails the whole request
// before a single clip is handed to an exporter. Tracks with an empty region
// list are resolved but contribute nothing; that is not an error.
func (o *Orchestrator) Export(tracks []model.TrackClipRequest) ([]TrackClips, error) {
	if len(tracks) == 0 {
		return nil, ErrNoTracks
	}

	out := make([]TrackClips, 0, len(tracks))
	for _, track := range tracks {
		path, err := o.store.Resolve(track.FileID)
		if err != nil {
			return nil, err
		}
		if len(track.Regions) == 0 {
			logger.Info("track has no regions, skipping",
				logger.String("track", track.TrackName),
				logger.String("handle", track.FileID))
			continue
		}

		// Sanitized once per track so every clip shares a stable
		// archive path / storage key prefix.
		safe := SanitizeTrackName(track.TrackName, track.FileID)

		clips, err := o.extractor.Extract(path, track.TrackName, track.Regions)
		if err != nil {
			return nil, err
		}
		out = append(out, TrackClips{
			TrackName: track.TrackName,
			SafeName:  safe,
			Handle:    track.FileID,
			Clips:     clips,
		})
	}
	return out, nil
}

// ExportSingle extracts regions from one asset without a track name. Clip
// numbering starts at 001 exactly as in the multi-track case.
func (o *Orchestrator) ExportSingle(handle string, regions []model.Region) (TrackClips, error) {
	path, err := o.store.Resolve(handle)
	if err != nil {
		return TrackClips{}, err
	}
	if len(regions) == 0 {
		return TrackClips{}, ErrNoRegions
	}
	clips, err := o.extractor.Extract(path, "", regions)
	if err != nil {
		return TrackClips{}, err
	}
	return TrackClips{
		SafeName: handle,
		Handle:   handle,
		Clips:    clips,
	}, nil
}
