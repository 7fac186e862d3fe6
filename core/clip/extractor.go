// Package clip cuts time-bounded regions out of canonical audio assets and
// orchestrates extraction across multiple named tracks.
package clip

import (
	"fmt"

	"github.com/RA1LGUN/AudioClipTool/core/audio"
	"github.com/RA1LGUN/AudioClipTool/model"
)

// Clip is one extracted region: canonical-format bytes plus the
// deterministic name derived from its position and bounds.
type Clip struct {
	Name  string
	Data  []byte
	Start float64
	End   float64
}

// Extractor produces clips from a canonical asset. It is stateless and safe
// for concurrent use.
type Extractor struct{}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract cuts each region out of the asset at path, in the order supplied,
// and re-encodes every clip independently. The whole region list is
// validated against the asset duration before the first cut, so an invalid
// region never leaves earlier regions committed to any output. track is used
// for error context only and may be empty.
func (e *Extractor) Extract(path, track string, regions []model.Region) ([]Clip, error) {
	asset, err := audio.ReadPCM(path)
	if err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}

	duration := asset.Format.Duration()
	if err := validateRegions(track, regions, duration); err != nil {
		return nil, err
	}

	clips := make([]Clip, 0, len(regions))
	for i, r := range regions {
		samples := e.slice(asset, r)
		data, err := audio.EncodeWAV(samples, asset.Format)
		if err != nil {
			return nil, fmt.Errorf("failed to encode clip %d: %w", i+1, err)
		}
		clips = append(clips, Clip{
			Name:  Name(i+1, r),
			Data:  data,
			Start: r.Start,
			End:   r.End,
		})
	}
	return clips, nil
}

// slice returns the interleaved samples for the region. Sub-millisecond
// inputs are truncated to millisecond granularity.
func (e *Extractor) slice(asset *audio.Asset, r model.Region) []int {
	startFrame := msToFrame(int(r.Start*1000), asset.Format.SampleRate)
	endFrame := msToFrame(int(r.End*1000), asset.Format.SampleRate)
	if endFrame > asset.Format.TotalFrames {
		endFrame = asset.Format.TotalFrames
	}
	nc := asset.Format.NumChannels
	return asset.Samples[startFrame*nc : endFrame*nc]
}

func msToFrame(ms, sampleRate int) int {
	return ms * sampleRate / 1000
}

// validateRegions rejects any region with end <= start or bounds outside
// [0, duration], identifying the offending region by its 1-based index.
func validateRegions(track string, regions []model.Region, duration float64) error {
	for i, r := range regions {
		var reason string
		switch {
		case r.Start < 0:
			reason = "start is negative"
		case r.End <= r.Start:
			reason = "end must be greater than start"
		case r.End > duration:
			reason = fmt.Sprintf("end exceeds asset duration (%.3fs)", duration)
		default:
			continue
		}
		return &InvalidRegionError{
			Track:  track,
			Index:  i + 1,
			Start:  r.Start,
			End:    r.End,
			Reason: reason,
		}
	}
	return nil
}
