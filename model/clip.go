package model

// Region is a caller-specified (start, end) time range in seconds to extract
// from an asset. Bounds are validated against the asset duration before any
// clip is cut.
type Region struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// ExportMode selects how extracted clips are delivered.
type ExportMode string

const (
	// ModeBundle returns all clips as a single streamed ZIP archive.
	ModeBundle ExportMode = "bundle"
	// ModePublish persists each clip to object storage and returns URLs.
	ModePublish ExportMode = "publish"
)

// DownloadRequest asks the service to fetch a remote resource and ingest its
// audio as a new workspace asset.
type DownloadRequest struct {
	URL string `json:"url"`
}

// ClipRequest extracts regions from a single asset.
type ClipRequest struct {
	FileID  string     `json:"file_id"`
	Regions []Region   `json:"regions"`
	Mode    ExportMode `json:"mode,omitempty"`
}

// TrackClipRequest is one named track within a multi-track export: an asset
// handle plus the ordered regions to cut from it.
type TrackClipRequest struct {
	FileID    string   `json:"file_id"`
	TrackName string   `json:"track_name"`
	Regions   []Region `json:"regions"`
}

// ClipMultiRequest extracts regions across several named tracks.
type ClipMultiRequest struct {
	Tracks []TrackClipRequest `json:"tracks"`
	Mode   ExportMode         `json:"mode,omitempty"`
}

// IngestResult describes a newly created workspace asset.
type IngestResult struct {
	FileID   string  `json:"file_id"`
	Filename string  `json:"filename"`
	Duration float64 `json:"duration"`
}

// ClipLink pairs a clip name with the public URL it was published under.
type ClipLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
