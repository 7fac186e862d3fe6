package model

// ContentType tags a content item for the downstream aggregation consumer.
type ContentType string

const (
	ContentTitle ContentType = "TITLE"
	ContentAudio ContentType = "AUDIO"
	ContentText  ContentType = "TEXT"
)

// ContentItem is one entry in the ordered feed produced by a reshaped
// publish export.
type ContentItem struct {
	Content string      `json:"content"`
	Type    ContentType `json:"type"`
}

// ContentFeed is the envelope shape the aggregation consumer expects:
// a single-element list wrapping the ordered data items.
type ContentFeed struct {
	Info ContentInfo `json:"info"`
}

// ContentInfo wraps the ordered content items.
type ContentInfo struct {
	Data []ContentItem `json:"data"`
}
