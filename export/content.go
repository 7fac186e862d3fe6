package export

import (
	"fmt"

	"github.com/RA1LGUN/AudioClipTool/model"
)

// ContentItems reshapes published clips into the ordered feed consumed by
// the downstream content-aggregation system: for every clip, in order, one
// TITLE entry, one AUDIO entry and one TEXT entry with the region bounds.
// The expansion never omits or reorders clips.
func ContentItems(published []PublishedClip) []model.ContentItem {
	items := make([]model.ContentItem, 0, len(published)*3)
	for _, p := range published {
		items = append(items,
			model.ContentItem{Content: p.Name, Type: model.ContentTitle},
			model.ContentItem{Content: p.URL, Type: model.ContentAudio},
			model.ContentItem{
				Content: fmt.Sprintf("start timestamp %.3f / end timestamp %.3f", p.Start, p.End),
				Type:    model.ContentText,
			},
		)
	}
	return items
}
