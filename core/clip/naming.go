package clip

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/RA1LGUN/AudioClipTool/model"
)

// Name builds the deterministic clip filename for the region at the given
// 1-based position within its track.
func Name(index int, r model.Region) string {
	return fmt.Sprintf("clip_%03d_%.3fs-%.3fs.wav", index, r.Start, r.End)
}

// SanitizeTrackName reduces a user-supplied track name to a filesystem and
// object-key safe form: letters, digits, spaces, hyphens and underscores are
// kept, everything else becomes an underscore. An empty result falls back to
// the given fallback (the asset handle). Idempotent.
func SanitizeTrackName(name, fallback string) string {
	var b strings.Builder
	for _, c := range name {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == ' ' || c == '-' || c == '_' {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	safe := strings.TrimSpace(b.String())
	if safe == "" {
		return fallback
	}
	return safe
}
