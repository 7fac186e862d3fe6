package clip

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RA1LGUN/AudioClipTool/model"
)

func TestName(t *testing.T) {
	assert.Equal(t, "clip_001_2.000s-5.000s.wav", Name(1, model.Region{Start: 2, End: 5}))
	assert.Equal(t, "clip_012_0.250s-1.125s.wav", Name(12, model.Region{Start: 0.25, End: 1.125}))
}

func TestSanitizeTrackName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Drums", "Drums"},
		{"Lead Vocals", "Lead Vocals"},
		{"mix-v2_final", "mix-v2_final"},
		{"side/a:take?1", "side_a_take_1"},
		{"  padded  ", "padded"},
		{"!!!", "___"},
		{"", "fallback123"},
		{"	tabs	", "_tabs_"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeTrackName(tt.in, "fallback123"), "input %q", tt.in)
	}
}

func TestSanitizeTrackNameIdempotent(t *testing.T) {
	inputs := []string{"Drums", "side/a:take?1", "  padded  ", "!!!", "mixed 分track 1"}
	for _, in := range inputs {
		once := SanitizeTrackName(in, "h")
		twice := SanitizeTrackName(once, "h")
		assert.Equal(t, once, twice, "input %q", in)
	}
}
