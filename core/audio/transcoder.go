package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/RA1LGUN/AudioClipTool/logger"
)

// AllowedExtensions lists the upload container formats the transcoder
// accepts. Everything is normalized to canonical WAV on ingestion.
var AllowedExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".flac": true, ".ogg": true, ".m4a": true,
	".aac": true, ".wma": true, ".opus": true, ".webm": true,
}

// AllowedExtensionList returns the accepted extensions in sorted order for
// user-facing error messages.
func AllowedExtensionList() string {
	exts := make([]string, 0, len(AllowedExtensions))
	for ext := range AllowedExtensions {
		exts = append(exts, ext)
	}
	// Small fixed set, insertion order is map order; sort for stable output.
	for i := 0; i < len(exts); i++ {
		for j := i + 1; j < len(exts); j++ {
			if exts[j] < exts[i] {
				exts[i], exts[j] = exts[j], exts[i]
			}
		}
	}
	return strings.Join(exts, ", ")
}

// DecodeError reports a failure to decode uploaded bytes into the canonical
// format. The cause text is passed through to the caller.
type DecodeError struct {
	Name string // Original filename, for the error message
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode '%s': %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Transcoder decodes arbitrary input encodings to the canonical format
// using ffmpeg.
type Transcoder struct {
	ffmpegPath string
}

// NewTranscoder creates a Transcoder using the given ffmpeg binary.
func NewTranscoder(ffmpegPath string) *Transcoder {
	return &Transcoder{ffmpegPath: ffmpegPath}
}

// Transcode decodes the audio at inputPath and writes it as canonical
// 16-bit PCM WAV at outputPath. The input container/codec is whatever ffmpeg
// can identify; failures carry ffmpeg's stderr as the cause.
func (t *Transcoder) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	args := []string{
		"-y",
		"-i", inputPath,
		"-vn",
		"-acodec", "pcm_s16le",
		outputPath,
	}

	cmd := exec.CommandContext(ctx, t.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("running ffmpeg",
		logger.String("input", inputPath),
		logger.String("output", outputPath))

	if err := cmd.Run(); err != nil {
		// Never leave a half-written canonical asset behind.
		os.Remove(outputPath)
		return &DecodeError{
			Name: filepath.Base(inputPath),
			Err:  fmt.Errorf("ffmpeg: %w: %s", err, lastLine(stderr.String())),
		}
	}
	return nil
}

// lastLine trims ffmpeg's banner noise down to the line that states the
// actual failure.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return s
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
