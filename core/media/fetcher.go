// Package media fetches remote resources and turns them into canonical
// workspace assets.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/RA1LGUN/AudioClipTool/logger"
)

const maxFetchRetries = 2

// FetchError reports a failed remote fetch. The extractor's own output is
// passed through as the cause; callers treat the failure as retryable.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("download failed for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher downloads remote media with yt-dlp and extracts its audio track
// into the canonical format.
type Fetcher struct {
	ytdlpPath string
	proxy     string
}

// NewFetcher creates a Fetcher using the given yt-dlp binary. proxy may be
// empty.
func NewFetcher(ytdlpPath, proxy string) *Fetcher {
	return &Fetcher{ytdlpPath: ytdlpPath, proxy: proxy}
}

// Fetch downloads the resource at url, extracts its best audio track as
// canonical WAV at outputPath, and returns the resource title. Transient
// failures are retried with exponential backoff; ctx bounds the whole
// operation including retries.
func (f *Fetcher) Fetch(ctx context.Context, url, outputPath string) (string, error) {
	if url == "" {
		return "", &FetchError{URL: url, Err: errors.New("url cannot be empty")}
	}

	// yt-dlp substitutes the intermediate extension itself; the wav
	// postprocessor lands the final file at outputPath.
	template := strings.TrimSuffix(outputPath, ".wav") + ".%(ext)s"

	args := []string{
		"--format", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "wav",
		"--audio-quality", "0",
		"--no-playlist",
		"--no-warnings",
		"--print-json",
		"--output", template,
	}
	if f.proxy != "" {
		args = append(args, "--proxy", f.proxy)
	}
	args = append(args, url)

	var title string
	operation := func() error {
		cmd := exec.CommandContext(ctx, f.ytdlpPath, args...)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			logger.Warn("yt-dlp attempt failed",
				logger.String("url", url),
				logger.ErrorField(err))
			return fmt.Errorf("yt-dlp: %w: %s", err, strings.TrimSpace(stderr.String()))
		}

		var info struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(stdout.Bytes(), &info); err != nil || info.Title == "" {
			title = "audio"
		} else {
			title = info.Title
		}
		return nil
	}

	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries)
	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		return "", &FetchError{URL: url, Err: err}
	}

	// yt-dlp reports success through its exit code; verify the artifact
	// actually landed before handing the handle out.
	if _, err := os.Stat(outputPath); err != nil {
		return "", &FetchError{URL: url, Err: errors.New("audio conversion produced no output")}
	}

	logger.Info("remote fetch complete",
		logger.String("url", url),
		logger.String("title", title))
	return title, nil
}
