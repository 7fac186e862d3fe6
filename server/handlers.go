package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/RA1LGUN/AudioClipTool/config"
	"github.com/RA1LGUN/AudioClipTool/core/audio"
	"github.com/RA1LGUN/AudioClipTool/core/clip"
	"github.com/RA1LGUN/AudioClipTool/core/media"
	"github.com/RA1LGUN/AudioClipTool/export"
	"github.com/RA1LGUN/AudioClipTool/logger"
	"github.com/RA1LGUN/AudioClipTool/model"
	"github.com/RA1LGUN/AudioClipTool/workspace"
)

const maxUploadSize = 100 << 20 // 100MB

// errStorageUnavailable is returned for publish-mode requests when no blob
// storage credentials were configured.
var errStorageUnavailable = errors.New("blob storage is not configured")

// uploadSemaphore bounds concurrent transcoding uploads.
var uploadSemaphore = make(chan struct{}, 5)

// APIHandler handles all API requests.
type APIHandler struct {
	store        *workspace.Store
	transcoder   *audio.Transcoder
	fetcher      *media.Fetcher
	orchestrator *clip.Orchestrator
	uploader     export.Uploader
	cfg          *config.Config
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(
	store *workspace.Store,
	transcoder *audio.Transcoder,
	fetcher *media.Fetcher,
	orchestrator *clip.Orchestrator,
	uploader export.Uploader,
	cfg *config.Config,
) *APIHandler {
	return &APIHandler{
		store:        store,
		transcoder:   transcoder,
		fetcher:      fetcher,
		orchestrator: orchestrator,
		uploader:     uploader,
		cfg:          cfg,
	}
}

// writeError maps a domain error to its stable outward status and message.
func (h *APIHandler) writeError(w http.ResponseWriter, err error) {
	var (
		notFound      *workspace.NotFoundError
		invalidRegion *clip.InvalidRegionError
		uploadErr     *export.UploadError
		fetchErr      *media.FetchError
		decodeErr     *audio.DecodeError
	)
	switch {
	case errors.As(err, &notFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.As(err, &invalidRegion),
		errors.Is(err, clip.ErrNoRegions),
		errors.Is(err, clip.ErrNoTracks):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &fetchErr), errors.As(err, &decodeErr):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &uploadErr):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, errStorageUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "operation timed out", http.StatusGatewayTimeout)
	default:
		logger.Error("internal error", logger.ErrorField(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", logger.ErrorField(err))
	}
}

// DownloadHandler ingests a remote resource: fetches it, extracts the audio
// as a canonical asset, and returns the new handle with its duration.
func (h *APIHandler) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	var req model.DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		http.Error(w, "Missing 'url' in request", http.StatusBadRequest)
		return
	}
	logger.Info("ingest from URL", logger.String("url", req.URL))

	handle := h.store.NewHandle()
	outputPath := h.store.Path(handle)

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.FetchTimeout)
	defer cancel()

	title, err := h.fetcher.Fetch(ctx, req.URL, outputPath)
	if err != nil {
		h.writeError(w, err)
		return
	}

	format, err := audio.Info(outputPath)
	if err != nil {
		h.writeError(w, fmt.Errorf("fetched asset is not decodable: %w", err))
		return
	}
	duration := format.Duration()
	h.store.Register(handle, title, duration)

	logger.Info("ingest complete",
		logger.String("handle", handle),
		logger.String("title", title),
		logger.Float64("duration", duration))

	writeJSON(w, model.IngestResult{
		FileID:   handle,
		Filename: title,
		Duration: duration,
	})
}

// UploadHandler ingests one or more uploaded files, decoding each into a
// canonical asset. An unsupported or undecodable file fails the request.
func (h *APIHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case uploadSemaphore <- struct{}{}:
		defer func() { <-uploadSemaphore }()
	default:
		http.Error(w, "Server is busy, please try again later", http.StatusServiceUnavailable)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "Failed to parse upload form", http.StatusBadRequest)
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		http.Error(w, "Missing audio files. Please select a file to upload.", http.StatusBadRequest)
		return
	}
	logger.Info("processing upload", logger.Int("files", len(files)))

	results := make([]model.IngestResult, 0, len(files))
	for _, header := range files {
		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !audio.AllowedExtensions[ext] {
			http.Error(w, fmt.Sprintf("Unsupported file type '%s' for '%s'. Allowed: %s",
				ext, header.Filename, audio.AllowedExtensionList()), http.StatusBadRequest)
			return
		}

		result, err := h.ingestUpload(r.Context(), header.Filename, ext, func(dst io.Writer) error {
			src, err := header.Open()
			if err != nil {
				return err
			}
			defer src.Close()
			_, err = io.Copy(dst, src)
			return err
		})
		if err != nil {
			h.writeError(w, err)
			return
		}
		results = append(results, result)
	}

	writeJSON(w, results)
}

// ingestUpload spools uploaded bytes to a temp file, transcodes them into a
// fresh canonical asset, and registers its metadata.
func (h *APIHandler) ingestUpload(ctx context.Context, filename, ext string, copyTo func(io.Writer) error) (model.IngestResult, error) {
	tmp, err := os.CreateTemp("", "ingest-*"+ext)
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := copyTo(tmp); err != nil {
		tmp.Close()
		return model.IngestResult{}, fmt.Errorf("failed to read upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return model.IngestResult{}, fmt.Errorf("failed to flush upload: %w", err)
	}

	handle := h.store.NewHandle()

	ctx, cancel := context.WithTimeout(ctx, h.cfg.FetchTimeout)
	defer cancel()
	if err := h.transcoder.Transcode(ctx, tmp.Name(), h.store.Path(handle)); err != nil {
		// The transcoder only knows the temp name; report the original.
		var decodeErr *audio.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Name = filename
		}
		return model.IngestResult{}, err
	}

	format, err := audio.Info(h.store.Path(handle))
	if err != nil {
		return model.IngestResult{}, fmt.Errorf("transcoded asset is not decodable: %w", err)
	}
	duration := format.Duration()

	displayName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if displayName == "" {
		displayName = "audio"
	}
	h.store.Register(handle, displayName, duration)

	logger.Info("upload ingested",
		logger.String("handle", handle),
		logger.String("name", displayName),
		logger.Float64("duration", duration))

	return model.IngestResult{
		FileID:   handle,
		Filename: displayName,
		Duration: duration,
	}, nil
}

// AudioHandler serves the canonical bytes of an asset for playback.
func (h *APIHandler) AudioHandler(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["file_id"]
	path, err := h.store.Resolve(handle)
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "audio/wav")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", handle+workspace.Ext))
	http.ServeFile(w, r, path)
}

// DeleteAudioHandler explicitly deletes an asset. Deleting an unknown or
// already-expired handle succeeds.
func (h *APIHandler) DeleteAudioHandler(w http.ResponseWriter, r *http.Request) {
	handle := mux.Vars(r)["file_id"]
	if err := h.store.Delete(handle); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClipHandler extracts regions from one asset and delivers the clips in the
// requested mode: a ZIP archive (bundle) or published URLs (publish, the
// default).
func (h *APIHandler) ClipHandler(w http.ResponseWriter, r *http.Request) {
	var req model.ClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mode, ok := normalizeMode(req.Mode)
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown export mode '%s'", req.Mode), http.StatusBadRequest)
		return
	}
	logger.Info("clip request",
		logger.String("handle", req.FileID),
		logger.Int("regions", len(req.Regions)),
		logger.String("mode", string(mode)))

	track, err := h.orchestrator.ExportSingle(req.FileID, req.Regions)
	if err != nil {
		h.writeError(w, err)
		return
	}
	tracks := []clip.TrackClips{track}

	switch mode {
	case model.ModeBundle:
		h.serveBundle(w, "clips_"+req.FileID+".zip", tracks)
	case model.ModePublish:
		published, err := h.publish(r.Context(), tracks)
		if err != nil {
			h.writeError(w, err)
			return
		}
		links := make([]model.ClipLink, 0, len(published))
		for _, p := range published {
			links = append(links, model.ClipLink{Name: p.Name, URL: p.URL})
		}
		writeJSON(w, map[string][]model.ClipLink{"clips": links})
	}
}

// ClipMultiHandler extracts regions across several named tracks. Bundle mode
// returns one archive with a directory per track; publish mode returns the
// reshaped content-item feed.
func (h *APIHandler) ClipMultiHandler(w http.ResponseWriter, r *http.Request) {
	var req model.ClipMultiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	mode, ok := normalizeMode(req.Mode)
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown export mode '%s'", req.Mode), http.StatusBadRequest)
		return
	}

	totalRegions := 0
	for _, t := range req.Tracks {
		totalRegions += len(t.Regions)
	}
	logger.Info("multi-track clip request",
		logger.Int("tracks", len(req.Tracks)),
		logger.Int("totalRegions", totalRegions),
		logger.String("mode", string(mode)))

	tracks, err := h.orchestrator.Export(req.Tracks)
	if err != nil {
		h.writeError(w, err)
		return
	}

	switch mode {
	case model.ModeBundle:
		h.serveBundle(w, fmt.Sprintf("clips_%d.zip", time.Now().Unix()), tracks)
	case model.ModePublish:
		published, err := h.publish(r.Context(), tracks)
		if err != nil {
			h.writeError(w, err)
			return
		}
		feed := []model.ContentFeed{{Info: model.ContentInfo{Data: export.ContentItems(published)}}}
		logger.Info("multi-track publish done", logger.Int("dataItems", len(feed[0].Info.Data)))
		writeJSON(w, feed)
	}
}

func (h *APIHandler) serveBundle(w http.ResponseWriter, filename string, tracks []clip.TrackClips) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := export.WriteBundle(w, tracks); err != nil {
		// Headers are gone; all we can do is log and drop the connection.
		logger.Error("failed to stream bundle", logger.ErrorField(err))
	}
}

func (h *APIHandler) publish(ctx context.Context, tracks []clip.TrackClips) ([]export.PublishedClip, error) {
	if h.uploader == nil {
		return nil, errStorageUnavailable
	}
	return export.Publish(ctx, h.uploader, tracks, time.Now().Unix())
}

// normalizeMode validates the requested export mode at the boundary. Empty
// means publish, the behavior the original UI relies on.
func normalizeMode(mode model.ExportMode) (model.ExportMode, bool) {
	switch mode {
	case "":
		return model.ModePublish, true
	case model.ModeBundle, model.ModePublish:
		return mode, true
	default:
		return "", false
	}
}
