// Package workspace owns the ephemeral canonical-audio assets: opaque handle
// generation, handle resolution, explicit deletion, and time-to-live expiry.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/RA1LGUN/AudioClipTool/logger"
)

// Ext is the canonical asset extension. One file per handle, named
// {handle}{Ext}, lives under the store directory.
const Ext = ".wav"

// NotFoundError reports a handle with no live asset behind it, either because
// it was never created or because it expired.
type NotFoundError struct {
	Handle string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("audio file not found: %s", e.Handle)
}

// Meta is the best-effort sidecar metadata registered at ingestion time.
// It expires together with the asset; absence is never an error.
type Meta struct {
	DisplayName string
	Duration    float64
}

// Store maps opaque handles to canonical audio files on local ephemeral
// storage. The backing filesystem is the only shared mutable state in the
// service; concurrent reads of the same handle are safe.
type Store struct {
	dir  string
	ttl  time.Duration
	meta *gocache.Cache
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace directory %s: %w", dir, err)
	}
	return &Store{
		dir:  dir,
		ttl:  ttl,
		meta: gocache.New(ttl, ttl),
	}, nil
}

// NewHandle returns a fresh opaque handle. Handles are random, never derived
// from content, and never reused after deletion.
func (s *Store) NewHandle() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
}

// Path returns the canonical asset path reserved for handle, whether or not
// an asset has been written there yet.
func (s *Store) Path(handle string) string {
	return filepath.Join(s.dir, handle+Ext)
}

// Resolve returns the asset path for handle, or a NotFoundError if no asset
// exists (including after expiry). On success the file's mtime is advanced so
// that an asset in active use ages from its last access, keeping the sweeper
// away from assets that a concurrent extraction may still be reading.
func (s *Store) Resolve(handle string) (string, error) {
	path := s.Path(handle)
	if _, err := os.Stat(path); err != nil {
		return "", &NotFoundError{Handle: handle}
	}
	now := time.Now()
	if err := os.Chtimes(path, now, now); err != nil {
		// Bookkeeping only; the asset is still readable.
		logger.Warn("failed to touch asset",
			logger.String("handle", handle),
			logger.ErrorField(err))
	}
	return path, nil
}

// Register records display metadata for a handle. The entry expires together
// with the asset.
func (s *Store) Register(handle, displayName string, duration float64) {
	s.meta.Set(handle, Meta{DisplayName: displayName, Duration: duration}, gocache.DefaultExpiration)
}

// Lookup returns registered metadata for a handle, if any.
func (s *Store) Lookup(handle string) (Meta, bool) {
	if v, ok := s.meta.Get(handle); ok {
		return v.(Meta), true
	}
	return Meta{}, false
}

// Delete removes the asset for handle. Deleting an already-deleted asset is
// not an error.
func (s *Store) Delete(handle string) error {
	s.meta.Delete(handle)
	err := os.Remove(s.Path(handle))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete asset %s: %w", handle, err)
	}
	return nil
}

// Sweep deletes every asset whose age (since last access) exceeds the TTL.
// Idempotent; per-file failures are logged and do not fail the sweep.
func (s *Store) Sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.Error("workspace sweep failed to read directory",
			logger.String("dir", s.dir),
			logger.ErrorField(err))
		return
	}

	now := time.Now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) <= s.ttl {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !os.IsNotExist(err) {
			logger.Warn("workspace sweep failed to delete file",
				logger.String("file", entry.Name()),
				logger.ErrorField(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		logger.Info("workspace sweep removed expired assets", logger.Int("removed", removed))
	}
}
