// Package storage persists uploaded documents on the local filesystem for
// the extractors to read. Document retention is independent of analysis
// records; sweeping a file never touches the job store.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Local stores uploads under a single base directory.
type Local struct {
	baseDir string
}

func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{baseDir: baseDir}, nil
}

func (l *Local) Dir() string { return l.baseDir }

// Save writes an upload as "<prefix>_<sanitized name>" and returns its
// path. The prefix keeps same-named uploads from clobbering each other.
func (l *Local) Save(prefix, sourceName string, r io.Reader) (string, error) {
	path := filepath.Join(l.baseDir, prefix+"_"+SanitizeFilename(sourceName))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}
	return path, nil
}

func (l *Local) Delete(path string) error {
	return os.Remove(path)
}

// SweepOlderThan removes uploads whose modification time is older than
// maxAge and returns how many were removed. Best effort: a file that
// cannot be removed is logged and skipped.
func (l *Local) SweepOlderThan(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(l.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || e.Name() == ".gitkeep" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(l.baseDir, e.Name())); err != nil {
			log.Warn().Err(err).Str("file", e.Name()).Msg("failed to remove expired upload")
			continue
		}
		removed++
	}
	return removed, nil
}

// SanitizeFilename strips path components and maps anything outside
// [A-Za-z0-9._-] to underscores.
func SanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	s := b.String()
	if s == "" || strings.Trim(s, "._") == "" {
		return "upload"
	}
	return s
}
