// Package archive handles uploaded report archives: ZIP extraction into
// managed temporary storage, memoized by a content fingerprint so the
// same upload is never extracted twice, with storage release tied to the
// entry's lifecycle.
package archive

import (
	"archive/zip"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Extractor extracts ZIP archives of report trees and caches the result
// keyed by the SHA-256 of the archive bytes. Re-uploading identical
// bytes reuses the existing extraction; different bytes under the same
// name get a fresh one.
type Extractor struct {
	baseDir string
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[string]*extraction
}

type extraction struct {
	dir   string
	roots []string
}

// NewExtractor creates an extractor working under baseDir. The directory
// is created if missing.
func NewExtractor(baseDir string, logger *slog.Logger) (*Extractor, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create extraction base dir: %w", err)
	}
	return &Extractor{
		baseDir: baseDir,
		logger:  logger.With(slog.String("component", "archive_extractor")),
		entries: make(map[string]*extraction),
	}, nil
}

// Key returns the cache key for an archive's bytes.
func Key(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Extract unpacks the archive and returns the root directories the
// loader should walk: the archive's top-level directories, or the
// extraction directory itself when files sit at the archive root. A
// repeated upload with identical bytes returns the cached roots without
// touching disk.
func (e *Extractor) Extract(data []byte) (key string, roots []string, err error) {
	key = Key(data)

	e.mu.Lock()
	defer e.mu.Unlock()

	if cached, ok := e.entries[key]; ok {
		e.logger.Debug("archive already extracted", "key", key, "dir", cached.dir)
		return key, cached.roots, nil
	}

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, fmt.Errorf("open archive: %w", err)
	}

	dir := filepath.Join(e.baseDir, uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create extraction dir: %w", err)
	}

	topLevel := make(map[string]bool)
	rootHasFiles := false
	for _, f := range reader.File {
		if err := extractFile(dir, f); err != nil {
			os.RemoveAll(dir)
			return "", nil, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		name := filepath.ToSlash(f.Name)
		if top, rest, found := strings.Cut(name, "/"); found && rest != "" {
			topLevel[top] = true
		} else if !f.FileInfo().IsDir() {
			rootHasFiles = true
		}
	}

	if rootHasFiles || len(topLevel) == 0 {
		roots = []string{dir}
	} else {
		for top := range topLevel {
			roots = append(roots, filepath.Join(dir, top))
		}
		sort.Strings(roots)
	}

	e.entries[key] = &extraction{dir: dir, roots: roots}
	e.logger.Info("archive extracted",
		"key", key,
		"files", len(reader.File),
		"roots", len(roots))
	return key, roots, nil
}

// Release evicts one cache entry and deletes its extracted tree.
func (e *Extractor) Release(key string) error {
	e.mu.Lock()
	entry, ok := e.entries[key]
	delete(e.entries, key)
	e.mu.Unlock()

	if !ok {
		return nil
	}
	if err := os.RemoveAll(entry.dir); err != nil {
		return fmt.Errorf("remove extraction dir: %w", err)
	}
	e.logger.Info("archive extraction released", "key", key)
	return nil
}

// Close releases every cached extraction.
func (e *Extractor) Close() error {
	e.mu.Lock()
	entries := e.entries
	e.entries = make(map[string]*extraction)
	e.mu.Unlock()

	var firstErr error
	for key, entry := range entries {
		if err := os.RemoveAll(entry.dir); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("remove extraction dir for %s: %w", key, err)
		}
	}
	return firstErr
}

// extractFile writes one archive member under dir, refusing paths that
// escape it.
func extractFile(dir string, f *zip.File) error {
	cleaned := filepath.Clean(filepath.FromSlash(f.Name))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(os.PathSeparator)) || filepath.IsAbs(cleaned) {
		return fmt.Errorf("illegal path %q", f.Name)
	}
	target := filepath.Join(dir, cleaned)

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
