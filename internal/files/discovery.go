package files

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	// ReportExtension is the workbook extension the loader accepts.
	ReportExtension = ".xlsx"
	// LockFilePrefix marks editor lock/temp files that must never be
	// parsed (Excel leaves them behind while a workbook is open).
	LockFilePrefix = "~$"
)

// FileInfo describes one discovered report workbook.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FindReportFiles walks root recursively and returns every report
// workbook under it, excluding lock files. Results are sorted by path so
// enumeration order is deterministic regardless of filesystem order.
// Unreadable subtrees are skipped, not fatal: folder trees routinely
// contain junk and a load must not abort over one bad entry.
func FindReportFiles(root string) ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, LockFilePrefix) {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ReportExtension) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, FileInfo{
			Path:    path,
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Fingerprint summarizes the discoverable state of a root directory:
// file count, total size and latest modification time. Two equal
// fingerprints mean a cached load of that root is still valid.
func Fingerprint(root string) (string, error) {
	files, err := FindReportFiles(root)
	if err != nil {
		return "", err
	}
	var (
		totalSize int64
		latest    time.Time
	)
	for _, f := range files {
		totalSize += f.Size
		if f.ModTime.After(latest) {
			latest = f.ModTime
		}
	}
	return fmt.Sprintf("%s|n=%d|size=%d|mtime=%d", root, len(files), totalSize, latest.UnixNano()), nil
}
