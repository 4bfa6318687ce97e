package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func newTestExtractor(t *testing.T) *Extractor {
	e, err := NewExtractor(t.TempDir(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestExtractTopLevelDirs(t *testing.T) {
	e := newTestExtractor(t)
	data := buildZip(t, map[string]string{
		"2024/PAGOS 30.12.2024.xlsx": "a",
		"2025/PAGOS 02.01.2025.xlsx": "b",
	})

	_, roots, err := e.Extract(data)
	require.NoError(t, err)
	require.Len(t, roots, 2)

	assert.Equal(t, "2024", filepath.Base(roots[0]))
	assert.Equal(t, "2025", filepath.Base(roots[1]))
	assert.FileExists(t, filepath.Join(roots[0], "PAGOS 30.12.2024.xlsx"))
}

func TestExtractFlatArchive(t *testing.T) {
	e := newTestExtractor(t)
	data := buildZip(t, map[string]string{
		"PAGOS 03.01.2025.xlsx": "a",
	})

	_, roots, err := e.Extract(data)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.FileExists(t, filepath.Join(roots[0], "PAGOS 03.01.2025.xlsx"))
}

func TestExtractCachesByContent(t *testing.T) {
	e := newTestExtractor(t)
	data := buildZip(t, map[string]string{"2025/a.xlsx": "a"})

	key1, roots1, err := e.Extract(data)
	require.NoError(t, err)
	key2, roots2, err := e.Extract(data)
	require.NoError(t, err)

	// Identical bytes reuse the same extraction.
	assert.Equal(t, key1, key2)
	assert.Equal(t, roots1, roots2)

	// Different bytes get a fresh one, even with the same member names.
	other := buildZip(t, map[string]string{"2025/a.xlsx": "changed"})
	key3, roots3, err := e.Extract(other)
	require.NoError(t, err)
	assert.NotEqual(t, key1, key3)
	assert.NotEqual(t, roots1, roots3)
}

func TestReleaseRemovesExtraction(t *testing.T) {
	e := newTestExtractor(t)
	data := buildZip(t, map[string]string{"2025/a.xlsx": "a"})

	key, roots, err := e.Extract(data)
	require.NoError(t, err)
	require.NoError(t, e.Release(key))

	_, statErr := os.Stat(roots[0])
	assert.True(t, os.IsNotExist(statErr))

	// Releasing an unknown key is a no-op.
	assert.NoError(t, e.Release("no-such-key"))
}

func TestExtractRejectsPathTraversal(t *testing.T) {
	e := newTestExtractor(t)
	data := buildZip(t, map[string]string{"../escape.xlsx": "a"})

	_, _, err := e.Extract(data)
	assert.Error(t, err)
}

func TestExtractRejectsGarbage(t *testing.T) {
	e := newTestExtractor(t)
	_, _, err := e.Extract([]byte("not a zip archive"))
	assert.Error(t, err)
}
