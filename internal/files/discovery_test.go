package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
}

func TestFindReportFiles(t *testing.T) {
	root := t.TempDir()

	writeFile(t, filepath.Join(root, "ENERO", "PAGOS 03.01.2025.xlsx"))
	writeFile(t, filepath.Join(root, "ENERO", "~$PAGOS 03.01.2025.xlsx"))
	writeFile(t, filepath.Join(root, "FEBRERO", "SEMANA 1", "PAGOS 04.02.2025.XLSX"))
	writeFile(t, filepath.Join(root, "notas.txt"))

	files, err := FindReportFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 2)

	// Sorted by path, lock file and non-report file excluded.
	assert.Equal(t, "PAGOS 03.01.2025.xlsx", files[0].Name)
	assert.Equal(t, "PAGOS 04.02.2025.XLSX", files[1].Name)
}

func TestFindReportFilesEmptyRoot(t *testing.T) {
	files, err := FindReportFiles(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestFingerprintChangesWithContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "PAGOS 03.01.2025.xlsx"))

	before, err := Fingerprint(root)
	require.NoError(t, err)

	writeFile(t, filepath.Join(root, "PAGOS 04.01.2025.xlsx"))

	after, err := Fingerprint(root)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)

	again, err := Fingerprint(root)
	require.NoError(t, err)
	assert.Equal(t, after, again)
}
