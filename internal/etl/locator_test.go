package etl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// mergedHeaderGrid mimics a RESUMEN sheet whose bank header uses merged
// cells: each bank label appears once, followed by a blank cell.
func mergedHeaderGrid() [][]string {
	return [][]string{
		{"PROGRAMACION DE PAGOS - SEMANA 1"},
		{"", "BCP", "", "SCOTIABANK S.A.", "", "SANTANDER", "", "INTERBANK", "", "TOTAL", ""},
		{"", "PEN", "USD", "PEN", "USD", "PEN", "USD", "PEN", "USD", "PEN", "USD"},
		{"TOTAL A PAGAR", "1,000.50", "200", "-", "", "300", "0", "50", "60", "1,350.50", "260"},
	}
}

// repeatedHeaderGrid carries the same data with fully repeated bank
// headers, no merged-cell gaps.
func repeatedHeaderGrid() [][]string {
	g := mergedHeaderGrid()
	g[1] = []string{"", "BCP", "BCP", "SCOTIABANK S.A.", "SCOTIABANK S.A.", "SANTANDER", "SANTANDER", "INTERBANK", "INTERBANK", "TOTAL", "TOTAL"}
	return g
}

func TestLocateTotalBlock(t *testing.T) {
	block, ok := LocateTotalBlock(mergedHeaderGrid(), TotalLabel)
	require.True(t, ok)

	want := map[string]float64{
		"BCP_PEN":        1000.5,
		"BCP_USD":        200,
		"SCOTIABANK_PEN": 0,
		"SCOTIABANK_USD": 0,
		"SANTANDER_PEN":  300,
		"SANTANDER_USD":  0,
		"INTERBANK_PEN":  50,
		"INTERBANK_USD":  60,
		"TOTAL_PEN":      1350.5,
		"TOTAL_USD":      260,
	}
	assert.Equal(t, want, block.Amounts)
}

func TestLocateTotalBlockMergedEqualsRepeated(t *testing.T) {
	merged, ok := LocateTotalBlock(mergedHeaderGrid(), TotalLabel)
	require.True(t, ok)
	repeated, ok := LocateTotalBlock(repeatedHeaderGrid(), TotalLabel)
	require.True(t, ok)

	assert.Equal(t, repeated.Amounts, merged.Amounts)
}

func TestLocateTotalBlockLabelNormalization(t *testing.T) {
	g := mergedHeaderGrid()
	g[3][0] = "  total a pagar  "
	_, ok := LocateTotalBlock(g, TotalLabel)
	assert.True(t, ok)
}

func TestLocateTotalBlockFirstLabelRowWins(t *testing.T) {
	g := mergedHeaderGrid()
	// A second label row further down with different values must be ignored.
	g = append(g, []string{"TOTAL A PAGAR", "9999", "9999", "9999", "9999", "9999", "9999", "9999", "9999", "9999", "9999"})
	block, ok := LocateTotalBlock(g, TotalLabel)
	require.True(t, ok)
	assert.Equal(t, 1000.5, block.Amounts["BCP_PEN"])
}

func TestLocateTotalBlockNotFound(t *testing.T) {
	t.Run("no label row", func(t *testing.T) {
		g := [][]string{{"BCP"}, {"PEN"}, {"SUBTOTAL", "100"}}
		_, ok := LocateTotalBlock(g, TotalLabel)
		assert.False(t, ok)
	})

	t.Run("label too close to top for headers", func(t *testing.T) {
		g := [][]string{{"TOTAL A PAGAR", "100"}, {"BCP"}, {"PEN"}}
		_, ok := LocateTotalBlock(g, TotalLabel)
		assert.False(t, ok)
	})

	t.Run("no recognizable columns", func(t *testing.T) {
		g := [][]string{
			{"titulo"},
			{"", "BANCO DESCONOCIDO", ""},
			{"", "EUR", "GBP"},
			{"TOTAL A PAGAR", "100", "200"},
		}
		_, ok := LocateTotalBlock(g, TotalLabel)
		assert.False(t, ok)
	})

	t.Run("empty grid", func(t *testing.T) {
		_, ok := LocateTotalBlock(nil, TotalLabel)
		assert.False(t, ok)
	})
}

// writeTestReport builds a minimal real workbook with the given sheet
// name and the merged-header summary block, the same approach the loader
// tests use.
func writeTestReport(t *testing.T, path, sheet string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for i, row := range mergedHeaderGrid() {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &cells))
	}
	require.NoError(t, f.SaveAs(path))
}

func TestParseReportFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid workbook", func(t *testing.T) {
		path := filepath.Join(dir, "PAGOS 03.01.2025.xlsx")
		writeTestReport(t, path, SheetName)

		block, ok := ParseReportFile(path, SheetName)
		require.True(t, ok)
		assert.Equal(t, 1000.5, block.Amounts["BCP_PEN"])
		assert.Len(t, block.Amounts, 10)
	})

	t.Run("missing sheet", func(t *testing.T) {
		path := filepath.Join(dir, "wrong-sheet.xlsx")
		writeTestReport(t, path, "OTRA HOJA")

		_, ok := ParseReportFile(path, SheetName)
		assert.False(t, ok)
	})

	t.Run("corrupt file", func(t *testing.T) {
		path := filepath.Join(dir, "corrupt.xlsx")
		require.NoError(t, os.WriteFile(path, []byte("not a workbook"), 0o644))

		_, ok := ParseReportFile(path, SheetName)
		assert.False(t, ok)
	})
}
