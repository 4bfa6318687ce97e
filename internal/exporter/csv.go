// Package exporter writes payment tables to CSV, in long form (one row
// per date, bank and currency) and in the wide layout the source
// workbooks use (one row per date, one column per bank_currency pair).
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"pagoscli/pkg/contracts/domain"
)

// LongHeader is the column order of the long-form export.
var LongHeader = []string{"FECHA", "BANCO", "MONEDA", "Valor", "DiaNombre"}

// WriteOptions configures CSV writing behavior.
type WriteOptions struct {
	// BOMPrefix adds a UTF-8 BOM so Excel opens the file correctly.
	BOMPrefix bool
}

// WriteLongCSV writes the table in long form to path, creating parent
// directories as needed.
func WriteLongCSV(path string, table *domain.PaymentsTable, opts WriteOptions) error {
	records := make([][]string, 0, table.Len())
	for _, r := range table.Rows {
		records = append(records, []string{
			r.Fecha.Format("2006-01-02"),
			r.Banco,
			r.Moneda,
			formatValor(r.Valor),
			r.DiaNombre,
		})
	}
	return writeCSV(path, LongHeader, records, opts)
}

// WriteWideCSV writes one row per date with a bank_currency column for
// every vocabulary pair. Pairs absent on a date are written as 0.00.
func WriteWideCSV(path string, table *domain.PaymentsTable, opts WriteOptions) error {
	columns := domain.ColumnNames()
	header := append([]string{"FECHA"}, columns...)

	byDate := make(map[time.Time]map[string]float64)
	var dates []time.Time
	for _, r := range table.Rows {
		row, ok := byDate[r.Fecha]
		if !ok {
			row = make(map[string]float64, len(columns))
			byDate[r.Fecha] = row
			dates = append(dates, r.Fecha)
		}
		row[domain.ColumnName(r.Banco, r.Moneda)] = r.Valor
	}

	records := make([][]string, 0, len(dates))
	for _, d := range dates {
		rec := make([]string, 0, len(header))
		rec = append(rec, d.Format("2006-01-02"))
		for _, col := range columns {
			rec = append(rec, formatValor(byDate[d][col]))
		}
		records = append(records, rec)
	}
	return writeCSV(path, header, records, opts)
}

func writeCSV(path string, header []string, records [][]string, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	if opts.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv writer error: %w", err)
	}
	return nil
}

// formatValor keeps two decimal places so amounts like 13.4 export as
// 13.40.
func formatValor(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
