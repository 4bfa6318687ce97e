package etl

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"pagoscli/pkg/contracts/domain"
)

const (
	// SheetName is the sheet every report keeps its summary block on.
	SheetName = "RESUMEN"
	// TotalLabel marks the row holding the per-bank totals.
	TotalLabel = "TOTAL A PAGAR"
)

// TotalBlock holds the amounts of one report's total row, keyed by wide
// column name ("BCP_PEN", ...). Every vocabulary combination is present;
// combinations the report did not carry are 0.0, so every successfully
// parsed file yields the same column set.
type TotalBlock struct {
	Amounts map[string]float64
}

// LocateTotalBlock finds the labeled total row in a raw grid and maps its
// columns to bank/currency pairs using the two header rows directly above
// it. Both header rows are forward-filled first, because merged header
// cells come back as a value followed by blanks.
//
// Returns ok=false when the grid has no label row, the label row has no
// two rows above it, or no column resolves to a recognized bank/currency
// pair. The last case deliberately distinguishes "file has no usable
// total block" from "totals were legitimately zero".
func LocateTotalBlock(rows [][]string, label string) (TotalBlock, bool) {
	want := strings.ToUpper(strings.TrimSpace(label))

	// First matching row wins when the label appears more than once.
	rowIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.ToUpper(strings.TrimSpace(cell)) == want {
				rowIdx = i
				break
			}
		}
		if rowIdx >= 0 {
			break
		}
	}
	if rowIdx < 2 {
		return TotalBlock{}, false
	}

	bankRow := forwardFill(rows[rowIdx-2])
	currencyRow := forwardFill(rows[rowIdx-1])
	totalRow := rows[rowIdx]

	width := len(bankRow)
	if len(currencyRow) > width {
		width = len(currencyRow)
	}
	if len(totalRow) > width {
		width = len(totalRow)
	}

	amounts := make(map[string]float64, len(domain.Banks)*len(domain.Currencies))
	for j := 0; j < width; j++ {
		bank, okBank := normalizeBank(cellAt(bankRow, j))
		currency, okCurrency := normalizeCurrency(cellAt(currencyRow, j))
		if !okBank || !okCurrency {
			continue
		}
		col := domain.ColumnName(bank, currency)
		if _, seen := amounts[col]; seen {
			// Forward-fill can smear the last header pair across trailing
			// blank columns; the leftmost occurrence is the real one.
			continue
		}
		amounts[col] = CoerceMoney(cellAt(totalRow, j))
	}
	if len(amounts) == 0 {
		return TotalBlock{}, false
	}

	for _, col := range domain.ColumnNames() {
		if _, ok := amounts[col]; !ok {
			amounts[col] = 0.0
		}
	}
	return TotalBlock{Amounts: amounts}, true
}

// ParseReportFile opens one workbook and extracts its total block from
// the given sheet. ok=false covers everything that should make the caller
// skip the file: unreadable workbook, missing sheet, no label row, no
// recognizable columns.
func ParseReportFile(path, sheet string) (TotalBlock, bool) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return TotalBlock{}, false
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return TotalBlock{}, false
	}
	return LocateTotalBlock(rows, TotalLabel)
}

// forwardFill propagates the last non-blank value rightward, recovering
// header labels hidden behind merged cells.
func forwardFill(row []string) []string {
	out := make([]string, len(row))
	last := ""
	for i, cell := range row {
		if strings.TrimSpace(cell) != "" {
			last = cell
		}
		out[i] = last
	}
	return out
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// normalizeBank resolves a header cell to the bank vocabulary by
// substring match, so decorated names like "SCOTIABANK S.A." still
// resolve. The first vocabulary entry that matches wins.
func normalizeBank(header string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(header))
	if s == "" {
		return "", false
	}
	for _, bank := range domain.Banks {
		if strings.Contains(s, bank) {
			return bank, true
		}
	}
	return "", false
}

// normalizeCurrency resolves a header cell to the currency vocabulary by
// exact match after trimming and uppercasing.
func normalizeCurrency(header string) (string, bool) {
	s := strings.ToUpper(strings.TrimSpace(header))
	for _, currency := range domain.Currencies {
		if s == currency {
			return currency, true
		}
	}
	return "", false
}
