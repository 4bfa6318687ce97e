package domain

import "strings"

// ColumnName builds the wide-form column name for a bank/currency pair,
// e.g. "BCP_PEN".
func ColumnName(banco, moneda string) string {
	return banco + "_" + moneda
}

// SplitColumn splits a wide-form column name back into bank and currency
// on the first underscore, so bank names may not themselves contain one.
func SplitColumn(column string) (banco, moneda string) {
	banco, moneda, _ = strings.Cut(column, "_")
	return banco, moneda
}

// ColumnNames returns the full fixed column set, bank-major, matching the
// column order of the source reports:
// BCP_PEN, BCP_USD, ..., TOTAL_PEN, TOTAL_USD.
func ColumnNames() []string {
	out := make([]string, 0, len(Banks)*len(Currencies))
	for _, b := range Banks {
		for _, c := range Currencies {
			out = append(out, ColumnName(b, c))
		}
	}
	return out
}
