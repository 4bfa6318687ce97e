package domain

import (
	"sort"
	"time"
)

// Banks is the closed vocabulary of bank columns recognized in the
// TOTAL A PAGAR block. TOTAL is the report's own cross-bank total column
// and is carried through like any other bank.
var Banks = []string{"BCP", "SCOTIABANK", "SANTANDER", "INTERBANK", "TOTAL"}

// Currencies is the closed vocabulary of currency columns.
var Currencies = []string{"PEN", "USD"}

// Payment is one long-form observation: the scheduled amount for one
// bank/currency pair on one report date. Valor keeps the source sign
// convention (negative means outflow); DiaNombre is the English weekday
// name of Fecha.
type Payment struct {
	Fecha     time.Time `json:"FECHA" validate:"required"`
	Banco     string    `json:"BANCO" validate:"required"`
	Moneda    string    `json:"MONEDA" validate:"required,oneof=PEN USD"`
	Valor     float64   `json:"Valor"`
	DiaNombre string    `json:"DiaNombre"`
}

// NewPayment builds a Payment and derives DiaNombre from the date.
func NewPayment(fecha time.Time, banco, moneda string, valor float64) Payment {
	return Payment{
		Fecha:     fecha,
		Banco:     banco,
		Moneda:    moneda,
		Valor:     valor,
		DiaNombre: fecha.Weekday().String(),
	}
}

// PaymentsTable is the ordered long-form table handed to filtering and
// forecasting. It is rebuilt fully on every load and never mutated in
// place by consumers.
type PaymentsTable struct {
	Rows []Payment `json:"rows"`
}

// NewPaymentsTable returns the canonical empty table. An empty table is a
// valid, representable state, not an error.
func NewPaymentsTable() *PaymentsTable {
	return &PaymentsTable{Rows: []Payment{}}
}

// Len returns the number of long-form rows.
func (t *PaymentsTable) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t *PaymentsTable) Empty() bool { return len(t.Rows) == 0 }

// Append adds rows to the table.
func (t *PaymentsTable) Append(rows ...Payment) {
	t.Rows = append(t.Rows, rows...)
}

// SortByFecha orders rows by date ascending. The sort is stable so that
// same-date rows keep their original enumeration order.
func (t *PaymentsTable) SortByFecha() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		return t.Rows[i].Fecha.Before(t.Rows[j].Fecha)
	})
}

// Concat concatenates tables in the given order and re-sorts the union by
// date. Empty inputs contribute nothing.
func Concat(tables ...*PaymentsTable) *PaymentsTable {
	out := NewPaymentsTable()
	for _, tbl := range tables {
		if tbl == nil || tbl.Empty() {
			continue
		}
		out.Rows = append(out.Rows, tbl.Rows...)
	}
	out.SortByFecha()
	return out
}

// Sum returns the sum of Valor over all rows, in the stored sign
// convention.
func (t *PaymentsTable) Sum() float64 {
	var total float64
	for _, r := range t.Rows {
		total += r.Valor
	}
	return total
}

// PaymentFilter selects rows by bank, currency and weekday name. A nil or
// empty slice leaves that dimension unconstrained.
type PaymentFilter struct {
	Bancos  []string `json:"bancos"`
	Monedas []string `json:"monedas"`
	Dias    []string `json:"dias"`
}

// Matches reports whether a row passes every constrained dimension.
func (f PaymentFilter) Matches(p Payment) bool {
	return contains(f.Bancos, p.Banco) &&
		contains(f.Monedas, p.Moneda) &&
		contains(f.Dias, p.DiaNombre)
}

func contains(set []string, v string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Filter returns a new table holding the rows that match, preserving
// order.
func (t *PaymentsTable) Filter(f PaymentFilter) *PaymentsTable {
	out := NewPaymentsTable()
	for _, r := range t.Rows {
		if f.Matches(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// FilterOptions lists the distinct values present in the table for each
// filterable dimension, sorted, for populating UI selectors.
type FilterOptions struct {
	Bancos  []string `json:"bancos"`
	Monedas []string `json:"monedas"`
	Dias    []string `json:"dias"`
}

// Options scans the table and returns its distinct banks, currencies and
// weekday names.
func (t *PaymentsTable) Options() FilterOptions {
	return FilterOptions{
		Bancos:  distinct(t.Rows, func(p Payment) string { return p.Banco }),
		Monedas: distinct(t.Rows, func(p Payment) string { return p.Moneda }),
		Dias:    distinct(t.Rows, func(p Payment) string { return p.DiaNombre }),
	}
}

func distinct(rows []Payment, key func(Payment) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, r := range rows {
		k := key(r)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
