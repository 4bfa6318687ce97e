package etl

import (
	"math"
	"strconv"
	"strings"
)

// CoerceMoney converts a raw cell value into a monetary amount. Blank
// cells, the "-" placeholder the reports use for no payment, and anything
// that does not parse as a number all become 0.0; comma thousands
// separators are stripped first. It never fails: an unparseable cell is
// indistinguishable from a true zero downstream, which is the accepted
// policy for these reports.
func CoerceMoney(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0.0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0.0
	}
	return v
}
