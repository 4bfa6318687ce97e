package etl

import (
	"regexp"
	"strconv"
	"time"
)

// datePattern matches the dd.mm.yyyy marker the reports carry in their
// file or folder names.
var datePattern = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})`)

// ExtractDate recovers the report date embedded as dd.mm.yyyy anywhere in
// path. The whole path is scanned, not just the file name, because some
// report trees encode the date only in an enclosing folder name. The
// first match wins. Returns ok=false when there is no match or the
// matched text is not a real calendar date (e.g. 31.02.2025).
func ExtractDate(path string) (time.Time, bool) {
	m := datePattern.FindStringSubmatch(path)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components (Feb 31 becomes Mar 3),
	// so a round-trip mismatch means the matched text was not a real date.
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}
