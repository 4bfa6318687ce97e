package forecast

import (
	"sort"
	"strings"
	"time"

	"pagoscli/pkg/contracts/domain"
)

const day = 24 * time.Hour

// Frequency identifies the regular calendar a series is densified onto.
// The string forms mirror the conventional pandas-style aliases the
// original reports were analyzed with ("D", "W", "W-TUE", ...).
type Frequency string

const (
	// FreqNone leaves the series on its natural, possibly irregular index.
	FreqNone Frequency = ""
	// FreqDaily densifies onto every calendar day.
	FreqDaily Frequency = "D"
	// FreqWeekly densifies onto one day per week, anchored on the modal
	// weekday of the source index.
	FreqWeekly Frequency = "W"
)

// WeeklyOn returns the weekly frequency anchored on a fixed weekday,
// e.g. WeeklyOn(time.Tuesday) == "W-TUE".
func WeeklyOn(d time.Weekday) Frequency {
	return Frequency("W-" + strings.ToUpper(d.String()[:3]))
}

// IsWeekly reports whether f is any weekly frequency.
func (f Frequency) IsWeekly() bool {
	return f == FreqWeekly || strings.HasPrefix(string(f), "W-")
}

// Anchor returns the fixed weekday a weekly frequency is anchored on.
// ok is false for FreqWeekly (anchor inferred from data) and for
// non-weekly frequencies.
func (f Frequency) Anchor() (time.Weekday, bool) {
	s := string(f)
	if !strings.HasPrefix(s, "W-") {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if WeeklyOn(d) == f {
			return d, true
		}
	}
	return 0, false
}

// GapFill is the policy applied to calendar dates with no observation.
// Zero fill encodes the business assumption "no record means no payment
// that date"; it is an assumption, not a law, so carry-forward is
// available for callers whose data means otherwise.
type GapFill int

const (
	// GapFillZero fills missing dates with 0.0.
	GapFillZero GapFill = iota
	// GapFillPrevious carries the last observed value forward.
	GapFillPrevious
)

// Series is a date-indexed numeric sequence. After preparation the index
// is strictly increasing and duplicate-free; Freq records the regular
// calendar it was densified onto, if any.
type Series struct {
	Dates  []time.Time `json:"dates"`
	Values []float64   `json:"values"`
	Freq   Frequency   `json:"freq,omitempty"`
}

// Len returns the number of observations.
func (s Series) Len() int { return len(s.Dates) }

// step is the index spacing used to continue the series past its last
// date. Densified series use their calendar; otherwise the last observed
// gap is reused, defaulting to one day.
func (s Series) step() time.Duration {
	switch {
	case s.Freq.IsWeekly():
		return 7 * day
	case s.Freq == FreqDaily:
		return day
	}
	if n := len(s.Dates); n >= 2 {
		return s.Dates[n-1].Sub(s.Dates[n-2])
	}
	return day
}

// NextDates returns n dates continuing the index immediately after the
// last historical date, gap-free.
func (s Series) NextDates(n int) []time.Time {
	out := make([]time.Time, 0, n)
	if s.Len() == 0 {
		return out
	}
	step := s.step()
	t := s.Dates[s.Len()-1]
	for i := 0; i < n; i++ {
		t = t.Add(step)
		out = append(out, t)
	}
	return out
}

// PrepareSeries aggregates an already-filtered Payments Table into one
// value per date. The sign is flipped (MONTO = -Valor) so the series
// carries positive outflow magnitudes, multiple bank/currency rows on a
// date collapse into one sum, and the result is sorted ascending. A
// non-empty freq densifies the result onto that calendar with the given
// gap-fill policy.
func PrepareSeries(table *domain.PaymentsTable, freq Frequency, fill GapFill) Series {
	byDate := make(map[time.Time]float64)
	for _, r := range table.Rows {
		byDate[r.Fecha] += -r.Valor
	}

	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	s := Series{Dates: dates, Values: make([]float64, len(dates))}
	for i, d := range dates {
		s.Values[i] = byDate[d]
	}

	if freq == FreqNone {
		return s
	}
	return Densify(s, freq, fill)
}

// Densify reindexes a series onto the complete regular calendar spanning
// its observed min..max date. Dates absent from the source are filled per
// the policy; for weekly calendars, observations that do not land on the
// grid are dropped, matching a plain as-frequency reindex.
func Densify(s Series, freq Frequency, fill GapFill) Series {
	if s.Len() == 0 || freq == FreqNone {
		s.Freq = freq
		return s
	}

	observed := make(map[time.Time]float64, s.Len())
	for i, d := range s.Dates {
		observed[d] = s.Values[i]
	}

	grid := buildGrid(s, freq)
	out := Series{
		Dates:  grid,
		Values: make([]float64, len(grid)),
		Freq:   freq,
	}
	var prev float64
	for i, d := range grid {
		if v, ok := observed[d]; ok {
			out.Values[i] = v
		} else if fill == GapFillPrevious {
			out.Values[i] = prev
		}
		prev = out.Values[i]
	}
	return out
}

// buildGrid enumerates the calendar dates of freq between the series'
// first and last observation, inclusive.
func buildGrid(s Series, freq Frequency) []time.Time {
	first, last := s.Dates[0], s.Dates[s.Len()-1]

	start := first
	step := day
	if freq.IsWeekly() {
		anchor, ok := freq.Anchor()
		if !ok {
			anchor = InferWeeklyAnchor(s)
		}
		for start.Weekday() != anchor {
			start = start.Add(day)
		}
		step = 7 * day
	}

	var grid []time.Time
	for t := start; !t.After(last); t = t.Add(step) {
		grid = append(grid, t)
	}
	return grid
}

// InferWeeklyAnchor returns the most frequent weekday of the index. Ties
// resolve to the earliest weekday in Monday-first order, keeping the
// inference deterministic on inconsistently recorded histories.
func InferWeeklyAnchor(s Series) time.Weekday {
	var counts [7]int
	for _, d := range s.Dates {
		counts[mondayFirst(d.Weekday())]++
	}
	best := 0
	for i := 1; i < 7; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return time.Weekday((best + 1) % 7)
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// WeeklyAnchors maps a modal weekday to the frequency used for weekly
// resampling. The Tuesday/Friday anchors reflect how these schedules are
// historically recorded; it is a policy table, not a fixed rule, so
// callers may supply their own.
var WeeklyAnchors = map[time.Weekday]Frequency{
	time.Tuesday: WeeklyOn(time.Tuesday),
	time.Friday:  WeeklyOn(time.Friday),
}

// InferWeeklyFreq picks the weekly frequency for a roughly-weekly series:
// the modal weekday's entry in anchors when present, generic weekly
// otherwise. A nil anchors map uses WeeklyAnchors.
func InferWeeklyFreq(s Series, anchors map[time.Weekday]Frequency) Frequency {
	if anchors == nil {
		anchors = WeeklyAnchors
	}
	if f, ok := anchors[InferWeeklyAnchor(s)]; ok {
		return f
	}
	return FreqWeekly
}

// ToRegularWeekly forces a series onto its inferred weekly calendar,
// filling absent weeks per the policy.
func ToRegularWeekly(s Series, fill GapFill) Series {
	return Densify(s, InferWeeklyFreq(s, nil), fill)
}
