package airtime

import "sort"

// secondsPerThird is the rounding unit: one third of a minute
const secondsPerThird = 20

// ThirdMinutes rounds seconds up to the next whole third-minute and returns the
// count of thirds. Exact multiples of 20s are unchanged; negative values round
// toward zero, matching ceil((seconds/60)*3).
func ThirdMinutes(seconds int64) int64 {
	q := seconds / secondsPerThird
	if seconds%secondsPerThird != 0 && seconds > 0 {
		q++
	}
	return q
}

// ThirdsToMinutes converts a third-minute count to minutes
func ThirdsToMinutes(thirds int64) float64 {
	return float64(thirds) / 3
}

// MonthlyTotals accumulates rounded airtime per YYYY-MM month. Values are kept
// as whole thirds so that merge order never changes the result.
type MonthlyTotals struct {
	thirds map[string]int64
}

// NewMonthlyTotals creates empty totals
func NewMonthlyTotals() *MonthlyTotals {
	return &MonthlyTotals{thirds: make(map[string]int64)}
}

// AddSession adds the rounded session length to the month it ended in
func (t *MonthlyTotals) AddSession(s Session) {
	t.AddThirds(s.Month(), s.Thirds())
}

// AddThirds adds a third-minute count to month. The month is recorded even
// when the count is zero.
func (t *MonthlyTotals) AddThirds(month string, thirds int64) {
	t.thirds[month] += thirds
}

// Merge adds every month of other into t
func (t *MonthlyTotals) Merge(other *MonthlyTotals) {
	if other == nil {
		return
	}
	for month, thirds := range other.thirds {
		t.thirds[month] += thirds
	}
}

// Thirds returns the third-minute count for month
func (t *MonthlyTotals) Thirds(month string) int64 {
	return t.thirds[month]
}

// Minutes returns the accumulated minutes for month
func (t *MonthlyTotals) Minutes(month string) float64 {
	return ThirdsToMinutes(t.thirds[month])
}

// Months returns the recorded months in ascending order
func (t *MonthlyTotals) Months() []string {
	months := make([]string, 0, len(t.thirds))
	for month := range t.thirds {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// Len returns the number of recorded months
func (t *MonthlyTotals) Len() int {
	return len(t.thirds)
}
