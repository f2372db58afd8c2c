package airtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteReport_SortedMonths(t *testing.T) {
	totals := NewMonthlyTotals()
	totals.AddThirds("2024-12", 4)
	totals.AddThirds("2023-01", 3)
	totals.AddThirds("2024-01", 3000)

	expected := "  Month\t Minutes\n" +
		"2023-01:    1.00\n" +
		"2024-01: 1000.00\n" +
		"2024-12:    1.33\n"
	assert.Equal(t, expected, FormatReport(totals))
}

func TestWriteReport_Empty(t *testing.T) {
	assert.Equal(t, ReportHeader, FormatReport(NewMonthlyTotals()))
	assert.Equal(t, ReportHeader, FormatReport(nil))
}

func TestWriteReport_NegativeAndZero(t *testing.T) {
	totals := NewMonthlyTotals()
	totals.AddThirds("2024-01", -1)
	totals.AddThirds("2024-02", 0)

	expected := ReportHeader +
		"2024-01:   -0.33\n" +
		"2024-02:    0.00\n"
	assert.Equal(t, expected, FormatReport(totals))
}
