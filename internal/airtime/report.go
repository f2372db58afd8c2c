package airtime

import (
	"fmt"
	"io"
	"strings"
)

// ReportHeader is the first line of every report
const ReportHeader = "  Month\t Minutes\n"

// WriteReport renders totals as the header followed by one line per month in
// ascending order. Values are printed as accumulated, without further rounding.
func WriteReport(w io.Writer, totals *MonthlyTotals) error {
	if _, err := io.WriteString(w, ReportHeader); err != nil {
		return err
	}
	if totals == nil {
		return nil
	}
	for _, month := range totals.Months() {
		if _, err := fmt.Fprintf(w, "%s: %7.2f\n", month, totals.Minutes(month)); err != nil {
			return err
		}
	}
	return nil
}

// FormatReport returns the report text for totals
func FormatReport(totals *MonthlyTotals) string {
	var sb strings.Builder
	_ = WriteReport(&sb, totals)
	return sb.String()
}
