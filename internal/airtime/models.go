package airtime

import "fmt"

// EventKind distinguishes connection lines from disconnection lines
type EventKind int

const (
	Connect EventKind = iota
	Disconnect
)

func (k EventKind) String() string {
	switch k {
	case Connect:
		return "connect"
	case Disconnect:
		return "disconnect"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a single connect or disconnect line recognized in an instrument log.
// Two events are the same event when their timestamps are equal.
type Event struct {
	Timestamp     string // YYYY-MM-DDTHH:MM:SS, taken verbatim from the line
	Kind          EventKind
	DeviceSeconds int64 // seconds value printed by the instrument
}

// Month returns the YYYY-MM bucket of the event
func (e Event) Month() string {
	return e.Timestamp[:7]
}

// Session is one completed connection. Connect is nil for sessions produced by
// the legacy correlator, which only looks at disconnect lines.
type Session struct {
	Connect    *Event
	Disconnect Event
	Seconds    int64
}

// Month returns the month the session ended in
func (s Session) Month() string {
	return s.Disconnect.Month()
}

// Thirds returns the session length in whole third-minutes, rounded up
func (s Session) Thirds() int64 {
	return ThirdMinutes(s.Seconds)
}

// Minutes returns the rounded session length in minutes
func (s Session) Minutes() float64 {
	return ThirdsToMinutes(s.Thirds())
}

// Anomalous reports whether the device clock produced a non-positive duration
func (s Session) Anomalous() bool {
	return s.Connect != nil && s.Seconds <= 0
}

// FileStats counts what happened while scanning one or more files
type FileStats struct {
	Lines      int
	Events     int
	Duplicates int
	Unpaired   int
	Sessions   int
	Anomalies  int
}

// Add folds other into s
func (s *FileStats) Add(other FileStats) {
	s.Lines += other.Lines
	s.Events += other.Events
	s.Duplicates += other.Duplicates
	s.Unpaired += other.Unpaired
	s.Sessions += other.Sessions
	s.Anomalies += other.Anomalies
}

// FileResult is everything derived from scanning a single log file
type FileResult struct {
	Path     string
	Totals   *MonthlyTotals
	Sessions []Session
	Stats    FileStats
}
