package airtime

import (
	"regexp"
	"strconv"
)

var (
	connectPattern = regexp.MustCompile(
		`(?i)(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}).*?connected in\s*(\d+)\s*s`)
	disconnectPattern = regexp.MustCompile(
		`(?i)(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}).*?disconnected after\s*(\d+)\s*s`)
)

// Extractor recognizes at most one event in a line of text
type Extractor func(line string) (Event, bool)

// ParseLine recognizes a connect or disconnect event. The connect pattern is
// tried first, so a line matching both yields a Connect.
func ParseLine(line string) (Event, bool) {
	if ev, ok := match(connectPattern, Connect, line); ok {
		return ev, true
	}
	return match(disconnectPattern, Disconnect, line)
}

// ParseDisconnectLine only recognizes disconnect events
func ParseDisconnectLine(line string) (Event, bool) {
	return match(disconnectPattern, Disconnect, line)
}

func match(re *regexp.Regexp, kind EventKind, line string) (Event, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false
	}
	// The digit run can only fail to parse on int64 overflow
	seconds, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Event{}, false
	}
	return Event{
		Timestamp:     m[1],
		Kind:          kind,
		DeviceSeconds: seconds,
	}, true
}
