package airtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		ok       bool
		expected Event
	}{
		{
			name:     "connect",
			line:     "2024-01-31T23:59:00:[SURF  ,0173]connected in 100s",
			ok:       true,
			expected: Event{Timestamp: "2024-01-31T23:59:00", Kind: Connect, DeviceSeconds: 100},
		},
		{
			name:     "disconnect",
			line:     "2024-02-01T00:00:30:[MRMAID,0278]disconnected after 160s",
			ok:       true,
			expected: Event{Timestamp: "2024-02-01T00:00:30", Kind: Disconnect, DeviceSeconds: 160},
		},
		{
			name:     "case insensitive with spaces",
			line:     "2023-05-06T07:08:09 modem DISCONNECTED AFTER  42 S",
			ok:       true,
			expected: Event{Timestamp: "2023-05-06T07:08:09", Kind: Disconnect, DeviceSeconds: 42},
		},
		{
			name:     "connect preferred when both phrases appear",
			line:     "2024-03-01T10:00:00 connected in 5s then disconnected after 9s",
			ok:       true,
			expected: Event{Timestamp: "2024-03-01T10:00:00", Kind: Connect, DeviceSeconds: 5},
		},
		{
			name:     "first timestamp on the line is used",
			line:     "2024-03-01T10:00:00 ref 2024-03-02T11:00:00 disconnected after 9s",
			ok:       true,
			expected: Event{Timestamp: "2024-03-01T10:00:00", Kind: Disconnect, DeviceSeconds: 9},
		},
		{name: "no timestamp", line: "disconnected after 12s", ok: false},
		{name: "phrase before timestamp", line: "connected in 5s 2024-03-01T10:00:00", ok: false},
		{name: "missing unit", line: "2024-03-01T10:00:00 connected in 5", ok: false},
		{name: "short timestamp", line: "2024-03-01T10:00 connected in 5s", ok: false},
		{name: "unrelated", line: "2024-03-01T10:00:00 pressure 1013mbar", ok: false},
		{name: "overflowing seconds", line: "2024-03-01T10:00:00 connected in 99999999999999999999s", ok: false},
		{name: "empty", line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, ev)
			}
		})
	}
}

func TestParseDisconnectLine_IgnoresConnect(t *testing.T) {
	_, ok := ParseDisconnectLine("2024-03-01T10:00:00 connected in 5s")
	assert.False(t, ok)

	ev, ok := ParseDisconnectLine("2024-03-01T10:00:00 connected in 5s then disconnected after 9s")
	assert.True(t, ok)
	assert.Equal(t, Disconnect, ev.Kind)
	assert.Equal(t, int64(9), ev.DeviceSeconds)
}

func TestEventMonth(t *testing.T) {
	ev := Event{Timestamp: "2024-12-31T23:59:59"}
	assert.Equal(t, "2024-12", ev.Month())
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "connect", Connect.String())
	assert.Equal(t, "disconnect", Disconnect.String())
	assert.Equal(t, "EventKind(7)", EventKind(7).String())
}
