package airtime

import "fmt"

// Mode selects how events are turned into sessions
type Mode string

const (
	// ModePaired pairs each disconnect with the open connect in the same file
	ModePaired Mode = "paired"
	// ModeLegacy treats every disconnect's own seconds value as a session
	ModeLegacy Mode = "legacy"
)

// PairPolicy decides what happens to the open connect after it pairs
type PairPolicy string

const (
	// PolicyHold keeps the connect open until a newer connect replaces it
	PolicyHold PairPolicy = "hold"
	// PolicyClear closes the connect after its first pairing
	PolicyClear PairPolicy = "clear"
)

// DedupScope selects how long a timestamp set lives
type DedupScope string

const (
	// ScopeFile starts a fresh timestamp set for each file
	ScopeFile DedupScope = "file"
	// ScopeGroup shares one timestamp set across every file of a group
	ScopeGroup DedupScope = "group"
)

// Options configures a scan
type Options struct {
	Mode   Mode
	Policy PairPolicy
}

// DefaultOptions returns paired mode with the hold policy
func DefaultOptions() Options {
	return Options{Mode: ModePaired, Policy: PolicyHold}
}

// Validate checks that every option has a known value
func (o Options) Validate() error {
	switch o.Mode {
	case ModePaired, ModeLegacy:
	default:
		return fmt.Errorf("unknown mode %q (want %q or %q)", o.Mode, ModePaired, ModeLegacy)
	}
	switch o.Policy {
	case PolicyHold, PolicyClear:
	default:
		return fmt.Errorf("unknown pair policy %q (want %q or %q)", o.Policy, PolicyHold, PolicyClear)
	}
	return nil
}

// Extractor returns the line recognizer matching the mode
func (o Options) Extractor() Extractor {
	if o.Mode == ModeLegacy {
		return ParseDisconnectLine
	}
	return ParseLine
}

// NewCorrelator builds the correlator for the mode, recording timestamps in seen
func (o Options) NewCorrelator(seen TimestampSet) Correlator {
	if o.Mode == ModeLegacy {
		return NewLegacyCorrelator(seen)
	}
	return NewReconstructor(seen, o.Policy)
}

// Validate checks the scope value
func (s DedupScope) Validate() error {
	switch s {
	case ScopeFile, ScopeGroup:
		return nil
	default:
		return fmt.Errorf("unknown dedup scope %q (want %q or %q)", s, ScopeFile, ScopeGroup)
	}
}
