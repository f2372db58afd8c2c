package airtime

// TimestampSet records the timestamps already consumed. Whoever creates it
// decides its scope: one per file, or one shared by a whole group.
type TimestampSet map[string]struct{}

// NewTimestampSet creates an empty set
func NewTimestampSet() TimestampSet {
	return make(TimestampSet)
}

// Add records ts and reports whether it was new
func (s TimestampSet) Add(ts string) bool {
	if _, exists := s[ts]; exists {
		return false
	}
	s[ts] = struct{}{}
	return true
}

// Correlator consumes events in file order and emits completed sessions
type Correlator interface {
	Observe(ev Event) (Session, bool)
	Stats() FileStats
}

// Reconstructor pairs disconnects with the most recent connect
type Reconstructor struct {
	seen   TimestampSet
	policy PairPolicy
	open   *Event
	stats  FileStats
}

// NewReconstructor creates a reconstructor with an empty open-connection slot
func NewReconstructor(seen TimestampSet, policy PairPolicy) *Reconstructor {
	if seen == nil {
		seen = NewTimestampSet()
	}
	return &Reconstructor{seen: seen, policy: policy}
}

// Observe feeds one event. Duplicate timestamps are dropped before they can
// touch the open slot. A disconnect with nothing open is dropped.
func (r *Reconstructor) Observe(ev Event) (Session, bool) {
	r.stats.Events++
	if !r.seen.Add(ev.Timestamp) {
		r.stats.Duplicates++
		return Session{}, false
	}

	switch ev.Kind {
	case Connect:
		// Newest connect wins, any unmatched one is forgotten
		connect := ev
		r.open = &connect
		return Session{}, false

	case Disconnect:
		if r.open == nil {
			r.stats.Unpaired++
			return Session{}, false
		}
		connect := *r.open
		session := Session{
			Connect:    &connect,
			Disconnect: ev,
			Seconds:    ev.DeviceSeconds - connect.DeviceSeconds,
		}
		r.afterPair()
		r.stats.Sessions++
		if session.Anomalous() {
			r.stats.Anomalies++
		}
		return session, true
	}

	return Session{}, false
}

// afterPair is the only place the re-pairing policy is applied
func (r *Reconstructor) afterPair() {
	if r.policy == PolicyClear {
		r.open = nil
	}
}

// Stats returns the counters collected so far
func (r *Reconstructor) Stats() FileStats {
	return r.stats
}

// LegacyCorrelator turns every new disconnect into a session using the
// disconnect's own seconds value
type LegacyCorrelator struct {
	seen  TimestampSet
	stats FileStats
}

// NewLegacyCorrelator creates a legacy correlator
func NewLegacyCorrelator(seen TimestampSet) *LegacyCorrelator {
	if seen == nil {
		seen = NewTimestampSet()
	}
	return &LegacyCorrelator{seen: seen}
}

// Observe feeds one event; connect events are ignored
func (c *LegacyCorrelator) Observe(ev Event) (Session, bool) {
	if ev.Kind != Disconnect {
		return Session{}, false
	}
	c.stats.Events++
	if !c.seen.Add(ev.Timestamp) {
		c.stats.Duplicates++
		return Session{}, false
	}
	c.stats.Sessions++
	return Session{Disconnect: ev, Seconds: ev.DeviceSeconds}, true
}

// Stats returns the counters collected so far
func (c *LegacyCorrelator) Stats() FileStats {
	return c.stats
}
