package stats

import "sync/atomic"

// Live is the running view of an experiment while its workers are still
// appending. It backs progress output only; the final record reduction
// works on the raw samples, never on the histogram.
type Live struct {
	Queries   uint64
	Votes     uint64
	VoteFails uint64
	Errors    uint64

	lat *SafeHistogram
}

func NewLive() *Live {
	return &Live{lat: NewSafeHistogram()}
}

// Snapshot is a cheap copy handed to display layers.
type Snapshot struct {
	Queries   uint64
	Votes     uint64
	VoteFails uint64
	Errors    uint64

	P50Ms float64
	P95Ms float64
	P99Ms float64
	MaxMs float64
}

func (l *Live) ObserveQuery(latencyMs float64) {
	if l == nil {
		return
	}
	atomic.AddUint64(&l.Queries, 1)
	l.lat.RecordMs(latencyMs)
}

func (l *Live) ObserveVote(ok bool, latencyMs float64) {
	if l == nil {
		return
	}
	if ok {
		atomic.AddUint64(&l.Votes, 1)
		l.lat.RecordMs(latencyMs)
	} else {
		atomic.AddUint64(&l.VoteFails, 1)
	}
}

func (l *Live) ObserveError() {
	if l == nil {
		return
	}
	atomic.AddUint64(&l.Errors, 1)
}

func (l *Live) Snapshot() Snapshot {
	if l == nil {
		return Snapshot{}
	}
	return Snapshot{
		Queries:   atomic.LoadUint64(&l.Queries),
		Votes:     atomic.LoadUint64(&l.Votes),
		VoteFails: atomic.LoadUint64(&l.VoteFails),
		Errors:    atomic.LoadUint64(&l.Errors),
		P50Ms:     l.lat.QuantileMs(50),
		P95Ms:     l.lat.QuantileMs(95),
		P99Ms:     l.lat.QuantileMs(99),
		MaxMs:     l.lat.MaxMs(),
	}
}

// Reset zeroes the counters and histogram so the same Live can be reused
// across runs without readers holding a stale pointer.
func (l *Live) Reset() {
	if l == nil {
		return
	}
	atomic.StoreUint64(&l.Queries, 0)
	atomic.StoreUint64(&l.Votes, 0)
	atomic.StoreUint64(&l.VoteFails, 0)
	atomic.StoreUint64(&l.Errors, 0)
	l.lat.Reset()
}
