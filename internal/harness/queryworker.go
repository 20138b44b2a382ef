package harness

import (
	"context"
	"time"

	"votebench/internal/clock"
	"votebench/internal/stats"
	"votebench/internal/target"
)

// QueryWorker drives one stream of read-style operations. Multiple
// instances run independently; they share nothing but the record they
// append to and the common deadline.
type QueryWorker struct {
	Target target.Target
	Clock  clock.Clock
	Pause  time.Duration
	Live   *stats.Live
}

// Run loops until the deadline, performing one query per iteration and
// recording its latency. Failures are recorded on the record and never
// terminate the loop. An operation in flight when the deadline passes is
// allowed to finish.
func (w *QueryWorker) Run(ctx context.Context, rec *MetricsRecord, duration time.Duration) {
	deadline := w.Clock.Now().Add(duration)

	for w.Clock.Now().Before(deadline) {
		start := w.Clock.Now()
		err := w.Target.Query(ctx)
		latency := float64(w.Clock.Since(start)) / float64(time.Millisecond)

		if err != nil {
			rec.AddError("query failed: %v", err)
			w.Live.ObserveError()
		} else {
			rec.AddLatency(latency)
			w.Live.ObserveQuery(latency)
		}

		w.Clock.Sleep(w.Pause)
	}
}
