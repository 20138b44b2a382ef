package harness

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"votebench/internal/clock"
	"votebench/internal/stats"
	"votebench/internal/target"
)

// VoteWorker issues paced synthetic ballots. Exactly one instance runs per
// experiment; it owns every increment of the vote counters.
type VoteWorker struct {
	Target      target.Target
	Clock       clock.Clock
	Rand        *rand.Rand
	FailureProb float64
	Candidates  int
	Live        *stats.Live
}

// Run loops until the deadline. Each iteration submits one synthetic vote,
// classifies the attempt, bumps exactly one counter, appends the latency
// only on success, then sleeps the pacing interval. A raised failure counts
// as a failed vote and is recorded; the loop continues.
func (w *VoteWorker) Run(ctx context.Context, rec *MetricsRecord, interval, duration time.Duration) {
	deadline := w.Clock.Now().Add(duration)
	seq := 0

	for w.Clock.Now().Before(deadline) {
		v := target.Vote{
			ID:        fmt.Sprintf("VOTE-%d-%d", seq, w.Clock.Now().Unix()),
			Candidate: fmt.Sprintf("CAND-%d", seq%w.Candidates+1),
			Voter:     uuid.New().String(),
		}

		start := w.Clock.Now()
		err := w.Target.SubmitVote(ctx, v)
		latency := float64(w.Clock.Since(start)) / float64(time.Millisecond)

		switch {
		case err != nil:
			rec.VoteFailed()
			rec.AddError("vote %s failed: %v", v.ID, err)
			w.Live.ObserveVote(false, latency)
		case w.Rand.Float64() < w.FailureProb:
			rec.VoteFailed()
			w.Live.ObserveVote(false, latency)
		default:
			rec.VoteSucceeded()
			rec.AddLatency(latency)
			w.Live.ObserveVote(true, latency)
		}

		seq++
		w.Clock.Sleep(interval)
	}
}
