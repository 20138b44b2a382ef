package target

import (
	"context"
	"math/rand"
	"time"

	"votebench/internal/clock"
)

// Simulated stands in for the platform with uniform latency draws on its
// clock. It never fails on its own; outcome classification happens in the
// vote worker. Not safe for sharing across workers: each worker gets its
// own instance with its own rand source.
type Simulated struct {
	clk clock.Clock
	rnd *rand.Rand

	queryMin, queryMax time.Duration
	voteMin, voteMax   time.Duration
}

func NewSimulated(clk clock.Clock, rnd *rand.Rand, queryMin, queryMax, voteMin, voteMax time.Duration) *Simulated {
	return &Simulated{
		clk:      clk,
		rnd:      rnd,
		queryMin: queryMin,
		queryMax: queryMax,
		voteMin:  voteMin,
		voteMax:  voteMax,
	}
}

func (s *Simulated) Query(ctx context.Context) error {
	s.clk.Sleep(s.uniform(s.queryMin, s.queryMax))
	return nil
}

func (s *Simulated) SubmitVote(ctx context.Context, v Vote) error {
	s.clk.Sleep(s.uniform(s.voteMin, s.voteMax))
	return nil
}

func (s *Simulated) uniform(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(s.rnd.Int63n(int64(hi-lo)))
}
