package harness

import (
	"context"
	"time"

	"votebench/internal/clock"
	"votebench/internal/target"
)

// stubTarget sleeps fixed delays on the worker's clock and returns
// injected errors.
type stubTarget struct {
	clk        clock.Clock
	queryDelay time.Duration
	voteDelay  time.Duration
	queryErr   error
	voteErr    error
}

func (s *stubTarget) Query(ctx context.Context) error {
	s.clk.Sleep(s.queryDelay)
	return s.queryErr
}

func (s *stubTarget) SubmitVote(ctx context.Context, v target.Vote) error {
	s.clk.Sleep(s.voteDelay)
	return s.voteErr
}

// stubProber returns fixed readings, or an error when failing is set.
type stubProber struct {
	cpu     float64
	mem     float64
	failing error
}

func (p stubProber) CPUPercent() (float64, error) {
	if p.failing != nil {
		return 0, p.failing
	}
	return p.cpu, nil
}

func (p stubProber) MemoryUsedMB() (float64, error) {
	if p.failing != nil {
		return 0, p.failing
	}
	return p.mem, nil
}
