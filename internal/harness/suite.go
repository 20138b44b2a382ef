package harness

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"votebench/internal/clock"
)

// Progress is a point-in-time view of a suite run for display layers.
type Progress struct {
	Current     int // 1-based index of the running experiment, 0 before start
	Total       int
	Config      ExperimentConfig
	CoolingDown bool
	Done        bool
}

type SuiteOption func(*Suite)

// WithSuiteClock injects the clock used for the cooldown pauses.
func WithSuiteClock(c clock.Clock) SuiteOption {
	return func(s *Suite) { s.clk = c }
}

// Suite drives an ordered list of configurations through the runner,
// strictly sequentially, with a cooldown pause between consecutive runs so
// host resource usage settles before the next one starts.
type Suite struct {
	profile Profile
	runner  *Runner
	clk     clock.Clock
	log     *zap.Logger

	mu       sync.Mutex
	progress Progress
}

func NewSuite(profile Profile, runner *Runner, log *zap.Logger, opts ...SuiteOption) *Suite {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Suite{
		profile: profile,
		runner:  runner,
		clk:     clock.System{},
		log:     log,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Suite) Runner() *Runner { return s.runner }

func (s *Suite) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Suite) setProgress(p Progress) {
	s.mu.Lock()
	s.progress = p
	s.mu.Unlock()
}

// Run executes each configuration in order and returns one record per
// configuration, in input order. No two configurations' workers ever
// overlap. The cooldown elapses between every consecutive pair of runs but
// not after the final one.
func (s *Suite) Run(ctx context.Context, configs []ExperimentConfig) (ResultSet, error) {
	// Display layers poll for Done, so it must be set on every exit path.
	defer func() {
		s.mu.Lock()
		s.progress.Done = true
		s.mu.Unlock()
	}()

	results := make(ResultSet, 0, len(configs))

	for i, cfg := range configs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		s.setProgress(Progress{Current: i + 1, Total: len(configs), Config: cfg})
		s.log.Info("suite: running experiment",
			zap.Int("index", i+1),
			zap.Int("total", len(configs)),
			zap.String("config", cfg.String()),
		)

		rec, err := s.runner.Run(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("experiment %d (%s): %w", i+1, cfg, err)
		}
		results = append(results, rec)

		if i < len(configs)-1 {
			s.setProgress(Progress{Current: i + 1, Total: len(configs), Config: cfg, CoolingDown: true})
			s.log.Info("suite: cooling down", zap.Duration("cooldown", s.profile.Cooldown))
			s.clk.Sleep(s.profile.Cooldown)
		}
	}

	return results, nil
}
