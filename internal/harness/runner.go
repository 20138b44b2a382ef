package harness

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"votebench/internal/clock"
	"votebench/internal/stats"
	"votebench/internal/target"
)

// Snapshot is pushed on the updates channel while a run is in flight.
type Snapshot struct {
	Config  ExperimentConfig
	Elapsed time.Duration
	Live    stats.Snapshot
}

// TargetFactory builds the target a single worker talks to. Workers get
// their own clock and rand source so simulated targets stay deterministic
// under a virtual clock.
type TargetFactory func(clk clock.Clock, rnd *rand.Rand) target.Target

type Option func(*Runner)

// WithClockFactory injects the clock used by the run and every worker.
// The factory is called once per worker.
func WithClockFactory(fn func() clock.Clock) Option {
	return func(r *Runner) { r.newClock = fn }
}

func WithTargetFactory(fn TargetFactory) Option {
	return func(r *Runner) { r.newTarget = fn }
}

func WithProber(p Prober) Option {
	return func(r *Runner) { r.probe = p }
}

// WithSeed fixes the base seed for the per-worker rand sources.
func WithSeed(seed int64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithUpdates attaches a channel receiving periodic snapshots. Sends are
// non-blocking; a full channel drops the update.
func WithUpdates(ch chan Snapshot) Option {
	return func(r *Runner) { r.updates = ch }
}

// Runner executes one configuration end to end: it spawns the resource
// sampler, the query workers, and the vote worker, waits for all of them,
// and reduces their observations into a finalized MetricsRecord.
type Runner struct {
	profile Profile
	log     *zap.Logger
	live    *stats.Live
	updates chan Snapshot

	newClock  func() clock.Clock
	newTarget TargetFactory
	probe     Prober
	seed      int64
}

func NewRunner(profile Profile, log *zap.Logger, opts ...Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Runner{
		profile:  profile,
		log:      log,
		live:     stats.NewLive(),
		newClock: func() clock.Clock { return clock.System{} },
		probe:    HostProber{},
		seed:     time.Now().UnixNano(),
	}
	r.newTarget = func(clk clock.Clock, rnd *rand.Rand) target.Target {
		return target.NewSimulated(clk, rnd,
			profile.QueryDelayMin, profile.QueryDelayMax,
			profile.VoteDelayMin, profile.VoteDelayMax)
	}

	for _, o := range opts {
		o(r)
	}
	return r
}

// Live exposes the running counters for progress display.
func (r *Runner) Live() *stats.Live { return r.live }

// Run validates the configuration, drives the full worker set for its
// duration, and returns the finalized record. Worker-level failures are
// captured inside the record; only a rejected configuration returns an
// error.
func (r *Runner) Run(ctx context.Context, cfg ExperimentConfig) (*MetricsRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid experiment config: %w", err)
	}

	r.live.Reset()

	runClk := r.newClock()
	start := runClk.Now()
	rec := NewMetricsRecord(cfg, start)
	duration := cfg.Duration()
	interval := cfg.VoteInterval()

	r.log.Info("experiment starting",
		zap.Uint("concurrent_queries", cfg.ConcurrentQueries),
		zap.Uint("votes_per_minute", cfg.VotesPerMinute),
		zap.Uint("duration_minutes", cfg.DurationMinutes),
		zap.Duration("vote_interval", interval),
	)

	stopTicks := r.startTickLoop(ctx, cfg, start, runClk)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		sampler := &ResourceSampler{
			Probe:    r.probe,
			Clock:    r.newClock(),
			Interval: r.profile.SampleInterval,
		}
		sampler.Run(rec, duration)
	}()

	for i := uint(0); i < cfg.ConcurrentQueries; i++ {
		wg.Add(1)
		seed := r.seed + int64(i) + 1
		go func() {
			defer wg.Done()
			clk := r.newClock()
			w := &QueryWorker{
				Target: r.newTarget(clk, rand.New(rand.NewSource(seed))),
				Clock:  clk,
				Pause:  r.profile.QueryPause,
				Live:   r.live,
			}
			w.Run(ctx, rec, duration)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		clk := r.newClock()
		rnd := rand.New(rand.NewSource(r.seed))
		w := &VoteWorker{
			Target:      r.newTarget(clk, rnd),
			Clock:       clk,
			Rand:        rnd,
			FailureProb: r.profile.VoteFailureProb,
			Candidates:  r.profile.Candidates,
			Live:        r.live,
		}
		w.Run(ctx, rec, interval, duration)
	}()

	wg.Wait()
	if stopTicks != nil {
		stopTicks()
	}

	rec.finalize(runClk.Since(start), r.profile.Percentile)

	r.log.Info("experiment finished",
		zap.Uint64("votes_processed", rec.VotesProcessed),
		zap.Uint64("votes_failed", rec.VotesFailed),
		zap.Float64("throughput_per_min", rec.ThroughputPerMin),
		zap.Float64("error_rate_percent", rec.ErrorRatePercent),
		zap.Float64("latency_mean_ms", rec.LatencyMeanMs),
	)
	return rec, nil
}

func (r *Runner) startTickLoop(ctx context.Context, cfg ExperimentConfig, start time.Time, clk clock.Clock) func() {
	if r.updates == nil {
		return nil
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-ticker.C:
				s := Snapshot{
					Config:  cfg,
					Elapsed: clk.Since(start),
					Live:    r.live.Snapshot(),
				}
				select {
				case r.updates <- s:
				default:
					// Drop update if the channel is full.
				}
			}
		}
	}()
	return func() { close(done) }
}
