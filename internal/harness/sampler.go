package harness

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"votebench/internal/clock"
)

// Prober reads host utilization. Split out from the sampler so tests can
// stub the host away.
type Prober interface {
	CPUPercent() (float64, error)
	MemoryUsedMB() (float64, error)
}

// HostProber reads the local machine via gopsutil. CPUPercent blocks for
// one second to measure utilization over a real window.
type HostProber struct{}

func (HostProber) CPUPercent() (float64, error) {
	pcts, err := cpu.Percent(time.Second, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("no cpu utilization reported")
	}
	return pcts[0], nil
}

func (HostProber) MemoryUsedMB() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return float64(vm.Used) / (1024 * 1024), nil
}

// ResourceSampler appends host utilization samples to the record at a
// fixed cadence for the lifetime of one run. Sampling failures are
// recorded and never stop the loop.
type ResourceSampler struct {
	Probe    Prober
	Clock    clock.Clock
	Interval time.Duration
}

func (s *ResourceSampler) Run(rec *MetricsRecord, duration time.Duration) {
	deadline := s.Clock.Now().Add(duration)

	for s.Clock.Now().Before(deadline) {
		cpuPct, err := s.Probe.CPUPercent()
		if err != nil {
			rec.AddError("resource sample: %v", err)
			s.Clock.Sleep(s.Interval)
			continue
		}
		memMB, err := s.Probe.MemoryUsedMB()
		if err != nil {
			rec.AddError("resource sample: %v", err)
			s.Clock.Sleep(s.Interval)
			continue
		}

		rec.AddResourceSample(cpuPct, memMB)
		s.Clock.Sleep(s.Interval)
	}
}
