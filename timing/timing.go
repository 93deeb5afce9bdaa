// Package timing records the stage timings surfaced alongside a run's
// results (spec §6 "load/init/compute/total").
package timing

import "time"

// Stages holds the four named stage durations, in milliseconds, matching
// the field names a run reports them under.
type Stages struct {
	LoadMS    int64 `json:"load_ms"`
	InitMS    int64 `json:"init_ms"`
	ComputeMS int64 `json:"compute_ms"`
	TotalMS   int64 `json:"total_ms"`
}

// Recorder accumulates named stage durations via Track, then yields them
// as Stages.
type Recorder struct {
	start   time.Time
	load    time.Duration
	init    time.Duration
	compute time.Duration
}

// NewRecorder starts the recorder's total-duration clock.
func NewRecorder() *Recorder {
	return &Recorder{start: time.Now()}
}

// Track runs fn, attributing its wall-clock duration to the named stage
// ("load", "init", or "compute"); any other name is a no-op attribution
// (the call still runs fn).
func (r *Recorder) Track(stage string, fn func() error) error {
	begin := time.Now()
	err := fn()
	elapsed := time.Since(begin)
	switch stage {
	case "load":
		r.load += elapsed
	case "init":
		r.init += elapsed
	case "compute":
		r.compute += elapsed
	}
	return err
}

// Stages returns the accumulated durations, with TotalMS measured from
// the recorder's construction rather than summed from the parts, so it
// also covers time spent outside any tracked stage.
func (r *Recorder) Stages() Stages {
	return Stages{
		LoadMS:    r.load.Milliseconds(),
		InitMS:    r.init.Milliseconds(),
		ComputeMS: r.compute.Milliseconds(),
		TotalMS:   time.Since(r.start).Milliseconds(),
	}
}
