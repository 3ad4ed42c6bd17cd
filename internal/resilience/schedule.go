package resilience

import (
	"context"
	"math/rand/v2"
	"time"
)

// scheduleJitter is the fraction of the current delay added as random
// jitter before sleeping.
const scheduleJitter = 0.4

// Schedule produces the delay sequence slept between failed attempts on a
// single row. Each delay is the current value plus uniform jitter in
// [0, 0.4×current]; the current value then grows by the multiplier. Both
// the delay and the grown value are capped at max, so delays never shrink
// and never exceed the cap.
type Schedule struct {
	current time.Duration
	base    float64
	max     time.Duration
	randFn  func() float64
}

// NewSchedule builds a schedule starting at start, growing by base per
// failure, capped at max. Non-positive arguments fall back to the defaults
// (1s, ×1.8, 12s cap).
func NewSchedule(start time.Duration, base float64, max time.Duration) *Schedule {
	if start <= 0 {
		start = time.Second
	}
	if base <= 0 {
		base = 1.8
	}
	if max <= 0 {
		max = 12 * time.Second
	}
	return &Schedule{current: start, base: base, max: max, randFn: rand.Float64}
}

// Next returns the delay to sleep before the following attempt and advances
// the schedule.
func (s *Schedule) Next() time.Duration {
	jitter := time.Duration(s.randFn() * scheduleJitter * float64(s.current))
	delay := s.current + jitter
	if delay > s.max {
		delay = s.max
	}

	s.current = time.Duration(float64(s.current) * s.base)
	if s.current > s.max {
		s.current = s.max
	}
	return delay
}

// Sleep blocks for the schedule's next delay, returning early with the
// context's error when it is cancelled.
func (s *Schedule) Sleep(ctx context.Context) error {
	timer := time.NewTimer(s.Next())
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
