// Package sim provides the randomness and artificial-latency primitives
// shared by the simulated service layer. Every random draw and every delay
// in the data plane goes through here so tests can script both.
package sim

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Rand is the subset of math/rand/v2 the simulation draws from.
// Implementations must be safe for concurrent use; polling loops for
// different jobs share one source.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// NewSource returns a concurrency-safe Rand. A zero seed yields a
// non-deterministic source; any other seed is reproducible run to run.
func NewSource(seed uint64) Rand {
	if seed == 0 {
		return &lockedRand{r: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))}
	}
	return &lockedRand{r: rand.New(rand.NewPCG(seed, seed))}
}

// Between returns a random integer in [min, max] inclusive.
func Between(r Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + r.IntN(max-min+1)
}

// Wait blocks for d or until ctx is cancelled, whichever comes first.
// It is the cancellable stand-in for time.Sleep; simulated latency must
// never outlive its caller.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Latency is a half-open duration range modelling network and processing
// delay for one class of simulated operation.
type Latency struct {
	Min time.Duration
	Max time.Duration
}

// Scaled returns the range with both bounds multiplied by f. A factor of
// zero collapses the range, disabling the delay.
func (l Latency) Scaled(f float64) Latency {
	return Latency{
		Min: time.Duration(float64(l.Min) * f),
		Max: time.Duration(float64(l.Max) * f),
	}
}

// Sleep waits a random duration in the range, honouring ctx cancellation.
func (l Latency) Sleep(ctx context.Context, r Rand) error {
	if l.Max <= l.Min {
		return Wait(ctx, l.Min)
	}
	d := l.Min + time.Duration(r.IntN(int(l.Max-l.Min)+1))
	return Wait(ctx, d)
}
