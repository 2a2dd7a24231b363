package storage

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/poiesic/depot/core"
)

// FaultInjector simulates infrastructure failure during writes. Stores
// consult it after the duplicate checks and immediately before the insert;
// a non-nil error aborts the write, leaves the store unchanged, and surfaces
// to the caller as an infrastructure failure, never as a conflict.
type FaultInjector interface {
	BeforeWrite(rec *core.Record) error
}

// FaultFunc adapts a function to the FaultInjector interface.
type FaultFunc func(rec *core.Record) error

var _ FaultInjector = (FaultFunc)(nil)

// BeforeWrite calls f.
func (f FaultFunc) BeforeWrite(rec *core.Record) error { return f(rec) }

// noFaults is a no-op implementation of FaultInjector.
type noFaults struct{}

var _ FaultInjector = noFaults{}

func (noFaults) BeforeWrite(_ *core.Record) error { return nil }

// NoFaults returns an injector that never fails a write.
func NoFaults() FaultInjector { return noFaults{} }

// RateInjector fails a fixed fraction of writes using a seeded random
// source, so a given seed reproduces the same failure sequence.
type RateInjector struct {
	mu   sync.Mutex
	rate float64
	rng  *rand.Rand
}

var _ FaultInjector = (*RateInjector)(nil)

// NewRateInjector creates an injector failing roughly rate of all writes.
// rate is clamped to [0, 1].
func NewRateInjector(rate float64, seed int64) *RateInjector {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	return &RateInjector{rate: rate, rng: rand.New(rand.NewSource(seed))}
}

// BeforeWrite implements FaultInjector.
func (i *RateInjector) BeforeWrite(rec *core.Record) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.rng.Float64() < i.rate {
		return fmt.Errorf("%w: injected fault writing record %q", ErrStoreUnavailable, rec.Id)
	}
	return nil
}
