package synth

import (
	"math/rand"
	"sync/atomic"
	"time"
)

// Source yields uniform floats in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

var seedSeq atomic.Int64

// NewSource returns an independent generator. Callers must not share it
// between goroutines.
func NewSource() Source {
	seed := time.Now().UnixNano() + seedSeq.Add(1)
	return rand.New(rand.NewSource(seed))
}

// uniform draws from U(lo, hi).
func uniform(src Source, lo, hi float64) float64 {
	return lo + src.Float64()*(hi-lo)
}

// Option configures a synthesizer.
type Option func(*options)

type options struct {
	newSource func() Source
	now       func() time.Time
}

func defaultOptions() options {
	return options{newSource: NewSource, now: time.Now}
}

// WithSourceFactory sets the constructor invoked once per Synthesize call.
func WithSourceFactory(f func() Source) Option {
	return func(o *options) {
		if f != nil {
			o.newSource = f
		}
	}
}

// WithClock overrides the wall clock used to stamp bars.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
