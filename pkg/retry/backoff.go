package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy bounds the reconnect backoff for the subscription client. A zero
// MaxElapsedTime means retries never give up.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 1 * time.Second,
		MaxInterval:     60 * time.Second,
		Multiplier:      2.0,
	}
}

func (p Policy) NewBackOff() backoff.BackOff {
	initial := p.InitialInterval
	if initial <= 0 {
		initial = DefaultPolicy().InitialInterval
	}
	max := p.MaxInterval
	if max <= 0 {
		max = DefaultPolicy().MaxInterval
	}
	multiplier := p.Multiplier
	if multiplier <= 0 {
		multiplier = DefaultPolicy().Multiplier
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = initial
	exp.MaxInterval = max
	exp.Multiplier = multiplier
	exp.MaxElapsedTime = p.MaxElapsedTime
	// Reset reseeds the current interval, which the constructor already
	// primed from the library default before the fields above were set.
	exp.Reset()
	return exp
}
