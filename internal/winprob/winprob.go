// Package winprob implements the decorative win-probability estimate shown
// on the dashboard. It is a heuristic with random noise, not a model: the
// same inputs give different answers on every call unless the random source
// is pinned.
package winprob

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Input bounds.
const (
	MaxWickets = 10
	MaxOvers   = 20.0
	// OversStep is the granularity of overs.
	OversStep = 0.5
)

// NoiseRange is the absolute bound of the integer noise added to each estimate.
const NoiseRange = 10

// ErrInvalidInput is returned for inputs outside the supported ranges.
var ErrInvalidInput = errors.New("invalid input")

// Input is the state of an innings.
type Input struct {
	Score   int     `json:"score"`
	Wickets int     `json:"wickets"`
	Overs   float64 `json:"overs"`
}

// Validate checks the input ranges: score >= 0, wickets in [0, 10] and overs in
// [0, 20] in steps of OversStep.
func (in Input) Validate() error {
	switch {
	case in.Score < 0:
		return fmt.Errorf("%w: score must be >= 0, got %d", ErrInvalidInput, in.Score)
	case in.Wickets < 0 || in.Wickets > MaxWickets:
		return fmt.Errorf("%w: wickets must be between 0 and %d, got %d", ErrInvalidInput, MaxWickets, in.Wickets)
	case math.IsNaN(in.Overs) || in.Overs < 0 || in.Overs > MaxOvers:
		return fmt.Errorf("%w: overs must be between 0 and %g, got %g", ErrInvalidInput, MaxOvers, in.Overs)
	case math.Mod(in.Overs, OversStep) != 0:
		return fmt.Errorf("%w: overs must be in steps of %g, got %g", ErrInvalidInput, OversStep, in.Overs)
	}
	return nil
}

// RunRate returns runs per over, or zero before the first ball.
func (in Input) RunRate() float64 {
	if in.Overs == 0 {
		return 0
	}
	return float64(in.Score) / in.Overs
}

// Compute returns the estimate for in with the given noise: zero when no
// overs were bowled, else runRate*(10-wickets)+noise clamped to [0, 100]
// and rounded to two decimals.
func Compute(in Input, noise int) float64 {
	if in.Overs == 0 {
		return 0
	}
	raw := in.RunRate()*float64(MaxWickets-in.Wickets) + float64(noise)
	clamped := math.Max(0, math.Min(100, raw))
	return math.Round(clamped*100) / 100
}

// Rand is the random source used for noise.
type Rand interface {
	// IntN returns a uniform integer in [0, n).
	IntN(n int) int
}

// Estimator draws fresh noise for every estimate. It is safe for concurrent use.
type Estimator struct {
	mu  sync.Mutex
	rng Rand
}

// New creates an estimator seeded from the clock.
func New() *Estimator {
	return NewSeeded(uint64(time.Now().UnixNano()))
}

// NewSeeded creates an estimator whose noise sequence is fixed by seed.
func NewSeeded(seed uint64) *Estimator {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithRand creates an estimator on an explicit random source.
func WithRand(rng Rand) *Estimator {
	return &Estimator{rng: rng}
}

// Noise draws a uniform integer in [-NoiseRange, NoiseRange].
func (e *Estimator) Noise() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.IntN(2*NoiseRange+1) - NoiseRange
}

// Estimate validates in and returns the estimate with fresh noise.
func (e *Estimator) Estimate(in Input) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	if in.Overs == 0 {
		return 0, nil
	}
	return Compute(in, e.Noise()), nil
}
