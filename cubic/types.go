package cubic

import (
	"errors"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'retime'
func tracer() tracing.Trace {
	return tracing.Select("retime")
}

var (
	// ErrTooFewPoints indicates the series is too short to fit a spline.
	ErrTooFewPoints = errors.New("series has too few points")
	// ErrLengthMismatch indicates position/derivative/duration buffers disagree in length.
	ErrLengthMismatch = errors.New("series buffers disagree in length")
	// ErrNonPositiveDuration indicates a segment duration that is zero or negative.
	ErrNonPositiveDuration = errors.New("segment duration must be positive")
)

// Limits bounds the motion of a single joint. MaxJerk is consulted only
// when CheckJerk is set.
type Limits struct {
	MaxVelocity     float64
	MaxAcceleration float64
	MaxJerk         float64
	CheckJerk       bool
}

// Series is one joint's transient view of a trajectory: positions over the
// shared time grid, the derivative values the spline fit produces, the fixed
// boundary conditions, and the joint's limits.
//
// Pos, Vel and Acc have equal length n; the shared duration vector passed
// into the methods has length n-1. Vel and Acc are overwritten by every fit.
// Only Pos[1] and Pos[n-2] are ever rewritten, by MatchBoundaryCurvature;
// all other positions are immutable inputs.
type Series struct {
	Pos []float64
	Vel []float64
	Acc []float64

	InitialVelocity     float64
	FinalVelocity       float64
	InitialAcceleration float64
	FinalAcceleration   float64

	Limits Limits

	c, d []float64 // tridiagonal scratch, reused across fits
}

// NewSeries allocates a series for n waypoints.
func NewSeries(n int, limits Limits) *Series {
	return &Series{
		Pos:    make([]float64, n),
		Vel:    make([]float64, n),
		Acc:    make([]float64, n),
		Limits: limits,
		c:      make([]float64, n),
		d:      make([]float64, n),
	}
}

// N returns the number of waypoints in the series.
func (s *Series) N() int {
	return len(s.Pos)
}
