package cubic

import (
	"math"

	"github.com/motionkit/retime"
)

// RaiseMinimumDurations seeds the shared duration vector from a max-velocity
// straight-line estimate for this joint: dt[i] is raised to at least
// |Pos[i+1]-Pos[i]| / MaxVelocity plus a small margin, and never lowered.
// Because the vector is shared, calling this once per joint leaves every
// segment at the per-segment maximum requirement across joints. The margin
// keeps a duplicate waypoint from producing a zero duration and keeps the
// very first bound check from firing on exact equality.
func (s *Series) RaiseMinimumDurations(dt []float64) {
	for i := 1; i < s.N(); i++ {
		min := math.Abs(s.Pos[i]-s.Pos[i-1])/s.Limits.MaxVelocity + retime.Epsilon
		if dt[i-1] < min {
			dt[i-1] = min
		}
	}
}

// FitAndStretch re-fits the spline against dt, then scans every segment and
// multiplies the duration of each offending segment by tfactor. It reports
// whether any stretch occurred; a false return means this joint is at a
// fixed point for the current grid.
//
// Per segment, three conditions are evaluated independently against the grid
// the fit ran on: instantaneous velocity over limit at either endpoint,
// instantaneous acceleration over limit at either endpoint, and — when jerk
// checking is enabled — the segment's constant jerk over limit. A segment
// violating several conditions is stretched once per condition.
func (s *Series) FitAndStretch(dt []float64, tfactor float64) bool {
	s.Fit(dt)
	n := s.N()
	stretched := false
	for i := 0; i < n-1; i++ {
		overVel := math.Abs(s.Vel[i]) > s.Limits.MaxVelocity ||
			math.Abs(s.Vel[i+1]) > s.Limits.MaxVelocity
		overAcc := math.Abs(s.Acc[i]) > s.Limits.MaxAcceleration ||
			math.Abs(s.Acc[i+1]) > s.Limits.MaxAcceleration
		overJerk := false
		if s.Limits.CheckJerk {
			// jerk is not continuous, it is constant per segment
			jerk := (s.Acc[i+1] - s.Acc[i]) / dt[i]
			overJerk = math.Abs(jerk) > s.Limits.MaxJerk
		}
		if overVel {
			dt[i] *= tfactor
			stretched = true
		}
		if overAcc {
			dt[i] *= tfactor
			stretched = true
		}
		if overJerk {
			dt[i] *= tfactor
			stretched = true
		}
	}
	if stretched {
		tracer().Debugf("joint stretched, total time now %.6g", sum(dt))
	}
	return stretched
}

func sum(dt []float64) float64 {
	var t float64
	for _, h := range dt {
		t += h
	}
	return t
}

// MatchBoundaryCurvature repositions Pos[1] and Pos[n-2] so that the spline's
// endpoint curvature equals the series' initial and final acceleration. The
// true path shape is untouched; only the two interior-most knots move.
//
// For a fixed grid the endpoint curvature is affine in the interior position,
// so it is sampled twice per end — once with the knot collapsed onto its
// outer neighbor, once onto its inner neighbor — and solved in two-point
// form. If the two samples coincide the system is singular for that end and
// the knot is restored unchanged.
//
// The series' derivative buffers are left holding the last sample fit; the
// caller is expected to re-fit (FitAndStretch does) before reading them.
func (s *Series) MatchBoundaryCurvature(dt []float64) {
	n := s.N()
	x := s.Pos
	head, tail := x[1], x[n-2]

	x[1] = x[0]
	x[n-2] = x[n-3]
	s.Fit(dt)
	a0, b0 := s.Acc[0], s.Acc[n-1]

	x[1] = x[2]
	x[n-2] = x[n-1]
	s.Fit(dt)
	a2, b2 := s.Acc[0], s.Acc[n-1]

	if retime.Is0(a2 - a0) {
		tracer().Debugf("start curvature insensitive to knot 1, leaving it")
		x[1] = head
	} else {
		x[1] = x[0] + ((x[2]-x[0])/(a2-a0))*(s.InitialAcceleration-a0)
	}
	if retime.Is0(b2 - b0) {
		tracer().Debugf("end curvature insensitive to knot %d, leaving it", n-2)
		x[n-2] = tail
	} else {
		x[n-2] = x[n-3] + ((x[n-1]-x[n-3])/(b2-b0))*(s.FinalAcceleration-b0)
	}
}
