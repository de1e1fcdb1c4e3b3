package cubic

import "math"

// FitClamped fits a clamped cubic spline over positions x on the time grid dt
// and fills in the derivative buffers. On entry, x1[0] and x1[n-1] carry the
// specified (clamped) endpoint velocities; on return, x1 holds all first
// derivatives and x2 all second derivatives at the knots.
//
// It validates the grid and returns an error for degenerate geometry. The
// solve itself is the O(n) Thomas algorithm; see the package documentation
// for the linear system.
func FitClamped(dt, x, x1, x2 []float64) error {
	if err := validateGrid(dt, x, x1, x2); err != nil {
		return err
	}
	c := make([]float64, len(x))
	d := make([]float64, len(x))
	fitClamped(dt, x, x1, x2, c, d)
	return nil
}

func validateGrid(dt, x, x1, x2 []float64) error {
	n := len(x)
	if n < 2 {
		return ErrTooFewPoints
	}
	if len(x1) != n || len(x2) != n || len(dt) != n-1 {
		return ErrLengthMismatch
	}
	for _, h := range dt {
		if h <= 0 || math.IsNaN(h) {
			return ErrNonPositiveDuration
		}
	}
	return nil
}

// Textbook formulations reuse the output buffers as tridiagonal scratch;
// here c and d are separate so that no write-order subtlety remains.
// c holds the eliminated superdiagonal, d the transformed right-hand side.
func fitClamped(dt, x, x1, x2, c, d []float64) {
	n := len(x)
	v0, vf := x1[0], x1[n-1]

	// forward elimination
	c[0] = 0.5
	d[0] = 3.0 * ((x[1]-x[0])/dt[0] - v0) / dt[0]
	for i := 1; i <= n-2; i++ {
		dt2 := dt[i-1] + dt[i]
		a := dt[i-1] / dt2
		denom := 2.0 - a*c[i-1]
		c[i] = (1.0 - a) / denom
		d[i] = 6.0 * ((x[i+1]-x[i])/dt[i] - (x[i]-x[i-1])/dt[i-1]) / dt2
		d[i] = (d[i] - a*d[i-1]) / denom
	}
	denom := dt[n-2] * (2.0 - c[n-2])
	d[n-1] = 6.0 * (vf - (x[n-1]-x[n-2])/dt[n-2])
	d[n-1] = (d[n-1] - dt[n-2]*d[n-2]) / denom

	// back substitution: second derivatives
	x2[n-1] = d[n-1]
	for i := n - 2; i >= 0; i-- {
		x2[i] = d[i] - c[i]*x2[i+1]
	}

	// closed form: interior first derivatives
	x1[0] = v0
	for i := 1; i < n-1; i++ {
		x1[i] = (x[i+1]-x[i])/dt[i] - (2.0*x2[i]+x2[i+1])*dt[i]/6.0
	}
	x1[n-1] = vf
}

// Fit fits the clamped spline for this joint against the shared grid dt,
// reusing the series' scratch buffers. The clamped endpoint velocities are
// the series' fixed boundary scalars; the caller guarantees dt[i] > 0 and
// len(dt) == s.N()-1.
func (s *Series) Fit(dt []float64) {
	n := s.N()
	s.Vel[0] = s.InitialVelocity
	s.Vel[n-1] = s.FinalVelocity
	fitClamped(dt, s.Pos, s.Vel, s.Acc, s.c, s.d)
}
