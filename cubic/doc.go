// Package cubic fits clamped cubic splines to per-joint waypoint series and
// adjusts segment durations until kinematic bounds hold.
/*

A clamped cubic spline is a piecewise cubic interpolant with continuous first
and second derivatives at the interior knots, whose first derivative at both
endpoints is specified rather than left free. For a joint's positions x.0..x.n-1
over a time grid with segment durations dt.0..dt.n-2, the interior second
derivatives satisfy one linear equation per knot:

   dt.(i-1)*x".(i-1) + 2*(dt.(i-1)+dt.i)*x".i + dt.i*x".(i+1)
       = 6*((x.(i+1)-x.i)/dt.i - (x.i-x.(i-1))/dt.(i-1))

with the first and last row clamped to the specified endpoint velocities. The
system matrix is tridiagonal and is solved in O(n) by the Thomas algorithm:
a forward elimination pass builds recurrence coefficients, a back-substitution
pass yields the second derivatives, and a closed-form pass recovers the
interior first derivatives. The standard reference for this construction is

   Numerical Recipes: The Art of Scientific Computing,
   Press/Teukolsky/Vetterling/Flannery, ch. 3.3 (Cubic Spline Interpolation)

and

   C. de Boor, A Practical Guide to Splines, Springer 1978.

On top of the fitter, the package provides the three per-joint adjustment
operations that iterative time parameterization is built from:

  - RaiseMinimumDurations seeds a shared duration vector from a max-velocity
    straight-line estimate, only ever increasing entries.
  - FitAndStretch re-fits the spline and multiplies the duration of every
    offending segment by a stretch factor until velocity, acceleration and
    (optionally) jerk bounds hold. Stretching only grows durations, and for a
    fixed spline shape a longer segment implies smaller derivative magnitudes,
    so repeated calls reach a fixed point.
  - MatchBoundaryCurvature repositions the two interior-most knots so the
    spline's endpoint curvature hits a target acceleration. For a fixed time
    grid the endpoint curvature is an affine function of a single interior
    position (the tridiagonal right-hand side is affine in it, and the solve
    is linear), so two sample fits and a two-point solve suffice.

All operations work on one joint at a time. The duration vector is shared,
externally owned state: every joint is fit against the same grid, and a
stretch made for one joint changes the grid every other joint sees.

# BSD License

All rights reserved.

Please refer to the license file for more information.
*/
package cubic
