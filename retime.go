/*
Package retime assigns time to geometry. Its subpackages turn a purely
geometric sequence of robot joint-space waypoints into a dynamically
executable trajectory: every inter-waypoint segment receives a duration,
and per-joint velocities and accelerations are recomputed so that a
clamped cubic spline through the positions respects declared velocity,
acceleration and jerk limits.

The root package holds the scalar numeric core shared by the subpackages:
epsilon handling, rounding and interpolation on plain float64 values.

# BSD License

All rights reserved.

Please refer to the license file for more information.
*/
package retime

import (
	"math"
)

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// Lerp interpolates linearly between a and b. Lerp(a, b, 0) is a,
// Lerp(a, b, 1) is b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// MinMagnitude returns the smaller absolute value of a and b.
// Kinematic bounds frequently come as an asymmetric (lower, upper) interval;
// the effective symmetric limit is the magnitude closer to zero.
func MinMagnitude(a, b float64) float64 {
	return math.Min(math.Abs(a), math.Abs(b))
}
