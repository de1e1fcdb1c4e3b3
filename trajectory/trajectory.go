// Package trajectory stores joint-space waypoint sequences together with the
// robot-model context needed to time them: an ordered joint group, per-joint
// kinematic bounds, and a duration from each waypoint to its predecessor.
//
// The package is deliberately dumb storage. It neither checks feasibility nor
// assigns durations itself; package timing does that. Angle unwinding of
// revolute joints is likewise the caller's business: positions are stored
// exactly as given.
package trajectory

import (
	"fmt"

	"github.com/motionkit/retime"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'retime'
func tracer() tracing.Trace {
	return tracing.Select("retime")
}

// A WayPoint is one joint-space configuration sample along a path. Position,
// velocity and acceleration are indexed by the joint group's variable order.
// TimeFromPrevious is the duration of the segment ending at this waypoint;
// it is 0 for the first waypoint of a trajectory.
type WayPoint struct {
	Positions        []float64
	Velocities       []float64
	Accelerations    []float64
	TimeFromPrevious float64
}

// NewWayPoint creates a zero waypoint for n joint variables.
func NewWayPoint(n int) WayPoint {
	return WayPoint{
		Positions:     make([]float64, n),
		Velocities:    make([]float64, n),
		Accelerations: make([]float64, n),
	}
}

// Clone returns a deep copy of a waypoint.
func (wp WayPoint) Clone() WayPoint {
	c := NewWayPoint(len(wp.Positions))
	copy(c.Positions, wp.Positions)
	copy(c.Velocities, wp.Velocities)
	copy(c.Accelerations, wp.Accelerations)
	c.TimeFromPrevious = wp.TimeFromPrevious
	return c
}

// Interpolate blends two waypoints: s=0 yields a, s=1 yields b. Positions,
// velocities and accelerations are all blended; the duration field is left 0,
// to be assigned during time parameterization.
func Interpolate(a, b *WayPoint, s float64) WayPoint {
	n := len(a.Positions)
	wp := NewWayPoint(n)
	for j := 0; j < n; j++ {
		wp.Positions[j] = retime.Lerp(a.Positions[j], b.Positions[j], s)
		wp.Velocities[j] = retime.Lerp(a.Velocities[j], b.Velocities[j], s)
		wp.Accelerations[j] = retime.Lerp(a.Accelerations[j], b.Accelerations[j], s)
	}
	return wp
}

// Trajectory is an ordered sequence of waypoints over a joint group.
// To construct one, start with New(group) and extend it with Append or
// AppendPoint.
type Trajectory struct {
	group  *JointGroup
	points []WayPoint
}

// New creates an empty trajectory for the given joint group. A nil group is
// permitted here; timing will reject such a trajectory before computing.
func New(group *JointGroup) *Trajectory {
	return &Trajectory{group: group}
}

// Group returns the joint-group context the trajectory was planned for.
func (t *Trajectory) Group() *JointGroup {
	return t.group
}

// Len returns the waypoint count.
func (t *Trajectory) Len() int {
	return len(t.points)
}

// WayPoint returns the waypoint at index i for reading and in-place mutation.
func (t *Trajectory) WayPoint(i int) *WayPoint {
	return &t.points[i]
}

// Append adds a waypoint at the end. Part of builder functionality.
// Panics if the waypoint dimension does not match the joint group.
func (t *Trajectory) Append(wp WayPoint) *Trajectory {
	t.checkDim(len(wp.Positions))
	t.points = append(t.points, wp)
	return t
}

// AppendPoint adds a waypoint with the given positions and zero velocity and
// acceleration. Part of builder functionality.
func (t *Trajectory) AppendPoint(positions ...float64) *Trajectory {
	t.checkDim(len(positions))
	wp := NewWayPoint(len(positions))
	copy(wp.Positions, positions)
	t.points = append(t.points, wp)
	return t
}

func (t *Trajectory) checkDim(n int) {
	if t.group != nil && n != t.group.VariableCount() {
		tracer().Errorf("waypoint dimension %d does not match group %q", n, t.group.Name())
		panic(fmt.Sprintf("waypoint has %d variables, joint group %q has %d",
			n, t.group.Name(), t.group.VariableCount()))
	}
}

// InsertWayPoint inserts wp before index i, shifting later waypoints up.
func (t *Trajectory) InsertWayPoint(i int, wp WayPoint) {
	t.checkDim(len(wp.Positions))
	t.points = append(t.points, WayPoint{})
	copy(t.points[i+1:], t.points[i:])
	t.points[i] = wp
}

// SetWayPoints replaces the whole waypoint sequence. The trajectory takes
// ownership of pts.
func (t *Trajectory) SetWayPoints(pts []WayPoint) {
	for _, wp := range pts {
		t.checkDim(len(wp.Positions))
	}
	t.points = pts
}

// Duration returns the total trajectory duration, i.e. the sum of all
// segment durations.
func (t *Trajectory) Duration() float64 {
	var d float64
	for i := range t.points {
		d += t.points[i].TimeFromPrevious
	}
	return d
}

// Clone returns a deep copy of the trajectory, sharing the (immutable after
// setup) joint group.
func (t *Trajectory) Clone() *Trajectory {
	c := &Trajectory{group: t.group}
	c.points = make([]WayPoint, len(t.points))
	for i := range t.points {
		c.points[i] = t.points[i].Clone()
	}
	return c
}
