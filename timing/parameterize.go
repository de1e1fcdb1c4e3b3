// Package timing computes time stamps for joint-space trajectories. It drives
// the per-joint spline machinery of package cubic over a shared segment
// duration vector until every joint's velocity, acceleration and jerk bounds
// hold, then commits durations and derivative values back to the trajectory.
//
// The procedure is a convergent heuristic, not an optimizer: durations only
// ever grow, and no claim of global time-optimality is made. Joints are
// independent; only the time grid couples them.
package timing

import (
	"errors"
	"fmt"
	"math"

	"github.com/motionkit/retime"
	"github.com/motionkit/retime/cubic"
	"github.com/motionkit/retime/trajectory"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'timing'
func tracer() tracing.Trace {
	return tracing.Select("timing")
}

// System-wide fallback limits, applied per joint when the robot model leaves
// a variable unbounded.
const (
	DefaultVelocityLimit     = 1.0
	DefaultAccelerationLimit = 1.0
	DefaultJerkLimit         = 1.0
)

// Defaults for zero-valued Options fields.
const (
	DefaultStretchFactor = 1.01
	DefaultMaxPasses     = 1000
)

var (
	// ErrNoGroup indicates a trajectory without joint-group context.
	ErrNoGroup = errors.New("trajectory has no joint group")
	// ErrStretchFactor indicates a stretch factor <= 1, which could never terminate.
	ErrStretchFactor = errors.New("stretch factor must be greater than 1")
	// ErrTooFewPoints indicates fewer waypoints than the spline machinery needs.
	ErrTooFewPoints = errors.New("trajectory needs at least 4 waypoints")
	// ErrBoundaryInfeasible indicates a declared boundary state already outside its limit.
	ErrBoundaryInfeasible = errors.New("boundary state exceeds joint limit")
	// ErrNoConvergence indicates the fixed-point iteration hit the pass cap.
	ErrNoConvergence = errors.New("no fixed point within pass limit")
)

// Options configures a Parameterizer.
//
// Zero-valued numeric fields are replaced by their defaults
// (DefaultStretchFactor, DefaultJerkLimit, DefaultMaxPasses); boolean fields
// are taken literally. Passing nil to New selects all defaults, including
// AddPoints and CheckJerk.
type Options struct {
	// StretchFactor multiplies the duration of an offending segment per
	// iteration. Must be > 1; this is a hard precondition, checked per call.
	StretchFactor float64
	// AddPoints inserts a near-start and a near-end blend waypoint and
	// matches the spline's endpoint curvature to the declared boundary
	// accelerations.
	AddPoints bool
	// CheckJerk enables per-segment jerk limiting against MaxJerk.
	CheckJerk bool
	// MaxJerk is the per-segment jerk limit applied to every joint.
	MaxJerk float64
	// MaxPasses caps both fixed-point iterations; exhausting it yields
	// ErrNoConvergence.
	MaxPasses int
}

// Parameterizer assigns durations and per-joint derivatives to trajectories.
// It is stateless between calls and may be reused.
type Parameterizer struct {
	opts Options
}

// New creates a Parameterizer. opts == nil selects all defaults.
func New(opts *Options) *Parameterizer {
	o := Options{
		StretchFactor: DefaultStretchFactor,
		AddPoints:     true,
		CheckJerk:     true,
		MaxJerk:       DefaultJerkLimit,
		MaxPasses:     DefaultMaxPasses,
	}
	if opts != nil {
		o = *opts
		if o.StretchFactor == 0 {
			o.StretchFactor = DefaultStretchFactor
		}
		if o.MaxJerk == 0 {
			o.MaxJerk = DefaultJerkLimit
		}
		if o.MaxPasses == 0 {
			o.MaxPasses = DefaultMaxPasses
		}
	}
	return &Parameterizer{opts: o}
}

// ComputeTimeStamps assigns a duration to every inter-waypoint segment of
// traj and recomputes per-joint velocity and acceleration at each waypoint,
// such that a clamped cubic spline through the positions respects every
// joint's limits. Velocity and acceleration at the first and last waypoint
// are treated as fixed boundary conditions.
//
// velScale and accScale uniformly derate the joint limits and must lie in
// (0,1]. Out-of-range values are not errors: they are replaced by 1.0 with a
// traced notice (silently for an exact 0.0).
//
// All computation runs on an internal copy; traj is mutated only on success.
// An empty trajectory is a successful no-op.
func (p *Parameterizer) ComputeTimeStamps(traj *trajectory.Trajectory, velScale, accScale float64) error {
	if traj == nil || traj.Len() == 0 {
		return nil
	}
	group := traj.Group()
	if group == nil {
		return ErrNoGroup
	}
	if p.opts.StretchFactor <= 1.0 {
		return fmt.Errorf("%w: got %g", ErrStretchFactor, p.opts.StretchFactor)
	}
	if traj.Len() < 4 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, traj.Len())
	}
	limits := p.jointLimits(group, effectiveScale(velScale, "velocity"),
		effectiveScale(accScale, "acceleration"))
	if err := checkBoundary(traj, group, limits); err != nil {
		return err
	}

	work := traj.Clone()
	if p.opts.AddPoints {
		insertBlendPoints(work)
	}
	joints := buildSeries(work, limits)

	dt := make([]float64, work.Len()-1)
	for _, s := range joints {
		s.RaiseMinimumDurations(dt)
	}

	if err := p.convergeBounds(joints, dt); err != nil {
		return err
	}
	if p.opts.AddPoints {
		if err := p.convergeBoundaryCurvature(joints, dt); err != nil {
			return err
		}
	}

	commit(traj, work, joints, dt)
	tracer().Infof("time-parameterized %d waypoints over %gs", traj.Len(),
		retime.Round(traj.Duration()))
	return nil
}

// effectiveScale coerces a scaling factor into (0,1]. A factor within epsilon
// of 1 counts as exactly 1. An exact 0.0 selects the default silently;
// anything else out of range is traced as a notice.
func effectiveScale(scale float64, kind string) float64 {
	if retime.Is1(scale) {
		return 1.0
	}
	if scale > 0.0 && scale <= 1.0 {
		return scale
	}
	if scale == 0.0 {
		tracer().Debugf("%s scaling factor 0, defaulting to 1", kind)
	} else {
		tracer().Errorf("invalid %s scaling factor %g, defaulting to 1", kind, scale)
	}
	return 1.0
}

// jointLimits resolves the effective per-joint limits: recorded bounds where
// present (taking the bound magnitude closer to zero), the system-wide
// default limits otherwise, both derated by the scaling factors.
func (p *Parameterizer) jointLimits(group *trajectory.JointGroup, velScale, accScale float64) []cubic.Limits {
	limits := make([]cubic.Limits, group.VariableCount())
	for j, name := range group.VariableNames() {
		vmax, amax := DefaultVelocityLimit, DefaultAccelerationLimit
		if b, ok := group.Bounds(name); ok {
			if b.VelocityBounded {
				vmax = retime.MinMagnitude(b.MinVelocity, b.MaxVelocity)
			}
			if b.AccelerationBounded {
				amax = retime.MinMagnitude(b.MinAcceleration, b.MaxAcceleration)
			}
		}
		limits[j] = cubic.Limits{
			MaxVelocity:     vmax * velScale,
			MaxAcceleration: amax * accScale,
			MaxJerk:         p.opts.MaxJerk,
			CheckJerk:       p.opts.CheckJerk,
		}
	}
	return limits
}

// checkBoundary fails fast when a declared boundary velocity or acceleration
// already exceeds its joint's limit. No mutation has happened at this point.
func checkBoundary(traj *trajectory.Trajectory, group *trajectory.JointGroup, limits []cubic.Limits) error {
	first, last := traj.WayPoint(0), traj.WayPoint(traj.Len()-1)
	for j, name := range group.VariableNames() {
		for _, b := range []struct {
			label string
			value float64
			limit float64
		}{
			{"initial velocity", first.Velocities[j], limits[j].MaxVelocity},
			{"final velocity", last.Velocities[j], limits[j].MaxVelocity},
			{"initial acceleration", first.Accelerations[j], limits[j].MaxAcceleration},
			{"final acceleration", last.Accelerations[j], limits[j].MaxAcceleration},
		} {
			if math.Abs(b.value) > b.limit {
				return fmt.Errorf("%w: %s %g of %s exceeds %g",
					ErrBoundaryInfeasible, b.label, b.value, name, b.limit)
			}
		}
	}
	return nil
}

// insertBlendPoints adds one waypoint near each end: a 9:1 blend of the first
// two waypoints and a 1:9 blend of the last two. The extra knots decouple the
// true path shape from the endpoint-curvature matching that follows.
func insertBlendPoints(work *trajectory.Trajectory) {
	head := trajectory.Interpolate(work.WayPoint(0), work.WayPoint(1), 0.1)
	work.InsertWayPoint(1, head)
	n := work.Len()
	tail := trajectory.Interpolate(work.WayPoint(n-2), work.WayPoint(n-1), 0.9)
	work.InsertWayPoint(n-1, tail)
}

// buildSeries converts the [point][joint]-ordered trajectory into one
// cubic.Series per joint, which is the order the solver needs.
func buildSeries(work *trajectory.Trajectory, limits []cubic.Limits) []*cubic.Series {
	n := work.Len()
	first, last := work.WayPoint(0), work.WayPoint(n-1)
	joints := make([]*cubic.Series, len(limits))
	for j := range joints {
		s := cubic.NewSeries(n, limits[j])
		for i := 0; i < n; i++ {
			wp := work.WayPoint(i)
			s.Pos[i] = wp.Positions[j]
			s.Vel[i] = wp.Velocities[j]
			s.Acc[i] = wp.Accelerations[j]
		}
		s.InitialVelocity = first.Velocities[j]
		s.FinalVelocity = last.Velocities[j]
		s.InitialAcceleration = first.Accelerations[j]
		s.FinalAcceleration = last.Accelerations[j]
		joints[j] = s
	}
	return joints
}

// convergeBounds runs every joint's stretch loop against the shared grid
// until a whole pass across all joints makes no stretch. One joint's stretch
// changes the grid every joint is fit against, so the loop is repeated
// cross-joint, not just per joint.
func (p *Parameterizer) convergeBounds(joints []*cubic.Series, dt []float64) error {
	for pass := 0; pass < p.opts.MaxPasses; pass++ {
		stretched := false
		for j, s := range joints {
			if err := p.stretchToFixedPoint(j, s, dt, &stretched); err != nil {
				return err
			}
		}
		if !stretched {
			tracer().Debugf("velocity/acceleration bounds met after %d passes", pass+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %d bound passes", ErrNoConvergence, p.opts.MaxPasses)
}

func (p *Parameterizer) stretchToFixedPoint(j int, s *cubic.Series, dt []float64, stretched *bool) error {
	for it := 0; it < p.opts.MaxPasses; it++ {
		if !s.FitAndStretch(dt, p.opts.StretchFactor) {
			return nil
		}
		*stretched = true
	}
	return fmt.Errorf("%w: joint %d still stretching after %d iterations",
		ErrNoConvergence, j, p.opts.MaxPasses)
}

// convergeBoundaryCurvature alternates endpoint-curvature matching with the
// stretch loop until a whole pass adjusts nothing. Moving the interior knots
// changes the spline shape, which may re-violate bounds; re-stretching
// changes the grid, which moves the curvature solution. Both only make
// monotone or convergent changes, so the alternation settles.
func (p *Parameterizer) convergeBoundaryCurvature(joints []*cubic.Series, dt []float64) error {
	for pass := 0; pass < p.opts.MaxPasses; pass++ {
		adjusted := false
		for j, s := range joints {
			s.MatchBoundaryCurvature(dt)
			if err := p.stretchToFixedPoint(j, s, dt, &adjusted); err != nil {
				return err
			}
		}
		if !adjusted {
			tracer().Debugf("boundary curvature matched after %d passes", pass+1)
			return nil
		}
	}
	return fmt.Errorf("%w: %d curvature passes", ErrNoConvergence, p.opts.MaxPasses)
}

// commit writes the computed result back: dt[i] becomes the duration from
// waypoint i to i+1 (the first waypoint keeps none), and every joint's final
// positions and derivative values replace the trajectory's. Derivatives within
// epsilon of zero are zapped to exact zeros. This is the only point at which
// the caller's trajectory is mutated.
func commit(traj, work *trajectory.Trajectory, joints []*cubic.Series, dt []float64) {
	n := work.Len()
	work.WayPoint(0).TimeFromPrevious = 0
	for i := 1; i < n; i++ {
		work.WayPoint(i).TimeFromPrevious = dt[i-1]
	}
	for j, s := range joints {
		for i := 0; i < n; i++ {
			wp := work.WayPoint(i)
			wp.Positions[j] = s.Pos[i]
			wp.Velocities[j] = retime.Zap(s.Vel[i])
			wp.Accelerations[j] = retime.Zap(s.Acc[i])
		}
	}
	pts := make([]trajectory.WayPoint, n)
	for i := 0; i < n; i++ {
		pts[i] = *work.WayPoint(i)
	}
	traj.SetWayPoints(pts)
}
