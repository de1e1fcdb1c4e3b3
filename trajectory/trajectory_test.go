package trajectory

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
)

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic, got none")
		}
	}()
	f()
}

func armGroup() *JointGroup {
	g := NewJointGroup("arm", "shoulder", "elbow")
	g.SetBounds("shoulder", Symmetric(1.5, 3))
	g.SetBounds("elbow", SymmetricVelocity(2))
	return g
}

func TestJointGroupBounds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	g := armGroup()
	assert.Equal(t, 2, g.VariableCount())
	assert.Equal(t, []string{"shoulder", "elbow"}, g.VariableNames())

	b, ok := g.Bounds("shoulder")
	assert.True(t, ok)
	assert.True(t, b.VelocityBounded)
	assert.True(t, b.AccelerationBounded)
	assert.Equal(t, 1.5, b.MaxVelocity)
	assert.Equal(t, -3.0, b.MinAcceleration)

	b, ok = g.Bounds("elbow")
	assert.True(t, ok)
	assert.False(t, b.AccelerationBounded)

	_, ok = g.Bounds("wrist")
	assert.False(t, ok)
	mustPanic(t, func() { g.SetBounds("wrist", SymmetricVelocity(1)) })
}

func TestJointGroupString(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := armGroup().String()
	if !strings.Contains(s, "shoulder") || !strings.Contains(s, "elbow") {
		t.Errorf("String() misses variables: %s", s)
	}
}

func TestWayPointClone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	wp := NewWayPoint(2)
	wp.Positions[0] = 1
	wp.Velocities[1] = -0.5
	wp.TimeFromPrevious = 0.25
	c := wp.Clone()
	c.Positions[0] = 99
	assert.Equal(t, 1.0, wp.Positions[0], "clone must not share storage")
	assert.Equal(t, -0.5, c.Velocities[1])
	assert.Equal(t, 0.25, c.TimeFromPrevious)
}

func TestInterpolate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := NewWayPoint(1)
	b := NewWayPoint(1)
	b.Positions[0] = 10
	b.Velocities[0] = 2
	b.Accelerations[0] = -4

	blend := Interpolate(&a, &b, 0.1) // the 9:1 blend used near trajectory starts
	assert.InDelta(t, 1.0, blend.Positions[0], 1e-12)
	assert.InDelta(t, 0.2, blend.Velocities[0], 1e-12)
	assert.InDelta(t, -0.4, blend.Accelerations[0], 1e-12)
	assert.Equal(t, 0.0, blend.TimeFromPrevious)
}

func TestTrajectoryBuilder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := New(armGroup()).
		AppendPoint(0, 0).
		AppendPoint(1, -1).
		AppendPoint(2, -2)
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 1.0, tr.WayPoint(1).Positions[0])
	assert.Equal(t, -2.0, tr.WayPoint(2).Positions[1])

	mustPanic(t, func() { tr.AppendPoint(1, 2, 3) })
	mustPanic(t, func() { tr.Append(NewWayPoint(5)) })
}

func TestTrajectoryInsert(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := New(armGroup()).AppendPoint(0, 0).AppendPoint(2, 2)
	mid := Interpolate(tr.WayPoint(0), tr.WayPoint(1), 0.5)
	tr.InsertWayPoint(1, mid)
	assert.Equal(t, 3, tr.Len())
	assert.Equal(t, 1.0, tr.WayPoint(1).Positions[0])
	assert.Equal(t, 2.0, tr.WayPoint(2).Positions[0], "later waypoints shift up")
}

func TestTrajectoryDuration(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := New(armGroup()).AppendPoint(0, 0).AppendPoint(1, 1).AppendPoint(2, 2)
	tr.WayPoint(1).TimeFromPrevious = 0.5
	tr.WayPoint(2).TimeFromPrevious = 1.25
	assert.InDelta(t, 1.75, tr.Duration(), 1e-12)
}

func TestTrajectoryClone(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := New(armGroup()).AppendPoint(0, 0).AppendPoint(1, 1)
	c := tr.Clone()
	c.WayPoint(0).Positions[0] = 42
	c.AppendPoint(2, 2)
	assert.Equal(t, 0.0, tr.WayPoint(0).Positions[0], "clone must not share storage")
	assert.Equal(t, 2, tr.Len())
	assert.Same(t, tr.Group(), c.Group(), "joint group is shared")
}

func TestTrajectorySetWayPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	tr := New(armGroup()).AppendPoint(0, 0).AppendPoint(1, 1)
	pts := []WayPoint{NewWayPoint(2), NewWayPoint(2), NewWayPoint(2)}
	tr.SetWayPoints(pts)
	assert.Equal(t, 3, tr.Len())
	mustPanic(t, func() { tr.SetWayPoints([]WayPoint{NewWayPoint(1)}) })
}
