package trajectory

import (
	"fmt"

	"github.com/emirpasic/gods/maps/treemap"
)

// VariableBounds declares the kinematic limits of a single joint variable,
// as looked up from a robot model. A bound interval may be asymmetric;
// consumers take the magnitude closer to zero as the effective symmetric
// limit. Unbounded variables fall back to system-wide default limits.
type VariableBounds struct {
	MinVelocity     float64
	MaxVelocity     float64
	VelocityBounded bool

	MinAcceleration     float64
	MaxAcceleration     float64
	AccelerationBounded bool
}

// SymmetricVelocity constructs bounds limited to |v| <= v, with
// acceleration unbounded.
func SymmetricVelocity(v float64) VariableBounds {
	return VariableBounds{MinVelocity: -v, MaxVelocity: v, VelocityBounded: true}
}

// Symmetric constructs bounds limited to |velocity| <= v and
// |acceleration| <= a.
func Symmetric(v, a float64) VariableBounds {
	return VariableBounds{
		MinVelocity: -v, MaxVelocity: v, VelocityBounded: true,
		MinAcceleration: -a, MaxAcceleration: a, AccelerationBounded: true,
	}
}

// JointGroup names an ordered set of joint variables and carries their
// bounds. The variable order fixes the meaning of every per-waypoint slice
// in this package.
type JointGroup struct {
	name   string
	vars   []string
	bounds *treemap.Map // variable name -> VariableBounds
}

// NewJointGroup creates a joint group over the given variables, all
// initially unbounded.
func NewJointGroup(name string, vars ...string) *JointGroup {
	return &JointGroup{
		name:   name,
		vars:   append([]string(nil), vars...),
		bounds: treemap.NewWithStringComparator(),
	}
}

// Name returns the group name.
func (g *JointGroup) Name() string {
	return g.name
}

// VariableCount returns the number of joint variables in the group.
func (g *JointGroup) VariableCount() int {
	return len(g.vars)
}

// VariableNames returns the group's variables in planning order.
func (g *JointGroup) VariableNames() []string {
	return g.vars
}

// SetBounds records the kinematic bounds of a variable. Panics if the
// variable is not part of the group.
func (g *JointGroup) SetBounds(variable string, b VariableBounds) {
	for _, v := range g.vars {
		if v == variable {
			g.bounds.Put(variable, b)
			return
		}
	}
	panic(fmt.Sprintf("variable %q is not part of joint group %q", variable, g.name))
}

// Bounds looks up the bounds of a variable. The second return value is
// false if no bounds were recorded.
func (g *JointGroup) Bounds(variable string) (VariableBounds, bool) {
	b, ok := g.bounds.Get(variable)
	if !ok {
		return VariableBounds{}, false
	}
	return b.(VariableBounds), true
}

// String lists the group's variables and their bound state, in variable
// name order.
func (g *JointGroup) String() string {
	s := g.name + "["
	it := g.bounds.Iterator()
	first := true
	for it.Next() {
		if !first {
			s += " "
		}
		first = false
		b := it.Value().(VariableBounds)
		s += fmt.Sprintf("%s(v:%v a:%v)", it.Key().(string), b.VelocityBounded, b.AccelerationBounded)
	}
	return s + "]"
}
