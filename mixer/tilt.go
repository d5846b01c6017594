package mixer

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// rotateY rotates v by theta radians about the body Y axis.
func rotateY(v r3.Vector, theta float64) r3.Vector {
	sin, cos := math.Sin(theta), math.Cos(theta)
	return r3.Vector{
		X: v.X*cos + v.Z*sin,
		Y: v.Y,
		Z: -v.X*sin + v.Z*cos,
	}
}

// TiltRow rewrites a compiled Motor row for a rotor tilted by theta
// radians about the body Y axis, recomputing its force and moment
// contributions under the rotation. Exposed publicly as a reserved hook
// so an airframe integrator can unit-test a tilt-rotor configuration
// directly; every call site in this repository still passes theta=0.
//
// When row's ThrottleCurve1 coefficient is zero the transform is
// undefined -- callers must not invoke TiltRow with a nonzero theta
// against a zero-c1 row. A zero c1 leaves the row unchanged rather than
// dividing by zero.
func TiltRow(row [iface.NAxis]float64, theta float64) [iface.NAxis]float64 {
	c1 := -row[iface.AxisThrottleCurve1]
	if c1 == 0 {
		return row
	}

	ro := row[iface.AxisRoll]
	pi := row[iface.AxisPitch]
	ya := row[iface.AxisYaw]

	f := r3.Vector{X: 0, Y: 0, Z: -c1}
	tau := r3.Vector{X: 0, Y: 0, Z: ya}
	d := r3.Vector{X: pi / c1, Y: -ro / c1, Z: 0}

	fRot := rotateY(f, theta)
	tauRot := rotateY(tau, theta)
	mRot := d.Cross(fRot).Add(tauRot)

	out := row
	out[iface.AxisThrottleCurve1] = fRot.Z
	out[iface.AxisRoll] = mRot.X
	out[iface.AxisPitch] = mRot.Y
	out[iface.AxisYaw] = mRot.Z
	return out
}
