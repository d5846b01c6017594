package mixer

import (
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

func genericSettings() (iface.ActuatorSettings, iface.MixerSettings, iface.SystemSettings) {
	actuator := iface.ActuatorSettings{
		NumChannels:              4,
		MotorInputOutputCurveFit: 1,
	}
	mixer := iface.MixerSettings{
		NumChannels:  4,
		Curve1:       []float64{0, 1},
		Curve2:       []float64{-1, 1},
		Curve2Source: iface.Curve2SourceRoll,
	}
	system := iface.SystemSettings{AirframeType: iface.AirframeGeneric}
	return actuator, mixer, system
}

func TestNormalizeDisarmedIsNotStabilizing(t *testing.T) {
	actuator, mixerSettings, system := genericSettings()
	state := &NormalizerState{}
	desired := iface.ActuatorDesired{Thrust: 0.8}
	flight := iface.FlightStatus{Armed: iface.Disarmed}

	out := Normalize(state, time.Now(), desired, true, flight, false, iface.ManualControlCommand{}, actuator, mixerSettings, system)
	test.That(t, out.Armed, test.ShouldBeFalse)
	test.That(t, out.StabilizeNow, test.ShouldBeFalse)
}

func TestNormalizeArmedPositiveThrottleStabilizes(t *testing.T) {
	actuator, mixerSettings, system := genericSettings()
	state := &NormalizerState{}
	desired := iface.ActuatorDesired{Thrust: 0.6}
	flight := iface.FlightStatus{Armed: iface.Armed}

	out := Normalize(state, time.Now(), desired, true, flight, false, iface.ManualControlCommand{}, actuator, mixerSettings, system)
	test.That(t, out.Armed, test.ShouldBeTrue)
	test.That(t, out.StabilizeNow, test.ShouldBeTrue)
}

func TestNormalizeLowPowerHangTime(t *testing.T) {
	actuator, mixerSettings, system := genericSettings()
	actuator.LowPowerStabilizationMaxTime = 1 // 1 second hang-time
	state := &NormalizerState{}
	flight := iface.FlightStatus{Armed: iface.Armed}

	now := time.Now()
	armedTick := Normalize(state, now, iface.ActuatorDesired{Thrust: 0.5}, true, flight, false, iface.ManualControlCommand{}, actuator, mixerSettings, system)
	test.That(t, armedTick.StabilizeNow, test.ShouldBeTrue)

	// Throttle drops to zero shortly after: hang-time should keep it stabilizing.
	soon := now.Add(200 * time.Millisecond)
	droppedTick := Normalize(state, soon, iface.ActuatorDesired{Thrust: 0}, false, flight, false, iface.ManualControlCommand{}, actuator, mixerSettings, system)
	test.That(t, droppedTick.StabilizeNow, test.ShouldBeTrue)

	// Well past the hang-time window, stabilization lapses.
	late := now.Add(2 * time.Second)
	lateTick := Normalize(state, late, iface.ActuatorDesired{Thrust: 0}, false, flight, false, iface.ManualControlCommand{}, actuator, mixerSettings, system)
	test.That(t, lateTick.StabilizeNow, test.ShouldBeFalse)
}

func TestNormalizeHeliCPFailsafeForcesThrottleDown(t *testing.T) {
	actuator, mixerSettings, system := genericSettings()
	system.AirframeType = iface.AirframeHeliCP
	state := &NormalizerState{}
	flight := iface.FlightStatus{Armed: iface.Armed, FlightMode: iface.FlightModeFailsafe}

	out := Normalize(state, time.Now(), iface.ActuatorDesired{}, true, flight, false, iface.ManualControlCommand{Throttle: 0.9}, actuator, mixerSettings, system)
	test.That(t, out.Desired[iface.AxisThrottleCurve1], test.ShouldAlmostEqual, 0.0) // curve1(-1) on [0,1]-domain clamps to curve1(0)
}

func TestNormalizeHeliCPUsesManualThrottle(t *testing.T) {
	actuator, mixerSettings, system := genericSettings()
	system.AirframeType = iface.AirframeHeliCP
	state := &NormalizerState{}
	flight := iface.FlightStatus{Armed: iface.Armed, FlightMode: iface.FlightModeNormal}
	manual := iface.ManualControlCommand{Throttle: 0.25}

	out := Normalize(state, time.Now(), iface.ActuatorDesired{Thrust: 0.99}, true, flight, true, manual, actuator, mixerSettings, system)
	test.That(t, out.Desired[iface.AxisThrottleCurve1], test.ShouldAlmostEqual, 0.25)
}

func TestResolveCurve2SourceHeliCPSwap(t *testing.T) {
	state := &NormalizerState{ManualThrottle: 0.4, ManualCollective: 0.6}
	desired := iface.ActuatorDesired{Thrust: 0.9}

	test.That(t, resolveCurve2Source(iface.Curve2SourceThrust, desired, state, iface.AirframeHeliCP), test.ShouldAlmostEqual, 0.4)
	test.That(t, resolveCurve2Source(iface.Curve2SourceCollective, desired, state, iface.AirframeHeliCP), test.ShouldAlmostEqual, 0.9)
	test.That(t, resolveCurve2Source(iface.Curve2SourceThrust, desired, state, iface.AirframeGeneric), test.ShouldAlmostEqual, 0.9)
}
