package mixer

import (
	"time"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// DesiredVector is the mixer's input column vector, in the canonical
// axis order.
type DesiredVector [iface.NAxis]float64

// NormalizerState is the latched, tick-to-tick state the input
// normalizer owns: cached FlightStatus, latched manual-control values,
// and the low-power hang-time timer. It's part of the task goroutine's
// owned state and is safe to mutate only from there.
type NormalizerState struct {
	CachedFlightStatus     iface.FlightStatus
	ManualThrottle         float64
	ManualCollective       float64
	Accessory              [iface.NumAccessory]float64
	LastPosThrottleTime    time.Time
	HasLastPosThrottleTime bool
}

// NormOutput is everything the post-processor needs out of a
// normalizer tick beyond the desired vector itself.
type NormOutput struct {
	Desired        DesiredVector
	Armed          bool
	StabilizeNow   bool
	SpinWhileArmed bool
}

// Normalize selects the throttle input, applies the low-power
// stabilization hang-time, and interpolates both curves into the
// desired vector.
func Normalize(
	state *NormalizerState,
	now time.Time,
	desired iface.ActuatorDesired,
	flightDirty bool,
	flight iface.FlightStatus,
	manualDirty bool,
	manual iface.ManualControlCommand,
	actuatorSettings iface.ActuatorSettings,
	mixerSettings iface.MixerSettings,
	systemSettings iface.SystemSettings,
) NormOutput {
	if flightDirty {
		state.CachedFlightStatus = flight
	}
	if manualDirty {
		state.ManualThrottle = manual.Throttle
		state.ManualCollective = manual.Collective
		state.Accessory = manual.Accessory
	}

	airframe := systemSettings.AirframeType

	var throttle float64
	if airframe == iface.AirframeHeliCP {
		if state.CachedFlightStatus.FlightMode == iface.FlightModeFailsafe {
			throttle = -1
		} else {
			throttle = state.ManualThrottle
		}
	} else {
		throttle = desired.Thrust
	}

	armed := state.CachedFlightStatus.Armed == iface.Armed
	spinWhileArmed := actuatorSettings.MotorsSpinWhileArmed
	stabilizeNow := armed && throttle > 0

	// Low-power stabilization hang-time.
	if stabilizeNow {
		if actuatorSettings.LowPowerStabilizationMaxTime > 0 {
			state.LastPosThrottleTime = now
			state.HasLastPosThrottleTime = true
		}
	} else {
		window := time.Duration(actuatorSettings.LowPowerStabilizationMaxTime * float64(time.Second))
		if state.HasLastPosThrottleTime && now.Sub(state.LastPosThrottleTime) < window {
			stabilizeNow = true
			throttle = 0
		} else {
			state.HasLastPosThrottleTime = false
		}
	}

	v1 := Interpolate(throttle, mixerSettings.Curve1, 0, 1)
	curve2Input := resolveCurve2Source(mixerSettings.Curve2Source, desired, state, airframe)
	v2 := Interpolate(curve2Input, mixerSettings.Curve2, -1, 1)

	var out DesiredVector
	out[iface.AxisThrottleCurve1] = v1
	out[iface.AxisThrottleCurve2] = v2
	out[iface.AxisRoll] = desired.Roll
	out[iface.AxisPitch] = desired.Pitch
	out[iface.AxisYaw] = desired.Yaw
	out[iface.AxisAccessory0] = state.Accessory[0]
	out[iface.AxisAccessory1] = state.Accessory[1]
	out[iface.AxisAccessory2] = state.Accessory[2]

	return NormOutput{
		Desired:        out,
		Armed:          armed,
		StabilizeNow:   stabilizeNow,
		SpinWhileArmed: spinWhileArmed,
	}
}

// resolveCurve2Source picks the value curve 2 interpolates on, applying
// the HeliCP "Throttle"/"Collective" source swap.
func resolveCurve2Source(
	source iface.Curve2Source,
	desired iface.ActuatorDesired,
	state *NormalizerState,
	airframe iface.AirframeType,
) float64 {
	switch source {
	case iface.Curve2SourceThrust: // the "Throttle" source
		if airframe == iface.AirframeHeliCP {
			return state.ManualThrottle
		}
		return desired.Thrust
	case iface.Curve2SourceRoll:
		return desired.Roll
	case iface.Curve2SourcePitch:
		return desired.Pitch
	case iface.Curve2SourceYaw:
		return desired.Yaw
	case iface.Curve2SourceCollective:
		if airframe == iface.AirframeHeliCP {
			return desired.Thrust
		}
		return state.ManualCollective
	case iface.Curve2SourceAccessory0:
		return state.Accessory[0]
	case iface.Curve2SourceAccessory1:
		return state.Accessory[1]
	case iface.Curve2SourceAccessory2:
		return state.Accessory[2]
	default:
		return 0
	}
}
