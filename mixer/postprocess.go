package mixer

import (
	"math"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// PostProcessInput bundles everything the mixer & post-processor needs
// for one tick.
type PostProcessInput struct {
	Matrix         Matrix
	Desired        DesiredVector
	Armed          bool
	StabilizeNow   bool
	SpinWhileArmed bool

	MotorCurveFit    float64 // MotorInputOutputCurveFit, k in x^k
	LowPowerMaxPower float64 // LowPowerStabilizationMaxPowerAdd

	Calibration   [iface.MaxChannels]iface.ChannelCalibration
	CameraDesired iface.CameraDesired
	HasCamera     bool
}

// PostProcessOutput is the result of one tick of mixing, rescaling, and
// calibration, exposed for tests and for corerun.Task, which keeps Gain
// and Offset for its Status snapshot.
type PostProcessOutput struct {
	Command  iface.ActuatorCommand
	RawMotor [iface.MaxChannels]float64
	Gain     float64
	Offset   float64
	MinChan  float64
	MaxChan  float64
}

// PostProcess runs the mix, per-type adjustment, stats collection,
// rescale, and per-channel commit (including ScaleChannel's pulse
// conversion). Publishing the result is the caller's job
// (corerun.Task), since it touches the external ObjectStore and
// PWMDriver.
func PostProcess(in PostProcessInput) (PostProcessOutput, error) {
	var out PostProcessOutput
	n := in.Matrix.NumChannels

	// Step 1: motor_vect = M * desired.
	var motor [iface.MaxChannels]float64
	for r := 0; r < n; r++ {
		var sum float64
		for c := 0; c < iface.NAxis; c++ {
			sum += in.Matrix.M[r][c] * in.Desired[c]
		}
		motor[r] = sum
	}

	// Step 2: per-type pre-clip adjustment.
	for r := 0; r < n; r++ {
		switch in.Matrix.ChannelType[r] {
		case iface.ChannelDisabled:
			motor[r] = -1
		case iface.ChannelServo, iface.ChannelMotor:
			// unchanged
		case iface.ChannelCameraPitch:
			if in.HasCamera {
				motor[r] = in.CameraDesired.Pitch
			} else {
				motor[r] = -1
			}
		case iface.ChannelCameraRoll:
			if in.HasCamera {
				motor[r] = in.CameraDesired.Roll
			} else {
				motor[r] = -1
			}
		case iface.ChannelCameraYaw:
			// Reads CameraDesired.Roll here, not .Yaw. A known,
			// preserved quirk: flagged, not fixed.
			if in.HasCamera {
				motor[r] = in.CameraDesired.Roll
			} else {
				motor[r] = -1
			}
		default:
			return out, iface.ErrUnknownChannelType
		}
	}
	out.RawMotor = motor

	// Step 3: stats over Motor channels only.
	minChan, maxChan := math.Inf(1), math.Inf(-1)
	negClip := 0.0
	numMotors := 0
	for r := 0; r < n; r++ {
		if in.Matrix.ChannelType[r] != iface.ChannelMotor {
			continue
		}
		numMotors++
		v := motor[r]
		if v < minChan {
			minChan = v
		}
		if v > maxChan {
			maxChan = v
		}
		if v < 0 {
			negClip += v
		}
	}
	if numMotors == 0 {
		minChan, maxChan = 0, 0
	}

	// Step 4: rescale to fit.
	gain := 1.0
	offset := 0.0
	if maxChan-minChan > 1 {
		gain = 1 / (maxChan - minChan)
		minChan *= gain
		maxChan *= gain
	}
	if maxChan > 1 {
		offset = 1 - maxChan
	} else if minChan < 0 {
		negClipAvg := 0.0
		if numMotors > 0 {
			negClipAvg = negClip / float64(numMotors)
		}
		candidate := negClipAvg + in.LowPowerMaxPower
		if -minChan < candidate {
			offset = -minChan
		} else {
			offset = candidate
		}
	}
	out.Gain = gain
	out.Offset = offset
	out.MinChan = minChan
	out.MaxChan = maxChan

	// Step 5: per-channel commit.
	var cmd iface.ActuatorCommand
	cmd.NumChannels = n
	for r := 0; r < n; r++ {
		x := motor[r]
		if in.Matrix.ChannelType[r] == iface.ChannelMotor {
			switch {
			case !in.Armed:
				x = -1
			case !in.StabilizeNow:
				if in.SpinWhileArmed {
					x = 0
				} else {
					x = -1
				}
			default:
				x = motor[r]*gain + offset
				if x > 0 {
					x = math.Pow(x, in.MotorCurveFit)
				} else {
					x = 0
				}
			}
		}
		cmd.Channel[r] = ScaleChannel(x, in.Calibration[r])
	}
	out.Command = cmd

	return out, nil
}

// ScaleChannel converts a normalized [-1,1] command to a microsecond
// pulse using the channel's {min, neutral, max} calibration. It
// supports inverted travel (min > max) by clamping to
// [min(min,max), max(min,max)] rather than [min,max].
func ScaleChannel(x float64, cal iface.ChannelCalibration) uint16 {
	min, neutral, max := float64(cal.Min), float64(cal.Neutral), float64(cal.Max)

	var pulse float64
	if x >= 0 {
		pulse = x*(max-neutral) + neutral
	} else {
		pulse = x*(neutral-min) + neutral
	}

	lo, hi := min, max
	if lo > hi {
		lo, hi = hi, lo
	}
	if pulse < lo {
		pulse = lo
	}
	if pulse > hi {
		pulse = hi
	}
	return uint16(math.Round(pulse))
}
