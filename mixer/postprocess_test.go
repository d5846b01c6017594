package mixer

import (
	"testing"

	"go.viam.com/test"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

func neutralCalibration() iface.ChannelCalibration {
	return iface.ChannelCalibration{Min: 1000, Neutral: 1500, Max: 2000}
}

func fourMotorMatrix() Matrix {
	var m Matrix
	m.NumChannels = 4
	for r := 0; r < 4; r++ {
		m.ChannelType[r] = iface.ChannelMotor
		m.M[r][iface.AxisThrottleCurve1] = 1
	}
	return m
}

func calArray(cal iface.ChannelCalibration, n int) [iface.MaxChannels]iface.ChannelCalibration {
	var out [iface.MaxChannels]iface.ChannelCalibration
	for i := 0; i < n; i++ {
		out[i] = cal
	}
	return out
}

func TestPostProcessDisarmedHoldsMinimum(t *testing.T) {
	in := PostProcessInput{
		Matrix:        fourMotorMatrix(),
		Desired:       DesiredVector{iface.AxisThrottleCurve1: 0.8},
		Armed:         false,
		MotorCurveFit: 1,
		Calibration:   calArray(neutralCalibration(), 4),
	}
	out, err := PostProcess(in)
	test.That(t, err, test.ShouldBeNil)
	for r := 0; r < 4; r++ {
		test.That(t, out.Command.Channel[r], test.ShouldEqual, uint16(1000))
	}
}

func TestPostProcessArmedNotStabilizingSpinWhileArmed(t *testing.T) {
	in := PostProcessInput{
		Matrix:         fourMotorMatrix(),
		Desired:        DesiredVector{iface.AxisThrottleCurve1: 0},
		Armed:          true,
		StabilizeNow:   false,
		SpinWhileArmed: true,
		MotorCurveFit:  1,
		Calibration:    calArray(neutralCalibration(), 4),
	}
	out, err := PostProcess(in)
	test.That(t, err, test.ShouldBeNil)
	for r := 0; r < 4; r++ {
		test.That(t, out.Command.Channel[r], test.ShouldEqual, uint16(1500)) // neutral, x=0
	}
}

func TestPostProcessClipsHighSideWithNegativeOffset(t *testing.T) {
	m := fourMotorMatrix()
	// Channel 0 gets a roll contribution that pushes it over 1.
	m.M[0][iface.AxisRoll] = 0.5

	in := PostProcessInput{
		Matrix:        m,
		Desired:       DesiredVector{iface.AxisThrottleCurve1: 0.8, iface.AxisRoll: 1},
		Armed:         true,
		StabilizeNow:  true,
		MotorCurveFit: 1,
		Calibration:   calArray(neutralCalibration(), 4),
	}
	out, err := PostProcess(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.MaxChan+out.Offset, test.ShouldAlmostEqual, 1.0)
	// Channel 0 (1.3 raw) should have been shifted by the negative
	// offset to exactly full scale, channel 1 (0.8 raw) shifted down by
	// the same offset below it. The spread is 0.5, so gain stays 1.
	test.That(t, out.Command.Channel[0], test.ShouldEqual, uint16(2000))
	test.That(t, out.Command.Channel[1], test.ShouldBeLessThan, out.Command.Channel[0])
}

func TestPostProcessUnknownChannelTypeErrors(t *testing.T) {
	m := fourMotorMatrix()
	m.ChannelType[0] = iface.ChannelType(99)
	in := PostProcessInput{Matrix: m, Calibration: calArray(neutralCalibration(), 4)}
	_, err := PostProcess(in)
	test.That(t, err, test.ShouldEqual, iface.ErrUnknownChannelType)
}

func TestPostProcessCameraYawReadsCameraRoll(t *testing.T) {
	var m Matrix
	m.NumChannels = 1
	m.ChannelType[0] = iface.ChannelCameraYaw

	in := PostProcessInput{
		Matrix:        m,
		HasCamera:     true,
		CameraDesired: iface.CameraDesired{Roll: 0.3, Yaw: 0.9},
		MotorCurveFit: 1,
		Calibration:   calArray(neutralCalibration(), 1),
	}
	out, err := PostProcess(in)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out.RawMotor[0], test.ShouldAlmostEqual, 0.3) // preserved ambiguity: reads .Roll, not .Yaw
}

func TestScaleChannelRoundTripsAndClampsInvertedTravel(t *testing.T) {
	cal := iface.ChannelCalibration{Min: 2000, Neutral: 1500, Max: 1000} // inverted travel
	test.That(t, ScaleChannel(0, cal), test.ShouldEqual, uint16(1500))
	test.That(t, ScaleChannel(1, cal), test.ShouldEqual, uint16(1000))
	test.That(t, ScaleChannel(-1, cal), test.ShouldEqual, uint16(2000))
	test.That(t, ScaleChannel(2, cal), test.ShouldEqual, uint16(1000)) // clamped
}
