package corerun

import (
	"github.com/viam-modules/actuator-mixer/mixer"
	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// failsafeValue is the per-channel-type normalized failsafe command:
// Motor -> min, Servo -> neutral, Disabled -> -1, Camera axes -> 0
// (centered). Expressed in the same normalized [-1,1] space
// mixer.ScaleChannel expects, a Motor's failsafe value is -1 (which
// scales to min) and a Servo's is 0 (which scales to neutral).
func failsafeValue(t iface.ChannelType) float64 {
	switch t {
	case iface.ChannelMotor, iface.ChannelDisabled:
		return -1
	default: // Servo, CameraPitch, CameraRoll, CameraYaw
		return 0
	}
}

// failsafeCommand builds the full ActuatorCommand for the current
// channel table without touching the mixer matrix or any input at all.
// Every early-exit path of the steady loop (timeout, interlock, unknown
// channel type) commits this before yielding.
func failsafeCommand(m mixer.Matrix, calibration [iface.MaxChannels]iface.ChannelCalibration) iface.ActuatorCommand {
	var cmd iface.ActuatorCommand
	cmd.NumChannels = m.NumChannels
	for r := 0; r < m.NumChannels; r++ {
		cmd.Channel[r] = mixer.ScaleChannel(failsafeValue(m.ChannelType[r]), calibration[r])
	}
	return cmd
}
