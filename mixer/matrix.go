package mixer

import (
	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// RotorTiltHook is a reserved-for-future geometric tilt per channel;
// current behavior passes theta=0. It is a package variable, rather
// than a constant, only so integration tests can exercise BuildMatrix's
// tilt call site without editing this file; production wiring never
// changes it.
var RotorTiltHook = func(channel int) float64 { return 0 }

// Matrix is the compiled NCHAN x NAxis mixer matrix plus the
// per-channel type table.
type Matrix struct {
	NumChannels int
	M           [iface.MaxChannels][iface.NAxis]float64
	ChannelType [iface.MaxChannels]iface.ChannelType
}

// BuildMatrix compiles MixerSettings into a Matrix: non-Motor/non-Servo
// rows are zero-filled, Motor/Servo rows are scaled by 1/128, and Motor
// rows pass through the tilt transform (a no-op at the default
// theta=0).
func BuildMatrix(settings iface.MixerSettings) (Matrix, error) {
	if err := settings.Validate(); err != nil {
		return Matrix{}, err
	}

	var out Matrix
	out.NumChannels = settings.NumChannels

	for r := 0; r < settings.NumChannels; r++ {
		row := settings.Rows[r]
		out.ChannelType[r] = row.Type

		if row.Type != iface.ChannelMotor && row.Type != iface.ChannelServo {
			continue // M[r,*] stays zero for non-motor, non-servo channels.
		}

		var scaled [iface.NAxis]float64
		for c := 0; c < iface.NAxis; c++ {
			scaled[c] = float64(row.Vector[c]) / 128
		}

		if row.Type == iface.ChannelMotor {
			scaled = TiltRow(scaled, RotorTiltHook(r))
		}

		out.M[r] = scaled
	}

	return out, nil
}
