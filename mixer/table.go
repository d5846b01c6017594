package mixer

import (
	"fmt"
	"strings"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// DumpTable renders the compiled matrix and per-channel calibration as
// a plain-text table. Useful when wiring an airframe; it performs no
// mutation and is safe to call from anywhere.
func DumpTable(m Matrix, settings iface.ActuatorSettings) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-3s %-12s %8s %8s %8s %8s %8s %8s %8s %8s %6s %6s %6s\n",
		"ch", "type", "c1", "c2", "roll", "pitch", "yaw", "acc0", "acc1", "acc2", "min", "neu", "max")
	for r := 0; r < m.NumChannels; r++ {
		row := m.M[r]
		cal := settings.Calibration(r)
		fmt.Fprintf(&b, "%-3d %-12s %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %8.4f %6d %6d %6d\n",
			r, m.ChannelType[r].String(),
			row[iface.AxisThrottleCurve1], row[iface.AxisThrottleCurve2],
			row[iface.AxisRoll], row[iface.AxisPitch], row[iface.AxisYaw],
			row[iface.AxisAccessory0], row[iface.AxisAccessory1], row[iface.AxisAccessory2],
			cal.Min, cal.Neutral, cal.Max)
	}
	return b.String()
}
