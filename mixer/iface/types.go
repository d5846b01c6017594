// Package iface defines the data model and external collaborator
// interfaces that the actuator mixing core consumes. None of the
// pub/sub transport, PWM/DShot peripheral drivers, watchdog, or alarm
// subsystem is implemented here -- only the shapes the core needs.
package iface

// MaxChannels is the compile-time channel count NCHAN.
const MaxChannels = 10

// NAxis is the number of columns of the mixer matrix.
const NAxis = 8

// NumAccessory is the number of accessory axes/channels (Accessory0..2).
const NumAccessory = 3

// MaxServoBanks bounds the number of independently clocked PWM banks.
const MaxServoBanks = 4

// Axis indexes a column of the mixer matrix, in canonical order.
type Axis int

const (
	AxisThrottleCurve1 Axis = iota
	AxisThrottleCurve2
	AxisRoll
	AxisPitch
	AxisYaw
	AxisAccessory0
	AxisAccessory1
	AxisAccessory2
)

// ChannelType is the type tag carried by every output channel.
type ChannelType int

const (
	ChannelDisabled ChannelType = iota
	ChannelMotor
	ChannelServo
	ChannelCameraPitch
	ChannelCameraRoll
	ChannelCameraYaw
)

func (t ChannelType) String() string {
	switch t {
	case ChannelDisabled:
		return "disabled"
	case ChannelMotor:
		return "motor"
	case ChannelServo:
		return "servo"
	case ChannelCameraPitch:
		return "camera-pitch"
	case ChannelCameraRoll:
		return "camera-roll"
	case ChannelCameraYaw:
		return "camera-yaw"
	default:
		return "unknown"
	}
}

// ArmedState mirrors FlightStatus.Armed.
type ArmedState int

const (
	Disarmed ArmedState = iota
	Armed
)

// FlightMode mirrors FlightStatus.FlightMode. Only the values the core
// cares about are named; any other mode behaves like FlightModeNormal.
type FlightMode int

const (
	FlightModeNormal FlightMode = iota
	FlightModeFailsafe
)

// AirframeType selects mixer-interpretation quirks.
type AirframeType int

const (
	AirframeGeneric AirframeType = iota
	AirframeHeliCP
)

// Curve2Source selects which axis feeds curve 2.
type Curve2Source int

const (
	Curve2SourceThrust Curve2Source = iota
	Curve2SourceRoll
	Curve2SourcePitch
	Curve2SourceYaw
	Curve2SourceCollective
	Curve2SourceAccessory0
	Curve2SourceAccessory1
	Curve2SourceAccessory2
)

// AlarmSeverity is the severity reported to the alarm subsystem.
type AlarmSeverity int

const (
	AlarmOK AlarmSeverity = iota
	AlarmWarning
	AlarmCritical
)

// InterlockState is the operator interlock word.
type InterlockState int32

const (
	InterlockOK InterlockState = iota
	InterlockStopRequest
	InterlockStopped
)

func (s InterlockState) String() string {
	switch s {
	case InterlockOK:
		return "OK"
	case InterlockStopRequest:
		return "STOPREQUEST"
	case InterlockStopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// ActuatorDesired is the abstract attitude/thrust command the core mixes.
type ActuatorDesired struct {
	Roll   float64
	Pitch  float64
	Yaw    float64
	Thrust float64
}

// FlightStatus carries arming state and flight mode.
type FlightStatus struct {
	Armed      ArmedState
	FlightMode FlightMode
}

// ManualControlCommand carries raw stick/collective/accessory input.
type ManualControlCommand struct {
	Throttle   float64
	Collective float64
	Accessory  [NumAccessory]float64
}

// CameraDesired carries the gimbal command, when present.
type CameraDesired struct {
	Pitch float64
	Roll  float64
	Yaw   float64
}

// ActuatorCommand is the committed per-channel pulse output.
type ActuatorCommand struct {
	Channel       [MaxChannels]uint16
	NumChannels   int
	UpdateTime    float64 // ms
	MaxUpdateTime float64 // ms
}

// ChannelCalibration is a channel's pulse-width calibration. Min may
// exceed Max to express inverted travel.
type ChannelCalibration struct {
	Min     uint16
	Neutral uint16
	Max     uint16
	Bank    int
}

// ActuatorSettings mirrors the UAVObject of the same name.
type ActuatorSettings struct {
	NumChannels                      int
	ChannelMin                       [MaxChannels]uint16
	ChannelMax                       [MaxChannels]uint16
	ChannelNeutral                   [MaxChannels]uint16
	ChannelBank                      [MaxChannels]int
	TimerUpdateFreq                  [MaxServoBanks]uint32
	NumBanks                         int
	MotorsSpinWhileArmed             bool
	LowPowerStabilizationMaxTime     float64 // seconds
	LowPowerStabilizationMaxPowerAdd float64
	MotorInputOutputCurveFit         float64
}

// Calibration returns the per-channel calibration view used by the
// post-processor's scale_channel step.
func (s ActuatorSettings) Calibration(channel int) ChannelCalibration {
	return ChannelCalibration{
		Min:     s.ChannelMin[channel],
		Neutral: s.ChannelNeutral[channel],
		Max:     s.ChannelMax[channel],
		Bank:    s.ChannelBank[channel],
	}
}

// MixerRow is one output channel's linear combination over all axes.
// Vector entries are the raw int8 settings values, scaled by 128 when
// the matrix is compiled.
type MixerRow struct {
	Type   ChannelType
	Vector [NAxis]int8
}

// MixerSettings mirrors the UAVObject of the same name.
type MixerSettings struct {
	NumChannels  int
	Rows         [MaxChannels]MixerRow
	Curve1       []float64
	Curve2       []float64
	Curve2Source Curve2Source
}

// SystemSettings mirrors the UAVObject of the same name.
type SystemSettings struct {
	AirframeType AirframeType
}
