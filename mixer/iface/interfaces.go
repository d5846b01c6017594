package iface

import (
	"context"
	"time"
)

// ObjectStore is the Go expression of a publish/subscribe object
// system boundary: the core only ever needs the current value of each
// tracked object plus a way to publish ActuatorCommand. Everything
// about how those objects are transported (shared memory, a message
// bus, a network link) is out of scope.
type ObjectStore interface {
	ActuatorDesired() ActuatorDesired
	FlightStatus() FlightStatus
	ManualControlCommand() ManualControlCommand
	ActuatorSettings() ActuatorSettings
	MixerSettings() MixerSettings
	SystemSettings() SystemSettings

	// CameraDesired returns the current gimbal command and whether the
	// object exists at all (absent means every camera channel falls
	// back to -1).
	CameraDesired() (CameraDesired, bool)

	// PublishActuatorCommand commits new channel values. It returns
	// ErrReadOnly when the object is externally owned.
	PublishActuatorCommand(ActuatorCommand) error

	// ReadActuatorCommand reads back the externally-set values used when
	// PublishActuatorCommand returned ErrReadOnly.
	ReadActuatorCommand() ActuatorCommand
}

// InputQueue is the single cadence anchor of the steady loop: it
// carries only "something happened," never a payload. Wait returns
// false on timeout.
type InputQueue interface {
	Wait(ctx context.Context, timeout time.Duration) bool
}

// BankConfig is one PWM bank's frequency assignment, passed to
// PWMDriver.SetMode alongside the full per-channel min/max arrays.
type BankConfig struct {
	Bank      int
	FreqHz    uint32
	ChannelIn []int // channels assigned to this bank
}

// PWMDriver is the timer/PWM/DShot peripheral boundary.
type PWMDriver interface {
	SetMode(banks []BankConfig, min, max [MaxChannels]uint16) error
	Set(channel int, microseconds uint16) error
	Update() error
}

// Watchdog is the periodic-kick boundary.
type Watchdog interface {
	Kick(slot string)
}

// AlarmSink is the alarm subsystem boundary.
type AlarmSink interface {
	Set(severity AlarmSeverity)
	Clear()
}
