// Package corerun implements the task loop and safety state machine:
// cadence from the input queue, the watchdog kick, the failsafe
// policy, and the operator interlock. It wires mixer.BuildMatrix,
// mixer.Normalize, and mixer.PostProcess to the iface collaborators.
package corerun

import "sync/atomic"

// DirtyFlags are four word-sized bits written from other goroutines
// (broker callbacks) and polled and cleared from the task goroutine.
// They're read and written atomically with respect to word-sized
// stores; fences aren't required because the core tolerates one extra
// stale-read cycle. The broker-callback contract is "set my bit"; the
// task polls and clears.
type DirtyFlags struct {
	flightStatus     atomic.Bool
	manualControl    atomic.Bool
	actuatorSettings atomic.Bool
	mixerSettings    atomic.Bool
}

func (d *DirtyFlags) MarkFlightStatus()     { d.flightStatus.Store(true) }
func (d *DirtyFlags) MarkManualControl()    { d.manualControl.Store(true) }
func (d *DirtyFlags) MarkActuatorSettings() { d.actuatorSettings.Store(true) }
func (d *DirtyFlags) MarkMixerSettings()    { d.mixerSettings.Store(true) }

// TakeFlightStatus returns whether the bit was set and clears it.
func (d *DirtyFlags) TakeFlightStatus() bool { return d.flightStatus.Swap(false) }

// TakeManualControl returns whether the bit was set and clears it.
func (d *DirtyFlags) TakeManualControl() bool { return d.manualControl.Swap(false) }

// TakeActuatorSettings returns whether the bit was set and clears it.
func (d *DirtyFlags) TakeActuatorSettings() bool { return d.actuatorSettings.Swap(false) }

// TakeMixerSettings returns whether the bit was set and clears it.
func (d *DirtyFlags) TakeMixerSettings() bool { return d.mixerSettings.Swap(false) }
