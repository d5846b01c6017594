package corerun

import (
	"sync/atomic"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// Interlock is the operator interlock word: a single atomic word with
// three values (OK | STOPREQUEST | STOPPED). A second agent (an
// operator console, outside this package) calls Request() to move to
// STOPREQUEST and Release() to return to OK; the task alone drives the
// STOPREQUEST -> STOPPED transition. The core must never silently
// bypass the wait.
type Interlock struct {
	state atomic.Int32
}

// NewInterlock returns an Interlock initialized to OK.
func NewInterlock() *Interlock {
	i := &Interlock{}
	i.state.Store(int32(iface.InterlockOK))
	return i
}

// Get returns the current interlock state.
func (i *Interlock) Get() iface.InterlockState {
	return iface.InterlockState(i.state.Load())
}

// Request asks the task to stop actuating. The caller must wait for
// Get() to report InterlockStopped before performing intrusive
// operations (e.g. reconfiguring timers).
func (i *Interlock) Request() {
	i.state.Store(int32(iface.InterlockStopRequest))
}

// Release clears the interlock, allowing the steady loop to resume.
func (i *Interlock) Release() {
	i.state.Store(int32(iface.InterlockOK))
}

// markStopped is called only by the task itself once STOPREQUEST has
// held continuously for at least 100ms.
func (i *Interlock) markStopped() {
	i.state.CompareAndSwap(int32(iface.InterlockStopRequest), int32(iface.InterlockStopped))
}
