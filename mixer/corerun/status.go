package corerun

// Status is a read-only snapshot of the task's last tick, exposed for
// commissioning tools and health checks. It is not part of the control
// loop itself.
type Status struct {
	Armed        bool
	StabilizeNow bool
	Gain         float64
	Offset       float64
	Interlock    string
	LastDT       float64 // ms
	MaxUpdateTime float64 // ms
}

// Status returns a snapshot of the task's state as of its last
// completed tick. Safe to call from any goroutine.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		Armed:         t.lastArmed,
		StabilizeNow:  t.lastStabilizeNow,
		Gain:          t.lastGain,
		Offset:        t.lastOffset,
		Interlock:     t.Interlock.Get().String(),
		LastDT:        t.lastDT.Seconds() * 1000,
		MaxUpdateTime: t.maxUpdateTime,
	}
}
