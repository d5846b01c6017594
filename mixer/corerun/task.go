package corerun

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rdk/logging"
	"go.viam.com/utils"

	"github.com/viam-modules/actuator-mixer/mixer"
	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// FailsafeTimeout is the maximum time the steady loop will block on
// the input queue before entering failsafe.
const FailsafeTimeout = 100 * time.Millisecond

// InterlockPollInterval is the fixed sleep between polls while the
// interlock is held.
const InterlockPollInterval = 3 * time.Millisecond

// InterlockStopDebounce is the continuous-STOPREQUEST duration required
// before transitioning to STOPPED.
const InterlockStopDebounce = 100 * time.Millisecond

// WatchdogSlot names the watchdog registration this task owns.
const WatchdogSlot = "ACTUATOR"

// Task owns all of the core's mutable state and drives the steady
// loop. It is built once, analogous in shape to a hardware driver's
// owning struct, and exposes a single blocking Run entry point because
// the entire job of this core *is* the loop.
type Task struct {
	store    iface.ObjectStore
	queue    iface.InputQueue
	pwm      iface.PWMDriver
	watchdog iface.Watchdog
	alarm    iface.AlarmSink
	logger   logging.Logger

	Dirty     DirtyFlags
	Interlock *Interlock

	mu               sync.Mutex // guards lastDT, maxUpdateTime and the last* fields, for Status() only
	matrix           mixer.Matrix
	calibration      [iface.MaxChannels]iface.ChannelCalibration
	actuatorSettings iface.ActuatorSettings
	mixerSettings    iface.MixerSettings
	systemSettings   iface.SystemSettings

	normState   mixer.NormalizerState
	lastSysTime time.Time
	haveSysTime bool
	lastDT      time.Duration

	stoppedSince    time.Time
	haveStoppedSince bool

	maxUpdateTime float64 // ms, peak UpdateTime observed

	lastArmed        bool
	lastStabilizeNow bool
	lastGain         float64
	lastOffset       float64
}

// NewTask constructs a Task around its external collaborators. It does
// not start the loop; call Run to do that.
func NewTask(
	store iface.ObjectStore,
	queue iface.InputQueue,
	pwm iface.PWMDriver,
	watchdog iface.Watchdog,
	alarm iface.AlarmSink,
	logger logging.Logger,
) *Task {
	return &Task{
		store:     store,
		queue:     queue,
		pwm:       pwm,
		watchdog:  watchdog,
		alarm:     alarm,
		logger:    logger,
		Interlock: NewInterlock(),
		lastGain:  1,
	}
}

// Run is the task loop and safety state machine. It blocks until ctx
// is cancelled, entering failsafe on every early-exit path of the
// steady loop, and no error from inside the loop escapes the task. If
// the initial actuator or mixer settings fail to load, Run returns
// that error before the loop starts, without committing failsafe.
func (t *Task) Run(ctx context.Context) error {
	t.watchdog.Kick(WatchdogSlot)

	if err := t.reloadActuatorSettings(ctx); err != nil {
		return errors.Wrap(err, "loading initial actuator settings")
	}
	if err := t.reloadMixerSettings(ctx); err != nil {
		return errors.Wrap(err, "loading initial mixer settings")
	}
	t.enterFailsafe(ctx, "startup")

	for {
		if ctx.Err() != nil {
			return nil
		}
		t.tick(ctx)
	}
}

// tick runs one iteration of the steady loop. It never returns an
// error: a settings reload failure is logged via logger.CError and the
// previous cache is kept; input starvation, the interlock, and an
// unknown channel type degrade to failsafe.
func (t *Task) tick(ctx context.Context) {
	t.watchdog.Kick(WatchdogSlot)

	if t.Dirty.TakeActuatorSettings() {
		if err := t.reloadActuatorSettings(ctx); err != nil {
			t.logger.CError(ctx, errors.Wrap(err, "reloading actuator settings"))
		}
	}
	if t.Dirty.TakeMixerSettings() {
		if err := t.reloadMixerSettings(ctx); err != nil {
			t.logger.CError(ctx, errors.Wrap(err, "reloading mixer settings"))
		}
	}

	if ok := t.queue.Wait(ctx, FailsafeTimeout); !ok {
		t.enterFailsafe(ctx, "input starvation")
		return
	}

	now := time.Now()
	t.updateDT(now)

	if t.Interlock.Get() != iface.InterlockOK {
		if !t.runInterlockLoop(ctx) {
			return // ctx cancelled while held
		}
		if err := t.programPWM(ctx); err != nil {
			t.logger.CError(ctx, errors.Wrap(err, "re-programming PWM after interlock release"))
		}
		return // restart the loop body
	}

	t.runControlTick(ctx, now)
}

// runInterlockLoop runs while interlock != OK: it drives failsafe,
// debounces into STOPPED after 100ms of continuous STOPREQUEST, sleeps
// 3ms, and kicks the watchdog every iteration. It returns false only if
// ctx was cancelled while the interlock was held.
func (t *Task) runInterlockLoop(ctx context.Context) bool {
	t.haveStoppedSince = false
	for t.Interlock.Get() != iface.InterlockOK {
		t.enterFailsafe(ctx, "interlock")

		if t.Interlock.Get() == iface.InterlockStopRequest {
			if !t.haveStoppedSince {
				t.stoppedSince = time.Now()
				t.haveStoppedSince = true
			}
			if time.Since(t.stoppedSince) >= InterlockStopDebounce {
				t.Interlock.markStopped()
			}
		} else {
			t.haveStoppedSince = false
		}

		t.watchdog.Kick(WatchdogSlot)
		if !utils.SelectContextOrWait(ctx, InterlockPollInterval) {
			return false
		}
	}
	return true
}

// runControlTick runs the input normalizer and the mixer &
// post-processor, then commits the result.
func (t *Task) runControlTick(ctx context.Context, now time.Time) {
	desired := t.store.ActuatorDesired()
	flightDirty := t.Dirty.TakeFlightStatus()
	flight := t.store.FlightStatus()
	manualDirty := t.Dirty.TakeManualControl()
	manual := t.store.ManualControlCommand()

	norm := mixer.Normalize(
		&t.normState, now, desired,
		flightDirty, flight,
		manualDirty, manual,
		t.actuatorSettings, t.mixerSettings, t.systemSettings,
	)

	camera, hasCamera := t.store.CameraDesired()

	result, err := mixer.PostProcess(mixer.PostProcessInput{
		Matrix:           t.matrix,
		Desired:          norm.Desired,
		Armed:            norm.Armed,
		StabilizeNow:     norm.StabilizeNow,
		SpinWhileArmed:   norm.SpinWhileArmed,
		MotorCurveFit:    t.actuatorSettings.MotorInputOutputCurveFit,
		LowPowerMaxPower: t.actuatorSettings.LowPowerStabilizationMaxPowerAdd,
		Calibration:      t.calibration,
		CameraDesired:    camera,
		HasCamera:        hasCamera,
	})
	if err != nil {
		t.logger.CError(ctx, errors.Wrap(err, "post-processing tick"))
		t.enterFailsafe(ctx, "invalid channel type")
		return
	}

	t.mu.Lock()
	t.lastArmed = norm.Armed
	t.lastStabilizeNow = norm.StabilizeNow
	t.lastGain = result.Gain
	t.lastOffset = result.Offset
	t.mu.Unlock()

	t.commit(ctx, result.Command)
}

// commit stamps UpdateTime/MaxUpdateTime, publishes (or, if the object
// is externally owned, reads back the GCS-set values for visibility),
// programs every channel to the PWM driver, latches with Update, and
// clears the alarm.
func (t *Task) commit(ctx context.Context, cmd iface.ActuatorCommand) {
	t.mu.Lock()
	cmd.UpdateTime = t.lastDT.Seconds() * 1000
	if cmd.UpdateTime > t.maxUpdateTime {
		t.maxUpdateTime = cmd.UpdateTime
	}
	cmd.MaxUpdateTime = t.maxUpdateTime
	t.mu.Unlock()

	if err := t.store.PublishActuatorCommand(cmd); err != nil {
		if errors.Is(err, iface.ErrReadOnly) {
			cmd = t.store.ReadActuatorCommand()
		} else {
			t.logger.CError(ctx, errors.Wrap(err, "publishing actuator command"))
		}
	}

	var pwmErr error
	for r := 0; r < cmd.NumChannels; r++ {
		pwmErr = multierr.Append(pwmErr, t.pwm.Set(r, cmd.Channel[r]))
	}
	pwmErr = multierr.Append(pwmErr, t.pwm.Update())
	if pwmErr != nil {
		t.logger.CError(ctx, errors.Wrap(pwmErr, "committing channels to PWM driver"))
		return
	}

	t.alarm.Clear()
}

// updateDT handles the dT computation and timer-wrap case.
func (t *Task) updateDT(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.haveSysTime {
		t.lastDT = FailsafeTimeout
		t.lastSysTime = now
		t.haveSysTime = true
		return
	}
	if !now.After(t.lastSysTime) {
		// Timer wrap: reuse previous dT.
	} else {
		t.lastDT = now.Sub(t.lastSysTime)
	}
	t.lastSysTime = now
}

// enterFailsafe commits the failsafe table for the current channel
// layout and raises the alarm Critical. reason is logged for operator
// visibility only.
func (t *Task) enterFailsafe(ctx context.Context, reason string) {
	t.alarm.Set(iface.AlarmCritical)
	t.logger.CWarn(ctx, fmt.Sprintf("entering failsafe: %s", reason))

	cmd := failsafeCommand(t.matrix, t.calibration)
	cmd.NumChannels = t.matrix.NumChannels
	if err := t.store.PublishActuatorCommand(cmd); err != nil && !errors.Is(err, iface.ErrReadOnly) {
		t.logger.CError(ctx, errors.Wrap(err, "publishing failsafe command"))
	}
	for r := 0; r < cmd.NumChannels; r++ {
		if err := t.pwm.Set(r, cmd.Channel[r]); err != nil {
			t.logger.CError(ctx, errors.Wrap(err, "setting failsafe channel"))
		}
	}
	if err := t.pwm.Update(); err != nil {
		t.logger.CError(ctx, errors.Wrap(err, "latching failsafe channels"))
	}
}

// reloadActuatorSettings refreshes the cached ActuatorSettings and the
// per-channel calibration table, and re-programs the PWM bank modes.
func (t *Task) reloadActuatorSettings(ctx context.Context) error {
	settings := t.store.ActuatorSettings()
	if err := settings.Validate(); err != nil {
		return err
	}
	t.actuatorSettings = settings
	for r := 0; r < iface.MaxChannels; r++ {
		t.calibration[r] = settings.Calibration(r)
	}
	return t.programPWM(ctx)
}

// reloadMixerSettings rebuilds the mixer matrix, curves, and airframe
// snapshot.
func (t *Task) reloadMixerSettings(_ context.Context) error {
	mixerSettings := t.store.MixerSettings()
	systemSettings := t.store.SystemSettings()
	if err := systemSettings.Validate(); err != nil {
		return err
	}
	m, err := mixer.BuildMatrix(mixerSettings)
	if err != nil {
		return err
	}
	t.matrix = m
	t.mixerSettings = mixerSettings
	t.systemSettings = systemSettings
	return nil
}

// programPWM reconfigures the PWM driver's bank frequencies and
// per-channel min/max.
func (t *Task) programPWM(_ context.Context) error {
	banks := make([]iface.BankConfig, 0, t.actuatorSettings.NumBanks)
	for b := 0; b < t.actuatorSettings.NumBanks; b++ {
		cfg := iface.BankConfig{Bank: b, FreqHz: t.actuatorSettings.TimerUpdateFreq[b]}
		for ch := 0; ch < t.actuatorSettings.NumChannels; ch++ {
			if t.actuatorSettings.ChannelBank[ch] == b {
				cfg.ChannelIn = append(cfg.ChannelIn, ch)
			}
		}
		banks = append(banks, cfg)
	}
	return t.pwm.SetMode(banks, t.actuatorSettings.ChannelMin, t.actuatorSettings.ChannelMax)
}
