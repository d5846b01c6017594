package main

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/rdk/logging"
	"go.viam.com/utils"

	"github.com/viam-modules/actuator-mixer/mixer/corerun"
	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

func main() {
	utils.ContextualMain(mainWithArgs, logging.NewLogger("actuator-mixer"))
}

// mainWithArgs parses the command line, builds the collaborators, and
// runs until ctx is cancelled. The only collaborators defined here are
// the settings file and the in-memory iface fakes -- a real deployment
// supplies its own ObjectStore/PWMDriver/Watchdog/AlarmSink bound to the
// platform's pub/sub bus and timer peripherals; this wiring exists so
// the core can run standalone for commissioning and smoke-testing.
func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	if len(args) < 2 {
		return errors.New("usage: actuator-mixer <settings.json>")
	}

	cfg, err := LoadConfig(args[1])
	if err != nil {
		return errors.Wrap(err, "loading settings")
	}

	store := iface.NewMemoryStore()
	store.SetActuatorSettings(cfg.Actuator)
	store.SetMixerSettings(cfg.Mixer)
	store.SetSystemSettings(cfg.System)

	queue := iface.NewManualQueue()
	pwm := iface.NewRecordingPWM()
	watchdog := iface.NewCountingWatchdog()
	alarm := iface.NewRecordingAlarm()

	task := corerun.NewTask(store, queue, pwm, watchdog, alarm, logger)

	logger.Info("actuator mixing core starting")
	if err := task.Run(ctx); err != nil {
		return err
	}

	logger.Info("actuator mixing core shutting down")
	return nil
}
