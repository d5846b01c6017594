package main

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// Config is the on-disk settings envelope: the three settings blocks
// the core needs before it can run a single tick, loaded from a JSON
// file named on the command line since this core has no enclosing
// resource graph to source them from.
type Config struct {
	Actuator iface.ActuatorSettings `json:"actuator_settings"`
	Mixer    iface.MixerSettings    `json:"mixer_settings"`
	System   iface.SystemSettings   `json:"system_settings"`
}

// LoadConfig reads and validates a Config from path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "reading config file %q", path)
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file %q", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every settings block the core depends on.
func (c Config) Validate() error {
	var err error
	err = multierr.Append(err, c.Actuator.Validate())
	err = multierr.Append(err, c.Mixer.Validate())
	err = multierr.Append(err, c.System.Validate())
	return err
}
