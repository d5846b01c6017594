package iface

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Validate enforces the invariants ActuatorSettings must satisfy:
// NumBanks <= MaxServoBanks, and every configured channel's bank
// assignment is in range.
func (s ActuatorSettings) Validate() error {
	var errs error
	if s.NumChannels <= 0 || s.NumChannels > MaxChannels {
		errs = multierr.Append(errs, newFieldRequiredError("ActuatorSettings", "num_channels"))
	}
	if s.NumBanks < 0 || s.NumBanks > MaxServoBanks {
		errs = multierr.Append(errs, errors.Errorf(
			"ActuatorSettings: num_banks %d exceeds MAX_SERVO_BANKS %d", s.NumBanks, MaxServoBanks))
	}
	for i := 0; i < s.NumChannels && i < MaxChannels; i++ {
		if s.ChannelBank[i] < 0 || s.ChannelBank[i] >= s.NumBanks {
			errs = multierr.Append(errs, errors.Errorf(
				"ActuatorSettings: channel %d assigned to out-of-range bank %d", i, s.ChannelBank[i]))
		}
	}
	return errs
}

// Validate enforces that the compiled mixer never exceeds NCHAN rows and
// that both curves carry enough knots for piecewise-linear interpolation.
func (m MixerSettings) Validate() error {
	var errs error
	if m.NumChannels <= 0 || m.NumChannels > MaxChannels {
		errs = multierr.Append(errs, errors.Errorf(
			"MixerSettings: num_channels %d exceeds NCHAN %d", m.NumChannels, MaxChannels))
	}
	if len(m.Curve1) < 2 {
		errs = multierr.Append(errs, newFieldRequiredError("MixerSettings", "throttle_curve1"))
	}
	if len(m.Curve2) < 2 {
		errs = multierr.Append(errs, newFieldRequiredError("MixerSettings", "throttle_curve2"))
	}
	if m.Curve2Source < Curve2SourceThrust || m.Curve2Source > Curve2SourceAccessory2 {
		errs = multierr.Append(errs, errors.Errorf(
			"MixerSettings: curve2_source %d is not a recognized axis", m.Curve2Source))
	}
	return errs
}

// Validate checks that the airframe tag is one this core understands.
func (s SystemSettings) Validate() error {
	if s.AirframeType != AirframeGeneric && s.AirframeType != AirframeHeliCP {
		return errors.Errorf("SystemSettings: unrecognized airframe_type %d", s.AirframeType)
	}
	return nil
}
