package iface

import (
	"github.com/pkg/errors"
)

// ErrReadOnly is returned by ObjectStore.PublishActuatorCommand when the
// ActuatorCommand object is externally owned (e.g. a GCS performing
// live servo configuration).
var ErrReadOnly = errors.New("actuator command object is read-only")

// ErrUnknownChannelType is returned when an output channel carries a
// ChannelType the post-processor does not recognize. The caller must
// enter failsafe and halt.
var ErrUnknownChannelType = errors.New("unknown channel type")

// newFieldRequiredError is the local analogue of viam-rdk's
// resource.NewConfigValidationFieldRequiredError: a settings field that
// must be present/consistent was not.
func newFieldRequiredError(structName, field string) error {
	return errors.Errorf("%s: %s is required", structName, field)
}
