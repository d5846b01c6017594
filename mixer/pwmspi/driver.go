// Package pwmspi implements mixer/iface.PWMDriver against an
// SPI-attached PWM/DShot bank expander. It adapts the register
// read/write transaction shape of the tmc5072 stepper driver (the
// 5-byte addr|value SPI frame, the single global mutex serializing
// access, the Debugf transaction log) to a channel/bank register map
// instead of a motion-control one.
package pwmspi

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"go.viam.com/rdk/components/board/genericlinux/buses"
	"go.viam.com/rdk/logging"

	"github.com/viam-modules/actuator-mixer/mixer/iface"
)

// Register layout of the PWM bank expander: one pulse-width register
// per channel, one frequency register per bank immediately above them.
const (
	pulseRegBase = 0x00
	freqRegBase  = pulseRegBase + iface.MaxChannels
)

// globalMu serializes register writes across every Driver instance
// sharing a bus, the same way tmc5072's globalMu guards its chip's
// read-after-previous-command quirk.
var globalMu sync.Mutex

// Driver is an SPI-backed PWMDriver.
type Driver struct {
	bus    buses.SPI
	csPin  string
	logger logging.Logger
}

// New returns a Driver talking to the named SPI bus, selecting the
// expander on csPin.
func New(busName, csPin string, logger logging.Logger) *Driver {
	return NewWithBus(buses.NewSpiBus(busName), csPin, logger)
}

// NewWithBus injects bus directly, for testing against a fake SPI handle.
func NewWithBus(bus buses.SPI, csPin string, logger logging.Logger) *Driver {
	return &Driver{bus: bus, csPin: csPin, logger: logger}
}

func (d *Driver) writeReg(ctx context.Context, addr uint8, value uint32) error {
	var buf [5]byte
	buf[0] = addr | 0x80
	buf[1] = byte(value >> 24)
	buf[2] = byte(value >> 16)
	buf[3] = byte(value >> 8)
	buf[4] = byte(value)

	handle, err := d.bus.OpenHandle()
	if err != nil {
		return err
	}
	defer func() {
		if err := handle.Close(); err != nil {
			d.logger.CError(ctx, err)
		}
	}()

	d.logger.Debugf("Write to 0x%x: %v", addr, buf[1:])

	globalMu.Lock()
	defer globalMu.Unlock()
	_, err = handle.Xfer(ctx, 1000000, d.csPin, 3, buf[:]) // SPI Mode 3, 1mhz
	return err
}

// SetMode programs each bank's PWM frequency register. min/max are not
// written to the expander: scale_channel has already clamped every
// pulse to calibration before Set is ever called.
func (d *Driver) SetMode(banks []iface.BankConfig, _, _ [iface.MaxChannels]uint16) error {
	ctx := context.Background()
	for _, bank := range banks {
		if err := d.writeReg(ctx, uint8(freqRegBase+bank.Bank), bank.FreqHz); err != nil {
			return errors.Wrapf(err, "programming bank %d frequency", bank.Bank)
		}
	}
	return nil
}

// Set writes one channel's pulse width, in microseconds, to its register.
func (d *Driver) Set(channel int, microseconds uint16) error {
	return d.writeReg(context.Background(), uint8(pulseRegBase+channel), uint32(microseconds))
}

// Update is a no-op: every register write latches immediately. Kept to
// satisfy iface.PWMDriver's write-then-commit shape.
func (d *Driver) Update() error {
	return nil
}
