// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"fmt"
	"log"
	"strings"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// Opts holds the configuration for a board.
//
// There is no default Opts value on purpose: the watchdog policy decides what
// happens to the outputs when the host goes silent, so the caller has to
// state it explicitly instead of inheriting a hidden default.
type Opts struct {
	// WatchdogPeriod is written to the board CWDT register at construction.
	// Zero disables the watchdog. A positive period arms the board timer
	// but does not start the feeder, call Cwdt.StartFeed for that.
	WatchdogPeriod time.Duration

	// Logger receives watchdog feeder diagnostics. nil uses log.Default().
	Logger *log.Logger
}

// Dev is a handle to one I2C-HAT board.
//
// All register transactions on the board are serialized by an internal lock,
// so the feeder goroutine and foreground accessors can share the handle. The
// single-channel output setter is still a read-modify-write of the whole
// output register: two concurrent SetChannel calls on the same board can lose
// one update. Use DQ.SetValue when multi-bit updates must be atomic.
type Dev struct {
	t      *transport
	model  Model
	info   modelInfo
	name   string
	fw     string
	logger *log.Logger

	// DI is nil on output-only boards, DQ is nil on input-only boards and
	// Irq is nil on boards without capture support.
	DI   *DigitalInputs
	DQ   *DigitalOutputs
	Cwdt *Cwdt
	Irq  *Irq
}

// New opens the board at addr and probes it. addr must be inside the model's
// family range: the high nibble is fixed per family, the low nibble matches
// the address jumper on the board.
//
// The board name and firmware version are read once and cached. A board that
// does not acknowledge the probe reports KindDeviceNotFound.
func New(bus i2c.Bus, model Model, addr uint16, opts *Opts) (*Dev, error) {
	info, ok := models[model]
	if !ok {
		return nil, errf(KindOutOfRange, "new", "unsupported model %q", model)
	}
	if addr&^uint16(0x0f) != info.base {
		return nil, errf(KindOutOfRange, "new", "address %#02x outside [%#02x, %#02x]", addr, info.base, info.base+0x0f)
	}
	if opts == nil {
		return nil, errf(KindOutOfRange, "new", "nil opts, the watchdog policy must be stated explicitly")
	}
	if opts.WatchdogPeriod < 0 {
		return nil, errf(KindOutOfRange, "new", "negative watchdog period %s", opts.WatchdogPeriod)
	}

	d := &Dev{
		t:      newTransport(bus, addr),
		model:  model,
		info:   info,
		logger: opts.Logger,
	}
	if d.logger == nil {
		d.logger = log.Default()
	}

	name, err := d.readName()
	if err != nil {
		// No valid response at the probed address.
		return nil, wrapErr(KindDeviceNotFound, "new", err)
	}
	if name == "" || !strings.Contains(info.boardName, name) {
		return nil, errf(KindDeviceNotFound, "new", "unexpected board name %q, want %q", name, info.boardName)
	}
	d.name = name
	if d.fw, err = d.readFirmwareVersion(); err != nil {
		return nil, err
	}

	if len(info.diLabels) > 0 {
		d.DI = &DigitalInputs{d: d, channels: newChannels(info.diLabels)}
	}
	if len(info.dqLabels) > 0 {
		d.DQ = &DigitalOutputs{d: d, channels: newChannels(info.dqLabels)}
	}
	d.Cwdt = &Cwdt{d: d}
	if info.irq {
		d.Irq = &Irq{d: d}
	}

	if err = d.Cwdt.SetPeriod(opts.WatchdogPeriod); err != nil {
		return nil, err
	}
	return d, nil
}

// Name returns the board name reported at construction, e.g. "DI16ac".
func (d *Dev) Name() string {
	return d.name
}

// FirmwareVersion returns the firmware version reported at construction,
// e.g. "v1.0.4".
func (d *Dev) FirmwareVersion() string {
	return d.fw
}

// Model returns the board model this handle was opened with.
func (d *Dev) Model() Model {
	return d.model
}

// Status reads and decodes the board status word.
func (d *Dev) Status() (StatusWord, error) {
	v, err := d.ReadRegister(RegStatus)
	return StatusWord(v), err
}

// Reset commands a board reset. The command has no response; after it the
// registers return to their power-on defaults, including the power-on output
// value and a disabled watchdog.
func (d *Dev) Reset() error {
	_, err := d.t.transfer("reset", cmdReset, nil, -1)
	return err
}

// Halt stops the watchdog feeder and the IRQ monitor. It implements
// conn.Resource. Halt the device before closing the underlying bus.
func (d *Dev) Halt() error {
	d.Cwdt.StopFeed()
	if d.Irq != nil {
		d.Irq.StopMonitor()
	}
	return nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("%s{%#02x}", d.model, d.t.d.Addr)
}

func (d *Dev) readName() (string, error) {
	p, err := d.t.transfer("board name", cmdGetBoardName, nil, 25)
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(string(p), 0); i >= 0 {
		p = p[:i]
	}
	return string(p), nil
}

func (d *Dev) readFirmwareVersion() (string, error) {
	p, err := d.t.transfer("firmware version", cmdGetFirmwareVersion, nil, 3)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("v%d.%d.%d", p[0], p[1], p[2]), nil
}

// StatusWord is the decoded board status register.
type StatusWord uint32

const (
	// StatusPowerOnReset is set on the first status read after power-up.
	StatusPowerOnReset StatusWord = 1 << 0
	// StatusSoftReset is set after a Reset command.
	StatusSoftReset StatusWord = 1 << 1
	// StatusCwdtTimeout is set after the communication watchdog expired
	// and the outputs were driven to the safety value.
	StatusCwdtTimeout StatusWord = 1 << 2
	// StatusCommError is set when the board rejected malformed frames.
	StatusCommError StatusWord = 1 << 3
)

func (s StatusWord) PowerOnReset() bool { return s&StatusPowerOnReset != 0 }
func (s StatusWord) SoftReset() bool    { return s&StatusSoftReset != 0 }
func (s StatusWord) CwdtTimeout() bool  { return s&StatusCwdtTimeout != 0 }
func (s StatusWord) CommError() bool    { return s&StatusCommError != 0 }

func (s StatusWord) String() string {
	if s == 0 {
		return "ok"
	}
	var flags []string
	if s.PowerOnReset() {
		flags = append(flags, "power-on-reset")
	}
	if s.SoftReset() {
		flags = append(flags, "soft-reset")
	}
	if s.CwdtTimeout() {
		flags = append(flags, "cwdt-timeout")
	}
	if s.CommError() {
		flags = append(flags, "comm-error")
	}
	if rest := s &^ (StatusPowerOnReset | StatusSoftReset | StatusCwdtTimeout | StatusCommError); rest != 0 {
		flags = append(flags, fmt.Sprintf("%#08x", uint32(rest)))
	}
	return strings.Join(flags, "|")
}

var _ conn.Resource = &Dev{}
