// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import "strings"

// channels is the label/index lookup shared by the input and output groups.
// Labels are matched case-insensitively, as printed on the board front.
type channels struct {
	labels []string
	index  map[string]int
	mask   uint32
}

func newChannels(labels []string) channels {
	c := channels{
		labels: labels,
		index:  make(map[string]int, len(labels)),
		mask:   uint32(1)<<len(labels) - 1,
	}
	for i, l := range labels {
		c.index[strings.ToLower(l)] = i
	}
	return c
}

// Labels returns the channel labels in index order.
func (c *channels) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

func (c *channels) check(op string, ch int) error {
	if ch < 0 || ch >= len(c.labels) {
		return errf(KindOutOfRange, op, "channel %d, valid range [0, %d]", ch, len(c.labels)-1)
	}
	return nil
}

func (c *channels) indexOf(op, label string) (int, error) {
	if i, ok := c.index[strings.ToLower(label)]; ok {
		return i, nil
	}
	return 0, errf(KindOutOfRange, op, "unknown channel label %q", label)
}

func (c *channels) checkValue(op string, v uint32) error {
	if v&^c.mask != 0 {
		return errf(KindOutOfRange, op, "value %#x, valid range [0, %#x]", v, c.mask)
	}
	return nil
}

// Edge counter selector bytes used by the DI counter commands.
const (
	fallingEdge = 0
	risingEdge  = 1
)

// DigitalInputs gives access to the input channels of a board.
type DigitalInputs struct {
	channels
	d *Dev
}

// Value returns the state of all input channels as a bitmap, bit i holding
// channel i.
func (di *DigitalInputs) Value() (uint32, error) {
	return di.d.ReadRegister(RegDIValue)
}

// Channel returns the state of one input channel.
func (di *DigitalInputs) Channel(ch int) (bool, error) {
	if err := di.check("di channel", ch); err != nil {
		return false, err
	}
	v, err := di.Value()
	return v&(1<<ch) != 0, err
}

// ChannelByLabel returns the state of the channel with the given label.
func (di *DigitalInputs) ChannelByLabel(label string) (bool, error) {
	ch, err := di.indexOf("di channel", label)
	if err != nil {
		return false, err
	}
	return di.Channel(ch)
}

// RisingCounter returns the rising edge transition count of one channel. The
// counter lives in board hardware and survives host restarts.
func (di *DigitalInputs) RisingCounter(ch int) (uint32, error) {
	return di.counter("di rising counter", ch, risingEdge)
}

// FallingCounter returns the falling edge transition count of one channel.
func (di *DigitalInputs) FallingCounter(ch int) (uint32, error) {
	return di.counter("di falling counter", ch, fallingEdge)
}

// ResetRisingCounter resets the rising edge counter of one channel to zero.
// The hardware only supports reset, not writing arbitrary counts.
func (di *DigitalInputs) ResetRisingCounter(ch int) error {
	return di.resetCounter("di reset rising counter", ch, risingEdge)
}

// ResetFallingCounter resets the falling edge counter of one channel to zero.
func (di *DigitalInputs) ResetFallingCounter(ch int) error {
	return di.resetCounter("di reset falling counter", ch, fallingEdge)
}

// ResetAllCounters resets the rising and falling edge counters of every
// channel.
func (di *DigitalInputs) ResetAllCounters() error {
	const op = "di reset all counters"
	p, err := di.d.t.transfer(op, cmdDIResetAllCounters, nil, 0)
	if err != nil {
		return err
	}
	if len(p) != 0 {
		return errf(KindTransfer, op, "unexpected payload length %d", len(p))
	}
	return nil
}

func (di *DigitalInputs) counter(op string, ch int, edge byte) (uint32, error) {
	if err := di.check(op, ch); err != nil {
		return 0, err
	}
	p, err := di.d.t.transfer(op, cmdDIGetCounter, []byte{byte(ch), edge}, 6)
	if err != nil {
		return 0, err
	}
	if len(p) != 6 || p[0] != byte(ch) || p[1] != edge {
		return 0, errf(KindTransfer, op, "unexpected response % x", p)
	}
	return uint32(p[2]) | uint32(p[3])<<8 | uint32(p[4])<<16 | uint32(p[5])<<24, nil
}

func (di *DigitalInputs) resetCounter(op string, ch int, edge byte) error {
	if err := di.check(op, ch); err != nil {
		return err
	}
	p, err := di.d.t.transfer(op, cmdDIResetCounter, []byte{byte(ch), edge}, 2)
	if err != nil {
		return err
	}
	if len(p) != 2 || p[0] != byte(ch) || p[1] != edge {
		return errf(KindTransfer, op, "unexpected response % x", p)
	}
	return nil
}

// DigitalOutputs gives access to the output channels of a board.
type DigitalOutputs struct {
	channels
	d *Dev
}

// Value returns the state of all output channels as a bitmap, bit i holding
// channel i.
func (dq *DigitalOutputs) Value() (uint32, error) {
	return dq.d.ReadRegister(RegDQValue)
}

// SetValue drives all output channels at once. This is the only atomic
// multi-channel update.
func (dq *DigitalOutputs) SetValue(v uint32) error {
	if err := dq.checkValue("dq value", v); err != nil {
		return err
	}
	return dq.d.WriteRegister(RegDQValue, v)
}

// Channel returns the state of one output channel.
func (dq *DigitalOutputs) Channel(ch int) (bool, error) {
	if err := dq.check("dq channel", ch); err != nil {
		return false, err
	}
	v, err := dq.Value()
	return v&(1<<ch) != 0, err
}

// SetChannel drives one output channel. It is a read-modify-write of the
// whole output register (two bus transactions), not an atomic hardware
// operation: concurrent SetChannel calls on the same board can lose updates.
// Use SetValue when that matters.
func (dq *DigitalOutputs) SetChannel(ch int, on bool) error {
	if err := dq.check("dq channel", ch); err != nil {
		return err
	}
	v, err := dq.Value()
	if err != nil {
		return err
	}
	if on {
		v |= 1 << ch
	} else {
		v &^= 1 << ch
	}
	return dq.d.WriteRegister(RegDQValue, v)
}

// ChannelByLabel returns the state of the channel with the given label.
func (dq *DigitalOutputs) ChannelByLabel(label string) (bool, error) {
	ch, err := dq.indexOf("dq channel", label)
	if err != nil {
		return false, err
	}
	return dq.Channel(ch)
}

// SetChannelByLabel drives the channel with the given label. See SetChannel
// for the atomicity caveat.
func (dq *DigitalOutputs) SetChannelByLabel(label string, on bool) error {
	ch, err := dq.indexOf("dq channel", label)
	if err != nil {
		return err
	}
	return dq.SetChannel(ch, on)
}

// PowerOnValue returns the output bitmap applied at board power-up.
func (dq *DigitalOutputs) PowerOnValue() (uint32, error) {
	return dq.d.ReadRegister(RegDQPowerOnValue)
}

// SetPowerOnValue programs the output bitmap applied at board power-up. It
// is independent of the live output value.
func (dq *DigitalOutputs) SetPowerOnValue(v uint32) error {
	if err := dq.checkValue("dq power-on value", v); err != nil {
		return err
	}
	return dq.d.WriteRegister(RegDQPowerOnValue, v)
}

// SafetyValue returns the output bitmap applied when the communication
// watchdog expires.
func (dq *DigitalOutputs) SafetyValue() (uint32, error) {
	return dq.d.ReadRegister(RegDQSafetyValue)
}

// SetSafetyValue programs the output bitmap applied when the communication
// watchdog expires. It is independent of the live output value.
func (dq *DigitalOutputs) SetSafetyValue(v uint32) error {
	if err := dq.checkValue("dq safety value", v); err != nil {
		return err
	}
	return dq.d.WriteRegister(RegDQSafetyValue, v)
}
