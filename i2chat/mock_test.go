// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"encoding/binary"
	"errors"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"periph.io/x/conn/v3/physic"
)

// fakeBoard simulates the register backing store of one I2C-HAT so the
// accessors can be exercised end to end, frames included, without hardware.
// It implements i2c.Bus.
type fakeBoard struct {
	sync.Mutex

	name string
	fw   [3]byte

	status   uint32
	period   uint32 // milliseconds, as on the wire
	di       uint32
	dq       uint32
	powerOn  uint32
	safety   uint32
	rising   [16]uint32
	falling  [16]uint32
	riseCtl  uint32
	fallCtl  uint32
	captures []uint32

	feeds  int // CWDT feed commands seen
	resets int // reset commands seen
	txs    int // bus transactions seen

	fail error // when set, every transaction fails with this error

	resp []byte // pending response frame
}

func newFake(model Model) *fakeBoard {
	info := models[model]
	return &fakeBoard{
		name: strings.TrimSuffix(info.boardName, " I2C-HAT"),
		fw:   [3]byte{1, 0, 4},
	}
}

func (f *fakeBoard) String() string                  { return "fake" }
func (f *fakeBoard) SetSpeed(physic.Frequency) error { return nil }

func (f *fakeBoard) Tx(addr uint16, w, r []byte) error {
	f.Lock()
	defer f.Unlock()
	f.txs++
	if f.fail != nil {
		return f.fail
	}
	if len(w) > 0 {
		return f.request(w)
	}
	if f.resp == nil {
		return errors.New("fake: read without pending response")
	}
	if len(r) != len(f.resp) {
		return errors.New("fake: read length mismatch")
	}
	copy(r, f.resp)
	f.resp = nil
	return nil
}

func (f *fakeBoard) request(w []byte) error {
	if len(w) < frameOverhead {
		return errors.New("fake: short request")
	}
	id, cmd := w[0], command(w[1])
	payload := w[2 : len(w)-frameCrcSize]
	var resp []byte
	switch cmd {
	case cmdGetBoardName:
		resp = make([]byte, 25)
		copy(resp, f.name)
	case cmdGetFirmwareVersion:
		resp = f.fw[:]
	case cmdGetStatusWord:
		resp = u32le(f.status)
	case cmdReset:
		f.resets++
		f.dq = f.powerOn
		f.period = 0
		return nil // no response
	case cmdCwdtSetPeriod:
		f.period = binary.LittleEndian.Uint32(payload)
		resp = payload
	case cmdCwdtGetPeriod:
		resp = u32le(f.period)
	case cmdCwdtFeed:
		f.feeds++
		return nil // no response
	case cmdDIGetAllChannelStates:
		resp = u32le(f.di)
	case cmdDIGetCounter:
		ch, edge := payload[0], payload[1]
		c := f.falling[ch]
		if edge == risingEdge {
			c = f.rising[ch]
		}
		resp = append([]byte{ch, edge}, u32le(c)...)
	case cmdDIResetCounter:
		ch, edge := payload[0], payload[1]
		if edge == risingEdge {
			f.rising[ch] = 0
		} else {
			f.falling[ch] = 0
		}
		resp = []byte{ch, edge}
	case cmdDIResetAllCounters:
		f.rising = [16]uint32{}
		f.falling = [16]uint32{}
		resp = []byte{}
	case cmdDQSetAllChannelState:
		f.dq = binary.LittleEndian.Uint32(payload)
		resp = payload
	case cmdDQGetAllChannelState:
		resp = u32le(f.dq)
	case cmdDQSetPowerOnValue:
		f.powerOn = binary.LittleEndian.Uint32(payload)
		resp = payload
	case cmdDQGetPowerOnValue:
		resp = u32le(f.powerOn)
	case cmdDQSetSafetyValue:
		f.safety = binary.LittleEndian.Uint32(payload)
		resp = payload
	case cmdDQGetSafetyValue:
		resp = u32le(f.safety)
	case cmdIrqSetRisingEdgeControl:
		f.riseCtl = binary.LittleEndian.Uint32(payload)
		resp = payload
	case cmdIrqGetRisingEdgeControl:
		resp = u32le(f.riseCtl)
	case cmdIrqSetFallingEdgeControl:
		f.fallCtl = binary.LittleEndian.Uint32(payload)
		resp = payload
	case cmdIrqGetFallingEdgeControl:
		resp = u32le(f.fallCtl)
	case cmdIrqGetCapture:
		var word uint32
		if len(f.captures) > 0 {
			word = f.captures[0]
			f.captures = f.captures[1:]
		}
		resp = u32le(word)
	case cmdIrqAckCapture:
		f.captures = nil
		resp = payload
	default:
		return errors.New("fake: unsupported command")
	}
	f.resp = encodeFrame(id, cmd, resp)
	return nil
}

func (f *fakeBoard) transactions() int {
	f.Lock()
	defer f.Unlock()
	return f.txs
}

func (f *fakeBoard) feedCount() int {
	f.Lock()
	defer f.Unlock()
	return f.feeds
}

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// newTestDev opens a Dev against a fake board, watchdog disabled.
func newTestDev(t *testing.T, model Model, fake *fakeBoard) *Dev {
	t.Helper()
	d, err := New(fake, model, models[model].base, &Opts{Logger: discardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return d
}
