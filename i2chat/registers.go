// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import "encoding/binary"

// Access is the allowed direction of a register.
type Access uint8

const (
	ReadOnly Access = 1 + iota
	WriteOnly
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read-only"
	case WriteOnly:
		return "write-only"
	case ReadWrite:
		return "read-write"
	}
	return "unknown"
}

func (a Access) canRead() bool  { return a == ReadOnly || a == ReadWrite }
func (a Access) canWrite() bool { return a == WriteOnly || a == ReadWrite }

// Register names one logical 32-bit register of the board. The typed
// accessors (DI.Value, DQ.SetValue, Cwdt.SetPeriod, ...) are thin wrappers
// over ReadRegister and WriteRegister with these names.
type Register uint8

const (
	RegStatus Register = iota
	RegCwdtPeriod
	RegCwdtFeed
	RegDIValue
	RegDQValue
	RegDQPowerOnValue
	RegDQSafetyValue
	RegIrqRisingEdgeControl
	RegIrqFallingEdgeControl
	RegIrqCapture
	regCount
)

type regInfo struct {
	name   string
	rd     command // read command, 0 if write-only
	wr     command // write command, 0 if read-only
	width  int     // payload bytes
	access Access
	noResp bool // write produces no response frame
}

var registers = [regCount]regInfo{
	RegStatus:                {name: "status", rd: cmdGetStatusWord, width: 4, access: ReadOnly},
	RegCwdtPeriod:            {name: "cwdt period", rd: cmdCwdtGetPeriod, wr: cmdCwdtSetPeriod, width: 4, access: ReadWrite},
	RegCwdtFeed:              {name: "cwdt feed", wr: cmdCwdtFeed, width: 4, access: WriteOnly, noResp: true},
	RegDIValue:               {name: "di value", rd: cmdDIGetAllChannelStates, width: 4, access: ReadOnly},
	RegDQValue:               {name: "dq value", rd: cmdDQGetAllChannelState, wr: cmdDQSetAllChannelState, width: 4, access: ReadWrite},
	RegDQPowerOnValue:        {name: "dq power-on value", rd: cmdDQGetPowerOnValue, wr: cmdDQSetPowerOnValue, width: 4, access: ReadWrite},
	RegDQSafetyValue:         {name: "dq safety value", rd: cmdDQGetSafetyValue, wr: cmdDQSetSafetyValue, width: 4, access: ReadWrite},
	RegIrqRisingEdgeControl:  {name: "irq rising edge control", rd: cmdIrqGetRisingEdgeControl, wr: cmdIrqSetRisingEdgeControl, width: 4, access: ReadWrite},
	RegIrqFallingEdgeControl: {name: "irq falling edge control", rd: cmdIrqGetFallingEdgeControl, wr: cmdIrqSetFallingEdgeControl, width: 4, access: ReadWrite},
	RegIrqCapture:            {name: "irq capture", rd: cmdIrqGetCapture, wr: cmdIrqAckCapture, width: 4, access: ReadWrite},
}

func (r Register) String() string {
	if r >= regCount {
		return "invalid"
	}
	return registers[r].name
}

// ReadRegister reads one 32-bit register. Reading a write-only register
// signals KindInvalidAccess without touching the bus.
func (d *Dev) ReadRegister(reg Register) (uint32, error) {
	if reg >= regCount {
		return 0, errf(KindOutOfRange, "read register", "unknown register %d", reg)
	}
	info := &registers[reg]
	if !info.access.canRead() {
		return 0, errf(KindInvalidAccess, info.name, "register is %s", info.access)
	}
	p, err := d.t.transfer(info.name, info.rd, nil, info.width)
	if err != nil {
		return 0, err
	}
	if len(p) != info.width {
		return 0, errf(KindTransfer, info.name, "unexpected payload length %d", len(p))
	}
	return binary.LittleEndian.Uint32(p), nil
}

// WriteRegister writes one 32-bit register. Writing a read-only register
// signals KindInvalidAccess without touching the bus. The board echoes the
// written value; a mismatching echo is a transfer error.
func (d *Dev) WriteRegister(reg Register, value uint32) error {
	if reg >= regCount {
		return errf(KindOutOfRange, "write register", "unknown register %d", reg)
	}
	info := &registers[reg]
	if !info.access.canWrite() {
		return errf(KindInvalidAccess, info.name, "register is %s", info.access)
	}
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, value)
	respLen := info.width
	if info.noResp {
		respLen = -1
	}
	p, err := d.t.transfer(info.name, info.wr, payload, respLen)
	if err != nil {
		return err
	}
	if !info.noResp && binary.LittleEndian.Uint32(p) != value {
		return errf(KindTransfer, info.name, "board echoed %#08x, wrote %#08x", binary.LittleEndian.Uint32(p), value)
	}
	return nil
}
