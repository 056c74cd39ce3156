// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"errors"
	"fmt"

	"github.com/raspihats/raspihats-go/common"
)

// command is the command byte of an I2C-HAT frame. In the register map the
// command doubles as the register address.
type command byte

const (
	// Common board commands.
	cmdGetBoardName       command = 0x10
	cmdGetFirmwareVersion command = 0x11
	cmdGetStatusWord      command = 0x12
	cmdReset              command = 0x13

	// Communication watchdog commands.
	cmdCwdtSetPeriod command = 0x14
	cmdCwdtGetPeriod command = 0x15
	cmdCwdtFeed      command = 0x16

	// Digital inputs commands.
	cmdDIGetAllChannelStates command = 0x20
	cmdDIGetChannelState     command = 0x21
	cmdDIGetCounter          command = 0x22
	cmdDIResetCounter        command = 0x23
	cmdDIResetAllCounters    command = 0x24

	// Digital outputs commands.
	cmdDQSetPowerOnValue    command = 0x30
	cmdDQGetPowerOnValue    command = 0x31
	cmdDQSetSafetyValue     command = 0x32
	cmdDQGetSafetyValue     command = 0x33
	cmdDQSetAllChannelState command = 0x34
	cmdDQGetAllChannelState command = 0x35

	// IRQ capture commands, second generation input boards only.
	cmdIrqSetRisingEdgeControl  command = 0x40
	cmdIrqGetRisingEdgeControl  command = 0x41
	cmdIrqSetFallingEdgeControl command = 0x42
	cmdIrqGetFallingEdgeControl command = 0x43
	cmdIrqGetCapture            command = 0x44
	cmdIrqAckCapture            command = 0x45
)

// Frame layout: [id, command, payload..., crc16 lo, crc16 hi]. The board
// echoes id and command in its response.
const (
	frameIDSize   = 1
	frameCmdSize  = 1
	frameCrcSize  = 2
	frameOverhead = frameIDSize + frameCmdSize + frameCrcSize
)

var (
	errShortFrame = errors.New("short frame")
	errBadCrc     = errors.New("crc check failed")
)

// encodeFrame builds the raw bytes for one request frame.
func encodeFrame(id byte, cmd command, payload []byte) []byte {
	raw := make([]byte, 0, frameOverhead+len(payload))
	raw = append(raw, id, byte(cmd))
	raw = append(raw, payload...)
	crc := common.CRC16Modbus(raw)
	return append(raw, byte(crc), byte(crc>>8))
}

// decodeFrame validates a response frame against the request id and command
// and returns its payload. The payload aliases raw.
func decodeFrame(id byte, cmd command, raw []byte) ([]byte, error) {
	if len(raw) < frameOverhead {
		return nil, errShortFrame
	}
	body := raw[:len(raw)-frameCrcSize]
	crc := common.CRC16Modbus(body)
	if got := uint16(raw[len(raw)-2]) | uint16(raw[len(raw)-1])<<8; got != crc {
		return nil, errBadCrc
	}
	if raw[0] != id {
		return nil, fmt.Errorf("unexpected id %#02x, want %#02x", raw[0], id)
	}
	if raw[1] != byte(cmd) {
		return nil, fmt.Errorf("unexpected command %#02x, want %#02x", raw[1], byte(cmd))
	}
	return body[frameIDSize+frameCmdSize:], nil
}
