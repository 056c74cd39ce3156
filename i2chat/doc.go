// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2chat provides a driver for the raspihats.com I2C-HAT family of
// Raspberry Pi add-on boards.
//
// The boards expose industrial digital input and output channels over the I2C
// bus. Each board is supervised by a communication watchdog timer (CWDT): if
// the host stops talking to the board for longer than the configured period,
// the outputs revert to a programmable safety value. The driver includes an
// optional background feeder that keeps the watchdog alive from a goroutine.
//
// Supported boards: Di16, Rly10, Di6Rly6 (first generation), DI16ac, DQ10rly,
// DQ16oc, DQ8rly, DI6acDQ6rly, DI6acDQ6ssr and DI6dwDQ6ssr (second
// generation). The low nibble of the bus address is set by a jumper on the
// board, the high nibble is fixed per family.
//
// The boards do not expose a flat SMBus register file. Every register access
// is a small command/response frame protected by a Modbus CRC16. The frame
// exchange is handled internally; the public API deals in channels, bitmaps
// and durations.
//
// # Datasheet
//
// https://raspihats.com/
package i2chat
