// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package common contains functions used across multiple packages. For
// example, a CRC16 calculation
package common

// CRC16Modbus calculates the Modbus variant of CRC16 (reflected poly 0xA001,
// initial value 0xFFFF) over the byte slice parameter and returns the
// calculated value. The I2C-HAT communication frames carry this CRC for data
// integrity, transmitted low byte first.
func CRC16Modbus(bytes []byte) uint16 {
	var crc uint16 = 0xffff
	for _, val := range bytes {
		crc ^= uint16(val)
		for i := 0; i < 8; i++ {
			if (crc & 0x01) == 0 {
				crc >>= 1
			} else {
				crc = (crc >> 1) ^ 0xa001
			}
		}
	}
	return crc
}
