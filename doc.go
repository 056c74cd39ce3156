// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package raspihats is a container for raspihats.com I2C-HAT drivers.
//
// The boards covered here are Raspberry Pi add-on boards exposing industrial
// digital inputs and outputs over the I2C bus, supervised by a communication
// watchdog timer. See the i2chat package for the driver.
package raspihats
