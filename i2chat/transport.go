// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// transport performs frame exchanges with one board. The mutex serializes
// every transaction so the watchdog feeder goroutine and foreground accessors
// cannot interleave half a frame on the bus.
type transport struct {
	mu sync.Mutex
	d  i2c.Dev
	id byte
}

func newTransport(bus i2c.Bus, addr uint16) *transport {
	// The first generated frame id is 0x1F, matching the board firmware's
	// expectation for the initial exchange.
	return &transport{d: i2c.Dev{Bus: bus, Addr: addr}, id: 0x1e}
}

// transfer sends one request frame and, when respLen >= 0, reads back a
// response of respLen payload bytes. respLen < 0 means the command has no
// response (reset, watchdog feed).
//
// Errors are surfaced unchanged as KindTransfer. There is no retry: a retry
// policy is a correctness decision that belongs to the caller, a watchdog
// feed must not be replayed after a real timeout.
func (t *transport) transfer(op string, cmd command, payload []byte, respLen int) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id++
	w := encodeFrame(t.id, cmd, payload)
	if err := t.d.Tx(w, nil); err != nil {
		return nil, wrapErr(KindTransfer, op, err)
	}
	if respLen < 0 {
		return nil, nil
	}
	r := make([]byte, frameOverhead+respLen)
	if err := t.d.Tx(nil, r); err != nil {
		return nil, wrapErr(KindTransfer, op, err)
	}
	p, err := decodeFrame(t.id, cmd, r)
	if err != nil {
		return nil, wrapErr(KindTransfer, op, err)
	}
	return p, nil
}
