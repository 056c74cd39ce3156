// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Event is one captured input transition.
type Event struct {
	// Channel is the input channel that triggered.
	Channel int
	// Level is the input level at capture time. A rising edge captures
	// gpio.High, a falling edge gpio.Low.
	Level gpio.Level
}

// Irq operates the interrupt capture queue of second generation input
// boards. It is nil on boards without capture support.
//
// The board latches input transitions into a queue and asserts a shared,
// active-low IRQ line on the HAT connector. Reading the capture register
// dequeues one event set; a read of zero means the queue is empty. Writing
// zero acknowledges the queue and releases the IRQ line.
//
// The driver does not configure host-side edge detection. Wire the board's
// IRQ line to a host GPIO pin, configure that pin for falling edge detection
// and hand it to Monitor, or call Drain from your own interrupt loop.
type Irq struct {
	d *Dev

	mu   sync.Mutex
	stop chan struct{} // nil while no monitor runs
	done chan struct{}
}

// DecodeCapture decodes one capture register word. The low 16 bits hold the
// per-channel pending mask, the high 16 bits the input level at capture
// time. A zero word decodes to no events.
func DecodeCapture(word uint32) []Event {
	pending := uint16(word)
	states := uint16(word >> 16)
	var events []Event
	for ch := 0; ch < 16; ch++ {
		if pending&(1<<ch) == 0 {
			continue
		}
		events = append(events, Event{Channel: ch, Level: states&(1<<ch) != 0})
	}
	return events
}

// ReadCapture dequeues one event set from the capture queue. ok is false
// when the queue is empty, which is the drain loop's termination signal.
func (q *Irq) ReadCapture() (events []Event, ok bool, err error) {
	word, err := q.d.ReadRegister(RegIrqCapture)
	if err != nil || word == 0 {
		return nil, false, err
	}
	return DecodeCapture(word), true, nil
}

// Ack clears the capture queue and releases the shared IRQ line.
func (q *Irq) Ack() error {
	return q.d.WriteRegister(RegIrqCapture, 0)
}

// Drain dequeues the capture queue until it reads empty, then acknowledges
// it. It returns the decoded events in capture order.
func (q *Irq) Drain() ([]Event, error) {
	var events []Event
	for {
		evs, ok, err := q.ReadCapture()
		if err != nil {
			return events, err
		}
		if !ok {
			break
		}
		events = append(events, evs...)
	}
	return events, q.Ack()
}

// RisingEdgeControl returns the per-channel rising edge capture enable mask.
func (q *Irq) RisingEdgeControl() (uint32, error) {
	return q.d.ReadRegister(RegIrqRisingEdgeControl)
}

// SetRisingEdgeControl sets the per-channel rising edge capture enable mask.
func (q *Irq) SetRisingEdgeControl(mask uint32) error {
	if err := q.checkMask("irq rising edge control", mask); err != nil {
		return err
	}
	return q.d.WriteRegister(RegIrqRisingEdgeControl, mask)
}

// FallingEdgeControl returns the per-channel falling edge capture enable
// mask.
func (q *Irq) FallingEdgeControl() (uint32, error) {
	return q.d.ReadRegister(RegIrqFallingEdgeControl)
}

// SetFallingEdgeControl sets the per-channel falling edge capture enable
// mask.
func (q *Irq) SetFallingEdgeControl(mask uint32) error {
	if err := q.checkMask("irq falling edge control", mask); err != nil {
		return err
	}
	return q.d.WriteRegister(RegIrqFallingEdgeControl, mask)
}

// Monitor drains the capture queue whenever pin sees an edge and forwards
// the events on the returned channel. pin must already be wired to the
// board's IRQ line and configured for falling edge detection, e.g.
// pin.In(gpio.PullUp, gpio.FallingEdge). Events are dropped when the channel
// is full. StopMonitor or Halt ends the monitor and closes the channel.
func (q *Irq) Monitor(pin gpio.PinIn) (<-chan Event, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stop != nil {
		return nil, errf(KindInvalidAccess, "irq monitor", "already monitoring")
	}
	events := make(chan Event, 16)
	q.stop = make(chan struct{})
	q.done = make(chan struct{})
	go q.monitor(pin, events, q.stop, q.done)
	return events, nil
}

// StopMonitor stops the monitor goroutine and returns true if one was
// running. It returns only after the goroutine has exited.
func (q *Irq) StopMonitor() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stop == nil {
		return false
	}
	close(q.stop)
	<-q.done
	q.stop = nil
	q.done = nil
	return true
}

func (q *Irq) monitor(pin gpio.PinIn, events chan<- Event, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer close(events)
	for {
		select {
		case <-stop:
			return
		default:
		}
		// The timeout bounds how long a stop request waits on an idle
		// line.
		if !pin.WaitForEdge(500 * time.Millisecond) {
			continue
		}
		evs, err := q.Drain()
		if err != nil {
			q.d.logger.Printf("%s: irq drain: %v", q.d, err)
			continue
		}
		for _, ev := range evs {
			select {
			case events <- ev:
			default:
			}
		}
	}
}

func (q *Irq) checkMask(op string, mask uint32) error {
	limit := uint32(1)<<len(q.d.info.diLabels) - 1
	if mask&^limit != 0 {
		return errf(KindOutOfRange, op, "mask %#x, valid range [0, %#x]", mask, limit)
	}
	return nil
}
