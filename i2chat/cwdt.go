// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"sync"
	"time"
)

// cwdtFeedValue is the payload of a feed transaction. Any value keeps the
// board timer alive, the firmware only looks at the command.
const cwdtFeedValue = 1

// Cwdt operates the communication watchdog timer of a board.
//
// The board side is a count-down timer: if it is armed (period > 0) and no
// feed arrives within the period, the outputs are driven to the safety value
// and StatusCwdtTimeout is latched. The host side is an optional feeder
// goroutine writing the feed register at half the period.
//
// Arming the watchdog and starting the feeder are separate, deliberate
// actions: a positive period armed at construction does not start the
// feeder. Feeding is safety-critical, so it never starts implicitly.
type Cwdt struct {
	d *Dev

	mu     sync.Mutex
	period time.Duration
	stop   chan struct{} // nil while stopped
	done   chan struct{}

	statMu   sync.Mutex
	failures uint64
	lastErr  error
}

// Period reads the watchdog period from the board. Zero means disabled. The
// board keeps the period in millisecond ticks.
func (c *Cwdt) Period() (time.Duration, error) {
	v, err := c.d.ReadRegister(RegCwdtPeriod)
	return time.Duration(v) * time.Millisecond, err
}

// SetPeriod writes the watchdog period to the board. Zero disables the board
// timer and, if the feeder is running, stops it synchronously. A positive
// period while the feeder is running restarts the feed interval immediately
// so the new period takes effect on the next tick. A positive period while
// the feeder is stopped does not start it.
func (c *Cwdt) SetPeriod(period time.Duration) error {
	if period < 0 {
		return errf(KindOutOfRange, "cwdt period", "negative period %s", period)
	}
	if err := c.d.WriteRegister(RegCwdtPeriod, uint32(period/time.Millisecond)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.period = period
	if c.stop != nil {
		c.stopLocked()
		if period > 0 {
			c.startLocked()
		}
	}
	return nil
}

// StartFeed starts the feeder goroutine. It requires an armed watchdog
// (period > 0) and is idempotent: starting a running feeder is a no-op.
func (c *Cwdt) StartFeed() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return nil
	}
	if c.period <= 0 {
		return errf(KindOutOfRange, "cwdt feed", "watchdog is disabled, set a positive period first")
	}
	c.startLocked()
	return nil
}

// StopFeed stops the feeder goroutine and returns true if one was running.
// It returns only after the goroutine has exited, so no feed transaction
// follows it. Stop the feeder before closing the bus.
func (c *Cwdt) StopFeed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return false
	}
	c.stopLocked()
	return true
}

// Feeding reports whether the feeder goroutine is running.
func (c *Cwdt) Feeding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop != nil
}

// FeedStats returns the number of failed feed transactions since
// construction and the last failure. Feed errors never stop the feeder, the
// next attempt may still land before the timeout, but they must stay
// observable so callers can correlate them with StatusCwdtTimeout.
func (c *Cwdt) FeedStats() (failures uint64, last error) {
	c.statMu.Lock()
	defer c.statMu.Unlock()
	return c.failures, c.lastErr
}

func (c *Cwdt) startLocked() {
	interval := c.period / 2
	if interval <= 0 {
		interval = c.period
	}
	c.stop = make(chan struct{})
	c.done = make(chan struct{})
	go c.feed(interval, c.stop, c.done)
}

func (c *Cwdt) stopLocked() {
	close(c.stop)
	<-c.done
	c.stop = nil
	c.done = nil
}

func (c *Cwdt) feed(interval time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	c.feedOnce()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.feedOnce()
		}
	}
}

func (c *Cwdt) feedOnce() {
	err := c.d.WriteRegister(RegCwdtFeed, cwdtFeedValue)
	if err == nil {
		return
	}
	c.statMu.Lock()
	c.failures++
	c.lastErr = err
	c.statMu.Unlock()
	c.d.logger.Printf("%s: watchdog feed: %v", c.d, err)
}
