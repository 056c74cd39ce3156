// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

import (
	"errors"
	"testing"
	"time"
)

func newFedDev(t *testing.T, model Model, fake *fakeBoard, period time.Duration) *Dev {
	t.Helper()
	d, err := New(fake, model, models[model].base, &Opts{WatchdogPeriod: period, Logger: discardLogger()})
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestCwdtPeriod(t *testing.T) {
	fake := newFake(DQ8rly)
	d := newTestDev(t, DQ8rly, fake)

	if err := d.Cwdt.SetPeriod(1500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	// The board keeps the period in millisecond ticks.
	if fake.period != 1500 {
		t.Errorf("board period = %d ms", fake.period)
	}
	p, err := d.Cwdt.Period()
	if err != nil {
		t.Fatal(err)
	}
	if p != 1500*time.Millisecond {
		t.Errorf("Period() = %s", p)
	}

	before := fake.transactions()
	if err := d.Cwdt.SetPeriod(-time.Second); KindOf(err) != KindOutOfRange {
		t.Errorf("negative period: got %v", err)
	}
	if fake.transactions() != before {
		t.Error("rejected period touched the bus")
	}
}

func TestStartFeedRequiresArmedWatchdog(t *testing.T) {
	fake := newFake(DQ8rly)
	d := newTestDev(t, DQ8rly, fake) // watchdog disabled

	if err := d.Cwdt.StartFeed(); KindOf(err) != KindOutOfRange {
		t.Errorf("StartFeed on disabled watchdog: got %v", err)
	}
	if d.Cwdt.Feeding() {
		t.Error("feeder should not be running")
	}
}

func TestFeeder(t *testing.T) {
	fake := newFake(DQ8rly)
	d := newFedDev(t, DQ8rly, fake, 40*time.Millisecond)

	if fake.feedCount() != 0 {
		t.Fatal("no feed transaction before StartFeed")
	}
	if err := d.Cwdt.StartFeed(); err != nil {
		t.Fatal(err)
	}
	// Idempotent start.
	if err := d.Cwdt.StartFeed(); err != nil {
		t.Fatal(err)
	}
	if !d.Cwdt.Feeding() {
		t.Fatal("feeder should be running")
	}

	time.Sleep(110 * time.Millisecond)
	if !d.Cwdt.StopFeed() {
		t.Fatal("StopFeed should report a running feeder")
	}
	n := fake.feedCount()
	// One immediate feed plus ticks every period/2.
	if n < 2 {
		t.Errorf("got %d feed transactions, want at least 2", n)
	}

	// After a synchronous stop the transaction count stays put.
	time.Sleep(60 * time.Millisecond)
	if got := fake.feedCount(); got != n {
		t.Errorf("feeds after stop: %d, want %d", got, n)
	}
	if d.Cwdt.StopFeed() {
		t.Error("second StopFeed should report no running feeder")
	}
}

func TestFeederSurvivesTransferErrors(t *testing.T) {
	fake := newFake(DQ8rly)
	d := newFedDev(t, DQ8rly, fake, 20*time.Millisecond)

	if err := d.Cwdt.StartFeed(); err != nil {
		t.Fatal(err)
	}
	fake.Lock()
	fake.fail = errors.New("bus fault")
	fake.Unlock()

	time.Sleep(60 * time.Millisecond)
	if !d.Cwdt.Feeding() {
		t.Fatal("feeder must keep running through transfer errors")
	}
	failures, last := d.Cwdt.FeedStats()
	if failures == 0 || last == nil {
		t.Errorf("FeedStats() = %d, %v", failures, last)
	}
	if KindOf(last) != KindTransfer {
		t.Errorf("last feed error kind = %v", KindOf(last))
	}

	fake.Lock()
	fake.fail = nil
	fake.Unlock()
	d.Cwdt.StopFeed()
}

func TestSetPeriodZeroStopsFeeder(t *testing.T) {
	fake := newFake(DQ8rly)
	d := newFedDev(t, DQ8rly, fake, 40*time.Millisecond)

	if err := d.Cwdt.StartFeed(); err != nil {
		t.Fatal(err)
	}
	if err := d.Cwdt.SetPeriod(0); err != nil {
		t.Fatal(err)
	}
	if d.Cwdt.Feeding() {
		t.Fatal("feeder must stop when the watchdog is disabled")
	}
	n := fake.feedCount()
	time.Sleep(60 * time.Millisecond)
	if got := fake.feedCount(); got != n {
		t.Errorf("feeds after disable: %d, want %d", got, n)
	}

	// A positive period while stopped does not auto-start the feeder.
	if err := d.Cwdt.SetPeriod(40 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if d.Cwdt.Feeding() {
		t.Error("SetPeriod must not start the feeder")
	}
}

func TestSetPeriodRestartsRunningFeeder(t *testing.T) {
	fake := newFake(DQ8rly)
	d := newFedDev(t, DQ8rly, fake, time.Hour)

	if err := d.Cwdt.StartFeed(); err != nil {
		t.Fatal(err)
	}
	// Shrinking the period while running takes effect immediately, the
	// old half-hour tick is abandoned.
	if err := d.Cwdt.SetPeriod(20 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if !d.Cwdt.Feeding() {
		t.Fatal("feeder should still be running")
	}
	n := fake.feedCount()
	time.Sleep(80 * time.Millisecond)
	if got := fake.feedCount(); got <= n {
		t.Errorf("feeds did not advance on the new interval: %d -> %d", n, got)
	}
	d.Cwdt.StopFeed()
}
