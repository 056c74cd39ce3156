// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hatmon displays the live channel states of an I2C-HAT board in the
// terminal, one colored block per channel, refreshed in place.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"github.com/raspihats/raspihats-go/i2chat"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	on  = color.NRGBA{R: 0x00, G: 0xd0, B: 0x00, A: 0xff}
	off = color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff}
)

func render(w io.Writer, p *ansi256.Palette, label string, value uint32, n int) {
	fmt.Fprintf(w, "%s \033[0m", label)
	for ch := 0; ch < n; ch++ {
		c := off
		if value&(1<<ch) != 0 {
			c = on
		}
		io.WriteString(w, p.Block(c))
	}
	io.WriteString(w, "\033[0m  ")
}

func mainImpl() error {
	busName := flag.String("bus", "", "I2C bus to use, empty for the first available")
	model := flag.String("model", "DI6acDQ6rly", "board model")
	addr := flag.Uint("addr", 0x60, "board address, family base plus jumper")
	interval := flag.Duration("interval", 250*time.Millisecond, "refresh interval")
	watchdog := flag.Duration("watchdog", 0, "watchdog period, 0 disables; the feeder is started when set")
	flag.Parse()

	if _, err := host.Init(); err != nil {
		return err
	}
	bus, err := i2creg.Open(*busName)
	if err != nil {
		return err
	}
	defer bus.Close()

	dev, err := i2chat.New(bus, i2chat.Model(*model), uint16(*addr), &i2chat.Opts{
		WatchdogPeriod: *watchdog,
	})
	if err != nil {
		return err
	}
	defer dev.Halt()
	if *watchdog > 0 {
		if err := dev.Cwdt.StartFeed(); err != nil {
			return err
		}
	}

	fmt.Printf("%s firmware %s\n", dev.Name(), dev.FirmwareVersion())
	if dev.DI != nil {
		fmt.Printf("DI: %s\n", strings.Join(dev.DI.Labels(), " "))
	}
	if dev.DQ != nil {
		fmt.Printf("DQ: %s\n", strings.Join(dev.DQ.Labels(), " "))
	}

	w := colorable.NewColorableStdout()
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	t := time.NewTicker(*interval)
	defer t.Stop()

	for {
		select {
		case <-stop:
			fmt.Fprint(w, "\n")
			return nil
		case <-t.C:
		}
		io.WriteString(w, "\r")
		if dev.DI != nil {
			v, err := dev.DI.Value()
			if err != nil {
				return err
			}
			render(w, ansi256.Default, "DI", v, len(dev.DI.Labels()))
		}
		if dev.DQ != nil {
			v, err := dev.DQ.Value()
			if err != nil {
				return err
			}
			render(w, ansi256.Default, "DQ", v, len(dev.DQ.Labels()))
		}
		if s, err := dev.Status(); err == nil && s != 0 {
			fmt.Fprintf(w, "status: %s ", s)
		}
	}
}

func main() {
	if err := mainImpl(); err != nil {
		log.Fatalf("hatmon: %v", err)
	}
}
