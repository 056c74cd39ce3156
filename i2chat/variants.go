// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2chat

// Model identifies an I2C-HAT board type.
type Model string

const (
	// First generation boards.
	Di16    Model = "Di16"
	Rly10   Model = "Rly10"
	Di6Rly6 Model = "Di6Rly6"

	// Second generation boards.
	DI16ac      Model = "DI16ac"
	DQ10rly     Model = "DQ10rly"
	DQ16oc      Model = "DQ16oc"
	DQ8rly      Model = "DQ8rly"
	DI6acDQ6rly Model = "DI6acDQ6rly"
	DI6acDQ6ssr Model = "DI6acDQ6ssr"
	DI6dwDQ6ssr Model = "DI6dwDQ6ssr"
)

type modelInfo struct {
	// base is the family start address. The low nibble of the actual
	// address is set by a jumper on the board.
	base      uint16
	boardName string
	diLabels  []string
	dqLabels  []string
	irq       bool
}

var models = map[Model]modelInfo{
	Di16: {
		base:      0x40,
		boardName: "Di16 I2C-HAT",
		diLabels: []string{
			"Di1.1", "Di1.2", "Di1.3", "Di1.4",
			"Di2.1", "Di2.2", "Di2.3", "Di2.4",
			"Di3.1", "Di3.2", "Di3.3", "Di3.4",
			"Di4.1", "Di4.2", "Di4.3", "Di4.4",
		},
	},
	Rly10: {
		base:      0x50,
		boardName: "Rly10 I2C-HAT",
		dqLabels: []string{
			"Rly1", "Rly2", "Rly3", "Rly4", "Rly5",
			"Rly6", "Rly7", "Rly8", "Rly9", "Rly10",
		},
	},
	Di6Rly6: {
		base:      0x60,
		boardName: "Di6Rly6 I2C-HAT",
		diLabels:  []string{"Di1.1", "Di1.2", "Di1.3", "Di1.4", "Di1.5", "Di1.6"},
		dqLabels:  []string{"Rly1", "Rly2", "Rly3", "Rly4", "Rly5", "Rly6"},
	},
	DI16ac: {
		base:      0x40,
		boardName: "DI16ac I2C-HAT",
		diLabels: []string{
			"I0", "I1", "I2", "I3", "I4", "I5", "I6", "I7",
			"I8", "I9", "I10", "I11", "I12", "I13", "I14", "I15",
		},
		irq: true,
	},
	DQ10rly: {
		base:      0x50,
		boardName: "DQ10rly I2C-HAT",
		dqLabels: []string{
			"Q0", "Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7", "Q8", "Q9",
		},
	},
	DQ16oc: {
		base:      0x50,
		boardName: "DQ16oc I2C-HAT",
		dqLabels: []string{
			"Q0", "Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7",
			"Q8", "Q9", "Q10", "Q11", "Q12", "Q13", "Q14", "Q15",
		},
	},
	DQ8rly: {
		base:      0x50,
		boardName: "DQ8rly I2C-HAT",
		dqLabels:  []string{"Q0", "Q1", "Q2", "Q3", "Q4", "Q5", "Q6", "Q7"},
	},
	DI6acDQ6rly: {
		base:      0x60,
		boardName: "DI6acDQ6rly I2C-HAT",
		diLabels:  []string{"I0", "I1", "I2", "I3", "I4", "I5"},
		dqLabels:  []string{"Q0", "Q1", "Q2", "Q3", "Q4", "Q5"},
		irq:       true,
	},
	DI6acDQ6ssr: {
		base:      0x70,
		boardName: "DI6acDQ6ssr I2C-HAT",
		diLabels:  []string{"I0", "I1", "I2", "I3", "I4", "I5"},
		dqLabels:  []string{"Q0", "Q1", "Q2", "Q3", "Q4", "Q5"},
		irq:       true,
	},
	DI6dwDQ6ssr: {
		base:      0x80,
		boardName: "DI6dwDQ6ssr I2C-HAT",
		diLabels:  []string{"I0", "I1", "I2", "I3", "I4", "I5"},
		dqLabels:  []string{"Q0", "Q1", "Q2", "Q3", "Q4", "Q5"},
		irq:       true,
	},
}
