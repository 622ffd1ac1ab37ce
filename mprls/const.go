package mprls

// Commands
const (
	// CmdMeasure starts a conversion. It is followed by two 0x00 bytes.
	CmdMeasure byte = 0xAA
	// CmdRead clocks out the status byte and the 24-bit pressure counts.
	CmdRead byte = 0xF0
)

// Status flags
const (
	StatusPower     byte = (1 << 6)
	StatusBusy      byte = (1 << 5)
	StatusIntegrity byte = (1 << 2)
	StatusSaturated byte = (1 << 0)
)

// Transfer function B: 2.5% to 22.5% of 2^24 counts.
const (
	OutputMin = 419430
	OutputMax = 3774873
)

// Pressure range of the 0-300 mmHg part.
const (
	PressureMin = 0.0
	PressureMax = 300.0
)
