package actuator

// Matrix is the register interface of a MAX7219/7221 driving an 8x8 LED
// matrix. *max72xx.Device satisfies it.
type Matrix interface {
	SetScanLimit(digitNumber uint8)
	SetIntensity(intensity uint8)
	SetDecodeMode(digitNumber uint8)
	StopShutdownMode()
	WriteCommand(register, data byte)
}

const regDigit0 = 0x01 // max72xx.REG_DIGIT0

// Bar shows a level as a horizontal bar across all 8 rows of a matrix.
type Bar struct {
	m    Matrix
	cols uint8
}

// NewBar initializes m for raw row data at the given intensity (0-15).
func NewBar(m Matrix, intensity uint8) *Bar {
	m.SetDecodeMode(0)
	m.SetScanLimit(8)
	m.SetIntensity(intensity)
	m.StopShutdownMode()
	b := &Bar{m: m}
	b.draw()
	return b
}

// Columns returns how many columns are lit.
func (b *Bar) Columns() uint8 { return b.cols }

// Show lights level/max of the 8 columns, rounded to the nearest column.
func (b *Bar) Show(level, max uint8) {
	var cols uint8
	if max > 0 {
		if level > max {
			level = max
		}
		cols = uint8((uint(level)*8 + uint(max)/2) / uint(max))
	}
	if cols == b.cols {
		return
	}
	b.cols = cols
	b.draw()
}

func (b *Bar) draw() {
	row := byte(0xff << (8 - b.cols))
	for i := byte(0); i < 8; i++ {
		b.m.WriteCommand(regDigit0+i, row)
	}
}
