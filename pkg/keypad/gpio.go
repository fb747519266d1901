package keypad

import (
	"time"

	"github.com/warthog618/go-gpiocdev"

	"github.com/robotalks/fancylights/pkg/gpio"
)

// RowSettle is the delay between selecting a row and reading the columns.
const RowSettle = 100 * time.Microsecond

// GPIOMatrix scans a button matrix: rows are driven low one at a time and
// the pulled-up columns read low for pressed buttons.
type GPIOMatrix struct {
	chip *gpiocdev.Chip
	rows *gpiocdev.Lines
	cols *gpiocdev.Lines
	nrow int
	ncol int
}

// OpenGPIOMatrix requests the row and column lines on chip.
func OpenGPIOMatrix(chip string, rows, cols []int) (*GPIOMatrix, error) {
	c, err := gpiocdev.NewChip(chip, gpiocdev.WithConsumer(gpio.Consumer))
	if err != nil {
		return nil, err
	}
	m := &GPIOMatrix{chip: c, nrow: len(rows), ncol: len(cols)}
	high := make([]int, len(rows))
	for n := range high {
		high[n] = 1
	}
	if m.rows, err = c.RequestLines(rows, gpiocdev.AsOutput(high...)); err != nil {
		c.Close()
		return nil, err
	}
	if m.cols, err = c.RequestLines(cols, gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
		m.rows.Close()
		c.Close()
		return nil, err
	}
	return m, nil
}

// Read implements Matrix.
func (m *GPIOMatrix) Read(pressed []bool) error {
	sel := make([]int, m.nrow)
	vals := make([]int, m.ncol)
	for row := 0; row < m.nrow; row++ {
		for n := range sel {
			sel[n] = 1
		}
		sel[row] = 0
		if err := m.rows.SetValues(sel); err != nil {
			return err
		}
		time.Sleep(RowSettle)
		if err := m.cols.Values(vals); err != nil {
			return err
		}
		for col, v := range vals {
			if btn := row*m.ncol + col; btn < len(pressed) {
				pressed[btn] = v == 0
			}
		}
	}
	return nil
}

// Close releases the lines.
func (m *GPIOMatrix) Close() error {
	m.rows.Close()
	m.cols.Close()
	return m.chip.Close()
}

// WatchIRQ calls fn on every rising edge of the keypad IRQ line.
func WatchIRQ(chip string, offset int, fn func()) (*gpiocdev.Line, error) {
	return gpio.WatchRising(chip, offset, fn)
}
