// Package gpio requests the GPIO lines of lamps, relays, the lift motor and
// the keypad through the Linux GPIO character device.
package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Consumer labels the requested lines.
const Consumer = "fancylights"

// Lines is a set of individually requested lines.
type Lines []*gpiocdev.Line

// Close releases all lines.
func (l Lines) Close() error {
	var err error
	for _, line := range l {
		if e := line.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// OpenOutput requests a single output line, initially low.
func OpenOutput(chip string, offset int) (*gpiocdev.Line, error) {
	return gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(Consumer))
}

// OpenOutputs requests output lines, all initially low.
func OpenOutputs(chip string, offsets ...int) (Lines, error) {
	lines := make(Lines, 0, len(offsets))
	for _, offset := range offsets {
		line, err := OpenOutput(chip, offset)
		if err != nil {
			lines.Close()
			return nil, fmt.Errorf("gpio %s:%d: %v", chip, offset, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// OpenInput requests a single pulled-up input line.
func OpenInput(chip string, offset int) (*gpiocdev.Line, error) {
	return gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer(Consumer))
}

// WatchRising calls fn on every rising edge of an input line. The returned
// line reports the current level with Value.
func WatchRising(chip string, offset int, fn func()) (*gpiocdev.Line, error) {
	return gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput,
		gpiocdev.WithRisingEdge,
		gpiocdev.WithEventHandler(func(evt gpiocdev.LineEvent) {
			if evt.Type == gpiocdev.LineEventRisingEdge {
				fn()
			}
		}),
		gpiocdev.WithConsumer(Consumer))
}
