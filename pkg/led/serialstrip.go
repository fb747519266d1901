package led

import (
	"io"
	"sync"

	"github.com/robotalks/fancylights/pkg/color"
)

// StripHeader starts a pixel frame on a serial strip controller.
const StripHeader = 0x84

// SerialStrip streams pixel frames to a strip controller board. Channels
// are sent in GRB order as 7 bit values with the high bit set.
type SerialStrip struct {
	W     io.Writer
	Power Pin

	lock sync.Mutex
	buf  []byte
}

// NewSerialStrip creates a SerialStrip.
func NewSerialStrip(w io.Writer, power Pin) *SerialStrip {
	return &SerialStrip{W: w, Power: power}
}

// SetPower implements Strip.
func (s *SerialStrip) SetPower(on bool) error {
	if s.Power == nil {
		return nil
	}
	v := 0
	if on {
		v = 1
	}
	return s.Power.SetValue(v)
}

// Show implements Strip.
func (s *SerialStrip) Show(pixels []color.RGB, brightness uint8) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	size := 1 + len(pixels)*3
	if cap(s.buf) < size {
		s.buf = make([]byte, size)
	}
	buf := s.buf[:size]
	buf[0] = StripHeader
	for n, px := range pixels {
		c := px.ScaleVideo(brightness)
		buf[1+n*3] = c.G>>1 | 0x80
		buf[2+n*3] = c.R>>1 | 0x80
		buf[3+n*3] = c.B>>1 | 0x80
	}
	_, err := s.W.Write(buf)
	return err
}
