package wire

import (
	"bytes"
	"fmt"
	"io"
)

// Frame is a decoded command: the opcode and its fixed payload.
type Frame struct {
	Opcode  Opcode
	Payload []byte
}

// NewFrame creates a frame.
func NewFrame(op Opcode, payload ...byte) Frame {
	return Frame{Opcode: op, Payload: payload}
}

// Value returns the first payload byte, 0 if there's no payload.
func (f Frame) Value() byte {
	if len(f.Payload) > 0 {
		return f.Payload[0]
	}
	return 0
}

// Bytes returns the frame encoded with the standard header.
func (f Frame) Bytes() []byte {
	return f.appendTo(make([]byte, 0, len(f.Payload)+1), Header)
}

// WriteTo writes the frame encoded with the standard header.
func (f Frame) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.Bytes())
	return int64(n), err
}

// Equal compares two frames.
func (f Frame) Equal(o Frame) bool {
	return f.Opcode == o.Opcode && bytes.Equal(f.Payload, o.Payload)
}

// String implements fmt.Stringer.
func (f Frame) String() string {
	return fmt.Sprintf("%s % x", f.Opcode, f.Payload)
}

func (f Frame) appendTo(b []byte, header byte) []byte {
	b = append(b, header|byte(f.Opcode))
	return append(b, f.Payload...)
}
