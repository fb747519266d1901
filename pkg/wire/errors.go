package wire

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady indicates the link is not running.
	ErrNotReady = errors.New("not ready")
	// ErrNoReply indicates no reply received from peer.
	// This happens when a reply is received for a latter command, and all
	// previous commands fail with this error.
	ErrNoReply = errors.New("no reply")
	// ErrUnknownOpcode indicates the opcode is not defined by the dialect.
	ErrUnknownOpcode = errors.New("unknown opcode")
	// ErrPayloadLength indicates the payload doesn't match the declared length.
	ErrPayloadLength = errors.New("invalid payload length")
	// ErrBufferOverflow indicates a frame doesn't fit the receive buffer.
	ErrBufferOverflow = errors.New("frame exceeds receive buffer")
)

// FrameError wraps an error with the opcode of the offending frame.
type FrameError struct {
	Opcode Opcode
	Err    error
}

// Error implements error.
func (e *FrameError) Error() string {
	return fmt.Sprintf("opcode 0x%02x: %v", byte(e.Opcode), e.Err)
}

// Unwrap returns the underlying error.
func (e *FrameError) Unwrap() error {
	return e.Err
}
