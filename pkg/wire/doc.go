// Package wire provides the command framing shared by the theater boards.
package wire

// Every board pair (keypad and controller, controller and projector board)
// talks the same byte oriented convention over UART:
//
//	header byte: marker bits set, opcode in the remaining bits
//	payload:     a fixed number of bytes declared per opcode
//
// A receiver collects bytes into a small fixed buffer. Bytes arriving before
// a header byte are dropped, a header byte with an unknown opcode resets the
// buffer, and a frame is dispatched as soon as the declared payload has
// arrived. There is no checksum and no resynchronization beyond waiting for
// the next header byte.
//
// The I2C side channel of the keypad uses raw opcodes without header bits,
// see package keypad.
