package wire

import "fmt"

// BufferSize is the receive buffer of every board, header byte included.
const BufferSize = 16

// Header is the marker of a command byte.
const Header byte = 0x80

// LegacyHeader is the marker used by the old light board.
const LegacyHeader byte = 0x70

// PayloadLengths maps opcodes to the number of payload bytes following the
// header byte.
type PayloadLengths map[Opcode]int

// Dialect describes the frames one side of a link expects to receive.
type Dialect struct {
	Name    string
	Header  byte
	Lengths PayloadLengths
}

// ControllerDialect is received by the main controller from keypads.
var ControllerDialect = &Dialect{
	Name:   "controller",
	Header: Header,
	Lengths: PayloadLengths{
		OpLightIntensity:  1,
		OpDimmedIntensity: 1,
		OpRGBColor:        3,
		OpHSVColor:        3,
		OpLightMode:       1,
		OpRGBMode:         1,
		OpScreen:          1,
		OpProjectorMode:   1,
		OpProjectorLift:   1,
		OpRequestStatus:   1,
	},
}

// KeypadDialect is received by keypads from the main controller.
var KeypadDialect = &Dialect{
	Name:   "keypad",
	Header: Header,
	Lengths: PayloadLengths{
		OpReadStatus: StatusSize,
	},
}

// ProjectorDialect is used in both directions between the main controller
// and the projector board.
var ProjectorDialect = &Dialect{
	Name:   "projector",
	Header: Header,
	Lengths: PayloadLengths{
		OpProjectorStatus:  1,
		OpProjectorLock:    0,
		OpProjectorUnlock:  0,
		OpProjectorAck:     0,
		OpProjectorSetMode: 1,
	},
}

// LightBoardDialect is used by the legacy light board. Every command
// carries a single value byte.
var LightBoardDialect = &Dialect{
	Name:   "lightboard",
	Header: LegacyHeader,
	Lengths: PayloadLengths{
		OpLivingRoom: 1,
		OpStaircase:  1,
		OpStair:      1,
		OpAllOff:     1,
		OpStatus:     1,
		OpSense:      1,
	},
}

// Dialects lists the predefined dialects by name.
var Dialects = map[string]*Dialect{
	ControllerDialect.Name: ControllerDialect,
	KeypadDialect.Name:     KeypadDialect,
	ProjectorDialect.Name:  ProjectorDialect,
	LightBoardDialect.Name: LightBoardDialect,
}

// DialectByName looks up a predefined dialect.
func DialectByName(name string) (*Dialect, error) {
	if d, ok := Dialects[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}

// IsHeader checks if b carries the header marker.
func (d *Dialect) IsHeader(b byte) bool {
	return b&d.Header == d.Header
}

// PayloadLen returns the payload length of an opcode.
func (d *Dialect) PayloadLen(op Opcode) (int, bool) {
	n, ok := d.Lengths[op]
	return n, ok
}

// Validate checks every declared frame fits the receive buffer and every
// opcode can be carried beside the header marker.
func (d *Dialect) Validate() error {
	for op, n := range d.Lengths {
		if byte(op)&d.Header != 0 {
			return &FrameError{Opcode: op, Err: fmt.Errorf("opcode collides with header 0x%02x", d.Header)}
		}
		if n < 0 || n+1 > BufferSize {
			return &FrameError{Opcode: op, Err: ErrBufferOverflow}
		}
	}
	return nil
}

// Encode builds the bytes of a frame.
func (d *Dialect) Encode(f Frame) ([]byte, error) {
	n, ok := d.Lengths[f.Opcode]
	if !ok {
		return nil, &FrameError{Opcode: f.Opcode, Err: ErrUnknownOpcode}
	}
	if len(f.Payload) != n {
		return nil, &FrameError{Opcode: f.Opcode, Err: ErrPayloadLength}
	}
	return f.appendTo(make([]byte, 0, n+1), d.Header), nil
}
