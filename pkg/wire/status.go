package wire

import "fmt"

// StatusSize is the payload length of a status frame.
const StatusSize = 8

// Status is the controller state reported to keypads.
type Status struct {
	LightMode       LightMode
	Intensity       byte
	DimmedIntensity byte
	ProjectorMode   ProjectorMode
	RGBMode         RGBMode
	Hue             byte
	Saturation      byte
	Value           byte
}

// Payload encodes the status payload.
func (s Status) Payload() []byte {
	return []byte{
		byte(s.LightMode),
		s.Intensity,
		s.DimmedIntensity,
		byte(s.ProjectorMode),
		byte(s.RGBMode),
		s.Hue,
		s.Saturation,
		s.Value,
	}
}

// Frame builds the status frame.
func (s Status) Frame() Frame {
	return NewFrame(OpReadStatus, s.Payload()...)
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return fmt.Sprintf("light=%s intensity=%d dimmed=%d projector=%s rgb=%s hsv=%d/%d/%d",
		s.LightMode, s.Intensity, s.DimmedIntensity, s.ProjectorMode, s.RGBMode,
		s.Hue, s.Saturation, s.Value)
}

// ParseStatus decodes a status payload.
func ParseStatus(p []byte) (s Status, err error) {
	if len(p) < StatusSize {
		return s, &FrameError{Opcode: OpReadStatus, Err: ErrPayloadLength}
	}
	s.LightMode = LightMode(p[0])
	s.Intensity = p[1]
	s.DimmedIntensity = p[2]
	s.ProjectorMode = ProjectorMode(p[3])
	s.RGBMode = RGBMode(p[4])
	s.Hue, s.Saturation, s.Value = p[5], p[6], p[7]
	return
}
