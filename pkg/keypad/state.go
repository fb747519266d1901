package keypad

import "github.com/robotalks/fancylights/pkg/wire"

// LightState mirrors the controller state on the keypad so buttons can
// step values relative to the current one.
type LightState struct {
	lightMode     wire.LightMode
	intensity     int
	dimmed        uint8
	rgbMode       wire.RGBMode
	projectorMode wire.ProjectorMode
	hsv           [3]int
}

// NewLightState creates the state assumed before the first status arrives.
func NewLightState() LightState {
	return LightState{
		intensity:     255,
		dimmed:        50,
		rgbMode:       wire.RGBOn,
		projectorMode: wire.ProjectorOff,
	}
}

// Status returns the state as a status payload.
func (s *LightState) Status() wire.Status {
	return wire.Status{
		LightMode:       s.lightMode,
		Intensity:       uint8(s.intensity),
		DimmedIntensity: s.dimmed,
		ProjectorMode:   s.projectorMode,
		RGBMode:         s.rgbMode,
		Hue:             uint8(s.hsv[0]),
		Saturation:      uint8(s.hsv[1]),
		Value:           uint8(s.hsv[2]),
	}
}

// SetStatus replaces the state with a status from the controller.
func (s *LightState) SetStatus(st wire.Status) {
	s.lightMode = st.LightMode
	s.intensity = int(st.Intensity)
	s.dimmed = st.DimmedIntensity
	s.projectorMode = st.ProjectorMode
	s.rgbMode = st.RGBMode
	s.SetHSV(st.Hue, st.Saturation, st.Value)
}

// SetHSV sets the strip color.
func (s *LightState) SetHSV(h, sat, v uint8) {
	s.hsv = [3]int{int(h), int(sat), int(v)}
}

// HSV returns the strip color bytes.
func (s *LightState) HSV() []byte {
	return []byte{uint8(s.hsv[0]), uint8(s.hsv[1]), uint8(s.hsv[2])}
}

// Apply updates the state from a command sent to the controller.
func (s *LightState) Apply(op wire.Opcode, value byte) {
	switch op {
	case wire.OpLightMode:
		s.lightMode = wire.LightMode(value)
	case wire.OpLightIntensity:
		s.intensity = int(value)
	case wire.OpDimmedIntensity:
		s.dimmed = value
	case wire.OpRGBMode:
		s.rgbMode = wire.RGBMode(value)
	case wire.OpProjectorMode:
		s.projectorMode = wire.ProjectorMode(value)
	}
}

// ToggleLight switches all lights off, or all on if they're off.
func (s *LightState) ToggleLight() {
	if s.lightMode != wire.LightOff {
		s.lightMode = wire.LightOff
	} else {
		s.lightMode = wire.LightAll
	}
}

// ToggleProjector switches the projector off, or on if it's off.
func (s *LightState) ToggleProjector() {
	if s.projectorMode != wire.ProjectorOff {
		s.projectorMode = wire.ProjectorOff
	} else {
		s.projectorMode = wire.ProjectorOn
	}
}

// ChangeIntensity steps the light intensity. The strip value follows the
// light intensity when changed from the keypad.
func (s *LightState) ChangeIntensity(delta int) {
	s.intensity = clamp(s.intensity + delta)
	s.hsv[2] = s.intensity
}

// ChangeSaturation steps the strip saturation.
func (s *LightState) ChangeSaturation(delta int) {
	s.hsv[1] = clamp(s.hsv[1] + delta)
}

// ChangeHue steps the strip hue around the wheel.
func (s *LightState) ChangeHue(delta int) {
	h := s.hsv[0] + delta
	if h < 0 {
		h += 255
	}
	if h > 255 {
		h -= 255
	}
	s.hsv[0] = h
}

// LightMode returns the light mode bits.
func (s *LightState) LightMode() wire.LightMode {
	return s.lightMode
}

// Intensity returns the light intensity.
func (s *LightState) Intensity() uint8 {
	return uint8(s.intensity)
}

// RGBMode returns the RGB mode.
func (s *LightState) RGBMode() wire.RGBMode {
	return s.rgbMode
}

// ProjectorMode returns the projector mode.
func (s *LightState) ProjectorMode() wire.ProjectorMode {
	return s.projectorMode
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
