package settings

import (
	"github.com/robotalks/fancylights/pkg/color"
	"github.com/robotalks/fancylights/pkg/wire"
)

// Preference keys.
const (
	KeyLampOn       = "lampOn"
	KeyLEDOn        = "LEDOn"
	KeyRGBMode      = "rgbMode"
	KeyIntensity    = "intensity"
	KeyDimIntensity = "dimIntensity"
	KeyHSV          = "hsv"
)

// Defaults of the light preferences.
const (
	DefaultIntensity       uint8 = 255
	DefaultDimmedIntensity uint8 = 40
)

// Settings provides typed access to the light preferences.
type Settings struct {
	Store Store
}

// New creates Settings over store, a memory store if nil.
func New(store Store) *Settings {
	if store == nil {
		store = NewMemStore()
	}
	return &Settings{Store: store}
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// LampEnabled reports if the lamps were left on.
func (s *Settings) LampEnabled() bool {
	return s.Store.Uint8(KeyLampOn, 0) != 0
}

// SetLampEnabled saves the lamp state.
func (s *Settings) SetLampEnabled(on bool) error {
	return s.Store.PutUint8(KeyLampOn, boolByte(on))
}

// LEDStripEnabled reports if the LED strip was left on.
func (s *Settings) LEDStripEnabled() bool {
	return s.Store.Uint8(KeyLEDOn, 0) != 0
}

// SetLEDStripEnabled saves the LED strip state.
func (s *Settings) SetLEDStripEnabled(on bool) error {
	return s.Store.PutUint8(KeyLEDOn, boolByte(on))
}

// RGBMode returns the saved RGB mode.
func (s *Settings) RGBMode() wire.RGBMode {
	m := wire.RGBMode(s.Store.Uint8(KeyRGBMode, uint8(wire.RGBOn)))
	if !m.IsValid() {
		return wire.RGBOn
	}
	return m
}

// SetRGBMode saves the RGB mode.
func (s *Settings) SetRGBMode(m wire.RGBMode) error {
	return s.Store.PutUint8(KeyRGBMode, uint8(m))
}

// Intensity returns the saved light intensity.
func (s *Settings) Intensity() uint8 {
	return s.Store.Uint8(KeyIntensity, DefaultIntensity)
}

// SetIntensity saves the light intensity.
func (s *Settings) SetIntensity(v uint8) error {
	return s.Store.PutUint8(KeyIntensity, v)
}

// DimmedIntensity returns the saved dimmed intensity.
func (s *Settings) DimmedIntensity() uint8 {
	return s.Store.Uint8(KeyDimIntensity, DefaultDimmedIntensity)
}

// SetDimmedIntensity saves the dimmed intensity.
func (s *Settings) SetDimmedIntensity(v uint8) error {
	return s.Store.PutUint8(KeyDimIntensity, v)
}

// HSV returns the saved strip color.
func (s *Settings) HSV() color.HSV {
	return color.HSVFromBytes(s.Store.Bytes(KeyHSV, []byte{0, 0, 0}))
}

// SetHSV saves the strip color.
func (s *Settings) SetHSV(c color.HSV) error {
	return s.Store.PutBytes(KeyHSV, c.Bytes())
}
