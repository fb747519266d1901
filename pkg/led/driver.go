// Package led drives the lamps and the RGB strip of the light controller.
package led

import (
	"math/rand"
	"time"

	"github.com/robotalks/fancylights/pkg/color"
	"github.com/robotalks/fancylights/pkg/settings"
	"github.com/robotalks/fancylights/pkg/wire"
)

// Strip geometry and animation defaults.
const (
	NumLEDs          = 108*2 + 8
	CenterLEDs       = 8
	DefaultFadeSpeed = 20
	DefaultEffectBPM = 13
	RainbowGlitter   = 80
	UpdateInterval   = 20 * time.Millisecond
)

// Strip is an addressable RGB strip.
type Strip interface {
	SetPower(on bool) error
	Show(pixels []color.RGB, brightness uint8) error
}

// Lamps are the dimmable white lamps.
type Lamps interface {
	SetLampIntensity(v uint8) error
}

// Driver keeps the light state and renders it.
// It's not safe for concurrent use, call it from the control loop.
type Driver struct {
	Settings   *settings.Settings
	Strip      Strip
	Lamps      Lamps
	NumLEDs    int
	CenterLEDs int
	FadeSpeed  uint8
	EffectBPM  uint8
	Rand       *rand.Rand

	lampsOn   bool
	stripOn   bool
	powered   bool
	intensity uint8
	dimmed    uint8
	mode      wire.RGBMode
	hsv       color.HSV

	lampLevel  uint8
	brightness uint8
	pixels     []color.RGB

	anim     Animation
	next     Animation
	effect   Effect
	param    int
	mirrored bool
	palette  *color.Palette16
	glitter  uint8
	now      time.Duration
	err      error
}

// NewDriver creates a Driver.
func NewDriver(s *settings.Settings, strip Strip, lamps Lamps) *Driver {
	if s == nil {
		s = settings.New(nil)
	}
	return &Driver{
		Settings:   s,
		Strip:      strip,
		Lamps:      lamps,
		NumLEDs:    NumLEDs,
		CenterLEDs: CenterLEDs,
		FadeSpeed:  DefaultFadeSpeed,
		EffectBPM:  DefaultEffectBPM,
		Rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
		intensity:  settings.DefaultIntensity,
		dimmed:     settings.DefaultDimmedIntensity,
		brightness: 255,
	}
}

// Begin restores the saved state and turns on the outputs.
func (d *Driver) Begin() error {
	d.pixels = make([]color.RGB, d.numLEDs())
	d.lampsOn = d.Settings.LampEnabled()
	d.stripOn = d.Settings.LEDStripEnabled()
	d.intensity = d.Settings.Intensity()
	d.dimmed = d.Settings.DimmedIntensity()
	d.mode = d.Settings.RGBMode()
	d.hsv = d.Settings.HSV()
	d.setPower(d.stripOn)
	if d.stripOn {
		d.StartFading(false, AnimationFor(d.mode))
	}
	d.updateIntensity()
	d.render()
	return d.takeErr()
}

// EnableLamps switches the lamps.
func (d *Driver) EnableLamps(on bool) error {
	d.lampsOn = on
	d.save(d.Settings.SetLampEnabled(on))
	d.updateIntensity()
	return d.takeErr()
}

// EnableStrip switches the LED strip, fading it in or out.
// Power is removed once fading out finishes.
func (d *Driver) EnableStrip(on bool) error {
	d.stripOn = on
	d.save(d.Settings.SetLEDStripEnabled(on))
	if on {
		d.setPower(true)
		d.StartFading(false, AnimationFor(d.mode))
	} else {
		d.StartFading(true, AnimDisabled)
	}
	d.updateIntensity()
	return d.takeErr()
}

// SetLightMode switches lamps and strip from the light mode bits.
func (d *Driver) SetLightMode(m wire.LightMode) error {
	if err := d.EnableLamps(m.Lamps()); err != nil {
		return err
	}
	return d.EnableStrip(m.Strip())
}

// SetRGBMode schedules the animation of mode. While the strip is disabled
// the mode is only stored and used when the strip is enabled again.
func (d *Driver) SetRGBMode(mode wire.RGBMode) error {
	d.mode = mode
	d.save(d.Settings.SetRGBMode(mode))
	if d.stripOn {
		d.next = AnimationFor(mode)
	}
	d.updateIntensity()
	return d.takeErr()
}

// SetIntensity sets the light intensity.
func (d *Driver) SetIntensity(v uint8) error {
	d.intensity = v
	d.save(d.Settings.SetIntensity(v))
	d.updateIntensity()
	return d.takeErr()
}

// SetDimmedIntensity sets the intensity used in dimmed mode.
func (d *Driver) SetDimmedIntensity(v uint8) error {
	d.dimmed = v
	d.save(d.Settings.SetDimmedIntensity(v))
	d.updateIntensity()
	return d.takeErr()
}

// SetHSV sets the strip color.
func (d *Driver) SetHSV(c color.HSV) error {
	d.hsv = c
	d.save(d.Settings.SetHSV(c))
	d.render()
	return d.takeErr()
}

// SetRGB sets the strip color from a RGB value.
func (d *Driver) SetRGB(c color.RGB) error {
	return d.SetHSV(c.HSV())
}

// Update advances the animation to now and renders the strip.
// It's expected to be called every UpdateInterval.
func (d *Driver) Update(now time.Duration) error {
	d.now = now
	d.stepAnimation()
	if d.anim != AnimNone {
		d.render()
	}
	return d.takeErr()
}

// LampsEnabled reports if the lamps are on.
func (d *Driver) LampsEnabled() bool {
	return d.lampsOn
}

// StripEnabled reports if the strip is on.
func (d *Driver) StripEnabled() bool {
	return d.stripOn
}

// LightMode returns the light mode bits.
func (d *Driver) LightMode() wire.LightMode {
	return wire.MakeLightMode(d.lampsOn, d.stripOn)
}

// Intensity returns the light intensity.
func (d *Driver) Intensity() uint8 {
	return d.intensity
}

// DimmedIntensity returns the dimmed intensity.
func (d *Driver) DimmedIntensity() uint8 {
	return d.dimmed
}

// RGBMode returns the RGB mode.
func (d *Driver) RGBMode() wire.RGBMode {
	return d.mode
}

// HSV returns the strip color.
func (d *Driver) HSV() color.HSV {
	return d.hsv
}

// LampLevel returns the intensity currently applied to the lamps.
func (d *Driver) LampLevel() uint8 {
	return d.lampLevel
}

// Brightness returns the brightness applied to the strip.
func (d *Driver) Brightness() uint8 {
	return d.brightness
}

// Powered reports if the strip has power.
func (d *Driver) Powered() bool {
	return d.powered
}

// Pixels returns the rendered pixels.
func (d *Driver) Pixels() []color.RGB {
	return d.pixels
}

func (d *Driver) updateIntensity() {
	d.lampLevel = 0
	if d.lampsOn {
		d.lampLevel = d.intensity
		if d.mode == wire.RGBDimmed {
			d.lampLevel = d.dimmed
		}
	}
	d.brightness = 255
	if d.mode == wire.RGBDimmed {
		d.brightness = d.dimmed
	}
	if d.Lamps != nil {
		d.save(d.Lamps.SetLampIntensity(d.lampLevel))
	}
	if d.stripOn {
		d.show()
	}
}

func (d *Driver) setPower(on bool) {
	d.powered = on
	if !on {
		color.Fill(d.pixels, color.Black)
	}
	if d.Strip != nil {
		d.save(d.Strip.SetPower(on))
	}
}

func (d *Driver) save(err error) {
	if err != nil && d.err == nil {
		d.err = err
	}
}

func (d *Driver) takeErr() (err error) {
	err, d.err = d.err, nil
	return
}

func (d *Driver) numLEDs() int {
	if d.NumLEDs > 0 {
		return d.NumLEDs
	}
	return NumLEDs
}

func (d *Driver) centerLEDs() int {
	if d.CenterLEDs >= 0 && d.CenterLEDs < d.numLEDs() {
		return d.CenterLEDs
	}
	return 0
}
