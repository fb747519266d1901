package led

import (
	"github.com/robotalks/fancylights/pkg/color"
	"github.com/robotalks/fancylights/pkg/wire"
)

// Animation changes the effect parameters over time.
type Animation int

// Animations.
const (
	AnimNone Animation = iota
	AnimDisabled
	AnimOn
	AnimColorCycle
	AnimFadeIn
	AnimFadeOut
	AnimCircle
	AnimScan
	AnimFire
	AnimJuggle
	AnimBPM
	AnimRainbow
	AnimWater
)

var animationNames = []string{
	"none", "disabled", "on", "colorcycle", "fade-in", "fade-out",
	"circle", "scan", "fire", "juggle", "bpm", "rainbow", "water",
}

// String implements fmt.Stringer.
func (a Animation) String() string {
	if a >= 0 && int(a) < len(animationNames) {
		return animationNames[a]
	}
	return "invalid"
}

// Effect renders the pixels of the strip.
type Effect int

// Effects.
const (
	EffectFilled Effect = iota
	EffectBar
	EffectDot
	EffectJuggle
	EffectPalette
	EffectRainbow
)

// AnimationFor returns the animation showing a RGB mode.
func AnimationFor(mode wire.RGBMode) Animation {
	switch mode {
	case wire.RGBOn, wire.RGBDimmed:
		return AnimOn
	case wire.RGBCycle:
		return AnimColorCycle
	case wire.RGBFire:
		return AnimFire
	case wire.RGBSpin:
		return AnimCircle
	case wire.RGBScan:
		return AnimScan
	case wire.RGBJuggle:
		return AnimJuggle
	case wire.RGBBPM:
		return AnimBPM
	case wire.RGBRainbow:
		return AnimRainbow
	case wire.RGBWater:
		return AnimWater
	}
	return AnimNone
}

// StartAnimation switches to animation a and selects its effect.
// Starting the running animation again keeps its state.
func (d *Driver) StartAnimation(a Animation) {
	if d.anim == a {
		return
	}
	d.anim = a
	d.param = 0
	d.mirrored = false
	d.glitter = 0

	switch a {
	case AnimDisabled:
		d.setPower(false)
		d.anim = AnimNone
		d.effect = EffectFilled
	case AnimNone, AnimOn, AnimColorCycle:
		d.effect = EffectFilled
	case AnimFadeIn, AnimFadeOut:
		d.effect = EffectBar
	case AnimCircle:
		d.effect = EffectDot
	case AnimScan:
		d.effect = EffectDot
		d.mirrored = true
	case AnimFire:
		d.effect, d.palette = EffectPalette, &color.HeatColors
	case AnimJuggle:
		d.effect = EffectJuggle
		d.param = 8
	case AnimBPM:
		d.effect, d.palette = EffectPalette, &color.PartyColors
	case AnimRainbow:
		d.effect = EffectRainbow
		d.glitter = RainbowGlitter
	case AnimWater:
		d.effect, d.palette = EffectPalette, &color.OceanColors
	}
}

// StartFading grows (fade in) or shrinks (fade out) a mirrored bar from
// both ends of the strip, then starts next.
func (d *Driver) StartFading(out bool, next Animation) {
	if !d.Fading() {
		if out {
			d.param = d.numLEDs() / 2
		} else {
			d.param = 0
		}
	}
	if out {
		d.anim = AnimFadeOut
	} else {
		d.anim = AnimFadeIn
	}
	d.effect = EffectBar
	d.mirrored = true
	d.glitter = 0
	d.next = next
}

// Fading indicates a fade is in progress.
func (d *Driver) Fading() bool {
	return d.anim == AnimFadeIn || d.anim == AnimFadeOut
}

// AnimationFinished reports if the next animation can start.
// Only fades take time, all other animations finish immediately.
func (d *Driver) AnimationFinished() bool {
	switch d.anim {
	case AnimFadeIn:
		return d.param >= d.numLEDs()/2
	case AnimFadeOut:
		return d.param <= 0
	}
	return true
}

// Animation returns the running animation.
func (d *Driver) Animation() Animation {
	return d.anim
}

// NextAnimation returns the scheduled animation.
func (d *Driver) NextAnimation() Animation {
	return d.next
}

func (d *Driver) stepAnimation() {
	if d.AnimationFinished() && d.next != AnimNone {
		next := d.next
		d.next = AnimNone
		d.StartAnimation(next)
	}

	n := d.numLEDs()
	switch d.anim {
	case AnimColorCycle, AnimRainbow:
		d.hsv.H++
	case AnimFadeIn:
		d.param++
	case AnimFadeOut:
		d.param--
	case AnimCircle:
		d.param = (d.param + 1) % n
	case AnimScan:
		d.param = int(color.BeatSin16(d.EffectBPM, 0, uint16((n-d.centerLEDs())/2), d.now))
	case AnimFire, AnimWater, AnimBPM:
		d.hsv.H++
		d.param = int(color.BeatSin8(d.EffectBPM, 64, 255, d.now, 0))
	}
}
