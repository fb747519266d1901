package led

import (
	"github.com/robotalks/fancylights/pkg/color"
)

func (d *Driver) render() {
	if !d.powered {
		return
	}
	n := len(d.pixels)
	if n == 0 {
		return
	}
	rgb := d.hsv.RGB()
	switch d.effect {
	case EffectFilled:
		color.Fill(d.pixels, rgb)
	case EffectBar:
		half := color.HSV{H: d.hsv.H, S: d.hsv.S, V: d.hsv.V / 2}.RGB()
		p := d.param
		for i := range d.pixels {
			switch {
			case i < p || (d.mirrored && i > n-1-p):
				d.pixels[i] = rgb
			case i == p || (d.mirrored && i == n-1-p):
				d.pixels[i] = half
			default:
				d.pixels[i] = color.Black
			}
		}
	case EffectDot:
		color.FadeToBlackBy(d.pixels, d.FadeSpeed)
		if p := d.param; p >= 0 && p < n {
			d.pixels[p] = rgb
			if d.mirrored {
				d.pixels[n-1-p] = rgb
			}
		}
	case EffectJuggle:
		color.FadeToBlackBy(d.pixels, d.FadeSpeed)
		for i := 0; i < d.param; i++ {
			pos := color.BeatSin16(uint8(i+d.param-1), 0, uint16(n-1), d.now)
			d.pixels[pos] = d.pixels[pos].Max(rgb)
		}
	case EffectPalette:
		color.FadeToBlackBy(d.pixels, d.FadeSpeed)
		side := (n - d.centerLEDs()) / 2
		for i := 0; i < side; i++ {
			c := d.palette.At(d.hsv.H+uint8(i*2), uint8(d.param)-d.hsv.H+uint8(i*10))
			d.pixels[i] = c
			d.pixels[n-1-i] = c
		}
	case EffectRainbow:
		color.FillRainbow(d.pixels, d.hsv.H, 7)
	}

	if d.glitter > 0 && d.Rand != nil {
		if uint8(d.Rand.Intn(256)) < d.glitter {
			i := d.Rand.Intn(n)
			d.pixels[i] = d.pixels[i].Add(color.White)
		}
	}
	d.show()
}

func (d *Driver) show() {
	if d.Strip != nil && d.powered {
		d.save(d.Strip.Show(d.pixels, d.brightness))
	}
}
