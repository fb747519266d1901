package color

// Palette16 is a gradient of 16 colors spread over the index range 0..255.
type Palette16 [16]RGB

func hexPalette(v ...uint32) (p Palette16) {
	for n := range p {
		p[n] = RGB{uint8(v[n] >> 16), uint8(v[n] >> 8), uint8(v[n])}
	}
	return
}

// Predefined palettes.
var (
	HeatColors = hexPalette(
		0x000000, 0x330000, 0x660000, 0x990000, 0xCC0000, 0xFF0000, 0xFF3300, 0xFF6600,
		0xFF9900, 0xFFCC00, 0xFFFF00, 0xFFFF33, 0xFFFF66, 0xFFFF99, 0xFFFFCC, 0xFFFFFF,
	)
	PartyColors = hexPalette(
		0x5500AB, 0x84007C, 0xB5004B, 0xE5001B, 0xE81700, 0xB84700, 0xAB7700, 0xABAB00,
		0xAB5500, 0xDD2200, 0xF2000E, 0xC2003E, 0x8F0071, 0x5F00A1, 0x2F00D0, 0x0007F9,
	)
	OceanColors = hexPalette(
		0x191970, 0x00008B, 0x191970, 0x000080, 0x00008B, 0x0000CD, 0x2E8B57, 0x008080,
		0x5F9EA0, 0x0000FF, 0x008B8B, 0x6495ED, 0x7FFFD4, 0x2E8B57, 0x00FFFF, 0x87CEFA,
	)
)

// At picks the color at index with linear blending between entries and
// scales it by brightness.
func (p *Palette16) At(index, brightness uint8) RGB {
	hi4, lo4 := index>>4, index&0x0f
	c := p[hi4]
	if lo4 != 0 {
		next := p[(hi4+1)&0x0f]
		f2 := lo4 << 4
		f1 := 255 - f2
		c = RGB{
			Scale8(c.R, f1) + Scale8(next.R, f2),
			Scale8(c.G, f1) + Scale8(next.G, f2),
			Scale8(c.B, f1) + Scale8(next.B, f2),
		}
	}
	if brightness != 255 {
		c = c.ScaleVideo(brightness)
	}
	return c
}
