package color

// HSV is a color on the rainbow wheel.
type HSV struct {
	H, S, V uint8
}

// Bytes returns h, s, v.
func (c HSV) Bytes() []byte {
	return []byte{c.H, c.S, c.V}
}

// HSVFromBytes builds a HSV from the first three bytes of p.
func HSVFromBytes(p []byte) (c HSV) {
	if len(p) >= 3 {
		c.H, c.S, c.V = p[0], p[1], p[2]
	}
	return
}

// RGB converts to a pixel color using the rainbow wheel, which gives
// yellow and orange the same share of the wheel as the primary colors.
func (c HSV) RGB() RGB {
	const (
		k255 = 255
		k171 = 171
		k170 = 170
		k85  = 85
	)
	offset8 := (c.H & 0x1f) << 3
	third := Scale8(offset8, 256/3)
	twothirds := Scale8(offset8, 256*2/3)

	var r, g, b uint8
	switch c.H >> 5 {
	case 0: // red -> orange
		r, g, b = k255-third, third, 0
	case 1: // orange -> yellow
		r, g, b = k171, k85+third, 0
	case 2: // yellow -> green
		r, g, b = k171-twothirds, k170+third, 0
	case 3: // green -> aqua
		r, g, b = 0, k255-third, third
	case 4: // aqua -> blue
		r, g, b = 0, k171-twothirds, k85+twothirds
	case 5: // blue -> purple
		r, g, b = third, 0, k255-third
	case 6: // purple -> pink
		r, g, b = k85+third, 0, k171-third
	default: // pink -> red
		r, g, b = k170+third, 0, k85-third
	}

	if c.S != 255 {
		if c.S == 0 {
			r, g, b = 255, 255, 255
		} else {
			desat := Scale8Video(255-c.S, 255-c.S)
			satscale := 255 - desat
			r = Scale8(r, satscale) + desat
			g = Scale8(g, satscale) + desat
			b = Scale8(b, satscale) + desat
		}
	}

	if c.V != 255 {
		v := Scale8Video(c.V, c.V)
		if v == 0 {
			return Black
		}
		r, g, b = Scale8Video(r, v), Scale8Video(g, v), Scale8Video(b, v)
	}
	return RGB{r, g, b}
}
