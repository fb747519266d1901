package color

import (
	"fmt"
	"strconv"
	"strings"
)

// RGB is a pixel color.
type RGB struct {
	R, G, B uint8
}

// Common colors.
var (
	Black = RGB{}
	White = RGB{0xff, 0xff, 0xff}
)

// Hex returns the #rrggbb notation.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// Scale scales all channels by scale/256.
func (c RGB) Scale(scale uint8) RGB {
	return RGB{Scale8(c.R, scale), Scale8(c.G, scale), Scale8(c.B, scale)}
}

// ScaleVideo scales all channels without dimming any of them to zero.
func (c RGB) ScaleVideo(scale uint8) RGB {
	return RGB{Scale8Video(c.R, scale), Scale8Video(c.G, scale), Scale8Video(c.B, scale)}
}

// Add adds two colors with saturation.
func (c RGB) Add(o RGB) RGB {
	return RGB{QAdd8(c.R, o.R), QAdd8(c.G, o.G), QAdd8(c.B, o.B)}
}

// Max takes the brighter value of each channel.
func (c RGB) Max(o RGB) RGB {
	if o.R > c.R {
		c.R = o.R
	}
	if o.G > c.G {
		c.G = o.G
	}
	if o.B > c.B {
		c.B = o.B
	}
	return c
}

// IsBlack reports if all channels are off.
func (c RGB) IsBlack() bool {
	return c == Black
}

// ParseRGB parses #rrggbb or rgb(r, g, b).
func ParseRGB(s string) (c RGB, err error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return c, fmt.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return c, fmt.Errorf("invalid color %q: %v", s, err)
		}
		return RGB{uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return c, fmt.Errorf("invalid color %q", s)
		}
		var ch [3]uint8
		for n, p := range parts {
			v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
			if err != nil {
				return c, fmt.Errorf("invalid color %q: %v", s, err)
			}
			ch[n] = uint8(v)
		}
		return RGB{ch[0], ch[1], ch[2]}, nil
	}
	return c, fmt.Errorf("invalid color %q", s)
}

// HSV approximates the rainbow HSV color of c.
func (c RGB) HSV() HSV {
	hi, lo := c.R, c.R
	for _, v := range []uint8{c.G, c.B} {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	if hi == 0 {
		return HSV{}
	}
	hsv := HSV{V: hi, S: 255 - uint8(uint16(lo)*255/uint16(hi))}
	if hi == lo {
		hsv.S = 0
		return hsv
	}
	// normalize to a fully saturated, full value color and look up the
	// closest hue on the wheel.
	span := uint16(hi - lo)
	norm := RGB{
		uint8(uint16(c.R-lo) * 255 / span),
		uint8(uint16(c.G-lo) * 255 / span),
		uint8(uint16(c.B-lo) * 255 / span),
	}
	best, bestDist := 0, -1
	for h := 0; h < 256; h++ {
		ref := HSV{H: uint8(h), S: 255, V: 255}.RGB()
		if d := distance(norm, ref); bestDist < 0 || d < bestDist {
			best, bestDist = h, d
		}
	}
	hsv.H = uint8(best)
	return hsv
}

func distance(a, b RGB) int {
	dr, dg, db := int(a.R)-int(b.R), int(a.G)-int(b.G), int(a.B)-int(b.B)
	return dr*dr + dg*dg + db*db
}
