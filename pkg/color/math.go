package color

import "time"

// Scale8 scales i by scale/256.
func Scale8(i, scale uint8) uint8 {
	return uint8((uint16(i) * (1 + uint16(scale))) >> 8)
}

// Scale8Video scales i by scale/256 but never down to zero unless i or
// scale is zero.
func Scale8Video(i, scale uint8) uint8 {
	j := uint8((uint16(i) * uint16(scale)) >> 8)
	if i != 0 && scale != 0 {
		j++
	}
	return j
}

// QAdd8 adds with saturation at 255.
func QAdd8(a, b uint8) uint8 {
	if s := uint16(a) + uint16(b); s < 0xff {
		return uint8(s)
	}
	return 0xff
}

// QSub8 subtracts with saturation at 0.
func QSub8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return 0
}

// Quarter wave approximations: base value and slope of each section.
var (
	sin8Base   = [4]uint8{0, 49, 90, 117}
	sin8Slope  = [4]uint8{49, 41, 27, 10}
	sin16Base  = [8]uint16{0, 6393, 12539, 18204, 23170, 27245, 30273, 32137}
	sin16Slope = [8]uint8{49, 48, 44, 38, 31, 23, 14, 4}
)

// Sin8 is a sine wave over theta 0..255 returning 1..255 centered at 128.
// It is a piecewise linear approximation off by at most 4 from a sine.
func Sin8(theta uint8) uint8 {
	offset := theta
	if theta&0x40 != 0 {
		offset = 255 - offset
	}
	offset &= 0x3f
	secOffset := offset & 0x0f
	if theta&0x40 != 0 {
		secOffset++
	}
	section := offset >> 4
	y := int16(sin8Base[section]) + int16((uint16(sin8Slope[section])*uint16(secOffset))>>4)
	if theta&0x80 != 0 {
		y = -y
	}
	return uint8(y + 128)
}

// Sin16 is a sine wave over theta 0..65535 returning -32645..32645.
// It is a piecewise linear approximation within 0.7% of a sine.
func Sin16(theta uint16) int16 {
	offset := (theta & 0x3fff) >> 3
	if theta&0x4000 != 0 {
		offset = 2047 - offset
	}
	section := offset / 256
	secOffset := uint16(uint8(offset) / 2)
	y := int16(sin16Base[section] + uint16(sin16Slope[section])*secOffset)
	if theta&0x8000 != 0 {
		y = -y
	}
	return y
}

// Beat16 returns a sawtooth wave over 0..65535 repeating bpm times per minute.
func Beat16(bpm uint8, now time.Duration) uint16 {
	ms := uint64(now / time.Millisecond)
	return uint16(ms * uint64(bpm) * 65536 / 60000)
}

// Beat8 returns a sawtooth wave over 0..255 repeating bpm times per minute.
func Beat8(bpm uint8, now time.Duration) uint8 {
	return uint8(Beat16(bpm, now) >> 8)
}

// BeatSin8 oscillates between low and high bpm times per minute.
func BeatSin8(bpm uint8, low, high uint8, now time.Duration, phase uint8) uint8 {
	beat := Beat8(bpm, now)
	return low + Scale8(Sin8(beat+phase), high-low)
}

// BeatSin16 oscillates between low and high bpm times per minute.
func BeatSin16(bpm uint8, low, high uint16, now time.Duration) uint16 {
	beat := Beat16(bpm, now)
	v := uint16(int32(Sin16(beat)) + 32768)
	return low + uint16((uint32(v)*uint32(high-low))>>16)
}
