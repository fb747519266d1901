package color

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHSVToRGB(t *testing.T) {
	testCases := []struct {
		name   string
		hsv    HSV
		expect RGB
	}{
		{"red", HSV{0, 255, 255}, RGB{255, 0, 0}},
		{"yellow", HSV{64, 255, 255}, RGB{171, 170, 0}},
		{"green", HSV{96, 255, 255}, RGB{0, 255, 0}},
		{"aqua", HSV{128, 255, 255}, RGB{0, 171, 85}},
		{"blue", HSV{160, 255, 255}, RGB{0, 0, 255}},
		{"white", HSV{42, 0, 255}, White},
		{"black", HSV{42, 255, 0}, Black},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expect, tc.hsv.RGB())
		})
	}
}

func TestHSVDesaturatedIsGrey(t *testing.T) {
	c := HSV{H: 100, S: 0, V: 128}.RGB()
	require.Equal(t, c.R, c.G)
	require.Equal(t, c.G, c.B)
	require.NotZero(t, c.R)
}

func TestRGBToHSV(t *testing.T) {
	for _, h := range []uint8{0, 96, 160} {
		hsv := HSV{H: h, S: 255, V: 255}.RGB().HSV()
		require.Equal(t, HSV{H: h, S: 255, V: 255}, hsv)
	}
	require.Equal(t, HSV{}, Black.HSV())
	require.Equal(t, HSV{S: 0, V: 80}, RGB{80, 80, 80}.HSV())
	half := RGB{128, 0, 0}.HSV()
	require.Equal(t, uint8(0), half.H)
	require.Equal(t, uint8(128), half.V)
}

func TestParseRGB(t *testing.T) {
	testCases := []struct {
		in     string
		expect RGB
		err    bool
	}{
		{in: "#ff8000", expect: RGB{255, 128, 0}},
		{in: " #0A0b0C ", expect: RGB{10, 11, 12}},
		{in: "rgb(1, 2, 3)", expect: RGB{1, 2, 3}},
		{in: "rgb(255,0,255)", expect: RGB{255, 0, 255}},
		{in: "#fff", err: true},
		{in: "rgb(256, 0, 0)", err: true},
		{in: "rgb(1, 2)", err: true},
		{in: "red", err: true},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			c, err := ParseRGB(tc.in)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expect, c)
		})
	}
	require.Equal(t, "#ff8000", RGB{255, 128, 0}.Hex())
}

func TestMath(t *testing.T) {
	require.Equal(t, uint8(255), Scale8(255, 255))
	require.Equal(t, uint8(0), Scale8(255, 0))
	require.Equal(t, uint8(127), Scale8(255, 127))
	require.Equal(t, uint8(1), Scale8Video(1, 1))
	require.Equal(t, uint8(0), Scale8Video(0, 200))
	require.Equal(t, uint8(255), QAdd8(200, 100))
	require.Equal(t, uint8(0), QSub8(10, 20))
	require.Equal(t, uint8(255), Sin8(64))
	require.Equal(t, uint8(128), Sin8(0))
	require.Equal(t, uint8(1), Sin8(192))
}

func TestSin(t *testing.T) {
	testCases := []struct {
		theta uint16
		sin16 int16
		sin8  uint8
	}{
		{theta: 0, sin16: 0, sin8: 128},
		{theta: 0x2000, sin16: 23170, sin8: 218},
		{theta: 0x4000, sin16: 32645, sin8: 255},
		{theta: 0x8000, sin16: 0, sin8: 128},
		{theta: 0xc000, sin16: -32645, sin8: 1},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.sin16, Sin16(tc.theta), "Sin16(%#x)", tc.theta)
		require.Equal(t, tc.sin8, Sin8(uint8(tc.theta>>8)), "Sin8(%#x)", tc.theta>>8)
	}
	// symmetric halves
	for theta := 1; theta < 128; theta++ {
		require.Equal(t, 256-int(Sin8(uint8(theta))), int(Sin8(uint8(theta+128))), "theta %d", theta)
	}
	for theta := 0; theta < 0x8000; theta += 97 {
		require.Equal(t, -Sin16(uint16(theta)), Sin16(uint16(theta+0x8000)), "theta %d", theta)
	}
}

func TestBeats(t *testing.T) {
	require.Equal(t, uint8(0), Beat8(60, 0))
	// 60 bpm: one beat per second.
	require.Equal(t, uint8(128), Beat8(60, 500*time.Millisecond))
	for ms := 0; ms < 5000; ms += 37 {
		v := BeatSin8(13, 10, 200, time.Duration(ms)*time.Millisecond, 0)
		require.True(t, v >= 10 && v <= 200, "value %d out of range", v)
		w := BeatSin16(13, 100, 1000, time.Duration(ms)*time.Millisecond)
		require.True(t, w >= 100 && w <= 1000, "value %d out of range", w)
	}
}

func TestPalette(t *testing.T) {
	require.Equal(t, Black, HeatColors.At(0, 255))
	require.Equal(t, White, HeatColors.At(240, 255))
	mid := HeatColors.At(8, 255)
	require.True(t, mid.R > 0 && mid.R < 0x33)
	require.Equal(t, RGB{}, HeatColors.At(0, 10))
	dim := OceanColors.At(144, 128)
	require.Equal(t, uint8(0x80), dim.B)
}

func TestPixels(t *testing.T) {
	pixels := make([]RGB, 4)
	Fill(pixels, White)
	FadeToBlackBy(pixels, 255)
	for _, p := range pixels {
		require.True(t, p.IsBlack())
	}
	FillRainbow(pixels, 0, 32)
	require.NotEqual(t, pixels[0], pixels[1])
	require.Equal(t, RGB{10, 20, 30}, RGB{10, 5, 30}.Max(RGB{1, 20, 3}))
	require.Equal(t, White, RGB{200, 255, 1}.Add(RGB{100, 1, 255}))
}
