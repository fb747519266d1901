package lights

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseByte(t *testing.T) {
	for _, c := range []struct {
		in  string
		out byte
	}{
		{"0", 0},
		{"255", 255},
		{"0x80", 0x80},
		{"010", 8},
	} {
		t.Run(c.in, func(t *testing.T) {
			val, err := parseByte("VALUE", c.in)
			require.NoError(t, err)
			require.Equal(t, c.out, val)
		})
	}
	_, err := parseByte("VALUE", "256")
	require.Error(t, err)
	_, err = parseByte("VALUE", "x")
	require.Error(t, err)
}
