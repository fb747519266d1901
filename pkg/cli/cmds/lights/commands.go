package lights

import (
	"fmt"
	"strconv"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/fancylights/pkg/cli/sh"
	"github.com/robotalks/fancylights/pkg/color"
	"github.com/robotalks/fancylights/pkg/msgs"
	"github.com/robotalks/fancylights/pkg/wire"
)

func parseByte(name, s string) (byte, error) {
	val, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("Invalid %s: %v", name, err)
	}
	return byte(val), nil
}

func byteCmd(op wire.Opcode, name string) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("%s required", name))
			return
		}
		val, err := parseByte(name, c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		sh.SendFrame(c, wire.NewFrame(op, val))
	})
}

var (
	// IntensityCmd sets the light intensity.
	IntensityCmd = ishell.Cmd{
		Name:    "intensity",
		Aliases: []string{"i"},
		Help:    "VALUE(0-255)",
		Func:    byteCmd(wire.OpLightIntensity, "VALUE"),
	}

	// DimmedCmd sets the dimmed intensity.
	DimmedCmd = ishell.Cmd{
		Name:    "dimmed",
		Aliases: []string{"dim"},
		Help:    "VALUE(0-255)",
		Func:    byteCmd(wire.OpDimmedIntensity, "VALUE"),
	}

	// HSVCmd sets the strip color.
	HSVCmd = ishell.Cmd{
		Name: "hsv",
		Help: "HUE SAT VAL",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 3 {
				c.Err(fmt.Errorf("HUE SAT VAL required"))
				return
			}
			payload := make([]byte, 3)
			for n, name := range []string{"HUE", "SAT", "VAL"} {
				val, err := parseByte(name, c.Args[n])
				if err != nil {
					c.Err(err)
					return
				}
				payload[n] = val
			}
			sh.SendFrame(c, wire.NewFrame(wire.OpHSVColor, payload...))
		}),
	}

	// RGBCmd sets the strip color from #rrggbb.
	RGBCmd = ishell.Cmd{
		Name: "rgb",
		Help: "#RRGGBB",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("COLOR required"))
				return
			}
			rgb, err := color.ParseRGB(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.SendFrame(c, wire.NewFrame(wire.OpRGBColor, rgb.R, rgb.G, rgb.B))
		}),
	}

	// ModeCmd selects the strip animation.
	ModeCmd = ishell.Cmd{
		Name:    "mode",
		Aliases: []string{"m"},
		Help:    "on|cycle|fire|dimmed|spin|scan|juggle|bpm|rainbow|water",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			mode, err := wire.ParseRGBMode(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.SendFrame(c, wire.NewFrame(wire.OpRGBMode, byte(mode)))
		}),
	}

	// LightsCmd enables lamps and strip.
	LightsCmd = ishell.Cmd{
		Name:    "lights",
		Aliases: []string{"l"},
		Help:    "off|lamps|strip|all",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			mode, err := wire.ParseLightMode(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.SendFrame(c, wire.NewFrame(wire.OpLightMode, byte(mode)))
		}),
	}

	// StatusCmd queries the controller status.
	StatusCmd = ishell.Cmd{
		Name:    "status",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			reply, err := sh.DoCommand(c, wire.NewFrame(wire.OpRequestStatus, 0), wire.OpReadStatus)
			if err != nil {
				return
			}
			st, err := wire.ParseStatus(reply.Payload)
			if err != nil {
				c.Err(err)
				return
			}
			if sh.ShellFrom(c).OutputJSON {
				sh.PrintValue(c, msgs.StatusFrom(st, time.Now()))
				return
			}
			sh.PrintValue(c, st)
		}),
	}

	// RawCmd sends a frame built from opcode and payload bytes.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "OPCODE [BYTE...]",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("OPCODE required"))
				return
			}
			op, err := parseByte("OPCODE", c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			var payload []byte
			for _, arg := range c.Args[1:] {
				val, err := parseByte("BYTE", arg)
				if err != nil {
					c.Err(err)
					return
				}
				payload = append(payload, val)
			}
			sh.SendFrame(c, wire.NewFrame(wire.Opcode(op), payload...))
		}),
	}
)

func init() {
	sh.AddCmds(
		&IntensityCmd,
		&DimmedCmd,
		&HSVCmd,
		&RGBCmd,
		&ModeCmd,
		&LightsCmd,
		&StatusCmd,
		&RawCmd,
	)
}
