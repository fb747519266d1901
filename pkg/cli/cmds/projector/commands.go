package projector

import (
	"fmt"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/fancylights/pkg/cli/sh"
	"github.com/robotalks/fancylights/pkg/wire"
)

func liftCmd(op wire.Opcode) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		if len(c.Args) < 1 {
			c.Err(fmt.Errorf("DIRECTION required"))
			return
		}
		cmd, err := wire.ParseLiftCommand(c.Args[0])
		if err != nil {
			c.Err(err)
			return
		}
		sh.SendFrame(c, wire.NewFrame(op, byte(cmd)))
	})
}

var (
	// ModeCmd switches the projector.
	ModeCmd = ishell.Cmd{
		Name:    "projector",
		Aliases: []string{"p"},
		Help:    "off|on|normal|3d|vr",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("MODE required"))
				return
			}
			mode, err := wire.ParseProjectorMode(c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			sh.SendFrame(c, wire.NewFrame(wire.OpProjectorMode, byte(mode)))
		}),
	}

	// ScreenCmd moves the screen.
	ScreenCmd = ishell.Cmd{
		Name: "screen",
		Help: "up|down|stop",
		Func: liftCmd(wire.OpScreen),
	}

	// LiftCmd moves the projector lift.
	LiftCmd = ishell.Cmd{
		Name: "lift",
		Help: "up|down|stop",
		Func: liftCmd(wire.OpProjectorLift),
	}
)

func init() {
	sh.AddCmds(
		&ModeCmd,
		&ScreenCmd,
		&LiftCmd,
	)
}
