package projector

import "github.com/robotalks/fancylights/pkg/wire"

// Pin is a digital output line.
type Pin interface {
	SetValue(int) error
}

func level(on bool) int {
	if on {
		return 1
	}
	return 0
}

// PinRelays switches the screen relays on output lines.
type PinRelays struct {
	Up   Pin
	Down Pin
}

// SetScreenUp implements Relays.
func (r *PinRelays) SetScreenUp(on bool) error {
	return r.Up.SetValue(level(on))
}

// SetScreenDown implements Relays.
func (r *PinRelays) SetScreenDown(on bool) error {
	return r.Down.SetValue(level(on))
}

// PinMotor drives the lift motor through an H-bridge with one input per
// direction.
type PinMotor struct {
	Up   Pin
	Down Pin
}

// Drive implements Motor.
func (m *PinMotor) Drive(dir wire.LiftCommand) error {
	up, down := 0, 0
	switch dir {
	case wire.LiftUp:
		up = 1
	case wire.LiftDown:
		down = 1
	}
	// release before switching direction
	if err := m.Up.SetValue(0); err != nil {
		return err
	}
	if err := m.Down.SetValue(down); err != nil {
		return err
	}
	return m.Up.SetValue(up)
}
