// Package projector controls the projector, its lift and the screen.
package projector

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/fancylights/pkg/wire"
)

// DefaultPulseTicks is how long the screen relays are held, in control
// loop ticks.
const DefaultPulseTicks = 50

// Relays are the up/down inputs of the screen motor controller.
type Relays interface {
	SetScreenUp(on bool) error
	SetScreenDown(on bool) error
}

// Motor drives the projector lift winch.
type Motor interface {
	Drive(dir wire.LiftCommand) error
}

// StatusFunc receives the projector power state.
type StatusFunc func(powerOn bool)

// Controller keeps the projector mode and moves screen and lift.
// It's not safe for concurrent use except HandleFrame, which only queues.
type Controller struct {
	Relays     Relays
	Motor      Motor
	Board      wire.Sender
	OnStatus   StatusFunc
	PulseTicks int

	mode    wire.ProjectorMode
	pulse   int
	locked  bool
	replies chan wire.Frame
}

// New creates a Controller.
func New(relays Relays, motor Motor, board wire.Sender) *Controller {
	return &Controller{
		Relays:     relays,
		Motor:      motor,
		Board:      board,
		PulseTicks: DefaultPulseTicks,
		replies:    make(chan wire.Frame, wire.BufferSize),
	}
}

// Begin releases all outputs.
func (c *Controller) Begin() error {
	if err := c.releaseRelays(); err != nil {
		return err
	}
	if c.Motor != nil {
		return c.Motor.Drive(wire.LiftStop)
	}
	return nil
}

// Mode returns the projector mode.
func (c *Controller) Mode() wire.ProjectorMode {
	return c.mode
}

// Locked reports if the lift reported its endstop lock.
func (c *Controller) Locked() bool {
	return c.locked
}

// SetMode sets the projector mode and forwards it to the projector board.
func (c *Controller) SetMode(mode wire.ProjectorMode) error {
	c.mode = mode
	if c.Board != nil {
		return c.Board.Send(wire.NewFrame(wire.OpProjectorSetMode, byte(mode)))
	}
	return nil
}

// MoveScreen pulses the screen relays. Stop pulses both.
func (c *Controller) MoveScreen(dir wire.LiftCommand) error {
	c.pulse = c.PulseTicks
	if dir == wire.LiftUp || dir == wire.LiftStop {
		if err := c.setUp(true); err != nil {
			return err
		}
	}
	if dir == wire.LiftDown || dir == wire.LiftStop {
		if err := c.setDown(true); err != nil {
			return err
		}
	}
	return nil
}

// MoveProjector drives the lift. Moving unlocks the lift on the projector
// board first.
func (c *Controller) MoveProjector(dir wire.LiftCommand) error {
	if dir != wire.LiftStop && c.locked && c.Board != nil {
		if err := c.Board.Send(wire.NewFrame(wire.OpProjectorUnlock)); err != nil {
			return err
		}
		c.locked = false
	}
	if c.Motor != nil {
		return c.Motor.Drive(dir)
	}
	return nil
}

// RequestStatus asks the projector board for its status. The reply is
// delivered to OnStatus from Tick.
func (c *Controller) RequestStatus() error {
	if c.Board == nil {
		return wire.ErrNotReady
	}
	return c.Board.Send(wire.NewFrame(wire.OpProjectorStatus, 0))
}

// HandleFrame implements wire.FrameHandler for the projector board link.
func (c *Controller) HandleFrame(ctx context.Context, f *wire.Frame) {
	select {
	case c.replies <- *f:
	default:
		glog.Warningf("projector: reply dropped %s", f)
	}
}

// Tick counts down the relay pulse and processes projector board replies.
func (c *Controller) Tick() error {
	if c.pulse > 0 {
		c.pulse--
		if c.pulse == 0 {
			if err := c.releaseRelays(); err != nil {
				return err
			}
		}
	}
	for {
		select {
		case f := <-c.replies:
			if err := c.processReply(f); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (c *Controller) processReply(f wire.Frame) error {
	switch f.Opcode {
	case wire.OpProjectorStatus:
		powerOn := f.Value()&0x02 != 0
		glog.V(2).Infof("projector: status 0x%02x", f.Value())
		if c.OnStatus != nil {
			c.OnStatus(powerOn)
		}
	case wire.OpProjectorLock:
		// endstop reached
		c.locked = true
		if c.Motor != nil {
			if err := c.Motor.Drive(wire.LiftStop); err != nil {
				return err
			}
		}
		return c.ack()
	case wire.OpProjectorUnlock:
		c.locked = false
		return c.ack()
	case wire.OpProjectorAck:
		glog.V(2).Info("projector: ack")
	case wire.OpProjectorSetMode:
		c.mode = wire.ProjectorMode(f.Value())
	}
	return nil
}

func (c *Controller) ack() error {
	if c.Board == nil {
		return nil
	}
	return c.Board.Send(wire.NewFrame(wire.OpProjectorAck))
}

func (c *Controller) setUp(on bool) error {
	if c.Relays == nil {
		return nil
	}
	return c.Relays.SetScreenUp(on)
}

func (c *Controller) setDown(on bool) error {
	if c.Relays == nil {
		return nil
	}
	return c.Relays.SetScreenDown(on)
}

func (c *Controller) releaseRelays() error {
	if err := c.setUp(false); err != nil {
		return err
	}
	return c.setDown(false)
}
