// Package controller is the main controller: it receives frames from the
// keypads, drives lights and projector and reports its status back.
package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/fancylights/pkg/color"
	fx "github.com/robotalks/fancylights/pkg/framework"
	"github.com/robotalks/fancylights/pkg/led"
	"github.com/robotalks/fancylights/pkg/projector"
	"github.com/robotalks/fancylights/pkg/wire"
)

// DefaultStatusTimeout is the number of loop ticks to wait for the
// projector status before the status is sent anyway.
const DefaultStatusTimeout = 10

// FrameMsg is a frame received from a link, posted to the loop.
type FrameMsg struct {
	Source string
	Frame  wire.Frame
}

// Watcher is notified after a frame from Source changed the state.
type Watcher interface {
	StateChanged(source string, op wire.Opcode)
}

// Controller dispatches keypad frames. Except HandleFrame, all methods
// must be called from the loop.
type Controller struct {
	LEDs          *led.Driver
	Projector     *projector.Controller
	Keypads       wire.Sender
	StatusTimeout int
	Watchers      []Watcher

	start  time.Time
	status fx.Countdown
}

// New creates a Controller. Without projector hardware proj may be nil.
func New(leds *led.Driver, proj *projector.Controller, keypads wire.Sender) *Controller {
	if proj == nil {
		proj = projector.New(nil, nil, nil)
	}
	c := &Controller{
		LEDs:          leds,
		Projector:     proj,
		Keypads:       keypads,
		StatusTimeout: DefaultStatusTimeout,
	}
	proj.OnStatus = c.projectorStatus
	return c
}

// Begin restores the lights and releases the projector outputs.
func (c *Controller) Begin() error {
	if err := c.LEDs.Begin(); err != nil {
		return err
	}
	return c.Projector.Begin()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvDispatch, fx.ControlFunc(c.dispatchMessages))
	loop.AddController(fx.PrLvLights, fx.ControlFunc(c.update))
	loop.AddController(fx.PrLvStatus, fx.ControlFunc(c.countdownStatus))
}

// LinkHandler returns the handler for a keypad link named source. Frames
// are posted to the loop running the link.
func (c *Controller) LinkHandler(source string) wire.FrameHandler {
	return wire.HandleFrameFunc(func(ctx context.Context, f *wire.Frame) {
		fx.LoopCtlFrom(ctx).Post(&FrameMsg{Source: source, Frame: *f})
	})
}

// Dispatch executes a frame.
func (c *Controller) Dispatch(source string, f wire.Frame) error {
	v := f.Value()
	var err error
	switch f.Opcode {
	case wire.OpLightIntensity:
		glog.Infof("[%s] set light intensity: %d", source, v)
		err = c.LEDs.SetIntensity(v)
	case wire.OpDimmedIntensity:
		glog.Infof("[%s] set dimmed intensity: %d", source, v)
		err = c.LEDs.SetDimmedIntensity(v)
	case wire.OpHSVColor:
		hsv := color.HSVFromBytes(f.Payload)
		glog.Infof("[%s] set HSV: %d %d %d", source, hsv.H, hsv.S, hsv.V)
		err = c.LEDs.SetHSV(hsv)
	case wire.OpRGBColor:
		if len(f.Payload) < 3 {
			return &wire.FrameError{Opcode: f.Opcode, Err: wire.ErrPayloadLength}
		}
		rgb := color.RGB{R: f.Payload[0], G: f.Payload[1], B: f.Payload[2]}
		glog.Infof("[%s] set RGB: %s", source, rgb)
		err = c.LEDs.SetRGB(rgb)
	case wire.OpLightMode:
		mode := wire.LightMode(v)
		glog.Infof("[%s] enable lamp: %v, LED strip: %v", source, mode.Lamps(), mode.Strip())
		err = c.LEDs.SetLightMode(mode)
	case wire.OpRGBMode:
		mode := wire.RGBMode(v)
		if !mode.IsValid() {
			glog.Warningf("[%s] ignored RGB mode %d", source, v)
			return nil
		}
		glog.Infof("[%s] set RGB mode: %s", source, mode)
		err = c.LEDs.SetRGBMode(mode)
	case wire.OpScreen:
		glog.Infof("[%s] move screen: %s", source, wire.LiftCommand(v))
		err = c.Projector.MoveScreen(wire.LiftCommand(v))
	case wire.OpProjectorMode:
		glog.Infof("[%s] set projector mode: %s", source, wire.ProjectorMode(v))
		err = c.Projector.SetMode(wire.ProjectorMode(v))
	case wire.OpProjectorLift:
		glog.Infof("[%s] lift projector: %s", source, wire.LiftCommand(v))
		err = c.Projector.MoveProjector(wire.LiftCommand(v))
	case wire.OpRequestStatus:
		glog.V(2).Infof("[%s] status requested", source)
		timeout := c.StatusTimeout
		if timeout <= 0 {
			timeout = DefaultStatusTimeout
		}
		c.status.Start(timeout)
		if err = c.Projector.RequestStatus(); err == wire.ErrNotReady {
			// no projector board, the status goes out on timeout
			err = nil
		}
		return err
	default:
		return &wire.FrameError{Opcode: f.Opcode, Err: wire.ErrUnknownOpcode}
	}
	if err == nil {
		for _, w := range c.Watchers {
			w.StateChanged(source, f.Opcode)
		}
	}
	return err
}

// Status returns the current state as status payload.
func (c *Controller) Status() wire.Status {
	hsv := c.LEDs.HSV()
	return wire.Status{
		LightMode:       c.LEDs.LightMode(),
		Intensity:       c.LEDs.Intensity(),
		DimmedIntensity: c.LEDs.DimmedIntensity(),
		ProjectorMode:   c.Projector.Mode(),
		RGBMode:         c.LEDs.RGBMode(),
		Hue:             hsv.H,
		Saturation:      hsv.S,
		Value:           hsv.V,
	}
}

// SendStatus sends the status to all keypads.
func (c *Controller) SendStatus() error {
	if c.Keypads == nil {
		return nil
	}
	st := c.Status()
	glog.V(2).Infof("send status: %s", st)
	return c.Keypads.Send(st.Frame())
}

// Tick advances the lights and the projector by one loop iteration.
func (c *Controller) Tick(now time.Time) error {
	if c.start.IsZero() {
		c.start = now
	}
	var errs fx.AggregatedError
	errs.Add(c.LEDs.Update(now.Sub(c.start)))
	errs.Add(c.Projector.Tick())
	return errs.Aggregate()
}

// CountdownStatus counts down the status timeout and sends the status
// when it expires.
func (c *Controller) CountdownStatus() error {
	if c.status.Tick() {
		return c.SendStatus()
	}
	return nil
}

// StatusPending reports a status request is waiting for the projector.
func (c *Controller) StatusPending() bool {
	return c.status.Active()
}

func (c *Controller) projectorStatus(powerOn bool) {
	glog.V(2).Infof("projector status: power=%v", powerOn)
	c.status.Stop()
	if err := c.SendStatus(); err != nil {
		glog.Errorf("send status: %v", err)
	}
}

func (c *Controller) dispatchMessages(cc fx.ControlContext) error {
	return fx.Take(cc, func(msg *FrameMsg) error {
		if err := c.Dispatch(msg.Source, msg.Frame); err != nil {
			return fmt.Errorf("%s: %s: %w", msg.Source, msg.Frame, err)
		}
		return nil
	})
}

func (c *Controller) update(cc fx.ControlContext) error {
	return c.Tick(cc.Time())
}

func (c *Controller) countdownStatus(cc fx.ControlContext) error {
	return c.CountdownStatus()
}
