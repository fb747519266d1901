// Package keypad implements the keypad encoder board and its I2C host side.
package keypad

import (
	"context"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/fancylights/pkg/wire"
)

// I2CAddr is the I2C slave address of the keypad.
const I2CAddr = 0x60

// IRQ flag bits.
const (
	IRQCommand uint8 = 1 << iota
	IRQStatus
)

// StatusPending marks the length byte of a read-commands reply when a new
// status is waiting.
const StatusPending = 0x80

// Pin is a digital output line.
type Pin interface {
	SetValue(int) error
}

// Encoder turns button presses into commands for the controller, queues
// them for the I2C master and tracks the controller status.
type Encoder struct {
	Controller wire.Sender
	IRQ        Pin

	lock           sync.Mutex
	state          LightState
	irq            uint8
	queue          *wire.Ring
	i2cCmd         wire.Opcode
	ready          bool
	toggleOnStatus bool
	lightSwitch    int
}

// NewEncoder creates an Encoder.
func NewEncoder(controller wire.Sender, irq Pin) *Encoder {
	return &Encoder{
		Controller:  controller,
		IRQ:         irq,
		state:       NewLightState(),
		queue:       wire.NewRing(wire.BufferSize),
		lightSwitch: -1,
	}
}

// Begin enables the buttons and asks the controller for its status.
func (e *Encoder) Begin() error {
	e.lock.Lock()
	defer e.lock.Unlock()
	e.ready = true
	if err := e.setIRQ(); err != nil {
		return err
	}
	return e.sendCommand(wire.OpRequestStatus, 0, true)
}

// Ready indicates buttons are processed.
func (e *Encoder) Ready() bool {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.ready
}

// Status returns the keypad's view of the controller state.
func (e *Encoder) Status() wire.Status {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.state.Status()
}

// IRQFlags returns the pending IRQ flags.
func (e *Encoder) IRQFlags() uint8 {
	e.lock.Lock()
	defer e.lock.Unlock()
	return e.irq
}

// PressButton handles a button press.
func (e *Encoder) PressButton(btn int, long bool) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	glog.V(2).Infof("keypad: button %d long=%v", btn, long)
	s := &e.state
	switch btn {
	case 0: // 3D
		return e.sendAll(
			cmd(wire.OpProjectorMode, byte(wire.Projector3D)),
			cmd(wire.OpRGBMode, byte(wire.RGBDimmed)))
	case 1: // VR
		return e.sendAll(
			cmd(wire.OpProjectorMode, byte(wire.ProjectorVR)),
			cmd(wire.OpRGBMode, byte(wire.RGBOn)))
	case 2, 3: // hue forward/back
		switch {
		case long:
			return e.sendCommand(wire.OpRGBMode, byte(wire.RGBCycle), true)
		case s.RGBMode() != wire.RGBOn:
			return e.sendCommand(wire.OpRGBMode, byte(wire.RGBOn), true)
		}
		if btn == 2 {
			s.ChangeHue(16)
		} else {
			s.ChangeHue(-16)
		}
		return e.sendHSV()
	case 4: // fire
		return e.sendCommand(wire.OpRGBMode, byte(wire.RGBFire), true)
	case 5: // movie
		mode := wire.RGBDimmed
		if long {
			mode = wire.RGBOn
		}
		return e.sendAll(
			cmd(wire.OpProjectorMode, byte(wire.ProjectorNormal)),
			cmd(wire.OpRGBMode, byte(mode)))
	case 6, 7: // saturation down/up
		delta := step(long)
		if btn == 6 {
			delta = -delta
		}
		s.ChangeSaturation(delta)
		return e.sendHSV()
	case 8, 9: // screen down/up
		return e.sendCommand(wire.OpScreen, byte(lift(btn == 9, long)), true)
	case 10, 11: // intensity down/up
		delta := step(long)
		if btn == 10 {
			delta = -delta
		}
		s.ChangeIntensity(delta)
		return e.sendCommand(wire.OpLightIntensity, s.Intensity(), true)
	case 12, 13: // projector lift down/up
		return e.sendCommand(wire.OpProjectorLift, byte(lift(btn == 13, long)), true)
	case 14: // projector power, toggled once the current status arrived
		e.toggleOnStatus = true
		return e.sendCommand(wire.OpRequestStatus, 0, true)
	case 15: // light
		s.ToggleLight()
		return e.sendCommand(wire.OpLightMode, byte(s.LightMode()), true)
	}
	return nil
}

// SetSwitch handles the level of the wall switch. Every change toggles
// the light.
func (e *Encoder) SetSwitch(on bool) error {
	e.lock.Lock()
	defer e.lock.Unlock()
	level := 0
	if on {
		level = 1
	}
	if e.lightSwitch < 0 {
		e.lightSwitch = level
		return nil
	}
	if level == e.lightSwitch {
		return nil
	}
	e.lightSwitch = level
	e.state.ToggleLight()
	return e.sendCommand(wire.OpLightMode, byte(e.state.LightMode()), true)
}

// HandleFrame implements wire.FrameHandler for the controller link.
func (e *Encoder) HandleFrame(ctx context.Context, f *wire.Frame) {
	if f.Opcode != wire.OpReadStatus {
		return
	}
	st, err := wire.ParseStatus(f.Payload)
	if err != nil {
		glog.Warningf("keypad: %v", err)
		return
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	e.state.SetStatus(st)
	e.ready = true
	if err = e.raiseIRQ(IRQStatus); err == nil && e.toggleOnStatus {
		e.toggleOnStatus = false
		e.state.ToggleProjector()
		err = e.sendCommand(wire.OpProjectorMode, byte(e.state.ProjectorMode()), true)
	}
	if err != nil {
		glog.Errorf("keypad: handle status: %v", err)
	}
}

// I2CWrite handles data written by the I2C master. The first byte selects
// the register, commands are forwarded to the controller.
func (e *Encoder) I2CWrite(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	e.lock.Lock()
	defer e.lock.Unlock()
	op := wire.Opcode(data[0])
	e.i2cCmd = op
	switch op {
	case wire.OpLightMode, wire.OpLightIntensity, wire.OpDimmedIntensity, wire.OpRGBMode,
		wire.OpScreen, wire.OpProjectorMode, wire.OpProjectorLift:
		if len(data) < 2 {
			return &wire.FrameError{Opcode: op, Err: wire.ErrPayloadLength}
		}
		return e.sendCommand(op, data[1], false)
	case wire.OpHSVColor:
		if len(data) < 4 {
			return &wire.FrameError{Opcode: op, Err: wire.ErrPayloadLength}
		}
		e.state.SetHSV(data[1], data[2], data[3])
		return e.sendHSV()
	case wire.OpRequestStatus:
		return e.requestStatus()
	case wire.OpReadCommands, wire.OpReadStatus:
		// a read request follows
		return nil
	}
	return &wire.FrameError{Opcode: op, Err: wire.ErrUnknownOpcode}
}

// I2CRead answers a read request of the I2C master for the register
// selected by the last write.
func (e *Encoder) I2CRead() []byte {
	e.lock.Lock()
	defer e.lock.Unlock()
	switch e.i2cCmd {
	case wire.OpReadCommands:
		n := byte(e.queue.Len())
		if e.irq&IRQStatus != 0 {
			n |= StatusPending
		}
		out := append([]byte{n}, e.queue.Drain()...)
		e.clearIRQ(IRQCommand)
		return out
	case wire.OpReadStatus:
		out := e.state.Status().Payload()
		e.clearIRQ(IRQStatus)
		return out
	}
	return nil
}

type command struct {
	op    wire.Opcode
	value byte
}

func cmd(op wire.Opcode, value byte) command {
	return command{op: op, value: value}
}

func step(long bool) int {
	if long {
		return 255
	}
	return 16
}

func lift(up, long bool) wire.LiftCommand {
	switch {
	case long:
		return wire.LiftStop
	case up:
		return wire.LiftUp
	}
	return wire.LiftDown
}

func (e *Encoder) sendAll(cmds ...command) error {
	for _, c := range cmds {
		if err := e.sendCommand(c.op, c.value, true); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) sendCommand(op wire.Opcode, value byte, toI2C bool) error {
	e.state.Apply(op, value)
	var err error
	if e.Controller != nil {
		err = e.Controller.Send(wire.NewFrame(op, value))
	}
	if toI2C {
		if !e.queue.PushAll(wire.Header|byte(op), value) {
			glog.Warningf("keypad: I2C queue full, %s dropped", op)
		}
		if irqErr := e.raiseIRQ(IRQCommand); err == nil {
			err = irqErr
		}
	}
	return err
}

func (e *Encoder) sendHSV() error {
	if e.Controller != nil {
		if err := e.Controller.Send(wire.NewFrame(wire.OpHSVColor, e.state.HSV()...)); err != nil {
			return err
		}
	}
	return e.requestStatus()
}

func (e *Encoder) requestStatus() error {
	e.clearIRQ(IRQStatus)
	return e.sendCommand(wire.OpRequestStatus, 0, false)
}

func (e *Encoder) raiseIRQ(flag uint8) error {
	e.irq |= flag
	return e.setIRQ()
}

func (e *Encoder) clearIRQ(flag uint8) {
	e.irq &^= flag
	if err := e.setIRQ(); err != nil {
		glog.Warningf("keypad: IRQ line: %v", err)
	}
}

func (e *Encoder) setIRQ() error {
	if e.IRQ == nil {
		return nil
	}
	v := 0
	if e.irq != 0 {
		v = 1
	}
	return e.IRQ.SetValue(v)
}
