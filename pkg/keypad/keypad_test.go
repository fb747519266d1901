package keypad

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/fancylights/pkg/wire"
)

type fakeController struct {
	frames []wire.Frame
}

func (c *fakeController) Send(f wire.Frame) error {
	if _, err := wire.ControllerDialect.Encode(f); err != nil {
		return err
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeController) take() []wire.Frame {
	f := c.frames
	c.frames = nil
	return f
}

type fakePin struct {
	value int
}

func (p *fakePin) SetValue(v int) error {
	p.value = v
	return nil
}

type encoderTestCtx struct {
	t          *testing.T
	enc        *Encoder
	controller *fakeController
	irq        *fakePin
}

func newEncoderTestCtx(t *testing.T) *encoderTestCtx {
	c := &encoderTestCtx{t: t, controller: &fakeController{}, irq: &fakePin{}}
	c.enc = NewEncoder(c.controller, c.irq)
	require.NoError(t, c.enc.Begin())
	require.Equal(t, []wire.Frame{wire.NewFrame(wire.OpRequestStatus, 0)}, c.controller.take())
	c.enc.i2cCmd = wire.OpReadCommands
	c.enc.I2CRead()
	return c
}

func (c *encoderTestCtx) press(btn int, long bool) *encoderTestCtx {
	require.NoError(c.t, c.enc.PressButton(btn, long))
	return c
}

func (c *encoderTestCtx) expectSent(frames ...wire.Frame) *encoderTestCtx {
	require.Equal(c.t, frames, c.controller.take())
	return c
}

func (c *encoderTestCtx) status(st wire.Status) *encoderTestCtx {
	f := st.Frame()
	c.enc.HandleFrame(context.Background(), &f)
	return c
}

func frame(op wire.Opcode, payload ...byte) wire.Frame {
	return wire.NewFrame(op, payload...)
}

func TestButtons(t *testing.T) {
	testCases := []struct {
		name   string
		btn    int
		long   bool
		expect []wire.Frame
	}{
		{"3d", 0, false, []wire.Frame{
			frame(wire.OpProjectorMode, byte(wire.Projector3D)),
			frame(wire.OpRGBMode, byte(wire.RGBDimmed))}},
		{"vr", 1, false, []wire.Frame{
			frame(wire.OpProjectorMode, byte(wire.ProjectorVR)),
			frame(wire.OpRGBMode, byte(wire.RGBOn))}},
		{"hue forward", 2, false, []wire.Frame{
			frame(wire.OpHSVColor, 116, 50, 60),
			frame(wire.OpRequestStatus, 0)}},
		{"hue back", 3, false, []wire.Frame{
			frame(wire.OpHSVColor, 84, 50, 60),
			frame(wire.OpRequestStatus, 0)}},
		{"color cycle", 2, true, []wire.Frame{frame(wire.OpRGBMode, byte(wire.RGBCycle))}},
		{"fire", 4, false, []wire.Frame{frame(wire.OpRGBMode, byte(wire.RGBFire))}},
		{"movie", 5, false, []wire.Frame{
			frame(wire.OpProjectorMode, byte(wire.ProjectorNormal)),
			frame(wire.OpRGBMode, byte(wire.RGBDimmed))}},
		{"movie long", 5, true, []wire.Frame{
			frame(wire.OpProjectorMode, byte(wire.ProjectorNormal)),
			frame(wire.OpRGBMode, byte(wire.RGBOn))}},
		{"saturation down", 6, false, []wire.Frame{
			frame(wire.OpHSVColor, 100, 34, 60),
			frame(wire.OpRequestStatus, 0)}},
		{"saturation max", 7, true, []wire.Frame{
			frame(wire.OpHSVColor, 100, 255, 60),
			frame(wire.OpRequestStatus, 0)}},
		{"screen down", 8, false, []wire.Frame{frame(wire.OpScreen, byte(wire.LiftDown))}},
		{"screen up", 9, false, []wire.Frame{frame(wire.OpScreen, byte(wire.LiftUp))}},
		{"screen stop", 9, true, []wire.Frame{frame(wire.OpScreen, byte(wire.LiftStop))}},
		{"intensity down", 10, false, []wire.Frame{frame(wire.OpLightIntensity, 184)}},
		{"intensity min", 10, true, []wire.Frame{frame(wire.OpLightIntensity, 0)}},
		{"intensity up", 11, false, []wire.Frame{frame(wire.OpLightIntensity, 216)}},
		{"projector down", 12, false, []wire.Frame{frame(wire.OpProjectorLift, byte(wire.LiftDown))}},
		{"projector up", 13, false, []wire.Frame{frame(wire.OpProjectorLift, byte(wire.LiftUp))}},
		{"projector stop", 12, true, []wire.Frame{frame(wire.OpProjectorLift, byte(wire.LiftStop))}},
		{"projector power", 14, false, []wire.Frame{frame(wire.OpRequestStatus, 0)}},
		{"light", 15, false, []wire.Frame{frame(wire.OpLightMode, 0)}},
		{"unused", 16, false, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tctx := newEncoderTestCtx(t)
			tctx.status(wire.Status{
				LightMode:       wire.LightAll,
				Intensity:       200,
				DimmedIntensity: 40,
				RGBMode:         wire.RGBOn,
				Hue:             100,
				Saturation:      50,
				Value:           60,
			})
			tctx.press(tc.btn, tc.long).expectSent(tc.expect...)
		})
	}
}

func TestHueWithoutOnMode(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	tctx.status(wire.Status{RGBMode: wire.RGBFire, Hue: 250})
	tctx.press(2, false).expectSent(frame(wire.OpRGBMode, byte(wire.RGBOn)))
	tctx.press(2, false).expectSent(frame(wire.OpHSVColor, 11, 0, 0), frame(wire.OpRequestStatus, 0))
	tctx.press(3, false).press(3, false)
	require.Equal(t, uint8(234), tctx.enc.Status().Hue)
}

func TestIntensitySetsValue(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	tctx.status(wire.Status{Intensity: 250, Value: 10})
	tctx.press(11, false)
	st := tctx.enc.Status()
	require.Equal(t, uint8(255), st.Intensity)
	require.Equal(t, uint8(255), st.Value)
}

func TestToggleProjectorOnStatus(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	tctx.press(14, false).expectSent(frame(wire.OpRequestStatus, 0))
	tctx.status(wire.Status{ProjectorMode: wire.ProjectorOff})
	tctx.expectSent(frame(wire.OpProjectorMode, byte(wire.ProjectorOn)))
	tctx.status(wire.Status{ProjectorMode: wire.ProjectorOn})
	tctx.expectSent()
	tctx.press(14, false).status(wire.Status{ProjectorMode: wire.ProjectorVR})
	tctx.expectSent(frame(wire.OpRequestStatus, 0), frame(wire.OpProjectorMode, byte(wire.ProjectorOff)))
}

func TestSwitch(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	require.NoError(t, tctx.enc.SetSwitch(true))
	tctx.expectSent()
	require.NoError(t, tctx.enc.SetSwitch(true))
	tctx.expectSent()
	require.NoError(t, tctx.enc.SetSwitch(false))
	tctx.expectSent(frame(wire.OpLightMode, byte(wire.LightAll)))
	require.NoError(t, tctx.enc.SetSwitch(true))
	tctx.expectSent(frame(wire.OpLightMode, byte(wire.LightOff)))
}

func TestIRQFlags(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	require.Equal(t, uint8(0), tctx.enc.IRQFlags())
	require.Equal(t, 0, tctx.irq.value)

	tctx.press(4, false)
	require.Equal(t, IRQCommand, tctx.enc.IRQFlags())
	require.Equal(t, 1, tctx.irq.value)

	tctx.status(wire.Status{RGBMode: wire.RGBFire})
	require.Equal(t, IRQCommand|IRQStatus, tctx.enc.IRQFlags())

	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpReadCommands)}))
	require.Equal(t, []byte{2 | StatusPending, 0x86, byte(wire.RGBFire)}, tctx.enc.I2CRead())
	require.Equal(t, IRQStatus, tctx.enc.IRQFlags())
	require.Equal(t, 1, tctx.irq.value)

	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpReadStatus)}))
	require.Equal(t, wire.Status{RGBMode: wire.RGBFire}.Payload(), tctx.enc.I2CRead())
	require.Equal(t, uint8(0), tctx.enc.IRQFlags())
	require.Equal(t, 0, tctx.irq.value)

	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpReadCommands)}))
	require.Equal(t, []byte{0}, tctx.enc.I2CRead())
}

func TestI2CQueueFull(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	for i := 0; i < 10; i++ {
		tctx.press(4, false)
	}
	require.Len(t, tctx.controller.take(), 10)
	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpReadCommands)}))
	out := tctx.enc.I2CRead()
	require.Equal(t, byte(16), out[0])
	require.Len(t, out, 17)
}

func TestI2CForward(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpDimmedIntensity), 33}))
	tctx.expectSent(frame(wire.OpDimmedIntensity, 33))
	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpHSVColor), 1, 2, 3}))
	tctx.expectSent(frame(wire.OpHSVColor, 1, 2, 3), frame(wire.OpRequestStatus, 0))
	require.NoError(t, tctx.enc.I2CWrite([]byte{byte(wire.OpRequestStatus)}))
	tctx.expectSent(frame(wire.OpRequestStatus, 0))
	// forwarded commands are not queued back to the master
	require.Equal(t, uint8(0), tctx.enc.IRQFlags())
	require.Equal(t, uint8(33), tctx.enc.Status().DimmedIntensity)

	require.Error(t, tctx.enc.I2CWrite([]byte{byte(wire.OpHSVColor), 1}))
	require.Error(t, tctx.enc.I2CWrite([]byte{byte(wire.OpScreen)}))
	require.Error(t, tctx.enc.I2CWrite([]byte{0x42}))
}

type pressEvent struct {
	btn  int
	long bool
}

func TestScanner(t *testing.T) {
	var events []pressEvent
	s := NewScanner(nil, func(btn int, long bool) {
		events = append(events, pressEvent{btn, long})
	})
	s.LongPress = 3
	pressed := make([]bool, NumButtons)

	pressed[5] = true
	s.Update(pressed)
	s.Update(pressed)
	pressed[5] = false
	s.Update(pressed)
	require.Equal(t, []pressEvent{{5, false}}, events)

	events = nil
	pressed[9] = true
	for i := 0; i < 10; i++ {
		s.Update(pressed)
	}
	require.Equal(t, []pressEvent{{9, true}}, events)
	pressed[9] = false
	s.Update(pressed)
	require.Equal(t, []pressEvent{{9, true}}, events)
}

type fakeMatrix struct {
	pressed map[int]bool
}

func (m *fakeMatrix) Read(pressed []bool) error {
	for n := range pressed {
		pressed[n] = m.pressed[n]
	}
	return nil
}

func TestPollerDrivesEncoder(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	m := &fakeMatrix{pressed: map[int]bool{15: true}}
	p := &Poller{Encoder: tctx.enc, Scanner: NewScanner(m, func(btn int, long bool) {
		require.NoError(t, tctx.enc.PressButton(btn, long))
	})}
	require.NoError(t, p.poll())
	m.pressed[15] = false
	require.NoError(t, p.poll())
	tctx.expectSent(frame(wire.OpLightMode, byte(wire.LightAll)))
}

// busOnEncoder connects the I2C master client directly to the encoder.
type busOnEncoder struct {
	enc *Encoder
}

func (b *busOnEncoder) WriteBytes(buf []byte) (int, error) {
	return len(buf), b.enc.I2CWrite(buf)
}

func (b *busOnEncoder) ReadBytes(buf []byte) (int, error) {
	for n := range buf {
		buf[n] = 0xff
	}
	return copy(buf, b.enc.I2CRead()), nil
}

func TestClient(t *testing.T) {
	tctx := newEncoderTestCtx(t)
	client := NewClient(&busOnEncoder{enc: tctx.enc})

	frames, pending, err := client.ReadCommands()
	require.NoError(t, err)
	require.False(t, pending)
	require.Empty(t, frames)

	tctx.press(9, false).press(15, false)
	st := wire.Status{LightMode: wire.LightLamps, Intensity: 99, RGBMode: wire.RGBWater}
	tctx.status(st)

	frames, pending, err = client.ReadCommands()
	require.NoError(t, err)
	require.True(t, pending)
	require.Equal(t, []wire.Frame{
		frame(wire.OpScreen, byte(wire.LiftUp)),
		frame(wire.OpLightMode, byte(wire.LightAll)),
	}, frames)

	got, err := client.ReadStatus()
	require.NoError(t, err)
	require.Equal(t, st, got)
	require.Equal(t, uint8(0), tctx.enc.IRQFlags())

	tctx.controller.take()
	require.NoError(t, client.Send(frame(wire.OpRGBMode, byte(wire.RGBBPM))))
	require.NoError(t, client.RequestStatus())
	tctx.expectSent(frame(wire.OpRGBMode, byte(wire.RGBBPM)), frame(wire.OpRequestStatus, 0))
}
