package projector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/fancylights/pkg/wire"
)

type fakeRelays struct {
	up, down bool
}

func (r *fakeRelays) SetScreenUp(on bool) error {
	r.up = on
	return nil
}

func (r *fakeRelays) SetScreenDown(on bool) error {
	r.down = on
	return nil
}

type fakeMotor struct {
	dirs []wire.LiftCommand
}

func (m *fakeMotor) Drive(dir wire.LiftCommand) error {
	m.dirs = append(m.dirs, dir)
	return nil
}

type fakeBoard struct {
	sent []wire.Frame
}

func (b *fakeBoard) Send(f wire.Frame) error {
	if _, err := wire.ProjectorDialect.Encode(f); err != nil {
		return err
	}
	b.sent = append(b.sent, f)
	return nil
}

func TestMoveScreen(t *testing.T) {
	testCases := []struct {
		dir      wire.LiftCommand
		up, down bool
	}{
		{wire.LiftUp, true, false},
		{wire.LiftDown, false, true},
		{wire.LiftStop, true, true},
	}
	for _, tc := range testCases {
		t.Run(tc.dir.String(), func(t *testing.T) {
			relays := &fakeRelays{}
			c := New(relays, nil, nil)
			c.PulseTicks = 3
			require.NoError(t, c.MoveScreen(tc.dir))
			require.Equal(t, tc.up, relays.up)
			require.Equal(t, tc.down, relays.down)
			require.NoError(t, c.Tick())
			require.NoError(t, c.Tick())
			require.Equal(t, tc.up, relays.up)
			require.NoError(t, c.Tick())
			require.False(t, relays.up)
			require.False(t, relays.down)
		})
	}
}

func TestSetMode(t *testing.T) {
	board := &fakeBoard{}
	c := New(nil, nil, board)
	require.Equal(t, wire.ProjectorOff, c.Mode())
	require.NoError(t, c.SetMode(wire.ProjectorVR))
	require.Equal(t, wire.ProjectorVR, c.Mode())
	require.Equal(t, []wire.Frame{wire.NewFrame(wire.OpProjectorSetMode, byte(wire.ProjectorVR))}, board.sent)
}

func TestStatus(t *testing.T) {
	board := &fakeBoard{}
	c := New(nil, nil, board)
	var reports []bool
	c.OnStatus = func(powerOn bool) {
		reports = append(reports, powerOn)
	}
	require.NoError(t, c.RequestStatus())
	require.Len(t, board.sent, 1)
	require.Equal(t, wire.OpProjectorStatus, board.sent[0].Opcode)

	c.HandleFrame(context.Background(), &wire.Frame{Opcode: wire.OpProjectorStatus, Payload: []byte{0x02}})
	c.HandleFrame(context.Background(), &wire.Frame{Opcode: wire.OpProjectorStatus, Payload: []byte{0x01}})
	require.Empty(t, reports)
	require.NoError(t, c.Tick())
	require.Equal(t, []bool{true, false}, reports)

	require.Equal(t, wire.ErrNotReady, New(nil, nil, nil).RequestStatus())
}

func TestLiftLock(t *testing.T) {
	board := &fakeBoard{}
	motor := &fakeMotor{}
	c := New(nil, motor, board)
	require.NoError(t, c.MoveProjector(wire.LiftUp))
	c.HandleFrame(context.Background(), &wire.Frame{Opcode: wire.OpProjectorLock})
	require.NoError(t, c.Tick())
	require.True(t, c.Locked())
	require.Equal(t, []wire.LiftCommand{wire.LiftUp, wire.LiftStop}, motor.dirs)
	require.Equal(t, []wire.Frame{wire.NewFrame(wire.OpProjectorAck)}, board.sent)

	require.NoError(t, c.MoveProjector(wire.LiftDown))
	require.False(t, c.Locked())
	require.Equal(t, wire.OpProjectorUnlock, board.sent[1].Opcode)
	require.Equal(t, wire.LiftDown, motor.dirs[2])
}

type fakePin struct {
	values []int
}

func (p *fakePin) SetValue(v int) error {
	p.values = append(p.values, v)
	return nil
}

func TestPinOutputs(t *testing.T) {
	up, down := &fakePin{}, &fakePin{}
	r := &PinRelays{Up: up, Down: down}
	require.NoError(t, r.SetScreenUp(true))
	require.NoError(t, r.SetScreenDown(false))
	require.Equal(t, []int{1}, up.values)
	require.Equal(t, []int{0}, down.values)

	up, down = &fakePin{}, &fakePin{}
	m := &PinMotor{Up: up, Down: down}
	require.NoError(t, m.Drive(wire.LiftUp))
	require.NoError(t, m.Drive(wire.LiftDown))
	require.NoError(t, m.Drive(wire.LiftStop))
	require.Equal(t, []int{0, 1, 0, 0, 0, 0}, up.values)
	require.Equal(t, []int{0, 1, 0}, down.values)
}
