package controller

import (
	"sync"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/fancylights/pkg/color"
	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/msgs"
	"github.com/robotalks/fancylights/pkg/wire"
)

// fakeBroker records retained publishes.
type fakeBroker struct {
	paho.Client

	lock     sync.Mutex
	retained map[string]string
	count    int
}

func (b *fakeBroker) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	b.lock.Lock()
	defer b.lock.Unlock()
	if retained {
		b.retained[topic] = string(payload.([]byte))
	}
	b.count++
	return &paho.DummyToken{}
}

func (b *fakeBroker) take() map[string]string {
	b.lock.Lock()
	defer b.lock.Unlock()
	r := b.retained
	b.retained = make(map[string]string)
	return r
}

type bridgeTestCtx struct {
	*controllerTestCtx
	bridge *Bridge
	broker *fakeBroker
}

func newBridgeTestCtx(t *testing.T) *bridgeTestCtx {
	c := &bridgeTestCtx{
		controllerTestCtx: newControllerTestCtx(t),
		broker:            &fakeBroker{retained: make(map[string]string)},
	}
	q := &mqtt.Queue{Client: c.broker, TopicPrefix: "home/"}
	c.bridge = NewBridge(q, "leds", c.ctl)
	c.loop.Add(c.bridge)
	return c
}

func (c *bridgeTestCtx) set(state, payload string) *bridgeTestCtx {
	c.loop.PostMessage(&SetMsg{State: state, Payload: []byte(payload)})
	return c
}

func (c *bridgeTestCtx) status() *msgs.Status {
	data, ok := c.broker.take()["home/leds/status"]
	require.True(c.t, ok)
	st, err := msgs.DecodeStatus([]byte(data))
	require.NoError(c.t, err)
	return st
}

func TestBridgePublishAll(t *testing.T) {
	tctx := newBridgeTestCtx(t)
	tctx.loop.PostMessage(&publishAllMsg{})
	tctx.tick(1)
	retained := tctx.broker.take()
	require.Equal(t, "OFF", retained["home/leds/lamps"])
	require.Equal(t, "OFF", retained["home/leds/leds"])
	require.Equal(t, "255", retained["home/leds/intensity"])
	require.Equal(t, "40", retained["home/leds/dimmed"])
	require.Equal(t, "on", retained["home/leds/mode"])
	require.Equal(t, `{"h":0,"s":0,"v":0}`, retained["home/leds/hsv"])
	require.Equal(t, "#000000", retained["home/leds/rgb"])
	require.Equal(t, "off", retained["home/leds/projector"])
	require.Contains(t, retained, "home/leds/status")
}

func TestBridgeSet(t *testing.T) {
	tctx := newBridgeTestCtx(t)
	tctx.set(TopicLamps, "ON").
		set(TopicLEDs, "true").
		set(TopicIntensity, "120").
		set(TopicDimmed, " 12 ").
		set(TopicMode, "water").
		set(TopicHSV, `{"h":10,"s":200,"v":100}`).
		set(TopicProjector, "3d").
		tick(1)
	leds := tctx.ctl.LEDs
	require.True(t, leds.LampsEnabled())
	require.True(t, leds.StripEnabled())
	require.Equal(t, uint8(120), leds.Intensity())
	require.Equal(t, uint8(12), leds.DimmedIntensity())
	require.Equal(t, wire.RGBWater, leds.RGBMode())
	require.Equal(t, color.HSV{H: 10, S: 200, V: 100}, leds.HSV())
	require.Equal(t, wire.Projector3D, tctx.ctl.Projector.Mode())

	// changes from MQTT only update the snapshot
	retained := tctx.broker.take()
	require.Len(t, retained, 1)
	st, err := msgs.DecodeStatus([]byte(retained["home/leds/status"]))
	require.NoError(t, err)
	require.True(t, st.LampsOn)
	require.Equal(t, "water", st.RgbMode)
	require.Equal(t, "3d", st.ProjectorMode)
	require.True(t, st.Powered)
	require.Empty(t, tctx.watcher.changes)

	tctx.set(TopicRGB, "#ff0000").tick(1)
	require.Equal(t, color.RGB{R: 0xff}.HSV(), leds.HSV())
}

func TestBridgeSetInvalid(t *testing.T) {
	tctx := newBridgeTestCtx(t)
	for _, tc := range []struct{ state, payload string }{
		{TopicLamps, "maybe"},
		{TopicIntensity, "256"},
		{TopicDimmed, "-1"},
		{TopicMode, "disco"},
		{TopicRGB, "red"},
		{TopicHSV, "{"},
		{TopicProjector, "2d"},
		{"volume", "11"},
	} {
		require.Error(t, tctx.bridge.Apply(tc.state, []byte(tc.payload)), tc.state)
	}
}

func TestBridgePublishesKeypadChanges(t *testing.T) {
	tctx := newBridgeTestCtx(t)
	tctx.post(
		wire.NewFrame(wire.OpLightIntensity, 33),
		wire.NewFrame(wire.OpHSVColor, 0, 255, 255),
	).tick(1)
	retained := tctx.broker.take()
	require.Equal(t, "33", retained["home/leds/intensity"])
	require.Equal(t, `{"h":0,"s":255,"v":255}`, retained["home/leds/hsv"])
	require.Equal(t, color.HSV{S: 255, V: 255}.RGB().Hex(), retained["home/leds/rgb"])
	require.NotContains(t, retained, "home/leds/lamps")

	tctx.post(wire.NewFrame(wire.OpLightMode, byte(wire.LightLamps))).tick(1)
	st := tctx.status()
	require.True(t, st.LampsOn)
	require.False(t, st.StripOn)
	require.Equal(t, uint32(33), st.Intensity)
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"ON", "on", "true", "1"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		require.True(t, v)
	}
	for _, s := range []string{"OFF", "off", "False", "0"} {
		v, err := ParseBool(s)
		require.NoError(t, err)
		require.False(t, v)
	}
	_, err := ParseBool("")
	require.Error(t, err)
}
