package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/fancylights/pkg/color"
	fx "github.com/robotalks/fancylights/pkg/framework"
	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/msgs"
	"github.com/robotalks/fancylights/pkg/wire"
)

// State topics below the bridge topic. Commands are received on
// <topic>/<state>/set.
const (
	TopicLamps     = "lamps"
	TopicLEDs      = "leds"
	TopicIntensity = "intensity"
	TopicDimmed    = "dimmed"
	TopicMode      = "mode"
	TopicHSV       = "hsv"
	TopicRGB       = "rgb"
	TopicProjector = "projector"
	TopicStatus    = "status"
)

// SourceMQTT names changes made through the broker.
const SourceMQTT = "mqtt"

// SetMsg is a command received from the broker.
type SetMsg struct {
	State   string
	Payload []byte
}

type publishAllMsg struct{}

// HSVJSON is the payload of the hsv topic.
type HSVJSON struct {
	H uint8 `json:"h"`
	S uint8 `json:"s"`
	V uint8 `json:"v"`
}

// Bridge publishes the light state to MQTT and applies commands from it.
// Changes made by commands from MQTT are not published back to their
// state topics.
type Bridge struct {
	Queue      *mqtt.Queue
	Topic      string
	Controller *Controller
}

// NewBridge creates a Bridge and registers it as a watcher of c.
func NewBridge(q *mqtt.Queue, topic string, c *Controller) *Bridge {
	b := &Bridge{Queue: q, Topic: topic, Controller: c}
	c.Watchers = append(c.Watchers, b)
	return b
}

// AddToLoop implements LoopAdder.
func (b *Bridge) AddToLoop(loop *fx.Loop) {
	loop.AddController(fx.PrLvDispatch, fx.ControlFunc(b.processMessages))
	loop.AddRunnable(b)
}

// Run implements Runnable.
func (b *Bridge) Run(ctx context.Context) error {
	loopCtl := fx.LoopCtlFrom(ctx)
	onConnect := b.Queue.OnConnect
	b.Queue.OnConnect = func(q *mqtt.Queue) {
		if onConnect != nil {
			onConnect(q)
		}
		loopCtl.Post(&publishAllMsg{})
	}
	sub := b.Queue.Sub(b.topic("+/set"), func(topic string, payload []byte) {
		state := strings.TrimSuffix(strings.TrimPrefix(topic, b.topic("")), "/set")
		loopCtl.Post(&SetMsg{State: state, Payload: payload})
	})
	defer sub.Close()

	if err := b.Queue.ConnectWithRetry(ctx, mqtt.ConnectRetryInterval); err != nil {
		return err
	}
	<-ctx.Done()
	b.Queue.Close()
	return ctx.Err()
}

// Apply executes a command received on the set topic of state.
func (b *Bridge) Apply(state string, payload []byte) error {
	leds := b.Controller.LEDs
	str := strings.TrimSpace(string(payload))
	switch state {
	case TopicLamps, TopicLEDs:
		on, err := ParseBool(str)
		if err != nil {
			return err
		}
		if state == TopicLamps {
			return leds.EnableLamps(on)
		}
		return leds.EnableStrip(on)
	case TopicIntensity, TopicDimmed:
		v, err := strconv.ParseUint(str, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid %s %q", state, str)
		}
		if state == TopicIntensity {
			return leds.SetIntensity(uint8(v))
		}
		return leds.SetDimmedIntensity(uint8(v))
	case TopicMode:
		mode, err := wire.ParseRGBMode(str)
		if err != nil {
			return err
		}
		return leds.SetRGBMode(mode)
	case TopicRGB:
		rgb, err := color.ParseRGB(str)
		if err != nil {
			return err
		}
		return leds.SetRGB(rgb)
	case TopicHSV:
		var hsv HSVJSON
		if err := json.Unmarshal(payload, &hsv); err != nil {
			return fmt.Errorf("invalid hsv %q: %v", str, err)
		}
		return leds.SetHSV(color.HSV{H: hsv.H, S: hsv.S, V: hsv.V})
	case TopicProjector:
		mode, err := wire.ParseProjectorMode(str)
		if err != nil {
			return err
		}
		return b.Controller.Projector.SetMode(mode)
	}
	return fmt.Errorf("unknown state %q", state)
}

// StateChanged implements Watcher.
func (b *Bridge) StateChanged(source string, op wire.Opcode) {
	if source == SourceMQTT {
		return
	}
	switch op {
	case wire.OpLightIntensity:
		b.publishState(TopicIntensity)
	case wire.OpDimmedIntensity:
		b.publishState(TopicDimmed)
	case wire.OpHSVColor, wire.OpRGBColor:
		b.publishState(TopicHSV)
		b.publishState(TopicRGB)
	case wire.OpLightMode:
		b.publishState(TopicLamps)
		b.publishState(TopicLEDs)
	case wire.OpRGBMode:
		b.publishState(TopicMode)
	case wire.OpProjectorMode:
		b.publishState(TopicProjector)
	}
	b.publishStatus()
}

// PublishAll publishes all state topics.
func (b *Bridge) PublishAll() {
	for _, state := range []string{
		TopicLamps, TopicLEDs, TopicIntensity, TopicDimmed,
		TopicMode, TopicHSV, TopicRGB, TopicProjector,
	} {
		b.publishState(state)
	}
	b.publishStatus()
}

// StateValue formats the retained value of a state topic.
func (b *Bridge) StateValue(state string) []byte {
	leds := b.Controller.LEDs
	switch state {
	case TopicLamps:
		return FormatBool(leds.LampsEnabled())
	case TopicLEDs:
		return FormatBool(leds.StripEnabled())
	case TopicIntensity:
		return []byte(strconv.Itoa(int(leds.Intensity())))
	case TopicDimmed:
		return []byte(strconv.Itoa(int(leds.DimmedIntensity())))
	case TopicMode:
		return []byte(leds.RGBMode().String())
	case TopicHSV:
		hsv := leds.HSV()
		data, _ := json.Marshal(&HSVJSON{H: hsv.H, S: hsv.S, V: hsv.V})
		return data
	case TopicRGB:
		return []byte(leds.HSV().RGB().Hex())
	case TopicProjector:
		return []byte(b.Controller.Projector.Mode().String())
	}
	return nil
}

func (b *Bridge) publishState(state string) {
	b.Queue.PubRetained(b.topic(state), b.StateValue(state))
}

func (b *Bridge) publishStatus() {
	snapshot := msgs.StatusFrom(b.Controller.Status(), time.Now())
	snapshot.Powered = b.Controller.LEDs.Powered()
	snapshot.ProjectorLocked = b.Controller.Projector.Locked()
	data, err := snapshot.Encode()
	if err != nil {
		glog.Errorf("mqtt: encode status: %v", err)
		return
	}
	b.Queue.PubRetained(b.topic(TopicStatus), data)
}

func (b *Bridge) processMessages(cc fx.ControlContext) error {
	var errs fx.AggregatedError
	errs.Add(fx.Take(cc, func(msg *SetMsg) error {
		glog.Infof("[%s] set %s: %s", SourceMQTT, msg.State, msg.Payload)
		if err := b.Apply(msg.State, msg.Payload); err != nil {
			return fmt.Errorf("mqtt: %s: %w", msg.State, err)
		}
		b.publishStatus()
		return nil
	}))
	errs.Add(fx.Take(cc, func(*publishAllMsg) error {
		b.PublishAll()
		return nil
	}))
	return errs.Aggregate()
}

func (b *Bridge) topic(sub string) string {
	if b.Topic == "" {
		return sub
	}
	return b.Topic + "/" + sub
}

// ParseBool parses on/off state payloads.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid switch state %q", s)
}

// FormatBool formats on/off state payloads.
func FormatBool(on bool) []byte {
	if on {
		return []byte("ON")
	}
	return []byte("OFF")
}
