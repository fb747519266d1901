package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/fancylights/pkg/env"
	fx "github.com/robotalks/fancylights/pkg/framework"
	"github.com/robotalks/fancylights/pkg/keypad"
	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/msgs"
	"github.com/robotalks/fancylights/pkg/wire"
)

// pollInterval is used when no IRQ line is configured.
const pollInterval = 100 * time.Millisecond

func init() {
	env.SetupFlags()
}

// bridge reads the keypad over I2C when it raises the IRQ and forwards
// the queued frames to the controller link.
type bridge struct {
	client      *keypad.Client
	link        wire.Sender
	queue       *mqtt.Queue
	statusTopic string
	irqCh       chan struct{}
}

func (b *bridge) irq() {
	select {
	case b.irqCh <- struct{}{}:
	default:
	}
}

func (b *bridge) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if b.irqCh == nil {
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		tick = ticker.C
	}
	if err := b.client.RequestStatus(); err != nil {
		return err
	}
	// the IRQ line may already be high
	for {
		if err := b.read(); err != nil {
			glog.Errorf("keypad: %v", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.irqCh:
		case <-tick:
		}
	}
}

func (b *bridge) read() error {
	frames, pending, err := b.client.ReadCommands()
	if err != nil {
		return err
	}
	for _, f := range frames {
		glog.V(2).Infof("keypad: forward %s", f)
		if err := b.link.Send(f); err != nil {
			return err
		}
	}
	if !pending {
		return nil
	}
	st, err := b.client.ReadStatus()
	if err != nil {
		return err
	}
	glog.Infof("keypad: status %s", st)
	data, err := msgs.StatusFrom(st, time.Now()).Encode()
	if err != nil {
		return err
	}
	b.queue.PubRetained(b.statusTopic, data)
	return nil
}

func main() {
	flag.Parse()
	conf := env.MustNewConfig()

	q, err := conf.NewMQTTQueue("keypad-bridge", "keypad/online")
	if err != nil {
		log.Fatalln(err)
	}
	bus, err := keypad.OpenBus(conf.I2CBus)
	if err != nil {
		log.Fatalln(err)
	}
	defer bus.Close()

	toController, fromController := conf.FrameTopics()
	rw := mqtt.NewReadWriter(q, fromController, toController)
	link := wire.NewLink(rw, wire.KeypadDialect).WithPeer(wire.ControllerDialect)
	link.Name = "mqtt"
	link.Timeout = conf.FrameTimeout
	link.Strict = conf.Strict
	// status frames reach the keypad on its own UART
	link.Handler = wire.HandleFrameFunc(func(ctx context.Context, f *wire.Frame) {
		glog.V(2).Infof("controller: %s", f)
	})

	b := &bridge{
		client:      keypad.NewClient(bus),
		link:        link,
		queue:       q,
		statusTopic: conf.MQTTTopic + "/keypad/status",
	}
	if conf.IRQPin >= 0 {
		b.irqCh = make(chan struct{}, 1)
		line, err := keypad.WatchIRQ(conf.GPIOChip, conf.IRQPin, b.irq)
		if err != nil {
			log.Fatalln(err)
		}
		defer line.Close()
	}

	runner := fx.NewRunner().HandleSignals().Go(q, rw, link, b)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
