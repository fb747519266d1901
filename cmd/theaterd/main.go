package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/fancylights/pkg/controller"
	"github.com/robotalks/fancylights/pkg/env"
	fx "github.com/robotalks/fancylights/pkg/framework"
	"github.com/robotalks/fancylights/pkg/gpio"
	"github.com/robotalks/fancylights/pkg/led"
	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/projector"
	"github.com/robotalks/fancylights/pkg/serial"
	"github.com/robotalks/fancylights/pkg/settings"
	"github.com/robotalks/fancylights/pkg/wire"
	"github.com/robotalks/fancylights/pkg/wire/websocket"
)

const (
	lampPWMPeriod = 10 * time.Millisecond
	lampPWMSteps  = 32
)

func init() {
	env.SetupFlags()
}

func pins(lines gpio.Lines) []led.Pin {
	out := make([]led.Pin, len(lines))
	for n, line := range lines {
		out[n] = line
	}
	return out
}

func openLink(conf *env.Config, device string, d, peer *wire.Dialect) *wire.Link {
	sc := conf.SerialConfig(device)
	sc.ReadTimeout = 100 * time.Millisecond
	port, err := serial.Open(sc)
	if err != nil {
		log.Fatalln(err)
	}
	link := wire.NewLink(port, d).WithPeer(peer)
	link.Name = device
	link.ReadTimeout = true
	link.Timeout = conf.FrameTimeout
	link.Strict = conf.Strict
	return link
}

func openStrip(conf *env.Config) led.Strip {
	if conf.StripPort == "" {
		return nil
	}
	port, err := serial.Open(conf.SerialConfig(conf.StripPort))
	if err != nil {
		log.Fatalln(err)
	}
	strip := led.NewSerialStrip(port, nil)
	if conf.StripPowerPin >= 0 {
		line, err := gpio.OpenOutput(conf.GPIOChip, conf.StripPowerPin)
		if err != nil {
			log.Fatalln(err)
		}
		strip.Power = line
	}
	return strip
}

func openPinPair(conf *env.Config, offsets []int, what string) (up, down projector.Pin) {
	if len(offsets) != 2 {
		log.Fatalf("%s: expect 2 GPIO lines (up,down), got %d", what, len(offsets))
	}
	lines, err := gpio.OpenOutputs(conf.GPIOChip, offsets...)
	if err != nil {
		log.Fatalln(err)
	}
	return lines[0], lines[1]
}

func main() {
	flag.Parse()
	conf := env.MustNewConfig()
	loop := fx.NewLoop()

	store, err := settings.OpenFileStore(conf.SettingsPath)
	if err != nil {
		log.Fatalln(err)
	}

	var lamps led.Lamps
	if len(conf.LampPins) > 0 {
		lines, err := gpio.OpenOutputs(conf.GPIOChip, conf.LampPins...)
		if err != nil {
			log.Fatalln(err)
		}
		defer lines.Close()
		softLamps := led.NewSoftLamps(lampPWMPeriod, lampPWMSteps, pins(lines)...)
		loop.AddRunnable(fx.NamedRun("lamps", softLamps))
		lamps = softLamps
	}
	leds := led.NewDriver(settings.New(store), openStrip(conf), lamps)

	var relays projector.Relays
	if len(conf.ScreenPins) > 0 {
		up, down := openPinPair(conf, conf.ScreenPins, "screen")
		relays = &projector.PinRelays{Up: up, Down: down}
	}
	var motor projector.Motor
	if len(conf.LiftPins) > 0 {
		up, down := openPinPair(conf, conf.LiftPins, "lift")
		motor = &projector.PinMotor{Up: up, Down: down}
	}
	proj := projector.New(relays, motor, nil)
	if conf.ProjectorPort != "" {
		link := openLink(conf, conf.ProjectorPort, wire.ProjectorDialect, wire.ProjectorDialect).
			WithHandler(proj)
		proj.Board = link
		loop.AddRunnable(fx.NamedRun("projector", link))
	}

	keypads := wire.NewMux()
	ctl := controller.New(leds, proj, keypads)
	if conf.KeypadPort != "" {
		link := openLink(conf, conf.KeypadPort, wire.ControllerDialect, wire.KeypadDialect).
			WithHandler(ctl.LinkHandler("Kbd"))
		keypads.Add(link)
		loop.AddRunnable(fx.NamedRun("keypad", link))
	}

	if conf.ListenAddr != "" {
		ws := &websocket.Server{
			Dialect:      wire.ControllerDialect,
			Peer:         wire.KeypadDialect,
			OnConnect:    func(link *wire.Link) { keypads.Add(link) },
			OnDisconnect: func(link *wire.Link) { keypads.Remove(link) },
		}
		loop.AddRunnable(fx.NamedRun("websocket", fx.RunnableFunc(func(ctx context.Context) error {
			mux := http.NewServeMux()
			ws.Handler = ctl.LinkHandler("ws")
			mux.Handle("/link", ws)
			srv := &http.Server{
				Addr:        conf.ListenAddr,
				Handler:     mux,
				BaseContext: func(net.Listener) context.Context { return ctx },
			}
			glog.Infof("websocket links on %s/link", conf.ListenAddr)
			return fx.RunWithContextCancel(ctx, func() { srv.Close() }, srv.ListenAndServe)
		})))
	}

	if conf.MQTTBrokerURL != "" {
		q, err := conf.NewMQTTQueue("theaterd", "online")
		if err != nil {
			log.Fatalln(err)
		}
		loop.Add(controller.NewBridge(q, conf.MQTTTopic, ctl))

		// keypads bridged through the broker
		fromKeypad, toKeypad := conf.FrameTopics()
		rw := mqtt.NewReadWriter(q, fromKeypad, toKeypad)
		link := wire.NewLink(rw, wire.ControllerDialect).
			WithPeer(wire.KeypadDialect).
			WithHandler(ctl.LinkHandler("mqtt-kbd"))
		link.Name = "mqtt"
		link.Timeout = conf.FrameTimeout
		link.Strict = conf.Strict
		keypads.Add(link)
		loop.AddRunnable(fx.NamedRun("mqtt-rw", rw), fx.NamedRun("mqtt-link", link))
	}

	if err := ctl.Begin(); err != nil {
		log.Fatalln(err)
	}
	loop.Add(ctl)

	runner := fx.NewRunner().HandleSignals().Go(loop)
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
