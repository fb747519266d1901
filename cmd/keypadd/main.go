package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"time"

	"github.com/robotalks/fancylights/pkg/env"
	fx "github.com/robotalks/fancylights/pkg/framework"
	"github.com/robotalks/fancylights/pkg/gpio"
	"github.com/robotalks/fancylights/pkg/keypad"
	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/serial"
	"github.com/robotalks/fancylights/pkg/wire"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	conf := env.MustNewConfig()
	runner := fx.NewRunner().HandleSignals()

	link := wire.NewLink(nil, wire.KeypadDialect).WithPeer(wire.ControllerDialect)
	link.Timeout = conf.FrameTimeout
	link.Strict = conf.Strict
	switch {
	case conf.KeypadPort != "":
		sc := conf.SerialConfig(conf.KeypadPort)
		sc.ReadTimeout = 100 * time.Millisecond
		port, err := serial.Open(sc)
		if err != nil {
			log.Fatalln(err)
		}
		defer port.Close()
		link.Name = conf.KeypadPort
		link.ReadWriter = port
		link.ReadTimeout = true
	case conf.MQTTBrokerURL != "":
		q, err := conf.NewMQTTQueue("keypadd", "")
		if err != nil {
			log.Fatalln(err)
		}
		toController, fromController := conf.FrameTopics()
		rw := mqtt.NewReadWriter(q, fromController, toController)
		link.Name = "mqtt"
		link.ReadWriter = rw
		runner.Go(q, rw)
	default:
		log.Fatalln("keypad port or MQTT broker URL required")
	}

	var irq keypad.Pin
	if conf.IRQPin >= 0 {
		line, err := gpio.OpenOutput(conf.GPIOChip, conf.IRQPin)
		if err != nil {
			log.Fatalln(err)
		}
		defer line.Close()
		irq = line
	}
	enc := keypad.NewEncoder(link, irq)
	link.Handler = enc

	poller := &keypad.Poller{Encoder: enc}
	if len(conf.KeypadRows) > 0 {
		matrix, err := keypad.OpenGPIOMatrix(conf.GPIOChip, conf.KeypadRows, conf.KeypadCols)
		if err != nil {
			log.Fatalln(err)
		}
		defer matrix.Close()
		poller.Scanner = keypad.NewScanner(matrix, func(btn int, long bool) {
			if err := enc.PressButton(btn, long); err != nil {
				log.Printf("button %d: %v", btn, err)
			}
		})
	}
	if conf.SwitchPin >= 0 {
		line, err := gpio.OpenInput(conf.GPIOChip, conf.SwitchPin)
		if err != nil {
			log.Fatalln(err)
		}
		defer line.Close()
		poller.Switch = line
	}

	runner.Go(link, poller)
	if err := enc.Begin(); err != nil {
		log.Printf("request status: %v", err)
	}
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
