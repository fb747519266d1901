package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/robotalks/fancylights/pkg/env"
	fx "github.com/robotalks/fancylights/pkg/framework"
	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/msgs"
	"github.com/robotalks/fancylights/pkg/serial"
	"github.com/robotalks/fancylights/pkg/wire"
)

var (
	device  string
	dialect = wire.ControllerDialect.Name
)

func init() {
	env.SetupFlags()
	flag.StringVar(&device, "serial", device, "Decode frames from serial device instead of MQTT.")
	flag.StringVar(&dialect, "dialect", dialect, "Dialect of frames received on serial device.")
}

func logFrame(source string) wire.FrameHandler {
	return wire.HandleFrameFunc(func(ctx context.Context, f *wire.Frame) {
		if f.Opcode == wire.OpReadStatus {
			if st, err := wire.ParseStatus(f.Payload); err == nil {
				log.Printf("%s: [%s] %s", source, f.Opcode, st)
				return
			}
		}
		log.Printf("%s: %s", source, f)
	})
}

func logEvent(source string) wire.EventNotifier {
	return wire.ParseEventFunc(func(ctx context.Context, ev wire.ParseEvent, b byte) {
		log.Printf("%s: %s 0x%02x", source, ev, b)
	})
}

func monitorSerial(conf *env.Config) {
	d, err := wire.DialectByName(dialect)
	if err != nil {
		log.Fatalln(err)
	}
	sc := conf.SerialConfig(device)
	sc.ReadTimeout = 100 * time.Millisecond
	port, err := serial.Open(sc)
	if err != nil {
		log.Fatalln(err)
	}
	defer port.Close()
	link := wire.NewLink(port, d).WithHandler(logFrame(device))
	link.Notifier = logEvent(device)
	link.ReadTimeout = true
	link.Timeout = conf.FrameTimeout
	link.Strict = conf.Strict
	if err := fx.NewRunner().HandleSignals().Go(link).Wait(); err != nil {
		log.Fatalln(err)
	}
}

func monitorMQTT(conf *env.Config) {
	q, err := conf.NewMQTTQueue("framemon", "")
	if err != nil {
		log.Fatalln(err)
	}
	fromKeypad, fromController := conf.FrameTopics()
	parsers := map[string]*wire.Parser{
		fromKeypad:     wire.NewParser(wire.ControllerDialect),
		fromController: wire.NewParser(wire.KeypadDialect),
	}
	q.Sub(conf.MQTTTopic+"/#", mqtt.Handler(func(topic string, payload []byte) {
		if parser := parsers[topic]; parser != nil {
			for _, b := range payload {
				pr := parser.Parse(b)
				if pr.Event != wire.EventNone {
					log.Printf("%s: %s 0x%02x", topic, pr.Event, b)
				}
				if pr.Frame != nil {
					logFrame(topic).HandleFrame(context.Background(), pr.Frame)
				}
			}
			return
		}
		if strings.HasSuffix(topic, "/status") {
			st, err := msgs.DecodeStatus(payload)
			if err != nil {
				log.Printf("%s: bad status: %v", topic, err)
				return
			}
			log.Printf("%s: [%s] %s", topic, st.Time().Format(time.RFC3339), st)
			return
		}
		log.Printf("%s: %s", topic, string(payload))
	}))
	if err := fx.NewRunner().HandleSignals().Go(q).Wait(); err != nil {
		log.Fatalln(err)
	}
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	conf := env.MustNewConfig()
	if device != "" {
		monitorSerial(conf)
		return
	}
	monitorMQTT(conf)
}
