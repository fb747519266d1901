// Package env provides the common configuration of the fancylights
// commands: defaults, environment overrides, flags and config files.
package env

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"

	"github.com/robotalks/fancylights/pkg/mqtt"
	"github.com/robotalks/fancylights/pkg/serial"
)

// AppID is used to derive the machine specific client IDs.
const AppID = "fancylights"

// Config provides common options for all commands.
type Config struct {
	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string `toml:"mqtt_url"`
	// MQTTTopic is the base topic of the light states.
	MQTTTopic string `toml:"mqtt_topic"`
	// ClientID overrides the machine derived MQTT client ID.
	ClientID string `toml:"client_id"`

	KeypadPort    string `toml:"keypad_port"`
	ProjectorPort string `toml:"projector_port"`
	Baud          int    `toml:"baud"`

	// ListenAddr serves websocket frame links when set.
	ListenAddr string `toml:"listen"`

	SettingsPath string `toml:"settings"`

	// StripPort is the serial port of the LED strip controller.
	StripPort     string `toml:"strip_port"`
	StripPowerPin int    `toml:"strip_power_pin"`

	GPIOChip string `toml:"gpio_chip"`
	LampPins []int  `toml:"lamp_pins"`
	// ScreenPins and LiftPins are the up and down lines.
	ScreenPins []int `toml:"screen_pins"`
	LiftPins   []int `toml:"lift_pins"`

	// Keypad matrix and wall switch lines.
	KeypadRows []int `toml:"keypad_rows"`
	KeypadCols []int `toml:"keypad_cols"`
	SwitchPin  int   `toml:"switch_pin"`

	I2CBus int `toml:"i2c_bus"`
	IRQPin int `toml:"irq_pin"`

	FrameTimeout time.Duration `toml:"frame_timeout"`
	Strict       bool          `toml:"strict"`
}

var defaultConfig = Config{
	MQTTTopic:     "leds",
	Baud:          serial.DefaultBaud,
	SettingsPath:  "fancylights.toml",
	StripPowerPin: -1,
	GPIOChip:      "gpiochip0",
	SwitchPin:     -1,
	I2CBus:        1,
	IRQPin:        -1,
}

var configFile string

func init() {
	if val := os.Getenv("FANCY_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("FANCY_KEYPAD_PORT"); val != "" {
		defaultConfig.KeypadPort = val
	}
	if val := os.Getenv("FANCY_PROJECTOR_PORT"); val != "" {
		defaultConfig.ProjectorPort = val
	}
	if val := os.Getenv("FANCY_SETTINGS"); val != "" {
		defaultConfig.SettingsPath = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "TOML config file")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.MQTTTopic, "topic", defaultConfig.MQTTTopic, "MQTT base topic")
	flag.StringVar(&defaultConfig.ClientID, "client-id", defaultConfig.ClientID, "MQTT client ID")
	flag.StringVar(&defaultConfig.KeypadPort, "keypad", defaultConfig.KeypadPort, "Keypad serial port")
	flag.StringVar(&defaultConfig.ProjectorPort, "projector", defaultConfig.ProjectorPort, "Projector board serial port")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate")
	flag.StringVar(&defaultConfig.ListenAddr, "listen", defaultConfig.ListenAddr, "Websocket link listen address")
	flag.StringVar(&defaultConfig.SettingsPath, "settings", defaultConfig.SettingsPath, "Settings file")
	flag.StringVar(&defaultConfig.GPIOChip, "gpio-chip", defaultConfig.GPIOChip, "GPIO chip")
	flag.StringVar(&defaultConfig.StripPort, "strip", defaultConfig.StripPort, "LED strip controller serial port")
	flag.IntVar(&defaultConfig.StripPowerPin, "strip-power-pin", defaultConfig.StripPowerPin, "GPIO line of the strip power supply")
	flag.Var((*intList)(&defaultConfig.LampPins), "lamp-pins", "Comma separated GPIO lines of the lamps")
	flag.Var((*intList)(&defaultConfig.ScreenPins), "screen-pins", "GPIO lines of the screen relays (up,down)")
	flag.Var((*intList)(&defaultConfig.LiftPins), "lift-pins", "GPIO lines of the lift motor (up,down)")
	flag.Var((*intList)(&defaultConfig.KeypadRows), "keypad-rows", "GPIO lines of the keypad matrix rows")
	flag.Var((*intList)(&defaultConfig.KeypadCols), "keypad-cols", "GPIO lines of the keypad matrix columns")
	flag.IntVar(&defaultConfig.SwitchPin, "switch-pin", defaultConfig.SwitchPin, "GPIO line of the wall switch")
	flag.IntVar(&defaultConfig.I2CBus, "i2c-bus", defaultConfig.I2CBus, "I2C bus number")
	flag.IntVar(&defaultConfig.IRQPin, "irq-pin", defaultConfig.IRQPin, "GPIO line of the keypad IRQ")
	flag.DurationVar(&defaultConfig.FrameTimeout, "frame-timeout", defaultConfig.FrameTimeout, "Drop incomplete frames after timeout")
	flag.BoolVar(&defaultConfig.Strict, "strict", defaultConfig.Strict, "Reject payload bytes with the header bit")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations. The config file
// given with -config overlays the defaults, flags set explicitly on the
// command line win over the file.
func NewConfig() (*Config, error) {
	if configFile != "" {
		explicit := make(map[string]string)
		flag.Visit(func(f *flag.Flag) {
			explicit[f.Name] = f.Value.String()
		})
		if err := defaultConfig.LoadFile(configFile); err != nil {
			return nil, err
		}
		for name, val := range explicit {
			if err := flag.Set(name, val); err != nil {
				return nil, err
			}
		}
	}
	conf := defaultConfig
	return &conf, nil
}

// MustNewConfig creates Config and fails on error.
func MustNewConfig() *Config {
	conf, err := NewConfig()
	if err != nil {
		log.Fatalln(err)
	}
	return conf
}

// LoadFile overlays the values present in a TOML file.
func (c *Config) LoadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("config %s: %v", path, err)
	}
	return nil
}

// MachineID retrieves an ID identifying the machine, stable for this
// application.
func MachineID() string {
	id, err := machineid.ProtectedID(AppID)
	if err != nil {
		host, _ := os.Hostname()
		return host
	}
	return id
}

// MQTTClientID returns the configured client ID or one derived from the
// command name and the machine.
func (c *Config) MQTTClientID(name string) string {
	if c.ClientID != "" {
		return c.ClientID
	}
	id := MachineID()
	if len(id) > 12 {
		id = id[:12]
	}
	return AppID + ":" + name + ":" + id
}

// NewMQTTQueue creates the MQTT queue for the command name. The
// availability topic, relative to the base topic, is maintained with a last
// will unless empty.
func (c *Config) NewMQTTQueue(name, availability string) (*mqtt.Queue, error) {
	if c.MQTTBrokerURL == "" {
		return nil, fmt.Errorf("MQTT broker URL not specified")
	}
	opts, prefix, err := mqtt.ClientOptionsFromURL(c.MQTTBrokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID(c.MQTTClientID(name))
	}
	if availability != "" {
		availability = c.MQTTTopic + "/" + availability
		opts.SetWill(prefix+availability, "false", 1, true)
	}
	q := mqtt.NewQueue(opts, prefix)
	q.Availability = availability
	return q, nil
}

// FrameTopics returns the topics carrying frame links through the broker:
// frames sent by keypads and frames sent by the controller.
func (c *Config) FrameTopics() (keypad, controller string) {
	return c.MQTTTopic + "/frames/keypad", c.MQTTTopic + "/frames/controller"
}

// SerialConfig returns the serial configuration of a port.
func (c *Config) SerialConfig(device string) serial.Config {
	return serial.Config{Device: device, Baud: c.Baud}
}

type intList []int

func (l *intList) String() string {
	strs := make([]string, len(*l))
	for n, v := range *l {
		strs[n] = strconv.Itoa(v)
	}
	return strings.Join(strs, ",")
}

func (l *intList) Set(s string) error {
	var vals []int
	for _, str := range strings.Split(s, ",") {
		if str = strings.TrimSpace(str); str == "" {
			continue
		}
		v, err := strconv.Atoi(str)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}
	*l = vals
	return nil
}
