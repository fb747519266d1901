package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theater.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mqtt_url = "mqtt://broker:1883/home/"
keypad_port = "/dev/ttyUSB1"
lamp_pins = [17, 27]
frame_timeout = "50ms"
strict = true
`), 0644))
	conf := Config{MQTTTopic: "leds", Baud: 9600}
	require.NoError(t, conf.LoadFile(path))
	require.Equal(t, "mqtt://broker:1883/home/", conf.MQTTBrokerURL)
	require.Equal(t, "/dev/ttyUSB1", conf.KeypadPort)
	require.Equal(t, []int{17, 27}, conf.LampPins)
	require.Equal(t, 50*time.Millisecond, conf.FrameTimeout)
	require.True(t, conf.Strict)
	require.Equal(t, "leds", conf.MQTTTopic)
	require.Equal(t, 9600, conf.Baud)

	require.Error(t, conf.LoadFile(filepath.Join(t.TempDir(), "missing.toml")))
}

func TestMQTTClientID(t *testing.T) {
	conf := Config{ClientID: "fixed"}
	require.Equal(t, "fixed", conf.MQTTClientID("theaterd"))
	conf.ClientID = ""
	require.Contains(t, conf.MQTTClientID("theaterd"), AppID+":theaterd:")
}

func TestIntList(t *testing.T) {
	var l intList
	require.NoError(t, l.Set("4, 5,6"))
	require.Equal(t, intList{4, 5, 6}, l)
	require.Equal(t, "4,5,6", l.String())
	require.Error(t, l.Set("x"))
}

func TestNewMQTTQueue(t *testing.T) {
	conf := Config{MQTTTopic: "leds"}
	_, err := conf.NewMQTTQueue("test", "online")
	require.Error(t, err)
	conf.MQTTBrokerURL = "mqtt://localhost:1883/home/"
	q, err := conf.NewMQTTQueue("test", "online")
	require.NoError(t, err)
	require.Equal(t, "home/", q.TopicPrefix)
	require.Equal(t, "leds/online", q.Availability)

	q, err = conf.NewMQTTQueue("test", "")
	require.NoError(t, err)
	require.Empty(t, q.Availability)
}

func TestFrameTopics(t *testing.T) {
	conf := Config{MQTTTopic: "leds"}
	keypad, controller := conf.FrameTopics()
	require.Equal(t, "leds/frames/keypad", keypad)
	require.Equal(t, "leds/frames/controller", controller)
}
