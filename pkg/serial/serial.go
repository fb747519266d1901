// Package serial opens the UART links to keypads and the projector board.
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"
)

// DefaultBaud is the speed of all firmware UART links.
const DefaultBaud = 9600

// Config configures a serial port.
type Config struct {
	// Device path, e.g. /dev/ttyUSB0.
	Device string
	Baud   int
	// ReadTimeout makes Read return without data after the timeout.
	// Zero blocks.
	ReadTimeout time.Duration
}

// Port is an open serial port.
type Port struct {
	port   *serial.Port
	config Config
}

// Open opens a serial port.
func Open(config Config) (*Port, error) {
	if config.Device == "" {
		return nil, errors.New("serial: device not specified")
	}
	if config.Baud == 0 {
		config.Baud = DefaultBaud
	}
	port, err := serial.OpenPort(&serial.Config{
		Name:        config.Device,
		Baud:        config.Baud,
		ReadTimeout: config.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %v", config.Device, err)
	}
	return &Port{port: port, config: config}, nil
}

// Config returns the configuration the port was opened with.
func (p *Port) Config() Config {
	return p.config
}

// Read implements io.Reader. A read timing out returns no data and no
// error.
func (p *Port) Read(b []byte) (int, error) {
	n, err := p.port.Read(b)
	if err == io.EOF && p.config.ReadTimeout > 0 {
		err = nil
	}
	return n, err
}

// Write implements io.Writer.
func (p *Port) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Flush discards unread input and unsent output.
func (p *Port) Flush() error {
	return p.port.Flush()
}

// Close implements io.Closer.
func (p *Port) Close() error {
	return p.port.Close()
}
