package keypad

import (
	"fmt"

	"github.com/d2r2/go-i2c"

	"github.com/robotalks/fancylights/pkg/wire"
)

// Bus is an I2C connection to one slave device.
type Bus interface {
	WriteBytes(buf []byte) (int, error)
	ReadBytes(buf []byte) (int, error)
}

// OpenBus opens the keypad on the I2C bus number.
func OpenBus(bus int) (*i2c.I2C, error) {
	return i2c.NewI2C(I2CAddr, bus)
}

// Client is the I2C master side of the keypad.
type Client struct {
	Bus Bus
}

// NewClient creates a Client.
func NewClient(bus Bus) *Client {
	return &Client{Bus: bus}
}

// Send forwards a command through the keypad to the controller.
func (c *Client) Send(f wire.Frame) error {
	buf := append([]byte{byte(f.Opcode)}, f.Payload...)
	_, err := c.Bus.WriteBytes(buf)
	return err
}

// RequestStatus asks the keypad to fetch the controller status.
func (c *Client) RequestStatus() error {
	return c.Send(wire.NewFrame(wire.OpRequestStatus))
}

// ReadCommands fetches the frames queued by keypad buttons. pending
// reports a new status is available.
func (c *Client) ReadCommands() (frames []wire.Frame, pending bool, err error) {
	if _, err = c.Bus.WriteBytes([]byte{byte(wire.OpReadCommands)}); err != nil {
		return
	}
	buf := make([]byte, 1+wire.BufferSize)
	if _, err = c.Bus.ReadBytes(buf); err != nil {
		return
	}
	pending = buf[0]&StatusPending != 0
	n := int(buf[0] &^ StatusPending)
	if n > wire.BufferSize {
		return nil, pending, fmt.Errorf("keypad: invalid queue length %d", n)
	}
	parser := wire.NewParser(wire.ControllerDialect)
	for _, b := range buf[1 : 1+n] {
		if pr := parser.Parse(b); pr.Frame != nil {
			frames = append(frames, *pr.Frame)
		}
	}
	return
}

// ReadStatus fetches the controller status known to the keypad.
func (c *Client) ReadStatus() (wire.Status, error) {
	if _, err := c.Bus.WriteBytes([]byte{byte(wire.OpReadStatus)}); err != nil {
		return wire.Status{}, err
	}
	buf := make([]byte, wire.StatusSize)
	if _, err := c.Bus.ReadBytes(buf); err != nil {
		return wire.Status{}, err
	}
	return wire.ParseStatus(buf)
}
