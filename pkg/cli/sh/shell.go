// Package sh provides the interactive shell sending frames to the main
// controller as if it was a keypad.
package sh

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/fancylights/pkg/env"
	"github.com/robotalks/fancylights/pkg/serial"
	"github.com/robotalks/fancylights/pkg/wire"
	"github.com/robotalks/fancylights/pkg/wire/websocket"
)

// CommandTimeout limits the wait for a reply.
const CommandTimeout = time.Second

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Config *env.Config
	Conn   *Conn
}

// Conn is a running link to the controller.
type Conn struct {
	Ctx    context.Context
	Cancel func()
	Name   string
	Client *wire.Client
	Closer io.Closer
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool
	target     string

	// commands
	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&target, "connect", target, "Serial device or ws:// URL to connect on start.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// SendFrame sends a frame without waiting for a reply.
func SendFrame(c *ishell.Context, f wire.Frame) error {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	if err := s.Conn.Client.Send(f); err != nil {
		c.Err(err)
		return err
	}
	if s.Interactive {
		c.Println("OK")
	}
	return nil
}

// DoCommand sends a frame and waits for the reply with opcode reply.
func DoCommand(c *ishell.Context, f wire.Frame, reply wire.Opcode) (*wire.Frame, error) {
	s := ShellFrom(c)
	if s.Conn == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return nil, err
	}
	ctx, cancel := context.WithTimeout(s.Conn.Ctx, CommandTimeout)
	defer cancel()
	res, err := s.Conn.Client.Do(f, reply).Wait(ctx)
	if err != nil {
		if err == context.DeadlineExceeded {
			err = fmt.Errorf("command timeout")
		}
		c.Err(err)
		return nil, err
	}
	return res, nil
}

// PrintValue prints v in JSON or text output format.
func PrintValue(c *ishell.Context, v fmt.Stringer) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	c.Println(v.String())
}

// Connect opens a link to a serial device or a websocket URL.
func (s *Shell) Connect(addr string) error {
	var rw io.ReadWriteCloser
	link := &wire.Link{Name: addr, Dialect: wire.KeypadDialect, Peer: wire.ControllerDialect}
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		ws, err := websocket.Dial(addr, "http://localhost/")
		if err != nil {
			return err
		}
		rw = ws
	} else {
		conf := s.Config.SerialConfig(addr)
		conf.ReadTimeout = 100 * time.Millisecond
		port, err := serial.Open(conf)
		if err != nil {
			return err
		}
		rw = port
		link.ReadTimeout = true
	}
	link.ReadWriter = rw
	link.Timeout = s.Config.FrameTimeout
	link.Strict = s.Config.Strict

	conn := &Conn{Name: addr, Client: wire.NewClient(link), Closer: rw}
	conn.Ctx, conn.Cancel = context.WithCancel(context.Background())
	s.Disconnect()
	s.Conn = conn
	go func() {
		if err := conn.Client.Run(conn.Ctx); err != nil && err != context.Canceled {
			log.Printf("%s: %v", conn.Name, err)
		}
	}()
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", addr))
	return nil
}

// Disconnect disconnects current controller.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Cancel()
		s.Conn.Closer.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if target != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", target)
		}
		if err := s.Connect(target); err != nil {
			log.Fatalf("connect %q failed: %v", target, err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects the controller.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "DEVICE|URL",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			addr := s.Config.KeypadPort
			if len(c.Args) > 0 {
				addr = c.Args[0]
			}
			if addr == "" {
				c.Err(fmt.Errorf("DEVICE or URL required"))
				return
			}
			if err := s.Connect(addr); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects the controller.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(env.MustNewConfig()).Run(flag.Args()...)
}
