package wire

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"
)

// Sender sends frames to a peer.
type Sender interface {
	Send(Frame) error
}

// FrameHandler is called when a frame is received.
type FrameHandler interface {
	HandleFrame(context.Context, *Frame)
}

// HandleFrameFunc is func type of FrameHandler.
type HandleFrameFunc func(context.Context, *Frame)

// HandleFrame implements FrameHandler.
func (f HandleFrameFunc) HandleFrame(ctx context.Context, frame *Frame) {
	f(ctx, frame)
}

// EventNotifier is called when the parser discards bytes.
type EventNotifier interface {
	ParseEvent(ctx context.Context, ev ParseEvent, b byte)
}

// ParseEventFunc is func type of EventNotifier.
type ParseEventFunc func(context.Context, ParseEvent, byte)

// ParseEvent implements EventNotifier.
func (f ParseEventFunc) ParseEvent(ctx context.Context, ev ParseEvent, b byte) {
	f(ctx, ev, b)
}

// Stats counts link activity.
type Stats struct {
	Received uint64
	Sent     uint64
	Dropped  uint64
	Unknown  uint64
	Restarts uint64
	Timeouts uint64
}

// Link sends/receives frames over a byte stream.
type Link struct {
	Name       string
	ReadWriter io.ReadWriter
	// Dialect of received frames.
	Dialect *Dialect
	// Peer is the dialect of the other side, used to validate sent frames.
	// Frames are sent unchecked with the receive header when nil.
	Peer     *Dialect
	Handler  FrameHandler
	Notifier EventNotifier
	Strict   bool
	// Timeout abandons a partial frame, disabled when zero.
	Timeout     time.Duration
	ReadTimeout bool // set to true if ReadWriter already supports timeout with Read

	lock    sync.Mutex
	stats   Stats
	timer   <-chan time.Time
	parser  Parser
	running bool
}

// NewLink creates a link receiving frames of dialect d.
func NewLink(rw io.ReadWriter, d *Dialect) *Link {
	return &Link{ReadWriter: rw, Dialect: d}
}

// WithPeer sets the dialect of the other side.
func (l *Link) WithPeer(d *Dialect) *Link {
	l.Peer = d
	return l
}

// WithHandler sets the frame handler.
func (l *Link) WithHandler(h FrameHandler) *Link {
	l.Handler = h
	return l
}

// Stats returns a copy of the counters.
func (l *Link) Stats() Stats {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.stats
}

// Running indicates Run is active.
func (l *Link) Running() bool {
	l.lock.Lock()
	defer l.lock.Unlock()
	return l.running
}

// Send sends a frame.
func (l *Link) Send(f Frame) error {
	var data []byte
	if l.Peer != nil {
		encoded, err := l.Peer.Encode(f)
		if err != nil {
			return err
		}
		data = encoded
	} else {
		data = f.appendTo(nil, l.header())
	}
	l.lock.Lock()
	defer l.lock.Unlock()
	if l.ReadWriter == nil {
		return ErrNotReady
	}
	if _, err := l.ReadWriter.Write(data); err != nil {
		return err
	}
	l.stats.Sent++
	glog.V(2).Infof("%s: sent %s", l.name(), f)
	return nil
}

// SendCommand sends a frame built from opcode and payload.
func (l *Link) SendCommand(op Opcode, payload ...byte) error {
	return l.Send(NewFrame(op, payload...))
}

// Run processes the link in the background.
func (l *Link) Run(ctx context.Context) error {
	l.lock.Lock()
	if l.ReadWriter == nil {
		l.lock.Unlock()
		return ErrNotReady
	}
	l.parser = Parser{Dialect: l.Dialect, Strict: l.Strict}
	l.running = true
	l.lock.Unlock()
	defer func() {
		l.lock.Lock()
		l.running = false
		l.lock.Unlock()
	}()

	if l.ReadTimeout {
		buf := make([]byte, 1)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-l.timer:
				l.applyParseResult(ctx, l.parser.Timeout(), 0)
			default:
				n, err := l.ReadWriter.Read(buf)
				if err != nil && !os.IsTimeout(err) {
					return err
				}
				if n > 0 {
					l.applyParseResult(ctx, l.parser.Parse(buf[0]), buf[0])
				}
			}
		}
	}

	byteCh, errCh := make(chan byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go l.readLoop(subCtx, byteCh, errCh)
	for {
		select {
		case b := <-byteCh:
			l.applyParseResult(ctx, l.parser.Parse(b), b)
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		case <-l.timer:
			l.applyParseResult(ctx, l.parser.Timeout(), 0)
		}
	}
}

func (l *Link) readLoop(ctx context.Context, byteCh chan byte, errCh chan error) {
	buf := make([]byte, 64)
	for {
		n, err := l.ReadWriter.Read(buf)
		for _, b := range buf[:n] {
			select {
			case byteCh <- b:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}

func (l *Link) applyParseResult(ctx context.Context, pr ParseResult, b byte) {
	l.lock.Lock()
	switch pr.Event {
	case EventDropped:
		l.stats.Dropped++
	case EventUnknownOpcode:
		l.stats.Unknown++
	case EventRestart:
		l.stats.Restarts++
	case EventTimeout:
		l.stats.Timeouts++
	}
	if pr.Frame != nil {
		l.stats.Received++
	}
	l.lock.Unlock()

	if l.Timeout > 0 {
		switch pr.WhatAboutTimer() {
		case TimerRestart:
			l.timer = time.After(l.Timeout)
		case TimerStop:
			l.timer = nil
		}
	}

	if pr.Event != EventNone {
		glog.V(2).Infof("%s: %s 0x%02x", l.name(), pr.Event, b)
		if n := l.Notifier; n != nil {
			n.ParseEvent(ctx, pr.Event, b)
		}
	}
	if pr.Frame != nil {
		glog.V(2).Infof("%s: received %s", l.name(), pr.Frame)
		if h := l.Handler; h != nil {
			h.HandleFrame(ctx, pr.Frame)
		}
	}
}

func (l *Link) header() byte {
	if l.Dialect != nil {
		return l.Dialect.Header
	}
	return Header
}

func (l *Link) name() string {
	if l.Name != "" {
		return l.Name
	}
	if l.Dialect != nil {
		return l.Dialect.Name
	}
	return "link"
}
