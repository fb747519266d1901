package mqtt

import (
	"context"
	"io"

	"github.com/golang/glog"
)

// ReadWriter carries a frame byte stream over a pair of topics so a
// frame link can run through the broker.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh chan []byte
	done     chan struct{}
	pending  []byte
}

// NewReadWriter creates the ReadWriter.
func NewReadWriter(q *Queue, sub, pub string) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		SubTopic: sub,
		PubTopic: pub,
		packetCh: make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// Read implements io.Reader. It returns io.EOF once Run stopped and the
// received packets are drained.
func (p *ReadWriter) Read(b []byte) (int, error) {
	for len(p.pending) == 0 {
		select {
		case pkt := <-p.packetCh:
			p.pending = pkt
			continue
		default:
		}
		select {
		case pkt := <-p.packetCh:
			p.pending = pkt
		case <-p.done:
			return 0, io.EOF
		}
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (p *ReadWriter) Write(b []byte) (int, error) {
	token := p.Queue.Pub(p.PubTopic, append([]byte(nil), b...))
	token.Wait()
	if err := token.Error(); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Run implements Runnable.
func (p *ReadWriter) Run(ctx context.Context) error {
	sub := p.Queue.Sub(p.SubTopic, p.handleMsg)
	<-ctx.Done()
	sub.Close()
	close(p.done)
	return ctx.Err()
}

// handleMsg runs on the client's delivery goroutine and never blocks it.
func (p *ReadWriter) handleMsg(topic string, payload []byte) {
	select {
	case <-p.done:
		return
	default:
	}
	select {
	case p.packetCh <- payload:
	default:
		glog.Warningf("mqtt: packet dropped on %s, reader behind", topic)
	}
}
