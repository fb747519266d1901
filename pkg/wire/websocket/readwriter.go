// Package websocket carries frame links over websocket connections.
// Each written chunk is sent as one binary message.
package websocket

import (
	"context"
	"io"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/fancylights/pkg/wire"
)

// ReadWriter implements io.ReadWriter on a websocket connection.
type ReadWriter struct {
	Conn *websocket.Conn

	pending []byte
}

// New wraps websocket.Conn.
func New(conn *websocket.Conn) *ReadWriter {
	return &ReadWriter{Conn: conn}
}

// Dial connects to a websocket frame endpoint.
func Dial(url, origin string) (*ReadWriter, error) {
	conn, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, err
	}
	return New(conn), nil
}

// Read implements io.Reader.
func (p *ReadWriter) Read(b []byte) (int, error) {
	for len(p.pending) == 0 {
		if err := websocket.Message.Receive(p.Conn, &p.pending); err != nil {
			return 0, err
		}
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

// Write implements io.Writer.
func (p *ReadWriter) Write(b []byte) (int, error) {
	if err := websocket.Message.Send(p.Conn, b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// Close implements io.Closer.
func (p *ReadWriter) Close() error {
	return p.Conn.Close()
}

// LinkFunc is notified about links of connected clients.
type LinkFunc func(link *wire.Link)

// Server accepts frame links from websocket clients.
type Server struct {
	Dialect      *wire.Dialect
	Peer         *wire.Dialect
	Handler      wire.FrameHandler
	OnConnect    LinkFunc
	OnDisconnect LinkFunc
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(s.serveConn).ServeHTTP(w, r)
}

func (s *Server) serveConn(conn *websocket.Conn) {
	rw := New(conn)
	defer rw.Close()
	link := wire.NewLink(rw, s.Dialect).WithPeer(s.Peer).WithHandler(s.Handler)
	link.Name = "ws:" + conn.Request().RemoteAddr
	glog.Infof("%s: connected", link.Name)
	if s.OnConnect != nil {
		s.OnConnect(link)
	}
	err := link.Run(conn.Request().Context())
	if s.OnDisconnect != nil {
		s.OnDisconnect(link)
	}
	if err != nil && err != io.EOF && err != context.Canceled {
		glog.Warningf("%s: %v", link.Name, err)
	}
	glog.Infof("%s: disconnected", link.Name)
}
