package wire

// Parser collects received bytes into frames.
type Parser struct {
	Dialect *Dialect
	// Strict makes a header byte received mid-frame start a new frame.
	// By default payload bytes are never checked for the header marker.
	Strict bool

	buf [BufferSize]byte
	len int
	exp int
}

// ParseEvent reports what happened to the receive buffer in one step.
type ParseEvent int

const (
	// EventNone indicates the byte was accepted.
	EventNone ParseEvent = iota
	// EventDropped indicates a byte arrived before any header byte.
	EventDropped
	// EventUnknownOpcode indicates a header byte carried an unknown opcode
	// and the buffer was reset.
	EventUnknownOpcode
	// EventRestart indicates a partial frame was discarded by a new header
	// byte in strict mode.
	EventRestart
	// EventTimeout indicates a partial frame was abandoned.
	EventTimeout
)

var parseEventNames = []string{"none", "dropped", "unknown-opcode", "restart", "timeout"}

// String implements fmt.Stringer.
func (e ParseEvent) String() string {
	if int(e) < len(parseEventNames) {
		return parseEventNames[e]
	}
	return "invalid"
}

// TimerAction defines what to do with timer.
type TimerAction int

const (
	// TimerNoChange indicates keep the timer as-is.
	TimerNoChange TimerAction = iota
	// TimerRestart to restart the timer.
	TimerRestart
	// TimerStop to stop/cancel the timer.
	TimerStop
)

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	Event     ParseEvent
	Receiving bool
	Frame     *Frame
}

// WhatAboutTimer decides what to do with the frame timer.
func (r ParseResult) WhatAboutTimer() TimerAction {
	if r.Receiving {
		return TimerRestart
	}
	return TimerStop
}

// NewParser creates a parser for the dialect.
func NewParser(d *Dialect) *Parser {
	return &Parser{Dialect: d}
}

// Receiving indicates a frame has started but not completed.
func (p *Parser) Receiving() bool {
	return p.len > 0
}

// Buffered returns the bytes of the partial frame.
func (p *Parser) Buffered() []byte {
	return p.buf[:p.len]
}

// Reset discards any partial frame.
func (p *Parser) Reset() {
	p.len, p.exp = 0, 0
}

// Timeout notifies the parser timer expires.
func (p *Parser) Timeout() (pr ParseResult) {
	if p.len > 0 {
		p.Reset()
		pr.Event = EventTimeout
	}
	return
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	d := p.dialect()
	if p.len > 0 && p.Strict && d.IsHeader(b) {
		p.Reset()
		pr.Event = EventRestart
	}
	if p.len == 0 {
		if !d.IsHeader(b) {
			if pr.Event == EventNone {
				pr.Event = EventDropped
			}
			return
		}
		n, ok := d.PayloadLen(Opcode(b &^ d.Header))
		if !ok || n+1 > BufferSize {
			pr.Event = EventUnknownOpcode
			return
		}
		p.exp = n + 1
	}
	p.buf[p.len] = b
	p.len++
	if p.len >= p.exp {
		pr.Frame = p.frameReady(d.Header)
		return
	}
	pr.Receiving = true
	return
}

func (p *Parser) frameReady(header byte) *Frame {
	f := &Frame{Opcode: Opcode(p.buf[0] &^ header)}
	if p.len > 1 {
		f.Payload = make([]byte, p.len-1)
		copy(f.Payload, p.buf[1:p.len])
	}
	p.Reset()
	return f
}

func (p *Parser) dialect() *Dialect {
	if p.Dialect != nil {
		return p.Dialect
	}
	return ControllerDialect
}
