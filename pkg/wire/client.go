package wire

import (
	"context"
	"sync"

	"github.com/golang/glog"
)

// Result is the result of a command using Do.
type Result struct {
	Err   error
	Frame *Frame
}

// Client provides request/reply operations over a Link.
// Replies are matched by opcode in the order the requests were sent.
type Client struct {
	link     *Link
	eventCh  chan *Frame
	cmdsHead *Command
	cmdsTail *Command
	cmdsLock sync.Mutex
}

// Command represents a pending command waiting for reply.
type Command struct {
	client   *Client
	request  Frame
	reply    Opcode
	resultCh chan Result
	next     *Command
}

// Request returns the request frame.
func (c *Command) Request() Frame {
	return c.request
}

// ResultChan returns the chan to retrieve result.
func (c *Command) ResultChan() <-chan Result {
	return c.resultCh
}

// Wait blocks until the result is available or ctx is done. A command
// abandoned by ctx no longer takes a reply.
func (c *Command) Wait(ctx context.Context) (*Frame, error) {
	select {
	case r := <-c.resultCh:
		return r.Frame, r.Err
	case <-ctx.Done():
		if c.client != nil && c.client.remove(c) {
			return nil, ctx.Err()
		}
		// the result raced with ctx
		r := <-c.resultCh
		return r.Frame, r.Err
	}
}

// NewClient creates client and wraps the link.
func NewClient(link *Link) *Client {
	c := &Client{
		link:    link,
		eventCh: make(chan *Frame, BufferSize),
	}
	c.link.Handler = c
	return c
}

// Link gets wrapped Link.
func (c *Client) Link() *Link {
	return c.link
}

// EventChan retrieves frames which are not replies to pending commands.
func (c *Client) EventChan() <-chan *Frame {
	return c.eventCh
}

// Send sends a frame without expecting a reply.
func (c *Client) Send(f Frame) error {
	return c.link.Send(f)
}

// DoWith sends a command and expects a result in the provided chan.
func (c *Client) DoWith(f Frame, reply Opcode, ch chan Result) *Command {
	cmd := &Command{client: c, request: f, reply: reply, resultCh: ch}

	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	if err := c.link.Send(f); err != nil {
		cmd.resultCh <- Result{Err: err}
		return cmd
	}
	if c.cmdsHead == nil {
		c.cmdsHead = cmd
	} else {
		c.cmdsTail.next = cmd
	}
	c.cmdsTail = cmd
	return cmd
}

// Do sends a command and returns a Command for result.
func (c *Client) Do(f Frame, reply Opcode) *Command {
	return c.DoWith(f, reply, make(chan Result, 1))
}

// HandleFrame implements FrameHandler. A reply completes the first pending
// command expecting it, all commands sent before fail with ErrNoReply.
func (c *Client) HandleFrame(ctx context.Context, f *Frame) {
	c.cmdsLock.Lock()
	var curr *Command
	for curr = c.cmdsHead; curr != nil; curr = curr.next {
		if curr.reply == f.Opcode {
			break
		}
	}
	var skipped *Command
	if curr != nil {
		skipped = c.cmdsHead
		c.cmdsHead = curr.next
		if c.cmdsHead == nil {
			c.cmdsTail = nil
		}
	}
	c.cmdsLock.Unlock()

	if curr == nil {
		select {
		case c.eventCh <- f:
		default:
			glog.Warningf("%s: event dropped %s", c.link.name(), f)
		}
		return
	}
	for skipped != curr {
		next := skipped.next
		skipped.next = nil
		glog.V(2).Infof("%s: no reply for %s", c.link.name(), skipped.request)
		skipped.resultCh <- Result{Err: ErrNoReply}
		skipped = next
	}
	curr.next = nil
	curr.resultCh <- Result{Frame: f}
}

// remove takes cmd off the pending list, false if it already completed.
func (c *Client) remove(cmd *Command) bool {
	c.cmdsLock.Lock()
	defer c.cmdsLock.Unlock()
	var prev *Command
	for curr := c.cmdsHead; curr != nil; prev, curr = curr, curr.next {
		if curr != cmd {
			continue
		}
		if prev == nil {
			c.cmdsHead = curr.next
		} else {
			prev.next = curr.next
		}
		if c.cmdsTail == curr {
			c.cmdsTail = prev
		}
		curr.next = nil
		return true
	}
	return false
}

// Run wraps Link.Run to implement Runnable. Pending commands fail with
// ErrNoReply when the link stops.
func (c *Client) Run(ctx context.Context) error {
	err := c.link.Run(ctx)
	c.cmdsLock.Lock()
	head := c.cmdsHead
	c.cmdsHead, c.cmdsTail = nil, nil
	c.cmdsLock.Unlock()
	for ; head != nil; head = head.next {
		head.resultCh <- Result{Err: ErrNoReply}
	}
	return err
}
