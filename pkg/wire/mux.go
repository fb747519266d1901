package wire

import (
	"sync"

	fx "github.com/robotalks/fancylights/pkg/framework"
)

// Mux sends frames to all attached senders.
type Mux struct {
	lock    sync.RWMutex
	senders map[Sender]struct{}
}

// NewMux creates an empty Mux.
func NewMux(senders ...Sender) *Mux {
	m := &Mux{senders: make(map[Sender]struct{})}
	for _, s := range senders {
		m.Add(s)
	}
	return m
}

// Add attaches a sender.
func (m *Mux) Add(s Sender) {
	m.lock.Lock()
	m.senders[s] = struct{}{}
	m.lock.Unlock()
}

// Remove detaches a sender.
func (m *Mux) Remove(s Sender) {
	m.lock.Lock()
	delete(m.senders, s)
	m.lock.Unlock()
}

// Len returns the number of attached senders.
func (m *Mux) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.senders)
}

// Send implements Sender. Failures of individual senders are returned as
// *framework.AggregatedError.
func (m *Mux) Send(f Frame) error {
	m.lock.RLock()
	senders := make([]Sender, 0, len(m.senders))
	for s := range m.senders {
		senders = append(senders, s)
	}
	m.lock.RUnlock()
	var errs fx.AggregatedError
	for _, s := range senders {
		errs.Add(s.Send(f))
	}
	return errs.Aggregate()
}
