package keypad

import (
	"context"
	"time"
)

// Keypad geometry and timing.
const (
	Rows              = 4
	Cols              = 4
	NumButtons        = Rows * Cols
	LongPressDuration = 240
	PollInterval      = 2 * time.Millisecond
)

// Matrix reads the pressed state of all buttons, indexed row*Cols+col.
type Matrix interface {
	Read(pressed []bool) error
}

// PressFunc is called when a button press is detected.
type PressFunc func(btn int, long bool)

// Scanner detects short and long presses from repeated matrix reads.
// A long press fires while the button is still held, a short press fires
// on release unless a long press already fired.
type Scanner struct {
	Matrix    Matrix
	LongPress uint8
	OnPress   PressFunc

	counters [NumButtons]uint8
	pressed  [NumButtons]bool
}

// NewScanner creates a Scanner.
func NewScanner(m Matrix, onPress PressFunc) *Scanner {
	return &Scanner{Matrix: m, LongPress: LongPressDuration, OnPress: onPress}
}

// Poll reads the matrix once.
func (s *Scanner) Poll() error {
	if err := s.Matrix.Read(s.pressed[:]); err != nil {
		return err
	}
	s.Update(s.pressed[:])
	return nil
}

// Update processes one read of the button states.
func (s *Scanner) Update(pressed []bool) {
	for btn := 0; btn < NumButtons && btn < len(pressed); btn++ {
		cnt := &s.counters[btn]
		if pressed[btn] {
			if *cnt < 0xff {
				*cnt++
				if *cnt > s.LongPress {
					s.fire(btn, true)
					*cnt = 0xff
				}
			}
			continue
		}
		if *cnt > 0 {
			if *cnt != 0xff {
				s.fire(btn, false)
			}
			*cnt = 0
		}
	}
}

func (s *Scanner) fire(btn int, long bool) {
	if s.OnPress != nil {
		s.OnPress(btn, long)
	}
}

// Input is a digital input line.
type Input interface {
	Value() (int, error)
}

// Poller feeds the matrix and the wall switch into the encoder.
type Poller struct {
	Encoder  *Encoder
	Scanner  *Scanner
	Switch   Input
	Interval time.Duration
}

// Run polls until ctx is done. Polling pauses until the encoder is ready.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = PollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := p.poll(); err != nil {
				return err
			}
		}
	}
}

func (p *Poller) poll() error {
	if !p.Encoder.Ready() {
		return nil
	}
	if p.Scanner != nil {
		if err := p.Scanner.Poll(); err != nil {
			return err
		}
	}
	if p.Switch != nil {
		v, err := p.Switch.Value()
		if err != nil {
			return err
		}
		return p.Encoder.SetSwitch(v != 0)
	}
	return nil
}
