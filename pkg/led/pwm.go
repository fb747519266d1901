package led

import (
	"context"
	"sync"
	"time"
)

// PWM is a free running 8 bit counter for software dimming of on/off
// outputs.
type PWM struct {
	Step    uint8
	counter uint8
}

// Counter returns the current counter value.
func (p *PWM) Counter() uint8 {
	return p.counter
}

// Tick advances the counter and reports if it wrapped around.
func (p *PWM) Tick() (wrapped bool) {
	step := p.Step
	if step == 0 {
		step = 1
	}
	last := p.counter
	p.counter += step
	return p.counter < last
}

// On reports if an output with intensity is on at the current counter.
func (p *PWM) On(intensity uint8) bool {
	return intensity > 0 && p.counter <= intensity
}

// Pin is a digital output line.
type Pin interface {
	SetValue(int) error
}

// SoftLamps dims lamps on digital pins with software PWM.
type SoftLamps struct {
	Pins []Pin
	// ActiveLow inverts the pin level.
	ActiveLow bool
	// Period is the duration of a full PWM cycle.
	Period time.Duration

	pwm   PWM
	lock  sync.Mutex
	level uint8
	state []int
}

// NewSoftLamps creates SoftLamps with steps counter steps per period.
func NewSoftLamps(period time.Duration, steps int, pins ...Pin) *SoftLamps {
	l := &SoftLamps{Pins: pins, Period: period}
	if steps > 0 && steps <= 256 {
		l.pwm.Step = uint8(256 / steps)
	}
	return l
}

// SetLampIntensity implements Lamps.
func (l *SoftLamps) SetLampIntensity(v uint8) error {
	l.lock.Lock()
	l.level = v
	l.lock.Unlock()
	return nil
}

// Tick advances the PWM counter and updates the pins.
func (l *SoftLamps) Tick() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.pwm.Tick()
	v := 0
	if l.pwm.On(l.level) {
		v = 1
	}
	if l.ActiveLow {
		v = 1 - v
	}
	if l.state == nil {
		l.state = make([]int, len(l.Pins))
		for n := range l.state {
			l.state[n] = -1
		}
	}
	for n, pin := range l.Pins {
		if l.state[n] == v {
			continue
		}
		if err := pin.SetValue(v); err != nil {
			return err
		}
		l.state[n] = v
	}
	return nil
}

// Run ticks the PWM until ctx is done.
func (l *SoftLamps) Run(ctx context.Context) error {
	steps := 256
	if l.pwm.Step > 1 {
		steps = 256 / int(l.pwm.Step)
	}
	interval := l.Period / time.Duration(steps)
	if interval <= 0 {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := l.Tick(); err != nil {
				return err
			}
		}
	}
}
