package framework

// Countdown expires after a number of loop iterations, e.g. waiting for
// a reply from a board which may not be connected.
type Countdown struct {
	remaining int
}

// Start (re)starts the countdown with ticks iterations.
func (c *Countdown) Start(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	c.remaining = ticks
}

// Stop cancels the countdown.
func (c *Countdown) Stop() {
	c.remaining = 0
}

// Active reports the countdown is running.
func (c *Countdown) Active() bool {
	return c.remaining > 0
}

// Tick counts one iteration and returns true on the one it expires.
func (c *Countdown) Tick() bool {
	if c.remaining == 0 {
		return false
	}
	c.remaining--
	return c.remaining == 0
}
