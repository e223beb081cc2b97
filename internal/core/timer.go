package core

import "time"

// SliceClock advances a slice cursor at a steady slices-per-second rate.
type SliceClock struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewSliceClock constructs a clock targeting the given rate.
func NewSliceClock(rate int) *SliceClock {
	c := &SliceClock{now: time.Now}
	c.SetRate(rate)
	return c
}

// SetRate changes the advance rate. Non-positive rates fall back to 8/s.
func (c *SliceClock) SetRate(rate int) {
	if rate <= 0 {
		rate = 8
	}
	c.step = time.Second / time.Duration(rate)
}

// Reset forgets elapsed time, e.g. after a pause.
func (c *SliceClock) Reset() {
	c.accumulator = 0
	c.last = time.Time{}
}

// Advance returns how many slices the cursor should move since the last call.
func (c *SliceClock) Advance() int {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
	}
	c.accumulator += now.Sub(c.last)
	c.last = now
	n := int(c.accumulator / c.step)
	c.accumulator -= time.Duration(n) * c.step
	return n
}
