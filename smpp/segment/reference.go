package segment

import "sync/atomic"

// RefCounter hands out concatenation reference numbers. The value wraps from
// 255 back to 0; a reference is only unique within one cycle.
type RefCounter struct {
	n atomic.Uint32
}

// NewRefCounter returns a counter whose first reference is seed.
func NewRefCounter(seed uint8) *RefCounter {
	c := &RefCounter{}
	c.n.Store(uint32(seed))
	return c
}

// Next returns the current reference and advances the counter in a single
// atomic step. 2^32 is a multiple of 256, so the 8-bit view wraps cleanly.
func (c *RefCounter) Next() uint8 {
	return uint8(c.n.Add(1) - 1)
}

// Reset makes seed the next reference handed out.
func (c *RefCounter) Reset(seed uint8) {
	c.n.Store(uint32(seed))
}
