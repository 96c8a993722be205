package qoi

// PixelCache holds, for every hash slot, the last pixel written to it.
// The zero value is an all-zero cache, which is the state both ends of a
// stream start from.
type PixelCache [windowLength]Pixel

// Get returns the pixel cached at slot.
func (c *PixelCache) Get(slot byte) Pixel {
	return c[slot&quoi_PAYLOAD_MASK]
}

// Put stores p at its own hash slot and returns that slot.
func (c *PixelCache) Put(p Pixel) byte {
	slot := p.Hash()
	c[slot] = p // We do not check for equality as copying a 4B array is faster than checking
	return slot
}

// Contains reports whether p is the pixel cached at its hash slot.
func (c *PixelCache) Contains(p Pixel) (byte, bool) {
	slot := p.Hash()
	return slot, c[slot] == p
}

// streamState is the history every chunk depends on. One is created per
// encode or decode pass and never shared.
type streamState struct {
	previous Pixel
	cache    PixelCache
}

func newStreamState() streamState {
	return streamState{previous: startPixel}
}

// advance records p as the latest resolved pixel.
func (s *streamState) advance(p Pixel) {
	s.cache.Put(p)
	s.previous = p
}
