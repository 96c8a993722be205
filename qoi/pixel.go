package qoi

import "image/color"

// Pixel is a single RGBA tuple, one byte per channel.
type Pixel [4]byte

func pixelFromNRGBA(c color.NRGBA) Pixel {
	return Pixel{c.R, c.G, c.B, c.A}
}

func (p Pixel) R() byte {
	return p[0]
}

func (p Pixel) G() byte {
	return p[1]
}

func (p Pixel) B() byte {
	return p[2]
}

func (p Pixel) A() byte {
	return p[3]
}

// the mulX methods keep the hash readable; byte overflow is intended, only the low 6 bits survive
func (p Pixel) mulR() byte {
	return p.R() * 3
}

func (p Pixel) mulG() byte {
	return p.G() * 5
}

func (p Pixel) mulB() byte {
	return p.B() * 7
}

func (p Pixel) mulA() byte {
	return p.A() * 11
}

// Hash returns the cache slot of p, in [0, 63].
func (p Pixel) Hash() byte {
	return (p.mulR() + p.mulG() + p.mulB() + p.mulA()) % windowLength
}

// Add returns p with the deltas added to its color channels, wrapping around.
func (p Pixel) Add(r, g, b int8) Pixel {
	p[0] += byte(r)
	p[1] += byte(g)
	p[2] += byte(b)
	return p
}

// Minus returns the wrapped signed difference p - p2 per channel.
func (p Pixel) Minus(p2 Pixel) (r, g, b, a int8) {
	return int8(p.R() - p2.R()), int8(p.G() - p2.G()), int8(p.B() - p2.B()), int8(p.A() - p2.A())
}

// NRGBA converts p to the standard library color type.
func (p Pixel) NRGBA() color.NRGBA {
	return color.NRGBA{R: p.R(), G: p.G(), B: p.B(), A: p.A()}
}
