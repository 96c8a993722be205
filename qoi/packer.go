package qoi

import "fmt"

// Image is a grid of packed pixel words plus the metadata a QOI header
// carries. Each word is laid out as 0xAARRGGBB.
type Image struct {
	Pixels     [][]uint32
	Channels   uint8
	ColorSpace ColorSpace
}

func (img *Image) Height() int {
	return len(img.Pixels)
}

func (img *Image) Width() int {
	if len(img.Pixels) == 0 {
		return 0
	}
	return len(img.Pixels[0])
}

func (img *Image) header() (Header, error) {
	if img == nil {
		return Header{}, fmt.Errorf("%w: nil image", ErrMalformedHeader)
	}
	width := img.Width()
	for y, row := range img.Pixels {
		if len(row) != width {
			return Header{}, fmt.Errorf("%w: row %d has %d pixels, expected %d", ErrSizeMismatch, y, len(row), width)
		}
	}
	h := Header{
		Width:      uint32(width),
		Height:     uint32(img.Height()),
		Channels:   img.Channels,
		ColorSpace: img.ColorSpace,
	}
	return h, h.Validate()
}

func packWord(p Pixel) uint32 {
	return uint32(p.A())<<24 | uint32(p.R())<<16 | uint32(p.G())<<8 | uint32(p.B())
}

func unpackWord(w uint32) Pixel {
	return Pixel{byte(w >> 16), byte(w >> 8), byte(w), byte(w >> 24)}
}

// Unpack flattens grid into RGBA tuples, row by row.
func Unpack(grid [][]uint32) []Pixel {
	n := 0
	for _, row := range grid {
		n += len(row)
	}
	pixels := make([]Pixel, 0, n)
	for _, row := range grid {
		for _, w := range row {
			pixels = append(pixels, unpackWord(w))
		}
	}
	return pixels
}

// Pack is the inverse of Unpack. It fails with ErrSizeMismatch unless
// len(pixels) == height*width.
func Pack(pixels []Pixel, height, width int) ([][]uint32, error) {
	if height < 0 || width < 0 || len(pixels) != height*width {
		return nil, fmt.Errorf("%w: got %d pixels for %dx%d", ErrSizeMismatch, len(pixels), width, height)
	}
	words := make([]uint32, len(pixels))
	for i, p := range pixels {
		words[i] = packWord(p)
	}
	grid := make([][]uint32, height)
	for y := range grid {
		grid[y] = words[y*width : (y+1)*width : (y+1)*width]
	}
	return grid, nil
}
