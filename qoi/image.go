package qoi

import (
	"image"

	"github.com/disintegration/imaging"
)

// FromImage converts m into an Image tagged with the sRGB color space.
// Images that are not *image.NRGBA are converted first, which may be lossy
// for premultiplied or high bit depth sources. The channel count is 3 when
// every pixel is opaque and 4 otherwise.
func FromImage(m image.Image) *Image {
	nrgba, ok := m.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = imaging.Clone(m)
	}
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	img := &Image{
		Pixels:     make([][]uint32, height),
		Channels:   3,
		ColorSpace: SRGB,
	}
	for y := 0; y < height; y++ {
		row := make([]uint32, width)
		for x := range row {
			px := pixelFromNRGBA(nrgba.NRGBAAt(x, y))
			if px.A() != 255 {
				img.Channels = 4
			}
			row[x] = packWord(px)
		}
		img.Pixels[y] = row
	}
	return img
}

// NRGBA returns img as a standard library image.
func (img *Image) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, img.Width(), img.Height()))
	for y, row := range img.Pixels {
		for x, w := range row {
			out.SetNRGBA(x, y, unpackWord(w).NRGBA())
		}
	}
	return out
}
