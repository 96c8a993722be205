package qoi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func word(r, g, b, a byte) uint32 {
	return packWord(Pixel{r, g, b, a})
}

func newTestImage(width, height int, channels uint8, colorSpace ColorSpace, fill func(x, y int) Pixel) *Image {
	img := &Image{Pixels: make([][]uint32, height), Channels: channels, ColorSpace: colorSpace}
	for y := range img.Pixels {
		img.Pixels[y] = make([]uint32, width)
		for x := range img.Pixels[y] {
			img.Pixels[y][x] = packWord(fill(x, y))
		}
	}
	return img
}

// randomPixels produces a sequence mixing runs, repeats of earlier pixels,
// small and large deltas and alpha changes, so every chunk kind shows up.
func randomPixels(rng *rand.Rand, n int, withAlpha bool) []Pixel {
	pixels := make([]Pixel, 0, n)
	p := startPixel
	for len(pixels) < n {
		switch rng.Intn(6) {
		case 0:
			for i := rng.Intn(80); i > 0 && len(pixels) < n; i-- {
				pixels = append(pixels, p)
			}
			continue
		case 1:
			if len(pixels) > 0 {
				p = pixels[rng.Intn(len(pixels))]
			}
		case 2:
			p = p.Add(int8(rng.Intn(4)-2), int8(rng.Intn(4)-2), int8(rng.Intn(4)-2))
		case 3:
			dg := int8(rng.Intn(64) - 32)
			p = p.Add(dg+int8(rng.Intn(16)-8), dg, dg+int8(rng.Intn(16)-8))
		case 4:
			p = Pixel{byte(rng.Intn(256)), byte(rng.Intn(256)), byte(rng.Intn(256)), p.A()}
		case 5:
			if withAlpha {
				p[3] = byte(rng.Intn(256))
			}
		}
		pixels = append(pixels, p)
	}
	return pixels
}

func randomImage(t *testing.T, rng *rand.Rand, width, height int, channels uint8, colorSpace ColorSpace) *Image {
	grid, err := Pack(randomPixels(rng, width*height, channels == 4), height, width)
	require.NoError(t, err)
	return &Image{Pixels: grid, Channels: channels, ColorSpace: colorSpace}
}

func streamOf(t *testing.T, header Header, chunks ...byte) []byte {
	data, err := header.AppendTo(nil)
	require.NoError(t, err)
	data = append(data, chunks...)
	return append(data, EndMarker[:]...)
}
