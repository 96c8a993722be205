package qoi

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
)

func init() {
	image.RegisterFormat("qoi", Magic, DecodeImage, DecodeConfig)
}

// Decode parses a complete QOI stream. Decoding is all or nothing: on
// error no image is returned.
func Decode(data []byte) (*Image, error) {
	header, err := ParseHeader(data)
	if err != nil {
		return nil, fmt.Errorf("could not decode the header: %w", err)
	}
	if len(data) < HeaderLength+len(EndMarker) || !bytes.HasSuffix(data, EndMarker[:]) {
		return nil, ErrMissingEndMarker
	}
	pixels, err := DecodeChunks(data[HeaderLength:len(data)-len(EndMarker)], header.pixelCount())
	if err != nil {
		return nil, fmt.Errorf("could not decode the image body: %w", err)
	}
	grid, err := Pack(pixels, int(header.Height), int(header.Width))
	if err != nil {
		return nil, err
	}
	return &Image{Pixels: grid, Channels: header.Channels, ColorSpace: header.ColorSpace}, nil
}

// DecodeChunks rebuilds count pixels from a chunk stream stripped of its
// header and end marker.
func DecodeChunks(data []byte, count int) ([]Pixel, error) {
	// No chunk byte yields more than a full run.
	if count > maxRunLength*len(data) {
		return nil, fmt.Errorf("%w: %d bytes cannot hold %d pixels", ErrTruncatedStream, len(data), count)
	}
	d := newChunkDecoder(data, count)
	if err := d.decodeBody(); err != nil {
		return nil, err
	}
	return d.pixels, nil
}

// DecodeImage reads a QOI image from r and returns it as an *image.NRGBA.
func DecodeImage(r io.Reader) (image.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return img.NRGBA(), nil
}

// DecodeConfig returns the color model and dimensions of a QOI image without decoding the entire image.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var headerBytes [HeaderLength]byte
	if _, err := io.ReadFull(r, headerBytes[:]); err != nil {
		return image.Config{}, fmt.Errorf("could not decode the header: %w: data is too short", ErrMalformedHeader)
	}
	header, err := ParseHeader(headerBytes[:])
	if err != nil {
		return image.Config{}, fmt.Errorf("could not decode the header: %w", err)
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(header.Width),
		Height:     int(header.Height),
	}, nil
}

// chunkDecoder holds the state of one decoding pass.
type chunkDecoder struct {
	data   []byte
	pos    int
	state  streamState
	pixels []Pixel
	count  int
}

func newChunkDecoder(data []byte, count int) *chunkDecoder {
	return &chunkDecoder{
		data:   data,
		state:  newStreamState(),
		pixels: make([]Pixel, 0, min(count, maxRunLength*len(data))),
		count:  count,
	}
}

func (d *chunkDecoder) decodeBody() error {
	for len(d.pixels) < d.count {
		c, n, err := parseChunk(d.data[d.pos:])
		if err != nil {
			return fmt.Errorf("%w after %d of %d pixels", err, len(d.pixels), d.count)
		}
		d.pos += n
		d.dispatchOP(c)
	}
	return nil
}

func (d *chunkDecoder) dispatchOP(c Chunk) {
	prev := d.state.previous
	switch c := c.(type) {
	case RunChunk:
		d.repeat(int(c.Count))
		return
	case IndexChunk:
		d.writePixel(d.state.cache.Get(c.Slot))
	case DiffChunk:
		d.writePixel(prev.Add(c.DR, c.DG, c.DB))
	case LumaChunk:
		d.writePixel(prev.Add(c.DRMinusDG+c.DG, c.DG, c.DBMinusDG+c.DG))
	case RGBChunk:
		d.writePixel(Pixel{c.R, c.G, c.B, prev.A()})
	case RGBAChunk:
		d.writePixel(Pixel{c.R, c.G, c.B, c.A})
	default:
		panic(fmt.Sprintf("qoi: unknown chunk %T", c))
	}
}

// repeat emits the previous pixel n times, never past the expected count.
func (d *chunkDecoder) repeat(n int) {
	if left := d.count - len(d.pixels); n > left {
		n = left
	}
	for ; n > 0; n-- {
		d.writePixel(d.state.previous)
	}
}

func (d *chunkDecoder) writePixel(p Pixel) {
	d.state.advance(p)
	d.pixels = append(d.pixels, p)
}
