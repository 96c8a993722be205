package qoi

import (
	"encoding/binary"
	"fmt"
	"io"
)

// ColorSpace is the color space tag of a QOI stream. It is metadata only,
// the codec never converts colors.
type ColorSpace uint8

const (
	// Linear means every channel is linear.
	Linear ColorSpace = 0
	// SRGB means sRGB color channels with a linear alpha channel.
	SRGB ColorSpace = 1
)

func (c ColorSpace) String() string {
	switch c {
	case Linear:
		return "linear"
	case SRGB:
		return "srgb"
	default:
		return fmt.Sprintf("ColorSpace(%d)", uint8(c))
	}
}

// Header is the fixed-size prefix of a QOI stream.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8
	ColorSpace ColorSpace
}

// Validate checks the header against the domain the format allows.
func (h Header) Validate() error {
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: invalid size %dx%d", ErrMalformedHeader, h.Width, h.Height)
	}
	if uint64(h.Width)*uint64(h.Height) > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrMalformedHeader, h.Width, h.Height, MaxPixels)
	}
	if h.Channels != 3 && h.Channels != 4 {
		return fmt.Errorf("%w: invalid channel count %d", ErrMalformedHeader, h.Channels)
	}
	if h.ColorSpace != Linear && h.ColorSpace != SRGB {
		return fmt.Errorf("%w: invalid color space %d", ErrMalformedHeader, uint8(h.ColorSpace))
	}
	return nil
}

func (h Header) pixelCount() int {
	return int(h.Width) * int(h.Height)
}

// AppendTo validates h and appends its serialized form to dst.
func (h Header) AppendTo(dst []byte) ([]byte, error) {
	if err := h.Validate(); err != nil {
		return dst, err
	}
	dst = append(dst, qoiMagicBytes[:]...)
	dst = binary.BigEndian.AppendUint32(dst, h.Width)
	dst = binary.BigEndian.AppendUint32(dst, h.Height)
	return append(dst, h.Channels, byte(h.ColorSpace)), nil
}

func (h Header) write(w io.Writer) error {
	b, err := h.AppendTo(make([]byte, 0, HeaderLength))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// ParseHeader reads the header from the first HeaderLength bytes of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderLength {
		return Header{}, fmt.Errorf("%w: data is too short", ErrMalformedHeader)
	}
	if string(b[:4]) != Magic {
		return Header{}, fmt.Errorf("%w: invalid magic '%v'", ErrMalformedHeader, b[:4])
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(b[4:]),
		Height:     binary.BigEndian.Uint32(b[8:]),
		Channels:   b[12],
		ColorSpace: ColorSpace(b[13]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// BuildHeader serializes the header describing img.
func BuildHeader(img *Image) ([]byte, error) {
	h, err := img.header()
	if err != nil {
		return nil, err
	}
	return h.AppendTo(make([]byte, 0, HeaderLength))
}
