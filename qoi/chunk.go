package qoi

import "fmt"

// Chunk is one unit of the chunk stream. The set of implementations is
// closed: RunChunk, IndexChunk, DiffChunk, LumaChunk, RGBChunk and RGBAChunk.
type Chunk interface {
	appendTo(dst []byte) []byte
	chunk()
}

// RunChunk repeats the previous pixel Count times, 1 <= Count <= 62.
type RunChunk struct {
	Count byte
}

// IndexChunk reuses the pixel held in cache slot Slot.
type IndexChunk struct {
	Slot byte
}

// DiffChunk adds small deltas in [-2, 1] to the previous pixel.
type DiffChunk struct {
	DR, DG, DB int8
}

// LumaChunk adds a green delta in [-32, 31] and red/blue deltas relative
// to it in [-8, 7].
type LumaChunk struct {
	DG, DRMinusDG, DBMinusDG int8
}

// RGBChunk sets the color channels and keeps the previous alpha.
type RGBChunk struct {
	R, G, B byte
}

// RGBAChunk sets every channel.
type RGBAChunk struct {
	R, G, B, A byte
}

func (RunChunk) chunk()   {}
func (IndexChunk) chunk() {}
func (DiffChunk) chunk()  {}
func (LumaChunk) chunk()  {}
func (RGBChunk) chunk()   {}
func (RGBAChunk) chunk()  {}

func (c RunChunk) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_RUN|(c.Count-runBias))
}

func (c IndexChunk) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_INDEX|c.Slot)
}

func (c DiffChunk) appendTo(dst []byte) []byte {
	r := byte(c.DR+diffBias) << 4
	g := byte(c.DG+diffBias) << 2
	b := byte(c.DB + diffBias)
	return append(dst, quoi_OP_DIFF|r|g|b)
}

func (c LumaChunk) appendTo(dst []byte) []byte {
	directionRG := byte(c.DRMinusDG + lumaBias)
	directionBG := byte(c.DBMinusDG + lumaBias)
	return append(dst, quoi_OP_LUMA|byte(c.DG+lumaGreenBias), directionRG<<4|directionBG)
}

func (c RGBChunk) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_RGB, c.R, c.G, c.B)
}

func (c RGBAChunk) appendTo(dst []byte) []byte {
	return append(dst, quoi_OP_RGBA, c.R, c.G, c.B, c.A)
}

func isValueWithinDIFFSpec(v int8) bool {
	return v >= -2 && v <= 1
}

func isGreenValueWithinLUMASpec(v int8) bool {
	return v >= -32 && v <= 31
}

func isValueWithinLUMASpec(v int8) bool {
	return v >= -8 && v <= 7
}

func getDIFFValues(diff byte) (int8, int8, int8) {
	return int8(diff>>4&0b11) - diffBias, int8(diff>>2&0b11) - diffBias, int8(diff&0b11) - diffBias
}

func getLUMAValues(b1, b2 byte) (int8, int8, int8) {
	diffGreen := int8(b1&quoi_PAYLOAD_MASK) - lumaGreenBias
	return diffGreen, int8(b2>>4) - lumaBias, int8(b2&0b1111) - lumaBias
}

// parseChunk reads the chunk at the start of data and reports how many
// bytes it spans.
func parseChunk(data []byte) (Chunk, int, error) {
	if len(data) == 0 {
		return nil, 0, fmt.Errorf("%w: no chunk left", ErrTruncatedStream)
	}
	b := data[0]
	switch getOP(b) {
	case quoi_OP_RGB:
		if len(data) < 4 {
			return nil, 0, fmt.Errorf("%w: RGB chunk needs 3 more bytes, %d left", ErrTruncatedStream, len(data)-1)
		}
		return RGBChunk{R: data[1], G: data[2], B: data[3]}, 4, nil
	case quoi_OP_RGBA:
		if len(data) < 5 {
			return nil, 0, fmt.Errorf("%w: RGBA chunk needs 4 more bytes, %d left", ErrTruncatedStream, len(data)-1)
		}
		return RGBAChunk{R: data[1], G: data[2], B: data[3], A: data[4]}, 5, nil
	case quoi_OP_INDEX:
		return IndexChunk{Slot: b & quoi_PAYLOAD_MASK}, 1, nil
	case quoi_OP_DIFF:
		r, g, bl := getDIFFValues(b)
		return DiffChunk{DR: r, DG: g, DB: bl}, 1, nil
	case quoi_OP_LUMA:
		if len(data) < 2 {
			return nil, 0, fmt.Errorf("%w: LUMA chunk needs 1 more byte", ErrTruncatedStream)
		}
		g, rg, bg := getLUMAValues(b, data[1])
		return LumaChunk{DG: g, DRMinusDG: rg, DBMinusDG: bg}, 2, nil
	default:
		return RunChunk{Count: b&quoi_PAYLOAD_MASK + runBias}, 1, nil
	}
}
