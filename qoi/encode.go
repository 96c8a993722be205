package qoi

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// Encode serializes img into a complete QOI stream: header, chunks and end marker.
func Encode(img *Image) ([]byte, error) {
	header, err := img.header()
	if err != nil {
		return nil, fmt.Errorf("could not encode the header: %w", err)
	}
	out := make([]byte, 0, HeaderLength+header.pixelCount()+len(EndMarker))
	out, err = header.AppendTo(out)
	if err != nil {
		return nil, fmt.Errorf("could not encode the header: %w", err)
	}
	enc := newChunkEncoder(out)
	enc.encodeBody(Unpack(img.Pixels))
	return append(enc.out, EndMarker[:]...), nil
}

// EncodeChunks returns the chunk stream for pixels, without header or end marker.
func EncodeChunks(pixels []Pixel) []byte {
	enc := newChunkEncoder(make([]byte, 0, len(pixels)))
	enc.encodeBody(pixels)
	return enc.out
}

// EncodeImage writes m to w in QOI format. Any image may be encoded; it is
// converted to non-premultiplied RGBA first, see FromImage.
func EncodeImage(w io.Writer, m image.Image) error {
	img := FromImage(m)
	header, err := img.header()
	if err != nil {
		return fmt.Errorf("could not encode the header: %w", err)
	}
	out := bufio.NewWriter(w)
	if err = header.write(out); err != nil {
		return fmt.Errorf("could not encode the header: %w", err)
	}
	if _, err = out.Write(EncodeChunks(Unpack(img.Pixels))); err != nil {
		return err
	}
	if _, err = out.Write(EndMarker[:]); err != nil {
		return err
	}
	return out.Flush()
}

// chunkEncoder holds the state of one encoding pass.
type chunkEncoder struct {
	out   []byte
	state streamState
	run   byte
}

func newChunkEncoder(out []byte) *chunkEncoder {
	return &chunkEncoder{out: out, state: newStreamState()}
}

func (enc *chunkEncoder) encodeBody(pixels []Pixel) {
	last := len(pixels) - 1
	for i, p := range pixels {
		enc.encodePixel(p, i == last)
	}
}

// encodePixel emits the chunk for p, or extends the current run. last
// forces a pending run out.
func (enc *chunkEncoder) encodePixel(p Pixel, last bool) {
	if p == enc.state.previous {
		enc.run++
		if enc.run == maxRunLength || last {
			enc.flushRun()
		}
		enc.state.advance(p)
		return
	}
	enc.flushRun()
	enc.emit(enc.dispatchOP(p))
	enc.state.previous = p
}

func (enc *chunkEncoder) flushRun() {
	if enc.run == 0 {
		return
	}
	enc.emit(RunChunk{Count: enc.run})
	enc.run = 0
}

func (enc *chunkEncoder) emit(c Chunk) {
	enc.out = c.appendTo(enc.out)
}

// dispatchOP picks the chunk for p, which differs from the previous pixel,
// and updates the cache on a miss.
func (enc *chunkEncoder) dispatchOP(p Pixel) Chunk {
	slot, hit := enc.state.cache.Contains(p)
	if hit {
		return IndexChunk{Slot: slot}
	}
	enc.state.cache.Put(p)

	diffR, diffG, diffB, diffA := p.Minus(enc.state.previous)
	if diffA != 0 {
		return RGBAChunk{R: p.R(), G: p.G(), B: p.B(), A: p.A()}
	}
	if isValueWithinDIFFSpec(diffR) && isValueWithinDIFFSpec(diffG) && isValueWithinDIFFSpec(diffB) {
		return DiffChunk{DR: diffR, DG: diffG, DB: diffB}
	}
	diffRG, diffBG := diffR-diffG, diffB-diffG
	if isGreenValueWithinLUMASpec(diffG) && isValueWithinLUMASpec(diffRG) && isValueWithinLUMASpec(diffBG) {
		return LumaChunk{DG: diffG, DRMinusDG: diffRG, DBMinusDG: diffBG}
	}
	return RGBChunk{R: p.R(), G: p.G(), B: p.B()}
}
