// Package zqoi stores QOI streams inside a zstd frame. The QOI bytes are
// compressed as an opaque blob, so the chunk stream inside stays byte-exact.
package zqoi

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"

	"github.com/quiteok/qoi/qoi"
)

// Extension is the file extension used for zstd-wrapped QOI files.
const Extension = ".qoiz"

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// ErrNotCompressed is returned by Decode when data is not a zstd frame.
var ErrNotCompressed = errors.New("zqoi: data is not a zstd frame")

func mustNewZstdEncoder() *zstd.Encoder {
	enc, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithLowerEncoderMem(true),
	)
	if err != nil {
		panic(err)
	}
	return enc
}

func mustNewZstdDecoder() *zstd.Decoder {
	dec, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(uint64(qoi.MaxStreamLength)),
	)
	if err != nil {
		panic(err)
	}
	return dec
}

// Encoders and decoders are pooled so concurrent conversions each get their own.
var zstdEncPool = sync.Pool{
	New: func() any {
		return mustNewZstdEncoder()
	},
}

var zstdDecPool = sync.Pool{
	New: func() any {
		return mustNewZstdDecoder()
	},
}

// IsCompressed reports whether data starts with a zstd frame magic.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

// Compress wraps an encoded QOI stream into a zstd frame.
func Compress(stream []byte) []byte {
	enc := zstdEncPool.Get().(*zstd.Encoder)
	out := enc.EncodeAll(stream, make([]byte, 0, len(stream)/2))
	zstdEncPool.Put(enc)
	return out
}

// Decompress unwraps a zstd frame and returns the QOI stream inside.
func Decompress(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return nil, ErrNotCompressed
	}
	dec := zstdDecPool.Get().(*zstd.Decoder)
	out, err := dec.DecodeAll(data, nil)
	zstdDecPool.Put(dec)
	if err != nil {
		return nil, fmt.Errorf("zstd decode: %w", err)
	}
	return out, nil
}

// Encode encodes img as QOI and compresses the result.
func Encode(img *qoi.Image) ([]byte, error) {
	stream, err := qoi.Encode(img)
	if err != nil {
		return nil, err
	}
	return Compress(stream), nil
}

// Decode decompresses data and decodes the QOI stream inside.
func Decode(data []byte) (*qoi.Image, error) {
	stream, err := Decompress(data)
	if err != nil {
		return nil, err
	}
	return qoi.Decode(stream)
}
