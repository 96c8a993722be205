package main

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quiteok/qoi/qoi"
)

func writeTestPNG(t *testing.T, filename string) *image.NRGBA {
	img := imaging.New(23, 17, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	for x := 0; x < 23; x++ {
		img.SetNRGBA(x, x%17, color.NRGBA{R: uint8(x * 11), G: 3, B: uint8(x), A: 255})
	}
	require.NoError(t, imaging.Save(img, filename))
	return img
}

func TestConvertRoundTrip(t *testing.T) {
	dir := t.TempDir()
	pngFile := filepath.Join(dir, "thonk.png")
	src := writeTestPNG(t, pngFile)

	for _, ext := range []string{".qoi", ".qoiz"} {
		t.Run(ext, func(t *testing.T) {
			encoded := filepath.Join(dir, "thonk"+ext)
			back := filepath.Join(dir, "thonk"+ext+".png")
			require.NoError(t, convert(pngFile, encoded, options{colorSpace: -1}))
			require.NoError(t, convert(encoded, back, options{colorSpace: -1}))

			result, err := imaging.Open(back)
			require.NoError(t, err)
			assert.Equal(t, qoi.FromImage(src).Pixels, qoi.FromImage(result).Pixels)
		})
	}
}

func TestConvertHeaderOverrides(t *testing.T) {
	dir := t.TempDir()
	pngFile := filepath.Join(dir, "in.png")
	writeTestPNG(t, pngFile)
	out := filepath.Join(dir, "out.qoi")

	require.NoError(t, convert(pngFile, out, options{channels: 4, colorSpace: int(qoi.Linear)}))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	header, err := qoi.ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, qoi.Header{Width: 23, Height: 17, Channels: 4, ColorSpace: qoi.Linear}, header)

	require.NoError(t, convert(out, filepath.Join(dir, "again.qoi"), options{colorSpace: -1}))
	data, err = os.ReadFile(filepath.Join(dir, "again.qoi"))
	require.NoError(t, err)
	header, err = qoi.ParseHeader(data)
	require.NoError(t, err)
	assert.Equal(t, qoi.Linear, header.ColorSpace)
}

func TestConvertErrors(t *testing.T) {
	dir := t.TempDir()
	pngFile := filepath.Join(dir, "in.png")
	writeTestPNG(t, pngFile)

	err := convert(pngFile, filepath.Join(dir, "out.xyz"), options{colorSpace: -1})
	assert.ErrorIs(t, err, imaging.ErrUnsupportedFormat)

	err = convert(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.qoi"), options{colorSpace: -1})
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.qoi")
	require.NoError(t, os.WriteFile(broken, []byte("qoif"), 0644))
	err = convert(broken, filepath.Join(dir, "out.png"), options{colorSpace: -1})
	assert.ErrorIs(t, err, qoi.ErrMalformedHeader)
}

func TestConvertBatch(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.png", "b.png", "c.png"} {
		input := filepath.Join(dir, name)
		writeTestPNG(t, input)
		inputs = append(inputs, input)
	}
	inputs = append(inputs, filepath.Join(dir, "missing.png"))

	failed := convertBatch(inputs, "qoi", 2, options{colorSpace: -1})
	assert.Equal(t, 1, failed)
	for _, name := range []string{"a.qoi", "b.qoi", "c.qoi"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		_, err = qoi.Decode(data)
		assert.NoError(t, err)
	}
}

func TestConvertBatchKeepsInputs(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "a.qoi")
	require.NoError(t, convert(writeTestPNGPath(t, dir), input, options{colorSpace: -1}))
	before, err := os.ReadFile(input)
	require.NoError(t, err)

	failed := convertBatch([]string{input}, "qoi", 1, options{channels: 4, colorSpace: int(qoi.Linear)})
	assert.Equal(t, 1, failed)
	after, err := os.ReadFile(input)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	err = convert(input, dir+string(filepath.Separator)+"."+string(filepath.Separator)+"a.qoi", options{colorSpace: -1})
	assert.ErrorIs(t, err, errSameFile)
}

func writeTestPNGPath(t *testing.T, dir string) string {
	filename := filepath.Join(dir, "src.png")
	writeTestPNG(t, filename)
	return filename
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, options{channels: 0, colorSpace: -1}.validate())
	assert.NoError(t, options{channels: 3, colorSpace: 0}.validate())
	assert.NoError(t, options{channels: 4, colorSpace: 1}.validate())
	assert.Error(t, options{channels: 2, colorSpace: -1}.validate())
	assert.Error(t, options{colorSpace: 2}.validate())
}
