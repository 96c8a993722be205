package qoi

const (
	quoi_OP_RGB   byte = 0b11111110
	quoi_OP_RGBA  byte = 0b11111111
	quoi_OP_INDEX byte = 0b00000000
	quoi_OP_DIFF  byte = 0b01000000
	quoi_OP_LUMA  byte = 0b10000000
	quoi_OP_RUN   byte = 0b11000000

	quoi_2B_MASK      byte = 0b11000000
	quoi_PAYLOAD_MASK byte = 0b00111111
)

func getOP(b byte) byte {
	if b == quoi_OP_RGB || b == quoi_OP_RGBA {
		return b
	}
	return b & quoi_2B_MASK
}

const (
	diffBias      = 2
	lumaGreenBias = 32
	lumaBias      = 8
	runBias       = 1

	maxRunLength = 62
	windowLength = 64
)

// MaxPixels bounds width*height; at 5 bytes per pixel a stream stays below 2GB.
const MaxPixels = 400_000_000

// MaxStreamLength is the longest stream an image within MaxPixels can encode to.
const MaxStreamLength = HeaderLength + 5*MaxPixels + len(EndMarker)

// HeaderLength is the size in bytes of the fixed header preceding the chunks.
const HeaderLength = 4 + 4 + 4 + 1 + 1

// Magic is the four byte sequence every QOI stream starts with.
const Magic = "qoif"

var qoiMagicBytes = [4]byte{'q', 'o', 'i', 'f'}

// EndMarker terminates every QOI stream.
var EndMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

var startPixel = Pixel{0, 0, 0, 255}
