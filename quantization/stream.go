package quantization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/bits"

	"github.com/hupe1980/meshq/internal/conv"
	"github.com/hupe1980/meshq/internal/hash"
	"github.com/hupe1980/meshq/vertex"
)

// ErrCorruptStream is returned when a code stream cannot be decoded.
var ErrCorruptStream = errors.New("quantization: corrupt code stream")

// Stream header (little-endian):
//
//	[magic "MQC1"][compression uint8][bitsPerCode uint8][reserved uint16]
//	[bins uint32][vertices uint32][crc32c uint32]
//
// followed by the bit-packed codes, x y z per vertex, compressed with the
// codec named in the header. The packed size is ceil(vertices*3*bitsPerCode/8)
// and is not stored. The checksum covers the packed codes before compression.
const (
	streamMagic      = "MQC1"
	streamHeaderSize = 20
)

// BitsPerCode returns the number of bits needed for codes in [0, bins-1].
func BitsPerCode(bins int) int {
	return max(1, bits.Len(uint(bins-1)))
}

// Encode packs the codes into a self-describing, optionally compressed stream.
// A compressor that does not pay off is dropped and the stream is stored.
func (c Codes) Encode(comp Compression) ([]byte, error) {
	if err := ValidateBins(c.Bins); err != nil {
		return nil, err
	}
	n, err := conv.IntToUint32(len(c.Values))
	if err != nil {
		return nil, fmt.Errorf("quantization: vertex count: %w", err)
	}
	width := BitsPerCode(c.Bins)
	packed := packCodes(c.Values, width)

	used, body, err := squeeze(packed, comp)
	if err != nil {
		return nil, err
	}

	out := make([]byte, streamHeaderSize, streamHeaderSize+len(body))
	copy(out, streamMagic)
	out[4] = byte(used)
	out[5] = byte(width)
	binary.LittleEndian.PutUint32(out[8:], uint32(c.Bins))
	binary.LittleEndian.PutUint32(out[12:], n)
	binary.LittleEndian.PutUint32(out[16:], hash.CRC32C(packed))
	return append(out, body...), nil
}

// DecodeCodes parses a stream produced by Codes.Encode.
func DecodeCodes(data []byte) (Codes, error) {
	if len(data) < streamHeaderSize || string(data[:4]) != streamMagic {
		return Codes{}, fmt.Errorf("%w: bad header", ErrCorruptStream)
	}
	comp := Compression(data[4])
	width := int(data[5])
	bins := int(binary.LittleEndian.Uint32(data[8:]))
	n, err := conv.Uint32ToInt(binary.LittleEndian.Uint32(data[12:]))
	if err != nil {
		return Codes{}, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}
	sum := binary.LittleEndian.Uint32(data[16:])
	if err := ValidateBins(bins); err != nil {
		return Codes{}, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}
	if width != BitsPerCode(bins) {
		return Codes{}, fmt.Errorf("%w: width %d for %d bins", ErrCorruptStream, width, bins)
	}

	packed, err := expand(data[streamHeaderSize:], comp, (n*vertex.Axes*width+7)/8)
	if err != nil {
		return Codes{}, fmt.Errorf("%w: %w", ErrCorruptStream, err)
	}
	if hash.CRC32C(packed) != sum {
		return Codes{}, fmt.Errorf("%w: checksum mismatch", ErrCorruptStream)
	}

	values := unpackCodes(packed, n, width)
	top := uint32(bins - 1)
	for i := range values {
		for a := 0; a < vertex.Axes; a++ {
			if values[i][a] > top {
				return Codes{}, fmt.Errorf("%w: code %d out of range", ErrCorruptStream, values[i][a])
			}
		}
	}
	return Codes{Bins: bins, Values: values}, nil
}

func packCodes(values [][vertex.Axes]uint32, width int) []byte {
	out := make([]byte, (len(values)*vertex.Axes*width+7)/8)
	pos := 0
	for _, v := range values {
		for _, code := range v {
			for b := 0; b < width; b++ {
				if code&(1<<uint(b)) != 0 {
					out[pos>>3] |= 1 << uint(pos&7)
				}
				pos++
			}
		}
	}
	return out
}

func unpackCodes(data []byte, n, width int) [][vertex.Axes]uint32 {
	values := make([][vertex.Axes]uint32, n)
	pos := 0
	for i := range values {
		for a := 0; a < vertex.Axes; a++ {
			var code uint32
			for b := 0; b < width; b++ {
				if data[pos>>3]&(1<<uint(pos&7)) != 0 {
					code |= 1 << uint(b)
				}
				pos++
			}
			values[i][a] = code
		}
	}
	return values
}
