package quantization

import (
	"testing"

	"github.com/hupe1980/meshq/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodes_EncodeDecode(t *testing.T) {
	cloud := testutil.NewRNG(4711).UniformCloud(1000, 0, 1)

	for _, bins := range []int{2, 7, 1024, 4097} {
		codes, err := Quantize(cloud, bins)
		require.NoError(t, err)

		for _, comp := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
			data, err := codes.Encode(comp)
			require.NoError(t, err, "bins=%d %s", bins, comp)

			got, err := DecodeCodes(data)
			require.NoError(t, err, "bins=%d %s", bins, comp)
			assert.Equal(t, codes, got, "bins=%d %s", bins, comp)
		}
	}
}

func TestCodes_EncodeCompressesLowEntropy(t *testing.T) {
	codes := Codes{Bins: 1024, Values: make([][3]uint32, 4096)}
	for i := range codes.Values {
		codes.Values[i] = [3]uint32{7, 7, 7}
	}

	raw, err := codes.Encode(CompressionNone)
	require.NoError(t, err)
	packed, err := codes.Encode(CompressionZSTD)
	require.NoError(t, err)

	assert.Less(t, len(packed), len(raw)/2)
	assert.Equal(t, byte(CompressionZSTD), packed[4])
}

func TestCodes_EncodeStoresIncompressible(t *testing.T) {
	cloud := testutil.NewRNG(99).UniformCloud(500, 0, 1)
	codes, err := Quantize(cloud, 1<<20)
	require.NoError(t, err)

	raw, err := codes.Encode(CompressionNone)
	require.NoError(t, err)
	data, err := codes.Encode(CompressionLZ4)
	require.NoError(t, err)

	assert.Equal(t, byte(CompressionNone), data[4])
	assert.Equal(t, raw, data)

	got, err := DecodeCodes(data)
	require.NoError(t, err)
	assert.Equal(t, codes, got)
}

func TestBitsPerCode(t *testing.T) {
	assert.Equal(t, 1, BitsPerCode(2))
	assert.Equal(t, 2, BitsPerCode(3))
	assert.Equal(t, 10, BitsPerCode(1024))
	assert.Equal(t, 11, BitsPerCode(1025))
}

func TestDecodeCodes_Corrupt(t *testing.T) {
	codes := Codes{Bins: 4, Values: [][3]uint32{{0, 1, 2}, {3, 3, 3}}}
	data, err := codes.Encode(CompressionNone)
	require.NoError(t, err)

	_, err = DecodeCodes(data[:10])
	assert.ErrorIs(t, err, ErrCorruptStream)

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	_, err = DecodeCodes(bad)
	assert.ErrorIs(t, err, ErrCorruptStream)

	_, err = DecodeCodes(data[:len(data)-1])
	assert.ErrorIs(t, err, ErrCorruptStream)

	_, err = DecodeCodes(append(append([]byte(nil), data...), 0))
	assert.ErrorIs(t, err, ErrCorruptStream)

	unknown := append([]byte(nil), data...)
	unknown[4] = 9
	_, err = DecodeCodes(unknown)
	assert.ErrorIs(t, err, ErrCorruptStream)

	// Flipping an unused padding bit still breaks the checksum.
	flipped := append([]byte(nil), data...)
	flipped[len(flipped)-1] ^= 0x80
	_, err = DecodeCodes(flipped)
	assert.ErrorIs(t, err, ErrCorruptStream)
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZSTD, c)

	c, err = ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)

	_, err = ParseCompression("brotli")
	assert.Error(t, err)
}
