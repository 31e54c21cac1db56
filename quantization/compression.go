package quantization

import (
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compressor of a code stream.
type Compression uint8

const (
	// CompressionNone stores the packed codes as-is.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses ZSTD (better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "zstd".
func ParseCompression(name string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZSTD, nil
	default:
		return 0, fmt.Errorf("quantization: unknown compression %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// squeeze compresses packed with c. When c does not save at least an eighth of
// the input, the packed bytes are kept and CompressionNone is reported, so
// the stream header always names the codec its body needs.
func squeeze(packed []byte, c Compression) (Compression, []byte, error) {
	var body []byte
	switch c {
	case CompressionNone:
		return CompressionNone, packed, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(packed)))
		n, err := lz4.CompressBlock(packed, dst, nil)
		if err != nil {
			return 0, nil, fmt.Errorf("quantization: lz4: %w", err)
		}
		// n == 0 means lz4 found nothing to compress.
		body = dst[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		body = enc.EncodeAll(packed, nil)
		zstdEncoderPool.Put(enc)
	default:
		return 0, nil, fmt.Errorf("quantization: unknown compression %d", c)
	}

	if len(body) == 0 || len(body) > len(packed)-len(packed)/8 {
		return CompressionNone, packed, nil
	}
	return c, body, nil
}

// expand restores exactly size packed bytes from body.
func expand(body []byte, c Compression, size int) ([]byte, error) {
	switch c {
	case CompressionNone:
		if len(body) != size {
			return nil, fmt.Errorf("stored body has %d bytes, want %d", len(body), size)
		}
		return body, nil
	case CompressionLZ4:
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(body, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("lz4 body expands to %d bytes, want %d", n, size)
		}
		return dst, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		if len(out) != size {
			return nil, fmt.Errorf("zstd body expands to %d bytes, want %d", len(out), size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}
