package mesh

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/meshq/blobstore"
)

// Decode parses data in format f.
func Decode(f Format, r io.Reader) (Mesh, error) {
	switch f {
	case FormatOBJ:
		return ReadOBJ(r)
	case FormatPLY:
		return ReadPLY(r)
	default:
		return Mesh{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
}

// Encode serializes m in the format implied by name.
func Encode(name string, m Mesh) ([]byte, error) {
	f, err := FormatOf(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch f {
	case FormatOBJ:
		err = WriteOBJ(&buf, m)
	case FormatPLY:
		err = WritePLY(&buf, m)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load reads the mesh stored under name. The mesh is named after the file stem.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (Mesh, error) {
	f, err := FormatOf(name)
	if err != nil {
		return Mesh{}, err
	}

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return Mesh{}, fmt.Errorf("mesh: read %s: %w", name, err)
	}

	m, err := Decode(f, bytes.NewReader(data))
	if err != nil {
		return Mesh{}, fmt.Errorf("mesh: %s: %w", name, err)
	}
	m.Name = Stem(name)
	return m, nil
}

// Export writes m under name, replacing any existing blob.
func Export(ctx context.Context, store blobstore.BlobStore, name string, m Mesh) error {
	data, err := Encode(name, m)
	if err != nil {
		return err
	}
	return store.Put(ctx, name, data)
}
