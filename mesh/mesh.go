package mesh

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/hupe1980/meshq/vertex"
)

var (
	// ErrNoFaces is returned when a mesh file decodes to zero faces.
	ErrNoFaces = errors.New("mesh: no faces")
	// ErrUnsupportedFormat is returned for file extensions other than .obj and .ply.
	ErrUnsupportedFormat = errors.New("mesh: unsupported format")
	// ErrMalformed is returned when a file cannot be parsed.
	ErrMalformed = errors.New("mesh: malformed file")
)

// Face is a triangle given as zero-based vertex indices.
type Face [3]int

// Mesh is a vertex set plus the triangles that connect it.
type Mesh struct {
	Name     string
	Vertices vertex.Set
	Faces    []Face
}

// WithVertices returns a copy of m whose vertex set is replaced by v.
// Faces are shared; they are never modified.
func (m Mesh) WithVertices(v vertex.Set) Mesh {
	m.Vertices = v
	return m
}

// Validate checks that the mesh has faces and that every face index is in range.
func (m Mesh) Validate() error {
	if len(m.Faces) == 0 {
		return ErrNoFaces
	}
	n := len(m.Vertices)
	for i, f := range m.Faces {
		for _, idx := range f {
			if idx < 0 || idx >= n {
				return fmt.Errorf("%w: face %d references vertex %d of %d", ErrMalformed, i, idx, n)
			}
		}
	}
	return nil
}

// Stem returns the base name of p without its extension.
func Stem(p string) string {
	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// RelPath returns p as a clean slash-separated path relative to its store
// root. Volume names, leading slashes and leading ".." elements are dropped.
func RelPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if len(p) >= 2 && p[1] == ':' {
		p = p[2:]
	}
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// Key identifies the outputs of the mesh stored at p: its relative path
// without extension. Meshes with different keys never share an output name.
func Key(p string) string {
	rel := RelPath(p)
	return strings.TrimSuffix(rel, path.Ext(rel))
}

// Format is a supported mesh file format.
type Format int

const (
	FormatOBJ Format = iota
	FormatPLY
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "obj"
	case FormatPLY:
		return "ply"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatOf derives the format from the extension of name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".obj":
		return FormatOBJ, nil
	case ".ply":
		return FormatPLY, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// fan splits a polygon into triangles sharing its first corner.
func fan(poly []int) []Face {
	if len(poly) < 3 {
		return nil
	}
	faces := make([]Face, 0, len(poly)-2)
	for i := 1; i+1 < len(poly); i++ {
		faces = append(faces, Face{poly[0], poly[i], poly[i+1]})
	}
	return faces
}
