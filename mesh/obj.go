package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/meshq/vertex"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxLineSize = 1 << 20

// ReadOBJ parses a Wavefront OBJ stream. Only "v" and "f" records are used.
func ReadOBJ(r io.Reader) (Mesh, error) {
	var m Mesh

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return Mesh{}, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrMalformed, lineNo)
			}
			var p [vertex.Axes]float64
			for a := range p {
				f, err := strconv.ParseFloat(fields[a+1], 64)
				if err != nil {
					return Mesh{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				p[a] = f
			}
			m.Vertices = append(m.Vertices, r3.Vec{X: p[0], Y: p[1], Z: p[2]})
		case "f":
			poly := make([]int, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := objIndex(ref, len(m.Vertices))
				if err != nil {
					return Mesh{}, fmt.Errorf("%w: line %d: %v", ErrMalformed, lineNo, err)
				}
				poly = append(poly, idx)
			}
			if len(poly) < 3 {
				return Mesh{}, fmt.Errorf("%w: line %d: face needs 3 corners", ErrMalformed, lineNo)
			}
			m.Faces = append(m.Faces, fan(poly)...)
		}
	}
	if err := scanner.Err(); err != nil {
		return Mesh{}, err
	}

	if err := m.Validate(); err != nil {
		return Mesh{}, err
	}
	return m, nil
}

// objIndex resolves a face corner "v", "v/vt", "v//vn" or "v/vt/vn" to a
// zero-based position index. Negative indices count back from the last
// vertex read so far.
func objIndex(ref string, seen int) (int, error) {
	pos, _, _ := strings.Cut(ref, "/")
	i, err := strconv.Atoi(pos)
	if err != nil {
		return 0, fmt.Errorf("face index %q: %w", ref, err)
	}
	switch {
	case i > 0:
		return i - 1, nil
	case i < 0:
		return seen + i, nil
	default:
		return 0, fmt.Errorf("face index %q: zero is not a valid index", ref)
	}
}

// WriteOBJ writes m as OBJ with shortest round-trip float formatting.
func WriteOBJ(w io.Writer, m Mesh) error {
	bw := bufio.NewWriter(w)

	if m.Name != "" {
		if _, err := fmt.Fprintf(bw, "o %s\n", m.Name); err != nil {
			return err
		}
	}

	buf := make([]byte, 0, 96)
	for _, v := range m.Vertices {
		buf = append(buf[:0], 'v')
		for _, c := range [vertex.Axes]float64{v.X, v.Y, v.Z} {
			buf = append(buf, ' ')
			buf = strconv.AppendFloat(buf, c, 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	for _, f := range m.Faces {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f[0]+1, f[1]+1, f[2]+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}
