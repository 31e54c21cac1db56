package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type plyProperty struct {
	name string
	list bool
}

type plyElement struct {
	name  string
	count int
	props []plyProperty
}

// ReadPLY parses an ASCII PLY stream. Binary PLY is rejected with
// ErrUnsupportedFormat.
func ReadPLY(r io.Reader) (Mesh, error) {
	br := bufio.NewReader(r)

	elements, err := readPLYHeader(br)
	if err != nil {
		return Mesh{}, err
	}

	tok := bufio.NewScanner(br)
	tok.Buffer(make([]byte, 4096), maxLineSize)
	tok.Split(bufio.ScanWords)
	next := func() (string, error) {
		if !tok.Scan() {
			if err := tok.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("%w: unexpected end of data", ErrMalformed)
		}
		return tok.Text(), nil
	}

	var m Mesh
	for _, el := range elements {
		for i := 0; i < el.count; i++ {
			var pos [3]float64
			for _, p := range el.props {
				if p.list {
					poly, err := readPLYList(next)
					if err != nil {
						return Mesh{}, err
					}
					if el.name == "face" && (p.name == "vertex_indices" || p.name == "vertex_index") {
						if len(poly) < 3 {
							return Mesh{}, fmt.Errorf("%w: face %d needs 3 corners", ErrMalformed, i)
						}
						m.Faces = append(m.Faces, fan(poly)...)
					}
					continue
				}

				s, err := next()
				if err != nil {
					return Mesh{}, err
				}
				if el.name != "vertex" {
					continue
				}
				axis := strings.IndexByte("xyz", p.name[0])
				if len(p.name) != 1 || axis < 0 {
					continue
				}
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return Mesh{}, fmt.Errorf("%w: vertex %d: %v", ErrMalformed, i, err)
				}
				pos[axis] = f
			}
			if el.name == "vertex" {
				m.Vertices = append(m.Vertices, r3.Vec{X: pos[0], Y: pos[1], Z: pos[2]})
			}
		}
	}

	if err := m.Validate(); err != nil {
		return Mesh{}, err
	}
	return m, nil
}

func readPLYHeader(br *bufio.Reader) ([]plyElement, error) {
	var (
		elements []plyElement
		ascii    bool
	)

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return nil, fmt.Errorf("%w: header ended early", ErrMalformed)
		}
		fields := strings.Fields(line)

		if lineNo == 1 {
			if len(fields) != 1 || fields[0] != "ply" {
				return nil, fmt.Errorf("%w: missing ply magic", ErrMalformed)
			}
			continue
		}
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "format":
			if len(fields) < 2 || fields[1] != "ascii" {
				return nil, fmt.Errorf("%w: ply format %q", ErrUnsupportedFormat, strings.Join(fields[1:], " "))
			}
			ascii = true
		case "element":
			if len(fields) != 3 {
				return nil, fmt.Errorf("%w: header line %d", ErrMalformed, lineNo)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: element count %q", ErrMalformed, fields[2])
			}
			elements = append(elements, plyElement{name: fields[1], count: n})
		case "property":
			if len(elements) == 0 || len(fields) < 3 {
				return nil, fmt.Errorf("%w: header line %d", ErrMalformed, lineNo)
			}
			el := &elements[len(elements)-1]
			el.props = append(el.props, plyProperty{
				name: fields[len(fields)-1],
				list: fields[1] == "list",
			})
		case "end_header":
			if !ascii {
				return nil, fmt.Errorf("%w: ply without format line", ErrMalformed)
			}
			return elements, nil
		}

		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: header ended early", ErrMalformed)
		}
	}
}

func readPLYList(next func() (string, error)) ([]int, error) {
	s, err := next()
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: list length %q", ErrMalformed, s)
	}
	out := make([]int, n)
	for i := range out {
		s, err := next()
		if err != nil {
			return nil, err
		}
		if out[i], err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("%w: list entry %q", ErrMalformed, s)
		}
	}
	return out, nil
}

// WritePLY writes m as ASCII PLY with double precision positions.
func WritePLY(w io.Writer, m Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	if m.Name != "" {
		fmt.Fprintf(bw, "comment %s\n", m.Name)
	}
	fmt.Fprintf(bw, "element vertex %d\n", len(m.Vertices))
	fmt.Fprintln(bw, "property double x")
	fmt.Fprintln(bw, "property double y")
	fmt.Fprintln(bw, "property double z")
	fmt.Fprintf(bw, "element face %d\n", len(m.Faces))
	fmt.Fprintln(bw, "property list uchar int vertex_indices")
	fmt.Fprintln(bw, "end_header")

	buf := make([]byte, 0, 96)
	for _, v := range m.Vertices {
		buf = strconv.AppendFloat(buf[:0], v.X, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Y, 'g', -1, 64)
		buf = append(buf, ' ')
		buf = strconv.AppendFloat(buf, v.Z, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	for _, f := range m.Faces {
		if _, err := fmt.Fprintf(bw, "3 %d %d %d\n", f[0], f[1], f[2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
