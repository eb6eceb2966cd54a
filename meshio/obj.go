package meshio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadOBJ parses the v and f records of an OBJ stream. Face corners may use
// the v, v/vt, v//vn and v/vt/vn forms, and negative indices count back from
// the last position read. Every other record is ignored.
func ReadOBJ(r io.Reader) (*Mesh, error) {
	m := &Mesh{}
	sc := bufio.NewScanner(r)
	line := 0
	var corners []uint32
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: vertex needs 3 coordinates", ErrImport, line)
			}
			for _, s := range fields[1:4] {
				v, err := strconv.ParseFloat(s, 32)
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", ErrImport, line, err)
				}
				m.Positions = append(m.Positions, float32(v))
			}
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w: line %d: face needs 3 corners", ErrImport, line)
			}
			corners = corners[:0]
			for _, s := range fields[1:] {
				idx, err := parseCorner(s, m.PositionCount())
				if err != nil {
					return nil, fmt.Errorf("%w: line %d: %w", ErrImport, line, err)
				}
				corners = append(corners, idx)
			}
			for i := 1; i+1 < len(corners); i++ {
				m.Indices = append(m.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrImport, err)
	}
	if m.PositionCount() == 0 || len(m.Indices) == 0 {
		return nil, fmt.Errorf("%w: no geometry", ErrImport)
	}
	return m, nil
}

func parseCorner(s string, count int) (uint32, error) {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("corner %q: %w", s, err)
	}
	switch {
	case n > 0 && n <= count:
		return uint32(n - 1), nil //nolint:gosec // bounded by count
	case n < 0 && -n <= count:
		return uint32(count + n), nil //nolint:gosec // bounded by count
	}
	return 0, fmt.Errorf("corner %d out of range (%d positions)", n, count)
}
