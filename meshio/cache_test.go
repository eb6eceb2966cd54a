package meshio

import (
	"errors"
	"testing"
)

func TestCachingImporter(t *testing.T) {
	calls := map[string]int{}
	inner := ImporterFunc(func(path string) (*Mesh, error) {
		calls[path]++
		if path == "bad.obj" {
			return nil, ErrImport
		}
		return &Mesh{Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}}, nil
	})
	c := NewCachingImporter(inner, 4)

	a, err := c.Import("a.obj")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Import("a.obj")
	if a != b || calls["a.obj"] != 1 {
		t.Errorf("second import hit the inner importer (%d calls)", calls["a.obj"])
	}

	for range 2 {
		if _, err := c.Import("bad.obj"); !errors.Is(err, ErrImport) {
			t.Errorf("err = %v, want ErrImport", err)
		}
	}
	if calls["bad.obj"] != 2 {
		t.Errorf("failed import cached: %d calls", calls["bad.obj"])
	}

	c.Forget("a.obj")
	_, _ = c.Import("a.obj")
	if calls["a.obj"] != 2 {
		t.Errorf("Forget did not drop a.obj: %d calls", calls["a.obj"])
	}
	if st := c.Stats(); st.Len != 1 || st.Hits != 1 {
		t.Errorf("Stats = %+v", st)
	}
}
