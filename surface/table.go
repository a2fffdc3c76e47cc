package surface

import "github.com/oomph-ac/pmove/oerror"

// Table is an in-memory Provider. Index 0 is always Default.
type Table struct {
	samples []Sample
	byName  map[string]int
}

// NewTable returns a table holding only the default surface.
func NewTable() *Table {
	return &Table{samples: []Sample{Default}, byName: map[string]int{Default.Name: 0}}
}

// Add registers s and returns its index. Names must be unique.
func (t *Table) Add(s Sample) (int, error) {
	if s.Name == "" {
		return 0, oerror.New("surface must have a name")
	}
	if _, ok := t.byName[s.Name]; ok {
		return 0, oerror.New("duplicate surface %q", s.Name)
	}
	if s.JumpFactor == 0 {
		s.JumpFactor = 1
	}
	if s.Material == 0 {
		s.Material = MaterialDefault
	}
	t.samples = append(t.samples, s)
	t.byName[s.Name] = len(t.samples) - 1
	return len(t.samples) - 1, nil
}

// Index returns the index registered for name.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.byName[name]
	return i, ok
}

// Surface implements Provider.
func (t *Table) Surface(index int) (Sample, bool) {
	if index < 0 || index >= len(t.samples) {
		return Sample{}, false
	}
	return t.samples[index], true
}

// Len returns the number of registered surfaces, including the default.
func (t *Table) Len() int {
	return len(t.samples)
}
