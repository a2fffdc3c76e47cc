package entity

import "fmt"

// Handle is a weak reference to an entity stored in a Table. A handle stays comparable and
// copyable after its entity is removed; it simply stops resolving once the slot it points at
// has been reused, because the slot's generation no longer matches.
type Handle struct {
	Index      uint32
	Generation uint32
}

// Nil is the zero handle. It never resolves.
var Nil Handle

// World is the reserved handle of the static world geometry. It is valid in every Table.
var World = Handle{Index: 0, Generation: 1}

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool {
	return h.Generation == 0
}

// IsWorld reports whether h refers to the static world.
func (h Handle) IsWorld() bool {
	return h == World
}

func (h Handle) String() string {
	switch {
	case h.IsNil():
		return "entity(nil)"
	case h.IsWorld():
		return "entity(world)"
	}
	return fmt.Sprintf("entity(%d#%d)", h.Index, h.Generation)
}
