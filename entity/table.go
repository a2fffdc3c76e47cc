package entity

import (
	"iter"
	"sync"
)

type slot[T any] struct {
	generation uint32
	alive      bool
	value      T
}

// Table is an arena of entities addressed by generational handles. Slot 0 is reserved for
// the world. It is safe for concurrent readers; writers must not race with each other.
type Table[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
}

// NewTable returns an empty table with the world slot reserved.
func NewTable[T any]() *Table[T] {
	return &Table[T]{slots: []slot[T]{{generation: World.Generation, alive: true}}}
}

// Spawn stores v and returns a fresh handle to it.
func (t *Table[T]) Spawn(v T) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		s := &t.slots[idx]
		s.alive = true
		s.value = v
		return Handle{Index: idx, Generation: s.generation}
	}

	t.slots = append(t.slots, slot[T]{generation: 1, alive: true, value: v})
	return Handle{Index: uint32(len(t.slots) - 1), Generation: 1}
}

// Remove frees the slot h points at. Every outstanding handle to it stops resolving.
func (t *Table[T]) Remove(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if h.IsWorld() || !t.valid(h) {
		return false
	}
	s := &t.slots[h.Index]
	var zero T
	s.value = zero
	s.alive = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	t.free = append(t.free, h.Index)
	return true
}

// Get resolves h. The boolean is false for nil, stale or unknown handles.
func (t *Table[T]) Get(h Handle) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.valid(h) {
		var zero T
		return zero, false
	}
	return t.slots[h.Index].value, true
}

// Set replaces the value h points at. It returns false if h does not resolve.
func (t *Table[T]) Set(h Handle, v T) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.valid(h) {
		return false
	}
	t.slots[h.Index].value = v
	return true
}

// Valid reports whether h currently resolves.
func (t *Table[T]) Valid(h Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.valid(h)
}

// Len returns the number of live entities, excluding the world.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots) - 1 - len(t.free)
}

// All yields every live entity except the world in slot order. The table must not be
// written to while iterating.
func (t *Table[T]) All() iter.Seq2[Handle, T] {
	return func(yield func(Handle, T) bool) {
		t.mu.RLock()
		defer t.mu.RUnlock()

		for i := 1; i < len(t.slots); i++ {
			s := t.slots[i]
			if !s.alive {
				continue
			}
			if !yield(Handle{Index: uint32(i), Generation: s.generation}, s.value) {
				return
			}
		}
	}
}

func (t *Table[T]) valid(h Handle) bool {
	if h.IsNil() || int(h.Index) >= len(t.slots) {
		return false
	}
	s := t.slots[h.Index]
	return s.alive && s.generation == h.Generation
}
