package utils

import (
	"iter"

	"github.com/oomph-ac/pmove/oerror"
)

// CircularQueue is a fixed capacity FIFO. Appending to a full queue overwrites the oldest item.
type CircularQueue[T any] struct {
	items []T
	head  int
	size  int
}

func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Get returns the item at logical position index, 0 being the oldest.
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.size {
		return zero, oerror.New("circularqueue: get %d out of range (len=%d)", index, q.size)
	}
	return q.items[q.slot(index)], nil
}

// Set replaces the item at logical position index, 0 being the oldest.
func (q *CircularQueue[T]) Set(index int, item T) error {
	if index < 0 || index >= q.size {
		return oerror.New("circularqueue: set %d out of range (len=%d)", index, q.size)
	}
	q.items[q.slot(index)] = item
	return nil
}

// All iterates from the oldest item to the newest.
func (q *CircularQueue[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for index := range q.size {
			if !yield(index, q.items[q.slot(index)]) {
				return
			}
		}
	}
}

// Len returns the number of queued items.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Full reports whether the next Append will overwrite the oldest item.
func (q *CircularQueue[T]) Full() bool {
	return q.size == len(q.items)
}

// Peek returns the oldest item without removing it.
func (q *CircularQueue[T]) Peek() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// Pop removes and returns the oldest item. The boolean ok is false if the queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Append adds an item as the newest. It returns an error if the queue has zero capacity.
func (q *CircularQueue[T]) Append(item T) error {
	if len(q.items) == 0 {
		return oerror.New("circularqueue: append on zero-capacity queue")
	}
	if q.Full() {
		// Drop the oldest item to make room.
		q.head = (q.head + 1) % len(q.items)
		q.size--
	}
	q.items[q.slot(q.size)] = item
	q.size++
	return nil
}

// Clear removes every item.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head, q.size = 0, 0
}

func (q *CircularQueue[T]) slot(index int) int {
	return (q.head + index) % len(q.items)
}
