// Package history keeps a bounded linear undo/redo sequence of grid snapshots.
//
// Entries live in a fixed ring of slots whose packed buffers are reused once
// the ring is full. The cursor is a logical index, 0 being the oldest entry
// still held, so evicting the oldest entry shifts every index by one and the
// cursor keeps naming the same entry.
package history

import (
	"github.com/sheikhrachel/go-gol/model"
)

// DefaultCapacity is the number of entries kept when no capacity is given
const DefaultCapacity = 50

// Entry is a restored (grid, generation) pair. Grid is owned by the caller.
type Entry struct {
	Grid       *model.Grid
	Generation int
}

type slot struct {
	snap       model.Snapshot
	generation int
}

// Manager is a bounded undo/redo stack
type Manager struct {
	slots  []slot
	head   int // ring index of the oldest entry
	length int
	cursor int
}

// New creates a manager holding at most capacity entries
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{slots: make([]slot, capacity)}
}

func (m *Manager) ring(i int) int {
	return (m.head + i) % len(m.slots)
}

// Record appends a snapshot of g after the cursor. Entries past the cursor are
// discarded, and the oldest entry is evicted when the manager is full.
func (m *Manager) Record(g *model.Grid, generation int) {
	if m.length > 0 {
		m.length = m.cursor + 1
	}
	if m.length == len(m.slots) {
		m.head = m.ring(1)
		m.length--
	}

	s := &m.slots[m.ring(m.length)]
	s.snap.PackFrom(g)
	s.generation = generation

	m.length++
	m.cursor = m.length - 1
}

func (m *Manager) entry(i int) Entry {
	s := m.slots[m.ring(i)]
	return Entry{Grid: s.snap.Unpack(), Generation: s.generation}
}

// Undo moves the cursor back one entry and returns it
func (m *Manager) Undo() (Entry, bool) {
	if !m.CanUndo() {
		return Entry{}, false
	}
	m.cursor--
	return m.entry(m.cursor), true
}

// Redo moves the cursor forward one entry and returns it
func (m *Manager) Redo() (Entry, bool) {
	if !m.CanRedo() {
		return Entry{}, false
	}
	m.cursor++
	return m.entry(m.cursor), true
}

// Current returns the entry under the cursor
func (m *Manager) Current() (Entry, bool) {
	if m.length == 0 {
		return Entry{}, false
	}
	return m.entry(m.cursor), true
}

func (m *Manager) CanUndo() bool { return m.length > 0 && m.cursor > 0 }

func (m *Manager) CanRedo() bool { return m.length > 0 && m.cursor < m.length-1 }

// Len returns the number of stored entries
func (m *Manager) Len() int { return m.length }

// Cap returns the maximum number of stored entries
func (m *Manager) Cap() int { return len(m.slots) }

// Cursor returns the logical index of the current entry, -1 when empty
func (m *Manager) Cursor() int {
	if m.length == 0 {
		return -1
	}
	return m.cursor
}

// Reset drops every entry. Slot buffers are kept for reuse.
func (m *Manager) Reset() {
	m.head, m.length, m.cursor = 0, 0, 0
}
