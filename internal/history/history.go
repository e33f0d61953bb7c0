// Package history keeps a bounded linear undo stack of surface snapshots.
package history

import "image"

// DefaultLimit is the number of snapshots kept before the oldest is evicted.
const DefaultLimit = 50

// Entry is an immutable snapshot of the persistent surface.
type Entry struct {
	img *image.RGBA
}

// NewEntry wraps img. The caller must not modify img afterwards.
func NewEntry(img *image.RGBA) Entry {
	return Entry{img: img}
}

// Image returns the snapshot pixels. They must be treated as read-only.
func (e Entry) Image() *image.RGBA {
	return e.img
}

// Manager is a capped snapshot stack with a current position. Pushing while
// not at the top discards the redo branch. It is not safe for concurrent use.
type Manager struct {
	entries []Entry
	current int
	limit   int
}

// New creates a Manager holding only initial. A limit below 1 selects
// DefaultLimit.
func New(initial Entry, limit int) *Manager {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Manager{
		entries: []Entry{initial},
		limit:   limit,
	}
}

// Push discards any entries above the current one, appends e and makes it
// current. When the stack exceeds the limit the oldest entry is evicted.
func (m *Manager) Push(e Entry) {
	m.entries = append(m.entries[:m.current+1], e)
	m.current = len(m.entries) - 1

	if len(m.entries) > m.limit {
		m.entries[0] = Entry{}
		m.entries = m.entries[1:]
		m.current--
	}
}

// Undo moves one entry back and returns it. ok is false at the bottom.
func (m *Manager) Undo() (e Entry, ok bool) {
	if m.current == 0 {
		return Entry{}, false
	}
	m.current--
	return m.entries[m.current], true
}

// Redo moves one entry forward and returns it. ok is false at the top.
func (m *Manager) Redo() (e Entry, ok bool) {
	if m.current >= len(m.entries)-1 {
		return Entry{}, false
	}
	m.current++
	return m.entries[m.current], true
}

// Current returns the entry at the current position.
func (m *Manager) Current() Entry {
	return m.entries[m.current]
}

// Len returns the number of entries held.
func (m *Manager) Len() int { return len(m.entries) }

// Index returns the current position.
func (m *Manager) Index() int { return m.current }

// Limit returns the maximum number of entries.
func (m *Manager) Limit() int { return m.limit }

// CanUndo reports whether Undo would succeed.
func (m *Manager) CanUndo() bool { return m.current > 0 }

// CanRedo reports whether Redo would succeed.
func (m *Manager) CanRedo() bool { return m.current < len(m.entries)-1 }
