package listview

import (
	"strings"
)

// halfViewportDivisor centres the selection when the list is taller than the
// viewport.
const halfViewportDivisor = 2

// RenderFunc renders one row. selected marks the row under the cursor.
type RenderFunc[T any] func(item T, selected bool) string

// Model is a cursor over rows, scrolled so the selected row stays visible.
type Model[T any] struct {
	items    []T
	selected int

	// visibleFrom and visibleTo bound the rows in the viewport, visibleTo
	// exclusive.
	visibleFrom int
	visibleTo   int

	height int
}

// New creates a list over items showing at most height rows. A height below
// 1 shows every row.
func New[T any](items []T, height int) *Model[T] {
	m := &Model[T]{items: items, height: height}
	m.updateVisibleRange()
	return m
}

// SetItems replaces the rows, keeping the cursor on the same index when it
// still exists.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.SetSelected(m.selected)
}

// SetHeight changes the viewport height.
func (m *Model[T]) SetHeight(height int) {
	m.height = height
	m.updateVisibleRange()
}

// Up moves the cursor one row up and reports whether it moved.
func (m *Model[T]) Up() bool {
	if m.selected == 0 || len(m.items) == 0 {
		return false
	}
	m.selected--
	m.updateVisibleRange()
	return true
}

// Down moves the cursor one row down and reports whether it moved.
func (m *Model[T]) Down() bool {
	if m.selected >= len(m.items)-1 {
		return false
	}
	m.selected++
	m.updateVisibleRange()
	return true
}

// Top moves the cursor to the first row.
func (m *Model[T]) Top() { m.SetSelected(0) }

// SetSelected moves the cursor to index, clamped to the rows that exist.
func (m *Model[T]) SetSelected(index int) {
	switch {
	case len(m.items) == 0, index < 0:
		m.selected = 0
	case index >= len(m.items):
		m.selected = len(m.items) - 1
	default:
		m.selected = index
	}
	m.updateVisibleRange()
}

// Selected returns the cursor index.
func (m *Model[T]) Selected() int { return m.selected }

// SelectedItem returns the row under the cursor, or false for an empty list.
func (m *Model[T]) SelectedItem() (T, bool) {
	if len(m.items) == 0 {
		var zero T
		return zero, false
	}
	return m.items[m.selected], true
}

// Len returns the number of rows.
func (m *Model[T]) Len() int { return len(m.items) }

// VisibleRange returns the rows in the viewport as [from, to).
func (m *Model[T]) VisibleRange() (int, int) { return m.visibleFrom, m.visibleTo }

func (m *Model[T]) updateVisibleRange() {
	n := len(m.items)
	if n == 0 {
		m.visibleFrom, m.visibleTo = 0, 0
		return
	}
	if m.height < 1 || n <= m.height {
		m.visibleFrom, m.visibleTo = 0, n
		return
	}

	from := m.selected - m.height/halfViewportDivisor
	if from < 0 {
		from = 0
	}
	to := from + m.height
	if to > n {
		to = n
		from = to - m.height
	}
	m.visibleFrom, m.visibleTo = from, to
}

// View renders the rows in the viewport, one per line.
func (m *Model[T]) View(render RenderFunc[T]) string {
	if len(m.items) == 0 {
		return ""
	}
	lines := make([]string, 0, m.visibleTo-m.visibleFrom)
	for i := m.visibleFrom; i < m.visibleTo; i++ {
		lines = append(lines, render(m.items[i], i == m.selected))
	}
	return strings.Join(lines, "\n")
}
