// Package tools implements the editing tools driven by canvas tool
// gestures: paint, erase, and rectangular selection with move, plus the
// undo history and clipboard they share.
package tools

import "github.com/example/tilepad/scene"

// Delta records one undoable edit on a single layer as a map from cell
// index to the value the cell held before the edit. A whole stroke is one
// delta, so undo removes the stroke, not one cell at a time.
type Delta struct {
	Layer   string
	Changes map[int]int
}

// NewDelta starts an empty delta for a layer.
func NewDelta(layer string) *Delta {
	return &Delta{Layer: layer, Changes: make(map[int]int)}
}

// Record notes a cell's previous value before it is overwritten. Only the
// first write per cell is kept; later writes in the same stroke would
// otherwise clobber the true pre-stroke value.
func (d *Delta) Record(s *scene.Scene, x, y int) {
	if !s.InBounds(x, y) {
		return
	}
	idx := y*s.Width + x
	if _, ok := d.Changes[idx]; !ok {
		d.Changes[idx] = s.Get(d.Layer, x, y)
	}
}

// Empty reports whether the delta holds no changes.
func (d *Delta) Empty() bool { return len(d.Changes) == 0 }

// revert swaps the recorded values into the scene, returning the inverse
// delta for redo.
func (d *Delta) revert(s *scene.Scene) *Delta {
	inv := NewDelta(d.Layer)
	for idx, prev := range d.Changes {
		x, y := idx%s.Width, idx/s.Width
		inv.Changes[idx] = s.Get(d.Layer, x, y)
		s.Set(d.Layer, x, y, prev)
	}
	return inv
}

// History is a bounded undo/redo stack of deltas.
type History struct {
	depth int
	undo  []*Delta
	redo  []*Delta
}

// NewHistory creates a history keeping at most depth entries.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = 64
	}
	return &History{depth: depth}
}

// Push records a committed edit and clears the redo stack.
func (h *History) Push(d *Delta) {
	if d == nil || d.Empty() {
		return
	}
	h.undo = append(h.undo, d)
	if len(h.undo) > h.depth {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// Undo reverts the most recent edit. It reports whether anything changed.
func (h *History) Undo(s *scene.Scene) bool {
	if len(h.undo) == 0 {
		return false
	}
	d := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, d.revert(s))
	return true
}

// Redo reapplies the most recently undone edit.
func (h *History) Redo(s *scene.Scene) bool {
	if len(h.redo) == 0 {
		return false
	}
	d := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, d.revert(s))
	return true
}

// CanUndo reports whether an undo is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
