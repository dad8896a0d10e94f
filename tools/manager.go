package tools

import (
	"github.com/example/tilepad/canvas"
)

// Kind identifies an editing tool.
type Kind int

const (
	KindBrush Kind = iota
	KindErase
	KindFill
	KindSelect
)

func (k Kind) String() string {
	switch k {
	case KindBrush:
		return "brush"
	case KindErase:
		return "erase"
	case KindFill:
		return "fill"
	case KindSelect:
		return "select"
	default:
		return "unknown"
	}
}

// Manager routes canvas tool gestures to the active tool and owns the
// shared editing state: selected tile value, undo history, selection, and
// clipboard. It is the ToolGestureFunc sink the canvas controller calls.
type Manager struct {
	controller *canvas.Controller
	history    *History
	clipboard  *Clipboard

	brush  *PaintTool
	erase  *PaintTool
	fill   *FillTool
	sel    *SelectTool
	active Kind

	value int
}

// NewManager wires the tool set to a canvas controller.
func NewManager(ctrl *canvas.Controller, undoDepth int) *Manager {
	m := &Manager{
		controller: ctrl,
		history:    NewHistory(undoDepth),
		clipboard:  NewClipboard(),
		brush:      NewPaintTool(),
		erase:      NewEraseTool(),
		fill:       NewFillTool(),
		value:      1,
	}
	m.sel = NewSelectTool(ctrl.Renderer().SetSelection)
	ctrl.OnToolGesture(m.handleGesture)
	m.syncBrushPreview()
	return m
}

// SetActive switches the current tool. Switching away from select keeps
// the selection visible; only picking a new rectangle replaces it.
func (m *Manager) SetActive(k Kind) {
	m.active = k
	m.syncBrushPreview()
}

// Active returns the current tool kind.
func (m *Manager) Active() Kind { return m.active }

// SetValue sets the tile index painted by brush and fill.
func (m *Manager) SetValue(v int) {
	if v < 0 {
		v = 0
	}
	m.value = v
	m.syncBrushPreview()
}

// syncBrushPreview keeps the cursor ghost showing what a stroke would
// stamp: the selected tile for the brush, nothing for the other tools.
func (m *Manager) syncBrushPreview() {
	if m.active == KindBrush {
		m.controller.SetBrushValue(m.value)
	} else {
		m.controller.SetBrushValue(0)
	}
}

// Value returns the selected tile index.
func (m *Manager) Value() int { return m.value }

// History exposes the undo stack for UI state.
func (m *Manager) History() *History { return m.history }

// Selection exposes the selection tool for clipboard operations.
func (m *Manager) Selection() *SelectTool { return m.sel }

// Undo reverts the latest edit and redraws.
func (m *Manager) Undo() bool {
	sc := m.controller.Scene()
	if sc == nil || !m.history.Undo(sc) {
		return false
	}
	m.controller.Invalidate()
	return true
}

// Redo reapplies the latest undone edit and redraws.
func (m *Manager) Redo() bool {
	sc := m.controller.Scene()
	if sc == nil || !m.history.Redo(sc) {
		return false
	}
	m.controller.Invalidate()
	return true
}

// Copy puts the current selection on the clipboard.
func (m *Manager) Copy() error {
	sc := m.controller.Scene()
	bounds, ok := m.sel.Selection()
	if sc == nil || !ok {
		return nil
	}
	return m.clipboard.Copy(sc, m.controller.Renderer().ActiveLayer(), bounds)
}

// Paste stamps the clipboard at the selection's top-left, or the origin
// when nothing is selected.
func (m *Manager) Paste() error {
	sc := m.controller.Scene()
	if sc == nil {
		return nil
	}
	at := canvas.TilePoint{}
	if bounds, ok := m.sel.Selection(); ok {
		at = canvas.TilePoint{X: bounds.MinX, Y: bounds.MinY}
	}
	err := m.clipboard.Paste(sc, m.controller.Renderer().ActiveLayer(), at, m.history)
	if err == nil {
		m.controller.Invalidate()
	}
	return err
}

// context snapshots the live editing state for one tool callback.
func (m *Manager) context() *Context {
	r := m.controller.Renderer()
	return &Context{
		Scene:     m.controller.Scene(),
		Layer:     r.ActiveLayer(),
		Locked:    r.Locked(r.ActiveLayer()),
		Value:     m.value,
		BrushSize: m.controller.Cursor().Size(),
		History:   m.history,
		Changed:   m.controller.Invalidate,
	}
}

func (m *Manager) tool() Tool {
	switch m.active {
	case KindErase:
		return m.erase
	case KindFill:
		return m.fill
	case KindSelect:
		return m.sel
	default:
		return m.brush
	}
}

// handleGesture is the canvas ToolGestureFunc. A long-press switches to
// the select tool in place, so press-and-hold starts a selection without
// a toolbar trip.
func (m *Manager) handleGesture(phase canvas.ToolPhase, tile canvas.TilePoint, x, y float64) {
	ctx := m.context()
	if ctx.Scene == nil {
		return
	}
	switch phase {
	case canvas.ToolStart:
		m.tool().Start(ctx, tile)
	case canvas.ToolMove:
		m.tool().Move(ctx, tile)
	case canvas.ToolEnd:
		m.tool().End(ctx, tile)
	case canvas.ToolLongPress:
		m.active = KindSelect
		m.syncBrushPreview()
		m.sel.Start(ctx, tile)
	}
}
