package tools

import (
	"github.com/example/tilepad/canvas"
	"github.com/example/tilepad/scene"
)

// SelectTool manages a rectangular selection on the active layer. A drag
// outside the current selection rubber-bands a new rectangle; a drag that
// starts inside it moves the selected cells, previewed as ghosts and
// committed on release as a single undoable edit.
type SelectTool struct {
	bounds   canvas.TileRange
	active   bool
	layer    string
	overlay  func(*canvas.SelectionOverlay)

	anchor canvas.TilePoint
	moving bool
	moveDX int
	moveDY int
}

// NewSelectTool returns a selection tool publishing its overlay through
// setOverlay, normally Renderer.SetSelection.
func NewSelectTool(setOverlay func(*canvas.SelectionOverlay)) *SelectTool {
	return &SelectTool{overlay: setOverlay}
}

// Selection returns the current bounds and whether a selection exists.
func (t *SelectTool) Selection() (canvas.TileRange, bool) {
	return t.bounds, t.active
}

// Clear drops the selection and its overlay.
func (t *SelectTool) Clear() {
	t.active = false
	t.moving = false
	t.publish(nil, nil)
}

func (t *SelectTool) Start(ctx *Context, tile canvas.TilePoint) {
	t.anchor = tile
	if t.active && t.layer == ctx.Layer && t.contains(tile) {
		t.moving = true
		t.moveDX, t.moveDY = 0, 0
		t.publish(ctx, t.previewTiles(ctx))
		return
	}
	t.moving = false
	t.active = true
	t.layer = ctx.Layer
	t.bounds = canvas.TileRange{MinX: tile.X, MaxX: tile.X, MinY: tile.Y, MaxY: tile.Y}
	t.publish(ctx, nil)
}

func (t *SelectTool) Move(ctx *Context, tile canvas.TilePoint) {
	if !t.active {
		return
	}
	if t.moving {
		t.moveDX = tile.X - t.anchor.X
		t.moveDY = tile.Y - t.anchor.Y
		t.publish(ctx, t.previewTiles(ctx))
		return
	}
	t.bounds = rectBetween(t.anchor, tile)
	t.publish(ctx, nil)
}

func (t *SelectTool) End(ctx *Context, tile canvas.TilePoint) {
	if !t.active {
		return
	}
	if t.moving {
		t.Move(ctx, tile)
		t.commitMove(ctx)
		return
	}
	t.bounds = rectBetween(t.anchor, tile).Clamp(ctx.Scene.Width, ctx.Scene.Height)
	if t.bounds.Empty() {
		t.Clear()
		return
	}
	t.publish(ctx, nil)
}

func (t *SelectTool) contains(p canvas.TilePoint) bool {
	return p.X >= t.bounds.MinX && p.X <= t.bounds.MaxX &&
		p.Y >= t.bounds.MinY && p.Y <= t.bounds.MaxY
}

// commitMove applies the previewed move: clear the source cells, write the
// values at the offset, record both in one delta. The selection follows
// the moved content.
func (t *SelectTool) commitMove(ctx *Context) {
	t.moving = false
	if ctx.Locked || (t.moveDX == 0 && t.moveDY == 0) {
		t.moveDX, t.moveDY = 0, 0
		t.publish(ctx, nil)
		return
	}

	src := t.snapshot(ctx.Scene)
	delta := NewDelta(ctx.Layer)
	for _, cell := range src {
		delta.Record(ctx.Scene, cell.X, cell.Y)
		ctx.Scene.Set(ctx.Layer, cell.X, cell.Y, 0)
	}
	for _, cell := range src {
		x, y := cell.X+t.moveDX, cell.Y+t.moveDY
		if !ctx.Scene.InBounds(x, y) {
			continue
		}
		delta.Record(ctx.Scene, x, y)
		ctx.Scene.Set(ctx.Layer, x, y, cell.Value)
	}
	if ctx.History != nil {
		ctx.History.Push(delta)
	}

	t.bounds.MinX += t.moveDX
	t.bounds.MaxX += t.moveDX
	t.bounds.MinY += t.moveDY
	t.bounds.MaxY += t.moveDY
	t.bounds = t.bounds.Clamp(ctx.Scene.Width, ctx.Scene.Height)
	t.moveDX, t.moveDY = 0, 0
	if t.bounds.Empty() {
		t.active = false
		t.publish(nil, nil)
	} else {
		t.publish(ctx, nil)
	}
	ctx.changed()
}

type cellValue struct {
	X, Y  int
	Value int
}

// snapshot collects the non-empty cells inside the selection.
func (t *SelectTool) snapshot(s *scene.Scene) []cellValue {
	var cells []cellValue
	b := t.bounds.Clamp(s.Width, s.Height)
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			if v := s.Get(t.layer, x, y); v != 0 {
				cells = append(cells, cellValue{X: x, Y: y, Value: v})
			}
		}
	}
	return cells
}

// previewTiles builds the ghost cells for the in-progress move.
func (t *SelectTool) previewTiles(ctx *Context) []canvas.PreviewTile {
	var tiles []canvas.PreviewTile
	for _, cell := range t.snapshot(ctx.Scene) {
		tiles = append(tiles, canvas.PreviewTile{X: cell.X, Y: cell.Y, Value: cell.Value})
	}
	return tiles
}

// publish pushes the overlay state to the renderer. A nil ctx clears it.
func (t *SelectTool) publish(ctx *Context, preview []canvas.PreviewTile) {
	if t.overlay == nil {
		return
	}
	if ctx == nil || !t.active {
		t.overlay(nil)
		return
	}
	t.overlay(&canvas.SelectionOverlay{
		Bounds:  t.bounds,
		MoveDX:  t.moveDX,
		MoveDY:  t.moveDY,
		Preview: preview,
	})
	ctx.changed()
}

// rectBetween normalizes two corner tiles into an inclusive range.
func rectBetween(a, b canvas.TilePoint) canvas.TileRange {
	r := canvas.TileRange{MinX: a.X, MaxX: b.X, MinY: a.Y, MaxY: b.Y}
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}
