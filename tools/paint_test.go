package tools

import (
	"testing"

	"github.com/example/tilepad/canvas"
	"github.com/example/tilepad/scene"
)

func paintCtx(s *scene.Scene, h *History) *Context {
	return &Context{
		Scene:     s,
		Layer:     scene.LayerGround,
		Value:     4,
		BrushSize: 1,
		History:   h,
	}
}

func TestPaintStrokeIsOneUndo(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	h := NewHistory(8)
	ctx := paintCtx(s, h)

	p := NewPaintTool()
	p.Start(ctx, canvas.TilePoint{X: 1, Y: 1})
	p.Move(ctx, canvas.TilePoint{X: 2, Y: 1})
	p.Move(ctx, canvas.TilePoint{X: 3, Y: 1})
	p.End(ctx, canvas.TilePoint{X: 3, Y: 1})

	for x := 1; x <= 3; x++ {
		if s.Get(scene.LayerGround, x, 1) != 4 {
			t.Fatalf("cell (%d, 1) not painted", x)
		}
	}

	h.Undo(s)
	for x := 1; x <= 3; x++ {
		if s.Get(scene.LayerGround, x, 1) != 0 {
			t.Errorf("cell (%d, 1) survived a single undo", x)
		}
	}
}

func TestPaintRespectsBrushFootprint(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	ctx := paintCtx(s, nil)
	ctx.BrushSize = 3

	p := NewPaintTool()
	p.Start(ctx, canvas.TilePoint{X: 3, Y: 3})
	p.End(ctx, canvas.TilePoint{X: 3, Y: 3})

	painted := 0
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if s.Get(scene.LayerGround, x, y) != 0 {
				painted++
				if x < 2 || x > 4 || y < 2 || y > 4 {
					t.Errorf("cell (%d, %d) outside the 3x3 centered footprint", x, y)
				}
			}
		}
	}
	if painted != 9 {
		t.Errorf("painted %d cells, want 9", painted)
	}
}

func TestPaintFootprintClipsAtEdge(t *testing.T) {
	s := scene.New("test", 4, 4, 32)
	ctx := paintCtx(s, nil)
	ctx.BrushSize = 3

	p := NewPaintTool()
	p.Start(ctx, canvas.TilePoint{X: 0, Y: 0})
	p.End(ctx, canvas.TilePoint{X: 0, Y: 0})

	painted := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if s.Get(scene.LayerGround, x, y) != 0 {
				painted++
			}
		}
	}
	// footprint centered at the corner: only the 2x2 in-bounds part lands
	if painted != 4 {
		t.Errorf("painted %d cells, want 4", painted)
	}
}

func TestLockedLayerRejectsStroke(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	h := NewHistory(8)
	ctx := paintCtx(s, h)
	ctx.Locked = true

	p := NewPaintTool()
	p.Start(ctx, canvas.TilePoint{X: 1, Y: 1})
	p.Move(ctx, canvas.TilePoint{X: 2, Y: 1})
	p.End(ctx, canvas.TilePoint{X: 2, Y: 1})

	if s.Get(scene.LayerGround, 1, 1) != 0 || s.Get(scene.LayerGround, 2, 1) != 0 {
		t.Error("locked layer was painted")
	}
	if h.CanUndo() {
		t.Error("locked stroke entered the history")
	}
}

func TestEraseClearsCells(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	s.Set(scene.LayerGround, 2, 2, 9)
	ctx := paintCtx(s, nil)

	e := NewEraseTool()
	e.Start(ctx, canvas.TilePoint{X: 2, Y: 2})
	e.End(ctx, canvas.TilePoint{X: 2, Y: 2})

	if s.Get(scene.LayerGround, 2, 2) != 0 {
		t.Error("cell not erased")
	}
}

func TestFillReplacesRegion(t *testing.T) {
	s := scene.New("test", 6, 6, 32)
	// a wall splitting the scene
	for y := 0; y < 6; y++ {
		s.Set(scene.LayerGround, 3, y, 9)
	}
	h := NewHistory(8)
	ctx := paintCtx(s, h)
	ctx.Value = 2

	f := NewFillTool()
	f.Start(ctx, canvas.TilePoint{X: 0, Y: 0})

	// left of the wall filled, wall and right side untouched
	if s.Get(scene.LayerGround, 1, 5) != 2 {
		t.Error("left region not filled")
	}
	if s.Get(scene.LayerGround, 3, 2) != 9 {
		t.Error("wall overwritten")
	}
	if s.Get(scene.LayerGround, 5, 5) != 0 {
		t.Error("fill leaked past the wall")
	}

	h.Undo(s)
	if s.Get(scene.LayerGround, 1, 5) != 0 {
		t.Error("fill not undone in one step")
	}
}

func TestFillNoOpOnSameValue(t *testing.T) {
	s := scene.New("test", 4, 4, 32)
	h := NewHistory(8)
	ctx := paintCtx(s, h)
	ctx.Value = 0

	f := NewFillTool()
	f.Start(ctx, canvas.TilePoint{X: 0, Y: 0})
	if h.CanUndo() {
		t.Error("no-op fill entered the history")
	}
}

func TestSelectDragSetsBounds(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	var overlay *canvas.SelectionOverlay
	sel := NewSelectTool(func(o *canvas.SelectionOverlay) { overlay = o })
	ctx := paintCtx(s, nil)

	sel.Start(ctx, canvas.TilePoint{X: 5, Y: 5})
	sel.Move(ctx, canvas.TilePoint{X: 2, Y: 3})
	sel.End(ctx, canvas.TilePoint{X: 2, Y: 3})

	bounds, ok := sel.Selection()
	if !ok {
		t.Fatal("no selection after drag")
	}
	want := canvas.TileRange{MinX: 2, MaxX: 5, MinY: 3, MaxY: 5}
	if bounds != want {
		t.Errorf("bounds = %+v, want %+v (normalized)", bounds, want)
	}
	if overlay == nil || overlay.Bounds != want {
		t.Errorf("overlay not published: %+v", overlay)
	}
}

func TestSelectMoveCommitsCells(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	s.Set(scene.LayerGround, 1, 1, 7)
	h := NewHistory(8)
	ctx := paintCtx(s, h)

	sel := NewSelectTool(func(*canvas.SelectionOverlay) {})
	// select the single cell
	sel.Start(ctx, canvas.TilePoint{X: 1, Y: 1})
	sel.End(ctx, canvas.TilePoint{X: 1, Y: 1})
	// drag from inside the selection two tiles right
	sel.Start(ctx, canvas.TilePoint{X: 1, Y: 1})
	sel.Move(ctx, canvas.TilePoint{X: 3, Y: 1})
	sel.End(ctx, canvas.TilePoint{X: 3, Y: 1})

	if s.Get(scene.LayerGround, 1, 1) != 0 {
		t.Error("source cell not cleared")
	}
	if s.Get(scene.LayerGround, 3, 1) != 7 {
		t.Error("cell not moved to destination")
	}

	// the selection follows the content
	bounds, ok := sel.Selection()
	if !ok || bounds.MinX != 3 || bounds.MinY != 1 {
		t.Errorf("selection did not follow the move: %+v", bounds)
	}

	h.Undo(s)
	if s.Get(scene.LayerGround, 1, 1) != 7 || s.Get(scene.LayerGround, 3, 1) != 0 {
		t.Error("move not undone in one step")
	}
}

func TestSelectClear(t *testing.T) {
	s := scene.New("test", 8, 8, 32)
	var overlay *canvas.SelectionOverlay
	sel := NewSelectTool(func(o *canvas.SelectionOverlay) { overlay = o })
	ctx := paintCtx(s, nil)

	sel.Start(ctx, canvas.TilePoint{X: 1, Y: 1})
	sel.End(ctx, canvas.TilePoint{X: 2, Y: 2})
	sel.Clear()

	if _, ok := sel.Selection(); ok {
		t.Error("selection survived Clear")
	}
	if overlay != nil {
		t.Error("overlay not cleared")
	}
}
