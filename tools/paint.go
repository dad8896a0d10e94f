package tools

import (
	"github.com/example/tilepad/canvas"
	"github.com/example/tilepad/scene"
)

// Context is the editing state a tool acts against for one gesture. The
// manager rebuilds it per callback so tools never hold stale layer or
// brush settings.
type Context struct {
	Scene     *scene.Scene
	Layer     string
	Locked    bool
	Value     int
	BrushSize int
	History   *History
	Changed   func()
}

func (c *Context) changed() {
	if c.Changed != nil {
		c.Changed()
	}
}

// Tool handles one disambiguated gesture from start to end.
type Tool interface {
	Start(ctx *Context, tile canvas.TilePoint)
	Move(ctx *Context, tile canvas.TilePoint)
	End(ctx *Context, tile canvas.TilePoint)
}

// PaintTool stamps the brush footprint with the selected tile value. With
// value 0 it is the eraser; the stroke mechanics are identical.
type PaintTool struct {
	Erase bool

	delta *Delta
}

// NewPaintTool returns a painting tool.
func NewPaintTool() *PaintTool { return &PaintTool{} }

// NewEraseTool returns a tool that clears cells.
func NewEraseTool() *PaintTool { return &PaintTool{Erase: true} }

func (t *PaintTool) value(ctx *Context) int {
	if t.Erase {
		return 0
	}
	return ctx.Value
}

func (t *PaintTool) Start(ctx *Context, tile canvas.TilePoint) {
	if ctx.Locked {
		return
	}
	t.delta = NewDelta(ctx.Layer)
	t.stamp(ctx, tile)
}

func (t *PaintTool) Move(ctx *Context, tile canvas.TilePoint) {
	if t.delta == nil {
		return
	}
	t.stamp(ctx, tile)
}

func (t *PaintTool) End(ctx *Context, tile canvas.TilePoint) {
	if t.delta == nil {
		return
	}
	t.stamp(ctx, tile)
	if ctx.History != nil {
		ctx.History.Push(t.delta)
	}
	t.delta = nil
}

// stamp writes the footprint at the tile, recording previous values first.
// Out-of-bounds cells are skipped by the scene.
func (t *PaintTool) stamp(ctx *Context, tile canvas.TilePoint) {
	fp := canvas.BrushFootprint(tile, ctx.BrushSize)
	val := t.value(ctx)
	wrote := false
	for y := fp.MinY; y <= fp.MaxY; y++ {
		for x := fp.MinX; x <= fp.MaxX; x++ {
			if ctx.Scene.Get(ctx.Layer, x, y) == val {
				continue
			}
			t.delta.Record(ctx.Scene, x, y)
			if ctx.Scene.Set(ctx.Layer, x, y, val) {
				wrote = true
			}
		}
	}
	if wrote {
		ctx.changed()
	}
}
