package tools

import "github.com/example/tilepad/canvas"

// FillTool flood-fills the contiguous region of cells matching the tapped
// cell's value. The whole fill is one undoable delta. Move and End are
// no-ops; the fill happens on Start so a tap is enough.
type FillTool struct{}

// NewFillTool returns a flood-fill tool.
func NewFillTool() *FillTool { return &FillTool{} }

func (t *FillTool) Start(ctx *Context, tile canvas.TilePoint) {
	if ctx.Locked || !ctx.Scene.InBounds(tile.X, tile.Y) {
		return
	}
	target := ctx.Scene.Get(ctx.Layer, tile.X, tile.Y)
	if target == ctx.Value {
		return
	}

	delta := NewDelta(ctx.Layer)
	stack := []canvas.TilePoint{tile}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !ctx.Scene.InBounds(p.X, p.Y) || ctx.Scene.Get(ctx.Layer, p.X, p.Y) != target {
			continue
		}
		delta.Record(ctx.Scene, p.X, p.Y)
		ctx.Scene.Set(ctx.Layer, p.X, p.Y, ctx.Value)
		stack = append(stack,
			canvas.TilePoint{X: p.X + 1, Y: p.Y},
			canvas.TilePoint{X: p.X - 1, Y: p.Y},
			canvas.TilePoint{X: p.X, Y: p.Y + 1},
			canvas.TilePoint{X: p.X, Y: p.Y - 1},
		)
	}
	if ctx.History != nil {
		ctx.History.Push(delta)
	}
	ctx.changed()
}

func (t *FillTool) Move(ctx *Context, tile canvas.TilePoint) {}

func (t *FillTool) End(ctx *Context, tile canvas.TilePoint) {}
