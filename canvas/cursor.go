package canvas

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Brush footprint sizes. Size 2 anchors at the cursor tile's top-left;
// size 3 centers on the cursor tile. Matching the anchor rule here and in
// the paint tool is what keeps the outline and the resulting edit aligned.
const (
	BrushSize1 = 1
	BrushSize2 = 2
	BrushSize3 = 3
)

var defaultBrushColor = color.RGBA{0xff, 0xff, 0xff, 0xff}

// touchOffsetY lifts the cursor above the touch point so the finger does
// not cover the tile being painted. Mouse input uses no offset.
const touchOffsetY = 48.0

// BrushCursor tracks the hover position and renders the brush footprint as
// a dashed outline with an optional ghost of the selected tile. It holds
// screen-space state only; the paint tool derives the affected tiles from
// the same footprint rule.
type BrushCursor struct {
	size    int
	color   color.RGBA
	offsetY float64

	visible bool
	tile    TilePoint

	ghost *ebiten.Image

	ops []drawOp
}

// NewBrushCursor returns a hidden 1x1 cursor.
func NewBrushCursor() *BrushCursor {
	return &BrushCursor{
		size:    BrushSize1,
		color:   defaultBrushColor,
		offsetY: touchOffsetY,
	}
}

// SetSize sets the footprint size. Values outside 1..3 are clamped.
func (b *BrushCursor) SetSize(size int) {
	if size < BrushSize1 {
		size = BrushSize1
	}
	if size > BrushSize3 {
		size = BrushSize3
	}
	b.size = size
}

// Size returns the footprint size.
func (b *BrushCursor) Size() int { return b.size }

// SetColor sets the outline color.
func (b *BrushCursor) SetColor(c color.RGBA) { b.color = c }

// SetGhost sets the tile image previewed inside the footprint, or nil for
// outline only.
func (b *BrushCursor) SetGhost(img *ebiten.Image) { b.ghost = img }

// SetTouchOffset overrides the vertical lift applied to touch input.
func (b *BrushCursor) SetTouchOffset(px float64) { b.offsetY = px }

// Hide removes the cursor from the next frame.
func (b *BrushCursor) Hide() { b.visible = false }

// Visible reports whether the cursor will draw.
func (b *BrushCursor) Visible() bool { return b.visible }

// Tile returns the current anchor tile.
func (b *BrushCursor) Tile() TilePoint { return b.tile }

// MoveTo places the cursor under a screen position. Touch positions are
// lifted by the touch offset before the tile lookup; mouse positions map
// directly.
func (b *BrushCursor) MoveTo(vp Viewport, sx, sy float64, tileSize int, touch bool) {
	if touch {
		sy -= b.offsetY
	}
	b.tile = vp.ScreenToTile(sx, sy, tileSize)
	b.visible = true
}

// Footprint returns the inclusive tile range the brush covers at its
// current anchor.
func (b *BrushCursor) Footprint() TileRange {
	return BrushFootprint(b.tile, b.size)
}

// BrushFootprint applies the footprint anchor rule for a given size:
// 1x1 is the anchor tile, 2x2 extends right and down from the anchor,
// 3x3 centers on the anchor.
func BrushFootprint(anchor TilePoint, size int) TileRange {
	switch size {
	case BrushSize2:
		return TileRange{
			MinX: anchor.X, MaxX: anchor.X + 1,
			MinY: anchor.Y, MaxY: anchor.Y + 1,
		}
	case BrushSize3:
		return TileRange{
			MinX: anchor.X - 1, MaxX: anchor.X + 1,
			MinY: anchor.Y - 1, MaxY: anchor.Y + 1,
		}
	default:
		return TileRange{
			MinX: anchor.X, MaxX: anchor.X,
			MinY: anchor.Y, MaxY: anchor.Y,
		}
	}
}

// Dash geometry in screen pixels, before zoom.
const (
	dashLen   = 6.0
	dashGap   = 4.0
	dashThick = 2.0
)

// buildOps assembles the cursor's draw list: the ghost preview first, then
// the dashed outline around the footprint perimeter.
func (b *BrushCursor) buildOps(vp Viewport, tileSize int) []drawOp {
	b.ops = b.ops[:0]
	if !b.visible {
		return b.ops
	}
	fp := b.Footprint()
	cell := float64(tileSize) * vp.zoomOr1()
	x, y := vp.TileToScreen(fp.MinX, fp.MinY, tileSize)
	w := float64(fp.MaxX-fp.MinX+1) * cell
	h := float64(fp.MaxY-fp.MinY+1) * cell

	if b.ghost != nil {
		for ty := fp.MinY; ty <= fp.MaxY; ty++ {
			for tx := fp.MinX; tx <= fp.MaxX; tx++ {
				gx, gy := vp.TileToScreen(tx, ty, tileSize)
				b.ops = append(b.ops, drawOp{
					kind: opImage, img: b.ghost,
					x: gx, y: gy, w: cell, h: cell,
					alpha: 0.5,
				})
			}
		}
	}

	b.appendDashes(x, y, w, h)
	return b.ops
}

// appendDashes emits dash segments along the four edges of the rectangle.
func (b *BrushCursor) appendDashes(x, y, w, h float64) {
	step := dashLen + dashGap
	for dx := 0.0; dx < w; dx += step {
		seg := dashLen
		if dx+seg > w {
			seg = w - dx
		}
		b.ops = append(b.ops,
			drawOp{kind: opFill, x: x + dx, y: y, w: seg, h: dashThick, color: b.color, alpha: 1.0},
			drawOp{kind: opFill, x: x + dx, y: y + h - dashThick, w: seg, h: dashThick, color: b.color, alpha: 1.0},
		)
	}
	for dy := 0.0; dy < h; dy += step {
		seg := dashLen
		if dy+seg > h {
			seg = h - dy
		}
		b.ops = append(b.ops,
			drawOp{kind: opFill, x: x, y: y + dy, w: dashThick, h: seg, color: b.color, alpha: 1.0},
			drawOp{kind: opFill, x: x + w - dashThick, y: y + dy, w: dashThick, h: seg, color: b.color, alpha: 1.0},
		)
	}
}
