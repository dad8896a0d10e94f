package canvas

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/example/tilepad/scene"
)

// ImageSource resolves a (category, index) pair to a drawable tile image.
// A nil result means the image is missing or still loading; the renderer
// skips the cell and relies on the cache's load callback to trigger a
// redraw later.
type ImageSource interface {
	Get(category string, index int) *ebiten.Image
}

// LayerStyle is the flat fill used for mask layers (collision, triggers).
// Kept per-layer and injectable so themes can recolor them.
type LayerStyle struct {
	Fill color.RGBA
}

// GridConfig controls the tile-grid overlay.
type GridConfig struct {
	Enabled bool
	Color   color.RGBA
}

// SelectionOverlay is display-only state supplied by the selection tool:
// a bounds rectangle, an in-progress move offset in tiles, and optional
// ghost tiles previewing the moved content. The renderer draws it verbatim
// and attaches no meaning to it.
type SelectionOverlay struct {
	Bounds  TileRange
	MoveDX  int
	MoveDY  int
	Preview []PreviewTile
}

// PreviewTile is one ghost cell of a selection move preview.
type PreviewTile struct {
	X, Y  int
	Value int
}

// dimAlpha is the opacity applied to every layer except the active one.
const dimAlpha = 0.4

// Fixed overlay constants.
var (
	defaultHoverColor     = color.RGBA{0x80, 0x80, 0x80, 0x88}
	defaultGridColor      = color.RGBA{0xff, 0xff, 0xff, 0x22}
	defaultSelectionColor = color.RGBA{0xff, 0xd7, 0x00, 0xff}
	defaultCollisionStyle = LayerStyle{Fill: color.RGBA{0xff, 0x40, 0x40, 0x90}}
	defaultTriggersStyle  = LayerStyle{Fill: color.RGBA{0x40, 0xa0, 0xff, 0x90}}
)

type opKind int

const (
	opImage opKind = iota
	opFill
)

// drawOp is one pending draw call. The renderer accumulates ops for a frame
// and then flushes them to the target image; tests inspect the op list
// directly, which is how culling, dimming, and visibility are verified
// without a display.
type drawOp struct {
	kind  opKind
	layer string // originating scene layer, or "" for overlays
	img   *ebiten.Image
	x, y  float64
	w, h  float64
	color color.RGBA
	alpha float32
}

// Renderer composites a scene snapshot through a viewport. It holds the
// per-frame editing state the draw depends on (active layer, visibility,
// hover, selection) but never mutates the scene.
type Renderer struct {
	scene  *scene.Scene
	source ImageSource

	activeLayer string
	category    string
	visibility  map[string]bool
	locks       map[string]bool
	styles      map[string]LayerStyle
	grid        GridConfig

	hover     *TilePoint
	selection *SelectionOverlay

	generation uint64

	fillImg *ebiten.Image
	ops     []drawOp
}

// NewRenderer builds a renderer reading tile images from source.
func NewRenderer(source ImageSource) *Renderer {
	return &Renderer{
		source:      source,
		activeLayer: scene.LayerGround,
		visibility:  map[string]bool{},
		locks:       map[string]bool{},
		styles: map[string]LayerStyle{
			scene.LayerCollision: defaultCollisionStyle,
			scene.LayerTriggers:  defaultTriggersStyle,
		},
		grid: GridConfig{Color: defaultGridColor},
	}
}

// SetScene swaps the rendered scene reference.
func (r *Renderer) SetScene(s *scene.Scene) {
	r.scene = s
	r.Invalidate()
}

// Scene returns the current scene reference.
func (r *Renderer) Scene() *scene.Scene { return r.scene }

// SetActiveLayer marks the layer rendered at full opacity.
func (r *Renderer) SetActiveLayer(layer string) { r.activeLayer = layer }

// ActiveLayer returns the layer currently being edited.
func (r *Renderer) ActiveLayer() string { return r.activeLayer }

// SetCategory selects the tile category image cells resolve against.
func (r *Renderer) SetCategory(category string) { r.category = category }

// Category returns the selected paint category.
func (r *Renderer) Category() string { return r.category }

// SetVisibility replaces the per-layer visibility map. A layer absent from
// the map is visible.
func (r *Renderer) SetVisibility(vis map[string]bool) {
	r.visibility = map[string]bool{}
	for k, v := range vis {
		r.visibility[k] = v
	}
}

// SetLocks replaces the per-layer lock map. Locks are carried for the tool
// layer only; they never change what is drawn.
func (r *Renderer) SetLocks(locks map[string]bool) {
	r.locks = map[string]bool{}
	for k, v := range locks {
		r.locks[k] = v
	}
}

// Locked reports whether a layer is locked for editing.
func (r *Renderer) Locked(layer string) bool { return r.locks[layer] }

// SetLayerStyle overrides the flat fill for a mask layer.
func (r *Renderer) SetLayerStyle(layer string, style LayerStyle) {
	r.styles[layer] = style
}

// SetGrid replaces the grid overlay configuration.
func (r *Renderer) SetGrid(g GridConfig) {
	if g.Color.A == 0 && g.Color.R == 0 && g.Color.G == 0 && g.Color.B == 0 {
		g.Color = defaultGridColor
	}
	r.grid = g
}

// Grid returns the grid overlay configuration.
func (r *Renderer) Grid() GridConfig { return r.grid }

// SetHover updates the hover highlight. A tile outside the scene bounds is
// suppressed entirely rather than shown clamped to an edge; a highlight at
// a clamped position would suggest an edit is possible where it is not.
func (r *Renderer) SetHover(t *TilePoint) {
	if t != nil && r.scene != nil && !r.scene.InBounds(t.X, t.Y) {
		t = nil
	}
	r.hover = t
}

// SetSelection updates the display-only selection overlay.
func (r *Renderer) SetSelection(sel *SelectionOverlay) { r.selection = sel }

// Invalidate marks the rendered content stale. The scene is mutated in
// place by tools, so identity-based dirty checks would miss edits; callers
// bump this instead.
func (r *Renderer) Invalidate() { r.generation++ }

// Generation returns the invalidation counter. Two reads that differ mean
// the content was invalidated in between.
func (r *Renderer) Generation() uint64 { return r.generation }

// visible reports whether a layer should be drawn at all. Hidden layers
// produce zero draw ops; tools rely on hidden layers costing nothing.
func (r *Renderer) visible(layer string) bool {
	v, ok := r.visibility[layer]
	return !ok || v
}

// layerAlpha is 1.0 for the active layer and the dim constant otherwise,
// keeping the editing target visually distinct without hiding context.
func (r *Renderer) layerAlpha(layer string) float32 {
	if layer == r.activeLayer {
		return 1.0
	}
	return dimAlpha
}

// isMaskLayer reports whether cells render as flat colored rectangles
// instead of tile images.
func isMaskLayer(layer string) bool {
	return layer == scene.LayerCollision || layer == scene.LayerTriggers
}

// buildOps assembles the frame's draw list in fixed pipeline order: layers
// bottom-to-top with culling, then grid, then selection overlay, then the
// hover highlight on top at full opacity.
func (r *Renderer) buildOps(vp Viewport, canvasW, canvasH int) []drawOp {
	r.ops = r.ops[:0]
	if r.scene == nil {
		return r.ops
	}

	tileSize := r.scene.TileSize
	visRange := vp.VisibleTileRange(canvasW, canvasH, tileSize).Clamp(r.scene.Width, r.scene.Height)
	if visRange.Empty() {
		return r.ops
	}
	cell := float64(tileSize) * vp.zoomOr1()

	for _, layer := range scene.LayerOrder {
		if !r.visible(layer) {
			continue
		}
		alpha := r.layerAlpha(layer)
		grid := r.scene.Layers[layer]
		if grid == nil {
			continue
		}
		mask := isMaskLayer(layer)
		var style LayerStyle
		if mask {
			style = r.styles[layer]
		}
		for y := visRange.MinY; y <= visRange.MaxY; y++ {
			row := y * r.scene.Width
			for x := visRange.MinX; x <= visRange.MaxX; x++ {
				val := grid[row+x]
				if val == 0 {
					continue
				}
				sx, sy := vp.TileToScreen(x, y, tileSize)
				if mask {
					r.ops = append(r.ops, drawOp{
						kind: opFill, layer: layer,
						x: sx, y: sy, w: cell, h: cell,
						color: style.Fill, alpha: alpha,
					})
					continue
				}
				img := r.source.Get(r.category, val)
				if img == nil {
					// missing or still loading; redrawn on the load event
					continue
				}
				r.ops = append(r.ops, drawOp{
					kind: opImage, layer: layer,
					img: img, x: sx, y: sy, w: cell, h: cell,
					alpha: alpha,
				})
			}
		}
	}

	if r.grid.Enabled {
		r.appendGridOps(vp, visRange, tileSize, cell)
	}
	if r.selection != nil {
		r.appendSelectionOps(vp, tileSize, cell)
	}
	if r.hover != nil && r.scene.InBounds(r.hover.X, r.hover.Y) {
		sx, sy := vp.TileToScreen(r.hover.X, r.hover.Y, tileSize)
		r.ops = append(r.ops, drawOp{
			kind: opFill,
			x:    sx, y: sy, w: cell, h: cell,
			color: defaultHoverColor, alpha: 1.0,
		})
	}
	return r.ops
}

// appendGridOps draws grid lines across the visible range only.
func (r *Renderer) appendGridOps(vp Viewport, visRange TileRange, tileSize int, cell float64) {
	minSX, minSY := vp.TileToScreen(visRange.MinX, visRange.MinY, tileSize)
	w := float64(visRange.MaxX-visRange.MinX+1) * cell
	h := float64(visRange.MaxY-visRange.MinY+1) * cell
	for x := visRange.MinX; x <= visRange.MaxX+1; x++ {
		sx, _ := vp.TileToScreen(x, visRange.MinY, tileSize)
		r.ops = append(r.ops, drawOp{
			kind: opFill, x: sx, y: minSY, w: 1, h: h,
			color: r.grid.Color, alpha: 1.0,
		})
	}
	for y := visRange.MinY; y <= visRange.MaxY+1; y++ {
		_, sy := vp.TileToScreen(visRange.MinX, y, tileSize)
		r.ops = append(r.ops, drawOp{
			kind: opFill, x: minSX, y: sy, w: w, h: 1,
			color: r.grid.Color, alpha: 1.0,
		})
	}
}

// appendSelectionOps draws the selection border and, when a move preview is
// supplied, the ghost tiles at the move offset. The overlay always renders
// above layers and ignores active-layer dimming.
func (r *Renderer) appendSelectionOps(vp Viewport, tileSize int, cell float64) {
	sel := r.selection

	for _, pt := range sel.Preview {
		x := pt.X + sel.MoveDX
		y := pt.Y + sel.MoveDY
		if !r.scene.InBounds(x, y) {
			continue
		}
		img := r.source.Get(r.category, pt.Value)
		if img == nil {
			continue
		}
		sx, sy := vp.TileToScreen(x, y, tileSize)
		r.ops = append(r.ops, drawOp{
			kind: opImage, img: img,
			x: sx, y: sy, w: cell, h: cell,
			alpha: 0.5,
		})
	}

	bx := sel.Bounds.MinX + sel.MoveDX
	by := sel.Bounds.MinY + sel.MoveDY
	sx, sy := vp.TileToScreen(bx, by, tileSize)
	w := float64(sel.Bounds.MaxX-sel.Bounds.MinX+1) * cell
	h := float64(sel.Bounds.MaxY-sel.Bounds.MinY+1) * cell
	border := defaultSelectionColor
	const bw = 2.0
	edges := []drawOp{
		{kind: opFill, x: sx, y: sy, w: w, h: bw, color: border, alpha: 1.0},
		{kind: opFill, x: sx, y: sy + h - bw, w: w, h: bw, color: border, alpha: 1.0},
		{kind: opFill, x: sx, y: sy, w: bw, h: h, color: border, alpha: 1.0},
		{kind: opFill, x: sx + w - bw, y: sy, w: bw, h: h, color: border, alpha: 1.0},
	}
	r.ops = append(r.ops, edges...)
}

// Render draws one frame into dst.
func (r *Renderer) Render(dst *ebiten.Image, vp Viewport, canvasW, canvasH int) {
	ops := r.buildOps(vp, canvasW, canvasH)
	r.flush(dst, ops)
}

// flush executes the draw list against an Ebiten image. Fills are a 1px
// white image scaled and tinted through the color scale.
func (r *Renderer) flush(dst *ebiten.Image, ops []drawOp) {
	for i := range ops {
		o := &ops[i]
		switch o.kind {
		case opImage:
			if o.img == nil {
				continue
			}
			op := &ebiten.DrawImageOptions{}
			b := o.img.Bounds()
			op.GeoM.Scale(o.w/float64(b.Dx()), o.h/float64(b.Dy()))
			op.GeoM.Translate(o.x, o.y)
			op.Filter = ebiten.FilterNearest
			op.ColorScale.ScaleAlpha(o.alpha)
			dst.DrawImage(o.img, op)
		case opFill:
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(o.w, o.h)
			op.GeoM.Translate(o.x, o.y)
			op.ColorScale.ScaleWithColor(o.color)
			op.ColorScale.ScaleAlpha(o.alpha)
			dst.DrawImage(r.fillImage(), op)
		}
	}
}

// fillImage lazily creates the shared 1px white image used for every flat
// rectangle draw.
func (r *Renderer) fillImage() *ebiten.Image {
	if r.fillImg == nil {
		r.fillImg = ebiten.NewImage(1, 1)
		r.fillImg.Fill(color.White)
	}
	return r.fillImg
}
