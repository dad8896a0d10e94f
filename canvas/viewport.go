package canvas

import "math"

// Zoom limits for the canvas view.
const (
	MinZoom = 0.25
	MaxZoom = 8.0
)

// Viewport is the pan/zoom transform mapping tile space to screen space.
// It is a value type: transforms return a new Viewport and never mutate the
// receiver, so callers can hold a snapshot without it changing underneath
// them.
type Viewport struct {
	PanX float64
	PanY float64
	Zoom float64
}

// NewViewport returns the default identity view.
func NewViewport() Viewport {
	return Viewport{Zoom: 1.0}
}

// TilePoint is an integer tile coordinate.
type TilePoint struct {
	X int
	Y int
}

// TileRange is an inclusive rectangle of tile coordinates.
type TileRange struct {
	MinX, MaxX int
	MinY, MaxY int
}

// ScreenToTile inverse-transforms a screen pixel to the tile under it.
// Fractional positions floor toward negative infinity so tiles left/above
// the origin resolve correctly.
func (v Viewport) ScreenToTile(sx, sy float64, tileSize int) TilePoint {
	scale := float64(tileSize) * v.zoomOr1()
	return TilePoint{
		X: int(math.Floor((sx - v.PanX) / scale)),
		Y: int(math.Floor((sy - v.PanY) / scale)),
	}
}

// TileToScreen forward-transforms a tile coordinate to the screen position
// of its top-left corner.
func (v Viewport) TileToScreen(tx, ty int, tileSize int) (float64, float64) {
	scale := float64(tileSize) * v.zoomOr1()
	return float64(tx)*scale + v.PanX, float64(ty)*scale + v.PanY
}

// Pan shifts the view by a screen-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.PanX += dx
	v.PanY += dy
	return v
}

// ZoomAt scales the zoom by factor, clamped to [MinZoom, MaxZoom], keeping
// the content under the screen anchor (ax, ay) fixed. Scaling without the
// pan correction makes the map slide away from the pinch center.
func (v Viewport) ZoomAt(factor, ax, ay float64) Viewport {
	oldZoom := v.zoomOr1()
	// content-space point under the anchor before the zoom change
	cx := (ax - v.PanX) / oldZoom
	cy := (ay - v.PanY) / oldZoom

	newZoom := oldZoom * factor
	if newZoom < MinZoom {
		newZoom = MinZoom
	}
	if newZoom > MaxZoom {
		newZoom = MaxZoom
	}

	v.Zoom = newZoom
	v.PanX = ax - cx*newZoom
	v.PanY = ay - cy*newZoom
	return v
}

// VisibleTileRange returns the inclusive tile range intersecting a canvas of
// the given pixel size, expanded by one tile of margin so sub-pixel panning
// never flickers a row in and out at the edge.
func (v Viewport) VisibleTileRange(canvasW, canvasH, tileSize int) TileRange {
	tl := v.ScreenToTile(0, 0, tileSize)
	// the bottom-right corner is the last pixel, not the one past it
	br := v.ScreenToTile(float64(canvasW-1), float64(canvasH-1), tileSize)
	return TileRange{
		MinX: tl.X - 1,
		MinY: tl.Y - 1,
		MaxX: br.X + 1,
		MaxY: br.Y + 1,
	}
}

// Clamp intersects the range with a scene of w x h tiles. The result may be
// empty (MinX > MaxX) when the view is entirely off the scene.
func (r TileRange) Clamp(w, h int) TileRange {
	if r.MinX < 0 {
		r.MinX = 0
	}
	if r.MinY < 0 {
		r.MinY = 0
	}
	if r.MaxX > w-1 {
		r.MaxX = w - 1
	}
	if r.MaxY > h-1 {
		r.MaxY = h - 1
	}
	return r
}

// Empty reports whether the range contains no tiles.
func (r TileRange) Empty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

func (v Viewport) zoomOr1() float64 {
	if v.Zoom == 0 {
		return 1.0
	}
	return v.Zoom
}
