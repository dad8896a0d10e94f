// Package canvas is the touch-first tile-map editing surface: a pan/zoom
// viewport, a gesture router that separates navigation from tool strokes,
// a culled layer renderer, and a brush cursor, tied together by the
// Controller's dirty-flag render loop.
package canvas

import (
	"image/color"
	"log"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/example/tilepad/scene"
	"github.com/example/tilepad/tiles"
)

// ToolPhase tags a forwarded tool gesture callback.
type ToolPhase int

const (
	ToolStart ToolPhase = iota
	ToolMove
	ToolEnd
	ToolLongPress
)

func (p ToolPhase) String() string {
	switch p {
	case ToolStart:
		return "start"
	case ToolMove:
		return "move"
	case ToolEnd:
		return "end"
	case ToolLongPress:
		return "long_press"
	default:
		return "unknown"
	}
}

// ToolGestureFunc receives disambiguated tool gestures in canvas-local
// coordinates, with the tile the brush resolves to. The tile honors the
// touch offset, so painting lands where the cursor shows.
type ToolGestureFunc func(phase ToolPhase, tile TilePoint, x, y float64)

// ViewportFunc receives debounced viewport snapshots for persistence.
type ViewportFunc func(Viewport)

// Pan deltas below this are dropped entirely; touch midpoints jitter at
// sub-pixel scale even when the fingers are still.
const panEpsilon = 0.01

const defaultViewportDebounce = 500 * time.Millisecond

// wheelZoomStep converts one scroll notch into a zoom factor for desktop.
const wheelZoomStep = 0.1

// ControllerOptions tunes a Controller at construction. Zero values mean
// defaults.
type ControllerOptions struct {
	Gesture          GestureConfig
	ViewportDebounce time.Duration

	// ScheduleFrame is invoked when content becomes dirty while no frame
	// is pending. The default is a no-op because the Ebiten run loop draws
	// continuously; an on-demand loop injects its wake-up here.
	ScheduleFrame func()
}

// Controller owns the canvas frame loop. All methods must be called from
// the game loop goroutine except Invalidate, which tile loads call from
// loader goroutines.
type Controller struct {
	viewport   Viewport
	router     *GestureRouter
	source     *PointerSource
	renderer   *Renderer
	cursor     *BrushCursor
	cache      *tiles.Cache
	cancelLoad func()

	offscreen     *ebiten.Image
	width, height int
	brushValue    int

	mu            sync.Mutex
	dirty         bool
	framePending  bool
	scheduleFrame func()

	onViewport       ViewportFunc
	viewportDebounce time.Duration
	viewportDueAt    time.Time

	onTool    ToolGestureFunc
	lastTouch bool
	now       time.Time

	destroyed bool
}

// NewController wires the canvas components around a scene and tile cache.
func NewController(sc *scene.Scene, cache *tiles.Cache, opts ControllerOptions) *Controller {
	if opts.ViewportDebounce <= 0 {
		opts.ViewportDebounce = defaultViewportDebounce
	}
	if opts.ScheduleFrame == nil {
		opts.ScheduleFrame = func() {}
	}

	c := &Controller{
		viewport:         NewViewport(),
		source:           NewPointerSource(),
		renderer:         NewRenderer(cache),
		cursor:           NewBrushCursor(),
		cache:            cache,
		scheduleFrame:    opts.ScheduleFrame,
		viewportDebounce: opts.ViewportDebounce,
	}
	c.renderer.SetScene(sc)
	c.router = NewGestureRouter(opts.Gesture, GestureCallbacks{
		OnPan:       c.applyPan,
		OnZoom:      c.applyZoom,
		OnToolStart: func(x, y float64) { c.forwardTool(ToolStart, x, y) },
		OnToolMove:  func(x, y float64) { c.forwardTool(ToolMove, x, y) },
		OnToolEnd:   func(x, y float64) { c.forwardTool(ToolEnd, x, y) },
		OnLongPress: func(x, y float64) { c.forwardTool(ToolLongPress, x, y) },
	})
	c.cancelLoad = cache.OnLoad(func(string, int) { c.Invalidate() })
	c.markDirty()
	return c
}

// Viewport returns the current view transform.
func (c *Controller) Viewport() Viewport { return c.viewport }

// SetViewport replaces the view transform, as when restoring a persisted
// view. The change is not debounced back out through OnViewportChange.
func (c *Controller) SetViewport(v Viewport) {
	if v.Zoom == 0 {
		v.Zoom = 1.0
	}
	c.viewport = v
	c.markDirty()
}

// Renderer exposes the layer renderer for overlay state the tools own
// (selection, hover styling).
func (c *Controller) Renderer() *Renderer { return c.renderer }

// Cursor exposes the brush cursor.
func (c *Controller) Cursor() *BrushCursor { return c.cursor }

// TileCache returns the shared tile image cache.
func (c *Controller) TileCache() *tiles.Cache { return c.cache }

// SetScene swaps the edited scene.
func (c *Controller) SetScene(sc *scene.Scene) {
	c.renderer.SetScene(sc)
	c.markDirty()
}

// Scene returns the edited scene.
func (c *Controller) Scene() *scene.Scene { return c.renderer.Scene() }

// SetActiveLayer changes the full-opacity editing layer.
func (c *Controller) SetActiveLayer(layer string) {
	c.renderer.SetActiveLayer(layer)
	c.markDirty()
}

// SetSelectedCategory changes the tile category cells resolve against.
func (c *Controller) SetSelectedCategory(category string) {
	c.renderer.SetCategory(category)
	c.markDirty()
}

// SetVisibility replaces layer visibility flags.
func (c *Controller) SetVisibility(vis map[string]bool) {
	c.renderer.SetVisibility(vis)
	c.markDirty()
}

// SetLocks replaces layer lock flags.
func (c *Controller) SetLocks(locks map[string]bool) {
	c.renderer.SetLocks(locks)
}

// SetGrid replaces the grid overlay configuration.
func (c *Controller) SetGrid(g GridConfig) {
	c.renderer.SetGrid(g)
	c.markDirty()
}

// ToggleGrid flips grid visibility.
func (c *Controller) ToggleGrid() {
	g := c.renderer.Grid()
	g.Enabled = !g.Enabled
	c.renderer.SetGrid(g)
	c.markDirty()
}

// SetBrushSize sets the brush footprint size (1..3).
func (c *Controller) SetBrushSize(size int) {
	c.cursor.SetSize(size)
	c.markDirty()
}

// SetBrushColor sets the brush outline color.
func (c *Controller) SetBrushColor(col color.RGBA) {
	c.cursor.SetColor(col)
	c.markDirty()
}

// SetBrushValue sets the tile index the cursor previews as a ghost inside
// its footprint. Zero clears the preview, leaving the dashed outline only.
func (c *Controller) SetBrushValue(v int) {
	if v < 0 {
		v = 0
	}
	c.brushValue = v
	c.markDirty()
}

// BrushValue returns the previewed tile index.
func (c *Controller) BrushValue() int { return c.brushValue }

// refreshGhost re-resolves the ghost image from the cache. Resolving per
// cursor move means a tile that finishes loading mid-session shows up
// without any extra plumbing.
func (c *Controller) refreshGhost() {
	c.cursor.SetGhost(c.cache.Get(c.renderer.Category(), c.brushValue))
}

// OnViewportChange registers the persistence callback. It fires after the
// viewport has been stable for the debounce window, never per pan frame.
func (c *Controller) OnViewportChange(fn ViewportFunc) { c.onViewport = fn }

// OnToolGesture registers the tool gesture sink.
func (c *Controller) OnToolGesture(fn ToolGestureFunc) { c.onTool = fn }

// Invalidate marks the scene content stale and requests a redraw. Safe to
// call from any goroutine.
func (c *Controller) Invalidate() {
	c.renderer.Invalidate()
	c.markDirty()
}

// PreloadCategories starts background loads for tile categories. Load
// completion invalidates the canvas per image, so tiles pop in as they
// arrive.
func (c *Controller) PreloadCategories(basePath string, categories ...string) {
	for _, cat := range categories {
		cat := cat
		done := c.cache.PreloadCategory(cat, basePath)
		go func() {
			if err := <-done; err != nil {
				log.Printf("canvas: preload %s: %v", cat, err)
			}
		}()
	}
}

// Resize recreates the offscreen image at the given pixel size. Callers
// pass device pixels; high-DPI scaling happens in the game Layout.
func (c *Controller) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if c.width == width && c.height == height && c.offscreen != nil {
		return
	}
	if c.offscreen != nil {
		c.offscreen.Deallocate()
	}
	c.width, c.height = width, height
	c.offscreen = ebiten.NewImage(width, height)
	c.markDirty()
}

// Size returns the current canvas pixel size.
func (c *Controller) Size() (int, int) { return c.width, c.height }

// Update runs one input step: poll pointers, advance the gesture router,
// apply desktop wheel zoom, update hover, and flush the viewport debounce.
// Call once per game tick.
func (c *Controller) Update(now time.Time) {
	if c.destroyed {
		return
	}
	c.now = now

	for _, ev := range c.source.Poll(now) {
		c.lastTouch = IsTouch(ev.ID)
		c.router.Handle(ev)
		c.updateHover(ev)
	}
	c.router.Tick(now)

	if _, wy := c.source.Wheel(); wy != 0 {
		cx, cy := ebiten.CursorPosition()
		c.applyZoom(1+wy*wheelZoomStep, float64(cx), float64(cy))
	}

	c.flushViewportDebounce(now)
}

// flushViewportDebounce fires the persistence callback once the viewport
// has been stable past its deadline.
func (c *Controller) flushViewportDebounce(now time.Time) {
	if c.viewportDueAt.IsZero() || now.Before(c.viewportDueAt) {
		return
	}
	c.viewportDueAt = time.Time{}
	if c.onViewport != nil {
		c.onViewport(c.viewport)
	}
}

// updateHover keeps the hover highlight and brush cursor on the pointer.
// Mouse movement hovers even with no button down; a touch only shows the
// cursor during its own gesture, and navigation hides it.
func (c *Controller) updateHover(ev PointerEvent) {
	sc := c.renderer.Scene()
	if sc == nil {
		return
	}
	switch c.router.Phase() {
	case GesturePanZoom:
		if c.cursor.Visible() {
			c.cursor.Hide()
			c.renderer.SetHover(nil)
			c.markDirty()
		}
		return
	case GestureIdle:
		if IsTouch(ev.ID) {
			if c.cursor.Visible() {
				c.cursor.Hide()
				c.renderer.SetHover(nil)
				c.markDirty()
			}
			return
		}
	}
	if ev.Phase == PointerUp || ev.Phase == PointerCancel {
		if IsTouch(ev.ID) {
			return
		}
	}
	c.refreshGhost()
	c.cursor.MoveTo(c.viewport, ev.X, ev.Y, sc.TileSize, IsTouch(ev.ID))
	t := c.cursor.Tile()
	if sc.InBounds(t.X, t.Y) {
		c.renderer.SetHover(&TilePoint{X: t.X, Y: t.Y})
	} else {
		c.renderer.SetHover(nil)
	}
	c.markDirty()
}

func (c *Controller) applyPan(dx, dy float64) {
	if math.Abs(dx) < panEpsilon && math.Abs(dy) < panEpsilon {
		return
	}
	c.viewport = c.viewport.Pan(dx, dy)
	c.viewportChanged()
}

func (c *Controller) applyZoom(factor, ax, ay float64) {
	if factor == 1 {
		return
	}
	next := c.viewport.ZoomAt(factor, ax, ay)
	if next == c.viewport {
		return
	}
	c.viewport = next
	c.viewportChanged()
}

// viewportChanged marks a redraw and (re)arms the persistence debounce
// against the current update clock.
func (c *Controller) viewportChanged() {
	c.markDirty()
	if c.onViewport == nil {
		return
	}
	base := c.now
	if base.IsZero() {
		base = time.Now()
	}
	c.viewportDueAt = base.Add(c.viewportDebounce)
}

// forwardTool translates a gesture position to a brush tile and hands it to
// the tool sink.
func (c *Controller) forwardTool(phase ToolPhase, x, y float64) {
	sc := c.renderer.Scene()
	if sc == nil {
		return
	}
	c.refreshGhost()
	c.cursor.MoveTo(c.viewport, x, y, sc.TileSize, c.lastTouch)
	tile := c.cursor.Tile()
	if c.onTool != nil {
		c.onTool(phase, tile, x, y)
	}
	c.markDirty()
}

// markDirty flags the content stale and wakes the frame scheduler once.
// A destroyed controller swallows the call so late tile loads cannot wake
// the scheduler for a dead canvas.
func (c *Controller) markDirty() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.dirty = true
	wake := !c.framePending
	if wake {
		c.framePending = true
	}
	fn := c.scheduleFrame
	c.mu.Unlock()
	if wake && fn != nil {
		fn()
	}
}

// takeDirty consumes the dirty flag and clears the pending-frame guard.
func (c *Controller) takeDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	d := c.dirty
	c.dirty = false
	c.framePending = false
	return d
}

// Dirty reports whether a redraw is due, without consuming the flag.
func (c *Controller) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Draw blits the canvas into dst, re-rendering the offscreen image only
// when something changed since the last frame.
func (c *Controller) Draw(dst *ebiten.Image) {
	if c.destroyed || c.offscreen == nil {
		return
	}
	if c.takeDirty() {
		c.renderOffscreen()
	}
	dst.DrawImage(c.offscreen, nil)
}

// Render forces an immediate offscreen redraw regardless of the dirty flag.
func (c *Controller) Render() {
	if c.destroyed || c.offscreen == nil {
		return
	}
	c.takeDirty()
	c.renderOffscreen()
}

func (c *Controller) renderOffscreen() {
	c.offscreen.Clear()
	c.renderer.Render(c.offscreen, c.viewport, c.width, c.height)
	sc := c.renderer.Scene()
	if sc != nil && c.cursor.Visible() {
		c.renderer.flush(c.offscreen, c.cursor.buildOps(c.viewport, sc.TileSize))
	}
}

// Destroy releases the offscreen image and detaches every callback. The
// controller is inert afterwards; a destroyed controller ignores Update and
// Draw instead of touching freed state.
func (c *Controller) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.mu.Unlock()
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.router.Reset()
	c.onViewport = nil
	c.onTool = nil
	c.viewportDueAt = time.Time{}
	if c.offscreen != nil {
		c.offscreen.Deallocate()
		c.offscreen = nil
	}
}
