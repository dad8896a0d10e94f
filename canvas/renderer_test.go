package canvas

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/example/tilepad/scene"
)

// nilSource never resolves an image, which keeps the renderer tests free of
// GPU-backed images; image layers simply produce no ops.
type nilSource struct{}

func (nilSource) Get(category string, index int) *ebiten.Image { return nil }

func testScene(w, h int) *scene.Scene {
	return scene.New("test", w, h, 32)
}

func opsForLayer(ops []drawOp, layer string) []drawOp {
	var out []drawOp
	for _, o := range ops {
		if o.layer == layer {
			out = append(out, o)
		}
	}
	return out
}

func TestHiddenLayerProducesNoOps(t *testing.T) {
	sc := testScene(8, 8)
	sc.Set(scene.LayerCollision, 2, 2, 1)
	sc.Set(scene.LayerCollision, 3, 2, 1)

	r := NewRenderer(nilSource{})
	r.SetScene(sc)

	ops := r.buildOps(NewViewport(), 256, 256)
	if got := len(opsForLayer(ops, scene.LayerCollision)); got != 2 {
		t.Fatalf("visible collision ops = %d, want 2", got)
	}

	r.SetVisibility(map[string]bool{scene.LayerCollision: false})
	ops = r.buildOps(NewViewport(), 256, 256)
	if got := len(opsForLayer(ops, scene.LayerCollision)); got != 0 {
		t.Errorf("hidden collision ops = %d, want 0", got)
	}
}

func TestInactiveLayersAreDimmed(t *testing.T) {
	sc := testScene(8, 8)
	sc.Set(scene.LayerCollision, 1, 1, 1)
	sc.Set(scene.LayerTriggers, 2, 2, 1)

	r := NewRenderer(nilSource{})
	r.SetScene(sc)
	r.SetActiveLayer(scene.LayerCollision)

	ops := r.buildOps(NewViewport(), 256, 256)
	for _, o := range opsForLayer(ops, scene.LayerCollision) {
		if o.alpha != 1.0 {
			t.Errorf("active layer alpha = %f, want 1.0", o.alpha)
		}
	}
	for _, o := range opsForLayer(ops, scene.LayerTriggers) {
		if o.alpha != dimAlpha {
			t.Errorf("inactive layer alpha = %f, want %f", o.alpha, dimAlpha)
		}
	}
}

func TestCullingSkipsOffscreenCells(t *testing.T) {
	sc := testScene(100, 100)
	sc.Set(scene.LayerCollision, 0, 0, 1)   // visible
	sc.Set(scene.LayerCollision, 50, 50, 1) // far offscreen at 64x64 canvas

	r := NewRenderer(nilSource{})
	r.SetScene(sc)

	ops := opsForLayer(r.buildOps(NewViewport(), 64, 64), scene.LayerCollision)
	if len(ops) != 1 {
		t.Fatalf("ops = %d, want only the on-screen cell", len(ops))
	}
	if ops[0].x != 0 || ops[0].y != 0 {
		t.Errorf("op at (%f, %f), want (0, 0)", ops[0].x, ops[0].y)
	}
}

func TestViewFullyOffSceneProducesNoOps(t *testing.T) {
	sc := testScene(4, 4)
	sc.Set(scene.LayerCollision, 0, 0, 1)

	r := NewRenderer(nilSource{})
	r.SetScene(sc)

	vp := Viewport{PanX: -10000, PanY: -10000, Zoom: 1}
	if ops := r.buildOps(vp, 256, 256); len(ops) != 0 {
		t.Errorf("ops = %d, want 0 for a view entirely off the scene", len(ops))
	}
}

func TestLayerDrawOrderIsFixed(t *testing.T) {
	sc := testScene(4, 4)
	// same cell on both mask layers, so relative op order shows layer order
	sc.Set(scene.LayerCollision, 1, 1, 1)
	sc.Set(scene.LayerTriggers, 1, 1, 1)

	r := NewRenderer(nilSource{})
	r.SetScene(sc)

	ops := r.buildOps(NewViewport(), 256, 256)
	colIdx, trigIdx := -1, -1
	for i, o := range ops {
		switch o.layer {
		case scene.LayerCollision:
			colIdx = i
		case scene.LayerTriggers:
			trigIdx = i
		}
	}
	if colIdx == -1 || trigIdx == -1 {
		t.Fatalf("missing ops: collision=%d triggers=%d", colIdx, trigIdx)
	}
	if colIdx > trigIdx {
		t.Errorf("collision drawn after triggers")
	}
}

func TestHoverHighlightOnTop(t *testing.T) {
	sc := testScene(8, 8)
	sc.Set(scene.LayerCollision, 3, 3, 1)

	r := NewRenderer(nilSource{})
	r.SetScene(sc)
	r.SetHover(&TilePoint{X: 3, Y: 3})

	ops := r.buildOps(NewViewport(), 256, 256)
	last := ops[len(ops)-1]
	if last.layer != "" || last.color != defaultHoverColor {
		t.Errorf("last op is not the hover highlight: %+v", last)
	}
	if last.alpha != 1.0 {
		t.Errorf("hover alpha = %f, want full opacity", last.alpha)
	}
}

func TestHoverOutOfBoundsSuppressed(t *testing.T) {
	sc := testScene(4, 4)
	r := NewRenderer(nilSource{})
	r.SetScene(sc)

	r.SetHover(&TilePoint{X: 10, Y: 2})
	if ops := r.buildOps(NewViewport(), 256, 256); len(ops) != 0 {
		t.Errorf("ops = %d, want none for an out-of-bounds hover", len(ops))
	}
}

func TestSelectionOverlayAndPreview(t *testing.T) {
	sc := testScene(8, 8)
	r := NewRenderer(nilSource{})
	r.SetScene(sc)
	r.SetSelection(&SelectionOverlay{
		Bounds: TileRange{MinX: 1, MaxX: 2, MinY: 1, MaxY: 2},
	})

	ops := r.buildOps(NewViewport(), 256, 256)
	// four border edges
	if len(ops) != 4 {
		t.Fatalf("ops = %d, want 4 border edges", len(ops))
	}
	for _, o := range ops {
		if o.color != defaultSelectionColor {
			t.Errorf("border color = %v", o.color)
		}
	}

	// the move offset shifts the border
	r.SetSelection(&SelectionOverlay{
		Bounds: TileRange{MinX: 1, MaxX: 2, MinY: 1, MaxY: 2},
		MoveDX: 2,
	})
	moved := r.buildOps(NewViewport(), 256, 256)
	if moved[0].x != ops[0].x+2*32 {
		t.Errorf("moved border x = %f, want %f", moved[0].x, ops[0].x+2*32)
	}
}

func TestGridOpsOnlyWhenEnabled(t *testing.T) {
	sc := testScene(4, 4)
	r := NewRenderer(nilSource{})
	r.SetScene(sc)

	if ops := r.buildOps(NewViewport(), 128, 128); len(ops) != 0 {
		t.Fatalf("ops = %d with grid disabled, want 0", len(ops))
	}
	r.SetGrid(GridConfig{Enabled: true})
	ops := r.buildOps(NewViewport(), 128, 128)
	// 4 tiles visible each way: 5 vertical + 5 horizontal lines
	if len(ops) != 10 {
		t.Errorf("grid ops = %d, want 10", len(ops))
	}
}

func TestInvalidateBumpsGeneration(t *testing.T) {
	r := NewRenderer(nilSource{})
	before := r.Generation()
	r.Invalidate()
	if r.Generation() != before+1 {
		t.Errorf("generation not bumped")
	}
}
