package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/example/tilepad/canvas"
	"github.com/example/tilepad/config"
	"github.com/example/tilepad/scene"
	"github.com/example/tilepad/script"
	"github.com/example/tilepad/tiles"
	"github.com/example/tilepad/tools"
	"github.com/example/tilepad/ui"
)

// EditorGame drives the canvas controller and the UI chrome.
type EditorGame struct {
	cfg    *config.Config
	ctrl   *canvas.Controller
	mgr    *tools.Manager
	runner *script.Runner

	ui       *ebitenui.UI
	toolBar  *ui.ToolBar
	layerPnl *ui.LayerPanel

	scenePath string
	watcher   *tiles.Watcher
}

func (g *EditorGame) Update() error {
	g.ctrl.Update(time.Now())
	g.ui.Update()
	g.handleShortcuts()
	// A long-press switches to select inside the tool manager; keep the
	// toolbar highlight in step.
	g.toolBar.SetActive(g.mgr.Active())
	return nil
}

func (g *EditorGame) handleShortcuts() {
	ctrlHeld := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrlHeld && inpututil.IsKeyJustPressed(ebiten.KeyZ):
		g.mgr.Undo()
	case ctrlHeld && inpututil.IsKeyJustPressed(ebiten.KeyY):
		g.mgr.Redo()
	case ctrlHeld && inpututil.IsKeyJustPressed(ebiten.KeyC):
		if err := g.mgr.Copy(); err != nil {
			log.Printf("copy: %v", err)
		}
	case ctrlHeld && inpututil.IsKeyJustPressed(ebiten.KeyV):
		if err := g.mgr.Paste(); err != nil {
			log.Printf("paste: %v", err)
		}
	case ctrlHeld && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.saveScene()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.ctrl.ToggleGrid()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.mgr.Selection().Clear()
		g.ctrl.Invalidate()
	}

	layerKeys := []ebiten.Key{ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4}
	for i, key := range layerKeys {
		if inpututil.IsKeyJustPressed(key) {
			g.ctrl.SetActiveLayer(scene.LayerOrder[i])
		}
	}
}

func (g *EditorGame) saveScene() {
	sc := g.ctrl.Scene()
	if sc == nil {
		return
	}
	if err := sc.Save(g.scenePath); err != nil {
		log.Printf("save: %v", err)
		return
	}
	log.Printf("Saved scene: %s", g.scenePath)
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	g.ctrl.Draw(screen)
	g.ui.Draw(screen)
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	w, h := devicePixels(outsideWidth, outsideHeight, ebiten.Monitor().DeviceScaleFactor())
	g.ctrl.Resize(w, h)
	return w, h
}

// devicePixels converts the logical window size to device pixels so tile
// edges and brush outlines stay crisp on high-density screens.
func devicePixels(w, h int, scale float64) (int, int) {
	if scale <= 0 {
		scale = 1
	}
	return int(float64(w) * scale), int(float64(h) * scale)
}

// viewportFile is the persisted camera position, stored next to the scene.
type viewportFile struct {
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
	Zoom float64 `json:"zoom"`
}

func viewportPath(scenePath string) string { return scenePath + ".view.json" }

func loadViewport(scenePath string) (canvas.Viewport, bool) {
	data, err := os.ReadFile(viewportPath(scenePath))
	if err != nil {
		return canvas.Viewport{}, false
	}
	var vf viewportFile
	if err := json.Unmarshal(data, &vf); err != nil || vf.Zoom == 0 {
		return canvas.Viewport{}, false
	}
	return canvas.Viewport{PanX: vf.PanX, PanY: vf.PanY, Zoom: vf.Zoom}, true
}

func saveViewport(scenePath string, v canvas.Viewport) {
	data, err := json.Marshal(viewportFile{PanX: v.PanX, PanY: v.PanY, Zoom: v.Zoom})
	if err != nil {
		return
	}
	if err := os.WriteFile(viewportPath(scenePath), data, 0644); err != nil {
		log.Printf("viewport save: %v", err)
	}
}

func main() {
	configPath := flag.String("config", "tilepad.yaml", "Editor config file")
	scenePath := flag.String("scene", "", "Scene file to open (overrides config)")
	flag.Parse()

	log.Println("Editor starting...")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *scenePath != "" {
		cfg.ScenePath = *scenePath
	}

	sc, err := scene.Load(cfg.ScenePath)
	if err != nil {
		log.Printf("open %s: %v; starting a new scene", cfg.ScenePath, err)
		sc = scene.New("untitled", 64, 64, 32)
	}

	cache := tiles.NewCache(sc.TileSize)

	ctrl := canvas.NewController(sc, cache, canvas.ControllerOptions{
		Gesture: canvas.GestureConfig{
			ConfirmDelay:       cfg.Gesture.ConfirmDelay(),
			LongPressDelay:     cfg.Gesture.LongPressDelay(),
			MoveThreshold:      cfg.Gesture.MoveThresholdPx,
			LongPressThreshold: cfg.Gesture.LongPressThresholdPx,
		},
		ViewportDebounce: cfg.ViewportDebounce(),
	})
	ctrl.SetSelectedCategory(firstCategory(cfg))
	ctrl.SetBrushSize(cfg.Brush.Size)
	ctrl.Cursor().SetTouchOffset(cfg.Brush.TouchOffsetPx)
	if cfg.Brush.Color != nil {
		ctrl.SetBrushColor(cfg.Brush.Color.RGBA)
	}
	grid := ctrl.Renderer().Grid()
	grid.Enabled = cfg.Grid.Enabled
	if cfg.Grid.Color != nil {
		grid.Color = cfg.Grid.Color.RGBA
	}
	ctrl.SetGrid(grid)
	for layer, style := range cfg.LayerStyles {
		if style.Fill != nil {
			ctrl.Renderer().SetLayerStyle(layer, canvas.LayerStyle{Fill: style.Fill.RGBA})
		}
	}
	if vp, ok := loadViewport(cfg.ScenePath); ok {
		ctrl.SetViewport(vp)
	}
	ctrl.OnViewportChange(func(v canvas.Viewport) {
		saveViewport(cfg.ScenePath, v)
	})
	ctrl.PreloadCategories(cfg.Tiles.BasePath, cfg.Tiles.Categories...)

	mgr := tools.NewManager(ctrl, cfg.UndoDepth)
	runner := script.NewRunner(cfg.MacrosPath)

	game := &EditorGame{
		cfg:       cfg,
		ctrl:      ctrl,
		mgr:       mgr,
		runner:    runner,
		scenePath: cfg.ScenePath,
	}

	macros, err := runner.List()
	if err != nil {
		log.Printf("macros: %v", err)
	}

	game.ui, game.toolBar, game.layerPnl, err = ui.Build(ui.Callbacks{
		OnToolSelected:  mgr.SetActive,
		OnLayerSelected: ctrl.SetActiveLayer,
		OnLayerVisibility: func(string, bool) {
			ctrl.SetVisibility(layerFlags(game.layerPnl.Visible))
		},
		OnLayerLock: func(string, bool) {
			ctrl.SetLocks(layerFlags(game.layerPnl.Locked))
		},
		OnBrushSize: ctrl.SetBrushSize,
		OnRunMacro: func(name string) {
			layer := ctrl.Renderer().ActiveLayer()
			if err := runner.Run(name, ctrl.Scene(), layer, mgr.History()); err != nil {
				log.Printf("macro %s: %v", name, err)
			}
			ctrl.Invalidate()
		},
		OnUndo: func() { mgr.Undo() },
		OnRedo: func() { mgr.Redo() },
		OnCopy: func() {
			if err := mgr.Copy(); err != nil {
				log.Printf("copy: %v", err)
			}
		},
		OnPaste: func() {
			if err := mgr.Paste(); err != nil {
				log.Printf("paste: %v", err)
			}
		},
		OnToggleGrid: ctrl.ToggleGrid,
		OnSave:       game.saveScene,
	}, macros, mgr.Active())
	if err != nil {
		log.Fatal(err)
	}

	if cfg.Tiles.Watch {
		watcher, err := tiles.NewWatcher(cache, cfg.Tiles.BasePath, cfg.Tiles.Categories...)
		if err != nil {
			log.Printf("tiles: watch disabled: %v", err)
		} else {
			game.watcher = watcher
			defer watcher.Close()
		}
	}
	defer ctrl.Destroy()

	ebiten.SetWindowTitle("Tilepad")
	ebiten.SetWindowSize(1280, 800)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func firstCategory(cfg *config.Config) string {
	if len(cfg.Tiles.Categories) > 0 {
		return cfg.Tiles.Categories[0]
	}
	return ""
}

// layerFlags materializes a per-layer predicate into the map form the
// renderer takes.
func layerFlags(get func(string) bool) map[string]bool {
	m := make(map[string]bool, len(scene.LayerOrder))
	for _, l := range scene.LayerOrder {
		m[l] = get(l)
	}
	return m
}
