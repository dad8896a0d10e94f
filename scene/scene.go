// Package scene holds the tile-map document model: fixed named layers of
// integer cells plus JSON persistence. The canvas core only ever reads a
// Scene; tools are the sole mutators.
package scene

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Layer names in fixed render order.
const (
	LayerGround    = "ground"
	LayerProps     = "props"
	LayerCollision = "collision"
	LayerTriggers  = "triggers"
)

// LayerOrder is the fixed bottom-to-top compositing order.
var LayerOrder = []string{LayerGround, LayerProps, LayerCollision, LayerTriggers}

// Scene is a tile-map document. Each layer is a row-major grid of ints;
// value 0 means empty. Ground and props cells are 1-based tile indices into
// the selected category; collision and triggers cells are boolean masks
// where any non-zero value is set.
type Scene struct {
	Name     string           `json:"name,omitempty"`
	Width    int              `json:"width"`
	Height   int              `json:"height"`
	TileSize int              `json:"tile_size"`
	Layers   map[string][]int `json:"layers"`
}

// New creates an empty scene with all four layers allocated.
func New(name string, width, height, tileSize int) *Scene {
	s := &Scene{
		Name:     name,
		Width:    width,
		Height:   height,
		TileSize: tileSize,
		Layers:   make(map[string][]int, len(LayerOrder)),
	}
	for _, l := range LayerOrder {
		s.Layers[l] = make([]int, width*height)
	}
	return s
}

// InBounds reports whether (x, y) is a valid tile coordinate.
func (s *Scene) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.Width && y < s.Height
}

// Get returns the cell value, or 0 for unknown layers and out-of-bounds
// coordinates.
func (s *Scene) Get(layer string, x, y int) int {
	if !s.InBounds(x, y) {
		return 0
	}
	grid, ok := s.Layers[layer]
	if !ok {
		return 0
	}
	return grid[y*s.Width+x]
}

// Set writes the cell value and reports whether anything changed.
// Out-of-bounds writes are dropped.
func (s *Scene) Set(layer string, x, y, value int) bool {
	if !s.InBounds(x, y) {
		return false
	}
	grid, ok := s.Layers[layer]
	if !ok {
		return false
	}
	idx := y*s.Width + x
	if grid[idx] == value {
		return false
	}
	grid[idx] = value
	return true
}

// ensureLayers backfills any missing layer grids after a load, so older
// files without a triggers layer still open.
func (s *Scene) ensureLayers() {
	if s.Layers == nil {
		s.Layers = make(map[string][]int, len(LayerOrder))
	}
	for _, l := range LayerOrder {
		if len(s.Layers[l]) != s.Width*s.Height {
			grid := make([]int, s.Width*s.Height)
			copy(grid, s.Layers[l])
			s.Layers[l] = grid
		}
	}
}

// Load reads a scene from a JSON file.
func Load(filename string) (*Scene, error) {
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", filename, err)
	}
	var s Scene
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("scene: unmarshal %s: %w", filename, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return nil, fmt.Errorf("scene: %s: invalid dimensions %dx%d", filename, s.Width, s.Height)
	}
	if s.TileSize <= 0 {
		s.TileSize = 32
	}
	s.ensureLayers()
	return &s, nil
}

// Save writes the scene as indented JSON, creating the directory if needed.
func (s *Scene) Save(filename string) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("scene: mkdir %s: %w", dir, err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("scene: create %s: %w", filename, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("scene: encode %s: %w", filename, err)
	}
	return nil
}
