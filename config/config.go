// Package config loads the editor configuration file. Every field has a
// sensible default; an absent file or absent field never blocks startup.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// HexColor is an RGBA color written as "#rrggbb" or "#rrggbbaa" in YAML.
type HexColor struct {
	color.RGBA
}

func (c *HexColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.RGBA = color.RGBA{R: r, G: g, B: b, A: a}
	return nil
}

// GestureSpec tunes the gesture classifier. Durations are milliseconds,
// distances screen pixels.
type GestureSpec struct {
	ConfirmDelayMs       int     `yaml:"confirm_delay_ms"`
	LongPressDelayMs     int     `yaml:"long_press_delay_ms"`
	MoveThresholdPx      float64 `yaml:"move_threshold_px"`
	LongPressThresholdPx float64 `yaml:"long_press_threshold_px"`
}

// BrushSpec tunes the brush cursor.
type BrushSpec struct {
	Size          int       `yaml:"size"`
	Color         *HexColor `yaml:"color"`
	TouchOffsetPx float64   `yaml:"touch_offset_px"`
}

// GridSpec tunes the tile-grid overlay.
type GridSpec struct {
	Enabled bool      `yaml:"enabled"`
	Color   *HexColor `yaml:"color"`
}

// LayerStyleSpec recolors a mask layer.
type LayerStyleSpec struct {
	Fill *HexColor `yaml:"fill"`
}

// TilesSpec points at the tile image library.
type TilesSpec struct {
	BasePath   string   `yaml:"base_path"`
	Categories []string `yaml:"categories"`
	Watch      bool     `yaml:"watch"`
}

// Config is the full editor configuration.
type Config struct {
	ScenePath          string                    `yaml:"scene_path"`
	ViewportDebounceMs int                       `yaml:"viewport_debounce_ms"`
	UndoDepth          int                       `yaml:"undo_depth"`
	Gesture            GestureSpec               `yaml:"gesture"`
	Brush              BrushSpec                 `yaml:"brush"`
	Grid               GridSpec                  `yaml:"grid"`
	LayerStyles        map[string]LayerStyleSpec `yaml:"layer_styles"`
	Tiles              TilesSpec                 `yaml:"tiles"`
	MacrosPath         string                    `yaml:"macros_path"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		ScenePath:          "scenes/scene.json",
		ViewportDebounceMs: 500,
		UndoDepth:          64,
		Gesture: GestureSpec{
			ConfirmDelayMs:       150,
			LongPressDelayMs:     500,
			MoveThresholdPx:      5,
			LongPressThresholdPx: 10,
		},
		Brush: BrushSpec{Size: 1, TouchOffsetPx: 48},
		Grid:  GridSpec{Enabled: true},
		Tiles: TilesSpec{
			BasePath:   "tilesets",
			Categories: []string{"terrain", "props"},
			Watch:      true,
		},
		MacrosPath: "macros",
	}
}

// Load reads a config file, filling absent fields from the defaults. A
// missing file returns the defaults without error.
func Load(filename string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults backfills zero values after an unmarshal so a partial file
// only overrides what it names.
func (c *Config) fillDefaults() {
	d := Default()
	if c.ScenePath == "" {
		c.ScenePath = d.ScenePath
	}
	if c.ViewportDebounceMs <= 0 {
		c.ViewportDebounceMs = d.ViewportDebounceMs
	}
	if c.UndoDepth <= 0 {
		c.UndoDepth = d.UndoDepth
	}
	if c.Gesture.ConfirmDelayMs <= 0 {
		c.Gesture.ConfirmDelayMs = d.Gesture.ConfirmDelayMs
	}
	if c.Gesture.LongPressDelayMs <= 0 {
		c.Gesture.LongPressDelayMs = d.Gesture.LongPressDelayMs
	}
	if c.Gesture.MoveThresholdPx <= 0 {
		c.Gesture.MoveThresholdPx = d.Gesture.MoveThresholdPx
	}
	if c.Gesture.LongPressThresholdPx <= 0 {
		c.Gesture.LongPressThresholdPx = d.Gesture.LongPressThresholdPx
	}
	if c.Brush.Size <= 0 {
		c.Brush.Size = d.Brush.Size
	}
	if c.Brush.TouchOffsetPx <= 0 {
		c.Brush.TouchOffsetPx = d.Brush.TouchOffsetPx
	}
	if c.Tiles.BasePath == "" {
		c.Tiles.BasePath = d.Tiles.BasePath
	}
	if len(c.Tiles.Categories) == 0 {
		c.Tiles.Categories = d.Tiles.Categories
	}
	if c.MacrosPath == "" {
		c.MacrosPath = d.MacrosPath
	}
}

// ConfirmDelay converts the millisecond field.
func (g GestureSpec) ConfirmDelay() time.Duration {
	return time.Duration(g.ConfirmDelayMs) * time.Millisecond
}

func (g GestureSpec) LongPressDelay() time.Duration {
	return time.Duration(g.LongPressDelayMs) * time.Millisecond
}

// ViewportDebounce converts the millisecond field.
func (c *Config) ViewportDebounce() time.Duration {
	return time.Duration(c.ViewportDebounceMs) * time.Millisecond
}
