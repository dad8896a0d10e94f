package tools

import (
	"encoding/json"
	"fmt"

	"golang.design/x/clipboard"

	"github.com/example/tilepad/canvas"
	"github.com/example/tilepad/scene"
)

// clipSnippet is the clipboard payload: a rectangle of cells from one
// layer, serialized as JSON text so snippets can cross editor instances.
type clipSnippet struct {
	Layer  string `json:"layer"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []int  `json:"cells"`
}

// Clipboard copies and pastes rectangular tile snippets through the system
// clipboard.
type Clipboard struct {
	ready bool
}

// NewClipboard initializes the system clipboard. On platforms without
// clipboard access the returned value degrades to a no-op and Copy/Paste
// report errors.
func NewClipboard() *Clipboard {
	c := &Clipboard{}
	if err := clipboard.Init(); err == nil {
		c.ready = true
	}
	return c
}

// Copy serializes the selected rectangle of the layer to the clipboard.
func (c *Clipboard) Copy(s *scene.Scene, layer string, bounds canvas.TileRange) error {
	if !c.ready {
		return fmt.Errorf("tools: clipboard unavailable")
	}
	b := bounds.Clamp(s.Width, s.Height)
	if b.Empty() {
		return fmt.Errorf("tools: empty selection")
	}
	snip := clipSnippet{
		Layer:  layer,
		Width:  b.MaxX - b.MinX + 1,
		Height: b.MaxY - b.MinY + 1,
	}
	snip.Cells = make([]int, 0, snip.Width*snip.Height)
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			snip.Cells = append(snip.Cells, s.Get(layer, x, y))
		}
	}
	data, err := json.Marshal(snip)
	if err != nil {
		return fmt.Errorf("tools: marshal snippet: %w", err)
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}

// Paste stamps the clipboard snippet onto the layer with its top-left at
// the given tile, recording one undoable delta. Cells falling outside the
// scene are dropped.
func (c *Clipboard) Paste(s *scene.Scene, layer string, at canvas.TilePoint, hist *History) error {
	if !c.ready {
		return fmt.Errorf("tools: clipboard unavailable")
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return fmt.Errorf("tools: clipboard empty")
	}
	var snip clipSnippet
	if err := json.Unmarshal(data, &snip); err != nil {
		return fmt.Errorf("tools: unmarshal snippet: %w", err)
	}
	if snip.Width <= 0 || snip.Height <= 0 || len(snip.Cells) != snip.Width*snip.Height {
		return fmt.Errorf("tools: malformed snippet")
	}

	delta := NewDelta(layer)
	for i, v := range snip.Cells {
		x := at.X + i%snip.Width
		y := at.Y + i/snip.Width
		if !s.InBounds(x, y) || s.Get(layer, x, y) == v {
			continue
		}
		delta.Record(s, x, y)
		s.Set(layer, x, y, v)
	}
	if hist != nil {
		hist.Push(delta)
	}
	return nil
}
