package ui

import (
	"bytes"
	"fmt"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/example/tilepad/tools"
)

// Callbacks connects UI events to the editor. Nil callbacks are skipped.
type Callbacks struct {
	OnToolSelected    func(tools.Kind)
	OnLayerSelected   func(layer string)
	OnLayerVisibility func(layer string, visible bool)
	OnLayerLock       func(layer string, locked bool)
	OnBrushSize       func(size int)
	OnRunMacro        func(name string)
	OnUndo            func()
	OnRedo            func()
	OnCopy            func()
	OnPaste           func()
	OnToggleGrid      func()
	OnSave            func()
}

// Build assembles the editor chrome: toolbar top center, layer panel
// anchored left. Returns the ebitenui root plus handles for state updates.
func Build(cb Callbacks, macros []string, initialTool tools.Kind) (*ebitenui.UI, *ToolBar, *LayerPanel, error) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ui: load font: %w", err)
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	toolbarContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, cb, initialTool)
	layerContainer, layerPanel := buildLayerPanel(ui.PrimaryTheme, &fontFace, cb, macros)

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	layerContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(layerContainer)
	root.AddChild(toolbarContainer)

	ui.Container = root
	return ui, toolBar, layerPanel, nil
}
