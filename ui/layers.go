package ui

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/example/tilepad/scene"
)

// LayerPanel shows the four fixed layers with their visibility and lock
// state, plus the brush size row and the macro list.
type LayerPanel struct {
	list       *widget.List
	visibility map[string]bool
	locks      map[string]bool

	onVisibility func(layer string, visible bool)
	onLock       func(layer string, locked bool)
}

// Visible reports the panel's visibility flag for a layer.
func (p *LayerPanel) Visible(layer string) bool {
	v, ok := p.visibility[layer]
	return !ok || v
}

// Locked reports the panel's lock flag for a layer.
func (p *LayerPanel) Locked(layer string) bool { return p.locks[layer] }

func buildLayerPanel(theme *widget.Theme, fontFace *text.Face, cb Callbacks, macros []string) (*widget.Container, *LayerPanel) {
	panel := &LayerPanel{
		visibility:   map[string]bool{},
		locks:        map[string]bool{},
		onVisibility: cb.OnLayerVisibility,
		onLock:       cb.OnLayerLock,
	}

	container := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(200, 0),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(6),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(8)),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{40, 40, 40, 255})),
	)

	layersLabel := widget.NewLabel(
		widget.LabelOpts.Text("Layers", fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
	container.AddChild(layersLabel)

	entries := make([]any, 0, len(scene.LayerOrder))
	for _, l := range scene.LayerOrder {
		entries = append(entries, l)
	}
	layerList := widget.NewList(
		widget.ListOpts.Entries(entries),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			name, ok := e.(string)
			if !ok {
				return ""
			}
			return layerLabel(name, panel.Visible(name), panel.Locked(name))
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			name, ok := args.Entry.(string)
			if !ok {
				return
			}
			if cb.OnLayerSelected != nil {
				cb.OnLayerSelected(name)
			}
		}),
	)
	container.AddChild(layerList)
	panel.list = layerList

	buttonsRow := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
	visBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Show/Hide", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			name, ok := layerList.SelectedEntry().(string)
			if !ok {
				return
			}
			panel.visibility[name] = !panel.Visible(name)
			if panel.onVisibility != nil {
				panel.onVisibility(name, panel.visibility[name])
			}
		}),
	)
	lockBtn := widget.NewButton(
		widget.ButtonOpts.Image(theme.ButtonTheme.Image),
		widget.ButtonOpts.Text("Lock", fontFace, theme.ButtonTheme.TextColor),
		widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
			name, ok := layerList.SelectedEntry().(string)
			if !ok {
				return
			}
			panel.locks[name] = !panel.locks[name]
			if panel.onLock != nil {
				panel.onLock(name, panel.locks[name])
			}
		}),
	)
	buttonsRow.AddChild(visBtn)
	buttonsRow.AddChild(lockBtn)
	container.AddChild(buttonsRow)

	brushLabel := widget.NewLabel(
		widget.LabelOpts.Text("Brush", fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
	)
	container.AddChild(brushLabel)

	brushRow := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(6),
			),
		),
	)
	for _, size := range []int{1, 2, 3} {
		size := size
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(fmt.Sprintf("%dx%d", size, size), fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if cb.OnBrushSize != nil {
					cb.OnBrushSize(size)
				}
			}),
		)
		brushRow.AddChild(btn)
	}
	container.AddChild(brushRow)

	if len(macros) > 0 {
		macroLabel := widget.NewLabel(
			widget.LabelOpts.Text("Macros", fontFace, &widget.LabelColor{Idle: color.White, Disabled: color.Gray{Y: 140}}),
		)
		container.AddChild(macroLabel)

		macroEntries := make([]any, 0, len(macros))
		for _, m := range macros {
			macroEntries = append(macroEntries, m)
		}
		macroList := widget.NewList(
			widget.ListOpts.Entries(macroEntries),
			widget.ListOpts.EntryLabelFunc(func(e any) string {
				name, _ := e.(string)
				return name
			}),
			widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
				name, ok := args.Entry.(string)
				if !ok {
					return
				}
				if cb.OnRunMacro != nil {
					cb.OnRunMacro(name)
				}
			}),
		)
		container.AddChild(macroList)
	}

	return container, panel
}

func layerLabel(name string, visible, locked bool) string {
	suffix := ""
	if !visible {
		suffix += " (hidden)"
	}
	if locked {
		suffix += " (locked)"
	}
	return name + suffix
}
