package ui

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/example/tilepad/tools"
)

// ToolBar is the tool selector plus the edit action buttons.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
}

// SetActive highlights the button for a tool kind, as when a long-press
// switches to select without a toolbar tap.
func (t *ToolBar) SetActive(k tools.Kind) {
	if idx := int(k); idx >= 0 && idx < len(t.buttons) {
		t.group.SetActive(t.buttons[idx])
	}
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, cb Callbacks, initial tools.Kind) (*widget.Container, *ToolBar) {
	toolNames := []string{"Brush", "Erase", "Fill", "Select"}
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(220, 48),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	var toolButtons []*widget.Button
	for _, name := range toolNames {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(48, 40),
			),
		)
		toolButtons = append(toolButtons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(toolButtons))
	for _, b := range toolButtons {
		elements = append(elements, b)
	}

	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if cb.OnToolSelected == nil {
				return
			}
			for idx, b := range toolButtons {
				if args.Active == b {
					cb.OnToolSelected(tools.Kind(idx))
					return
				}
			}
		}),
	)

	actions := []struct {
		name string
		fn   func()
	}{
		{"Undo", cb.OnUndo},
		{"Redo", cb.OnRedo},
		{"Copy", cb.OnCopy},
		{"Paste", cb.OnPaste},
		{"Grid", cb.OnToggleGrid},
		{"Save", cb.OnSave},
	}
	for _, a := range actions {
		fn := a.fn
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(a.name, fontFace, buttonTextColor),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if fn != nil {
					fn()
				}
			}),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(48, 40),
			),
		)
		toolbar.AddChild(btn)
	}

	if idx := int(initial); idx >= 0 && idx < len(toolButtons) {
		group.SetActive(toolButtons[idx])
	}

	return toolbar, &ToolBar{group: group, buttons: toolButtons}
}
