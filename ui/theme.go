// Package ui builds the ebitenui chrome around the canvas: the toolbar,
// the layer panel, and the brush controls. The canvas itself renders
// underneath; the UI only emits callbacks.
package ui

import (
	"image/color"

	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Chrome palette. The panels float over the map, so they stay dark and
// translucent; the amber accent marks the selected entry.
var (
	chromePanel   = color.RGBA{0x20, 0x24, 0x28, 0xf0}
	chromeButton  = color.RGBA{0x3a, 0x40, 0x46, 0xff}
	chromeHover   = color.RGBA{0x4a, 0x52, 0x5a, 0xff}
	chromePressed = color.RGBA{0x2e, 0x33, 0x38, 0xff}
	chromeText    = color.RGBA{0xe0, 0xe4, 0xe8, 0xff}
	chromeAccent  = color.RGBA{0xd9, 0xa4, 0x41, 0xff}
)

// solidNineSlice returns a solid color *image.NineSlice for widget backgrounds.
func solidNineSlice(c color.Color) *image.NineSlice {
	return image.NewNineSliceColor(c)
}

func newEditorTheme(fontFace *text.Face) *widget.Theme {
	return &widget.Theme{
		ListTheme: &widget.ListParams{
			EntryFace: fontFace,
			EntryColor: &widget.ListEntryColor{
				Unselected:          chromeText,
				Selected:            chromeAccent,
				DisabledUnselected:  color.Gray{Y: 96},
				DisabledSelected:    color.Gray{Y: 72},
				SelectingBackground: chromeHover,
				SelectedBackground:  chromeButton,
			},
			ScrollContainerImage: &widget.ScrollContainerImage{
				Idle: solidNineSlice(chromePanel),
				Mask: solidNineSlice(chromePanel),
			},
		},
		PanelTheme: &widget.PanelParams{
			BackgroundImage: solidNineSlice(chromePanel),
		},
		ButtonTheme: &widget.ButtonParams{
			Image: &widget.ButtonImage{
				Idle:    solidNineSlice(chromeButton),
				Hover:   solidNineSlice(chromeHover),
				Pressed: solidNineSlice(chromePressed),
			},
			TextFace: fontFace,
			TextColor: &widget.ButtonTextColor{
				Idle: chromeText,
			},
		},
	}
}
