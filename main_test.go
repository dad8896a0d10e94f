package main

import "testing"

func TestDevicePixels(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		scale float64
		wantW int
		wantH int
	}{
		{"standard density", 1280, 800, 1.0, 1280, 800},
		{"retina", 1280, 800, 2.0, 2560, 1600},
		{"fractional", 1000, 600, 1.5, 1500, 900},
		{"zero scale falls back", 640, 480, 0, 640, 480},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := devicePixels(tt.w, tt.h, tt.scale)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("got (%d, %d), want (%d, %d)", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}
