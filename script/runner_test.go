package script

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/tilepad/scene"
	"github.com/example/tilepad/tools"
)

func TestRunSourceSetAndGet(t *testing.T) {
	s := scene.New("test", 4, 4, 32)
	r := NewRunner("")

	src := []byte(`
set(1, 1, 9)
v := get(1, 1)
set(2, 2, v + 1)
`)
	if err := r.RunSource(src, s, scene.LayerGround, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := s.Get(scene.LayerGround, 1, 1); got != 9 {
		t.Errorf("cell (1,1) = %d, want 9", got)
	}
	if got := s.Get(scene.LayerGround, 2, 2); got != 10 {
		t.Errorf("cell (2,2) = %d, want 10", got)
	}
}

func TestRunSourceFillAndBounds(t *testing.T) {
	s := scene.New("test", 4, 4, 32)
	r := NewRunner("")

	// fill beyond the scene edge: out-of-bounds cells are dropped
	if err := r.RunSource([]byte(`fill(2, 2, 10, 10, 5)`), s, scene.LayerGround, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	filled := 0
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if s.Get(scene.LayerGround, x, y) == 5 {
				filled++
			}
		}
	}
	if filled != 4 {
		t.Errorf("filled %d cells, want the 2x2 in-bounds corner", filled)
	}
}

func TestRunSourceBindsDimensions(t *testing.T) {
	s := scene.New("test", 7, 3, 32)
	r := NewRunner("")

	// border macro: uses width/height to frame the scene
	src := []byte(`
for x := 0; x < width; x++ {
	set(x, 0, 1)
	set(x, height - 1, 1)
}
`)
	if err := r.RunSource(src, s, scene.LayerGround, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if s.Get(scene.LayerGround, 6, 0) != 1 || s.Get(scene.LayerGround, 6, 2) != 1 {
		t.Error("border rows not written")
	}
	if s.Get(scene.LayerGround, 3, 1) != 0 {
		t.Error("interior written")
	}
}

func TestRunIsOneUndoStep(t *testing.T) {
	s := scene.New("test", 4, 4, 32)
	h := tools.NewHistory(8)
	r := NewRunner("")

	if err := r.RunSource([]byte(`fill(0, 0, 3, 3, 2)`), s, scene.LayerGround, h); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !h.Undo(s) {
		t.Fatal("macro edit not undoable")
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if s.Get(scene.LayerGround, x, y) != 0 {
				t.Fatalf("cell (%d, %d) survived undo", x, y)
			}
		}
	}
}

func TestListFindsMacros(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"border.tengo", "fill_all.tengo", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(""), 0644); err != nil {
			t.Fatal(err)
		}
	}

	r := NewRunner(dir)
	names, err := r.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(names) != 2 || names[0] != "border" || names[1] != "fill_all" {
		t.Errorf("names = %v", names)
	}
}

func TestListMissingDirIsEmpty(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "absent"))
	names, err := r.List()
	if err != nil || names != nil {
		t.Errorf("names = %v, err = %v; want empty, nil", names, err)
	}
}

func TestRunMissingMacroErrors(t *testing.T) {
	r := NewRunner(t.TempDir())
	s := scene.New("test", 2, 2, 32)
	if err := r.Run("ghost", s, scene.LayerGround, nil); err == nil {
		t.Error("expected an error for a missing macro")
	}
}
