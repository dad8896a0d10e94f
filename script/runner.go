// Package script runs user macros against an open scene. Macros are tengo
// programs that read and write layer cells through a small builtin API,
// useful for procedural edits like borders, checkerboards, or bulk
// replacements.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/example/tilepad/scene"
	"github.com/example/tilepad/tools"
)

// Runner executes macro files against a scene. Every macro run is one
// undoable edit.
type Runner struct {
	macrosPath string
}

// NewRunner returns a runner loading macros from dir.
func NewRunner(dir string) *Runner {
	return &Runner{macrosPath: dir}
}

// List returns the macro names available under the macros directory,
// sorted. A macro name is its file name without the .tengo extension.
func (r *Runner) List() ([]string, error) {
	entries, err := os.ReadDir(r.macrosPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("script: read %s: %w", r.macrosPath, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".tengo") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(names)
	return names, nil
}

// Run executes the named macro against the scene's layer. Cell writes are
// collected into a single history delta; a macro that errors midway still
// pushes what it wrote, so undo can remove the partial edit.
func (r *Runner) Run(name string, sc *scene.Scene, layer string, hist *tools.History) error {
	src, err := os.ReadFile(filepath.Join(r.macrosPath, name+".tengo"))
	if err != nil {
		return fmt.Errorf("script: load macro %s: %w", name, err)
	}
	return r.RunSource(src, sc, layer, hist)
}

// RunSource executes macro source directly, as for UI-entered snippets.
func (r *Runner) RunSource(src []byte, sc *scene.Scene, layer string, hist *tools.History) error {
	delta := tools.NewDelta(layer)

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	_ = s.Add("width", sc.Width)
	_ = s.Add("height", sc.Height)
	_ = s.Add("layer", layer)

	_ = s.Add("get", &tengo.UserFunction{Name: "get", Value: func(args ...tengo.Object) (tengo.Object, error) {
		x, y, ok := twoInts(args)
		if !ok {
			return nil, tengo.ErrWrongNumArguments
		}
		return &tengo.Int{Value: int64(sc.Get(layer, x, y))}, nil
	}})

	_ = s.Add("set", &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		x, okX := tengo.ToInt(args[0])
		y, okY := tengo.ToInt(args[1])
		v, okV := tengo.ToInt(args[2])
		if !okX || !okY || !okV {
			return nil, tengo.ErrInvalidArgumentType{Name: "set"}
		}
		if sc.InBounds(x, y) && sc.Get(layer, x, y) != v {
			delta.Record(sc, x, y)
			sc.Set(layer, x, y, v)
		}
		return tengo.UndefinedValue, nil
	}})

	_ = s.Add("fill", &tengo.UserFunction{Name: "fill", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 5 {
			return nil, tengo.ErrWrongNumArguments
		}
		x0, _ := tengo.ToInt(args[0])
		y0, _ := tengo.ToInt(args[1])
		x1, _ := tengo.ToInt(args[2])
		y1, _ := tengo.ToInt(args[3])
		v, _ := tengo.ToInt(args[4])
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				if sc.InBounds(x, y) && sc.Get(layer, x, y) != v {
					delta.Record(sc, x, y)
					sc.Set(layer, x, y, v)
				}
			}
		}
		return tengo.UndefinedValue, nil
	}})

	_, err := s.Run()
	if hist != nil {
		hist.Push(delta)
	}
	if err != nil {
		return fmt.Errorf("script: run macro: %w", err)
	}
	return nil
}

func twoInts(args []tengo.Object) (int, int, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	x, okX := tengo.ToInt(args[0])
	y, okY := tengo.ToInt(args[1])
	return x, y, okX && okY
}
