package tiles

import "testing"

func TestTileIndexFromName(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		index int
		ok    bool
	}{
		{"simple", "7.png", 7, true},
		{"multi digit", "142.png", 142, true},
		{"zero rejected", "0.png", 0, false},
		{"negative rejected", "-3.png", 0, false},
		{"non numeric", "grass.png", 0, false},
		{"mixed", "7a.png", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, ok := tileIndexFromName(tt.file)
			if index != tt.index || ok != tt.ok {
				t.Errorf("got (%d, %v), want (%d, %v)", index, ok, tt.index, tt.ok)
			}
		})
	}
}

func TestGetMissingIsNil(t *testing.T) {
	c := NewCache(32)
	if c.Get("terrain", 1) != nil {
		t.Error("unloaded tile resolved")
	}
	if c.Get("terrain", 0) != nil {
		t.Error("index 0 must always resolve nil")
	}
	if c.Get("", 1) != nil {
		t.Error("empty category must resolve nil")
	}
	if c.Count("terrain") != 0 {
		t.Errorf("count = %d on an empty cache", c.Count("terrain"))
	}
}

func TestOnLoadCancelRemovesListener(t *testing.T) {
	c := NewCache(32)
	calls := 0
	cancel := c.OnLoad(func(string, int) { calls++ })

	c.notify("terrain", 1)
	if calls != 1 {
		t.Fatalf("calls = %d after notify, want 1", calls)
	}
	cancel()
	c.notify("terrain", 2)
	if calls != 1 {
		t.Errorf("listener fired after cancel: calls = %d", calls)
	}
}

func TestPreloadMissingDirReportsError(t *testing.T) {
	c := NewCache(32)
	if err := <-c.PreloadCategory("terrain", t.TempDir()+"/absent"); err == nil {
		t.Error("expected a directory error")
	}
}
