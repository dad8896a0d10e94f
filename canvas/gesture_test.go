package canvas

import (
	"testing"
	"time"
)

type gestureLog struct {
	pans       int
	zooms      int
	toolStarts int
	toolMoves  int
	toolEnds   int
	longPress  int

	lastStart [2]float64
	lastEnd   [2]float64
	lastZoom  float64
	panDX     float64
	panDY     float64
}

func newTestRouter(log *gestureLog) *GestureRouter {
	return NewGestureRouter(GestureConfig{}, GestureCallbacks{
		OnPan: func(dx, dy float64) {
			log.pans++
			log.panDX += dx
			log.panDY += dy
		},
		OnZoom: func(factor, ax, ay float64) {
			log.zooms++
			log.lastZoom = factor
		},
		OnToolStart: func(x, y float64) {
			log.toolStarts++
			log.lastStart = [2]float64{x, y}
		},
		OnToolMove: func(x, y float64) { log.toolMoves++ },
		OnToolEnd: func(x, y float64) {
			log.toolEnds++
			log.lastEnd = [2]float64{x, y}
		},
		OnLongPress: func(x, y float64) { log.longPress++ },
	})
}

func at(ms int) time.Time {
	return time.Unix(0, 0).Add(time.Duration(ms) * time.Millisecond)
}

func TestQuickTapIsToolGesture(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	if r.Phase() != GesturePending {
		t.Fatalf("phase = %v, want pending", r.Phase())
	}
	r.Handle(PointerEvent{ID: 1, Phase: PointerUp, X: 101, Y: 100, At: at(80)})

	if log.toolStarts != 1 || log.toolEnds != 1 {
		t.Errorf("starts=%d ends=%d, want 1/1", log.toolStarts, log.toolEnds)
	}
	if log.lastStart != [2]float64{100, 100} {
		t.Errorf("start at %v, want down position", log.lastStart)
	}
	if log.lastEnd != [2]float64{101, 100} {
		t.Errorf("end at %v, want up position", log.lastEnd)
	}
	if r.Phase() != GestureIdle {
		t.Errorf("phase = %v, want idle", r.Phase())
	}
}

func TestConfirmDelayCommitsToolAtStart(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 50, Y: 60, At: at(0)})
	// creep 3px: intentional movement, but below the fast-stroke threshold
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 53, Y: 60, At: at(50)})
	r.Tick(at(100))
	if log.toolStarts != 0 {
		t.Fatal("tool started before confirm delay")
	}
	r.Tick(at(160))
	if log.toolStarts != 1 {
		t.Fatalf("starts = %d after confirm delay, want 1", log.toolStarts)
	}
	if r.Phase() != GestureTool {
		t.Errorf("phase = %v, want tool", r.Phase())
	}
	if log.lastStart != [2]float64{50, 60} {
		t.Errorf("start at %v, want press position", log.lastStart)
	}
}

func TestFastMoveClassifiesImmediately(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 10, Y: 10, At: at(0)})
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 20, Y: 10, At: at(30)})

	if r.Phase() != GestureTool {
		t.Fatalf("phase = %v, want tool", r.Phase())
	}
	if log.toolStarts != 1 {
		t.Fatalf("starts = %d, want 1", log.toolStarts)
	}
	// the stroke starts where the pointer is now, not where it went down
	if log.lastStart != [2]float64{20, 10} {
		t.Errorf("start at %v, want current position", log.lastStart)
	}
}

func TestSmallJitterStaysPending(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 10, Y: 10, At: at(0)})
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 13, Y: 10, At: at(30)})

	if r.Phase() != GesturePending {
		t.Errorf("phase = %v, want pending", r.Phase())
	}
	if log.toolStarts != 0 {
		t.Errorf("starts = %d, want 0", log.toolStarts)
	}
}

func TestSecondFingerCancelsTool(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerDown, X: 200, Y: 100, At: at(50)})

	if r.Phase() != GesturePanZoom {
		t.Fatalf("phase = %v, want pan_zoom", r.Phase())
	}
	// even after the long-press window, no tool callbacks may fire
	r.Tick(at(1000))
	r.Handle(PointerEvent{ID: 1, Phase: PointerUp, X: 100, Y: 100, At: at(1100)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerUp, X: 200, Y: 100, At: at(1200)})

	if log.toolStarts != 0 || log.toolEnds != 0 || log.longPress != 0 {
		t.Errorf("tool callbacks fired during pan/zoom: %+v", log)
	}
	if r.Phase() != GestureIdle {
		t.Errorf("phase = %v, want idle", r.Phase())
	}
}

func TestPinchPansAndZooms(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerDown, X: 200, Y: 100, At: at(20)})

	// both fingers shift right 10px: pure pan
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 110, Y: 100, At: at(40)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerMove, X: 210, Y: 100, At: at(41)})
	if log.pans == 0 {
		t.Fatal("no pan emitted")
	}
	if log.panDX != 10 || log.panDY != 0 {
		t.Errorf("accumulated pan (%f, %f), want (10, 0)", log.panDX, log.panDY)
	}

	// fingers spread from 100px apart to 200px apart: zoom in 2x
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 60, Y: 100, At: at(60)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerMove, X: 260, Y: 100, At: at(61)})
	if log.zooms == 0 {
		t.Fatal("no zoom emitted")
	}
	// each move emits a partial factor; every step of a spread is > 1
	if log.lastZoom <= 1.0 {
		t.Errorf("last zoom factor %f, want > 1", log.lastZoom)
	}
}

func TestPanZoomStaysInertOnOneFinger(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerDown, X: 200, Y: 100, At: at(20)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerUp, X: 200, Y: 100, At: at(40)})

	if r.Phase() != GesturePanZoom {
		t.Fatalf("phase = %v, want pan_zoom while a finger remains", r.Phase())
	}
	// the remaining finger must not paint or pan
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 150, Y: 150, At: at(60)})
	if log.toolStarts != 0 || log.toolMoves != 0 {
		t.Errorf("tool callbacks fired from inert pan_zoom: %+v", log)
	}
	r.Handle(PointerEvent{ID: 1, Phase: PointerUp, X: 150, Y: 150, At: at(80)})
	if r.Phase() != GestureIdle {
		t.Errorf("phase = %v, want idle", r.Phase())
	}
}

func TestLongPressFires(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	// tick at display rate: the confirm deadline passes many ticks before
	// the long-press deadline and must not steal a stationary hold
	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	for ms := 16; ms <= 600; ms += 16 {
		r.Tick(at(ms))
	}

	if log.longPress != 1 {
		t.Fatalf("longPress = %d, want 1", log.longPress)
	}
	if r.Phase() != GestureLongPress {
		t.Fatalf("phase = %v, want long_press", r.Phase())
	}
	if log.toolStarts != 0 {
		t.Errorf("tool started alongside long-press")
	}
	r.Handle(PointerEvent{ID: 1, Phase: PointerUp, X: 100, Y: 100, At: at(620)})
	if r.Phase() != GestureIdle {
		t.Errorf("phase = %v, want idle", r.Phase())
	}
}

func TestLongPressSurvivesFingerTremor(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 101, Y: 100, At: at(90)})
	for ms := 96; ms <= 600; ms += 16 {
		r.Tick(at(ms))
	}

	if log.longPress != 1 {
		t.Fatalf("longPress = %d, want 1", log.longPress)
	}
	if log.toolStarts != 0 {
		t.Errorf("tremor classified as a stroke")
	}
}

func TestMoveAfterConfirmDelayStartsTool(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	for ms := 16; ms <= 200; ms += 16 {
		r.Tick(at(ms))
	}
	if log.toolStarts != 0 {
		t.Fatal("still hold classified before any movement")
	}
	// a 3px move is enough once the confirm window has elapsed
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 103, Y: 100, At: at(230)})

	if log.toolStarts != 1 {
		t.Fatalf("starts = %d after post-confirm move, want 1", log.toolStarts)
	}
	if log.lastStart != [2]float64{103, 100} {
		t.Errorf("start at %v, want current position", log.lastStart)
	}
	r.Tick(at(900))
	if log.longPress != 0 {
		t.Errorf("long-press fired after the tool committed")
	}
}

func TestDriftPastThresholdDisarmsLongPress(t *testing.T) {
	var log gestureLog
	// widen the confirm delay so the move cannot also trip the tool path
	r := NewGestureRouter(GestureConfig{
		ConfirmDelay:       150 * time.Millisecond,
		LongPressDelay:     500 * time.Millisecond,
		MoveThreshold:      20,
		LongPressThreshold: 10,
	}, GestureCallbacks{
		OnLongPress: func(x, y float64) { log.longPress++ },
	})

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	r.Handle(PointerEvent{ID: 1, Phase: PointerMove, X: 115, Y: 100, At: at(100)})
	r.Tick(at(600))

	if log.longPress != 0 {
		t.Errorf("long-press fired after drifting past its threshold")
	}
}

func TestCancelResetsEverything(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	r.Handle(PointerEvent{ID: 1, Phase: PointerCancel, At: at(50)})

	if r.Phase() != GestureIdle {
		t.Fatalf("phase = %v, want idle", r.Phase())
	}
	// timers must be disarmed: advancing past every deadline fires nothing
	r.Tick(at(5000))
	if log.toolStarts != 0 || log.longPress != 0 {
		t.Errorf("callbacks fired after cancel: %+v", log)
	}
}

func TestHandleSettlesDeadlinesBeforeEvent(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 100, Y: 100, At: at(0)})
	// no Tick in between; the up event itself arrives after the long-press
	// deadline, so the long-press wins over the tap
	r.Handle(PointerEvent{ID: 1, Phase: PointerUp, X: 100, Y: 100, At: at(700)})

	if log.longPress != 1 {
		t.Errorf("longPress = %d, want 1", log.longPress)
	}
	if log.toolStarts != 0 {
		t.Errorf("tap classified despite elapsed long-press deadline")
	}
}

func TestThirdFingerRebasesWithoutJump(t *testing.T) {
	var log gestureLog
	r := newTestRouter(&log)

	r.Handle(PointerEvent{ID: 1, Phase: PointerDown, X: 0, Y: 0, At: at(0)})
	r.Handle(PointerEvent{ID: 2, Phase: PointerDown, X: 100, Y: 0, At: at(10)})
	r.Handle(PointerEvent{ID: 3, Phase: PointerDown, X: 300, Y: 300, At: at(20)})

	// the midpoint shifted when the third finger landed, but no pan may be
	// emitted until an actual move happens
	if log.pans != 0 {
		t.Errorf("pan emitted on finger down")
	}
	r.Handle(PointerEvent{ID: 3, Phase: PointerMove, X: 310, Y: 300, At: at(40)})
	if log.pans != 1 {
		t.Errorf("pans = %d after move, want 1", log.pans)
	}
}
