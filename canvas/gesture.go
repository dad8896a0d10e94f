package canvas

import (
	"math"
	"time"
)

// PointerPhase is the lifecycle stage of a single pointer event.
type PointerPhase int

const (
	PointerDown PointerPhase = iota
	PointerMove
	PointerUp
	PointerCancel
)

// PointerEvent is one raw input sample for one pointer. The controller
// synthesizes these from Ebiten's polled mouse and touch state; IDs are
// stable for the lifetime of a press.
type PointerEvent struct {
	ID    int
	Phase PointerPhase
	X, Y  float64
	At    time.Time
}

// GesturePhase is the router's current classification of the interaction.
type GesturePhase int

const (
	GestureIdle GesturePhase = iota
	GesturePending
	GestureTool
	GesturePanZoom
	GestureLongPress
)

func (p GesturePhase) String() string {
	switch p {
	case GestureIdle:
		return "idle"
	case GesturePending:
		return "pending"
	case GestureTool:
		return "tool"
	case GesturePanZoom:
		return "pan_zoom"
	case GestureLongPress:
		return "long_press"
	default:
		return "unknown"
	}
}

// GestureConfig holds the tunable classification thresholds. These are
// empirically tuned defaults, not hard requirements; the editor config file
// may override any of them.
type GestureConfig struct {
	ConfirmDelay       time.Duration
	LongPressDelay     time.Duration
	MoveThreshold      float64
	LongPressThreshold float64
}

// stillnessEpsilon separates finger tremor from intentional movement when
// the confirm deadline elapses. A pointer that has stayed inside this radius
// is treated as holding, not drawing.
const stillnessEpsilon = 2.0

// DefaultGestureConfig returns the stock thresholds.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		ConfirmDelay:       150 * time.Millisecond,
		LongPressDelay:     500 * time.Millisecond,
		MoveThreshold:      5,
		LongPressThreshold: 10,
	}
}

func (c GestureConfig) withDefaults() GestureConfig {
	d := DefaultGestureConfig()
	if c.ConfirmDelay <= 0 {
		c.ConfirmDelay = d.ConfirmDelay
	}
	if c.LongPressDelay <= 0 {
		c.LongPressDelay = d.LongPressDelay
	}
	if c.MoveThreshold <= 0 {
		c.MoveThreshold = d.MoveThreshold
	}
	if c.LongPressThreshold <= 0 {
		c.LongPressThreshold = d.LongPressThreshold
	}
	return c
}

// GestureCallbacks receives the router's disambiguated output. Any nil
// callback is simply skipped.
type GestureCallbacks struct {
	OnPan       func(dx, dy float64)
	OnZoom      func(factor, anchorX, anchorY float64)
	OnToolStart func(x, y float64)
	OnToolMove  func(x, y float64)
	OnToolEnd   func(x, y float64)
	OnLongPress func(x, y float64)
}

type trackedPointer struct {
	x, y float64
}

// GestureRouter disambiguates raw pointer events into pan/zoom, single-point
// tool gestures, and long-press. It is a state machine over the set of
// active pointer IDs: a second finger arriving before classification always
// wins over the tool interpretation, which is what prevents stray edits at
// the start of a two-finger pan.
type GestureRouter struct {
	cfg GestureConfig
	cb  GestureCallbacks

	phase    GesturePhase
	pointers map[int]trackedPointer
	order    []int // pointer IDs in press order

	toolID int // pointer driving a tool gesture

	startX, startY float64
	maxDist        float64   // peak distance from the press point while pending
	confirmed      bool      // confirm delay elapsed with the pointer still
	confirmAt      time.Time // zero when disarmed
	longPressAt    time.Time // zero when disarmed

	prevMidX, prevMidY float64
	prevDist           float64
}

// NewGestureRouter builds a router in the idle state. Zero-valued config
// fields fall back to the defaults.
func NewGestureRouter(cfg GestureConfig, cb GestureCallbacks) *GestureRouter {
	return &GestureRouter{
		cfg:      cfg.withDefaults(),
		cb:       cb,
		pointers: make(map[int]trackedPointer),
	}
}

// Phase returns the current classification.
func (r *GestureRouter) Phase() GesturePhase { return r.phase }

// Tick advances the router's timers to now. The controller calls this once
// per frame so the deadlines fire even when the pointer is perfectly still.
// A still pointer at the confirm deadline stays pending: the hold is headed
// for a long-press, and committing the tool here would make the long-press
// unreachable under frame-rate ticking.
func (r *GestureRouter) Tick(now time.Time) {
	if r.phase != GesturePending {
		return
	}
	if !r.longPressAt.IsZero() && !now.Before(r.longPressAt) {
		r.longPressAt = time.Time{}
		r.confirmAt = time.Time{}
		r.phase = GestureLongPress
		if r.cb.OnLongPress != nil {
			r.cb.OnLongPress(r.startX, r.startY)
		}
		return
	}
	if !r.confirmAt.IsZero() && !now.Before(r.confirmAt) {
		r.confirmAt = time.Time{}
		if r.maxDist <= stillnessEpsilon {
			// Holding still; the next real movement commits the tool, a
			// release resolves as a tap.
			r.confirmed = true
			return
		}
		r.longPressAt = time.Time{}
		r.beginTool(r.startX, r.startY)
	}
}

// Handle feeds one pointer event through the state machine. Events must
// arrive in timestamp order; deadlines are settled against the event time
// before the event itself is applied.
func (r *GestureRouter) Handle(ev PointerEvent) {
	r.Tick(ev.At)

	switch ev.Phase {
	case PointerDown:
		r.handleDown(ev)
	case PointerMove:
		r.handleMove(ev)
	case PointerUp:
		r.handleUp(ev)
	case PointerCancel:
		r.Reset()
	}
}

// Reset hard-clears all gesture state, as on a system pointer-cancel.
// Clearing an already-clear router is a no-op.
func (r *GestureRouter) Reset() {
	r.phase = GestureIdle
	r.confirmAt = time.Time{}
	r.longPressAt = time.Time{}
	r.confirmed = false
	r.maxDist = 0
	r.prevDist = 0
	for id := range r.pointers {
		delete(r.pointers, id)
	}
	r.order = r.order[:0]
}

func (r *GestureRouter) handleDown(ev PointerEvent) {
	if _, ok := r.pointers[ev.ID]; !ok {
		r.pointers[ev.ID] = trackedPointer{ev.X, ev.Y}
		r.order = append(r.order, ev.ID)
	}

	switch r.phase {
	case GestureIdle:
		r.phase = GesturePending
		r.startX, r.startY = ev.X, ev.Y
		r.toolID = ev.ID
		r.maxDist = 0
		r.confirmed = false
		r.confirmAt = ev.At.Add(r.cfg.ConfirmDelay)
		r.longPressAt = ev.At.Add(r.cfg.LongPressDelay)

	case GesturePending:
		// Second finger before classification: this is a pan/zoom and the
		// tool callbacks must never fire for it.
		r.confirmAt = time.Time{}
		r.longPressAt = time.Time{}
		r.enterPanZoom()

	case GesturePanZoom:
		// Extra fingers fold into the midpoint; rebase so they don't jump.
		r.rebasePanZoom()

	case GestureTool, GestureLongPress:
		// Extra finger during a committed single-point gesture is ignored.
	}
}

func (r *GestureRouter) handleMove(ev PointerEvent) {
	p, ok := r.pointers[ev.ID]
	if !ok {
		return
	}
	p.x, p.y = ev.X, ev.Y
	r.pointers[ev.ID] = p

	switch r.phase {
	case GesturePending:
		if ev.ID != r.toolID {
			return
		}
		dist := math.Hypot(ev.X-r.startX, ev.Y-r.startY)
		if dist > r.maxDist {
			r.maxDist = dist
		}
		if dist > r.cfg.LongPressThreshold {
			r.longPressAt = time.Time{}
		}
		if dist > r.cfg.MoveThreshold || (r.confirmed && dist > stillnessEpsilon) {
			// Deliberate stroke: classify immediately so painting has no
			// perceptible latency. Start at the current position, not the
			// down position. After the confirm window any movement past
			// tremor counts, not just the full move threshold.
			r.confirmAt = time.Time{}
			r.longPressAt = time.Time{}
			r.beginTool(ev.X, ev.Y)
		}

	case GestureTool:
		if ev.ID != r.toolID {
			return
		}
		if r.cb.OnToolMove != nil {
			r.cb.OnToolMove(ev.X, ev.Y)
		}

	case GesturePanZoom:
		r.stepPanZoom()
	}
}

func (r *GestureRouter) handleUp(ev PointerEvent) {
	if _, ok := r.pointers[ev.ID]; !ok {
		return
	}
	delete(r.pointers, ev.ID)
	for i, id := range r.order {
		if id == ev.ID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	switch r.phase {
	case GesturePending:
		// Quick tap: classify as tool and finish it in one step.
		r.confirmAt = time.Time{}
		r.longPressAt = time.Time{}
		r.beginTool(r.startX, r.startY)
		if r.cb.OnToolEnd != nil {
			r.cb.OnToolEnd(ev.X, ev.Y)
		}
		r.phase = GestureIdle

	case GestureTool:
		if ev.ID != r.toolID {
			return
		}
		if r.cb.OnToolEnd != nil {
			r.cb.OnToolEnd(ev.X, ev.Y)
		}
		r.phase = GestureIdle

	case GesturePanZoom:
		if len(r.pointers) >= 2 {
			r.rebasePanZoom()
			return
		}
		// Dropping to one finger never resumes a tool stroke; the gesture
		// stays inert until every pointer lifts.
		r.prevDist = 0
		if len(r.pointers) == 0 {
			r.phase = GestureIdle
		}

	case GestureLongPress:
		if len(r.pointers) == 0 {
			r.phase = GestureIdle
		}
	}

	if len(r.pointers) == 0 && r.phase != GestureIdle {
		r.phase = GestureIdle
	}
}

func (r *GestureRouter) beginTool(x, y float64) {
	r.phase = GestureTool
	if r.cb.OnToolStart != nil {
		r.cb.OnToolStart(x, y)
	}
}

func (r *GestureRouter) enterPanZoom() {
	r.phase = GesturePanZoom
	r.rebasePanZoom()
}

// rebasePanZoom resets the pan/zoom baseline to the current pointer set so
// the next step measures deltas from here.
func (r *GestureRouter) rebasePanZoom() {
	r.prevMidX, r.prevMidY = r.midpoint()
	r.prevDist = r.pairDistance()
}

// stepPanZoom emits pan and zoom deltas for the current pointer positions.
// Pan follows the midpoint of all active pointers; zoom follows the ratio of
// the distance between the first two, anchored at the midpoint.
func (r *GestureRouter) stepPanZoom() {
	if len(r.pointers) < 2 {
		return
	}
	midX, midY := r.midpoint()
	dist := r.pairDistance()

	dx := midX - r.prevMidX
	dy := midY - r.prevMidY
	if (dx != 0 || dy != 0) && r.cb.OnPan != nil {
		r.cb.OnPan(dx, dy)
	}
	if dist > 0 && r.prevDist > 0 && dist != r.prevDist && r.cb.OnZoom != nil {
		r.cb.OnZoom(dist/r.prevDist, midX, midY)
	}

	r.prevMidX, r.prevMidY = midX, midY
	r.prevDist = dist
}

func (r *GestureRouter) midpoint() (float64, float64) {
	if len(r.pointers) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, p := range r.pointers {
		sx += p.x
		sy += p.y
	}
	n := float64(len(r.pointers))
	return sx / n, sy / n
}

func (r *GestureRouter) pairDistance() float64 {
	if len(r.order) < 2 {
		return 0
	}
	a, okA := r.pointers[r.order[0]]
	b, okB := r.pointers[r.order[1]]
	if !okA || !okB {
		return 0
	}
	return math.Hypot(b.x-a.x, b.y-a.y)
}
