package canvas

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Pointer ID assignment: the mouse is always pointer 0, touches occupy
// slots 1..maxTouchSlots. Slots are reused only after the touch lifts, so
// an ID is stable for the lifetime of a press.
const maxTouchSlots = 9

type slotState struct {
	active bool
	x, y   float64
}

// PointerSource polls Ebiten's mouse and touch state once per frame and
// synthesizes ordered pointer events from the differences. Ebiten exposes
// input as polled state rather than events, so down/move/up transitions are
// reconstructed here.
type PointerSource struct {
	mouse slotState
	slots [maxTouchSlots + 1]slotState

	touchSlot map[ebiten.TouchID]int

	touchIDs []ebiten.TouchID
	seen     map[ebiten.TouchID]bool
	events   []PointerEvent
}

// NewPointerSource returns an empty source.
func NewPointerSource() *PointerSource {
	return &PointerSource{
		touchSlot: make(map[ebiten.TouchID]int),
		seen:      make(map[ebiten.TouchID]bool),
	}
}

// IsTouch reports whether a pointer ID came from a touch rather than the
// mouse; the brush cursor applies its vertical offset only for touches.
func IsTouch(id int) bool { return id > 0 }

// Poll reads the current input state and returns the pointer events since
// the previous call. The returned slice is reused across calls.
func (s *PointerSource) Poll(now time.Time) []PointerEvent {
	s.events = s.events[:0]
	s.pollMouse(now)
	s.pollTouches(now)
	return s.events
}

func (s *PointerSource) pollMouse(now time.Time) {
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case down && !s.mouse.active:
		s.mouse = slotState{active: true, x: x, y: y}
		s.emit(0, PointerDown, x, y, now)
	case down && s.mouse.active:
		if x != s.mouse.x || y != s.mouse.y {
			s.mouse.x, s.mouse.y = x, y
			s.emit(0, PointerMove, x, y, now)
		}
	case !down && s.mouse.active:
		s.mouse.active = false
		s.emit(0, PointerUp, x, y, now)
	}
}

func (s *PointerSource) pollTouches(now time.Time) {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	for id := range s.seen {
		delete(s.seen, id)
	}

	for _, id := range s.touchIDs {
		s.seen[id] = true
		tx, ty := ebiten.TouchPosition(id)
		x, y := float64(tx), float64(ty)

		slot, ok := s.touchSlot[id]
		if !ok {
			slot = s.allocSlot()
			if slot == 0 {
				continue // all slots busy, drop the touch
			}
			s.touchSlot[id] = slot
			s.slots[slot] = slotState{active: true, x: x, y: y}
			s.emit(slot, PointerDown, x, y, now)
			continue
		}
		if x != s.slots[slot].x || y != s.slots[slot].y {
			s.slots[slot].x, s.slots[slot].y = x, y
			s.emit(slot, PointerMove, x, y, now)
		}
	}

	for id, slot := range s.touchSlot {
		if s.seen[id] {
			continue
		}
		st := s.slots[slot]
		s.slots[slot] = slotState{}
		delete(s.touchSlot, id)
		s.emit(slot, PointerUp, st.x, st.y, now)
	}
}

// allocSlot returns the lowest free touch slot, or 0 when none is free.
func (s *PointerSource) allocSlot() int {
	for i := 1; i <= maxTouchSlots; i++ {
		if !s.slots[i].active {
			return i
		}
	}
	return 0
}

func (s *PointerSource) emit(id int, phase PointerPhase, x, y float64, at time.Time) {
	s.events = append(s.events, PointerEvent{ID: id, Phase: phase, X: x, Y: y, At: at})
}

// Wheel returns the frame's scroll delta for desktop zoom.
func (s *PointerSource) Wheel() (float64, float64) {
	return ebiten.Wheel()
}
