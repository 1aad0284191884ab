package canvas

// DragState is either Idle or Dragging one element. The zero value is Idle.
type DragState struct {
	active bool
	index  int
	offset Point
}

// Idle is the state with no active drag.
var Idle = DragState{}

// Dragging reports the index of the element being dragged, if any.
func (s DragState) Dragging() (index int, ok bool) {
	return s.index, s.active
}

// Offset is the pointer's distance from the dragged element's top-left
// corner, captured when the drag began.
func (s DragState) Offset() Point {
	return s.offset
}

// Move is the clamped position reported for the dragged element.
type Move struct {
	Index int
	To    Point
}

// BeginDrag starts dragging elements[index] from pointer p. Any drag in
// progress is dropped first. An index outside elements leaves the engine
// Idle.
func (c Canvas) BeginDrag(_ DragState, p Point, index int, elements []Rect) DragState {
	if index < 0 || index >= len(elements) {
		return Idle
	}
	origin := elements[index].Origin()
	return DragState{
		active: true,
		index:  index,
		offset: Point{X: p.X - origin.X, Y: p.Y - origin.Y},
	}
}

// ContinueDrag computes where the dragged element goes when the pointer
// reaches p. It reports false when no drag is active or the dragged element
// no longer exists. The element list is not modified.
func (c Canvas) ContinueDrag(s DragState, p Point, elements []Rect) (Move, bool) {
	if !s.active || s.index < 0 || s.index >= len(elements) {
		return Move{}, false
	}
	el := elements[s.index]
	to := c.Clamp(Point{X: p.X - s.offset.X, Y: p.Y - s.offset.Y}, el.W, el.H)
	return Move{Index: s.index, To: to}, true
}

// EndDrag clears every drag state unconditionally. Pointer-up and
// pointer-leave both end here.
func EndDrag(DragState) DragState {
	return Idle
}
