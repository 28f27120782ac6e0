// Package mouse provides hit testing and translation of raw terminal mouse
// events into UI actions. Regions are re-registered on every render pass.
// Click sequencing (single versus double, preview versus open) is decided
// by the consumer on top of the raw click stream.
package mouse

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Rect is a rectangle in terminal cell coordinates.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the point is inside the rect. Right and bottom
// edges are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Region is a clickable area with an identifier and arbitrary payload.
type Region struct {
	ID   string
	Rect Rect
	Data any
}

// HitMap maps screen coordinates to registered regions.
type HitMap struct {
	regions []Region
}

func NewHitMap() *HitMap {
	return &HitMap{}
}

// Add registers a region. Later additions win on overlap.
func (hm *HitMap) Add(id string, r Rect, data any) {
	hm.regions = append(hm.regions, Region{ID: id, Rect: r, Data: data})
}

// AddRect is Add with unpacked coordinates.
func (hm *HitMap) AddRect(id string, x, y, w, h int, data any) {
	hm.Add(id, Rect{X: x, Y: y, W: w, H: h}, data)
}

// Test returns the topmost region containing the point, or nil.
func (hm *HitMap) Test(x, y int) *Region {
	for i := len(hm.regions) - 1; i >= 0; i-- {
		if hm.regions[i].Rect.Contains(x, y) {
			r := hm.regions[i]
			return &r
		}
	}
	return nil
}

// Clear removes all regions.
func (hm *HitMap) Clear() {
	hm.regions = hm.regions[:0]
}

// Regions returns a copy of the registered regions.
func (hm *HitMap) Regions() []Region {
	out := make([]Region, len(hm.regions))
	copy(out, hm.regions)
	return out
}

// ActionType classifies a translated mouse event.
type ActionType int

const (
	ActionNone ActionType = iota
	ActionClick
	ActionScrollUp
	ActionScrollDown
	ActionScrollLeft
	ActionScrollRight
	ActionDrag
	ActionDragEnd
	ActionHover
)

// Action is the result of translating one mouse event.
type Action struct {
	Type   ActionType
	Region *Region

	// Delta is the scroll amount for scroll actions.
	Delta int

	// DragDX and DragDY are offsets from the drag origin.
	DragDX, DragDY int
	DragRegion     string
}

const scrollStep = 3

// Handler owns a hit map and in-flight drag state.
type Handler struct {
	HitMap *HitMap

	dragging   bool
	dragX      int
	dragY      int
	dragRegion string
	dragStart  int
}

func NewHandler() *Handler {
	return &Handler{HitMap: NewHitMap()}
}

// HandleClick hit-tests a press at the given point.
func (h *Handler) HandleClick(x, y int) *Region {
	return h.HitMap.Test(x, y)
}

// StartDrag begins a drag anchored at the given point. startValue is a
// caller-owned quantity (typically a pane width) sampled at drag start.
func (h *Handler) StartDrag(x, y int, region string, startValue int) {
	h.dragging = true
	h.dragX = x
	h.dragY = y
	h.dragRegion = region
	h.dragStart = startValue
}

func (h *Handler) IsDragging() bool    { return h.dragging }
func (h *Handler) DragRegion() string  { return h.dragRegion }
func (h *Handler) DragStartValue() int { return h.dragStart }

// DragDelta returns the offset of the point from the drag origin.
func (h *Handler) DragDelta(x, y int) (dx, dy int) {
	return x - h.dragX, y - h.dragY
}

func (h *Handler) EndDrag() {
	h.dragging = false
	h.dragRegion = ""
	h.dragStart = 0
}

// Clear resets the hit map. Drag state survives a re-render.
func (h *Handler) Clear() {
	h.HitMap.Clear()
}

// HandleMouse translates a bubbletea mouse message into an Action.
func (h *Handler) HandleMouse(msg tea.MouseMsg) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if r := h.HitMap.Test(msg.X, msg.Y); r != nil {
				return Action{Type: ActionClick, Region: r}
			}
			return Action{Type: ActionNone}
		case tea.MouseButtonWheelUp:
			if msg.Shift {
				return Action{Type: ActionScrollLeft, Delta: -scrollStep}
			}
			return Action{Type: ActionScrollUp, Delta: -scrollStep}
		case tea.MouseButtonWheelDown:
			if msg.Shift {
				return Action{Type: ActionScrollRight, Delta: scrollStep}
			}
			return Action{Type: ActionScrollDown, Delta: scrollStep}
		case tea.MouseButtonWheelLeft:
			// Mac natural scrolling reports the opposite direction.
			return Action{Type: ActionScrollRight, Delta: scrollStep}
		case tea.MouseButtonWheelRight:
			return Action{Type: ActionScrollLeft, Delta: -scrollStep}
		}
	case tea.MouseActionMotion:
		if h.dragging {
			dx, dy := h.DragDelta(msg.X, msg.Y)
			return Action{Type: ActionDrag, DragDX: dx, DragDY: dy, DragRegion: h.dragRegion}
		}
		return Action{Type: ActionHover, Region: h.HitMap.Test(msg.X, msg.Y)}
	case tea.MouseActionRelease:
		if h.dragging {
			region := h.dragRegion
			h.EndDrag()
			return Action{Type: ActionDragEnd, DragRegion: region}
		}
	}
	return Action{Type: ActionNone}
}
