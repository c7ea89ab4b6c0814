// Package build maps (current slide, advance cursor) to the set of visible
// layer ids, and expands build steps into a presentation timeline.
package build

import (
	"sync"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Scheduler tracks the advance cursor for the current slide. Entering a
// slide always resets the cursor to 0 — including re-entering the same slide
// id, so a duplicated slide-changed event cannot drift the cursor.
type Scheduler struct {
	mu      sync.Mutex
	slideID string
	cursor  int
}

// NewScheduler creates a scheduler with no current slide.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// EnterSlide makes the slide current and resets the cursor.
func (s *Scheduler) EnterSlide(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slideID = id
	s.cursor = 0
}

// Advance increments the cursor and returns the new value.
func (s *Scheduler) Advance() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor++
	return s.cursor
}

// Retreat decrements the cursor. It reports false when the cursor is already
// 0, which is the caller's signal to navigate to the previous slide instead.
func (s *Scheduler) Retreat() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == 0 {
		return 0, false
	}
	s.cursor--
	return s.cursor, true
}

// Cursor returns the current advance cursor.
func (s *Scheduler) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// SlideID returns the current slide id.
func (s *Scheduler) SlideID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slideID
}

// AdvanceCount returns how many onAdvance-triggered build steps the slide
// declares. The cursor saturates at this count; further advances move to the
// next slide.
func AdvanceCount(slide *models.Slide) int {
	if slide == nil || slide.Animations == nil {
		return 0
	}
	n := 0
	for _, step := range slide.Animations.BuildIn {
		if step.Trigger == models.TriggerOnAdvance {
			n++
		}
	}
	return n
}

// ComputeVisibleLayers returns the ids visible at the given advance cursor.
// A layer targeted by the Nth onAdvance step (1-indexed, declaration order)
// is visible once cursor >= N. Layers not gated by any onAdvance step are
// visible unless the author hid them. withPrevious/afterPrevious steps shape
// presentation timing only and never gate membership. Steps targeting
// unknown layer ids are skipped but still consume their ordinal.
//
// With no onAdvance steps at all, every authored-visible layer is visible:
// surfaces must never go blank absent explicit instruction.
func ComputeVisibleLayers(slide *models.Slide, cursor int) []string {
	if slide == nil {
		return nil
	}

	gated := make(map[string]bool)
	revealed := make(map[string]bool)
	if slide.Animations != nil {
		ordinal := 0
		for _, step := range slide.Animations.BuildIn {
			if step.Trigger != models.TriggerOnAdvance {
				continue
			}
			ordinal++
			gated[step.LayerID] = true
			if cursor >= ordinal {
				revealed[step.LayerID] = true
			}
		}
	}

	visible := make([]string, 0, len(slide.Layers))
	for i := range slide.Layers {
		layer := &slide.Layers[i]
		if !layer.IsVisible() {
			continue
		}
		if gated[layer.ID] && !revealed[layer.ID] {
			continue
		}
		visible = append(visible, layer.ID)
	}
	return visible
}
