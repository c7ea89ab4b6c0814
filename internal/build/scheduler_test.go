package build

import (
	"reflect"
	"testing"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

func buildSlide() *models.Slide {
	return &models.Slide{
		ID: "s1",
		Layers: []models.Layer{
			{ID: "A", Type: models.LayerText},
			{ID: "B", Type: models.LayerText},
			{ID: "C", Type: models.LayerText},
			{ID: "bg", Type: models.LayerShape},
		},
		Animations: &models.Animations{
			BuildIn: []models.BuildStep{
				{LayerID: "A", Preset: "fade", Trigger: models.TriggerOnAdvance},
				{LayerID: "B", Preset: "fade", Trigger: models.TriggerOnAdvance},
				{LayerID: "C", Preset: "fade", Trigger: models.TriggerOnAdvance},
			},
		},
	}
}

func TestComputeVisibleLayersAdvanceSequence(t *testing.T) {
	slide := buildSlide()

	tests := []struct {
		cursor int
		want   []string
	}{
		{0, []string{"bg"}},
		{1, []string{"A", "bg"}},
		{2, []string{"A", "B", "bg"}},
		{3, []string{"A", "B", "C", "bg"}},
		{99, []string{"A", "B", "C", "bg"}},
	}

	for _, tt := range tests {
		got := ComputeVisibleLayers(slide, tt.cursor)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("cursor %d: visible = %v, want %v", tt.cursor, got, tt.want)
		}
	}
}

func TestComputeVisibleLayersDefaultPolicy(t *testing.T) {
	slide := &models.Slide{
		ID: "s1",
		Layers: []models.Layer{
			{ID: "A"}, {ID: "B"},
		},
	}
	got := ComputeVisibleLayers(slide, 0)
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("no onAdvance builds must show all layers, got %v", got)
	}
}

func TestComputeVisibleLayersAuthoredHidden(t *testing.T) {
	hidden := false
	slide := &models.Slide{
		ID: "s1",
		Layers: []models.Layer{
			{ID: "A"},
			{ID: "B", Visible: &hidden},
		},
	}
	got := ComputeVisibleLayers(slide, 0)
	if !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("authored-hidden layer must stay hidden, got %v", got)
	}
}

func TestComputeVisibleLayersDanglingTarget(t *testing.T) {
	slide := buildSlide()
	// Second step now points at a layer that does not exist.
	slide.Animations.BuildIn[1].LayerID = "ghost"

	// The dangling step still consumes ordinal 2, so C stays on ordinal 3.
	got := ComputeVisibleLayers(slide, 2)
	if !reflect.DeepEqual(got, []string{"A", "bg"}) {
		t.Errorf("cursor 2 with dangling step: visible = %v", got)
	}
	got = ComputeVisibleLayers(slide, 3)
	if !reflect.DeepEqual(got, []string{"A", "C", "bg"}) {
		t.Errorf("cursor 3 with dangling step: visible = %v", got)
	}
}

func TestComputeVisibleLayersTimingTriggersDoNotGate(t *testing.T) {
	slide := &models.Slide{
		ID: "s1",
		Layers: []models.Layer{
			{ID: "A"}, {ID: "B"}, {ID: "C"},
		},
		Animations: &models.Animations{
			BuildIn: []models.BuildStep{
				{LayerID: "A", Trigger: models.TriggerOnEnter},
				{LayerID: "B", Trigger: models.TriggerWithPrevious},
				{LayerID: "C", Trigger: models.TriggerAfterPrevious},
			},
		},
	}
	got := ComputeVisibleLayers(slide, 0)
	if !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("timing-only triggers must not gate visibility, got %v", got)
	}
}

func TestComputeVisibleLayersNilSlide(t *testing.T) {
	if got := ComputeVisibleLayers(nil, 3); got != nil {
		t.Errorf("nil slide must yield nil, got %v", got)
	}
}

func TestSchedulerCursorLifecycle(t *testing.T) {
	s := NewScheduler()
	s.EnterSlide("s1")
	if s.Cursor() != 0 {
		t.Fatalf("cursor after enter = %d, want 0", s.Cursor())
	}

	if got := s.Advance(); got != 1 {
		t.Errorf("advance = %d, want 1", got)
	}
	s.Advance()
	s.Advance()
	if s.Cursor() != 3 {
		t.Errorf("cursor = %d, want 3", s.Cursor())
	}

	// Re-entering the same slide resets the cursor identically, so a
	// duplicated slide-changed event cannot drift.
	s.EnterSlide("s1")
	if s.Cursor() != 0 {
		t.Errorf("cursor after identical re-enter = %d, want 0", s.Cursor())
	}

	s.Advance()
	s.EnterSlide("s2")
	if s.Cursor() != 0 || s.SlideID() != "s2" {
		t.Errorf("slide change must reset cursor, got %d on %s", s.Cursor(), s.SlideID())
	}
}

func TestSchedulerRetreat(t *testing.T) {
	s := NewScheduler()
	s.EnterSlide("s1")

	if _, ok := s.Retreat(); ok {
		t.Errorf("retreat at cursor 0 must report false")
	}

	s.Advance()
	s.Advance()
	if cursor, ok := s.Retreat(); !ok || cursor != 1 {
		t.Errorf("retreat = (%d, %t), want (1, true)", cursor, ok)
	}
}

func TestAdvanceCount(t *testing.T) {
	if got := AdvanceCount(nil); got != 0 {
		t.Errorf("nil slide count = %d", got)
	}
	if got := AdvanceCount(buildSlide()); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}
}

func TestTimeline(t *testing.T) {
	steps := []models.BuildStep{
		{LayerID: "A", Trigger: models.TriggerOnEnter, DelayMS: 100, DurationMS: 500},
		{LayerID: "B", Trigger: models.TriggerWithPrevious, DelayMS: 50, DurationMS: 200},
		{LayerID: "C", Trigger: models.TriggerAfterPrevious, DelayMS: 10, DurationMS: 300},
	}

	got := Timeline(steps)
	if got[0].StartMS != 100 || got[0].EndMS != 600 {
		t.Errorf("onEnter step timing = %+v", got[0])
	}
	if got[1].StartMS != 150 || got[1].EndMS != 350 {
		t.Errorf("withPrevious step must start with previous: %+v", got[1])
	}
	if got[2].StartMS != 360 || got[2].EndMS != 660 {
		t.Errorf("afterPrevious step must start after previous ends: %+v", got[2])
	}
}
