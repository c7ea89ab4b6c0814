package live

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// captureHub records every broadcast envelope.
type captureHub struct {
	events []livesync.Envelope
}

func (h *captureHub) Broadcast(ev livesync.Envelope) {
	h.events = append(h.events, ev)
}

func (h *captureHub) last(t *testing.T) livesync.Envelope {
	t.Helper()
	if len(h.events) == 0 {
		t.Fatalf("no events broadcast")
	}
	return h.events[len(h.events)-1]
}

func (h *captureHub) lastState(t *testing.T) livesync.StateChanged {
	t.Helper()
	ev := h.last(t)
	if ev.Type != livesync.EventStateChanged {
		t.Fatalf("last event = %s, want state-changed", ev.Type)
	}
	var p livesync.StateChanged
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		t.Fatalf("decode state payload: %v", err)
	}
	return p
}

// memStore serves one in-memory document for a fixed path.
type memStore struct {
	presentation *models.Presentation
}

func (s *memStore) Open(path string) (*models.Presentation, error) {
	if path != "deck.cpres" {
		return nil, fmt.Errorf("no such bundle: %s", path)
	}
	return s.presentation, nil
}

// memSessions keeps the most recent saved state.
type memSessions struct {
	saved models.LiveState
	saves int
}

func (s *memSessions) Save(state models.LiveState) error {
	s.saved = state
	s.saves++
	return nil
}

func buildDeck() *models.Presentation {
	return &models.Presentation{
		ID:    "p1",
		Title: "Sunday",
		Slides: []models.Slide{
			{
				ID: "s1",
				Layers: []models.Layer{
					{ID: "title", Type: models.LayerText, Text: &models.TextLayer{Content: "v1", Preset: "primary"}},
					{ID: "line2", Type: models.LayerText, Text: &models.TextLayer{Content: "v2", Preset: "primary"}},
				},
				Animations: &models.Animations{
					BuildIn: []models.BuildStep{
						{LayerID: "line2", Trigger: models.TriggerOnAdvance},
					},
				},
			},
			{ID: "s2", Layers: []models.Layer{{ID: "body", Type: models.LayerText, Text: &models.TextLayer{Content: "x", Preset: "primary"}}}},
		},
	}
}

func newTestController(t *testing.T) (*Controller, *captureHub, *memSessions) {
	t.Helper()
	hub := &captureHub{}
	sessions := &memSessions{}
	c := NewController(hub, &memStore{presentation: buildDeck()}, sessions, nil)
	return c, hub, sessions
}

func TestOpenPresentationSelectsFirstSlide(t *testing.T) {
	c, hub, sessions := newTestController(t)

	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}

	state := c.State()
	if state.CurrentSlideID != "s1" || state.CurrentSlideIndex != 0 {
		t.Errorf("state = %+v", state)
	}
	ev := hub.last(t)
	if ev.Type != livesync.EventPresentationUpdate {
		t.Errorf("broadcast type = %s", ev.Type)
	}
	var p livesync.PresentationUpdate
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Presentation == nil || p.Presentation.ID != "p1" || p.CurrentSlideID != "s1" {
		t.Errorf("payload = %+v", p)
	}
	if sessions.saves == 0 || sessions.saved.PresentationPath != "deck.cpres" {
		t.Errorf("session not persisted: %+v", sessions.saved)
	}
}

func TestOpenPresentationUnknownPath(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("missing.cpres"); err == nil {
		t.Fatalf("expected error")
	}
	if len(hub.events) != 0 {
		t.Errorf("failed open must not broadcast")
	}
}

func TestAdvanceThroughBuildsThenSlides(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}

	// First advance fires the pending build on s1.
	c.Advance()
	p := hub.lastState(t)
	if p.VisibleLayerIDs == nil {
		t.Fatalf("build advance must carry an explicit visible set")
	}
	if got := *p.VisibleLayerIDs; len(got) != 2 {
		t.Errorf("visible = %v, want both layers", got)
	}
	if c.State().CurrentSlideID != "s1" {
		t.Errorf("build advance must not change the slide")
	}

	// Builds exhausted: next advance moves to s2.
	c.Advance()
	if c.State().CurrentSlideID != "s2" {
		t.Errorf("slide = %s, want s2", c.State().CurrentSlideID)
	}
	ev := hub.last(t)
	if ev.Type != livesync.EventSlideChanged {
		t.Errorf("broadcast type = %s, want slide-changed", ev.Type)
	}

	// End of deck: advancing is a no-op.
	before := len(hub.events)
	c.Advance()
	if len(hub.events) != before || c.State().CurrentSlideID != "s2" {
		t.Errorf("advance past the end must be a no-op")
	}
}

func TestRetreatRewindsBuildsThenSlides(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}

	c.Advance() // fire build on s1
	c.Retreat() // rewind it
	p := hub.lastState(t)
	if p.VisibleLayerIDs == nil || len(*p.VisibleLayerIDs) != 1 || (*p.VisibleLayerIDs)[0] != "title" {
		t.Errorf("visible after rewind = %v", p.VisibleLayerIDs)
	}
	if c.State().CurrentSlideID != "s1" {
		t.Errorf("rewind must not change the slide")
	}

	// Cursor at 0: retreat moves to the previous slide. From s1 there is
	// none, so it is a no-op.
	before := len(hub.events)
	c.Retreat()
	if len(hub.events) != before || c.State().CurrentSlideID != "s1" {
		t.Errorf("retreat at deck start must be a no-op")
	}

	// From s2 it returns to s1.
	if err := c.SetSlide("s2"); err != nil {
		t.Fatalf("set slide: %v", err)
	}
	c.Retreat()
	if c.State().CurrentSlideID != "s1" {
		t.Errorf("slide = %s, want s1", c.State().CurrentSlideID)
	}
}

func TestSetSlideResetsCursor(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Advance()

	// Re-selecting the current slide resets build progress.
	if err := c.SetSlide("s1"); err != nil {
		t.Fatalf("set slide: %v", err)
	}
	ev := hub.last(t)
	if ev.Type != livesync.EventSlideChanged {
		t.Errorf("broadcast type = %s", ev.Type)
	}
	// The snapshot now reports the default policy (cursor 0).
	snap := c.Snapshot()
	var p livesync.StateChanged
	if err := json.Unmarshal(snap[1].Payload, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.VisibleLayerIDs != nil {
		t.Errorf("cursor reset must restore the default visible policy, got %v", *p.VisibleLayerIDs)
	}

	if err := c.SetSlide("nope"); err == nil {
		t.Errorf("unknown slide must error")
	}
}

func TestBlackoutPreservesBuildProgress(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Advance()

	c.SetBlackout(true)
	p := hub.lastState(t)
	if !p.IsBlackout {
		t.Errorf("blackout flag not set")
	}
	if p.VisibleLayerIDs == nil || len(*p.VisibleLayerIDs) != 2 {
		t.Errorf("blackout must carry the current visible set, got %v", p.VisibleLayerIDs)
	}

	c.SetBlackout(false)
	p = hub.lastState(t)
	if p.IsBlackout {
		t.Errorf("blackout flag not lifted")
	}
	if p.VisibleLayerIDs == nil || len(*p.VisibleLayerIDs) != 2 {
		t.Errorf("lifting blackout must restore build progress, got %v", p.VisibleLayerIDs)
	}
}

func TestEndLiveLiftsBlackoutAndClear(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.GoLive()
	c.SetBlackout(true)
	c.SetClear(true)

	c.EndLive()
	state := c.State()
	if state.IsLive || state.IsBlackout || state.IsClear {
		t.Errorf("state after end = %+v", state)
	}
	p := hub.lastState(t)
	if p.IsBlackout || p.IsClear {
		t.Errorf("broadcast after end = %+v", p)
	}
}

func TestSnapshotDescribesFullState(t *testing.T) {
	c, _, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}
	c.Advance()
	c.SetClear(true)

	snap := c.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot events = %d, want 2", len(snap))
	}
	if snap[0].Type != livesync.EventPresentationUpdate || snap[1].Type != livesync.EventStateChanged {
		t.Errorf("snapshot order = %s, %s", snap[0].Type, snap[1].Type)
	}
	var st livesync.StateChanged
	if err := json.Unmarshal(snap[1].Payload, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !st.IsClear {
		t.Errorf("clear flag lost in snapshot")
	}
	if st.VisibleLayerIDs == nil || len(*st.VisibleLayerIDs) != 2 {
		t.Errorf("snapshot must carry the explicit visible set past cursor 0, got %v", st.VisibleLayerIDs)
	}
}

func TestClosePresentationBlanksOutputs(t *testing.T) {
	c, hub, _ := newTestController(t)
	if err := c.OpenPresentation("deck.cpres"); err != nil {
		t.Fatalf("open: %v", err)
	}

	c.ClosePresentation()
	if c.Presentation() != nil {
		t.Errorf("document still loaded")
	}
	ev := hub.last(t)
	if ev.Type != livesync.EventPresentationUpdate {
		t.Fatalf("broadcast type = %s", ev.Type)
	}
	var p livesync.PresentationUpdate
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Presentation != nil {
		t.Errorf("close must broadcast a nil document")
	}
}

func TestRestoreResumesSession(t *testing.T) {
	c, _, sessions := newTestController(t)

	err := c.Restore(models.LiveState{
		PresentationPath: "deck.cpres",
		CurrentSlideID:   "s2",
		IsLive:           true,
		IsBlackout:       true,
	})
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	state := c.State()
	if state.CurrentSlideID != "s2" || !state.IsLive || !state.IsBlackout {
		t.Errorf("restored state = %+v", state)
	}
	if sessions.saved.CurrentSlideID != "s2" {
		t.Errorf("restored session not re-persisted: %+v", sessions.saved)
	}

	// A missing saved slide keeps the first slide instead of failing.
	c2, _, _ := newTestController(t)
	if err := c2.Restore(models.LiveState{PresentationPath: "deck.cpres", CurrentSlideID: "gone"}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if c2.State().CurrentSlideID != "s1" {
		t.Errorf("slide = %s, want s1", c2.State().CurrentSlideID)
	}

	// An empty path is a clean no-session start.
	c3, hub3, _ := newTestController(t)
	if err := c3.Restore(models.LiveState{}); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if len(hub3.events) != 0 {
		t.Errorf("empty session must not broadcast")
	}
}
