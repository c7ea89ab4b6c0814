// Package live implements the control-process live controller: the single
// writer of the Presentation document and LiveState. Every mutation is
// rebroadcast to all attached output processes.
package live

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethanhanderson/church-presenter-sub001/internal/build"
	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Broadcaster delivers events to attached outputs.
type Broadcaster interface {
	Broadcast(livesync.Envelope)
}

// DocumentStore loads presentation documents by path.
type DocumentStore interface {
	Open(path string) (*models.Presentation, error)
}

// SessionSaver persists the live state so a restarted control process can
// resume the show. Save failures degrade to logging.
type SessionSaver interface {
	Save(models.LiveState) error
}

// Controller owns LiveState and the loaded Presentation. All mutation goes
// through it; outputs only ever send intent.
type Controller struct {
	logger   *slog.Logger
	hub      Broadcaster
	store    DocumentStore
	sessions SessionSaver // may be nil

	mu           sync.Mutex
	presentation *models.Presentation
	scheduler    *build.Scheduler
	state        models.LiveState
}

// NewController wires the controller. sessions may be nil to disable
// persistence.
func NewController(hub Broadcaster, store DocumentStore, sessions SessionSaver, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		logger:    logger,
		hub:       hub,
		store:     store,
		sessions:  sessions,
		scheduler: build.NewScheduler(),
	}
}

// OpenPresentation loads a bundle and broadcasts the full document to every
// attached output, selecting the first slide.
func (c *Controller) OpenPresentation(path string) error {
	p, err := c.store.Open(path)
	if err != nil {
		return fmt.Errorf("open presentation: %w", err)
	}

	c.mu.Lock()
	c.presentation = p
	c.state.PresentationID = p.ID
	c.state.PresentationPath = path
	c.state.IsBlackout = false
	c.state.IsClear = false
	if len(p.Slides) > 0 {
		c.state.CurrentSlideID = p.Slides[0].ID
		c.state.CurrentSlideIndex = 0
	} else {
		c.state.CurrentSlideID = ""
		c.state.CurrentSlideIndex = -1
	}
	c.scheduler.EnterSlide(c.state.CurrentSlideID)
	update := livesync.PresentationUpdate{
		Presentation:   p,
		CurrentSlideID: c.state.CurrentSlideID,
		Path:           path,
	}
	c.mu.Unlock()

	c.logger.Info("presentation opened", "path", path, "slides", len(p.Slides), "title", p.Title)
	c.hub.Broadcast(livesync.MustEncode(livesync.EventPresentationUpdate, update))
	c.persist()
	return nil
}

// ClosePresentation drops the document and blanks every output.
func (c *Controller) ClosePresentation() {
	c.mu.Lock()
	c.presentation = nil
	c.state = models.LiveState{CurrentSlideIndex: -1}
	c.scheduler.EnterSlide("")
	c.mu.Unlock()

	c.hub.Broadcast(livesync.MustEncode(livesync.EventPresentationUpdate,
		livesync.PresentationUpdate{Presentation: nil}))
	c.persist()
}

// GoLive marks the session live.
func (c *Controller) GoLive() {
	c.mu.Lock()
	c.state.IsLive = true
	c.mu.Unlock()
	c.broadcastState()
	c.persist()
}

// EndLive ends the session and lifts blackout/clear.
func (c *Controller) EndLive() {
	c.mu.Lock()
	c.state.IsLive = false
	c.state.IsBlackout = false
	c.state.IsClear = false
	c.mu.Unlock()
	c.broadcastState()
	c.persist()
}

// SetSlide makes the slide current and resets the advance cursor — also
// when the slide is already current, so repeated application cannot drift.
func (c *Controller) SetSlide(id string) error {
	c.mu.Lock()
	if c.presentation == nil {
		c.mu.Unlock()
		return fmt.Errorf("no presentation loaded")
	}
	idx := c.presentation.SlideIndex(id)
	if idx < 0 {
		c.mu.Unlock()
		return fmt.Errorf("unknown slide: %s", id)
	}
	c.state.CurrentSlideID = id
	c.state.CurrentSlideIndex = idx
	c.scheduler.EnterSlide(id)
	c.mu.Unlock()

	slideID := id
	c.hub.Broadcast(livesync.MustEncode(livesync.EventSlideChanged,
		livesync.SlideChanged{SlideID: &slideID}))
	c.persist()
	return nil
}

// Advance fires the next onAdvance build on the current slide, or moves to
// the next slide once its builds are exhausted. At the end of the deck it is
// a no-op.
func (c *Controller) Advance() {
	c.mu.Lock()
	slide := c.currentSlideLocked()
	if slide == nil {
		c.mu.Unlock()
		return
	}
	if c.scheduler.Cursor() < build.AdvanceCount(slide) {
		cursor := c.scheduler.Advance()
		visible := build.ComputeVisibleLayers(slide, cursor)
		ev := c.stateEventLocked(&visible)
		c.mu.Unlock()
		c.hub.Broadcast(ev)
		c.persist()
		return
	}
	next := c.state.CurrentSlideIndex + 1
	if next >= len(c.presentation.Slides) {
		c.mu.Unlock()
		return
	}
	id := c.presentation.Slides[next].ID
	c.mu.Unlock()

	if err := c.SetSlide(id); err != nil {
		c.logger.Error("advance to next slide failed", "err", err)
	}
}

// Retreat rewinds the last onAdvance build, or moves to the previous slide
// when the cursor is already 0.
func (c *Controller) Retreat() {
	c.mu.Lock()
	slide := c.currentSlideLocked()
	if slide == nil {
		c.mu.Unlock()
		return
	}
	if cursor, ok := c.scheduler.Retreat(); ok {
		visible := build.ComputeVisibleLayers(slide, cursor)
		ev := c.stateEventLocked(&visible)
		c.mu.Unlock()
		c.hub.Broadcast(ev)
		c.persist()
		return
	}
	prev := c.state.CurrentSlideIndex - 1
	if prev < 0 {
		c.mu.Unlock()
		return
	}
	id := c.presentation.Slides[prev].ID
	c.mu.Unlock()

	if err := c.SetSlide(id); err != nil {
		c.logger.Error("retreat to previous slide failed", "err", err)
	}
}

// SetBlackout toggles blackout. The visible set is preserved so lifting the
// blackout restores the exact build progress.
func (c *Controller) SetBlackout(on bool) {
	c.mu.Lock()
	c.state.IsBlackout = on
	c.mu.Unlock()
	c.broadcastState()
	c.persist()
}

// SetClear toggles clear (layers hidden, background kept).
func (c *Controller) SetClear(on bool) {
	c.mu.Lock()
	c.state.IsClear = on
	c.mu.Unlock()
	c.broadcastState()
	c.persist()
}

// State returns a copy of the authoritative live state.
func (c *Controller) State() models.LiveState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Presentation returns the loaded document (nil when none). Callers must
// treat it as immutable.
func (c *Controller) Presentation() *models.Presentation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.presentation
}

// Snapshot answers request-state with the full current picture: the whole
// document plus the show state, never a replay of intermediate deltas.
func (c *Controller) Snapshot() []livesync.Envelope {
	c.mu.Lock()
	defer c.mu.Unlock()

	update := livesync.PresentationUpdate{
		Presentation:   c.presentation,
		CurrentSlideID: c.state.CurrentSlideID,
		Path:           c.state.PresentationPath,
	}
	return []livesync.Envelope{
		livesync.MustEncode(livesync.EventPresentationUpdate, update),
		c.stateEventLocked(c.currentVisibleLocked()),
	}
}

// HandleAdvance relays keyboard intent from an output.
func (c *Controller) HandleAdvance() { c.Advance() }

// HandleRetreat relays keyboard intent from an output.
func (c *Controller) HandleRetreat() { c.Retreat() }

// Restore re-adopts a persisted session: reloads the document from its path
// and re-enters the saved slide. Used at control-process startup.
func (c *Controller) Restore(state models.LiveState) error {
	if state.PresentationPath == "" {
		return nil
	}
	if err := c.OpenPresentation(state.PresentationPath); err != nil {
		return err
	}
	if state.CurrentSlideID != "" {
		if err := c.SetSlide(state.CurrentSlideID); err != nil {
			c.logger.Warn("saved slide missing, staying on first", "slide", state.CurrentSlideID)
		}
	}
	if state.IsLive {
		c.GoLive()
	}
	c.SetBlackout(state.IsBlackout)
	c.SetClear(state.IsClear)
	return nil
}

func (c *Controller) currentSlideLocked() *models.Slide {
	if c.presentation == nil || c.state.CurrentSlideID == "" {
		return nil
	}
	return c.presentation.SlideByID(c.state.CurrentSlideID)
}

// currentVisibleLocked returns the explicit visible set for the current
// cursor, or nil (default policy) when the cursor sits at 0.
func (c *Controller) currentVisibleLocked() *[]string {
	if c.scheduler.Cursor() == 0 {
		return nil
	}
	slide := c.currentSlideLocked()
	if slide == nil {
		return nil
	}
	visible := build.ComputeVisibleLayers(slide, c.scheduler.Cursor())
	return &visible
}

func (c *Controller) stateEventLocked(visible *[]string) livesync.Envelope {
	return livesync.MustEncode(livesync.EventStateChanged, livesync.StateChanged{
		IsBlackout:      c.state.IsBlackout,
		IsClear:         c.state.IsClear,
		VisibleLayerIDs: visible,
	})
}

func (c *Controller) broadcastState() {
	c.mu.Lock()
	ev := c.stateEventLocked(c.currentVisibleLocked())
	c.mu.Unlock()
	c.hub.Broadcast(ev)
}

func (c *Controller) persist() {
	if c.sessions == nil {
		return
	}
	if err := c.sessions.Save(c.State()); err != nil {
		c.logger.Error("session save failed", "err", err)
	}
}
