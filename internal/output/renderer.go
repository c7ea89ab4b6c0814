// Package output implements the rendering half of an output process: it
// holds the live-state replica, recomputes the renderable tree on every
// event or resize, and offers the result to the window/display host.
package output

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/ethanhanderson/church-presenter-sub001/internal/autofit"
	"github.com/ethanhanderson/church-presenter-sub001/internal/compositor"
	"github.com/ethanhanderson/church-presenter-sub001/internal/fonts"
	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Renderer recomposes the renderable tree from the replica and the current
// measured container size. Geometry recompute is pure, so re-entry after any
// event or resize converges on the same tree for the same inputs.
type Renderer struct {
	logger   *slog.Logger
	registry *fonts.Registry
	comp     *compositor.Compositor
	replica  *livesync.Replica
	mediaURL string

	mu        sync.RWMutex
	container models.Size
	tree      *compositor.Tree
}

// NewRenderer creates a renderer with the given initial surface size.
// mediaURL is the control process HTTP base serving media and font bytes.
func NewRenderer(container models.Size, mediaURL string, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Renderer{
		logger:    logger,
		registry:  fonts.NewRegistry(logger),
		mediaURL:  mediaURL,
		container: container,
	}
	r.comp = compositor.New(autofit.NewFaceMeasurer(r.registry), r, logger)
	r.replica = livesync.NewReplica(r.Recompose)
	return r
}

// Replica returns the event sink the synchronizer client feeds.
func (r *Renderer) Replica() *livesync.Replica {
	return r.replica
}

// ResolveMedia maps a manifest media id to the control process URL serving
// its bytes. Unknown ids report false and render blank.
func (r *Renderer) ResolveMedia(id string) (string, bool) {
	view := r.replica.View()
	if view.Presentation == nil {
		return "", false
	}
	if _, ok := view.Presentation.MediaByID(id); !ok {
		return "", false
	}
	return r.mediaURL + "/api/media/" + id, true
}

// Resize records a new measured container size and recomposes. Resize
// notifications arrive as a continuous stream; each one may trigger geometry
// and autofit recompute.
func (r *Renderer) Resize(container models.Size) {
	if container.Width <= 0 || container.Height <= 0 {
		r.logger.Warn("ignoring degenerate resize", "width", container.Width, "height", container.Height)
		return
	}
	r.mu.Lock()
	r.container = container
	r.mu.Unlock()
	r.Recompose()
}

// Recompose rebuilds the current tree from the replica view. Blackout wins
// over everything; clear keeps the background and drops the layers; no slide
// renders blank.
func (r *Renderer) Recompose() {
	r.mu.RLock()
	container := r.container
	r.mu.RUnlock()

	view := r.replica.View()

	var tree *compositor.Tree
	switch {
	case view.IsBlackout:
		tree = compositor.Blackout(container)
	default:
		var visible []string
		if view.HasVisible {
			visible = view.Visible
			if visible == nil {
				visible = []string{}
			}
		}
		tree = r.comp.RenderSlide(view.Slide, view.Theme, container, visible)
		if view.IsClear {
			tree.ClearLayers()
		}
	}

	r.mu.Lock()
	r.tree = tree
	r.mu.Unlock()

	go r.syncFonts(view.Presentation)
}

// Frame returns the last composed tree, composing one on first use.
func (r *Renderer) Frame() *compositor.Tree {
	r.mu.RLock()
	tree := r.tree
	r.mu.RUnlock()
	if tree == nil {
		r.Recompose()
		r.mu.RLock()
		tree = r.tree
		r.mu.RUnlock()
	}
	return tree
}

// syncFonts fetches any embedded fonts the registry has not loaded yet.
// Fetching happens off the render path; a successful load triggers one more
// recompose so measurements pick up the real metrics.
func (r *Renderer) syncFonts(p *models.Presentation) {
	if p == nil || len(p.Fonts) == 0 {
		return
	}
	loadedAny := false
	for _, entry := range p.Fonts {
		if r.registry.Loaded(entry.ID) {
			continue
		}
		data, err := r.fetch("/api/fonts/" + entry.ID)
		if err != nil {
			r.logger.Warn("font fetch failed, fallback face stays", "font", entry.ID, "err", err)
			continue
		}
		if err := r.registry.Load(entry.ID, entry.Family, data); err != nil {
			r.logger.Warn("font load failed, fallback face stays", "font", entry.ID, "err", err)
			continue
		}
		loadedAny = true
	}
	if loadedAny {
		r.Recompose()
	}
}

func (r *Renderer) fetch(path string) ([]byte, error) {
	resp, err := http.Get(r.mediaURL + path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
