package livesync

import (
	"sync"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Replica is the output process's view of live state: an immutable document
// snapshot replaced wholesale on every presentation-update (never patched in
// place) plus the show flags. It implements EventSink.
type Replica struct {
	mu           sync.RWMutex
	presentation *models.Presentation
	path         string
	slideID      string
	isBlackout   bool
	isClear      bool
	visible      *[]string // nil means derive from default policy

	onChange func()
}

// NewReplica creates an empty replica. onChange fires after every applied
// event, typically to schedule a recomposite; it may be nil.
func NewReplica(onChange func()) *Replica {
	return &Replica{onChange: onChange}
}

// ApplyPresentation replaces the document snapshot. A nil presentation
// blanks the replica.
func (r *Replica) ApplyPresentation(p PresentationUpdate) {
	r.mu.Lock()
	r.presentation = p.Presentation
	r.path = p.Path
	r.slideID = p.CurrentSlideID
	r.visible = nil
	r.mu.Unlock()
	r.changed()
}

// ApplySlideChanged moves the current slide and resets the derived visible
// set. Applying the same slide id twice resets identically both times.
func (r *Replica) ApplySlideChanged(p SlideChanged) {
	r.mu.Lock()
	if p.SlideID == nil {
		r.slideID = ""
	} else {
		r.slideID = *p.SlideID
	}
	r.visible = nil
	r.mu.Unlock()
	r.changed()
}

// ApplyStateChanged updates the show flags and explicit visible set.
func (r *Replica) ApplyStateChanged(p StateChanged) {
	r.mu.Lock()
	r.isBlackout = p.IsBlackout
	r.isClear = p.IsClear
	r.visible = p.VisibleLayerIDs
	r.mu.Unlock()
	r.changed()
}

func (r *Replica) changed() {
	if r.onChange != nil {
		r.onChange()
	}
}

// View is one coherent read of the replica for rendering.
type View struct {
	Presentation *models.Presentation
	Slide        *models.Slide
	Theme        *models.Theme
	IsBlackout   bool
	IsClear      bool
	Visible      []string // nil means default policy
	HasVisible   bool     // distinguishes explicit empty from nil
}

// View snapshots the replica. The returned pointers reference the immutable
// snapshot and stay valid after later updates replace it.
func (r *Replica) View() View {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v := View{
		Presentation: r.presentation,
		IsBlackout:   r.isBlackout,
		IsClear:      r.isClear,
	}
	if r.visible != nil {
		v.Visible = *r.visible
		v.HasVisible = true
		if v.Visible == nil {
			v.Visible = []string{}
		}
	}
	if r.presentation != nil {
		v.Theme = r.presentation.ActiveTheme()
		if r.slideID != "" {
			v.Slide = r.presentation.SlideByID(r.slideID)
		}
	}
	return v
}
