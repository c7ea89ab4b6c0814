package compositor

import (
	"github.com/ethanhanderson/church-presenter-sub001/internal/geometry"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Tree is the renderable output of the compositor: a resolved background
// plus ordered layer nodes, all in container-relative percent units.
type Tree struct {
	Background models.Background `json:"background"`
	DesignSize models.Size       `json:"designSize"`
	Container  models.Size       `json:"container"`
	Scale      float64           `json:"scale"` // responsive scale factor
	Transition string            `json:"transition,omitempty"`
	Nodes      []Node            `json:"nodes"`
}

// Node is one composited layer. Exactly one variant payload is set,
// matching Kind.
type Node struct {
	LayerID string           `json:"layerId"`
	Kind    models.LayerType `json:"kind"`
	Rect    geometry.Rect    `json:"rect"`
	Build   *BuildInfo       `json:"build,omitempty"`
	Text    *TextNode        `json:"text,omitempty"`
	Shape   *ShapeNode       `json:"shape,omitempty"`
	Media   *MediaNode       `json:"media,omitempty"`
	Web     *WebNode         `json:"web,omitempty"`
}

// BuildInfo carries the entrance animation resolved from the build timeline.
type BuildInfo struct {
	Preset     string `json:"preset"`
	StartMS    int    `json:"startMs"`
	DurationMS int    `json:"durationMs"`
}

// TextNode is styled text. Style metrics are already multiplied by the
// surface's responsive scale; FitScale is the independent autofit factor and
// composes multiplicatively on top.
type TextNode struct {
	Content  string           `json:"content"`
	Style    models.TextStyle `json:"style"`
	FitScale float64          `json:"fitScale"`
}

// ShapeNode is a filled/stroked primitive with viewport-scaled stroke.
type ShapeNode struct {
	Kind        string  `json:"kind"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
}

// MediaNode references media for the platform primitive. An empty URI means
// the lookup failed and the host renders blank media.
type MediaNode struct {
	MediaID string `json:"mediaId"`
	Kind    string `json:"kind"`
	URI     string `json:"uri,omitempty"`
	Fit     string `json:"fit,omitempty"`
	Loop    bool   `json:"loop,omitempty"`
	Muted   bool   `json:"muted,omitempty"`
}

// WebNode embeds an external page.
type WebNode struct {
	URL         string `json:"url"`
	Interactive bool   `json:"interactive,omitempty"`
}

// ClearLayers strips every layer node, leaving the background. This is the
// operator "clear" rendering rule.
func (t *Tree) ClearLayers() {
	t.Nodes = nil
}

// Blackout returns the tree an output shows while blacked out: opaque solid
// black, no layers, independent of any document state.
func Blackout(container models.Size) *Tree {
	return &Tree{
		Background: models.Background{Type: models.BackgroundSolid, Color: "#000000"},
		DesignSize: models.AspectRatio("").DesignSize(),
		Container:  container,
		Scale:      1,
	}
}
