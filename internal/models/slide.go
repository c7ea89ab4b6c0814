package models

// Slide is an ordered stack of layers plus optional per-slide overrides and
// build animations.
type Slide struct {
	ID         string      `json:"id"`
	Name       string      `json:"name,omitempty"`
	Layers     []Layer     `json:"layers"`
	Overrides  *Overrides  `json:"overrides,omitempty"`
	Animations *Animations `json:"animations,omitempty"`
}

// Overrides patch the active theme for one slide. Background replaces the
// theme background wholesale; text patches merge per field; Padding replaces
// the theme padding when set.
type Overrides struct {
	Background    *Background     `json:"background,omitempty"`
	PrimaryText   *TextStylePatch `json:"primaryText,omitempty"`
	SecondaryText *TextStylePatch `json:"secondaryText,omitempty"`
	Padding       *float64        `json:"padding,omitempty"`
}

// Animations holds the slide transition and the ordered build steps.
type Animations struct {
	Transition string      `json:"transition,omitempty"`
	BuildIn    []BuildStep `json:"buildIn,omitempty"`
	BuildOut   []BuildStep `json:"buildOut,omitempty"`
}

// Trigger decides when a build step fires relative to the advance cursor.
type Trigger string

const (
	TriggerOnEnter       Trigger = "onEnter"
	TriggerOnAdvance     Trigger = "onAdvance"
	TriggerWithPrevious  Trigger = "withPrevious"
	TriggerAfterPrevious Trigger = "afterPrevious"
	TriggerOnExit        Trigger = "onExit"
)

// BuildStep binds one animation preset to a layer, trigger and timing.
// A step whose LayerID matches no layer on the slide is skipped at render
// time, never treated as fatal.
type BuildStep struct {
	LayerID    string  `json:"layerId"`
	Preset     string  `json:"preset"`
	Trigger    Trigger `json:"trigger"`
	DelayMS    int     `json:"delayMs"`
	DurationMS int     `json:"durationMs"`
}

// LayerType tags the Layer variant.
type LayerType string

const (
	LayerText  LayerType = "text"
	LayerShape LayerType = "shape"
	LayerMedia LayerType = "media"
	LayerWeb   LayerType = "web"
)

// Transform places a layer on the design-space grid. Coordinates are always
// design-space pixels, never viewport pixels.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"` // degrees
	Opacity  float64 `json:"opacity"`  // 0..1
}

// Layer is a tagged union over the four layer kinds. Exactly one variant
// pointer is non-nil for a well-formed layer; the compositor dispatches on
// Type and degrades to skipping the layer when the payload is missing.
type Layer struct {
	ID        string      `json:"id"`
	Type      LayerType   `json:"type"`
	Visible   *bool       `json:"visible,omitempty"` // nil means visible
	Locked    bool        `json:"locked,omitempty"`
	Transform Transform   `json:"transform"`
	Text      *TextLayer  `json:"text,omitempty"`
	Shape     *ShapeLayer `json:"shape,omitempty"`
	Media     *MediaLayer `json:"media,omitempty"`
	Web       *WebLayer   `json:"web,omitempty"`
}

// IsVisible reports the authored visibility flag (defaults to true).
func (l *Layer) IsVisible() bool {
	return l.Visible == nil || *l.Visible
}

// TextFit selects the autofit policy for a text layer.
type TextFit string

const (
	FitAuto   TextFit = "auto"   // fixed scale 1, never measured
	FitShrink TextFit = "shrink" // scale down to fit, never above 1
	FitFill   TextFit = "fill"   // scale to fill, up or down
)

// TextLayer renders styled text using one of the theme's named presets.
type TextLayer struct {
	Content string  `json:"content"`
	Preset  string  `json:"preset"` // "primary" or "secondary"
	Fit     TextFit `json:"fit,omitempty"`
}

// ShapeLayer renders a filled/stroked primitive.
type ShapeLayer struct {
	Kind        string  `json:"kind"` // rectangle, ellipse, line
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
}

// MediaLayer references bundle media by id; playback is delegated to the
// platform media primitive.
type MediaLayer struct {
	MediaID string `json:"mediaId"`
	Kind    string `json:"kind"` // image or video
	Fit     string `json:"fit,omitempty"`
	Loop    bool   `json:"loop,omitempty"`
	Muted   bool   `json:"muted,omitempty"`
}

// WebLayer embeds an external page.
type WebLayer struct {
	URL         string `json:"url"`
	Interactive bool   `json:"interactive,omitempty"`
}
