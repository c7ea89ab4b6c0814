package models

// AspectRatio selects the canonical design-space resolution every layer
// transform is expressed in. Layout stays resolution-independent because all
// geometry is computed against this fixed grid, never the viewport.
type AspectRatio string

const (
	Aspect16x9  AspectRatio = "16:9"
	Aspect4x3   AspectRatio = "4:3"
	Aspect16x10 AspectRatio = "16:10"
)

// Size is a width/height pair in pixels (design-space or container, per use).
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// DesignSize returns the canonical pixel grid for the aspect ratio.
// Unknown values fall back to 16:9.
func (a AspectRatio) DesignSize() Size {
	switch a {
	case Aspect4x3:
		return Size{Width: 1440, Height: 1080}
	case Aspect16x10:
		return Size{Width: 1920, Height: 1200}
	default:
		return Size{Width: 1920, Height: 1080}
	}
}

// Theme carries the design defaults a slide inherits: background, the two
// named text presets, padding and the design-space aspect ratio.
type Theme struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	AspectRatio   AspectRatio `json:"aspectRatio"`
	Background    Background  `json:"background"`
	PrimaryText   TextStyle   `json:"primaryText"`
	SecondaryText TextStyle   `json:"secondaryText"`
	Padding       float64     `json:"padding"` // percent per axis, 0..20
}

// BackgroundType tags the Background variant.
type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundImage    BackgroundType = "image"
	BackgroundVideo    BackgroundType = "video"
)

// Background is a tagged variant. It is self-contained except for MediaID,
// which image/video backgrounds resolve through the bundle media manifest.
type Background struct {
	Type     BackgroundType `json:"type"`
	Color    string         `json:"color,omitempty"`
	Gradient *Gradient      `json:"gradient,omitempty"`
	MediaID  string         `json:"mediaId,omitempty"`
}

// Gradient is a linear gradient with ordered color stops.
type Gradient struct {
	Angle float64        `json:"angle"`
	Stops []GradientStop `json:"stops"`
}

// GradientStop places a color at a 0..1 position along the gradient axis.
type GradientStop struct {
	Color    string  `json:"color"`
	Position float64 `json:"position"`
}

// TextStyle is a fully-resolved text preset. Metric fields (size, letter
// spacing, shadow offsets/blur, outline width) are design-space values; each
// rendering surface scales them by its responsive scale factor.
type TextStyle struct {
	FontFamily    string   `json:"fontFamily"`
	FontSize      float64  `json:"fontSize"`
	FontWeight    int      `json:"fontWeight"`
	Italic        bool     `json:"italic"`
	LineHeight    float64  `json:"lineHeight"` // multiplier over font size
	LetterSpacing float64  `json:"letterSpacing"`
	Align         string   `json:"align"`
	Color         string   `json:"color"`
	Shadow        *Shadow  `json:"shadow,omitempty"`
	Outline       *Outline `json:"outline,omitempty"`
}

// Shadow is a text drop shadow in design-space units.
type Shadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
}

// Outline is a text stroke in design-space units.
type Outline struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// TextStylePatch is a sparse TextStyle: set fields override the theme preset
// per field, unset fields inherit. Used by slide overrides.
type TextStylePatch struct {
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	FontWeight    *int     `json:"fontWeight,omitempty"`
	Italic        *bool    `json:"italic,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	Align         *string  `json:"align,omitempty"`
	Color         *string  `json:"color,omitempty"`
	Shadow        *Shadow  `json:"shadow,omitempty"`
	Outline       *Outline `json:"outline,omitempty"`
}
