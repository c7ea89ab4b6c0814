// Package geometry computes resolution-independent layout: percentage-based
// render rectangles from design-space transforms, background and text-style
// resolution, and the per-surface responsive scale factor.
package geometry

import "github.com/ethanhanderson/church-presenter-sub001/internal/models"

// Rect is a render rectangle in percent units of the container, so the same
// values produce an identical relative layout at any container size.
// Rotation and opacity pass through from the transform unchanged.
type Rect struct {
	Left     float64 `json:"left"`
	Top      float64 `json:"top"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
	Opacity  float64 `json:"opacity"`
}

// ComputeRect maps a design-space transform onto percent units of the design
// grid. A degenerate design size yields a zero rect rather than dividing by
// zero.
func ComputeRect(t models.Transform, design models.Size) Rect {
	if design.Width <= 0 || design.Height <= 0 {
		return Rect{Rotation: t.Rotation, Opacity: t.Opacity}
	}
	return Rect{
		Left:     t.X / design.Width * 100,
		Top:      t.Y / design.Height * 100,
		Width:    t.Width / design.Width * 100,
		Height:   t.Height / design.Height * 100,
		Rotation: t.Rotation,
		Opacity:  t.Opacity,
	}
}

// ResponsiveScale is the uniform per-surface factor applied to every text
// metric on that surface: min of the container/design ratios, recomputed on
// each resize notification. Degenerate inputs map to 1 so text stays legible
// rather than collapsing.
func ResponsiveScale(container, design models.Size) float64 {
	if container.Width <= 0 || container.Height <= 0 || design.Width <= 0 || design.Height <= 0 {
		return 1
	}
	sw := container.Width / design.Width
	sh := container.Height / design.Height
	if sw < sh {
		return sw
	}
	return sh
}

// ResolveBackground picks the effective background for a slide: the slide
// override when present, else the theme background, else opaque solid black.
func ResolveBackground(slide *models.Slide, theme *models.Theme) models.Background {
	if slide != nil && slide.Overrides != nil && slide.Overrides.Background != nil {
		return *slide.Overrides.Background
	}
	if theme != nil && theme.Background.Type != "" {
		return theme.Background
	}
	return models.Background{Type: models.BackgroundSolid, Color: "#000000"}
}

// ResolvePadding picks the effective padding percent, clamped to 0..20.
func ResolvePadding(slide *models.Slide, theme *models.Theme) float64 {
	p := 0.0
	if theme != nil {
		p = theme.Padding
	}
	if slide != nil && slide.Overrides != nil && slide.Overrides.Padding != nil {
		p = *slide.Overrides.Padding
	}
	if p < 0 {
		return 0
	}
	if p > 20 {
		return 20
	}
	return p
}

// MergeTextStyle shallow-merges a patch over a base preset: a set patch field
// wins, an unset field inherits from the base. A nil patch returns the base
// unchanged.
func MergeTextStyle(base models.TextStyle, patch *models.TextStylePatch) models.TextStyle {
	if patch == nil {
		return base
	}
	out := base
	if patch.FontFamily != nil {
		out.FontFamily = *patch.FontFamily
	}
	if patch.FontSize != nil {
		out.FontSize = *patch.FontSize
	}
	if patch.FontWeight != nil {
		out.FontWeight = *patch.FontWeight
	}
	if patch.Italic != nil {
		out.Italic = *patch.Italic
	}
	if patch.LineHeight != nil {
		out.LineHeight = *patch.LineHeight
	}
	if patch.LetterSpacing != nil {
		out.LetterSpacing = *patch.LetterSpacing
	}
	if patch.Align != nil {
		out.Align = *patch.Align
	}
	if patch.Color != nil {
		out.Color = *patch.Color
	}
	if patch.Shadow != nil {
		out.Shadow = patch.Shadow
	}
	if patch.Outline != nil {
		out.Outline = patch.Outline
	}
	return out
}

// ResolveTextStyle resolves a named preset ("primary" or "secondary") through
// the theme and the slide's per-field override patch. With no theme it
// returns a zero style; the compositor still renders the layer.
func ResolveTextStyle(preset string, slide *models.Slide, theme *models.Theme) models.TextStyle {
	var base models.TextStyle
	var patch *models.TextStylePatch
	switch preset {
	case "secondary":
		if theme != nil {
			base = theme.SecondaryText
		}
		if slide != nil && slide.Overrides != nil {
			patch = slide.Overrides.SecondaryText
		}
	default:
		if theme != nil {
			base = theme.PrimaryText
		}
		if slide != nil && slide.Overrides != nil {
			patch = slide.Overrides.PrimaryText
		}
	}
	return MergeTextStyle(base, patch)
}

// ScaleTextStyle applies the responsive scale factor uniformly to font size,
// letter spacing, shadow offsets/blur and outline width. Shadow and outline
// are copied, never mutated in place, because the style may come from a
// shared document replica.
func ScaleTextStyle(style models.TextStyle, scale float64) models.TextStyle {
	out := style
	out.FontSize = style.FontSize * scale
	out.LetterSpacing = style.LetterSpacing * scale
	if style.Shadow != nil {
		sh := *style.Shadow
		sh.OffsetX *= scale
		sh.OffsetY *= scale
		sh.Blur *= scale
		out.Shadow = &sh
	}
	if style.Outline != nil {
		ol := *style.Outline
		ol.Width *= scale
		out.Outline = &ol
	}
	return out
}
