// Package compositor turns a slide, a theme and a measured container size
// into a declarative renderable tree. It owns the exhaustive dispatch over
// layer variants; new layer kinds touch only this dispatch.
package compositor

import (
	"log/slog"
	"strconv"

	"github.com/ethanhanderson/church-presenter-sub001/internal/autofit"
	"github.com/ethanhanderson/church-presenter-sub001/internal/build"
	"github.com/ethanhanderson/church-presenter-sub001/internal/geometry"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// MediaResolver maps a media id to a URI the display host can load. Lookup
// failure degrades to blank media, never an error.
type MediaResolver interface {
	ResolveMedia(id string) (string, bool)
}

// Compositor composes render trees. Safe for use from a single render loop;
// the geometry cache and autofit solver it owns are internally synchronized.
type Compositor struct {
	logger   *slog.Logger
	cache    *geometry.Cache
	solver   *autofit.Solver
	measurer autofit.Measurer
	media    MediaResolver
}

// New creates a compositor. measurer may not be nil; media may be nil when
// no media source is attached (media layers then render blank).
func New(measurer autofit.Measurer, media MediaResolver, logger *slog.Logger) *Compositor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compositor{
		logger:   logger,
		cache:    geometry.NewCache(),
		solver:   autofit.NewSolver(),
		measurer: measurer,
		media:    media,
	}
}

// RenderSlide composes the renderable tree for a slide at the container
// size. visible selects the rendered layer subset: nil derives the default
// set from the slide's builds at cursor 0, while an explicit empty list
// renders no layers at all. A nil slide renders blank (background only).
func (c *Compositor) RenderSlide(slide *models.Slide, theme *models.Theme, container models.Size, visible []string) *Tree {
	design := designSize(theme)
	scale := geometry.ResponsiveScale(container, design)

	tree := &Tree{
		Background: geometry.ResolveBackground(slide, theme),
		DesignSize: design,
		Container:  container,
		Scale:      scale,
	}
	if slide == nil {
		return tree
	}
	if slide.Animations != nil {
		tree.Transition = slide.Animations.Transition
	}

	if visible == nil {
		visible = build.ComputeVisibleLayers(slide, 0)
	}
	shown := make(map[string]bool, len(visible))
	for _, id := range visible {
		shown[id] = true
	}

	timed := buildInfoByLayer(slide)
	padding := geometry.ResolvePadding(slide, theme)

	for i := range slide.Layers {
		layer := &slide.Layers[i]
		if !shown[layer.ID] {
			continue
		}

		node := Node{
			LayerID: layer.ID,
			Kind:    layer.Type,
			Rect:    c.cache.Rect(layer.Transform, container, design),
			Build:   timed[layer.ID],
		}

		switch layer.Type {
		case models.LayerText:
			if layer.Text == nil {
				c.logger.Warn("text layer missing payload, skipped", "layer", layer.ID)
				continue
			}
			node.Text = c.composeText(layer, slide, theme, padding, scale)
		case models.LayerShape:
			if layer.Shape == nil {
				c.logger.Warn("shape layer missing payload, skipped", "layer", layer.ID)
				continue
			}
			node.Shape = &ShapeNode{
				Kind:        layer.Shape.Kind,
				Fill:        layer.Shape.Fill,
				Stroke:      layer.Shape.Stroke,
				StrokeWidth: layer.Shape.StrokeWidth * scale,
				Radius:      layer.Shape.Radius * scale,
			}
		case models.LayerMedia:
			if layer.Media == nil {
				c.logger.Warn("media layer missing payload, skipped", "layer", layer.ID)
				continue
			}
			node.Media = c.composeMedia(layer.Media)
		case models.LayerWeb:
			if layer.Web == nil {
				c.logger.Warn("web layer missing payload, skipped", "layer", layer.ID)
				continue
			}
			node.Web = &WebNode{URL: layer.Web.URL, Interactive: layer.Web.Interactive}
		default:
			c.logger.Warn("unknown layer type, skipped", "layer", layer.ID, "type", layer.Type)
			continue
		}

		tree.Nodes = append(tree.Nodes, node)
	}

	return tree
}

func (c *Compositor) composeText(layer *models.Layer, slide *models.Slide, theme *models.Theme, padding, scale float64) *TextNode {
	style := geometry.ResolveTextStyle(layer.Text.Preset, slide, theme)
	natural := c.measurer.Measure(layer.Text.Content, style)

	// The autofit scale is solved in design space so every surface agrees on
	// it; the responsive factor folds into the signature so a surface resize
	// still forces a re-solve.
	fit := c.solver.Solve(autofit.Input{
		LayerID: layer.ID,
		Fit:     layer.Text.Fit,
		Natural: natural,
		Container: models.Size{
			Width:  layer.Transform.Width,
			Height: layer.Transform.Height,
		},
		Padding:   padding,
		Signature: autofit.StyleSignature(style) + signatureScale(scale),
	})

	return &TextNode{
		Content:  layer.Text.Content,
		Style:    geometry.ScaleTextStyle(style, scale),
		FitScale: fit,
	}
}

func (c *Compositor) composeMedia(m *models.MediaLayer) *MediaNode {
	node := &MediaNode{
		MediaID: m.MediaID,
		Kind:    m.Kind,
		Fit:     m.Fit,
		Loop:    m.Loop,
		Muted:   m.Muted,
	}
	if c.media != nil {
		if uri, ok := c.media.ResolveMedia(m.MediaID); ok {
			node.URI = uri
		} else {
			c.logger.Warn("media lookup failed, rendering blank", "media", m.MediaID)
		}
	}
	return node
}

func designSize(theme *models.Theme) models.Size {
	if theme == nil {
		return models.AspectRatio("").DesignSize()
	}
	return theme.AspectRatio.DesignSize()
}

func buildInfoByLayer(slide *models.Slide) map[string]*BuildInfo {
	if slide.Animations == nil || len(slide.Animations.BuildIn) == 0 {
		return nil
	}
	out := make(map[string]*BuildInfo)
	for _, ts := range build.Timeline(slide.Animations.BuildIn) {
		if _, ok := out[ts.Step.LayerID]; ok {
			continue // first step per layer drives its entrance
		}
		out[ts.Step.LayerID] = &BuildInfo{
			Preset:     ts.Step.Preset,
			StartMS:    ts.StartMS,
			DurationMS: ts.Step.DurationMS,
		}
	}
	return out
}

func signatureScale(scale float64) string {
	return "|rs=" + strconv.FormatFloat(scale, 'g', -1, 64)
}
