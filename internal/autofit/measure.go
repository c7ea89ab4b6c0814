package autofit

import (
	"strings"

	"golang.org/x/image/font"

	"github.com/ethanhanderson/church-presenter-sub001/internal/fonts"
	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// Measurer reports the natural (unscaled) size of text content under a
// style. Implementations are synchronous layout reads interleaved between
// frames, never blocking calls.
type Measurer interface {
	Measure(content string, style models.TextStyle) models.Size
}

// FaceMeasurer measures text with real font metrics from the font registry.
type FaceMeasurer struct {
	registry *fonts.Registry
}

// NewFaceMeasurer creates a measurer backed by the registry.
func NewFaceMeasurer(registry *fonts.Registry) *FaceMeasurer {
	return &FaceMeasurer{registry: registry}
}

// Measure returns the content's natural size at scale 1: the widest line
// advance (including letter spacing) by line count times line height. Empty
// content measures zero so the solver retains its previous scale.
func (m *FaceMeasurer) Measure(content string, style models.TextStyle) models.Size {
	if content == "" {
		return models.Size{}
	}

	size := style.FontSize
	if size <= 0 {
		size = 16
	}
	lineHeight := style.LineHeight
	if lineHeight <= 0 {
		lineHeight = 1.2
	}

	face := m.registry.Face(style.FontFamily, size)
	lines := strings.Split(content, "\n")

	var widest float64
	for _, line := range lines {
		adv := float64(font.MeasureString(face, line)) / 64
		if n := len([]rune(line)); n > 1 {
			adv += style.LetterSpacing * float64(n-1)
		}
		if adv > widest {
			widest = adv
		}
	}

	return models.Size{
		Width:  widest,
		Height: float64(len(lines)) * size * lineHeight,
	}
}
