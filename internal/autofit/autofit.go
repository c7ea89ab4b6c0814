// Package autofit computes the uniform scale factor that makes a text
// layer's content satisfy its fit policy inside the measured, padded
// container.
package autofit

import (
	"fmt"
	"sync"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

const (
	minScale = 0.1
	maxScale = 5
)

// Solver resolves per-layer autofit scales. It remembers the last good scale
// per layer so a degenerate measurement (empty content, zero-size container)
// retains the previous value instead of dividing by zero, and memoizes
// results keyed by the full solve input so identical inputs are answered
// without recomputation. Any change to container, content, style signature
// or responsive scale changes the key and forces a re-solve.
type Solver struct {
	mu   sync.Mutex
	last map[string]float64
	memo map[string]float64
}

// NewSolver creates an empty solver.
func NewSolver() *Solver {
	return &Solver{
		last: make(map[string]float64),
		memo: make(map[string]float64),
	}
}

// Input is everything one solve depends on.
type Input struct {
	LayerID   string
	Fit       models.TextFit
	Natural   models.Size // measured content size at scale 1
	Container models.Size
	Padding   float64 // percent per axis, clamped to 0..20
	Signature string  // style signature; part of the memo key only
}

// Solve returns the autofit scale for the input. Mode auto bypasses the
// solver entirely with a fixed scale of 1.
func (s *Solver) Solve(in Input) float64 {
	if in.Fit == models.FitAuto || in.Fit == "" {
		return 1
	}

	key := memoKey(in)

	s.mu.Lock()
	defer s.mu.Unlock()

	if scale, ok := s.memo[key]; ok {
		return scale
	}

	pad := in.Padding
	if pad < 0 {
		pad = 0
	}
	if pad > 20 {
		pad = 20
	}
	availW := in.Container.Width * (1 - 2*pad/100)
	availH := in.Container.Height * (1 - 2*pad/100)

	if in.Natural.Width <= 0 || in.Natural.Height <= 0 || availW <= 0 || availH <= 0 {
		if prev, ok := s.last[in.LayerID]; ok {
			return prev
		}
		return 1
	}

	scale := availW / in.Natural.Width
	if h := availH / in.Natural.Height; h < scale {
		scale = h
	}
	if in.Fit == models.FitShrink && scale > 1 {
		scale = 1
	}
	if scale < minScale {
		scale = minScale
	}
	if scale > maxScale {
		scale = maxScale
	}

	s.last[in.LayerID] = scale
	s.memo[key] = scale
	return scale
}

func memoKey(in Input) string {
	return fmt.Sprintf("%s|%s|%gx%g|%gx%g|%g|%s",
		in.LayerID, in.Fit,
		in.Natural.Width, in.Natural.Height,
		in.Container.Width, in.Container.Height,
		in.Padding, in.Signature)
}

// StyleSignature folds every field that invalidates a previous solve into a
// comparable string: alignment, font family/size/weight/italic, line height,
// letter spacing, shadow and outline.
func StyleSignature(style models.TextStyle) string {
	shadow := ""
	if style.Shadow != nil {
		shadow = fmt.Sprintf("%g,%g,%g,%s", style.Shadow.OffsetX, style.Shadow.OffsetY, style.Shadow.Blur, style.Shadow.Color)
	}
	outline := ""
	if style.Outline != nil {
		outline = fmt.Sprintf("%g,%s", style.Outline.Width, style.Outline.Color)
	}
	return fmt.Sprintf("%s|%s|%g|%d|%t|%g|%g|%s|%s",
		style.Align, style.FontFamily, style.FontSize, style.FontWeight,
		style.Italic, style.LineHeight, style.LetterSpacing, shadow, outline)
}
