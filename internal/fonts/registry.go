// Package fonts keeps the process-scoped set of loaded fonts. Loading is
// deduplicated by font id: a membership test guards every reload, and there
// is no teardown. Measurement callers always get a usable face; a parse or
// lookup failure falls back to a built-in face so the slide still renders.
package fonts

import (
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

type faceKey struct {
	family string
	size   float64
}

// Registry holds parsed fonts by id and family plus a face cache.
type Registry struct {
	mu       sync.Mutex
	logger   *slog.Logger
	loaded   map[string]struct{}
	byFamily map[string]*opentype.Font
	faces    map[faceKey]font.Face
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:   logger,
		loaded:   make(map[string]struct{}),
		byFamily: make(map[string]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
	}
}

// Loaded reports whether the font id has already been loaded.
func (r *Registry) Loaded(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.loaded[id]
	return ok
}

// Load parses font bytes and registers them under the given id and family.
// Loading the same id twice is a no-op.
func (r *Registry) Load(id, family string, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.loaded[id]; ok {
		return nil
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", id, err)
	}

	r.loaded[id] = struct{}{}
	r.byFamily[family] = f
	r.logger.Debug("font loaded", "id", id, "family", family)
	return nil
}

// Face returns a measuring face for the family at the given pixel size.
// Unknown families and face-construction failures fall back to a fixed
// built-in face instead of erroring.
func (r *Registry) Face(family string, size float64) font.Face {
	if size <= 0 {
		size = 16
	}
	key := faceKey{family: family, size: size}

	r.mu.Lock()
	defer r.mu.Unlock()

	if face, ok := r.faces[key]; ok {
		return face
	}

	f, ok := r.byFamily[family]
	if !ok {
		return basicfont.Face7x13
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		r.logger.Warn("face construction failed, using fallback", "family", family, "err", err)
		return basicfont.Face7x13
	}

	r.faces[key] = face
	return face
}
