package models

// Presentation is the authoritative document: manifest metadata plus ordered
// slides and embedded themes. It is owned and mutated exclusively by the
// control process; output processes hold an immutable replica that is
// replaced wholesale on every full update.
type Presentation struct {
	ID            string       `json:"presentationId"`
	FormatVersion int          `json:"formatVersion"`
	Title         string       `json:"title"`
	ActiveThemeID string       `json:"activeThemeId,omitempty"`
	Media         []MediaEntry `json:"media,omitempty"`
	Fonts         []FontEntry  `json:"fonts,omitempty"`
	Slides        []Slide      `json:"slides"`
	Themes        []Theme      `json:"themes"`
	Arrangement   *Arrangement `json:"arrangement,omitempty"`
}

// Arrangement orders slides and groups them into named sections.
type Arrangement struct {
	Order    []string  `json:"order"`
	Sections []Section `json:"sections,omitempty"`
}

// Section is a named contiguous group of slides (verse, chorus, sermon point).
type Section struct {
	Name     string   `json:"name"`
	SlideIDs []string `json:"slideIds"`
}

// MediaEntry describes one media file embedded in a presentation bundle.
type MediaEntry struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Path     string `json:"path"` // path within the bundle, e.g. "media/abc123.jpg"
	Mime     string `json:"mime"`
	SHA256   string `json:"sha256"`
	ByteSize int64  `json:"byteSize"`
	Type     string `json:"mediaType"` // image, video, audio
}

// FontEntry describes one font file embedded in a presentation bundle.
type FontEntry struct {
	ID       string `json:"id"`
	Family   string `json:"family"`
	Style    string `json:"style"` // normal or italic
	Weight   int    `json:"weight"`
	Path     string `json:"path"`
	SHA256   string `json:"sha256"`
	ByteSize int64  `json:"byteSize"`
}

// SlideByID returns the slide with the given id, or nil if absent.
func (p *Presentation) SlideByID(id string) *Slide {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return &p.Slides[i]
		}
	}
	return nil
}

// SlideIndex returns the position of a slide id, or -1 if absent.
func (p *Presentation) SlideIndex(id string) int {
	for i := range p.Slides {
		if p.Slides[i].ID == id {
			return i
		}
	}
	return -1
}

// ActiveTheme returns the theme referenced by ActiveThemeID, falling back to
// the first embedded theme. Returns nil when the presentation carries no
// themes; callers must treat that as the safe default (black background, no
// text presets).
func (p *Presentation) ActiveTheme() *Theme {
	for i := range p.Themes {
		if p.Themes[i].ID == p.ActiveThemeID {
			return &p.Themes[i]
		}
	}
	if len(p.Themes) > 0 {
		return &p.Themes[0]
	}
	return nil
}

// MediaByID looks up a media manifest entry.
func (p *Presentation) MediaByID(id string) (MediaEntry, bool) {
	for _, m := range p.Media {
		if m.ID == id {
			return m, true
		}
	}
	return MediaEntry{}, false
}
