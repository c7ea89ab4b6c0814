// Package bundle reads and writes .cpres presentation bundles: ZIP archives
// containing manifest.json, slides.json, arrangement.json, themes/*.json and
// media/* files. It is the document-store collaborator the live core
// consumes; it owns no live state.
package bundle

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

type manifest struct {
	FormatVersion  int                 `json:"formatVersion"`
	PresentationID string              `json:"presentationId"`
	Title          string              `json:"title"`
	ActiveThemeID  string              `json:"activeThemeId,omitempty"`
	Media          []models.MediaEntry `json:"media,omitempty"`
	Fonts          []models.FontEntry  `json:"fonts,omitempty"`
}

// Store opens and saves presentation bundles by path.
type Store struct {
	logger *slog.Logger
}

// NewStore creates a bundle store.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{logger: logger}
}

// Open parses a bundle into a Presentation. The manifest must carry
// formatVersion and presentationId; slides and themes are read from their
// JSON parts, and the arrangement, when present, fixes slide order.
func (s *Store) Open(path string) (*models.Presentation, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer archive.Close()

	var m manifest
	if err := readJSON(&archive.Reader, "manifest.json", &m); err != nil {
		return nil, err
	}
	if m.FormatVersion == 0 {
		return nil, fmt.Errorf("invalid bundle: missing formatVersion in manifest")
	}
	if m.PresentationID == "" {
		return nil, fmt.Errorf("invalid bundle: missing presentationId in manifest")
	}

	var slides []models.Slide
	if err := readJSON(&archive.Reader, "slides.json", &slides); err != nil {
		return nil, err
	}

	var arrangement models.Arrangement
	hasArrangement := true
	if err := readJSON(&archive.Reader, "arrangement.json", &arrangement); err != nil {
		hasArrangement = false
	}

	var themeNames []string
	for _, f := range archive.File {
		if strings.HasPrefix(f.Name, "themes/") && strings.HasSuffix(f.Name, ".json") {
			themeNames = append(themeNames, f.Name)
		}
	}
	sort.Strings(themeNames)

	themes := make([]models.Theme, 0, len(themeNames))
	for _, name := range themeNames {
		var theme models.Theme
		if err := readJSON(&archive.Reader, name, &theme); err != nil {
			s.logger.Warn("theme unreadable, skipped", "file", name, "err", err)
			continue
		}
		themes = append(themes, theme)
	}

	p := &models.Presentation{
		ID:            m.PresentationID,
		FormatVersion: m.FormatVersion,
		Title:         m.Title,
		ActiveThemeID: m.ActiveThemeID,
		Media:         m.Media,
		Fonts:         m.Fonts,
		Slides:        slides,
		Themes:        themes,
	}
	if hasArrangement {
		p.Arrangement = &arrangement
		p.Slides = applyArrangement(slides, arrangement)
	}

	s.logger.Info("bundle opened", "path", path,
		"slides", len(p.Slides), "themes", len(p.Themes), "media", len(p.Media))
	return p, nil
}

// Save writes a bundle atomically (temp file, then rename). Media bytes are
// copied from srcBundle when it names an existing bundle; with no source the
// manifest entries are written without payloads.
func (s *Store) Save(path string, p *models.Presentation, srcBundle string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	defer os.Remove(tempPath)

	if err := s.write(f, p, srcBundle); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync temp bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp bundle: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("rename temp bundle: %w", err)
	}
	s.logger.Info("bundle saved", "path", path)
	return nil
}

func (s *Store) write(w io.Writer, p *models.Presentation, srcBundle string) error {
	zw := zip.NewWriter(w)

	m := manifest{
		FormatVersion:  p.FormatVersion,
		PresentationID: p.ID,
		Title:          p.Title,
		ActiveThemeID:  p.ActiveThemeID,
		Media:          p.Media,
		Fonts:          p.Fonts,
	}
	if m.FormatVersion == 0 {
		m.FormatVersion = 1
	}
	if err := writeJSON(zw, "manifest.json", m); err != nil {
		return err
	}
	if err := writeJSON(zw, "slides.json", p.Slides); err != nil {
		return err
	}
	arrangement := p.Arrangement
	if arrangement == nil {
		arrangement = &models.Arrangement{Order: slideOrder(p.Slides)}
	}
	if err := writeJSON(zw, "arrangement.json", arrangement); err != nil {
		return err
	}
	for i, theme := range p.Themes {
		name := fmt.Sprintf("themes/%02d-%s.json", i, theme.ID)
		if err := writeJSON(zw, name, theme); err != nil {
			return err
		}
	}

	if srcBundle != "" {
		if err := s.copyMedia(zw, p, srcBundle); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish bundle: %w", err)
	}
	return nil
}

func (s *Store) copyMedia(zw *zip.Writer, p *models.Presentation, srcBundle string) error {
	src, err := zip.OpenReader(srcBundle)
	if err != nil {
		return fmt.Errorf("open source bundle for media: %w", err)
	}
	defer src.Close()

	for _, entry := range p.Media {
		rc, err := openZipFile(&src.Reader, entry.Path)
		if err != nil {
			s.logger.Warn("media missing from source bundle, skipped", "media", entry.ID, "path", entry.Path)
			continue
		}
		w, err := zw.Create(entry.Path)
		if err != nil {
			rc.Close()
			return fmt.Errorf("create media entry %s: %w", entry.Path, err)
		}
		if _, err := io.Copy(w, rc); err != nil {
			rc.Close()
			return fmt.Errorf("copy media %s: %w", entry.Path, err)
		}
		rc.Close()
	}
	return nil
}

// ReadMedia returns the raw bytes of a media part within a bundle.
func (s *Store) ReadMedia(bundlePath, mediaPath string) ([]byte, error) {
	archive, err := zip.OpenReader(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer archive.Close()

	rc, err := openZipFile(&archive.Reader, mediaPath)
	if err != nil {
		return nil, fmt.Errorf("missing file in bundle: %s", mediaPath)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read media %s: %w", mediaPath, err)
	}
	return data, nil
}

func applyArrangement(slides []models.Slide, a models.Arrangement) []models.Slide {
	if len(a.Order) == 0 {
		return slides
	}
	byID := make(map[string]models.Slide, len(slides))
	for _, s := range slides {
		byID[s.ID] = s
	}
	ordered := make([]models.Slide, 0, len(slides))
	seen := make(map[string]bool, len(slides))
	for _, id := range a.Order {
		if s, ok := byID[id]; ok && !seen[id] {
			ordered = append(ordered, s)
			seen[id] = true
		}
	}
	// Slides the arrangement forgot still belong to the deck.
	for _, s := range slides {
		if !seen[s.ID] {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

func slideOrder(slides []models.Slide) []string {
	order := make([]string, len(slides))
	for i, s := range slides {
		order[i] = s.ID
	}
	return order
}

func openZipFile(r *zip.Reader, name string) (io.ReadCloser, error) {
	for _, f := range r.File {
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("missing file in bundle: %s", name)
}

func readJSON(r *zip.Reader, name string, v any) error {
	rc, err := openZipFile(r, name)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func writeJSON(zw *zip.Writer, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
