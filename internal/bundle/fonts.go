package bundle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/font/sfnt"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

// ImportFonts reads font files and computes their manifest entries. Family
// and style come from the font's own name table; weight is inferred from the
// subfamily name.
func ImportFonts(paths []string) ([]models.FontEntry, error) {
	entries := make([]models.FontEntry, 0, len(paths))

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}

		family, style, weight := fontNaming(data, path)

		id := uuid.NewString()
		sum := sha256.Sum256(data)
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if ext == "" {
			ext = "ttf"
		}

		entries = append(entries, models.FontEntry{
			ID:       id,
			Family:   family,
			Style:    style,
			Weight:   weight,
			Path:     fmt.Sprintf("fonts/%s.%s", id[:8], ext),
			SHA256:   hex.EncodeToString(sum[:]),
			ByteSize: int64(len(data)),
		})
	}
	return entries, nil
}

// fontNaming pulls family/subfamily from the sfnt name table, degrading to
// the filename when the font cannot be parsed.
func fontNaming(data []byte, path string) (family, style string, weight int) {
	family = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	style = "normal"
	weight = 400

	f, err := sfnt.Parse(data)
	if err != nil {
		return family, style, weight
	}

	var buf sfnt.Buffer
	if name, err := f.Name(&buf, sfnt.NameIDFamily); err == nil && name != "" {
		family = name
	}
	sub, err := f.Name(&buf, sfnt.NameIDSubfamily)
	if err != nil {
		return family, style, weight
	}

	lower := strings.ToLower(sub)
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		style = "italic"
	}
	switch {
	case strings.Contains(lower, "thin"):
		weight = 100
	case strings.Contains(lower, "extralight"), strings.Contains(lower, "ultralight"):
		weight = 200
	case strings.Contains(lower, "semibold"), strings.Contains(lower, "demibold"):
		weight = 600
	case strings.Contains(lower, "extrabold"), strings.Contains(lower, "ultrabold"):
		weight = 800
	case strings.Contains(lower, "light"):
		weight = 300
	case strings.Contains(lower, "medium"):
		weight = 500
	case strings.Contains(lower, "black"), strings.Contains(lower, "heavy"):
		weight = 900
	case strings.Contains(lower, "bold"):
		weight = 700
	}
	return family, style, weight
}
