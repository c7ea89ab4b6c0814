package bundle

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestImportFonts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body-font.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ImportFonts([]string{path})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}

	e := entries[0]
	if e.Family != "Go" {
		t.Errorf("family = %q, want the name-table family", e.Family)
	}
	if e.Style != "normal" || e.Weight != 400 {
		t.Errorf("style/weight = %s/%d", e.Style, e.Weight)
	}
	if e.ByteSize != int64(len(goregular.TTF)) {
		t.Errorf("byte size = %d", e.ByteSize)
	}
	if want := "fonts/" + e.ID[:8] + ".ttf"; e.Path != want {
		t.Errorf("path = %s, want %s", e.Path, want)
	}
}

func TestImportFontsUnparseable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Broken-Bold.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0644); err != nil {
		t.Fatal(err)
	}

	// Unparseable bytes degrade to filename naming, never an error.
	entries, err := ImportFonts([]string{path})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if entries[0].Family != "Broken-Bold" {
		t.Errorf("family = %q, want the filename stem", entries[0].Family)
	}

	if _, err := ImportFonts([]string{filepath.Join(dir, "absent.ttf")}); err == nil {
		t.Errorf("unreadable file must error")
	}
}

func TestFontNamingWeights(t *testing.T) {
	// The weight table is driven by the subfamily string; exercise the parse
	// fallback path with the filename carrying no hints.
	family, style, weight := fontNaming([]byte("junk"), "/tmp/Sans.ttf")
	if family != "Sans" || style != "normal" || weight != 400 {
		t.Errorf("naming = %s/%s/%d", family, style, weight)
	}
}
