package bundle

import (
	"archive/zip"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethanhanderson/church-presenter-sub001/internal/models"
)

func samplePresentation() *models.Presentation {
	return &models.Presentation{
		ID:            "p1",
		FormatVersion: 1,
		Title:         "Sunday Service",
		ActiveThemeID: "t1",
		Slides: []models.Slide{
			{ID: "s1", Name: "Verse 1"},
			{ID: "s2", Name: "Chorus"},
			{ID: "s3", Name: "Verse 2"},
		},
		Themes: []models.Theme{
			{ID: "t1", Name: "Dark", AspectRatio: models.Aspect16x9},
			{ID: "t2", Name: "Light", AspectRatio: models.Aspect4x3},
		},
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "deck.cpres")

	if err := store.Save(path, samplePresentation(), ""); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got.ID != "p1" || got.Title != "Sunday Service" || got.ActiveThemeID != "t1" {
		t.Errorf("presentation = %+v", got)
	}
	if got.FormatVersion != 1 {
		t.Errorf("format version = %d", got.FormatVersion)
	}
	if len(got.Slides) != 3 || got.Slides[0].ID != "s1" || got.Slides[2].ID != "s3" {
		t.Errorf("slides = %+v", got.Slides)
	}
	if len(got.Themes) != 2 || got.Themes[0].ID != "t1" {
		t.Errorf("themes = %+v", got.Themes)
	}
	// No leftover temp file after the atomic rename.
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}

func TestOpenAppliesArrangement(t *testing.T) {
	store := NewStore(nil)
	path := filepath.Join(t.TempDir(), "deck.cpres")

	p := samplePresentation()
	p.Arrangement = &models.Arrangement{Order: []string{"s2", "s1"}} // s3 omitted

	if err := store.Save(path, p, ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	want := []string{"s2", "s1", "s3"} // omitted slides trail in slide order
	if len(got.Slides) != len(want) {
		t.Fatalf("slides = %d, want %d", len(got.Slides), len(want))
	}
	for i, id := range want {
		if got.Slides[i].ID != id {
			t.Errorf("slide[%d] = %s, want %s", i, got.Slides[i].ID, id)
		}
	}
}

func TestOpenRejectsInvalidManifest(t *testing.T) {
	store := NewStore(nil)
	dir := t.TempDir()

	// No manifest at all.
	empty := filepath.Join(dir, "empty.cpres")
	writeZip(t, empty, map[string][]byte{"slides.json": []byte("[]")})
	if _, err := store.Open(empty); err == nil {
		t.Errorf("missing manifest must fail")
	}

	// Manifest without formatVersion.
	noVersion := filepath.Join(dir, "noversion.cpres")
	writeZip(t, noVersion, map[string][]byte{
		"manifest.json": []byte(`{"presentationId":"p1"}`),
		"slides.json":   []byte("[]"),
	})
	if _, err := store.Open(noVersion); err == nil {
		t.Errorf("missing formatVersion must fail")
	}

	// Manifest without presentationId.
	noID := filepath.Join(dir, "noid.cpres")
	writeZip(t, noID, map[string][]byte{
		"manifest.json": []byte(`{"formatVersion":1}`),
		"slides.json":   []byte("[]"),
	})
	if _, err := store.Open(noID); err == nil {
		t.Errorf("missing presentationId must fail")
	}

	// Not a zip.
	garbage := filepath.Join(dir, "garbage.cpres")
	if err := os.WriteFile(garbage, []byte("not a bundle"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Open(garbage); err == nil {
		t.Errorf("non-zip file must fail")
	}
}

func TestSaveCopiesMediaFromSource(t *testing.T) {
	store := NewStore(nil)
	dir := t.TempDir()

	payload := []byte("fake png bytes")
	src := filepath.Join(dir, "src.cpres")
	writeZip(t, src, map[string][]byte{
		"manifest.json":      []byte(`{"formatVersion":1,"presentationId":"p1"}`),
		"slides.json":        []byte("[]"),
		"media/abcd1234.png": payload,
	})

	p := samplePresentation()
	p.Media = []models.MediaEntry{{
		ID:   "abcd1234-0000-0000-0000-000000000000",
		Path: "media/abcd1234.png",
		Mime: "image/png",
	}}

	dst := filepath.Join(dir, "dst.cpres")
	if err := store.Save(dst, p, src); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := store.ReadMedia(dst, "media/abcd1234.png")
	if err != nil {
		t.Fatalf("read media: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("media bytes differ")
	}

	if _, err := store.ReadMedia(dst, "media/missing.png"); err == nil {
		t.Errorf("missing media must error")
	}
}

func TestImportMedia(t *testing.T) {
	dir := t.TempDir()
	payload := []byte("image payload")
	img := filepath.Join(dir, "Background.JPG")
	if err := os.WriteFile(img, payload, 0644); err != nil {
		t.Fatal(err)
	}
	clip := filepath.Join(dir, "intro.mp4")
	if err := os.WriteFile(clip, []byte("video payload"), 0644); err != nil {
		t.Fatal(err)
	}
	odd := filepath.Join(dir, "notes.xyz")
	if err := os.WriteFile(odd, []byte("?"), 0644); err != nil {
		t.Fatal(err)
	}

	entries, err := ImportMedia([]string{img, clip, odd})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %d", len(entries))
	}

	e := entries[0]
	if e.Filename != "Background.JPG" || e.Mime != "image/jpeg" || e.Type != "image" {
		t.Errorf("entry = %+v", e)
	}
	if e.ByteSize != int64(len(payload)) {
		t.Errorf("byte size = %d", e.ByteSize)
	}
	sum := sha256.Sum256(payload)
	if e.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("sha256 = %s", e.SHA256)
	}
	// Extension is lowercased in the bundle path: media/<id[:8]>.jpg
	if want := "media/" + e.ID[:8] + ".jpg"; e.Path != want {
		t.Errorf("path = %s, want %s", e.Path, want)
	}

	if entries[1].Mime != "video/mp4" || entries[1].Type != "video" {
		t.Errorf("video entry = %+v", entries[1])
	}
	if entries[2].Mime != "application/octet-stream" || entries[2].Type != "unknown" {
		t.Errorf("unknown entry = %+v", entries[2])
	}

	if _, err := ImportMedia([]string{filepath.Join(dir, "absent.png")}); err == nil {
		t.Errorf("unreadable file must error")
	}
}

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zw := zip.NewWriter(f)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}
