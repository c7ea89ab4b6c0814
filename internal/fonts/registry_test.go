package fonts

import (
	"testing"

	"golang.org/x/image/font/basicfont"
)

func TestLoadRejectsGarbage(t *testing.T) {
	r := NewRegistry(nil)

	if err := r.Load("f1", "Broken", []byte("not a font")); err == nil {
		t.Fatalf("garbage bytes must fail to parse")
	}
	if r.Loaded("f1") {
		t.Errorf("failed load must not mark the id loaded")
	}
}

func TestFaceFallsBack(t *testing.T) {
	r := NewRegistry(nil)

	face := r.Face("Nonexistent", 48)
	if face != basicfont.Face7x13 {
		t.Errorf("unknown family must fall back to the built-in face")
	}

	// Degenerate sizes still produce a usable face.
	if face := r.Face("Nonexistent", 0); face == nil {
		t.Errorf("zero size must not return nil")
	}
}

func TestLoadedMembership(t *testing.T) {
	r := NewRegistry(nil)
	if r.Loaded("absent") {
		t.Errorf("empty registry reports a loaded font")
	}
}
