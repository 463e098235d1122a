package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
}

func TestValidateFontSizeBounds(t *testing.T) {
	s := Default()
	for _, size := range []int{7, 151, 0, -1} {
		s.FontSize = size
		if err := s.Validate(); err == nil {
			t.Fatalf("font size %d accepted", size)
		}
	}
	for _, size := range []int{8, 150, 24} {
		s.FontSize = size
		if err := s.Validate(); err != nil {
			t.Fatalf("font size %d rejected: %v", size, err)
		}
	}
}

func TestValidateDockEnum(t *testing.T) {
	s := Default()
	s.Dock = Dock("left")
	if err := s.Validate(); err == nil {
		t.Fatal("invalid dock position accepted")
	}
	for _, d := range []Dock{DockFloating, DockTop, DockBottom} {
		s.Dock = d
		if err := s.Validate(); err != nil {
			t.Fatalf("dock %q rejected: %v", d, err)
		}
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	s, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should yield defaults, got %v", err)
	}
	if s != Default() {
		t.Fatalf("got %+v, want defaults", s)
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.yaml")
	want := Settings{
		FontFamily: "DejaVu Sans",
		FontSize:   32,
		TextColor:  "#00ff88",
		Dock:       DockBottom,
		Fullscreen: true,
	}
	if err := want.SaveFile(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Fatalf("roundtrip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("font_size: 500\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("out-of-range settings file accepted")
	}
}

func TestSaveFileRejectsInvalid(t *testing.T) {
	s := Default()
	s.Dock = "sideways"
	if err := s.SaveFile(filepath.Join(t.TempDir(), "settings.yaml")); err == nil {
		t.Fatal("invalid settings saved")
	}
}
