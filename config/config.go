// Package config handles the caption display settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	appName      = "locap"
	settingsFile = "settings.yaml"

	MinFontSize = 8
	MaxFontSize = 150
)

// Dock selects where the caption window sits on screen.
type Dock string

const (
	DockFloating Dock = "floating"
	DockTop      Dock = "top"
	DockBottom   Dock = "bottom"
)

// Settings is the display configuration. It is always replaced
// wholesale; there are no partial updates.
type Settings struct {
	FontFamily string `yaml:"font_family"`
	FontSize   int    `yaml:"font_size"`
	TextColor  string `yaml:"text_color"`
	Dock       Dock   `yaml:"dock_position"`
	Fullscreen bool   `yaml:"fullscreen"`
}

func Default() Settings {
	return Settings{
		FontFamily: "Helvetica",
		FontSize:   24,
		TextColor:  "#ffffff",
		Dock:       DockFloating,
	}
}

// Validate checks field ranges. A color is either a #rrggbb triple or a
// symbolic name (rendered without fading).
func (s Settings) Validate() error {
	if s.FontSize < MinFontSize || s.FontSize > MaxFontSize {
		return fmt.Errorf("font_size %d out of range [%d, %d]", s.FontSize, MinFontSize, MaxFontSize)
	}
	switch s.Dock {
	case DockFloating, DockTop, DockBottom:
	default:
		return fmt.Errorf("dock_position %q is not floating, top, or bottom", s.Dock)
	}
	if s.TextColor == "" {
		return fmt.Errorf("text_color is empty")
	}
	if s.FontFamily == "" {
		return fmt.Errorf("font_family is empty")
	}
	return nil
}

// Load reads the settings file, returning defaults when it does not
// exist. An unreadable or invalid file is an error, not a silent reset.
func Load() (Settings, error) {
	path, err := settingsPath()
	if err != nil {
		return Settings{}, fmt.Errorf("get settings path: %w", err)
	}
	return LoadFile(path)
}

func LoadFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("read settings: %w", err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings file %s: %w", path, err)
	}
	return s, nil
}

// Save persists settings to the user config dir.
func (s Settings) Save() error {
	path, err := settingsPath()
	if err != nil {
		return fmt.Errorf("get settings path: %w", err)
	}
	return s.SaveFile(path)
}

func (s Settings) SaveFile(path string) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}

func settingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(dir, appName, settingsFile), nil
}
