// Package settings holds the player's graphics, audio and input settings and
// the panel that edits them.
package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidResolution is returned by ParseResolution for text that is not
// "WIDTHxHEIGHT" with both dimensions positive.
var ErrInvalidResolution = errors.New("settings: invalid resolution")

// Quality levels map to the overall scalability level.
const (
	QualityLow = iota
	QualityMedium
	QualityHigh
	QualityEpic
)

// QualityNames labels each quality level.
var QualityNames = []string{"Low", "Medium", "High", "Epic"}

// Resolution is a screen size in pixels.
type Resolution struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution parses "1920x1080".
func ParseResolution(s string) (Resolution, error) {
	parts := strings.Split(strings.TrimSpace(s), "x")
	if len(parts) != 2 {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}
	w, errW := strconv.Atoi(parts[0])
	h, errH := strconv.Atoi(parts[1])
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return Resolution{}, fmt.Errorf("%w: %q", ErrInvalidResolution, s)
	}
	return Resolution{Width: w, Height: h}, nil
}

// SupportedResolutions lists the fullscreen modes offered by the panel.
func SupportedResolutions() []Resolution {
	return []Resolution{
		{1280, 720},
		{1366, 768},
		{1600, 900},
		{1920, 1080},
		{2560, 1440},
		{3840, 2160},
	}
}

// WindowMode is how the game window is presented.
type WindowMode string

const (
	Fullscreen         WindowMode = "fullscreen"
	WindowedFullscreen WindowMode = "windowed_fullscreen"
	Windowed           WindowMode = "windowed"
)

// WindowModes lists the modes in selector order.
var WindowModes = []WindowMode{Fullscreen, WindowedFullscreen, Windowed}

// Index returns the selector position of m. Unknown modes sit with
// Windowed.
func (m WindowMode) Index() int {
	switch m {
	case Fullscreen:
		return 0
	case WindowedFullscreen:
		return 1
	default:
		return 2
	}
}

// WindowModeFromIndex is the inverse of Index, falling back to Windowed.
func WindowModeFromIndex(i int) WindowMode {
	if i < 0 || i >= len(WindowModes) {
		return Windowed
	}
	return WindowModes[i]
}

func (m WindowMode) Label() string {
	switch m {
	case Fullscreen:
		return "Fullscreen"
	case WindowedFullscreen:
		return "Windowed Fullscreen"
	default:
		return "Windowed"
	}
}

// Settings is the persisted user settings document.
type Settings struct {
	Resolution       Resolution `yaml:"resolution"`
	WindowMode       WindowMode `yaml:"window_mode"`
	Quality          int        `yaml:"quality"`
	MasterVolume     float64    `yaml:"master_volume"`
	MouseSensitivity float64    `yaml:"mouse_sensitivity"`
	GameVersion      int        `yaml:"game_version"`
}

// Defaults returns the settings used when nothing has been saved.
func Defaults() Settings {
	return Settings{
		Resolution:       Resolution{1920, 1080},
		WindowMode:       Windowed,
		Quality:          QualityHigh,
		MasterVolume:     1,
		MouseSensitivity: 0.5,
		GameVersion:      1,
	}
}

// normalize clamps every field into its valid range.
func (s *Settings) normalize() {
	if s.Resolution.Width <= 0 || s.Resolution.Height <= 0 {
		s.Resolution = Defaults().Resolution
	}
	s.WindowMode = WindowModeFromIndex(s.WindowMode.Index())
	s.Quality = clampQuality(s.Quality)
	s.MasterVolume = clampUnit(s.MasterVolume)
	s.MouseSensitivity = clampUnit(s.MouseSensitivity)
}

func clampQuality(q int) int {
	return min(max(q, QualityLow), QualityEpic)
}

// clampUnit limits v to [0,1]. NaN becomes 0.
func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return min(max(v, 0), 1)
}
