// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sectionview/internal/logger"
	"github.com/Faultbox/sectionview/internal/section"
	"github.com/Faultbox/sectionview/internal/subset"
	"github.com/Faultbox/sectionview/internal/viewer"
	"github.com/Faultbox/sectionview/pkg/ifc"
)

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Viewer   ViewerConfig   `yaml:"viewer"`
	Section  SectionConfig  `yaml:"section"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int   `yaml:"width"`
	Height     int   `yaml:"height"`
	Fullscreen bool  `yaml:"fullscreen"`
	VSync      bool  `yaml:"vsync"`
	MSAA       int   `yaml:"msaa"`
	FPSLimit   int   `yaml:"fps_limit"`
	Background Color `yaml:"background"`
}

// ViewerConfig holds model presentation settings.
type ViewerConfig struct {
	WireframeCategories []string `yaml:"wireframe_categories"`
	WireframeSubset     string   `yaml:"wireframe_subset"`
	RestSubset          string   `yaml:"rest_subset"`
	SubsetColor         Color    `yaml:"subset_color"`
	OutlineColor        Color    `yaml:"outline_color"`
	TransparentOpacity  float32  `yaml:"transparent_opacity"`
	EdgeThreshold       float64  `yaml:"edge_threshold"` // degrees
	ClassifyConcurrency int      `yaml:"classify_concurrency"`
}

// SectionConfig holds section plane settings.
type SectionConfig struct {
	CapColor    Color   `yaml:"cap_color"`
	HelperColor Color   `yaml:"helper_color"`
	CapScale    float32 `yaml:"cap_scale"`
	MaxPlanes   int     `yaml:"max_planes"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	sub := subset.DefaultStyle()
	sec := section.DefaultStyle()

	cats := make([]string, 0, len(ifc.WireframeCategories))
	for _, c := range ifc.WireframeCategories {
		cats = append(cats, c.String())
	}

	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			MSAA:       4,
			FPSLimit:   0,
			Background: Color{0.93, 0.93, 0.93},
		},
		Viewer: ViewerConfig{
			WireframeCategories: cats,
			WireframeSubset:     "wireframe_elements",
			RestSubset:          "everything_else",
			SubsetColor:         sub.Color,
			OutlineColor:        sub.OutlineColor,
			TransparentOpacity:  sub.TransparentOpacity,
			EdgeThreshold:       sub.EdgeThreshold,
			ClassifyConcurrency: 0,
		},
		Section: SectionConfig{
			CapColor:    sec.CapColor,
			HelperColor: sec.HelperColor,
			CapScale:    sec.CapScale,
			MaxPlanes:   sec.MaxPlanes,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks values that cannot be used as given.
func (c *Config) Validate() error {
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		return fmt.Errorf("graphics: invalid size %dx%d", c.Graphics.Width, c.Graphics.Height)
	}
	if _, err := ifc.ParseCategories(c.Viewer.WireframeCategories); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	if c.Viewer.WireframeSubset == "" || c.Viewer.RestSubset == "" {
		return fmt.Errorf("viewer: subset names must not be empty")
	}
	if c.Viewer.WireframeSubset == c.Viewer.RestSubset {
		return fmt.Errorf("viewer: subset names must differ, both are %q", c.Viewer.RestSubset)
	}
	if o := c.Viewer.TransparentOpacity; o < 0 || o > 1 {
		return fmt.Errorf("viewer: transparent_opacity %v outside [0, 1]", o)
	}
	if c.Section.CapScale <= 0 {
		return fmt.Errorf("section: cap_scale must be positive")
	}
	if c.Section.MaxPlanes < 0 {
		return fmt.Errorf("section: max_planes must not be negative")
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// ViewerOptions converts the viewer and section sections.
func (c *Config) ViewerOptions() (viewer.Options, error) {
	cats, err := ifc.ParseCategories(c.Viewer.WireframeCategories)
	if err != nil {
		return viewer.Options{}, err
	}

	opts := viewer.DefaultOptions()
	opts.WireframeCategories = cats
	opts.WireframeSubset = c.Viewer.WireframeSubset
	opts.RestSubset = c.Viewer.RestSubset
	opts.ClassifyConcurrency = c.Viewer.ClassifyConcurrency

	opts.Subset.Color = c.Viewer.SubsetColor
	opts.Subset.OutlineColor = c.Viewer.OutlineColor
	opts.Subset.TransparentOpacity = c.Viewer.TransparentOpacity
	opts.Subset.EdgeThreshold = c.Viewer.EdgeThreshold

	opts.Section.CapColor = c.Section.CapColor
	opts.Section.HelperColor = c.Section.HelperColor
	opts.Section.CapScale = c.Section.CapScale
	opts.Section.MaxPlanes = c.Section.MaxPlanes
	return opts, nil
}

// Color is an RGB color written as "#rrggbb" in YAML.
type Color [3]float32

// ParseColor parses "#rrggbb" or "rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	var r, g, b uint8
	if len(s) != 6 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255}, nil
}

// String formats the color as "#rrggbb".
func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c[0]), channel(c[1]), channel(c[2]))
}

// RGBA returns the color with full opacity.
func (c Color) RGBA() [4]float32 {
	return [4]float32{c[0], c[1], c[2], 1}
}

func channel(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}
