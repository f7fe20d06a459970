package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"github.com/Faultbox/sectionview/pkg/ifc"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Viewer.WireframeSubset != "wireframe_elements" {
		t.Errorf("expected wireframe subset 'wireframe_elements', got %s", cfg.Viewer.WireframeSubset)
	}
	if cfg.Viewer.RestSubset != "everything_else" {
		t.Errorf("expected rest subset 'everything_else', got %s", cfg.Viewer.RestSubset)
	}
	if cfg.Viewer.TransparentOpacity != 0.5 {
		t.Errorf("expected opacity 0.5, got %f", cfg.Viewer.TransparentOpacity)
	}
	if len(cfg.Viewer.WireframeCategories) != len(ifc.WireframeCategories) {
		t.Errorf("expected %d categories, got %v", len(ifc.WireframeCategories), cfg.Viewer.WireframeCategories)
	}

	if got := cfg.Section.CapColor.String(); got != "#e91e63" {
		t.Errorf("expected cap color #e91e63, got %s", got)
	}
	if cfg.Section.MaxPlanes != 8 {
		t.Errorf("expected 8 max planes, got %d", cfg.Section.MaxPlanes)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

viewer:
  wireframe_categories: [IFCBEAM, ifccolumn]
  subset_color: "#808080"
  transparent_opacity: 0.3

section:
  cap_color: "00ff00"
  max_planes: 3

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if cfg.Viewer.SubsetColor.String() != "#808080" {
		t.Errorf("expected subset color #808080, got %s", cfg.Viewer.SubsetColor)
	}
	if cfg.Viewer.TransparentOpacity != 0.3 {
		t.Errorf("expected opacity 0.3, got %f", cfg.Viewer.TransparentOpacity)
	}
	if cfg.Viewer.RestSubset != "everything_else" {
		t.Errorf("unset keys should keep defaults, got %q", cfg.Viewer.RestSubset)
	}

	if cfg.Section.CapColor != (Color{0, 1, 0}) {
		t.Errorf("expected green cap, got %v", cfg.Section.CapColor)
	}
	if cfg.Section.MaxPlanes != 3 {
		t.Errorf("expected 3 max planes, got %d", cfg.Section.MaxPlanes)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}

	opts, err := cfg.ViewerOptions()
	if err != nil {
		t.Fatalf("viewer options: %v", err)
	}
	if len(opts.WireframeCategories) != 2 || opts.WireframeCategories[1] != ifc.IfcColumn {
		t.Errorf("unexpected categories %v", opts.WireframeCategories)
	}
	if opts.Section.MaxPlanes != 3 || opts.Subset.TransparentOpacity != 0.3 {
		t.Errorf("options not carried over: %+v", opts)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileBadColor(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "color.yaml")
	if err := os.WriteFile(configPath, []byte("section:\n  cap_color: pink\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if err := loadFromFile(Default(), configPath); err == nil {
		t.Error("expected error for a named color")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Graphics.Width = 0 }},
		{"unknown category", func(c *Config) { c.Viewer.WireframeCategories = []string{"IFCBANANA"} }},
		{"same subset names", func(c *Config) { c.Viewer.RestSubset = c.Viewer.WireframeSubset }},
		{"empty subset name", func(c *Config) { c.Viewer.WireframeSubset = "" }},
		{"opacity above one", func(c *Config) { c.Viewer.TransparentOpacity = 1.5 }},
		{"zero cap scale", func(c *Config) { c.Section.CapScale = 0 }},
		{"negative max planes", func(c *Config) { c.Section.MaxPlanes = -1 }},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestColor(t *testing.T) {
	c, err := ParseColor("#E91E63")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.String() != "#e91e63" {
		t.Errorf("round trip gave %s", c)
	}
	if c.RGBA()[3] != 1 {
		t.Error("expected opaque alpha")
	}
	for _, bad := range []string{"", "#fff", "#gggggg"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("sectionview.yaml", []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find sectionview.yaml in current directory")
	}
}

func parseFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return f
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		verify func(*testing.T, *Config)
	}{
		{
			name: "debug flag",
			args: []string{"--debug"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "explicit level wins over debug",
			args: []string{"--debug", "--log-level", "warn"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "warn" {
					t.Errorf("expected log level 'warn', got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "fullscreen flag",
			args: []string{"--fullscreen"},
			verify: func(t *testing.T, cfg *Config) {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
			},
		},
		{
			name: "width and height flags",
			args: []string{"--width", "2560", "--height=1440"},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
			},
		},
		{
			name: "wireframe categories",
			args: []string{"--wireframe", "IFCWALL,IFCSLAB"},
			verify: func(t *testing.T, cfg *Config) {
				if len(cfg.Viewer.WireframeCategories) != 2 {
					t.Errorf("expected two categories, got %v", cfg.Viewer.WireframeCategories)
				}
			},
		},
		{
			name: "no flags",
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "info" || cfg.Graphics.Width != 1280 {
					t.Errorf("defaults changed: %+v", cfg)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFlags(t, tt.args...)
			cfg := Default()
			f.apply(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	f := parseFlags(t, "--config", configPath, "--width", "1920")
	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("section:\n  cap_scale: -1\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := Load(parseFlags(t, "-c", configPath)); err == nil {
		t.Error("expected validation error")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Section.CapScale = 2

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Section.CapScale != 2 {
		t.Errorf("expected cap scale 2, got %v", loaded.Section.CapScale)
	}
	if loaded.Section.CapColor.String() != "#e91e63" {
		t.Errorf("color not written as hex: %s", loaded.Section.CapColor)
	}
}
