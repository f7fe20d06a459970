package config

import "github.com/spf13/pflag"

// Flags are the command-line overrides shared by every command.
type Flags struct {
	fs *pflag.FlagSet

	Config     string
	Debug      bool
	Fullscreen bool
	Width      int
	Height     int
	LogFile    string
	LogLevel   string
	Categories []string
}

// BindFlags registers the config flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVarP(&f.Config, "config", "c", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.IntVar(&f.Width, "width", 0, "Window or image width")
	fs.IntVar(&f.Height, "height", 0, "Window or image height")
	fs.StringVar(&f.LogFile, "log-file", "", "Write logs to a rotated file")
	fs.StringVar(&f.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringSliceVar(&f.Categories, "wireframe", nil, "IFC categories drawn with outlines")
	return f
}

// ConfigPath returns the explicit config path if provided via --config.
func (f *Flags) ConfigPath() string {
	if f == nil {
		return ""
	}
	return f.Config
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if f.changed("log-file") {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.changed("fullscreen") {
		cfg.Graphics.Fullscreen = f.Fullscreen
	}
	if f.Width > 0 {
		cfg.Graphics.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Graphics.Height = f.Height
	}
	if f.changed("wireframe") {
		cfg.Viewer.WireframeCategories = f.Categories
	}
}
