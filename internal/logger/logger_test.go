package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "viewer.log")

	err := InitWithOptions(Options{
		Level: "debug",
		File: FileConfig{
			Path:       logFile,
			MaxSizeMB:  1, // smallest size lumberjack allows
			MaxBackups: 2,
			MaxAgeDays: 1,
		},
	})
	if err != nil {
		t.Fatalf("InitWithOptions: %v", err)
	}
	defer Sync()

	payload := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, payload)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var rotated int
	for _, e := range entries {
		name := e.Name()
		if name != "viewer.log" && strings.HasPrefix(name, "viewer-20") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("no rotated files in %v", entries)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := New(Options{Level: tt.level, Console: true, Writer: &buf})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			l.Debug("d")
			l.Info("i")
			l.Warn("w")
			l.Error("e")
			_ = l.Sync()

			out := buf.String()
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in %q", exp, out)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in %q", exc, out)
				}
			}
		})
	}
}

func TestJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.json")
	l, err := New(Options{Level: "info", File: FileConfig{Path: path, MaxSizeMB: 1}, JSON: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Named("section").Info("plane added", zap.String("name", "Plane 1"))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for _, want := range []string{`"logger":"section"`, `"name":"Plane 1"`, `"msg":"plane added"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("missing %s in %s", want, data)
		}
	}
}

func TestParseLevelRejectsUnknown(t *testing.T) {
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if _, err := New(Options{Level: "loud", Console: true}); err == nil {
		t.Error("New should reject an unknown level")
	}
}

func TestNopWithoutOutputs(t *testing.T) {
	l, err := New(Options{Level: "info"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("dropped")
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/viewer.log")
	if cfg.Path != "/tmp/viewer.log" || cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 14 || !cfg.Compress {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}
