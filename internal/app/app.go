// Package app runs the interactive viewer: window, GL backend, input and
// the frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/sectionview/internal/classify"
	"github.com/Faultbox/sectionview/internal/config"
	"github.com/Faultbox/sectionview/internal/engine/camera"
	"github.com/Faultbox/sectionview/internal/engine/debug"
	"github.com/Faultbox/sectionview/internal/engine/input"
	"github.com/Faultbox/sectionview/internal/engine/renderer"
	"github.com/Faultbox/sectionview/internal/engine/window"
	"github.com/Faultbox/sectionview/internal/viewer"
	"github.com/Faultbox/sectionview/pkg/ifc"
)

// App is the interactive viewer.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window   *window.Window
	renderer *renderer.GL
	input    *input.Input
	camera   *camera.OrbitCamera
	viewer   *viewer.Context
	keymap   Keymap
	shots    *debug.ScreenshotCapture

	modelPath string
	changes   <-chan string
}

// New creates the window and GL backend and an empty viewer.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height))

	opts, err := cfg.ViewerOptions()
	if err != nil {
		return nil, err
	}

	if limit := glPlaneLimit(opts.Section.MaxPlanes); limit != opts.Section.MaxPlanes {
		log.Warn("section plane limit lowered to the GL clip plane count",
			zap.Int("configured", opts.Section.MaxPlanes),
			zap.Int("limit", limit))
		opts.Section.MaxPlanes = limit
	}

	a := &App{
		cfg:    cfg,
		log:    log,
		input:  input.New(),
		keymap: DefaultKeymap(),
		shots:  debug.NewScreenshotCapture("screenshots", "sectionview"),
	}

	// The window creates the GL context the renderer needs.
	a.window, err = window.New(window.Config{
		Title:      "sectionview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		MSAA:       cfg.Graphics.MSAA,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		Background: cfg.Graphics.Background.RGBA(),
	}, log.Named("gl"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.camera = camera.NewOrbitCamera()
	a.viewer = viewer.New(a.renderer, a.camera, opts, log)
	return a, nil
}

// glPlaneLimit caps a plane limit, where zero means unlimited, at the number
// of clip planes the GL shader holds.
func glPlaneLimit(n int) int {
	if n <= 0 || n > renderer.MaxClipPlanes {
		return renderer.MaxClipPlanes
	}
	return n
}

// Viewer returns the viewer context.
func (a *App) Viewer() *viewer.Context {
	return a.viewer
}

// Load reads a model file and shows it. A classification failure is logged
// and the model is shown without outlines.
func (a *App) Load(ctx context.Context, path string) error {
	m, err := ifc.Load(path)
	if err != nil {
		return err
	}
	a.modelPath = path
	if err := a.viewer.LoadModel(ctx, m); err != nil && !errors.Is(err, classify.ErrClassificationUnavailable) {
		return err
	}
	a.window.SetTitle(fmt.Sprintf("sectionview - %s", m.Name))
	return nil
}

// Watch reloads the model whenever a path arrives on changes.
func (a *App) Watch(changes <-chan string) {
	a.changes = changes
}

// AddPlanes creates planes from "+x" or "-y=2.5" style specs.
func (a *App) AddPlanes(specs []string) error {
	parsed, err := viewer.ParsePlaneSpecs(specs)
	if err != nil {
		return err
	}
	return a.viewer.AddPlanes(parsed...)
}

// Run starts the frame loop and returns when the window closes or ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var minFrame time.Duration
	if a.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(a.cfg.Graphics.FPSLimit)
	}

	a.log.Info("starting frame loop")

	for a.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if a.input.Update() {
			break
		}
		for _, ev := range a.input.Events() {
			a.handle(ctx, ev)
		}
		a.drainChanges(ctx)

		if err := a.viewer.Tick(float32(dt.Seconds())); err != nil {
			return err
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if spent := time.Since(now); spent < minFrame {
				time.Sleep(minFrame - spent)
			}
		}
	}

	a.running = false
	return nil
}

func (a *App) handle(ctx context.Context, ev input.Event) {
	switch ev.Type {
	case input.EventWindowResize:
		w, h := a.window.DrawableSize()
		a.renderer.Resize(w, h)
		return
	case input.EventMouseMove:
		if ev.Dragging() {
			a.camera.HandleDrag(ev.DeltaX, ev.DeltaY)
		}
		return
	case input.EventMouseWheel:
		a.camera.HandleZoom(-ev.DeltaY)
		return
	}

	b, ok := a.keymap.Resolve(ev)
	if !ok {
		return
	}
	switch b.Action {
	case ActionQuit:
		a.running = false
	case ActionScreenshot:
		a.screenshot()
	case ActionReload:
		a.reload(ctx)
	case ActionCommand:
		if err := a.viewer.Apply(b.Command); err != nil {
			a.log.Warn("command failed", zap.Stringer("command", b.Command.Kind), zap.Error(err))
		}
	}
}

func (a *App) drainChanges(ctx context.Context) {
	select {
	case path := <-a.changes:
		a.log.Info("model changed on disk", zap.String("path", path))
		a.reload(ctx)
	default:
	}
}

func (a *App) reload(ctx context.Context) {
	if a.modelPath == "" {
		return
	}
	if err := a.Load(ctx, a.modelPath); err != nil {
		a.log.Error("reload failed", zap.String("path", a.modelPath), zap.Error(err))
	}
}

func (a *App) screenshot() {
	img, err := a.renderer.Capture(a.viewer.Scene, a.camera, a.viewer.Planes)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	path, err := a.shots.Capture(img)
	if err != nil {
		a.log.Error("screenshot failed", zap.Error(err))
		return
	}
	a.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases the GL backend and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
