// Package app implements the viewer main loop.
package app

import (
	"fmt"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/dicetray/internal/config"
	"github.com/Faultbox/dicetray/internal/dice"
	"github.com/Faultbox/dicetray/internal/engine/camera"
	"github.com/Faultbox/dicetray/internal/engine/debug"
	"github.com/Faultbox/dicetray/internal/engine/input"
	"github.com/Faultbox/dicetray/internal/engine/renderer"
	"github.com/Faultbox/dicetray/internal/engine/window"
	"github.com/Faultbox/dicetray/internal/logger"
	"github.com/Faultbox/dicetray/internal/table"
	"github.com/Faultbox/dicetray/internal/tray"
)

// Play-area inset from the visible ground, and its minimum half size.
const (
	boundsMargin = 1.5
	boundsMin    = 2.0
)

var (
	wallColor = color.RGBA{R: 0x2a, G: 0x2a, B: 0x4a, A: 0xff}
	hullColor = color.RGBA{R: 0x6a, G: 0xb0, B: 0x4c, A: 0xff}
)

// App is the viewer.
type App struct {
	cfg      *config.Config
	running  bool
	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	camera   *camera.TrayCamera
	table    *table.Table
	shots    *debug.ScreenshotCapture
	log      *zap.Logger

	showDebug bool
	frameTime time.Duration
}

// New opens the window and builds the tray.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg:   cfg,
		input: input.New(),
		shots: debug.NewScreenshotCapture("screenshots", "dicetray"),
		log:   logger.Named("app"),
	}
	if cfg.Window.FPSLimit > 0 {
		a.frameTime = time.Second / time.Duration(cfg.Window.FPSLimit)
	}

	var err error
	a.table, err = table.New(cfg, table.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	a.table.Registry().OnSettled(a.onSettled)

	a.window, err = window.New(window.Config{
		Title:      "dicetray",
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
		Samples:    4,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	w, h := a.window.DrawableSize()
	a.renderer, err = renderer.New(renderer.Config{
		Width:       w,
		Height:      h,
		TextureSize: cfg.Dice.TextureSize,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.camera = camera.New(1)
	a.resize()

	a.log.Info("viewer initialized", zap.String("dice", dice.DescribePool(a.table.Pool())))
	return a, nil
}

// Run starts the main loop and returns when the window closes.
func (a *App) Run() error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	a.log.Info("starting main loop")

	for a.running {
		now := time.Now()
		dt := now.Sub(lastTime).Seconds()
		lastTime = now

		if a.input.Update() {
			a.running = false
			break
		}
		for _, e := range a.input.Events() {
			a.handleEvent(e)
		}
		for _, cmd := range a.input.Commands() {
			if err := a.apply(cmd); err != nil {
				a.log.Warn("command failed", zap.Int("action", int(cmd.Action)), zap.Error(err))
			}
		}

		a.table.Advance(dt)

		if err := a.render(); err != nil {
			return fmt.Errorf("render error: %w", err)
		}
		a.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			if a.cfg.Window.ShowFPS {
				a.window.SetTitle(fmt.Sprintf("dicetray  %d fps", frameCount))
			}
			a.log.Debug("fps", zap.Int("count", frameCount), zap.Float64("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if a.frameTime > 0 {
			if spare := a.frameTime - time.Since(now); spare > 0 {
				time.Sleep(spare)
			}
		}
	}

	return nil
}

// Close releases the renderer and window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

func (a *App) handleEvent(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		a.resize()
	case input.EventMouseMove:
		if e.Buttons&1 != 0 {
			a.camera.HandleDrag(float32(e.RelX), float32(e.RelY))
			a.fitBounds()
		}
	case input.EventMouseWheel:
		a.camera.HandleZoom(float32(e.Wheel))
		a.fitBounds()
	}
}

func (a *App) resize() {
	w, h := a.window.DrawableSize()
	a.renderer.Resize(w, h)
	a.camera.SetAspect(w, h)
	a.fitBounds()
}

// fitBounds moves the walls to the visible ground when configured to.
func (a *App) fitBounds() {
	if !a.cfg.Physics.FitBounds {
		return
	}
	b := a.camera.PlayBounds(boundsMargin, boundsMin)
	a.table.SetBounds(b.HalfX, b.HalfZ)
}

func (a *App) apply(cmd input.Command) error {
	switch cmd.Action {
	case input.ActionQuit:
		a.running = false
	case input.ActionThrow:
		if _, err := a.table.Throw(); err != nil {
			return err
		}
		a.window.SetTitle("dicetray  rolling...")
	case input.ActionAdd:
		if _, err := a.table.Add(cmd.Die); err != nil {
			return err
		}
		a.showPool()
	case input.ActionRemove:
		a.table.RemoveNewest(cmd.Die)
		a.showPool()
	case input.ActionClear:
		a.table.Registry().Clear()
		a.showPool()
	case input.ActionPreset:
		p, err := a.table.LoadPreset(cmd.Preset)
		if err != nil {
			return err
		}
		a.window.SetTitle("dicetray  " + p.Name)
	case input.ActionSavePreset:
		return a.savePreset()
	case input.ActionScreenshot:
		pixels, w, h := a.renderer.ReadPixels()
		path, err := a.shots.CaptureFromPixels(pixels, w, h)
		if err != nil {
			return err
		}
		a.log.Info("screenshot saved", zap.String("path", path))
	case input.ActionToggleDebug:
		a.showDebug = !a.showDebug
	}
	return nil
}

// savePreset stores the current pool as a user preset named after it and
// writes the config.
func (a *App) savePreset() error {
	pool := a.table.Pool()
	if len(pool) == 0 {
		return tray.ErrNothingToThrow
	}
	name := dice.DescribePool(pool)
	a.cfg.SavePreset(name, pool)
	if err := a.cfg.Save(); err != nil {
		return fmt.Errorf("saving preset: %w", err)
	}
	a.log.Info("preset saved", zap.String("name", name))
	return nil
}

func (a *App) showPool() {
	a.window.SetTitle("dicetray  " + dice.DescribePool(a.table.Pool()))
}

func (a *App) onSettled(results []tray.Result) {
	a.window.SetTitle("dicetray  " + FormatResults(results))
}

func (a *App) render() error {
	insts := a.table.Registry().Instances()
	if err := a.renderer.Draw(a.camera, insts); err != nil {
		return err
	}
	if a.showDebug {
		hx, hz := a.table.World().Bounds()
		a.renderer.DrawLines(a.camera, debug.TrayWireframe(hx, hz, a.table.World().Config().Ceiling), wallColor)
		for _, inst := range insts {
			p := inst.Body.Position()
			pose := mgl64.Translate3D(p[0], p[1], p[2]).Mul4(inst.Body.Orientation().Mat4())
			a.renderer.DrawLines(a.camera, debug.HullWireframe(inst.Shape, pose), hullColor)
		}
	}
	return nil
}
