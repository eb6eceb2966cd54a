// Package viewer hosts a voxscene Engine in an ebiten window.
//
// Frames are rendered by a render.Backend into a PixmapTarget and copied to
// the window each tick. The viewer owns the camera: W, A, S and D move it,
// dragging with the left mouse button turns it. F1 toggles the debug cubes,
// F2 the camera drift and F3 the text overlay. Escape quits. The keys of
// InspectInput select one entity and edit it in place.
package viewer

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/voxscene"
	"github.com/gogpu/voxscene/ecs"
	"github.com/gogpu/voxscene/render"
)

// Config describes the window and backend.
type Config struct {
	Width, Height int
	Title         string
	// Backend is a name registered with render.Register. Empty selects
	// "software".
	Backend string
	// Drift starts the camera drifting.
	Drift bool
}

// InitFunc runs once after the engine is created.
type InitFunc func(e *voxscene.Engine) error

// FrameFunc runs every tick before the frame is drawn. ms is the wall
// clock in milliseconds since the viewer started.
type FrameFunc func(e *voxscene.Engine, ms float64)

// Input is the user input of one tick.
type Input struct {
	Move        voxscene.CameraInput
	LookDX      float32
	LookDY      float32
	ToggleCube  bool
	ToggleDrift bool
	ToggleText  bool
	Quit        bool
	Inspect     InspectInput
}

// Viewer implements ebiten.Game.
type Viewer struct {
	cfg     Config
	engine  *voxscene.Engine
	backend render.Backend
	target  *render.PixmapTarget
	frame   FrameFunc

	Camera   voxscene.Camera
	drift    bool
	overlay  bool
	selected ecs.EntityID

	start    time.Time
	last     time.Time
	mouseX   int
	mouseY   int
	dragging bool
	stats    voxscene.FrameStats
}

// New opens the backend, creates the engine and runs init.
func New(cfg Config, setup InitFunc, frame FrameFunc, opts ...voxscene.Option) (*Viewer, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("viewer: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Backend == "" {
		cfg.Backend = "software"
	}
	if cfg.Title == "" {
		cfg.Title = "voxscene"
	}

	target := render.NewPixmapTarget(cfg.Width, cfg.Height)
	backend, err := render.Open(cfg.Backend, target)
	if err != nil {
		return nil, err
	}
	engine, err := voxscene.New(backend, opts...)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}
	v := &Viewer{
		cfg:     cfg,
		engine:  engine,
		backend: backend,
		target:  target,
		frame:   frame,
		Camera:  voxscene.NewCamera(),
		drift:   cfg.Drift,
		overlay: true,
		start:   time.Now(),
	}
	v.last = v.start
	if setup != nil {
		if err := setup(engine); err != nil {
			v.Close()
			return nil, fmt.Errorf("viewer: init: %w", err)
		}
	}
	return v, nil
}

// Engine returns the hosted engine.
func (v *Viewer) Engine() *voxscene.Engine { return v.engine }

// Target returns the pixmap frames are rendered into.
func (v *Viewer) Target() *render.PixmapTarget { return v.target }

// Stats returns the counters of the last frame.
func (v *Viewer) Stats() voxscene.FrameStats { return v.stats }

// Run opens the window and blocks until it is closed.
func (v *Viewer) Run() error {
	ebiten.SetWindowSize(v.cfg.Width, v.cfg.Height)
	ebiten.SetWindowTitle(v.cfg.Title)
	err := ebiten.RunGame(v)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Close releases the engine and the backend.
func (v *Viewer) Close() {
	_ = v.engine.Close()
	_ = v.backend.Close()
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	now := time.Now()
	dt := float32(now.Sub(v.last).Seconds() * 60)
	v.last = now
	return v.Step(v.readInput(), dt, float64(now.Sub(v.start).Milliseconds()))
}

// Step advances the viewer by one tick: it applies input, runs the frame
// callback and renders a frame. dt is in units of a 60 Hz frame.
func (v *Viewer) Step(in Input, dt float32, ms float64) error {
	if in.Quit {
		return ebiten.Termination
	}
	if in.ToggleCube {
		v.engine.SetDebugCubes(!v.engine.DebugCubes())
	}
	if in.ToggleDrift {
		v.drift = !v.drift
	}
	if in.ToggleText {
		v.overlay = !v.overlay
	}

	v.inspect(in.Inspect, dt)

	v.Camera.Move(in.Move, dt)
	v.Camera.Look(in.LookDX, in.LookDY)
	if v.drift {
		v.Camera.Drift(dt)
	}
	if v.frame != nil {
		v.frame(v.engine, ms)
	}

	stats, err := v.engine.RunFrame(voxscene.FrameContext{
		Camera: v.Camera,
		Aspect: float32(v.cfg.Width) / float32(v.cfg.Height),
		Dt:     dt,
	})
	if err != nil {
		return err
	}
	v.stats = stats
	return nil
}

func (v *Viewer) readInput() Input {
	in := Input{
		Move: voxscene.CameraInput{
			Forward: ebiten.IsKeyPressed(ebiten.KeyW),
			Back:    ebiten.IsKeyPressed(ebiten.KeyS),
			Left:    ebiten.IsKeyPressed(ebiten.KeyA),
			Right:   ebiten.IsKeyPressed(ebiten.KeyD),
		},
		ToggleCube:  inpututil.IsKeyJustPressed(ebiten.KeyF1),
		ToggleDrift: inpututil.IsKeyJustPressed(ebiten.KeyF2),
		ToggleText:  inpututil.IsKeyJustPressed(ebiten.KeyF3),
		Quit:        inpututil.IsKeyJustPressed(ebiten.KeyEscape),
		Inspect:     readInspect(),
	}

	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if v.dragging {
			in.LookDX = float32(x - v.mouseX)
			in.LookDY = float32(y - v.mouseY)
		}
		v.dragging = true
	} else {
		v.dragging = false
	}
	v.mouseX, v.mouseY = x, y
	return in
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.WritePixels(v.target.Pixels())
	if !v.overlay {
		return
	}
	c := v.Camera
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"TPS %.0f  FPS %.0f\ncamera (%.2f, %.2f, %.2f) pitch %.1f yaw %.1f\n"+
			"cubes %d  meshes %d  volumes %d  skipped %d\n%s\n"+
			"WASD move, drag to look, F1 cubes, F2 drift, F3 text\n"+
			"Tab select, T/M/V flags, R/B/C fill, arrows PgUp/PgDn move, Q/E turn",
		ebiten.ActualTPS(), ebiten.ActualFPS(),
		c.Position[0], c.Position[1], c.Position[2], c.Pitch, c.Yaw,
		v.stats.DebugCubes, v.stats.Meshes, v.stats.Volumes,
		v.stats.SkippedMeshes+v.stats.SkippedVolumes, v.inspectText(),
	))
}

// Layout implements ebiten.Game.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Width, v.cfg.Height
}

var _ ebiten.Game = (*Viewer)(nil)
