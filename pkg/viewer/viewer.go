// Package viewer shows the ray traced scene in a window and lets the user
// orbit the camera.
package viewer

import (
	"fmt"
	"os"
	"time"

	"netherbox/internal/logger"
	"netherbox/internal/util"
	"netherbox/pkg/engine"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Options configures the window
type Options struct {
	Title     string
	VSync     bool
	FrameRate int // 0 renders as fast as possible
	Controls  Controls
	// SnapshotPath is where P writes the current frame
	SnapshotPath string
}

// Viewer owns the window and renders a frame per loop iteration
type Viewer struct {
	window   *glfw.Window
	opts     Options
	log      *logger.Logger
	renderer *engine.Renderer
	camera   *engine.Camera
	fb       *engine.Framebuffer
	input    *InputHandler
	blit     *blitter
	fps      *util.FPSCounter
}

// New creates the window sized to the renderer's resolution. It must be
// called from the main OS thread.
func New(renderer *engine.Renderer, cam *engine.Camera, opts Options, log *logger.Logger) (*Viewer, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	rc := renderer.Config()
	window, err := glfw.CreateWindow(rc.Width, rc.Height, opts.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %v", err)
	}
	window.MakeContextCurrent()
	if opts.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	blit, err := newBlitter(rc.Width, rc.Height)
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}

	v := &Viewer{
		window:   window,
		opts:     opts,
		log:      log.Module("viewer"),
		renderer: renderer,
		camera:   cam,
		fb:       engine.NewFramebuffer(rc.Width, rc.Height),
		input:    NewInputHandler(window),
		blit:     blit,
	}
	window.SetScrollCallback(func(_ *glfw.Window, _, yoffset float64) {
		v.input.Scroll(yoffset)
	})

	return v, nil
}

// Run renders until the window closes or Escape is pressed
func (v *Viewer) Run() {
	v.log.Info("Controls: arrows orbit, W/S zoom, P snapshot, Esc quit")
	v.fps = util.NewFPSCounter(2*time.Second, time.Now())

	for !v.window.ShouldClose() {
		frameStart := time.Now()

		// camera changes only between frames
		v.input.Update()
		act := v.opts.Controls.Apply(v.input, v.camera)
		if act.Quit {
			break
		}

		stats := v.renderer.Render(v.camera, v.fb)

		w, h := v.window.GetFramebufferSize()
		v.blit.draw(v.fb.Image(), w, h)
		v.window.SwapBuffers()
		glfw.PollEvents()

		if act.SaveFrame {
			v.snapshot()
		}
		if fps, ok := v.fps.Tick(time.Now()); ok {
			v.log.Infof("FPS: %.1f (%d rays, %.0f rays/s)", fps, stats.Rays.Total(), stats.RaysPerSecond())
		}

		if v.opts.FrameRate > 0 {
			frameTime := time.Since(frameStart)
			target := time.Second / time.Duration(v.opts.FrameRate)
			if frameTime < target {
				time.Sleep(target - frameTime)
			}
		}
	}
}

func (v *Viewer) snapshot() {
	path := v.opts.SnapshotPath
	if path == "" {
		path = "snapshot.png"
	}
	f, err := os.Create(path)
	if err != nil {
		v.log.Errorf("Failed to save snapshot: %v", err)
		return
	}
	defer f.Close()
	if err := v.fb.EncodePNG(f); err != nil {
		v.log.Errorf("Failed to encode snapshot: %v", err)
		return
	}
	v.log.Infof("Saved frame to %s", path)
}

// Close releases GL objects and the window
func (v *Viewer) Close() {
	v.log.Info("Shutting down viewer...")
	v.blit.close()
	v.window.Destroy()
	glfw.Terminate()
}
