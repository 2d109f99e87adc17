package engine

import (
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/shirou/gopsutil/cpu"

	"netherbox/internal/logger"
)

// defaultWorkers is used when the CPU count cannot be determined
const defaultWorkers = 4

// RenderConfig holds the per-pixel ray generation constants of a frame
type RenderConfig struct {
	Width            int
	Height           int
	AspectRatio      float32
	PerspectiveScale float32
	InvWidth         float32
	InvHeight        float32
}

// NewRenderConfig derives the ray generation constants for an image size
// and vertical field of view in radians.
func NewRenderConfig(width, height int, fov float32) RenderConfig {
	w, h := float32(width), float32(height)
	return RenderConfig{
		Width:            width,
		Height:           height,
		AspectRatio:      w / h,
		PerspectiveScale: math32.Tan(fov * 0.5),
		InvWidth:         1 / w,
		InvHeight:        1 / h,
	}
}

// PrimaryDirection returns the normalised camera-space direction through
// pixel (x, y). The camera looks down -z.
func (rc RenderConfig) PrimaryDirection(x, y int) Vec3 {
	sx := (2*float32(x)*rc.InvWidth - 1) * rc.AspectRatio * rc.PerspectiveScale
	sy := (1 - 2*float32(y)*rc.InvHeight) * rc.PerspectiveScale
	return Vec3{sx, sy, -1}.Normalize()
}

// Parallelism returns the number of logical CPUs, or 4 if unknown
func Parallelism() int {
	n, err := cpu.Counts(true)
	if err != nil || n <= 0 {
		return defaultWorkers
	}
	return n
}

// Band is a half-open range of image rows
type Band struct {
	Start int
	End   int
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.End - b.Start
}

// Bands splits height rows into at most workers contiguous bands of
// ceil(height/workers) rows. Bands never overlap and cover every row once.
func Bands(height, workers int) []Band {
	if height <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	rows := (height + workers - 1) / workers

	bands := make([]Band, 0, workers)
	for i := 0; i < workers; i++ {
		start := i * rows
		if start >= height {
			break
		}
		end := start + rows
		if end > height {
			end = height
		}
		bands = append(bands, Band{Start: start, End: end})
	}
	return bands
}

// Renderer renders frames by splitting rows across goroutines
type Renderer struct {
	shader  *Shader
	config  RenderConfig
	workers int
	log     *logger.Logger
}

// NewRenderer creates a renderer. workers <= 0 selects Parallelism().
func NewRenderer(shader *Shader, config RenderConfig, workers int, log *logger.Logger) *Renderer {
	if workers <= 0 {
		workers = Parallelism()
	}
	return &Renderer{
		shader:  shader,
		config:  config,
		workers: workers,
		log:     log,
	}
}

// Config returns the ray generation constants
func (r *Renderer) Config() RenderConfig {
	return r.config
}

// Workers returns the number of bands a frame is split into
func (r *Renderer) Workers() int {
	return r.workers
}

type bandResult struct {
	band   Band
	pixels []Vec3
	stats  BandStats
}

// Render traces every pixel of the frame from cam into fb. Each band is
// traced by its own goroutine into a private buffer; after all workers
// finish the buffers are committed to fb in row order. cam must not be
// modified until Render returns.
func (r *Renderer) Render(cam *Camera, fb *Framebuffer) FrameStats {
	start := time.Now()
	bands := Bands(r.config.Height, r.workers)
	results := make([]bandResult, len(bands))

	var wg sync.WaitGroup
	for i, band := range bands {
		wg.Add(1)

		go func(i int, band Band) {
			defer wg.Done()
			results[i] = r.renderBand(cam, band)
		}(i, band)
	}
	wg.Wait()

	frame := FrameStats{
		Width:  r.config.Width,
		Height: r.config.Height,
		Bands:  make([]BandStats, 0, len(results)),
	}
	for _, res := range results {
		fb.WriteBand(res.band.Start, res.pixels)
		frame.Bands = append(frame.Bands, res.stats)
		frame.Rays.Add(res.stats.Rays)
	}
	frame.Duration = time.Since(start)

	if r.log != nil {
		r.log.Debugf("frame %dx%d in %s over %d bands, %d rays",
			frame.Width, frame.Height, frame.Duration, len(bands), frame.Rays.Total())
	}
	return frame
}

func (r *Renderer) renderBand(cam *Camera, band Band) bandResult {
	start := time.Now()
	width := r.config.Width
	pixels := make([]Vec3, 0, band.Rows()*width)
	var stats RayStats

	for y := band.Start; y < band.End; y++ {
		for x := 0; x < width; x++ {
			dir := cam.BasisChange(r.config.PrimaryDirection(x, y))
			pixels = append(pixels, r.shader.Trace(cam.Eye, dir, &stats))
		}
	}

	return bandResult{
		band:   band,
		pixels: pixels,
		stats: BandStats{
			Band:     band,
			Rays:     stats,
			Duration: time.Since(start),
		},
	}
}
