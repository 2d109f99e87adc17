// Package server exposes single frame renders over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"sync"

	"netherbox/internal/logger"
	"netherbox/pkg/engine"

	"github.com/labstack/echo/v4"
	"github.com/nfnt/resize"
)

// Options configures the server
type Options struct {
	Width     int
	Height    int
	MaxWidth  int
	MaxHeight int
	FOV       float32
	Workers   int
}

// Server renders frames on request. Renders are serialised so a single frame
// owns the worker pool at a time.
type Server struct {
	echo   *echo.Echo
	shader *engine.Shader
	camera *engine.Camera
	opts   Options
	log    *logger.Logger

	mu    sync.Mutex
	last  *engine.FrameStats
	count int
}

// New creates a server for the scene behind shader, viewed from cam
func New(shader *engine.Shader, cam *engine.Camera, opts Options, log *logger.Logger) *Server {
	s := &Server{
		echo:   echo.New(),
		shader: shader,
		camera: cam.Clone(),
		opts:   opts,
		log:    log.Module("server"),
	}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(corsMiddleware)

	s.echo.GET("/healthz", s.health)
	s.echo.GET("/render.png", s.render)
	s.echo.GET("/stats", s.stats)
	return s
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown
func (s *Server) Start(addr string) error {
	s.log.Infof("Serving renders on %s", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %v", err)
	}
	return nil
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func corsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("Access-Control-Allow-Origin", "*")
		c.Response().Header().Set("Access-Control-Allow-Methods", "GET")
		c.Response().Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}

		return next(c)
	}
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"objects": len(s.shader.Scene().Primitives),
		"lights":  len(s.shader.Scene().Lights),
	})
}

// renderRequest holds the parsed query of /render.png
type renderRequest struct {
	width, height int
	yaw, pitch    float32
	zoom          float32
	thumb         uint
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": msg})
}

func (s *Server) parseRequest(c echo.Context) (renderRequest, error) {
	req := renderRequest{width: s.opts.Width, height: s.opts.Height}

	ints := []struct {
		name string
		dst  *int
		max  int
	}{
		{"width", &req.width, s.opts.MaxWidth},
		{"height", &req.height, s.opts.MaxHeight},
	}
	for _, p := range ints {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return req, fmt.Errorf("invalid %s '%s'", p.name, raw)
		}
		if p.max > 0 && n > p.max {
			return req, fmt.Errorf("%s %d exceeds the limit of %d", p.name, n, p.max)
		}
		*p.dst = n
	}

	floats := []struct {
		name string
		dst  *float32
	}{
		{"yaw", &req.yaw},
		{"pitch", &req.pitch},
		{"zoom", &req.zoom},
	}
	for _, p := range floats {
		raw := c.QueryParam(p.name)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return req, fmt.Errorf("invalid %s '%s'", p.name, raw)
		}
		*p.dst = float32(f)
	}

	if raw := c.QueryParam("thumb"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || n == 0 {
			return req, fmt.Errorf("invalid thumb '%s'", raw)
		}
		req.thumb = uint(n)
	}
	return req, nil
}

func (s *Server) render(c echo.Context) error {
	req, err := s.parseRequest(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	// every request orbits a fresh copy of the base camera
	cam := s.camera.Clone()
	if req.yaw != 0 || req.pitch != 0 {
		cam.Orbit(req.yaw, req.pitch)
	}
	if req.zoom != 0 {
		cam.Zoom(req.zoom)
	}

	s.mu.Lock()
	rc := engine.NewRenderConfig(req.width, req.height, s.opts.FOV)
	fb := engine.NewFramebuffer(req.width, req.height)
	stats := engine.NewRenderer(s.shader, rc, s.opts.Workers, s.log).Render(cam, fb)
	s.last = &stats
	s.count++
	s.mu.Unlock()

	var buf bytes.Buffer
	if req.thumb > 0 {
		thumb := resize.Thumbnail(req.thumb, req.thumb, fb.Image(), resize.Lanczos3)
		err = png.Encode(&buf, thumb)
	} else {
		err = fb.EncodePNG(&buf)
	}
	if err != nil {
		s.log.Errorf("Failed to encode frame: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to encode frame"})
	}

	s.log.Debugf("Rendered %dx%d in %v", req.width, req.height, stats.Duration)
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// bandJSON is one scheduler band in the stats response
type bandJSON struct {
	Start      int            `json:"start"`
	End        int            `json:"end"`
	DurationMS float64        `json:"duration_ms"`
	Rays       engine.RayStats `json:"rays"`
}

// statsJSON is the body of /stats
type statsJSON struct {
	Frames        int             `json:"frames"`
	Width         int             `json:"width"`
	Height        int             `json:"height"`
	DurationMS    float64         `json:"duration_ms"`
	MedianBandMS  float64         `json:"median_band_ms"`
	RaysPerSecond float64         `json:"rays_per_second"`
	Rays          engine.RayStats `json:"rays"`
	Bands         []bandJSON      `json:"bands"`
}

func (s *Server) stats(c echo.Context) error {
	s.mu.Lock()
	last, count := s.last, s.count
	s.mu.Unlock()

	if last == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "no frame rendered yet"})
	}

	out := statsJSON{
		Frames:        count,
		Width:         last.Width,
		Height:        last.Height,
		DurationMS:    float64(last.Duration.Microseconds()) / 1000,
		MedianBandMS:  float64(last.MedianBandTime().Microseconds()) / 1000,
		RaysPerSecond: last.RaysPerSecond(),
		Rays:          last.Rays,
	}
	for _, b := range last.Bands {
		out.Bands = append(out.Bands, bandJSON{
			Start:      b.Band.Start,
			End:        b.Band.End,
			DurationMS: float64(b.Duration.Microseconds()) / 1000,
			Rays:       b.Rays,
		})
	}
	return c.JSON(http.StatusOK, out)
}
