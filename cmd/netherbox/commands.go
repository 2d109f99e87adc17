package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"netherbox/internal/logger"
	"netherbox/internal/util"
	"netherbox/pkg/config"
	"netherbox/pkg/engine"
	"netherbox/pkg/scene"
	"netherbox/pkg/server"
	"netherbox/pkg/texture"
	"netherbox/pkg/viewer"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// setup loads the configuration, applies command line overrides and creates
// the logger
func setup(ctx *cli.Context) (*config.Config, *logger.Logger, error) {
	cfg, cfgErr := config.Load(ctx.GlobalString("config"))
	if cfg == nil {
		return nil, nil, cfgErr
	}

	if lvl := ctx.GlobalString("log-level"); lvl != "" {
		cfg.Log.Level = lvl
	}
	if file := ctx.GlobalString("log-file"); file != "" {
		cfg.Log.File = file
	}

	var log *logger.Logger
	if cfg.Log.File != "" {
		var err error
		if log, err = logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File); err != nil {
			return nil, nil, err
		}
	} else {
		log = logger.NewLogger(cfg.Log.Level)
	}

	if cfgErr != nil {
		if !errors.Is(cfgErr, config.ErrNotFound) {
			log.Close()
			return nil, nil, cfgErr
		}
		log.Warnf("%v", cfgErr)
	}

	if w := ctx.Int("width"); w > 0 {
		cfg.Raytracer.Width = w
	}
	if h := ctx.Int("height"); h > 0 {
		cfg.Raytracer.Height = h
	}
	if t := ctx.Int("threads"); t >= 0 && ctx.IsSet("threads") {
		cfg.Raytracer.NumThreads = t
	}
	if s := ctx.String("scene"); s != "" {
		cfg.Scene.File = s
	}
	if p := ctx.String("preset"); p != "" {
		cfg.Scene.Preset = p
		if !ctx.IsSet("scene") {
			cfg.Scene.File = ""
		}
	}
	if seed := ctx.Int64("seed"); seed != 0 {
		cfg.Scene.Terrain.Seed = seed
	}

	return cfg, log, cfg.Validate()
}

// loadPresets returns the built-in palette layered with the materials file
func loadPresets(cfg *config.Config, log *logger.Logger) scene.Presets {
	presets := scene.NetherPresets()
	if cfg.Scene.Materials == "" {
		return presets
	}
	merged, err := scene.LoadPresets(cfg.Scene.Materials, presets)
	if err != nil {
		log.Warnf("Ignoring materials file: %v", err)
		return presets
	}
	log.Infof("Loaded materials from %s", cfg.Scene.Materials)
	return merged
}

// buildPrimitives returns the scene selected by the configuration
func buildPrimitives(cfg *config.Config, presets scene.Presets, log *logger.Logger) []engine.Primitive {
	if cfg.Scene.File != "" && util.FileExists(cfg.Scene.File) {
		return scene.LoadOrDefault(cfg.Scene.File, presets, log)
	}

	switch cfg.Scene.Preset {
	case "terrain":
		tc := cfg.Scene.Terrain
		params := scene.DefaultTerrainParams()
		params.Size = tc.Size
		params.BlockSize = tc.BlockSize
		params.MaxHeight = tc.MaxHeight
		params.Octaves = tc.Octaves
		params.Scale = tc.Scale
		params.Seed = tc.Seed
		terrain := scene.NewTerrain(params)
		prims := terrain.Build(presets)
		log.Infof("Generated terrain with %d blocks (seed %d)", len(prims), terrain.Seed())
		return prims
	default:
		if cfg.Scene.File != "" {
			log.Warnf("Scene file %s not found, using default scene", cfg.Scene.File)
		}
		return scene.DefaultScene(presets)
	}
}

// textureSource picks the configured texture backend
func textureSource(cfg *config.Config) (texture.Source, error) {
	if cfg.Textures.Source == "s3" {
		s3cfg := cfg.Textures.S3
		return texture.NewS3Source(texture.S3Config{
			Bucket:    s3cfg.Bucket,
			Prefix:    s3cfg.Prefix,
			Region:    s3cfg.Region,
			Endpoint:  s3cfg.Endpoint,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
		})
	}
	return texture.NewFileSource(cfg.Textures.Dir), nil
}

// buildShader assembles the read-only scene, lights and textures
func buildShader(cfg *config.Config, log *logger.Logger) (*engine.Shader, error) {
	defer util.TimeTrack(time.Now(), "scene setup", log.Debugf)

	presets := loadPresets(cfg, log)
	prims := buildPrimitives(cfg, presets, log)
	lights := engine.SceneLights(cfg.SunLight(), prims, cfg.Raytracer.EmissiveLightScale)

	src, err := textureSource(cfg)
	if err != nil {
		return nil, err
	}
	store := texture.NewStore(src,
		texture.WithMaxSize(cfg.Textures.MaxSize),
		texture.WithSkyTexture(cfg.Sky.Texture),
		texture.WithLogger(log),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	n := store.Load(ctx, presets.Textures()...)
	log.Infof("Loaded %d textures from %s", n, src)

	sc := engine.NewScene(prims, lights)
	st := sc.BVH.Stats()
	log.Infof("Scene: %d objects, %d lights, BVH %d nodes, depth %d",
		len(prims), len(lights), st.Nodes, st.MaxDepth)

	return engine.NewShader(sc, cfg.ShadingParams(),
		engine.WithTextures(store),
		engine.WithNormalMaps(store),
		engine.WithSky(store),
		engine.WithGradient(cfg.Gradient()),
	), nil
}

// initialCamera builds the configured camera and applies orbit flags
func initialCamera(ctx *cli.Context, cfg *config.Config) *engine.Camera {
	cam := cfg.NewCamera()
	if yaw, pitch := ctx.Float64("yaw"), ctx.Float64("pitch"); yaw != 0 || pitch != 0 {
		cam.Orbit(float32(yaw), float32(pitch))
	}
	if zoom := ctx.Float64("zoom"); zoom != 0 {
		cam.Zoom(float32(zoom))
	}
	return cam
}

func renderFrame(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Close()

	shader, err := buildShader(cfg, log)
	if err != nil {
		return err
	}

	rc := cfg.RenderConfig()
	renderer := engine.NewRenderer(shader, rc, cfg.Raytracer.NumThreads, log)
	fb := engine.NewFramebuffer(rc.Width, rc.Height)

	log.Infof("Rendering %dx%d with %d bands", rc.Width, rc.Height, renderer.Workers())
	stats := renderer.Render(initialCamera(ctx, cfg), fb)

	out := outputName(ctx, cfg)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %v", out, err)
	}
	defer f.Close()
	if err := fb.EncodePNG(f); err != nil {
		return fmt.Errorf("failed to write %s: %v", out, err)
	}

	log.Infof("Wrote %s in %v (%.0f rays/s, median band %v)",
		out, stats.Duration, stats.RaysPerSecond(), stats.MedianBandTime())
	if ctx.Bool("stats") {
		stats.WriteTable(os.Stdout)
	}
	return nil
}

// outputName is the -out flag, or the scene name with a .png extension
func outputName(ctx *cli.Context, cfg *config.Config) string {
	if out := ctx.String("out"); out != "" {
		return out
	}
	switch {
	case cfg.Scene.File != "" && util.FileExists(cfg.Scene.File):
		return util.GetFileNameWithoutExt(cfg.Scene.File) + ".png"
	case cfg.Scene.Preset != "":
		return cfg.Scene.Preset + ".png"
	}
	return "frame.png"
}

func viewScene(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Close()

	shader, err := buildShader(cfg, log)
	if err != nil {
		return err
	}

	renderer := engine.NewRenderer(shader, cfg.RenderConfig(), cfg.Raytracer.NumThreads, log)
	v, err := viewer.New(renderer, initialCamera(ctx, cfg), viewer.Options{
		Title:     cfg.Graphics.Title,
		VSync:     cfg.Graphics.VSync,
		FrameRate: cfg.Graphics.FrameRate,
		Controls: viewer.Controls{
			OrbitSpeed: cfg.Camera.OrbitSpeed,
			ZoomSpeed:  cfg.Camera.ZoomSpeed,
		},
		SnapshotPath: ctx.String("snapshot"),
	}, log)
	if err != nil {
		return err
	}
	defer v.Close()

	log.Infof("Viewer ready with %d bands", renderer.Workers())
	v.Run()
	return nil
}

func serve(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Close()

	shader, err := buildShader(cfg, log)
	if err != nil {
		return err
	}

	srv := server.New(shader, initialCamera(ctx, cfg), server.Options{
		Width:     cfg.Raytracer.Width,
		Height:    cfg.Raytracer.Height,
		MaxWidth:  cfg.Server.MaxWidth,
		MaxHeight: cfg.Server.MaxHeight,
		FOV:       cfg.FOV(),
		Workers:   cfg.Raytracer.NumThreads,
	}, log)

	addr := cfg.Server.Address
	if a := ctx.String("addr"); a != "" {
		addr = a
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-sigCtx.Done():
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func describeScenes(ctx *cli.Context) error {
	cfg, log, err := setup(ctx)
	if err != nil {
		return err
	}
	defer log.Close()

	files, err := sceneFiles(ctx.Args(), cfg.Scene.File)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	presets := loadPresets(cfg, log)

	failed := 0
	for _, file := range files {
		prims, err := scene.Load(file, presets)
		if err != nil {
			log.Errorf("%s: %v", file, err)
			failed++
			continue
		}
		printSummary(file, scene.Summarize(prims))
	}
	if failed > 0 {
		return cli.NewExitError(fmt.Sprintf("%d of %d scene files are invalid", failed, len(files)), 1)
	}
	return nil
}

// sceneFiles expands directory arguments to the .txt files they contain
func sceneFiles(args []string, fallback string) ([]string, error) {
	if len(args) == 0 {
		args = []string{fallback}
	}
	var files []string
	for _, arg := range args {
		if !util.DirExists(arg) {
			files = append(files, arg)
			continue
		}
		found, err := util.ListFilesWithExt(arg, ".txt")
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %v", arg, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no scene files in %s", arg)
		}
		files = append(files, found...)
	}
	return files, nil
}

func printSummary(file string, s scene.Summary) {
	fmt.Printf("%s: %d objects, %d emissive, bounds %v - %v\n", file, s.Objects, s.Emissive, s.Bounds.Min, s.Bounds.Max)
	fmt.Printf("BVH: %d nodes, %d leaves, depth %d\n", s.BVH.Nodes, s.BVH.Leaves, s.BVH.MaxDepth)

	names := make([]string, 0, len(s.Materials))
	for name := range s.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Material", "Objects"})
	for _, name := range names {
		table.Append([]string{name, fmt.Sprintf("%d", s.Materials[name])})
	}
	table.Render()
}
