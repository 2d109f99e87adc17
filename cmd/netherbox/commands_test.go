package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"netherbox/pkg/config"

	"github.com/urfave/cli"
)

// renderContext builds the context the render command sees for args, under
// global flags pointing at configPath
func renderContext(t *testing.T, configPath string, args ...string) *cli.Context {
	t.Helper()
	global := flag.NewFlagSet("netherbox", flag.ContinueOnError)
	global.String("config", configPath, "")
	global.String("log-level", "error", "")
	global.String("log-file", "", "")

	set := flag.NewFlagSet("render", flag.ContinueOnError)
	set.Int("width", 0, "")
	set.Int("height", 0, "")
	set.Int("threads", -1, "")
	set.String("scene", "", "")
	set.String("preset", "", "")
	set.Int64("seed", 0, "")
	set.String("out", "", "")
	if err := set.Parse(args); err != nil {
		t.Fatal(err)
	}
	return cli.NewContext(nil, set, cli.NewContext(nil, global, nil))
}

func TestOutputName(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "cave.txt")
	if err := os.WriteFile(sceneFile, []byte("0 0 0 1 obsidian\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		args   []string
		file   string
		preset string
		want   string
	}{
		{"flag wins", []string{"-out", "shot.png"}, sceneFile, "terrain", "shot.png"},
		{"scene file", nil, sceneFile, "nether", "cave.png"},
		{"preset", nil, "", "terrain", "terrain.png"},
		{"missing scene file falls to preset", nil, filepath.Join(dir, "gone.txt"), "nether", "nether.png"},
		{"nothing", nil, "", "", "frame.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Scene.File = tt.file
			cfg.Scene.Preset = tt.preset
			if got := outputName(renderContext(t, "", tt.args...), cfg); got != tt.want {
				t.Errorf("outputName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSetup_MissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, log, err := setup(renderContext(t, path, "-width", "320"))
	if err != nil {
		t.Fatalf("missing config should fall back to defaults: %v", err)
	}
	log.Close()
	if cfg.Raytracer.Width != 320 {
		t.Errorf("width = %d, want the flag value 320", cfg.Raytracer.Width)
	}

	t.Setenv(config.EnvWidth, "abc")
	if _, _, err := setup(renderContext(t, path)); err == nil {
		t.Errorf("invalid %s was ignored", config.EnvWidth)
	}
}

func TestSceneFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("0 0 0 1 obsidian\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	empty := t.TempDir()

	files, err := sceneFiles([]string{dir, "extra.txt"}, "scene.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt"), "extra.txt"}
	if len(files) != len(want) {
		t.Fatalf("files = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}

	if files, _ := sceneFiles(nil, "scene.txt"); len(files) != 1 || files[0] != "scene.txt" {
		t.Errorf("fallback = %v", files)
	}
	if _, err := sceneFiles([]string{empty}, ""); err == nil {
		t.Error("expected an error for a directory without scene files")
	}
}
