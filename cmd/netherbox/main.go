package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	app := cli.NewApp()
	app.Name = "netherbox"
	app.Usage = "ray trace scenes of nether cubes"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Value: "config.yaml",
			Usage: "path to the YAML configuration file",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "override the configured log level (debug, info, warn, error)",
		},
		cli.StringFlag{
			Name:  "log-file",
			Usage: "also write logs to this file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame to a PNG file",
			Description: `
Load the configured scene, trace one frame with the row-band scheduler and
write it as a PNG. Per-band ray statistics are printed when done.`,
			Flags: append(frameFlags(),
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename, defaults to the scene name with a .png extension",
				},
				cli.BoolFlag{
					Name:  "stats",
					Usage: "print the per-band statistics table",
				},
			),
			Action: renderFrame,
		},
		{
			Name:  "view",
			Usage: "open an interactive window",
			Flags: append(frameFlags(),
				cli.StringFlag{
					Name:  "snapshot",
					Value: "snapshot.png",
					Usage: "file written when P is pressed",
				},
			),
			Action: viewScene,
		},
		{
			Name:  "serve",
			Usage: "serve rendered frames over HTTP",
			Flags: append(frameFlags(),
				cli.StringFlag{
					Name:  "addr",
					Usage: "listen address, overrides server.address",
				},
			),
			Action: serve,
		},
		{
			Name:      "scene",
			Usage:     "validate scene files and print a summary",
			ArgsUsage: "scene_file.txt|scene_dir ...",
			Action:    describeScenes,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// frameFlags are shared by commands that render frames
func frameFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width, overrides raytracer.width",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height, overrides raytracer.height",
		},
		cli.IntFlag{
			Name:  "threads, t",
			Usage: "number of row bands, 0 for one per CPU",
			Value: -1,
		},
		cli.StringFlag{
			Name:  "scene, s",
			Usage: "scene file, overrides scene.file",
		},
		cli.StringFlag{
			Name:  "preset",
			Usage: "scene preset when no file is given (nether, terrain)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "terrain seed",
		},
		cli.Float64Flag{
			Name:  "yaw",
			Usage: "orbit the camera by this many radians around the vertical",
		},
		cli.Float64Flag{
			Name:  "pitch",
			Usage: "orbit the camera by this many radians upwards",
		},
		cli.Float64Flag{
			Name:  "zoom",
			Usage: "move the camera this far towards its target",
		},
	}
}
