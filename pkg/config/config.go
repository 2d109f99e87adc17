package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v2"
)

// ErrNotFound is wrapped by the error LoadConfig returns alongside the
// defaults when the file does not exist
var ErrNotFound = errors.New("config file not found")

// Config represents the main configuration
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Raytracer RaytracerConfig `yaml:"raytracer"`
	Camera    CameraConfig    `yaml:"camera"`
	Sun       LightConfig     `yaml:"sun"`
	Sky       SkyConfig       `yaml:"sky"`
	Scene     SceneConfig     `yaml:"scene"`
	Textures  TextureConfig   `yaml:"textures"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// Vec3 is a YAML friendly three component vector
type Vec3 [3]float32

// GraphicsConfig contains window-related configuration
type GraphicsConfig struct {
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	Title     string `yaml:"title"`
	VSync     bool   `yaml:"vsync"`
	FrameRate int    `yaml:"framerate"`
}

// RaytracerConfig contains raytracer configuration
type RaytracerConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	FOVDegrees float32 `yaml:"fov_degrees"`
	// NumThreads of 0 uses one band per logical CPU
	NumThreads         int     `yaml:"num_threads"`
	MaxDepth           int     `yaml:"max_depth"`
	ShadowAttenuation  float32 `yaml:"shadow_attenuation"`
	OriginBias         float32 `yaml:"origin_bias"`
	EmissiveLightScale float32 `yaml:"emissive_light_scale"`
}

// CameraConfig contains the initial camera and its controller speeds
type CameraConfig struct {
	Eye        Vec3    `yaml:"eye"`
	Center     Vec3    `yaml:"center"`
	Up         Vec3    `yaml:"up"`
	OrbitSpeed float32 `yaml:"orbit_speed"`
	ZoomSpeed  float32 `yaml:"zoom_speed"`
}

// LightConfig describes a point light
type LightConfig struct {
	Position  Vec3    `yaml:"position"`
	Color     Vec3    `yaml:"color"`
	Intensity float32 `yaml:"intensity"`
}

// SkyConfig contains the procedural gradient and optional sky texture
type SkyConfig struct {
	Low     Vec3    `yaml:"low"`
	Mid     Vec3    `yaml:"mid"`
	High    Vec3    `yaml:"high"`
	LowStop float32 `yaml:"low_stop"`
	MidStop float32 `yaml:"mid_stop"`
	Texture string  `yaml:"texture"`
}

// SceneConfig selects the scene to render
type SceneConfig struct {
	// File is a text scene. When empty or unreadable the preset is used.
	File string `yaml:"file"`
	// Preset is "nether" or "terrain"
	Preset    string        `yaml:"preset"`
	Materials string        `yaml:"materials"`
	Terrain   TerrainConfig `yaml:"terrain"`
}

// TerrainConfig contains procedural terrain configuration
type TerrainConfig struct {
	Size      int     `yaml:"size"`
	BlockSize float32 `yaml:"block_size"`
	MaxHeight int     `yaml:"max_height"`
	Octaves   int     `yaml:"octaves"`
	Scale     float64 `yaml:"scale"`
	Seed      int64   `yaml:"seed"` // Optional: 0 means random
}

// TextureConfig says where texture assets come from
type TextureConfig struct {
	// Source is "file" or "s3"
	Source  string   `yaml:"source"`
	Dir     string   `yaml:"dir"`
	MaxSize uint     `yaml:"max_size"`
	S3      S3Config `yaml:"s3"`
}

// S3Config contains the object storage texture source settings
type S3Config struct {
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// ServerConfig contains the preview server configuration
type ServerConfig struct {
	Address   string `yaml:"address"`
	MaxWidth  int    `yaml:"max_width"`
	MaxHeight int    `yaml:"max_height"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:     1300,
			Height:    900,
			Title:     "netherbox",
			VSync:     true,
			FrameRate: 0,
		},
		Raytracer: RaytracerConfig{
			Width:              1300,
			Height:             900,
			FOVDegrees:         60,
			NumThreads:         0,
			MaxDepth:           2,
			ShadowAttenuation:  0.7,
			OriginBias:         1e-4,
			EmissiveLightScale: 2,
		},
		Camera: CameraConfig{
			Eye:        Vec3{0, 2, 8},
			Center:     Vec3{0, 0, 0},
			Up:         Vec3{0, 1, 0},
			OrbitSpeed: math.Pi / 100,
			ZoomSpeed:  0.1,
		},
		Sun: LightConfig{
			Position:  Vec3{5, 8, 5},
			Color:     Vec3{1, 0.7, 0.5},
			Intensity: 1.3,
		},
		Sky: SkyConfig{
			Low:     Vec3{0.2, 0.05, 0.05},
			Mid:     Vec3{0.4, 0.08, 0.1},
			High:    Vec3{0.3, 0.1, 0.05},
			LowStop: 0.3,
			MidStop: 0.6,
			Texture: "nether_skybox.png",
		},
		Scene: SceneConfig{
			File:   "scene.txt",
			Preset: "nether",
			Terrain: TerrainConfig{
				Size:      16,
				BlockSize: 1,
				MaxHeight: 4,
				Octaves:   4,
				Scale:     0.15,
				Seed:      0,
			},
		},
		Textures: TextureConfig{
			Source:  "file",
			Dir:     "assets",
			MaxSize: 512,
			S3: S3Config{
				Region: "us-east-1",
			},
		},
		Server: ServerConfig{
			Address:   ":8080",
			MaxWidth:  1920,
			MaxHeight: 1080,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads the configuration from a file
func LoadConfig(filePath string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return config, fmt.Errorf("%w, using defaults: %v", ErrNotFound, err)
	}
	if err != nil {
		return config, fmt.Errorf("error reading config: %v", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("error parsing config: %v", err)
	}

	if err := config.Validate(); err != nil {
		return config, err
	}

	return config, nil
}

// SaveConfig saves the configuration to a file
func SaveConfig(config *Config, filePath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("error serializing config: %v", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %v", err)
	}

	return nil
}

// Validate checks values the renderer cannot work with
func (c *Config) Validate() error {
	rt := c.Raytracer
	if rt.Width <= 0 || rt.Height <= 0 {
		return fmt.Errorf("invalid raytracer resolution %dx%d", rt.Width, rt.Height)
	}
	if rt.FOVDegrees <= 0 || rt.FOVDegrees >= 180 {
		return fmt.Errorf("invalid field of view %v", rt.FOVDegrees)
	}
	if rt.MaxDepth < 0 {
		return fmt.Errorf("invalid max depth %d", rt.MaxDepth)
	}
	if rt.NumThreads < 0 {
		return fmt.Errorf("invalid thread count %d", rt.NumThreads)
	}
	if rt.ShadowAttenuation < 0 || rt.ShadowAttenuation > 1 {
		return fmt.Errorf("shadow attenuation %v outside [0,1]", rt.ShadowAttenuation)
	}
	if c.Sky.LowStop < 0 || c.Sky.LowStop >= c.Sky.MidStop || c.Sky.MidStop >= 1 {
		return fmt.Errorf("sky stops %v, %v must satisfy 0 <= low < mid < 1", c.Sky.LowStop, c.Sky.MidStop)
	}
	switch c.Textures.Source {
	case "file", "s3":
	default:
		return fmt.Errorf("unknown texture source %q", c.Textures.Source)
	}
	if c.Textures.Source == "s3" && c.Textures.S3.Bucket == "" {
		return fmt.Errorf("texture source s3 requires a bucket")
	}
	return nil
}
