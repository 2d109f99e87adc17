package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment keys that override values from the YAML file.
const (
	EnvWidth       = "NETHERBOX_WIDTH"
	EnvHeight      = "NETHERBOX_HEIGHT"
	EnvThreads     = "NETHERBOX_THREADS"
	EnvMaxDepth    = "NETHERBOX_MAX_DEPTH"
	EnvSceneFile   = "NETHERBOX_SCENE"
	EnvTextureDir  = "NETHERBOX_TEXTURE_DIR"
	EnvS3Bucket    = "NETHERBOX_S3_BUCKET"
	EnvS3Prefix    = "NETHERBOX_S3_PREFIX"
	EnvS3Region    = "NETHERBOX_S3_REGION"
	EnvS3Endpoint  = "NETHERBOX_S3_ENDPOINT"
	EnvS3AccessKey = "NETHERBOX_S3_ACCESS_KEY"
	EnvS3SecretKey = "NETHERBOX_S3_SECRET_KEY"
	EnvServerAddr  = "NETHERBOX_SERVER_ADDRESS"
	EnvLogLevel    = "NETHERBOX_LOG_LEVEL"
	EnvLogFile     = "NETHERBOX_LOG_FILE"
)

// LoadEnvFile reads a .env file sitting next to the config file into the
// process environment. A missing file is not an error.
func LoadEnvFile(configPath string) error {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if _, err := os.Stat(envPath); err != nil {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("error loading %s: %v", envPath, err)
	}
	return nil
}

// ApplyEnv overrides config values with any NETHERBOX_* variables that are set
func (c *Config) ApplyEnv() error {
	ints := []struct {
		key string
		dst *int
	}{
		{EnvWidth, &c.Raytracer.Width},
		{EnvHeight, &c.Raytracer.Height},
		{EnvThreads, &c.Raytracer.NumThreads},
		{EnvMaxDepth, &c.Raytracer.MaxDepth},
	}
	for _, e := range ints {
		value, ok := os.LookupEnv(e.key)
		if !ok || value == "" {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %v", e.key, value, err)
		}
		*e.dst = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvSceneFile, &c.Scene.File},
		{EnvTextureDir, &c.Textures.Dir},
		{EnvS3Bucket, &c.Textures.S3.Bucket},
		{EnvS3Prefix, &c.Textures.S3.Prefix},
		{EnvS3Region, &c.Textures.S3.Region},
		{EnvS3Endpoint, &c.Textures.S3.Endpoint},
		{EnvS3AccessKey, &c.Textures.S3.AccessKey},
		{EnvS3SecretKey, &c.Textures.S3.SecretKey},
		{EnvServerAddr, &c.Server.Address},
		{EnvLogLevel, &c.Log.Level},
		{EnvLogFile, &c.Log.File},
	}
	for _, e := range strs {
		if value, ok := os.LookupEnv(e.key); ok && value != "" {
			*e.dst = value
		}
	}

	// a bucket from the environment switches the texture source
	if c.Textures.S3.Bucket != "" && os.Getenv(EnvS3Bucket) != "" {
		c.Textures.Source = "s3"
	}

	return c.Validate()
}

// Load reads the config file, the .env file beside it and the environment.
// When the config file is missing the defaults are used and an error wrapping
// ErrNotFound is returned alongside a usable config. Errors from the .env file
// or the environment take precedence over it.
func Load(configPath string) (*Config, error) {
	cfg, loadErr := LoadConfig(configPath)
	if loadErr != nil && cfg == nil {
		return nil, loadErr
	}
	if err := LoadEnvFile(configPath); err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, loadErr
}
