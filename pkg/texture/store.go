// Package texture loads image textures up front and serves read-only texel
// lookups to the shader.
package texture

import (
	"context"
	"fmt"
	"image"
	"sort"
	"sync"

	"netherbox/internal/logger"
	"netherbox/pkg/engine"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// Texture is a decoded image stored as linear [0,1] colors, row major
type Texture struct {
	Name   string
	Width  int
	Height int
	texels []engine.Vec3
}

// NewTexture converts an image into a texture
func NewTexture(name string, img image.Image) *Texture {
	b := img.Bounds()
	t := &Texture{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		texels: make([]engine.Vec3, b.Dx()*b.Dy()),
	}
	nrgba := imaging.Clone(img)
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := nrgba.NRGBAAt(x, y)
			t.texels[y*t.Width+x] = engine.Vec3{
				float32(c.R) / 255,
				float32(c.G) / 255,
				float32(c.B) / 255,
			}
		}
	}
	return t
}

// Texel returns the color at integer coordinates clamped to the image
func (t *Texture) Texel(x, y int) engine.Vec3 {
	if x < 0 {
		x = 0
	} else if x >= t.Width {
		x = t.Width - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.Height {
		y = t.Height - 1
	}
	return t.texels[y*t.Width+x]
}

// At samples with nearest-texel lookup, tx = u*w and ty = v*h
func (t *Texture) At(u, v float32) engine.Vec3 {
	return t.Texel(int(u*float32(t.Width)), int(v*float32(t.Height)))
}

// Store holds every texture the scene needs. It is filled by Load before
// rendering and only read afterwards: lookups take no lock, so loading must
// finish before the first frame starts.
type Store struct {
	source  Source
	maxSize uint
	sky     string
	log     *logger.Logger

	// mu serialises loaders only
	mu       sync.Mutex
	textures map[string]*Texture
}

// Option configures a Store
type Option func(*Store)

// WithMaxSize downscales textures whose larger side exceeds size
func WithMaxSize(size uint) Option {
	return func(s *Store) { s.maxSize = size }
}

// WithSkyTexture sets the equirectangular sky image name
func WithSkyTexture(name string) Option {
	return func(s *Store) { s.sky = name }
}

// WithLogger sets the logger used for load warnings
func WithLogger(log *logger.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore creates an empty store reading from source
func NewStore(source Source, opts ...Option) *Store {
	s := &Store{
		source:   source,
		textures: make(map[string]*Texture),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadTexture fetches and decodes a single texture
func (s *Store) LoadTexture(ctx context.Context, name string) (*Texture, error) {
	rc, err := s.source.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %v", name, err)
	}
	defer rc.Close()

	img, err := imaging.Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %v", name, err)
	}

	if s.maxSize > 0 {
		b := img.Bounds()
		if uint(b.Dx()) > s.maxSize || uint(b.Dy()) > s.maxSize {
			img = resize.Thumbnail(s.maxSize, s.maxSize, img, resize.Bilinear)
		}
	}

	tex := NewTexture(name, img)
	s.mu.Lock()
	s.textures[name] = tex
	s.mu.Unlock()
	return tex, nil
}

// Load fetches every named texture plus the sky image. Textures that fail to
// load are logged and skipped so the shader falls back to flat colors. The
// returned count is the number of textures now available.
func (s *Store) Load(ctx context.Context, names ...string) int {
	if s.sky != "" {
		names = append(names, s.sky)
	}

	loaded := 0
	for _, name := range names {
		if s.Has(name) {
			loaded++
			continue
		}
		if err := ctx.Err(); err != nil {
			s.warnf("Texture loading cancelled: %v", err)
			break
		}
		tex, err := s.LoadTexture(ctx, name)
		if err != nil {
			s.warnf("Using fallback color for %s: %v", name, err)
			continue
		}
		loaded++
		if s.log != nil {
			s.log.Debugf("Loaded texture %s (%dx%d) from %s", name, tex.Width, tex.Height, s.source)
		}
	}
	return loaded
}

func (s *Store) warnf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Warnf(format, args...)
	}
}

// Has reports whether a texture is loaded
func (s *Store) Has(name string) bool {
	_, ok := s.get(name)
	return ok
}

// Names returns the loaded texture names
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.textures))
	for name := range s.textures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Store) get(name string) (*Texture, bool) {
	t, ok := s.textures[name]
	return t, ok
}

// Sample implements engine.TextureSampler
func (s *Store) Sample(name string, u, v float32) (engine.Vec3, bool) {
	t, ok := s.get(name)
	if !ok {
		return engine.Vec3{}, false
	}
	return t.At(u, v), true
}

// SampleNormal implements engine.NormalSampler. Channels decode as
// (r*2-1, g*2-1, b).
func (s *Store) SampleNormal(name string, u, v float32) (engine.Vec3, bool) {
	t, ok := s.get(name)
	if !ok {
		return engine.Vec3{}, false
	}
	c := t.At(u, v)
	n := engine.Vec3{c[0]*2 - 1, c[1]*2 - 1, c[2]}
	if n.Len() == 0 {
		return engine.Vec3{0, 0, 1}, true
	}
	return n.Normalize(), true
}

// SampleSky implements engine.SkySampler using the equirectangular sky image
func (s *Store) SampleSky(dir engine.Vec3) (engine.Vec3, bool) {
	if s.sky == "" {
		return engine.Vec3{}, false
	}
	u, v := engine.EquirectUV(dir)
	return s.Sample(s.sky, u, v)
}
