package texture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"netherbox/pkg/engine"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/chewxy/math32"
)

// quadrants builds a 2x2 image: red, green / blue, white
func quadrants() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 255, 0, 255})
	img.Set(0, 1, color.NRGBA{0, 0, 255, 255})
	img.Set(1, 1, color.NRGBA{255, 255, 255, 255})
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func solid(w, h int, c color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestTexture_At(t *testing.T) {
	tex := NewTexture("q", quadrants())
	tests := []struct {
		u, v float32
		want engine.Vec3
	}{
		{0, 0, engine.Vec3{1, 0, 0}},
		{0.49, 0.2, engine.Vec3{1, 0, 0}},
		{0.5, 0, engine.Vec3{0, 1, 0}},
		{0.1, 0.9, engine.Vec3{0, 0, 1}},
		{1, 1, engine.Vec3{1, 1, 1}},
		{1.5, -0.5, engine.Vec3{0, 1, 0}},
	}
	for _, tt := range tests {
		if got := tex.At(tt.u, tt.v); got != tt.want {
			t.Errorf("At(%v, %v) = %v, want %v", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestStore_FileSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stone.png"), encodePNG(t, quadrants()), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(NewFileSource(dir))
	if n := s.Load(context.Background(), "stone.png", "missing.png", "broken.png"); n != 1 {
		t.Errorf("loaded %d textures, want 1", n)
	}
	if got, ok := s.Sample("stone.png", 0.9, 0.1); !ok || got != (engine.Vec3{0, 1, 0}) {
		t.Errorf("Sample = %v, %v", got, ok)
	}
	if _, ok := s.Sample("missing.png", 0.5, 0.5); ok {
		t.Error("missing texture should report ok=false")
	}
	if names := s.Names(); len(names) != 1 || names[0] != "stone.png" {
		t.Errorf("Names() = %v", names)
	}
}

func TestStore_LookupsTakeNoLock(t *testing.T) {
	s := NewStore(MemorySource{"stone.png": encodePNG(t, quadrants())})
	s.Load(context.Background(), "stone.png")

	// a loader holding the lock must not stall the workers
	s.mu.Lock()
	defer s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					s.Sample("stone.png", 0.9, 0.1)
					s.SampleNormal("stone.png", 0.1, 0.1)
				}
			}()
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lookups blocked on the loader lock")
	}
}

func TestStore_FileSourceStaysInDir(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "assets")
	if err := os.Mkdir(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "secret.png"), encodePNG(t, quadrants()), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileSource(dir).Open(context.Background(), "../secret.png"); err == nil {
		t.Error("path outside the texture dir should not open")
	}
}

func TestStore_MaxSize(t *testing.T) {
	src := MemorySource{"big.png": encodePNG(t, solid(64, 32, color.NRGBA{10, 20, 30, 255}))}
	s := NewStore(src, WithMaxSize(16))
	tex, err := s.LoadTexture(context.Background(), "big.png")
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 16 || tex.Height != 8 {
		t.Errorf("downscaled to %dx%d, want 16x8", tex.Width, tex.Height)
	}

	small := NewStore(src, WithMaxSize(128))
	tex, err = small.LoadTexture(context.Background(), "big.png")
	if err != nil {
		t.Fatal(err)
	}
	if tex.Width != 64 {
		t.Errorf("small enough texture was resized to %d", tex.Width)
	}
}

func TestStore_SampleNormal(t *testing.T) {
	src := MemorySource{
		"flat.png": encodePNG(t, solid(2, 2, color.NRGBA{128, 128, 255, 255})),
		"tilt.png": encodePNG(t, solid(2, 2, color.NRGBA{255, 128, 255, 255})),
	}
	s := NewStore(src)
	s.Load(context.Background(), "flat.png", "tilt.png")

	n, ok := s.SampleNormal("flat.png", 0.5, 0.5)
	if !ok || math32.Abs(n[2]-1) > 1e-3 || math32.Abs(n.Len()-1) > 1e-5 {
		t.Errorf("flat normal = %v", n)
	}
	n, _ = s.SampleNormal("tilt.png", 0.5, 0.5)
	if n[0] < 0.6 || math32.Abs(n.Len()-1) > 1e-5 {
		t.Errorf("tilted normal = %v", n)
	}
	if _, ok := s.SampleNormal("nope.png", 0, 0); ok {
		t.Error("missing normal map should report ok=false")
	}
}

func TestStore_SampleSky(t *testing.T) {
	src := MemorySource{"sky.png": encodePNG(t, quadrants())}

	noSky := NewStore(src)
	if _, ok := noSky.SampleSky(engine.Vec3{0, 1, 0}); ok {
		t.Error("store without a sky texture should not sample")
	}

	s := NewStore(src, WithSkyTexture("sky.png"))
	if n := s.Load(context.Background()); n != 1 {
		t.Fatalf("sky not loaded")
	}
	// straight up maps to v=0, u=0.5: the top right texel
	if got, ok := s.SampleSky(engine.Vec3{0, 1, 0}); !ok || got != (engine.Vec3{0, 1, 0}) {
		t.Errorf("up = %v", got)
	}
	// straight down maps to the bottom row
	if got, _ := s.SampleSky(engine.Vec3{0, -1, 0}); got != (engine.Vec3{1, 1, 1}) {
		t.Errorf("down = %v", got)
	}
}

func TestStore_LoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewStore(MemorySource{"a.png": encodePNG(t, quadrants())})
	if n := s.Load(ctx, "a.png"); n != 0 {
		t.Errorf("cancelled load returned %d", n)
	}
}

type fakeS3 struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeS3) GetObjectWithContext(_ aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	key := aws.StringValue(in.Key)
	f.keys = append(f.keys, aws.StringValue(in.Bucket)+"/"+key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{
		"textures/portal.png": encodePNG(t, quadrants()),
	}}
	src := NewS3SourceWithClient(client, "assets", "textures")
	s := NewStore(src)

	if n := s.Load(context.Background(), "portal.png", "obsidian.png"); n != 1 {
		t.Errorf("loaded %d, want 1", n)
	}
	if len(client.keys) != 2 || client.keys[0] != "assets/textures/portal.png" {
		t.Errorf("requested keys %v", client.keys)
	}
	if got, ok := s.Sample("portal.png", 0, 0); !ok || got != (engine.Vec3{1, 0, 0}) {
		t.Errorf("Sample = %v, %v", got, ok)
	}
	if src.String() != "s3://assets/textures" {
		t.Errorf("String() = %q", src.String())
	}

	if _, err := NewS3Source(S3Config{}); err == nil {
		t.Error("missing bucket should fail")
	}
}

func TestStore_ImplementsSamplers(t *testing.T) {
	var s interface{} = NewStore(MemorySource{})
	if _, ok := s.(engine.TextureSampler); !ok {
		t.Error("not a TextureSampler")
	}
	if _, ok := s.(engine.NormalSampler); !ok {
		t.Error("not a NormalSampler")
	}
	if _, ok := s.(engine.SkySampler); !ok {
		t.Error("not a SkySampler")
	}
}
