package engine

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/chewxy/math32"
)

// Background is the dark red a framebuffer starts out with
var Background = color.RGBA{51, 13, 13, 255}

// Framebuffer holds the final 8-bit image of a frame
type Framebuffer struct {
	Width  int
	Height int
	img    *image.RGBA
}

// NewFramebuffer allocates a framebuffer cleared to Background
func NewFramebuffer(width, height int) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	fb.Clear()
	return fb
}

// Clear fills the framebuffer with Background
func (fb *Framebuffer) Clear() {
	bg := Background
	pix := fb.img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = bg.R, bg.G, bg.B, bg.A
	}
}

// ToRGBA converts a linear color to 8 bits per channel, clamping each
// channel to [0, 255].
func ToRGBA(c Vec3) color.RGBA {
	return color.RGBA{
		R: channel(c[0]),
		G: channel(c[1]),
		B: channel(c[2]),
		A: 255,
	}
}

func channel(v float32) uint8 {
	x := math32.Min(v*255, 255)
	if !(x > 0) {
		return 0
	}
	return uint8(x)
}

// SetPixel writes one pixel, ignoring out of range coordinates
func (fb *Framebuffer) SetPixel(x, y int, c Vec3) {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height {
		return
	}
	fb.img.SetRGBA(x, y, ToRGBA(c))
}

// WriteBand copies the rows [start, start+len(pixels)/Width) from a dense
// row-major buffer.
func (fb *Framebuffer) WriteBand(start int, pixels []Vec3) {
	for i, c := range pixels {
		fb.SetPixel(i%fb.Width, start+i/fb.Width, c)
	}
}

// Pixel returns the stored color at x, y
func (fb *Framebuffer) Pixel(x, y int) color.RGBA {
	return fb.img.RGBAAt(x, y)
}

// Image exposes the underlying image
func (fb *Framebuffer) Image() *image.RGBA {
	return fb.img
}

// EncodePNG writes the frame as PNG
func (fb *Framebuffer) EncodePNG(w io.Writer) error {
	return png.Encode(w, fb.img)
}
