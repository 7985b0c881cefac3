// Package render implements the pixelpipe software pipeline: shaders, the
// render queue, the rasterizer engine and the framebuffer it produces.
package render

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/taigrr/pixelpipe/pkg/math3d"
	"golang.org/x/image/draw"
)

// Framebuffer is a width×height grid of colors in row-major order. Row 0 is
// the bottom of the projection plane, so Y grows upward like world Z; the
// image and terminal sinks flip it for display.
type Framebuffer struct {
	Width  int
	Height int
	Pixels []math3d.Color
}

// NewFramebuffer creates a framebuffer filled with bg.
func NewFramebuffer(width, height int, bg math3d.Color) *Framebuffer {
	fb := &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]math3d.Color, width*height),
	}
	fb.Clear(bg)
	return fb
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c math3d.Color) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets the pixel at (x, y). Out-of-range coordinates are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c math3d.Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y), or transparent black if out of range.
func (fb *Framebuffer) GetPixel(x, y int) math3d.Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math3d.Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the framebuffer to an 8-bit image with row 0 at the
// bottom.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, fb.Height-1-y, fb.Pixels[y*fb.Width+x].RGBA8())
		}
	}
	return img
}

// SavePNG writes the framebuffer as a PNG, enlarged by an integer factor
// with nearest-neighbour sampling so pixels stay crisp.
func (fb *Framebuffer) SavePNG(path string, scale int) error {
	var img image.Image = fb.ToImage()
	if scale > 1 {
		dst := image.NewRGBA(image.Rect(0, 0, fb.Width*scale, fb.Height*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
		img = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
