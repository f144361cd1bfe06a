// Package render rasterizes maze snapshots into rgb24 frames.
package render

import (
	"errors"
	"image"
	"image/color"
	"io"
	"math"
)

// ErrInvalidFrameSize is returned for frames without pixels.
var ErrInvalidFrameSize = errors.New("frame dimensions must be positive")

// RGB is a 24-bit pixel.
type RGB struct {
	R, G, B uint8
}

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// FrameBuffer holds one frame of packed rgb24 pixels, row by row.
type FrameBuffer struct {
	width  int
	height int
	pix    []byte
}

// NewFrameBuffer allocates a black width x height frame.
func NewFrameBuffer(width, height int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidFrameSize
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*3),
	}, nil
}

// Width returns the frame width in pixels.
func (f *FrameBuffer) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *FrameBuffer) Height() int { return f.height }

// Bytes returns the raw rgb24 pixels. The slice aliases the buffer.
func (f *FrameBuffer) Bytes() []byte { return f.pix }

func (f *FrameBuffer) inBound(p Point) bool {
	return p.X >= 0 && p.X < f.width && p.Y >= 0 && p.Y < f.height
}

// SetPixel paints one pixel. Out of frame positions are ignored.
func (f *FrameBuffer) SetPixel(p Point, c RGB) {
	if !f.inBound(p) {
		return
	}
	i := (p.Y*f.width + p.X) * 3
	f.pix[i] = c.R
	f.pix[i+1] = c.G
	f.pix[i+2] = c.B
}

// At returns the pixel at p, black when out of frame.
func (f *FrameBuffer) At(p Point) RGB {
	if !f.inBound(p) {
		return RGB{}
	}
	i := (p.Y*f.width + p.X) * 3
	return RGB{R: f.pix[i], G: f.pix[i+1], B: f.pix[i+2]}
}

// Fill paints the whole frame.
func (f *FrameBuffer) Fill(c RGB) {
	for i := 0; i < len(f.pix); i += 3 {
		f.pix[i] = c.R
		f.pix[i+1] = c.G
		f.pix[i+2] = c.B
	}
}

// clamp restricts p to [0, width] x [0, height], suitable as a half-open
// range bound.
func (f *FrameBuffer) clamp(p Point) Point {
	p.X = max(0, min(p.X, f.width))
	p.Y = max(0, min(p.Y, f.height))
	return p
}

// DrawBox fills the rectangle with its top-left corner at pos.
func (f *FrameBuffer) DrawBox(pos, size Point, c RGB) {
	size.X = max(size.X, 0)
	size.Y = max(size.Y, 0)
	start := f.clamp(pos)
	end := f.clamp(pos.Add(size))
	for y := start.Y; y < end.Y; y++ {
		for x := start.X; x < end.X; x++ {
			f.SetPixel(Point{X: x, Y: y}, c)
		}
	}
}

// DrawCircle fills a disc of radius r, scanning it in horizontal slices.
func (f *FrameBuffer) DrawCircle(center Point, r int, c RGB) {
	r = max(r, 0)
	startY := max(center.Y-r, 0)
	endY := min(center.Y+r, f.height)
	for y := startY; y < endY; y++ {
		a := y - center.Y
		b := int(math.Sqrt(float64(r*r - a*a)))
		startX := max(center.X-b, 0)
		endX := min(center.X+b, f.width)
		for x := startX; x < endX; x++ {
			f.SetPixel(Point{X: x, Y: y}, c)
		}
	}
}

// DrawLine draws a one pixel line from a to b inclusive, stepping along the
// longer axis.
func (f *FrameBuffer) DrawLine(a, b Point, c RGB) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		f.SetPixel(a, c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		p := Point{
			X: a.X + int(math.Round(t*float64(dx))),
			Y: a.Y + int(math.Round(t*float64(dy))),
		}
		f.SetPixel(p, c)
	}
}

// DrawThickLine draws a line of the given width with square caps.
func (f *FrameBuffer) DrawThickLine(a, b Point, width int, c RGB) {
	if width <= 1 {
		f.DrawLine(a, b, c)
		return
	}
	half := width / 2
	minP := Point{X: min(a.X, b.X) - half, Y: min(a.Y, b.Y) - half}
	maxP := Point{X: max(a.X, b.X) - half + width, Y: max(a.Y, b.Y) - half + width}
	if a.X == b.X || a.Y == b.Y {
		f.DrawBox(minP, Point{X: maxP.X - minP.X, Y: maxP.Y - minP.Y}, c)
		return
	}
	for off := -half; off < width-half; off++ {
		f.DrawLine(Point{X: a.X + off, Y: a.Y}, Point{X: b.X + off, Y: b.Y}, c)
	}
}

// WriteTo writes the frame as raw rgb24 rows.
func (f *FrameBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(f.pix)
	return int64(n), err
}

// Image copies the frame into an RGBA image.
func (f *FrameBuffer) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			p := f.At(Point{X: x, Y: y})
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
