package render

import (
	"errors"
	"image"

	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/yalue/image_utils"
)

// ErrInvalidLayout is returned for cell layouts that cannot be drawn.
var ErrInvalidLayout = errors.New("cell size must be positive and gap non-negative")

// Snapshot is the read-only view of a maze the painter needs.
type Snapshot interface {
	Width() int
	Height() int
	ForEachNode(func(maze.NodeView))
	WalkPath() []maze.Coord
}

// Palette holds the colors used for each kind of cell.
type Palette struct {
	Background RGB
	Unused     RGB
	Walk       RGB
	WalkLink   RGB
	Tree       RGB
	Root       RGB
}

// DefaultPalette draws unvisited cells dim and walk cells blue with light
// links. The carved maze is pale with a red root.
var DefaultPalette = Palette{
	Background: RGB{0, 0, 0},
	Unused:     RGB{50, 50, 50},
	Walk:       RGB{30, 30, 200},
	WalkLink:   RGB{230, 230, 230},
	Tree:       RGB{220, 220, 220},
	Root:       RGB{200, 40, 40},
}

// Painter lays maze cells out on a pixel grid. Each cell is a CellSize box
// surrounded by CellGap pixels on every side; tree edges bridge the gap.
type Painter struct {
	cellSize int
	cellGap  int
	palette  Palette
}

// NewPainter returns a painter for the given cell layout.
func NewPainter(cellSize, cellGap int, palette Palette) (*Painter, error) {
	if cellSize <= 0 || cellGap < 0 {
		return nil, ErrInvalidLayout
	}
	return &Painter{cellSize: cellSize, cellGap: cellGap, palette: palette}, nil
}

func (p *Painter) pitch() int {
	return p.cellSize + 2*p.cellGap
}

// FrameSize returns the frame dimensions for a cols x rows maze, rounded up
// to even numbers so the frames can be encoded as yuv420p.
func (p *Painter) FrameSize(cols, rows int) (int, int) {
	w := cols * p.pitch()
	h := rows * p.pitch()
	return w + w%2, h + h%2
}

// NewFrame allocates a frame sized for s.
func (p *Painter) NewFrame(s Snapshot) (*FrameBuffer, error) {
	w, h := p.FrameSize(s.Width(), s.Height())
	return NewFrameBuffer(w, h)
}

func (p *Painter) origin(c maze.Coord) Point {
	return Point{X: c.X*p.pitch() + p.cellGap, Y: c.Y*p.pitch() + p.cellGap}
}

func (p *Painter) center(c maze.Coord) Point {
	return p.origin(c).Add(Point{X: p.cellSize / 2, Y: p.cellSize / 2})
}

// Paint draws the full snapshot into fb.
func (p *Painter) Paint(fb *FrameBuffer, s Snapshot) {
	fb.Fill(p.palette.Background)
	cell := Point{X: p.cellSize, Y: p.cellSize}

	var root *maze.Coord
	s.ForEachNode(func(v maze.NodeView) {
		switch v.Affiliation {
		case maze.Unused:
			fb.DrawBox(p.origin(v.Pos), cell, p.palette.Unused)
		case maze.RandomWalk:
			fb.DrawBox(p.origin(v.Pos), cell, p.palette.Walk)
		case maze.Tree:
			fb.DrawBox(p.origin(v.Pos), cell, p.palette.Tree)
			if v.HasParent {
				p.bridge(fb, v.Pos, v.Parent, p.palette.Tree)
			} else {
				pos := v.Pos
				root = &pos
			}
		}
	})

	if root != nil {
		fb.DrawCircle(p.center(*root), max(p.cellSize/3, 1), p.palette.Root)
	}

	path := s.WalkPath()
	width := max(p.cellSize/4, 1)
	for i := 1; i < len(path); i++ {
		fb.DrawThickLine(p.center(path[i-1]), p.center(path[i]), width, p.palette.WalkLink)
	}
}

// bridge fills the box spanning two adjacent cells and the gap between them.
func (p *Painter) bridge(fb *FrameBuffer, a, b maze.Coord, c RGB) {
	oa, ob := p.origin(a), p.origin(b)
	minP := Point{X: min(oa.X, ob.X), Y: min(oa.Y, ob.Y)}
	maxP := Point{X: max(oa.X, ob.X) + p.cellSize, Y: max(oa.Y, ob.Y) + p.cellSize}
	fb.DrawBox(minP, Point{X: maxP.X - minP.X, Y: maxP.Y - minP.Y}, c)
}

// Picture paints s into a fresh frame and returns it as an image.
func (p *Painter) Picture(s Snapshot) (*image.RGBA, error) {
	fb, err := p.NewFrame(s)
	if err != nil {
		return nil, err
	}
	p.Paint(fb, s)
	return fb.Image(), nil
}

// Thumbnail scales pic to width x height.
func Thumbnail(pic image.Image, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidFrameSize
	}
	var scaled image.Image = image_utils.ResizeImage(pic, width, height)
	return image_utils.ToRGBA(scaled), nil
}
