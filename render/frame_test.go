package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var white = RGB{255, 255, 255}

func countColor(fb *FrameBuffer, c RGB) int {
	n := 0
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.At(Point{X: x, Y: y}) == c {
				n++
			}
		}
	}
	return n
}

func TestNewFrameBuffer(t *testing.T) {
	_, err := NewFrameBuffer(0, 10)
	assert.ErrorIs(t, err, ErrInvalidFrameSize)

	fb, err := NewFrameBuffer(4, 3)
	require.NoError(t, err)
	assert.Len(t, fb.Bytes(), 36)
}

func TestSetPixelIgnoresOutOfFrame(t *testing.T) {
	fb, err := NewFrameBuffer(2, 2)
	require.NoError(t, err)

	fb.SetPixel(Point{X: -1, Y: 0}, white)
	fb.SetPixel(Point{X: 2, Y: 0}, white)
	fb.SetPixel(Point{X: 0, Y: 2}, white)
	assert.Zero(t, countColor(fb, white))

	fb.SetPixel(Point{X: 1, Y: 1}, white)
	assert.Equal(t, white, fb.At(Point{X: 1, Y: 1}))
	assert.Equal(t, []byte{255, 255, 255}, fb.Bytes()[9:12])
}

func TestDrawBox(t *testing.T) {
	fb, err := NewFrameBuffer(10, 10)
	require.NoError(t, err)

	t.Run("inside", func(t *testing.T) {
		fb.Fill(RGB{})
		fb.DrawBox(Point{X: 2, Y: 3}, Point{X: 4, Y: 2}, white)
		assert.Equal(t, 8, countColor(fb, white))
		assert.Equal(t, white, fb.At(Point{X: 5, Y: 4}))
		assert.Equal(t, RGB{}, fb.At(Point{X: 6, Y: 4}))
	})

	t.Run("clipped", func(t *testing.T) {
		fb.Fill(RGB{})
		fb.DrawBox(Point{X: -5, Y: 8}, Point{X: 7, Y: 5}, white)
		assert.Equal(t, 4, countColor(fb, white))
	})

	t.Run("negative size", func(t *testing.T) {
		fb.Fill(RGB{})
		fb.DrawBox(Point{X: 5, Y: 5}, Point{X: -3, Y: 2}, white)
		assert.Zero(t, countColor(fb, white))
	})
}

func TestDrawCircle(t *testing.T) {
	fb, err := NewFrameBuffer(20, 20)
	require.NoError(t, err)
	fb.DrawCircle(Point{X: 10, Y: 10}, 5, white)

	assert.Equal(t, white, fb.At(Point{X: 10, Y: 10}))
	assert.Equal(t, RGB{}, fb.At(Point{X: 0, Y: 0}))
	assert.Equal(t, RGB{}, fb.At(Point{X: 16, Y: 10}))

	painted := countColor(fb, white)
	assert.Greater(t, painted, 50)
	assert.Less(t, painted, 100)

	// clipped at the frame edge without panicking
	fb.DrawCircle(Point{X: 0, Y: 0}, 30, white)
	assert.Equal(t, 400, countColor(fb, white))
}

func TestDrawLine(t *testing.T) {
	fb, err := NewFrameBuffer(10, 10)
	require.NoError(t, err)

	fb.DrawLine(Point{X: 1, Y: 1}, Point{X: 8, Y: 1}, white)
	assert.Equal(t, 8, countColor(fb, white))

	fb.Fill(RGB{})
	fb.DrawLine(Point{X: 0, Y: 0}, Point{X: 9, Y: 9}, white)
	for i := 0; i < 10; i++ {
		assert.Equal(t, white, fb.At(Point{X: i, Y: i}))
	}

	fb.Fill(RGB{})
	fb.DrawLine(Point{X: 4, Y: 4}, Point{X: 4, Y: 4}, white)
	assert.Equal(t, 1, countColor(fb, white))

	fb.Fill(RGB{})
	fb.DrawThickLine(Point{X: 2, Y: 5}, Point{X: 7, Y: 5}, 3, white)
	assert.Equal(t, 24, countColor(fb, white))
}

func TestWriteTo(t *testing.T) {
	fb, err := NewFrameBuffer(3, 2)
	require.NoError(t, err)
	fb.Fill(RGB{1, 2, 3})

	var buf bytes.Buffer
	n, err := fb.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(18), n)
	assert.Equal(t, bytes.Repeat([]byte{1, 2, 3}, 6), buf.Bytes())

	img := fb.Image()
	assert.Equal(t, 3, img.Bounds().Dx())
	r, g, b, a := img.At(2, 1).RGBA()
	assert.Equal(t, []uint32{1, 2, 3, 255}, []uint32{r >> 8, g >> 8, b >> 8, a >> 8})
}
