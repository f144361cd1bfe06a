package video

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFFmpegArgs(t *testing.T) {
	args := FFmpegArgs(StreamConfig{Width: 56, Height: 70, FPS: 60}, "out/maze.mp4")

	assert.Equal(t, "-y", args[0])
	assert.Equal(t, "out/maze.mp4", args[len(args)-1])
	assert.Contains(t, args, "56x70")
	assert.Contains(t, args, "rawvideo")
	assert.Contains(t, args, "pipe:0")

	idx := indexOf(args, "-r")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "60", args[idx+1])
	// input options must precede the input
	assert.Less(t, idx, indexOf(args, "-i"))
}

func indexOf(args []string, v string) int {
	for i, a := range args {
		if a == v {
			return i
		}
	}
	return -1
}

func TestNewFFmpegSink(t *testing.T) {
	t.Run("invalid stream", func(t *testing.T) {
		_, err := NewFFmpegSink("", StreamConfig{Width: 0, Height: 10, FPS: 30}, "x.mp4")
		assert.ErrorIs(t, err, ErrInvalidStream)
	})

	t.Run("missing binary", func(t *testing.T) {
		_, err := NewFFmpegSink("definitely-not-ffmpeg-binary", StreamConfig{Width: 10, Height: 10, FPS: 30}, filepath.Join(t.TempDir(), "x.mp4"))
		assert.ErrorIs(t, err, ErrFFmpegNotFound)
	})
}

func TestRawSink(t *testing.T) {
	out := filepath.Join(t.TempDir(), "frames", "maze.rgb")
	sink, err := NewRawSink(StreamConfig{Width: 2, Height: 1, FPS: 30}, out)
	require.NoError(t, err)

	frame := []byte{1, 2, 3, 4, 5, 6}
	for i := 0; i < 3; i++ {
		n, err := sink.Write(frame)
		require.NoError(t, err)
		assert.Equal(t, len(frame), n)
	}
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, data, 18)
	assert.Equal(t, frame, data[12:])
}

func TestFactory(t *testing.T) {
	f := NewFactory("definitely-not-ffmpeg-binary")

	t.Run("raw", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "maze.rgb")
		sink, err := f.Open(job.FormatRaw, 2, 2, 30, out)
		require.NoError(t, err)
		require.NoError(t, sink.Close())
		_, err = os.Stat(out)
		assert.NoError(t, err)
	})

	t.Run("mp4 without ffmpeg", func(t *testing.T) {
		_, err := f.Open(job.FormatMP4, 2, 2, 30, filepath.Join(t.TempDir(), "maze.mp4"))
		assert.ErrorIs(t, err, ErrFFmpegNotFound)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := f.Open("gif", 2, 2, 30, filepath.Join(t.TempDir(), "maze.gif"))
		assert.ErrorIs(t, err, job.ErrInvalidFormat)
	})
}
