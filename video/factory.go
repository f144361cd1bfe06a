package video

import (
	"fmt"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/service/i"
)

// Factory opens sinks by job format.
type Factory struct {
	FFmpegPath string
}

// NewFactory returns a SinkFactory that encodes mp4 through the given ffmpeg binary.
func NewFactory(ffmpegPath string) i.SinkFactory {
	return &Factory{FFmpegPath: ffmpegPath}
}

// Open starts a sink writing a width x height stream at fps to path.
func (f *Factory) Open(format job.Format, width, height, fps int, path string) (i.FrameSink, error) {
	cfg := StreamConfig{Width: width, Height: height, FPS: fps}
	switch format {
	case job.FormatMP4:
		return NewFFmpegSink(f.FFmpegPath, cfg, path)
	case job.FormatRaw:
		return NewRawSink(cfg, path)
	default:
		return nil, fmt.Errorf("%w: %q", job.ErrInvalidFormat, format)
	}
}
