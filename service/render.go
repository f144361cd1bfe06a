package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/beka-birhanu/wilson-render/render"
	"github.com/beka-birhanu/wilson-render/service/i"
)

const (
	defaultFPS        = 60
	defaultHoldFrames = 60
	defaultFrameEvery = 1
	defaultMaxFrames  = 18000 // five minutes at 60 fps
)

var ErrNilSink = errors.New("frame sink is nil")

// RenderOptions tunes the frame stream.
type RenderOptions struct {
	FPS        int // frame rate the sink is opened with
	HoldFrames int // copies of the finished maze appended to the stream
	FrameEvery int // paint one frame every N steps
	MaxFrames  int // most frames painted between the first and the finished maze
}

// RenderRequest describes one maze to animate.
type RenderRequest struct {
	Width  int
	Height int
	Seed   int64

	// FrameEvery overrides RenderOptions.FrameEvery when positive.
	FrameEvery int

	// Progress, when set, is called after every written frame.
	Progress func(steps, frames int)
}

// RenderResult summarizes a finished render.
type RenderResult struct {
	Steps       int
	Frames      int
	FrameWidth  int
	FrameHeight int
	Stats       maze.Stats
	Duration    time.Duration
}

// Renderer drives a maze to completion, painting it into a sink as it goes.
type Renderer struct {
	painter *render.Painter
	logger  i.Logger
	metrics *Metrics
	opts    *RenderOptions
}

// NewRenderer creates a Renderer. A nil opts uses 60 fps, 60 hold frames, a
// frame per step and a budget of 18000 frames. metrics may be nil.
func NewRenderer(painter *render.Painter, logger i.Logger, metrics *Metrics, opts *RenderOptions) (*Renderer, error) {
	if painter == nil {
		return nil, errors.New("painter is nil")
	}
	if logger == nil {
		return nil, errors.New("logger is nil")
	}
	if opts == nil {
		opts = &RenderOptions{HoldFrames: defaultHoldFrames}
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.HoldFrames < 0 {
		opts.HoldFrames = defaultHoldFrames
	}
	if opts.FrameEvery <= 0 {
		opts.FrameEvery = defaultFrameEvery
	}
	if opts.MaxFrames <= 0 {
		opts.MaxFrames = defaultMaxFrames
	}

	return &Renderer{
		painter: painter,
		logger:  logger,
		metrics: metrics,
		opts:    opts,
	}, nil
}

// FPS is the frame rate sinks should be opened with.
func (r *Renderer) FPS() int {
	return r.opts.FPS
}

// FrameSize returns the pixel size of frames for a width x height maze.
func (r *Renderer) FrameSize(width, height int) (int, int) {
	return r.painter.FrameSize(width, height)
}

// Render generates the requested maze and writes its frames to sink: the
// initial state, the state after every FrameEvery-th step, the finished maze
// and HoldFrames copies of it. Each step is followed by its paint before the
// next step is taken. The frames between the first and the last never exceed
// MaxFrames; the interval doubles as the budget runs down. The sink is not
// closed.
func (r *Renderer) Render(ctx context.Context, req RenderRequest, sink i.FrameSink) (RenderResult, error) {
	var result RenderResult
	if sink == nil {
		return result, ErrNilSink
	}
	started := time.Now()

	m, err := maze.New(req.Width, req.Height, req.Seed)
	if err != nil {
		return result, err
	}
	fb, err := r.painter.NewFrame(m)
	if err != nil {
		return result, err
	}
	result.FrameWidth, result.FrameHeight = fb.Width(), fb.Height()

	emit := func(repaint bool) error {
		if repaint {
			r.painter.Paint(fb, m)
		}
		if _, err := fb.WriteTo(sink); err != nil {
			return fmt.Errorf("writing frame %d: %w", result.Frames, err)
		}
		result.Frames++
		r.metrics.frameWritten()
		if req.Progress != nil {
			req.Progress(m.Stats().Steps, result.Frames)
		}
		return nil
	}

	if err := emit(true); err != nil {
		return result, err
	}

	every := r.opts.FrameEvery
	if req.FrameEvery > 0 {
		every = req.FrameEvery
	}
	pacer := newFramePacer(every, r.opts.MaxFrames)

	for {
		if err := ctx.Err(); err != nil {
			result.Steps = m.Stats().Steps
			return result, err
		}

		res, err := m.Step()
		if err != nil {
			result.Steps = m.Stats().Steps
			return result, fmt.Errorf("generating %dx%d maze (seed %d): %w", req.Width, req.Height, req.Seed, err)
		}

		done := res == maze.Completed
		if done || pacer.due(m.Stats().Steps) {
			if err := emit(true); err != nil {
				return result, err
			}
		}
		if done {
			break
		}
	}

	for n := 0; n < r.opts.HoldFrames; n++ {
		if err := emit(false); err != nil {
			return result, err
		}
	}

	result.Steps = m.Stats().Steps
	result.Stats = m.Stats()
	result.Duration = time.Since(started)
	r.metrics.MazeGenerated(result.Steps)
	r.metrics.observeRender(result.Duration.Seconds())
	r.logger.Debug(fmt.Sprintf("rendered %dx%d maze (seed %d): %d steps, %d frames", req.Width, req.Height, req.Seed, result.Steps, result.Frames))

	return result, nil
}

// framePacer picks the steps that get painted. Half of the remaining budget
// is spent at the current interval, then the interval doubles.
type framePacer struct {
	every     int
	remaining int
	allowance int
}

func newFramePacer(every, budget int) *framePacer {
	return &framePacer{every: every, remaining: budget, allowance: (budget + 1) / 2}
}

func (p *framePacer) due(step int) bool {
	if p.remaining == 0 || step%p.every != 0 {
		return false
	}
	p.remaining--
	p.allowance--
	if p.allowance == 0 {
		p.every *= 2
		p.allowance = (p.remaining + 1) / 2
	}
	return true
}
