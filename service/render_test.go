package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/beka-birhanu/wilson-render/config"
	logger "github.com/beka-birhanu/wilson-render/infrastruture/log"
	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/beka-birhanu/wilson-render/render"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bufferSink struct {
	bytes.Buffer
	writes    int
	failAfter int // fail writes after this many; zero never fails
	closed    bool
}

func (s *bufferSink) Write(p []byte) (int, error) {
	if s.failAfter > 0 && s.writes >= s.failAfter {
		return 0, errors.New("disk full")
	}
	s.writes++
	return s.Buffer.Write(p)
}

func (s *bufferSink) Close() error {
	s.closed = true
	return nil
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("TEST", config.ColorBlue, io.Discard)
	require.NoError(t, err)
	return l
}

func newTestRenderer(t *testing.T, metrics *Metrics, opts *RenderOptions) *Renderer {
	t.Helper()
	painter, err := render.NewPainter(4, 0, render.DefaultPalette)
	require.NoError(t, err)
	r, err := NewRenderer(painter, newTestLogger(t), metrics, opts)
	require.NoError(t, err)
	return r
}

func TestNewRendererDefaults(t *testing.T) {
	r := newTestRenderer(t, nil, nil)
	assert.Equal(t, defaultFPS, r.FPS())
	assert.Equal(t, defaultHoldFrames, r.opts.HoldFrames)
	assert.Equal(t, defaultFrameEvery, r.opts.FrameEvery)
	assert.Equal(t, defaultMaxFrames, r.opts.MaxFrames)

	_, err := NewRenderer(nil, newTestLogger(t), nil, nil)
	assert.Error(t, err)
}

func TestRenderSingleCell(t *testing.T) {
	r := newTestRenderer(t, nil, &RenderOptions{HoldFrames: 3})
	sink := &bufferSink{}

	res, err := r.Render(context.Background(), RenderRequest{Width: 1, Height: 1, Seed: 1}, sink)
	require.NoError(t, err)

	frameBytes := 4 * 4 * 3
	assert.Equal(t, 1, res.Steps)
	assert.Equal(t, 5, res.Frames) // initial, after the root, three held
	assert.Equal(t, 4, res.FrameWidth)
	assert.Equal(t, 5*frameBytes, sink.Len())
	assert.False(t, sink.closed)

	data := sink.Bytes()
	assert.Equal(t, data[frameBytes:2*frameBytes], data[4*frameBytes:])
	assert.NotEqual(t, data[:frameBytes], data[frameBytes:2*frameBytes])
}

func TestRenderFramePerStep(t *testing.T) {
	r := newTestRenderer(t, nil, &RenderOptions{HoldFrames: 0})
	progress := 0
	req := RenderRequest{Width: 4, Height: 5, Seed: 1, Progress: func(steps, frames int) { progress = frames }}

	sink := &bufferSink{}
	res, err := r.Render(context.Background(), req, sink)
	require.NoError(t, err)
	assert.Equal(t, res.Steps+1, res.Frames)
	assert.Equal(t, res.Frames, progress)
	assert.Equal(t, res.Frames, sink.writes)
	assert.Equal(t, res.Steps, res.Stats.Steps)

	again := &bufferSink{}
	_, err = r.Render(context.Background(), req, again)
	require.NoError(t, err)
	assert.Equal(t, sink.Bytes(), again.Bytes())
}

func TestRenderFrameEvery(t *testing.T) {
	r := newTestRenderer(t, nil, &RenderOptions{HoldFrames: 0, FrameEvery: 5})
	res, err := r.Render(context.Background(), RenderRequest{Width: 6, Height: 6, Seed: 2}, &bufferSink{})
	require.NoError(t, err)

	want := 1 + res.Steps/5
	if res.Steps%5 != 0 {
		want++
	}
	assert.Equal(t, want, res.Frames)
}

type countingSink struct {
	writes int
}

func (s *countingSink) Write(p []byte) (int, error) {
	s.writes++
	return len(p), nil
}

func (s *countingSink) Close() error { return nil }

func TestRenderFrameBudget(t *testing.T) {
	r := newTestRenderer(t, nil, &RenderOptions{HoldFrames: 3, MaxFrames: 100})
	sink := &countingSink{}

	res, err := r.Render(context.Background(), RenderRequest{Width: 60, Height: 60, Seed: 1}, sink)
	require.NoError(t, err)
	require.Greater(t, res.Steps, 1000)

	// first frame, at most the budget while stepping, the finished maze, held copies
	assert.LessOrEqual(t, res.Frames, 1+100+1+3)
	assert.Greater(t, res.Frames, 50)
	assert.Equal(t, res.Frames, sink.writes)
}

func TestRenderRequestFrameEvery(t *testing.T) {
	r := newTestRenderer(t, nil, &RenderOptions{HoldFrames: 0, FrameEvery: 2})
	res, err := r.Render(context.Background(), RenderRequest{Width: 6, Height: 6, Seed: 2, FrameEvery: 7}, &bufferSink{})
	require.NoError(t, err)

	want := 1 + res.Steps/7
	if res.Steps%7 != 0 {
		want++
	}
	assert.Equal(t, want, res.Frames)
}

func TestFramePacer(t *testing.T) {
	tests := []struct {
		every, budget int
		want          []int
	}{
		{every: 1, budget: 4, want: []int{1, 2, 4, 8}},
		{every: 3, budget: 3, want: []int{3, 6, 12}},
		{every: 1, budget: 1, want: []int{1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("every %d budget %d", tt.every, tt.budget), func(t *testing.T) {
			p := newFramePacer(tt.every, tt.budget)
			var got []int
			for step := 1; step <= 1000; step++ {
				if p.due(step) {
					got = append(got, step)
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRenderErrors(t *testing.T) {
	r := newTestRenderer(t, nil, &RenderOptions{HoldFrames: 0})

	t.Run("nil sink", func(t *testing.T) {
		_, err := r.Render(context.Background(), RenderRequest{Width: 2, Height: 2}, nil)
		assert.ErrorIs(t, err, ErrNilSink)
	})

	t.Run("empty grid", func(t *testing.T) {
		_, err := r.Render(context.Background(), RenderRequest{Width: 0, Height: 2}, &bufferSink{})
		assert.ErrorIs(t, err, maze.ErrEmptyGrid)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		sink := &bufferSink{}
		res, err := r.Render(ctx, RenderRequest{Width: 5, Height: 5, Seed: 1}, sink)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, res.Steps)
		assert.Equal(t, 1, sink.writes)
	})

	t.Run("sink failure", func(t *testing.T) {
		_, err := r.Render(context.Background(), RenderRequest{Width: 5, Height: 5, Seed: 1}, &bufferSink{failAfter: 3})
		assert.ErrorContains(t, err, "disk full")
	})
}

func TestRenderMetrics(t *testing.T) {
	metrics := NewMetrics()
	r := newTestRenderer(t, metrics, &RenderOptions{HoldFrames: 2})

	res, err := r.Render(context.Background(), RenderRequest{Width: 3, Height: 3, Seed: 4}, &bufferSink{})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.mazesGenerated))
	assert.Equal(t, float64(res.Steps), testutil.ToFloat64(metrics.stepsTaken))
	assert.Equal(t, float64(res.Frames), testutil.ToFloat64(metrics.framesWritten))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.renderDuration))
}
