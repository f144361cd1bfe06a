package i

import (
	"context"
	"io"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/google/uuid"
)

// FrameSink receives raw rgb24 frames, one full frame per Write call.
// Close finalizes the stream.
type FrameSink interface {
	io.WriteCloser
}

// SinkFactory opens a FrameSink for a job's output.
type SinkFactory interface {
	// Open starts a stream of width x height frames at fps written to path.
	Open(format job.Format, width, height, fps int, path string) (FrameSink, error)
}

// JobManager accepts render jobs and reports on them.
type JobManager interface {
	// Submit validates cfg, records a queued job and renders it in the background.
	Submit(ctx context.Context, cfg job.Config) (uuid.UUID, error)

	// Job returns the current record of a job.
	Job(ctx context.Context, id uuid.UUID) (*job.Job, error)
}
