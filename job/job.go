// Package job holds the render job entity and its lifecycle rules.
package job

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle stage of a render job.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Format selects the sink a job writes to.
type Format string

const (
	FormatMP4 Format = "mp4"
	FormatRaw Format = "raw"
)

const (
	outputPattern = `^[a-zA-Z0-9_\-]+$` // file stem, extension comes from the format
	maxOutputLen  = 64

	// MaxDimension bounds width and height of a job's maze.
	MaxDimension = 200
)

var (
	ErrInvalidDimensions = errors.New("maze dimensions out of range")
	ErrInvalidOutput     = errors.New("invalid output name")
	ErrInvalidFormat     = errors.New("unknown output format")
	ErrInvalidFrameEvery = errors.New("frame interval must not be negative")
	ErrInvalidTransition = errors.New("invalid job status transition")

	outputRegex = regexp.MustCompile(outputPattern)
)

// Job is a render request plus its progress. It is stored as JSON.
type Job struct {
	ID         uuid.UUID `json:"id"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Seed       int64     `json:"seed"`
	Output     string    `json:"output"`
	Format     Format    `json:"format"`
	FrameEvery int       `json:"frameEvery,omitempty"` // zero leaves the interval to the renderer
	Status     Status    `json:"status"`
	Steps      int       `json:"steps"`
	Frames     int       `json:"frames"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Config holds parameters for creating a Job.
type Config struct {
	ID         uuid.UUID
	Width      int
	Height     int
	Seed       int64
	Output     string
	Format     Format
	FrameEvery int // overrides the renderer's steps per frame when positive
}

// New creates a queued Job after validating its configuration.
func New(config Config) (*Job, error) {
	if err := validateDimensions(config.Width, config.Height); err != nil {
		return nil, err
	}
	if err := validateOutput(config.Output); err != nil {
		return nil, err
	}
	if config.FrameEvery < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameEvery, config.FrameEvery)
	}
	if config.Format == "" {
		config.Format = FormatMP4
	}
	if config.Format != FormatMP4 && config.Format != FormatRaw {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, config.Format)
	}

	now := time.Now().UTC()
	return &Job{
		ID:         config.ID,
		Width:      config.Width,
		Height:     config.Height,
		Seed:       config.Seed,
		Output:     config.Output,
		Format:     config.Format,
		FrameEvery: config.FrameEvery,
		Status:     StatusQueued,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// FileName is the output file name including the format's extension.
func (j *Job) FileName() string {
	if j.Format == FormatRaw {
		return j.Output + ".rgb"
	}
	return j.Output + ".mp4"
}

// Start moves a queued job to running.
func (j *Job) Start() error {
	if j.Status != StatusQueued {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusRunning)
	}
	j.Status = StatusRunning
	j.touch()
	return nil
}

// Progress records how far a running job got.
func (j *Job) Progress(steps, frames int) {
	j.Steps = steps
	j.Frames = frames
	j.touch()
}

// Finish marks a running job done.
func (j *Job) Finish() error {
	if j.Status != StatusRunning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusDone)
	}
	j.Status = StatusDone
	j.touch()
	return nil
}

// Fail marks an unfinished job failed with cause.
func (j *Job) Fail(cause error) error {
	if j.Terminal() {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, StatusFailed)
	}
	j.Status = StatusFailed
	if cause != nil {
		j.Error = cause.Error()
	}
	j.touch()
	return nil
}

// Terminal reports whether the job has stopped for good.
func (j *Job) Terminal() bool {
	return j.Status == StatusDone || j.Status == StatusFailed
}

func (j *Job) touch() {
	j.UpdatedAt = time.Now().UTC()
}

func validateDimensions(width, height int) error {
	if width <= 0 || height <= 0 || width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d (max %d)", ErrInvalidDimensions, width, height, MaxDimension)
	}
	return nil
}

func validateOutput(output string) error {
	if output == "" || len(output) > maxOutputLen {
		return fmt.Errorf("%w: length must be 1..%d", ErrInvalidOutput, maxOutputLen)
	}
	if !outputRegex.MatchString(output) {
		return fmt.Errorf("%w: %q", ErrInvalidOutput, output)
	}
	return nil
}
