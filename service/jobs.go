package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxConcurrent = 2
	defaultOutputDir     = "renders"
	progressSaveEvery    = 120 // frames between progress writes to the store
)

var ErrManagerStopped = errors.New("job manager stopped")

// JobOptions configures a JobManager.
type JobOptions struct {
	OutputDir     string
	MaxConcurrent int
}

// JobManager renders submitted jobs in the background, at most
// MaxConcurrent at a time, and records their progress in a JobStore.
type JobManager struct {
	store    i.JobStore
	locker   i.OutputLocker
	sinks    i.SinkFactory
	renderer *Renderer
	logger   i.Logger
	metrics  *Metrics
	opts     *JobOptions

	slots  chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewJobManager creates a JobManager. metrics may be nil.
func NewJobManager(store i.JobStore, locker i.OutputLocker, sinks i.SinkFactory, renderer *Renderer, logger i.Logger, metrics *Metrics, opts *JobOptions) (*JobManager, error) {
	if store == nil || locker == nil || sinks == nil || renderer == nil || logger == nil {
		return nil, errors.New("job manager dependencies must not be nil")
	}
	if opts == nil {
		opts = &JobOptions{}
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = defaultMaxConcurrent
	}
	if opts.OutputDir == "" {
		opts.OutputDir = defaultOutputDir
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &JobManager{
		store:    store,
		locker:   locker,
		sinks:    sinks,
		renderer: renderer,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
		slots:    make(chan struct{}, opts.MaxConcurrent),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Submit validates cfg, stores a queued job and starts rendering it.
// A zero cfg.ID is replaced with a fresh one.
func (m *JobManager) Submit(ctx context.Context, cfg job.Config) (uuid.UUID, error) {
	if m.ctx.Err() != nil {
		return uuid.Nil, ErrManagerStopped
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}

	j, err := job.New(cfg)
	if err != nil {
		return uuid.Nil, err
	}
	if err := m.store.Save(ctx, j); err != nil {
		return uuid.Nil, fmt.Errorf("saving job %s: %w", j.ID, err)
	}
	m.metrics.jobStatus(j.Status)
	m.logger.Info(fmt.Sprintf("job %s queued: %dx%d seed %d -> %s", j.ID, j.Width, j.Height, j.Seed, j.FileName()))

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.run(j)
	}()

	return j.ID, nil
}

// Job returns the stored record of a job.
func (m *JobManager) Job(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	return m.store.ByID(ctx, id)
}

// Wait blocks until every submitted job has finished.
func (m *JobManager) Wait() {
	m.wg.Wait()
}

// Stop cancels running jobs and waits for them to exit.
func (m *JobManager) Stop() {
	m.cancel()
	m.wg.Wait()
}

func (m *JobManager) run(j *job.Job) {
	select {
	case m.slots <- struct{}{}:
		defer func() { <-m.slots }()
	case <-m.ctx.Done():
		m.finish(j, m.ctx.Err())
		return
	}

	path := filepath.Join(m.opts.OutputDir, j.FileName())
	lease, err := m.locker.Lock(m.ctx, path)
	if err != nil {
		m.finish(j, fmt.Errorf("locking output %s: %w", path, err))
		return
	}
	defer func() {
		if err := lease.Unlock(); err != nil {
			m.logger.Warning(fmt.Sprintf("job %s: releasing output lock: %v", j.ID, err))
		}
	}()

	if err := j.Start(); err != nil {
		m.finish(j, err)
		return
	}
	m.save(j)
	m.metrics.jobStatus(j.Status)

	ctx, cancel := context.WithCancelCause(m.ctx)
	defer cancel(nil)
	go func() {
		select {
		case <-lease.Lost():
			cancel(lease.Err())
		case <-ctx.Done():
		}
	}()

	err = m.render(ctx, j, path)
	if leaseErr := lease.Err(); leaseErr != nil {
		err = fmt.Errorf("writing %s: %w", path, leaseErr)
	}
	m.finish(j, err)
}

func (m *JobManager) render(ctx context.Context, j *job.Job, path string) (err error) {
	width, height := m.renderer.FrameSize(j.Width, j.Height)
	sink, err := m.sinks.Open(j.Format, width, height, m.renderer.FPS(), path)
	if err != nil {
		return fmt.Errorf("opening sink: %w", err)
	}
	defer func() {
		if closeErr := sink.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing sink: %w", closeErr)
		}
	}()

	req := RenderRequest{
		Width:      j.Width,
		Height:     j.Height,
		Seed:       j.Seed,
		FrameEvery: j.FrameEvery,
		Progress: func(steps, frames int) {
			j.Progress(steps, frames)
			if frames%progressSaveEvery == 0 {
				m.save(j)
			}
		},
	}

	res, err := m.renderer.Render(ctx, req, sink)
	if err != nil {
		return err
	}
	j.Progress(res.Steps, res.Frames)
	return nil
}

func (m *JobManager) finish(j *job.Job, cause error) {
	if cause != nil {
		if err := j.Fail(cause); err != nil {
			m.logger.Error(fmt.Sprintf("job %s: %v", j.ID, err))
		}
		m.logger.Error(fmt.Sprintf("job %s failed: %v", j.ID, cause))
	} else {
		if err := j.Finish(); err != nil {
			m.logger.Error(fmt.Sprintf("job %s: %v", j.ID, err))
		}
		m.logger.Info(fmt.Sprintf("job %s done: %d steps, %d frames", j.ID, j.Steps, j.Frames))
	}
	m.save(j)
	m.metrics.jobStatus(j.Status)
}

// save stores j with a context that outlives cancellation so final
// statuses are always recorded.
func (m *JobManager) save(j *job.Job) {
	if err := m.store.Save(context.WithoutCancel(m.ctx), j); err != nil {
		m.logger.Error(fmt.Sprintf("job %s: saving: %v", j.ID, err))
	}
}
