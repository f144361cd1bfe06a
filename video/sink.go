// Package video provides destinations for raw rgb24 frame streams.
package video

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

var (
	ErrFFmpegNotFound = errors.New("ffmpeg binary not found")
	ErrInvalidStream  = errors.New("frame size and fps must be positive")
)

// StreamConfig describes the raw stream written to a sink.
type StreamConfig struct {
	Width  int
	Height int
	FPS    int
}

func (c StreamConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.FPS <= 0 {
		return fmt.Errorf("%w: %dx%d at %d fps", ErrInvalidStream, c.Width, c.Height, c.FPS)
	}
	return nil
}

// FFmpegSink pipes frames into an ffmpeg process that encodes them to an
// H.264 file.
type FFmpegSink struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *bufio.Writer
}

// FFmpegArgs returns the ffmpeg arguments for encoding a raw rgb24 stream
// read from stdin into output.
func FFmpegArgs(cfg StreamConfig, output string) []string {
	return []string{
		"-y",
		"-loglevel", "error",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-r", strconv.Itoa(cfg.FPS),
		"-i", "pipe:0",
		"-pix_fmt", "yuv420p",
		"-profile:v", "high",
		"-level:v", "4.1",
		"-crf:v", "20",
		output,
	}
}

// NewFFmpegSink starts ffmpeg writing to output. binary may be empty to
// look ffmpeg up on PATH.
func NewFFmpegSink(binary string, cfg StreamConfig, output string) (*FFmpegSink, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if binary == "" {
		binary = "ffmpeg"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFFmpegNotFound, binary)
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	cmd := exec.Command(path, FFmpegArgs(cfg, output)...)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("opening ffmpeg stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting ffmpeg: %w", err)
	}

	return &FFmpegSink{
		cmd:    cmd,
		stdin:  stdin,
		writer: bufio.NewWriterSize(stdin, cfg.Width*cfg.Height*3),
	}, nil
}

// Write streams raw frame bytes to ffmpeg.
func (s *FFmpegSink) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

// Close flushes pending frames, closes ffmpeg's input and waits for the
// encoder to finish.
func (s *FFmpegSink) Close() error {
	flushErr := s.writer.Flush()
	closeErr := s.stdin.Close()
	waitErr := s.cmd.Wait()
	if flushErr != nil {
		return fmt.Errorf("flushing frames to ffmpeg: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing ffmpeg stdin: %w", closeErr)
	}
	if waitErr != nil {
		return fmt.Errorf("ffmpeg exited: %w", waitErr)
	}
	return nil
}

// RawSink writes the raw rgb24 stream to a file.
type RawSink struct {
	file   *os.File
	writer *bufio.Writer
}

// NewRawSink creates (or truncates) output.
func NewRawSink(cfg StreamConfig, output string) (*RawSink, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	return &RawSink{file: f, writer: bufio.NewWriterSize(f, cfg.Width*cfg.Height*3)}, nil
}

// Write appends raw frame bytes.
func (s *RawSink) Write(p []byte) (int, error) {
	return s.writer.Write(p)
}

// Close flushes and closes the file.
func (s *RawSink) Close() error {
	if err := s.writer.Flush(); err != nil {
		_ = s.file.Close()
		return err
	}
	return s.file.Close()
}
