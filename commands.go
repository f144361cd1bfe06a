package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/beka-birhanu/wilson-render/config"
	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/beka-birhanu/wilson-render/service"
	"github.com/beka-birhanu/wilson-render/video"
	"github.com/spf13/cobra"
)

type renderOptions struct {
	width, height      int
	seed               int64
	fps                int
	cellSize, cellGap  int
	holdFrames         int
	frameEvery         int
	maxFrames          int
	output, ffmpegPath string
}

type serveOptions struct {
	addr, token           string
	fps                   int
	cellSize, cellGap     int
	holdFrames            int
	frameEvery            int
	maxFrames             int
	outputDir, ffmpegPath string
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "wilson-render",
		Short:         "Generate uniform spanning-tree mazes with Wilson's algorithm and animate them",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRenderCommand(), newServeCommand(), newPrintCommand())
	return root
}

func newRenderCommand() *cobra.Command {
	opts := renderOptions{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Animate one maze into a video (.mp4 through ffmpeg, .rgb raw frames)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.width, "width", config.Envs.MazeWidth, "maze width in cells")
	f.IntVar(&opts.height, "height", config.Envs.MazeHeight, "maze height in cells")
	f.Int64Var(&opts.seed, "seed", config.Envs.MazeSeed, "random seed, 0 picks one from the clock")
	f.IntVar(&opts.fps, "fps", config.Envs.FPS, "frames per second")
	f.IntVar(&opts.cellSize, "cell-size", config.Envs.CellSize, "cell size in pixels")
	f.IntVar(&opts.cellGap, "cell-gap", config.Envs.CellGap, "pixels around each cell")
	f.IntVar(&opts.holdFrames, "hold", config.Envs.HoldFrames, "copies of the finished maze at the end")
	f.IntVar(&opts.frameEvery, "every", config.Envs.FrameEvery, "write one frame every N steps")
	f.IntVar(&opts.maxFrames, "max-frames", config.Envs.MaxFrames, "frame budget, the interval doubles to stay inside it")
	f.StringVarP(&opts.output, "output", "o", filepath.Join(config.Envs.OutputDir, "maze.mp4"), "output file")
	f.StringVar(&opts.ffmpegPath, "ffmpeg", config.Envs.FFmpegPath, "ffmpeg binary")
	return cmd
}

func runRender(cmd *cobra.Command, opts renderOptions) error {
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	format := job.FormatMP4
	if strings.EqualFold(filepath.Ext(opts.output), ".rgb") {
		format = job.FormatRaw
	}

	if err := initPainter(opts.cellSize, opts.cellGap); err != nil {
		return err
	}
	if err := initRenderer(&service.RenderOptions{FPS: opts.fps, HoldFrames: opts.holdFrames, FrameEvery: opts.frameEvery, MaxFrames: opts.maxFrames}); err != nil {
		return err
	}

	width, height := renderer.FrameSize(opts.width, opts.height)
	sink, err := video.NewFactory(opts.ffmpegPath).Open(format, width, height, renderer.FPS(), opts.output)
	if err != nil {
		return err
	}

	res, err := renderer.Render(cmd.Context(), service.RenderRequest{Width: opts.width, Height: opts.height, Seed: opts.seed}, sink)
	if closeErr := sink.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", opts.output, err)
	}

	appLogger.Info(fmt.Sprintf("Wrote %s: %dx%d maze, seed %d, %d steps, %d frames (%dx%d) in %s",
		opts.output, opts.width, opts.height, opts.seed, res.Steps, res.Frames, res.FrameWidth, res.FrameHeight, res.Duration.Round(time.Millisecond)))
	return nil
}

func newServeCommand() *cobra.Command {
	opts := serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the maze and render job HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort), "listen address")
	f.StringVar(&opts.token, "token", config.Envs.APIToken, "bearer token required to submit renders")
	f.IntVar(&opts.fps, "fps", config.Envs.FPS, "frames per second")
	f.IntVar(&opts.cellSize, "cell-size", config.Envs.CellSize, "cell size in pixels")
	f.IntVar(&opts.cellGap, "cell-gap", config.Envs.CellGap, "pixels around each cell")
	f.IntVar(&opts.holdFrames, "hold", config.Envs.HoldFrames, "copies of the finished maze at the end")
	f.IntVar(&opts.frameEvery, "every", config.Envs.FrameEvery, "write one frame every N steps")
	f.IntVar(&opts.maxFrames, "max-frames", config.Envs.MaxFrames, "frame budget, the interval doubles to stay inside it")
	f.StringVar(&opts.outputDir, "output-dir", config.Envs.OutputDir, "directory render jobs write into")
	f.StringVar(&opts.ffmpegPath, "ffmpeg", config.Envs.FFmpegPath, "ffmpeg binary")
	return cmd
}

func newPrintCommand() *cobra.Command {
	var width, height int
	var seed int64
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Generate a maze and print it as text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			m, err := maze.New(width, height, seed)
			if err != nil {
				return err
			}
			if _, err := m.RunToCompletion(); err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), m.String())
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&width, "width", config.Envs.MazeWidth, "maze width in cells")
	f.IntVar(&height, "height", config.Envs.MazeHeight, "maze height in cells")
	f.Int64Var(&seed, "seed", config.Envs.MazeSeed, "random seed, 0 picks one from the clock")
	return cmd
}
