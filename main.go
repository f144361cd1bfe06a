package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/beka-birhanu/wilson-render/api"
	api_i "github.com/beka-birhanu/wilson-render/api/i"
	mazeapi "github.com/beka-birhanu/wilson-render/api/maze"
	renderapi "github.com/beka-birhanu/wilson-render/api/render"
	"github.com/beka-birhanu/wilson-render/config"
	"github.com/beka-birhanu/wilson-render/infrastruture/jobstore"
	"github.com/beka-birhanu/wilson-render/infrastruture/lock"
	logger "github.com/beka-birhanu/wilson-render/infrastruture/log"
	"github.com/beka-birhanu/wilson-render/render"
	"github.com/beka-birhanu/wilson-render/service"
	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/beka-birhanu/wilson-render/video"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Global variables for dependencies
var (
	redisClient      *redis.Client
	metrics          *service.Metrics
	painter          *render.Painter
	renderer         *service.Renderer
	jobStore         i.JobStore
	outputLocker     i.OutputLocker
	jobManager       *service.JobManager
	mazeController   api_i.Controller
	renderController api_i.Controller
	router           *api.Router
	appLogger        i.Logger
)

func newLogger(prefix, color string) i.Logger {
	l, err := logger.New(prefix, color, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating %s logger: %v\n", prefix, err)
		os.Exit(1)
	}
	return l
}

func initPainter(cellSize, cellGap int) error {
	var err error
	painter, err = render.NewPainter(cellSize, cellGap, render.DefaultPalette)
	if err != nil {
		return fmt.Errorf("creating painter: %w", err)
	}
	return nil
}

func initRenderer(opts *service.RenderOptions) error {
	var err error
	renderer, err = service.NewRenderer(painter, newLogger("RENDER", config.ColorCyan), metrics, opts)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}
	appLogger.Info("Renderer initialized")
	return nil
}

func initRedis(ctx context.Context) error {
	if config.Envs.RedisAddr == "" {
		appLogger.Info("REDIS_ADDR not set, keeping jobs in memory")
		return nil
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	appLogger.Info("Connected to Redis")
	return nil
}

func initJobStorage() error {
	if redisClient == nil {
		jobStore = jobstore.NewMemory()
		outputLocker = lock.NewLocal()
		appLogger.Info("In-memory job store initialized")
		return nil
	}

	var err error
	jobStore, err = jobstore.NewRedis(redisClient, "wilson", config.Envs.JobTTLSeconds)
	if err != nil {
		return fmt.Errorf("creating redis job store: %w", err)
	}
	outputLocker, err = lock.NewRedis(redisClient, time.Duration(config.Envs.LockSeconds)*time.Second)
	if err != nil {
		return fmt.Errorf("creating redis output locker: %w", err)
	}
	appLogger.Info("Redis job store initialized")
	return nil
}

func initJobManager(ffmpegPath, outputDir string) error {
	var err error
	jobManager, err = service.NewJobManager(
		jobStore,
		outputLocker,
		video.NewFactory(ffmpegPath),
		renderer,
		newLogger("JOBS", config.ColorMagenta),
		metrics,
		&service.JobOptions{OutputDir: outputDir, MaxConcurrent: config.Envs.MaxJobs},
	)
	if err != nil {
		return fmt.Errorf("creating job manager: %w", err)
	}
	appLogger.Info("Job manager initialized")
	return nil
}

func initControllers() error {
	var err error
	mazeController, err = mazeapi.NewMazeController(painter, metrics, newLogger("API", config.ColorBlue))
	if err != nil {
		return fmt.Errorf("creating maze controller: %w", err)
	}
	renderController, err = renderapi.NewRenderController(jobManager)
	if err != nil {
		return fmt.Errorf("creating render controller: %w", err)
	}
	appLogger.Info("Controllers initialized")
	return nil
}

func initRouter(addr, token string) {
	var authorization gin.HandlerFunc
	if token != "" {
		authorization = api.Authorize(token)
	} else {
		appLogger.Warning("API_TOKEN not set, render submission is open")
	}
	router = api.NewRouter(api.Config{
		Addr:                    addr,
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{mazeController, renderController},
		AuthorizationMiddleware: authorization,
		Metrics:                 metrics.Handler(),
	})
	appLogger.Info("Router initialized")
}

// serve wires the HTTP service and runs it until ctx ends.
func serve(ctx context.Context, opts serveOptions) error {
	gin.SetMode(config.Envs.GinMode)
	metrics = service.NewMetrics()

	if err := initPainter(opts.cellSize, opts.cellGap); err != nil {
		return err
	}
	if err := initRenderer(&service.RenderOptions{FPS: opts.fps, HoldFrames: opts.holdFrames, FrameEvery: opts.frameEvery, MaxFrames: opts.maxFrames}); err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := initRedis(connectCtx); err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if err := initJobStorage(); err != nil {
		return err
	}
	if err := initJobManager(opts.ffmpegPath, opts.outputDir); err != nil {
		return err
	}
	defer jobManager.Stop()

	if err := initControllers(); err != nil {
		return err
	}
	initRouter(opts.addr, opts.token)

	appLogger.Info(fmt.Sprintf("Listening on %s", opts.addr))
	return router.Run(ctx)
}

func main() {
	appLogger = newLogger("APP", config.ColorGreen)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		appLogger.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
