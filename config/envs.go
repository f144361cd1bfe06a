package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP        string // Host IP for the server
	RESTPort      int    // Port for the REST API
	GinMode       string // Mode for the Gin framework (e.g., release, debug, test)
	APIToken      string // Bearer token guarding job submission; empty disables the check
	MazeWidth     int    // Default maze width in cells
	MazeHeight    int    // Default maze height in cells
	MazeSeed      int64  // Default seed; zero picks one from the clock
	FPS           int    // Frames per second of rendered videos
	CellSize      int    // Cell size in pixels
	CellGap       int    // Pixels around every cell
	HoldFrames    int    // Copies of the final frame appended to a video
	FrameEvery    int    // Write one frame every N engine steps
	MaxFrames     int    // Frame budget of one render; the interval doubles to stay inside it
	FFmpegPath    string // ffmpeg binary, looked up on PATH when bare
	OutputDir     string // Directory render jobs write videos into
	RedisAddr     string // Redis address; empty keeps job state in memory
	RedisPassword string // Password for Redis
	RedisDB       int    // Redis database number
	JobTTLSeconds int    // How long job records are kept in Redis
	LockSeconds   int    // Expiry of an output lock between extensions
	MaxJobs       int    // Concurrent render jobs
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	return Config{
		HostIP:        getEnvWithDefault("HOST_IP", "0.0.0.0"),
		RESTPort:      getEnvAsIntWithDefault("REST_PORT", 8080),
		GinMode:       getEnvWithDefault("GIN_MODE", "release"),
		APIToken:      getEnvWithDefault("API_TOKEN", ""),
		MazeWidth:     getEnvAsIntWithDefault("MAZE_WIDTH", 4),
		MazeHeight:    getEnvAsIntWithDefault("MAZE_HEIGHT", 5),
		MazeSeed:      int64(getEnvAsIntWithDefault("MAZE_SEED", 1)),
		FPS:           getEnvAsIntWithDefault("FPS", 60),
		CellSize:      getEnvAsIntWithDefault("CELL_SIZE", 10),
		CellGap:       getEnvAsIntWithDefault("CELL_GAP", 2),
		HoldFrames:    getEnvAsIntWithDefault("HOLD_FRAMES", 60),
		FrameEvery:    getEnvAsIntWithDefault("FRAME_EVERY", 1),
		MaxFrames:     getEnvAsIntWithDefault("MAX_FRAMES", 18000),
		FFmpegPath:    getEnvWithDefault("FFMPEG_PATH", "ffmpeg"),
		OutputDir:     getEnvWithDefault("OUTPUT_DIR", "renders"),
		RedisAddr:     getEnvWithDefault("REDIS_ADDR", ""),
		RedisPassword: getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsIntWithDefault("REDIS_DB", 0),
		JobTTLSeconds: getEnvAsIntWithDefault("JOB_TTL_SECONDS", 3600),
		LockSeconds:   getEnvAsIntWithDefault("LOCK_SECONDS", 30),
		MaxJobs:       getEnvAsIntWithDefault("MAX_JOBS", 2),
	}
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault retrieves an integer environment variable or returns the default if unset.
// A value that is set but not an integer is a fatal configuration error.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
