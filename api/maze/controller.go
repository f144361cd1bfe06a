package mazeapi

import (
	"errors"
	"fmt"
	"image/png"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/beka-birhanu/wilson-render/render"
	"github.com/beka-birhanu/wilson-render/service"
	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxImageScale = 8
	registryLimit = 64
)

// MazeController generates mazes on request and serves them back as JSON or PNG.
type MazeController struct {
	painter *render.Painter
	metrics *service.Metrics
	logger  i.Logger
	mazes   *registry
}

// NewMazeController initializes a MazeController. metrics may be nil.
func NewMazeController(painter *render.Painter, metrics *service.Metrics, logger i.Logger) (*MazeController, error) {
	if painter == nil || logger == nil {
		return nil, errors.New("maze controller needs a painter and a logger")
	}
	return &MazeController{
		painter: painter,
		metrics: metrics,
		logger:  logger,
		mazes:   newRegistry(registryLimit),
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.POST("", mc.generate)
		mazes.GET("/:ID", mc.get)
		mazes.GET("/:ID/image", mc.image)
	}
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {}

// generate runs a maze to completion and stores it for later lookups.
func (mc *MazeController) generate(ctx *gin.Context) {
	var request GenerateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if request.Width > job.MaxDimension || request.Height > job.MaxDimension {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("maze dimensions are limited to %d", job.MaxDimension)})
		return
	}

	seed := time.Now().UnixNano()
	if request.Seed != nil {
		seed = *request.Seed
	}

	m, err := maze.New(request.Width, request.Height, seed)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	steps, err := m.RunToCompletion()
	if err != nil {
		mc.logger.Error(fmt.Sprintf("generating %dx%d maze (seed %d): %v", request.Width, request.Height, seed, err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while generating maze"})
		return
	}
	mc.metrics.MazeGenerated(steps)

	id := uuid.New()
	mc.mazes.put(id, m)
	ctx.JSON(http.StatusCreated, newMazeResponse(id, m))
}

// get returns a stored maze.
func (mc *MazeController) get(ctx *gin.Context) {
	id, m, ok := mc.lookup(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, newMazeResponse(id, m))
}

// image renders a stored maze as PNG, optionally scaled up by ?scale=N.
func (mc *MazeController) image(ctx *gin.Context) {
	_, m, ok := mc.lookup(ctx)
	if !ok {
		return
	}

	scale, err := strconv.Atoi(ctx.DefaultQuery("scale", "1"))
	if err != nil || scale < 1 || scale > maxImageScale {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("scale must be an integer in 1..%d", maxImageScale)})
		return
	}

	pic, err := mc.painter.Picture(m)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if scale > 1 {
		bounds := pic.Bounds()
		pic, err = render.Thumbnail(pic, bounds.Dx()*scale, bounds.Dy()*scale)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	ctx.Header("Content-Type", "image/png")
	ctx.Status(http.StatusOK)
	if err := png.Encode(ctx.Writer, pic); err != nil {
		mc.logger.Error(fmt.Sprintf("encoding maze image: %v", err))
	}
}

func (mc *MazeController) lookup(ctx *gin.Context) (uuid.UUID, *maze.Maze, bool) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return uuid.Nil, nil, false
	}
	m, ok := mc.mazes.get(id)
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "maze not found"})
		return uuid.Nil, nil, false
	}
	return id, m, true
}
