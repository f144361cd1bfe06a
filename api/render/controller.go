package renderapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/beka-birhanu/wilson-render/job"
	"github.com/beka-birhanu/wilson-render/service"
	"github.com/beka-birhanu/wilson-render/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const lookupTimeout = 500 * time.Millisecond

// RenderController accepts render jobs and reports their progress.
type RenderController struct {
	jobs i.JobManager
}

// NewRenderController initializes a RenderController.
func NewRenderController(jobs i.JobManager) (*RenderController, error) {
	if jobs == nil {
		return nil, errors.New("job manager is nil")
	}
	return &RenderController{jobs: jobs}, nil
}

// RegisterPublic registers public routes.
func (rc *RenderController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/renders/:ID", rc.status)
}

// RegisterProtected registers protected routes.
func (rc *RenderController) RegisterProtected(route *gin.RouterGroup) {
	route.POST("/renders", rc.submit)
}

// submit queues a render job.
func (rc *RenderController) submit(ctx *gin.Context) {
	var request SubmitRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := time.Now().UnixNano()
	if request.Seed != nil {
		seed = *request.Seed
	}

	id, err := rc.jobs.Submit(ctx, job.Config{
		Width:      request.Width,
		Height:     request.Height,
		Seed:       seed,
		Output:     request.Output,
		Format:     job.Format(request.Format),
		FrameEvery: request.FrameEvery,
	})
	switch {
	case err == nil:
		ctx.JSON(http.StatusAccepted, &SubmitResponse{ID: id})
	case errors.Is(err, job.ErrInvalidDimensions), errors.Is(err, job.ErrInvalidOutput),
		errors.Is(err, job.ErrInvalidFormat), errors.Is(err, job.ErrInvalidFrameEvery):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrManagerStopped):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "error while submitting render"})
	}
}

// status returns the stored record of a job.
func (rc *RenderController) status(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	j, err := rc.jobs.Job(timeoutCtx, id)
	if errors.Is(err, i.ErrJobNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, j)
}
