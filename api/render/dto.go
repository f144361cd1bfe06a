// Package renderapi exposes render job submission and status over HTTP.
package renderapi

import (
	"github.com/google/uuid"
)

// SubmitRequest asks for an animation of a maze written under Output.
type SubmitRequest struct {
	Width      int    `json:"width" binding:"required"`
	Height     int    `json:"height" binding:"required"`
	Seed       *int64 `json:"seed"`
	Output     string `json:"output" binding:"required"`
	Format     string `json:"format"`
	FrameEvery int    `json:"frame_every"` // steps per frame, zero for the server default
}

// SubmitResponse carries the id to poll for the job's status.
type SubmitResponse struct {
	ID uuid.UUID `json:"id"`
}
