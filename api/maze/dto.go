// Package mazeapi provides the request and response shapes for generating and inspecting mazes.
package mazeapi

import (
	"github.com/beka-birhanu/wilson-render/maze"
	"github.com/google/uuid"
)

// GenerateRequest asks for a maze of the given size. A missing seed is drawn
// from the clock and echoed back in the response.
type GenerateRequest struct {
	Width  int    `json:"width" binding:"required,min=1"`
	Height int    `json:"height" binding:"required,min=1"`
	Seed   *int64 `json:"seed"`
}

// MazeResponse describes a finished maze.
type MazeResponse struct {
	ID     uuid.UUID       `json:"id"`
	Width  int             `json:"width"`
	Height int             `json:"height"`
	Seed   int64           `json:"seed"`
	Steps  int             `json:"steps"`
	Stats  maze.Stats      `json:"stats"`
	Cells  [][]maze.Cell   `json:"cells"`
	Edges  [][2]maze.Coord `json:"edges"`
	ASCII  string          `json:"ascii"`
}

func newMazeResponse(id uuid.UUID, m *maze.Maze) *MazeResponse {
	return &MazeResponse{
		ID:     id,
		Width:  m.Width(),
		Height: m.Height(),
		Seed:   m.Seed(),
		Steps:  m.Stats().Steps,
		Stats:  m.Stats(),
		Cells:  m.Cells(),
		Edges:  m.Edges(),
		ASCII:  m.String(),
	}
}
