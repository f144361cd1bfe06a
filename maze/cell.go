package maze

import (
	"fmt"
	"strings"
)

// Cell represents a single cell in a maze grid, derived from the spanning
// tree: a wall is open when the neighbor on that side is the cell's tree
// parent or child.
type Cell struct {
	NorthWall   bool        `json:"north_wall"`
	SouthWall   bool        `json:"south_wall"`
	EastWall    bool        `json:"east_wall"`
	WestWall    bool        `json:"west_wall"`
	Affiliation Affiliation `json:"affiliation"`
}

// Cells returns the wall view of the grid, indexed [row][col].
func (m *Maze) Cells() [][]Cell {
	grid := make([][]Cell, m.height)
	for y := range grid {
		grid[y] = make([]Cell, m.width)
		for x := range grid[y] {
			grid[y][x] = Cell{
				NorthWall:   true,
				SouthWall:   true,
				EastWall:    true,
				WestWall:    true,
				Affiliation: m.nodes[m.grid[x][y]].affiliation,
			}
		}
	}

	for _, e := range m.Edges() {
		openWall(grid, e[0], e[1])
	}
	return grid
}

// openWall removes the wall between two adjacent cells.
func openWall(grid [][]Cell, from, to Coord) {
	switch to.add(Coord{X: -from.X, Y: -from.Y}) {
	case directions[0].Delta:
		grid[from.Y][from.X].NorthWall = false
		grid[to.Y][to.X].SouthWall = false
	case directions[1].Delta:
		grid[from.Y][from.X].SouthWall = false
		grid[to.Y][to.X].NorthWall = false
	case directions[2].Delta:
		grid[from.Y][from.X].EastWall = false
		grid[to.Y][to.X].WestWall = false
	case directions[3].Delta:
		grid[from.Y][from.X].WestWall = false
		grid[to.Y][to.X].EastWall = false
	}
}

// String provides a textual representation of the maze. Cells still on the
// random walk are marked with '*', unvisited cells with '.'.
func (m *Maze) String() string {
	var output strings.Builder
	cells := m.Cells()

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", m.width) + "\n")

	for row := 0; row < m.height; row++ {
		cellRow := "|"
		for col := 0; col < m.width; col++ {
			cell := cells[row][col]
			switch cell.Affiliation {
			case RandomWalk:
				cellRow += " * "
			case Unused:
				cellRow += " . "
			default:
				cellRow += "   "
			}
			if cell.EastWall {
				cellRow += "|"
			} else {
				cellRow += " "
			}
		}
		output.WriteString(cellRow + "\n")

		wallRow := "+"
		for col := 0; col < m.width; col++ {
			if cells[row][col].SouthWall {
				wallRow += "---+"
			} else {
				wallRow += "   +"
			}
		}
		output.WriteString(wallRow + "\n")
	}

	return output.String()
}

// GoString identifies the maze in debug output.
func (m *Maze) GoString() string {
	c := m.Counts()
	return fmt.Sprintf("maze.Maze{%dx%d seed=%d state=%s tree=%d unused=%d walk=%d}",
		m.width, m.height, m.seed, m.state, c.Tree, c.Unused, c.RandomWalk)
}
