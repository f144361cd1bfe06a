/*
Package maze generates perfect mazes on a rectangular grid with Wilson's
algorithm.

Every cell of the grid is a node in a fixed pool. A node always belongs to
exactly one of three collections: the spanning tree of cells already carved
into the maze, the list of cells on the current loop-erased random walk, or
the list of cells not visited yet. The engine moves nodes between them one
step at a time so a renderer can draw every intermediate state.
*/
package maze

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrOutOfBounds           = errors.New("coordinate out of bounds")
	ErrEmptyList             = errors.New("list is empty")
	ErrNodeNotInList         = errors.New("node is not in list")
	ErrTreeAlreadyRooted     = errors.New("tree already has a root")
	ErrParentNotInTree       = errors.New("parent is not in the tree")
	ErrChildInTree           = errors.New("child is already in the tree")
	ErrChildCapacityExceeded = errors.New("node has no room for another child")
	ErrEmptyGrid             = errors.New("grid must be at least 1x1")
	ErrGridTooLarge          = errors.New("grid has too many cells")
	ErrDeadEnd               = errors.New("node has no neighbors")
)

// Direction names one grid move.
type Direction struct {
	Name  string
	Delta Coord
}

// directions is the order neighbors are enumerated in. The order is fixed so
// a seed always produces the same maze.
var directions = [4]Direction{
	{Name: "North", Delta: Coord{X: 0, Y: -1}},
	{Name: "South", Delta: Coord{X: 0, Y: 1}},
	{Name: "East", Delta: Coord{X: 1, Y: 0}},
	{Name: "West", Delta: Coord{X: -1, Y: 0}},
}

// Directions returns a copy of the neighbor enumeration order.
func Directions() []Direction {
	out := make([]Direction, len(directions))
	copy(out, directions[:])
	return out
}

// State is the engine's position in the generation state machine.
type State uint8

const (
	Initializing State = iota
	WalkStart
	Walking
	Complete
	Failed
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case WalkStart:
		return "walk-start"
	case Walking:
		return "walking"
	case Complete:
		return "complete"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Unknown state: %d", uint8(s))
}

// StepResult tells the caller whether to keep stepping.
type StepResult uint8

const (
	StillGenerating StepResult = iota
	Completed
)

// Counts is the number of nodes in each collection.
type Counts struct {
	Tree       int `json:"tree"`
	Unused     int `json:"unused"`
	RandomWalk int `json:"random_walk"`
}

// Stats accumulates what the engine did during a run.
type Stats struct {
	Steps       int `json:"steps"`
	Walks       int `json:"walks"`
	LoopsErased int `json:"loops_erased"`
	ErasedNodes int `json:"erased_nodes"`
}

// NodeView is the read-only picture of one node handed to visitors.
type NodeView struct {
	Pos         Coord
	Affiliation Affiliation
	Parent      Coord
	HasParent   bool
}

// Maze owns the node pool and the three collections built over it.
type Maze struct {
	width  int
	height int
	seed   int64
	nodes  pool
	grid   [][]NodeID // grid[x][y]

	tree       *SpanningTree
	unused     *List
	randomWalk *List
	rng        *Random

	state   State
	current NodeID
	stats   Stats
	err     error
}

// New allocates a width x height maze with every node on the Unused list in
// column-major order. Generation starts on the first call to Step.
func New(width, height int, seed int64) (*Maze, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if width > math.MaxInt32/height {
		return nil, fmt.Errorf("%w: %dx%d", ErrGridTooLarge, width, height)
	}

	nodes := newPool(width * height)
	m := &Maze{
		width:      width,
		height:     height,
		seed:       seed,
		nodes:      nodes,
		grid:       make([][]NodeID, width),
		tree:       newSpanningTree(nodes),
		unused:     newList(nodes, Unused),
		randomWalk: newList(nodes, RandomWalk),
		rng:        NewRandom(seed),
		state:      Initializing,
		current:    NoNode,
	}

	n := 0
	for x := 0; x < width; x++ {
		m.grid[x] = make([]NodeID, height)
		for y := 0; y < height; y++ {
			id := NodeID(n)
			nodes[id].reset(Coord{X: x, Y: y})
			m.grid[x][y] = id
			m.unused.pushBack(id)
			n++
		}
	}
	return m, nil
}

// Width returns the number of columns.
func (m *Maze) Width() int { return m.width }

// Height returns the number of rows.
func (m *Maze) Height() int { return m.height }

// Seed returns the seed the maze was created with.
func (m *Maze) Seed() int64 { return m.seed }

// State returns the current engine state.
func (m *Maze) State() State { return m.state }

// Stats returns the counters accumulated so far.
func (m *Maze) Stats() Stats { return m.stats }

// Err returns the error that stopped generation, if any.
func (m *Maze) Err() error { return m.err }

// Counts returns the size of each collection.
func (m *Maze) Counts() Counts {
	return Counts{
		Tree:       m.tree.Len(),
		Unused:     m.unused.Len(),
		RandomWalk: m.randomWalk.Len(),
	}
}

// Tree exposes the spanning tree for inspection.
func (m *Maze) Tree() *SpanningTree { return m.tree }

// UnusedList exposes the list of unvisited nodes for inspection.
func (m *Maze) UnusedList() *List { return m.unused }

// WalkList exposes the random walk list for inspection.
func (m *Maze) WalkList() *List { return m.randomWalk }

func (m *Maze) inBound(c Coord) bool {
	return c.X >= 0 && c.X < m.width && c.Y >= 0 && c.Y < m.height
}

// Lookup returns the node at c.
func (m *Maze) Lookup(c Coord) (NodeID, error) {
	if !m.inBound(c) {
		return NoNode, fmt.Errorf("%w: (%d, %d) in %dx%d grid", ErrOutOfBounds, c.X, c.Y, m.width, m.height)
	}
	return m.grid[c.X][c.Y], nil
}

// Position returns the coordinate of id.
func (m *Maze) Position(id NodeID) Coord {
	return m.nodes[id].pos
}

// Affiliation returns the collection id currently belongs to.
func (m *Maze) Affiliation(id NodeID) Affiliation {
	return m.nodes[id].affiliation
}

// Neighbors returns the in-bound grid neighbors of c in Directions order.
func (m *Maze) Neighbors(c Coord) ([]Coord, error) {
	id, err := m.Lookup(c)
	if err != nil {
		return nil, err
	}
	ids := m.neighbors(id)
	out := make([]Coord, len(ids))
	for i, n := range ids {
		out[i] = m.nodes[n].pos
	}
	return out, nil
}

func (m *Maze) neighbors(id NodeID) []NodeID {
	pos := m.nodes[id].pos
	result := make([]NodeID, 0, len(directions))
	for _, dir := range directions {
		next := pos.add(dir.Delta)
		if m.inBound(next) {
			result = append(result, m.grid[next.X][next.Y])
		}
	}
	return result
}

// Step advances generation by one transition of the state machine: picking
// the root, starting a walk, or taking one random step of the current walk.
// A walk that reaches the tree is spliced into it within the same step.
func (m *Maze) Step() (StepResult, error) {
	if m.err != nil {
		return StillGenerating, m.err
	}

	var err error
	switch m.state {
	case Complete:
		return Completed, nil
	case Initializing:
		err = m.plantRoot()
	case WalkStart:
		err = m.startWalk()
	case Walking:
		err = m.walk()
	}
	if err != nil {
		m.fail(err)
		return StillGenerating, m.err
	}

	m.stats.Steps++
	if m.state == Complete {
		return Completed, nil
	}
	return StillGenerating, nil
}

// RunToCompletion steps until the maze is complete and returns the number of
// steps taken by this call.
func (m *Maze) RunToCompletion() (int, error) {
	start := m.stats.Steps
	for {
		res, err := m.Step()
		if err != nil {
			return m.stats.Steps - start, err
		}
		if res == Completed {
			return m.stats.Steps - start, nil
		}
	}
}

func (m *Maze) fail(err error) {
	m.err = err
	m.state = Failed
}

// pickUnused removes a uniformly chosen node from the Unused list.
func (m *Maze) pickUnused() (NodeID, error) {
	index := m.rng.Intn(m.unused.Len())
	id, ok := m.unused.NthAfter(m.unused.Front(), index)
	if !ok {
		return NoNode, fmt.Errorf("picking unused node %d of %d: %w", index, m.unused.Len(), ErrNodeNotInList)
	}
	if err := m.unused.remove(id); err != nil {
		return NoNode, err
	}
	return id, nil
}

func (m *Maze) plantRoot() error {
	id, err := m.pickUnused()
	if err != nil {
		return err
	}
	if err := m.tree.makeRoot(id); err != nil {
		return err
	}
	m.advanceAfterSplice()
	return nil
}

func (m *Maze) startWalk() error {
	id, err := m.pickUnused()
	if err != nil {
		return err
	}
	m.randomWalk.pushBack(id)
	m.current = id
	m.state = Walking
	m.stats.Walks++
	return nil
}

func (m *Maze) walk() error {
	candidates := m.neighbors(m.current)
	if len(candidates) == 0 {
		return fmt.Errorf("walking from (%d, %d): %w", m.nodes[m.current].pos.X, m.nodes[m.current].pos.Y, ErrDeadEnd)
	}
	target := candidates[m.rng.Intn(len(candidates))]

	switch m.nodes[target].affiliation {
	case Unused:
		if err := m.unused.remove(target); err != nil {
			return err
		}
		m.randomWalk.pushBack(target)
		m.current = target
	case RandomWalk:
		if err := m.eraseLoop(target); err != nil {
			return err
		}
		m.current = target
	case Tree:
		if err := m.splice(target); err != nil {
			return err
		}
		m.current = NoNode
		m.advanceAfterSplice()
	}
	return nil
}

// eraseLoop returns every node after target to the Unused list, leaving
// target as the tail of the walk.
func (m *Maze) eraseLoop(target NodeID) error {
	m.stats.LoopsErased++
	for m.randomWalk.Back() != target {
		id, err := m.randomWalk.popBack()
		if err != nil {
			return fmt.Errorf("erasing loop back to (%d, %d): %w", m.nodes[target].pos.X, m.nodes[target].pos.Y, err)
		}
		m.unused.pushBack(id)
		m.stats.ErasedNodes++
	}
	return nil
}

// splice moves the whole walk into the tree. The tail of the walk is the
// grid neighbor of anchor, so nodes are attached from the tail backwards,
// each one becoming the parent of the next.
func (m *Maze) splice(anchor NodeID) error {
	parent := anchor
	for m.randomWalk.Len() > 0 {
		id, err := m.randomWalk.popBack()
		if err != nil {
			return err
		}
		if err := m.tree.attachChild(parent, id); err != nil {
			return fmt.Errorf("splicing (%d, %d): %w", m.nodes[id].pos.X, m.nodes[id].pos.Y, err)
		}
		parent = id
	}
	return nil
}

func (m *Maze) advanceAfterSplice() {
	if m.unused.Len() == 0 {
		m.state = Complete
		return
	}
	m.state = WalkStart
}

// ForEachNode calls visit for every node in pool order.
func (m *Maze) ForEachNode(visit func(NodeView)) {
	for i := range m.nodes {
		n := &m.nodes[i]
		view := NodeView{Pos: n.pos, Affiliation: n.affiliation}
		if n.affiliation == Tree && n.parent != NoNode {
			view.Parent = m.nodes[n.parent].pos
			view.HasParent = true
		}
		visit(view)
	}
}

// WalkPath returns the coordinates of the current walk from start to tail.
func (m *Maze) WalkPath() []Coord {
	path := make([]Coord, 0, m.randomWalk.Len())
	m.randomWalk.Each(func(id NodeID) bool {
		path = append(path, m.nodes[id].pos)
		return true
	})
	return path
}

// Edges returns every tree edge as a child/parent coordinate pair.
func (m *Maze) Edges() [][2]Coord {
	edges := make([][2]Coord, 0, m.tree.Len())
	m.ForEachNode(func(v NodeView) {
		if v.HasParent {
			edges = append(edges, [2]Coord{v.Pos, v.Parent})
		}
	})
	return edges
}
