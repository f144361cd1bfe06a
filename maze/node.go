package maze

import "fmt"

// Affiliation identifies which collection currently owns a node.
type Affiliation uint8

const (
	Tree Affiliation = iota
	Unused
	RandomWalk
)

func (a Affiliation) String() string {
	switch a {
	case Tree:
		return "tree"
	case Unused:
		return "unused"
	case RandomWalk:
		return "random-walk"
	}
	return fmt.Sprintf("Unknown affiliation: %d", uint8(a))
}

// MarshalText encodes the affiliation by name.
func (a Affiliation) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an affiliation name.
func (a *Affiliation) UnmarshalText(text []byte) error {
	for _, v := range []Affiliation{Tree, Unused, RandomWalk} {
		if string(text) == v.String() {
			*a = v
			return nil
		}
	}
	return fmt.Errorf("unknown affiliation %q", text)
}

// NodeID is the stable index of a node in the maze's node pool.
type NodeID int

// NoNode marks an absent link.
const NoNode NodeID = -1

// maxChildren is the number of grid neighbors a cell can have.
const maxChildren = 4

// Coord is a grid coordinate. X is the column, Y the row.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Coord) add(d Coord) Coord {
	return Coord{X: c.X + d.X, Y: c.Y + d.Y}
}

// node is one grid cell. Its position never changes; everything else is
// rewritten as it migrates between the tree and the two lists.
type node struct {
	pos         Coord
	affiliation Affiliation

	// tree links
	parent      NodeID
	children    [maxChildren]NodeID
	numChildren int

	// list links, only meaningful while the node is a list member
	prev NodeID
	next NodeID
}

func (n *node) reset(pos Coord) {
	*n = node{
		pos:         pos,
		affiliation: Unused,
		parent:      NoNode,
		prev:        NoNode,
		next:        NoNode,
	}
	for i := range n.children {
		n.children[i] = NoNode
	}
}

// pool is the node arena. It is allocated once and never resized, so the
// tree and the lists can share the same slice header.
type pool []node

func newPool(size int) pool {
	return make(pool, size)
}

func (p pool) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(p)
}
