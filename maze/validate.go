package maze

import (
	"errors"
	"fmt"
)

// ErrInvariant is wrapped by every failure reported by Validate.
var ErrInvariant = errors.New("maze invariant violated")

func invariantf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvariant}, args...)...)
}

// Validate walks the whole structure and checks every invariant: list
// linkage and tags, tree symmetry, acyclicity and connectivity, and that the
// three collections partition the pool. It is O(n) per list and O(n*depth)
// for the tree, so it is meant for tests and debugging.
func (m *Maze) Validate() error {
	if err := validateList(m.unused); err != nil {
		return err
	}
	if err := validateList(m.randomWalk); err != nil {
		return err
	}

	tagged := Counts{}
	for i := range m.nodes {
		switch m.nodes[i].affiliation {
		case Tree:
			tagged.Tree++
		case Unused:
			tagged.Unused++
		case RandomWalk:
			tagged.RandomWalk++
		}
	}
	if tagged != m.Counts() {
		return invariantf("tagged counts %+v differ from collection sizes %+v", tagged, m.Counts())
	}
	if total := tagged.Tree + tagged.Unused + tagged.RandomWalk; total != len(m.nodes) {
		return invariantf("collections hold %d of %d nodes", total, len(m.nodes))
	}

	if err := m.validateTree(); err != nil {
		return err
	}
	return m.validateWalk()
}

func validateList(l *List) error {
	if (l.beginning == NoNode) != (l.end == NoNode) || (l.beginning == NoNode) != (l.length == 0) {
		return invariantf("%s list ends inconsistent: beginning=%d end=%d length=%d", l.tag, l.beginning, l.end, l.length)
	}
	if l.length == 0 {
		return nil
	}
	if l.nodes[l.beginning].prev != NoNode {
		return invariantf("%s list head has a predecessor", l.tag)
	}

	seen := make(map[NodeID]struct{}, l.length)
	count := 0
	last := NoNode
	for id := l.beginning; id != NoNode; id = l.nodes[id].next {
		if _, dup := seen[id]; dup {
			return invariantf("%s list visits node %d twice", l.tag, id)
		}
		seen[id] = struct{}{}
		n := &l.nodes[id]
		if n.affiliation != l.tag {
			return invariantf("%s list holds node %d tagged %s", l.tag, id, n.affiliation)
		}
		if n.prev != last {
			return invariantf("%s list node %d has prev %d, expected %d", l.tag, id, n.prev, last)
		}
		last = id
		count++
	}
	if last != l.end {
		return invariantf("%s list ends at %d, expected %d", l.tag, last, l.end)
	}
	if count != l.length {
		return invariantf("%s list has %d nodes, length says %d", l.tag, count, l.length)
	}
	return nil
}

func (m *Maze) validateTree() error {
	t := m.tree
	if t.size == 0 {
		if t.root != NoNode {
			return invariantf("empty tree has root %d", t.root)
		}
		return nil
	}
	if t.root == NoNode || m.nodes[t.root].affiliation != Tree {
		return invariantf("non-empty tree has no valid root")
	}
	if m.nodes[t.root].parent != NoNode {
		return invariantf("root %d has a parent", t.root)
	}

	for i := range m.nodes {
		id := NodeID(i)
		n := &m.nodes[i]
		if n.affiliation != Tree {
			continue
		}
		for _, child := range n.children[:n.numChildren] {
			if m.nodes[child].parent != id || m.nodes[child].affiliation != Tree {
				return invariantf("node %d lists child %d that does not point back", id, child)
			}
		}
		if id == t.root {
			continue
		}
		if n.parent == NoNode {
			return invariantf("tree node %d has no parent", id)
		}
		p := &m.nodes[n.parent]
		if p.affiliation != Tree {
			return invariantf("tree node %d has parent %d outside the tree", id, n.parent)
		}
		if !containsNode(p.children[:p.numChildren], id) {
			return invariantf("parent %d does not list child %d", n.parent, id)
		}
		if !adjacent(n.pos, p.pos) {
			return invariantf("tree edge %v-%v is not a grid edge", n.pos, p.pos)
		}
		if _, ok := t.Depth(id); !ok {
			return invariantf("node %d does not reach the root", id)
		}
	}
	return nil
}

// validateWalk checks that the walk is a simple path of grid steps.
func (m *Maze) validateWalk() error {
	prev := NoNode
	var err error
	m.randomWalk.Each(func(id NodeID) bool {
		if prev != NoNode && !adjacent(m.nodes[prev].pos, m.nodes[id].pos) {
			err = invariantf("walk step %v-%v is not a grid edge", m.nodes[prev].pos, m.nodes[id].pos)
			return false
		}
		prev = id
		return true
	})
	return err
}

func containsNode(ids []NodeID, id NodeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func adjacent(a, b Coord) bool {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx+dy*dy == 1
}
