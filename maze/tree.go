package maze

// SpanningTree is the rooted acyclic structure of every Tree-tagged node.
// Nodes only ever join it; there is no removal.
type SpanningTree struct {
	nodes pool
	root  NodeID
	size  int
}

func newSpanningTree(nodes pool) *SpanningTree {
	return &SpanningTree{nodes: nodes, root: NoNode}
}

// Len returns the number of nodes in the tree.
func (t *SpanningTree) Len() int {
	return t.size
}

// Root returns the root node, reporting false while the tree is empty.
func (t *SpanningTree) Root() (NodeID, bool) {
	return t.root, t.root != NoNode
}

// makeRoot designates id as the root of an empty tree.
func (t *SpanningTree) makeRoot(id NodeID) error {
	if t.root != NoNode {
		return ErrTreeAlreadyRooted
	}
	n := &t.nodes[id]
	n.parent = NoNode
	n.affiliation = Tree
	t.root = id
	t.size++
	return nil
}

// attachChild hangs child under parent.
func (t *SpanningTree) attachChild(parent, child NodeID) error {
	p := &t.nodes[parent]
	c := &t.nodes[child]
	if p.affiliation != Tree {
		return ErrParentNotInTree
	}
	if c.affiliation == Tree {
		return ErrChildInTree
	}
	if p.numChildren >= maxChildren {
		return ErrChildCapacityExceeded
	}
	p.children[p.numChildren] = child
	p.numChildren++
	c.parent = parent
	c.affiliation = Tree
	t.size++
	return nil
}

// Parent returns the parent of id. The root and non-tree nodes have none.
func (t *SpanningTree) Parent(id NodeID) (NodeID, bool) {
	n := &t.nodes[id]
	if n.affiliation != Tree || n.parent == NoNode {
		return NoNode, false
	}
	return n.parent, true
}

// Children returns a copy of id's children in attachment order.
func (t *SpanningTree) Children(id NodeID) []NodeID {
	n := &t.nodes[id]
	out := make([]NodeID, n.numChildren)
	copy(out, n.children[:n.numChildren])
	return out
}

// Depth counts the parent hops from id to the root.
func (t *SpanningTree) Depth(id NodeID) (int, bool) {
	if t.nodes[id].affiliation != Tree {
		return 0, false
	}
	depth := 0
	for cur := id; cur != t.root; depth++ {
		cur = t.nodes[cur].parent
		if cur == NoNode || depth >= t.size {
			return 0, false
		}
	}
	return depth, true
}
