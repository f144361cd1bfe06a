package maze

// List is an intrusive doubly-linked list over nodes of the pool. The list
// owns no nodes; it threads them through their own prev/next fields and
// stamps its tag on every node it links.
type List struct {
	nodes     pool
	beginning NodeID
	end       NodeID
	length    int
	tag       Affiliation
}

func newList(nodes pool, tag Affiliation) *List {
	return &List{
		nodes:     nodes,
		beginning: NoNode,
		end:       NoNode,
		tag:       tag,
	}
}

// Len returns the number of nodes in the list.
func (l *List) Len() int {
	return l.length
}

// Tag returns the affiliation written on every member.
func (l *List) Tag() Affiliation {
	return l.tag
}

// Front returns the first node, or NoNode if the list is empty.
func (l *List) Front() NodeID {
	return l.beginning
}

// Back returns the last node, or NoNode if the list is empty.
func (l *List) Back() NodeID {
	return l.end
}

// Next returns the node following id, or NoNode at the end of the list.
func (l *List) Next(id NodeID) NodeID {
	return l.nodes[id].next
}

// Prev returns the node preceding id, or NoNode at the start of the list.
func (l *List) Prev(id NodeID) NodeID {
	return l.nodes[id].prev
}

// pushBack appends id to the list.
func (l *List) pushBack(id NodeID) {
	n := &l.nodes[id]
	n.next = NoNode
	n.prev = l.end
	if l.end == NoNode {
		l.beginning = id
	} else {
		l.nodes[l.end].next = id
	}
	l.end = id
	l.length++
	n.affiliation = l.tag
}

// pushFront prepends id to the list.
func (l *List) pushFront(id NodeID) {
	n := &l.nodes[id]
	n.prev = NoNode
	n.next = l.beginning
	if l.beginning == NoNode {
		l.end = id
	} else {
		l.nodes[l.beginning].prev = id
	}
	l.beginning = id
	l.length++
	n.affiliation = l.tag
}

// popBack removes and returns the last node. The node keeps its affiliation;
// whoever takes it is responsible for re-tagging it.
func (l *List) popBack() (NodeID, error) {
	if l.end == NoNode {
		return NoNode, ErrEmptyList
	}
	id := l.end
	l.unlink(id)
	return id, nil
}

// popFront removes and returns the first node. Like popBack, it leaves the
// node's affiliation untouched.
func (l *List) popFront() (NodeID, error) {
	if l.beginning == NoNode {
		return NoNode, ErrEmptyList
	}
	id := l.beginning
	l.unlink(id)
	return id, nil
}

// remove detaches id from wherever it sits in the list. Membership is
// checked through the node's tag and links, not by walking the list.
func (l *List) remove(id NodeID) error {
	if !l.member(id) {
		return ErrNodeNotInList
	}
	l.unlink(id)
	return nil
}

// insertBefore links id immediately before mark, which must be a member.
func (l *List) insertBefore(mark, id NodeID) error {
	if !l.member(mark) {
		return ErrNodeNotInList
	}
	if mark == l.beginning {
		l.pushFront(id)
		return nil
	}
	m := &l.nodes[mark]
	n := &l.nodes[id]
	n.prev = m.prev
	n.next = mark
	l.nodes[m.prev].next = id
	m.prev = id
	l.length++
	n.affiliation = l.tag
	return nil
}

// insertAfter links id immediately after mark, which must be a member.
func (l *List) insertAfter(mark, id NodeID) error {
	if !l.member(mark) {
		return ErrNodeNotInList
	}
	if mark == l.end {
		l.pushBack(id)
		return nil
	}
	m := &l.nodes[mark]
	n := &l.nodes[id]
	n.next = m.next
	n.prev = mark
	l.nodes[m.next].prev = id
	m.next = id
	l.length++
	n.affiliation = l.tag
	return nil
}

// NthAfter follows n next-links starting at id. It reports false when the
// list ends first.
func (l *List) NthAfter(id NodeID, n int) (NodeID, bool) {
	if n < 0 {
		return NoNode, false
	}
	for ; n > 0 && id != NoNode; n-- {
		id = l.nodes[id].next
	}
	if id == NoNode {
		return NoNode, false
	}
	return id, true
}

// Each calls fn for every member from front to back until fn returns false.
func (l *List) Each(fn func(NodeID) bool) {
	for id := l.beginning; id != NoNode; id = l.nodes[id].next {
		if !fn(id) {
			return
		}
	}
}

// member is a constant-time membership check: the tag must match and a node
// without a predecessor or successor must be the list's head or tail.
func (l *List) member(id NodeID) bool {
	if !l.nodes.valid(id) || l.length == 0 {
		return false
	}
	n := &l.nodes[id]
	if n.affiliation != l.tag {
		return false
	}
	if n.prev == NoNode && l.beginning != id {
		return false
	}
	if n.next == NoNode && l.end != id {
		return false
	}
	return true
}

// unlink covers the head, tail, middle and sole-element cases.
func (l *List) unlink(id NodeID) {
	n := &l.nodes[id]
	if n.prev == NoNode {
		l.beginning = n.next
	} else {
		l.nodes[n.prev].next = n.next
	}
	if n.next == NoNode {
		l.end = n.prev
	} else {
		l.nodes[n.next].prev = n.prev
	}
	n.prev = NoNode
	n.next = NoNode
	l.length--
}
