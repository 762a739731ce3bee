package insnmap

// node is an arena element. child holds arena indexes, 0 is "no child" (the root can
// never be anybody's child).
type node struct {
	child [2]uint32
	level uint8
	// slot is the leaf entry index + 1, 0 means empty
	slot uint32
}

// dir calculates the branch for the given word
func (n *node) dir(word uint64) int {
	return int(word>>n.level) & 1
}

// single returns the only child of the node, or 0 if it has none or two
func (n *node) single() uint32 {
	switch {
	case n.child[0] != 0 && n.child[1] == 0:
		return n.child[0]
	case n.child[1] != 0 && n.child[0] == 0:
		return n.child[1]
	}
	return 0
}

func (m *Map[T]) newNode(level uint8) uint32 {
	m.nodes = append(m.nodes, node{level: level})
	return uint32(len(m.nodes) - 1)
}

func (m *Map[T]) isLeaf(idx uint32) bool {
	return int(m.nodes[idx].level) == m.width
}

// probe walks the path of a code as far as it exists. It returns the last node reached
// and whether that node is a leaf.
func (m *Map[T]) probe(code uint64) (uint32, bool) {
	var idx uint32 // root

	for !m.isLeaf(idx) {
		next := m.nodes[idx].child[m.nodes[idx].dir(code)]
		if next == 0 {
			return idx, false
		}
		idx = next
	}

	return idx, true
}

// insert stores the entry in the leaf of its code, creating the missing nodes. It returns
// the slot of an entry already occupying that leaf, or 0 on success.
func (m *Map[T]) insert(e Entry[T]) uint32 {
	idx, leaf := m.probe(e.Code)
	if leaf && m.nodes[idx].slot != 0 {
		return m.nodes[idx].slot
	}

	for !leaf {
		// m.nodes may be reallocated by newNode - always go through the index
		level := m.nodes[idx].level
		dir := m.nodes[idx].dir(e.Code)
		next := m.newNode(level + 1)
		m.nodes[idx].child[dir] = next
		idx = next
		leaf = m.isLeaf(idx)
	}

	m.entries = append(m.entries, e)
	m.nodes[idx].slot = uint32(len(m.entries))

	return 0
}

// deepest follows a chain of single-child nodes starting at idx
func (m *Map[T]) deepest(idx uint32) uint32 {
	for !m.isLeaf(idx) {
		next := m.nodes[idx].single()
		if next == 0 {
			break
		}
		idx = next
	}
	return idx
}

// compress replaces every child reference with the deepest node of its single-child
// chain. Running it again changes nothing.
func (m *Map[T]) compress() {
	// walk the tree without function recursion
	toVisit := []uint32{0}

	for l := len(toVisit); l > 0; l = len(toVisit) {
		idx := toVisit[l-1]
		toVisit = toVisit[:l-1]

		if m.isLeaf(idx) {
			continue
		}

		n := &m.nodes[idx]
		for dir, child := range n.child {
			if child == 0 {
				continue
			}
			n.child[dir] = m.deepest(child)
			toVisit = append(toVisit, n.child[dir])
		}
	}
}

// find is the bit-guided depth-first search: the branch matching the word bit first,
// then the other one.
func (m *Map[T]) find(idx uint32, word uint64) *Entry[T] {
	n := &m.nodes[idx]

	if int(n.level) == m.width {
		if n.slot == 0 {
			return nil
		}
		if e := &m.entries[n.slot-1]; e.Matches(word) {
			return e
		}
		return nil
	}

	dir := n.dir(word)

	if child := n.child[dir]; child != 0 {
		if e := m.find(child, word); e != nil {
			return e
		}
	}
	if child := n.child[1-dir]; child != 0 {
		return m.find(child, word)
	}

	return nil
}
