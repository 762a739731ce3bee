package insnmap

import (
	"fmt"
	"io"
	"strings"
)

// Stats describes the shape of the trie.
type Stats struct {
	Entries    int
	Nodes      int // reachable from the root, root included
	Leaves     int
	MaxDepth   int // edges from the root to the deepest node
	Compressed bool
}

// Stats walks the trie and returns its shape.
func (m *Map[T]) Stats() Stats {
	st := Stats{Entries: len(m.entries), Compressed: m.frozen}

	type visit struct {
		idx   uint32
		depth int
	}

	toVisit := []visit{{0, 0}}

	for l := len(toVisit); l > 0; l = len(toVisit) {
		v := toVisit[l-1]
		toVisit = toVisit[:l-1]

		st.Nodes++
		if v.depth > st.MaxDepth {
			st.MaxDepth = v.depth
		}
		if m.isLeaf(v.idx) {
			st.Leaves++
			continue
		}
		for _, child := range m.nodes[v.idx].child {
			if child != 0 {
				toVisit = append(toVisit, visit{child, v.depth + 1})
			}
		}
	}

	return st
}

func (m *Map[T]) reachable() int {
	return m.Stats().Nodes
}

// DebugDump prints the trie to w.
func (m *Map[T]) DebugDump(w io.Writer) {
	m.debugDump(w, 0, "T:", "")
}

func (m *Map[T]) debugDump(w io.Writer, idx uint32, tag, indent string) {
	n := &m.nodes[idx]

	if m.isLeaf(idx) {
		if n.slot == 0 {
			fmt.Fprintf(w, "%s%s LEAF <empty>\n", indent, tag)
			return
		}
		e := &m.entries[n.slot-1]
		p := Pattern{Width: m.width, Code: e.Code, Mask: e.Mask}
		fmt.Fprintf(w, "%s%s LEAF %s %s\n", indent, tag, e.Name, p)
		return
	}

	fmt.Fprintf(w, "%s%s NODE lvl=%d\n", indent, tag, n.level)

	indent += strings.Repeat(" ", 2)
	for dir, t := range [2]string{"L:", "R:"} {
		if child := n.child[dir]; child != 0 {
			m.debugDump(w, child, t, indent)
		}
	}
}
