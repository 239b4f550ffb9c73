package pathing

import (
	"fmt"

	"github.com/milk9111/npcnav/navmesh"
)

// Node is one edge of a path. While the search is working from a node it
// caches the node's sorted candidates and a cursor into them, so resuming or
// backtracking never recomputes or re-sorts.
type Node struct {
	Start  navmesh.Cell
	End    navmesh.Cell
	Action Action
	Chain  Chain

	candidates []*Node
	cursor     int
	expanded   bool
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %v->%v", n.Action, n.Start, n.End)
}

func (n *Node) resetCandidates() {
	n.candidates = nil
	n.cursor = 0
	n.expanded = false
}

// PathReader is the consumer end of a path: it only reads and removes at the
// head.
type PathReader interface {
	Len() int
	Head() *Node
	At(i int) *Node
	PopHead() *Node
}

// PathWriter is the producer end of a path: it only appends and removes at
// the tail.
type PathWriter interface {
	Len() int
	Tail() *Node
	Append(n *Node)
	PopTail() *Node
	Contains(c navmesh.Cell) bool
}

// Path is the double-ended queue shared by one agent's search and executor.
type Path struct {
	nodes []*Node
	head  int

	// Mutation counters per end; read by tests.
	headPops int
	tailPush int
	tailPops int
}

func NewPath() *Path {
	return &Path{}
}

func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return len(p.nodes) - p.head
}

func (p *Path) Head() *Node {
	if p.Len() == 0 {
		return nil
	}
	return p.nodes[p.head]
}

func (p *Path) At(i int) *Node {
	if i < 0 || i >= p.Len() {
		return nil
	}
	return p.nodes[p.head+i]
}

func (p *Path) PopHead() *Node {
	if p.Len() == 0 {
		return nil
	}
	n := p.nodes[p.head]
	p.nodes[p.head] = nil
	p.head++
	p.headPops++
	if p.head == len(p.nodes) {
		p.nodes = p.nodes[:0]
		p.head = 0
	}
	return n
}

func (p *Path) Tail() *Node {
	if p.Len() == 0 {
		return nil
	}
	return p.nodes[len(p.nodes)-1]
}

func (p *Path) Append(n *Node) {
	if n == nil {
		return
	}
	p.nodes = append(p.nodes, n)
	p.tailPush++
}

func (p *Path) PopTail() *Node {
	if p.Len() == 0 {
		return nil
	}
	last := len(p.nodes) - 1
	n := p.nodes[last]
	p.nodes[last] = nil
	p.nodes = p.nodes[:last]
	p.tailPops++
	if p.Len() == 0 {
		p.nodes = p.nodes[:0]
		p.head = 0
	}
	return n
}

// Contains reports whether any node in the path ends at c.
func (p *Path) Contains(c navmesh.Cell) bool {
	for i := p.head; i < len(p.nodes); i++ {
		if p.nodes[i].End == c {
			return true
		}
	}
	return false
}

// Nodes returns a copy of the path from head to tail.
func (p *Path) Nodes() []*Node {
	out := make([]*Node, 0, p.Len())
	for i := p.head; i < len(p.nodes); i++ {
		out = append(out, p.nodes[i])
	}
	return out
}

// Clear drops every node. Only the agent controller clears a path.
func (p *Path) Clear() {
	if p == nil {
		return
	}
	for i := range p.nodes {
		p.nodes[i] = nil
	}
	p.nodes = p.nodes[:0]
	p.head = 0
}
