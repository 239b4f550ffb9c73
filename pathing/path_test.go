package pathing

import (
	"testing"

	"github.com/milk9111/npcnav/navmesh"
)

func TestPathEnds(t *testing.T) {
	p := NewPath()
	a := node(MoveRight, 0, 0, 1, 0)
	b := node(MoveRight, 1, 0, 2, 0)
	c := node(Jump, 2, 0, 2, 1)
	p.Append(a)
	p.Append(b)
	p.Append(c)

	if p.Head() != a || p.Tail() != c || p.At(1) != b || p.At(3) != nil {
		t.Fatalf("unexpected ends: %v", p.Nodes())
	}
	if !p.Contains(navmesh.Cell{X: 2, Y: 1}) || p.Contains(navmesh.Cell{X: 0, Y: 0}) {
		t.Fatalf("Contains should match node ends only")
	}
	if p.PopHead() != a || p.PopTail() != c {
		t.Fatalf("pops returned the wrong nodes")
	}
	if p.Len() != 1 || p.Head() != b || p.Tail() != b {
		t.Fatalf("expected only b left, got %v", p.Nodes())
	}
	if p.PopTail() != b || p.PopHead() != nil || p.PopTail() != nil {
		t.Fatalf("empty path pops should return nil")
	}
	if p.headPops != 1 || p.tailPush != 3 || p.tailPops != 2 {
		t.Fatalf("counters head=%d push=%d tail=%d", p.headPops, p.tailPush, p.tailPops)
	}
}

func TestPathReuseAfterDrain(t *testing.T) {
	p := NewPath()
	for i := 0; i < 3; i++ {
		p.Append(node(MoveRight, i, 0, i+1, 0))
	}
	for p.PopHead() != nil {
	}
	p.Append(node(MoveLeft, 3, 0, 2, 0))
	if p.Len() != 1 || p.Head().Action != MoveLeft {
		t.Fatalf("path not reusable after draining: %v", p.Nodes())
	}
	p.Clear()
	if p.Len() != 0 || p.Head() != nil || p.Tail() != nil {
		t.Fatalf("clear left nodes behind")
	}
}
