package component

import (
	"time"

	"github.com/jakecoffman/cp"
)

// Mover shuttles an entity between two points. With a Body it also drives a
// kinematic collider, so solid movers change which cells are passable.
type Mover struct {
	From  cp.Vector
	To    cp.Vector
	Speed float64
	Wait  time.Duration
	Size  cp.Vector
	Body  *cp.Body

	Forward bool
	Waited  time.Duration
	Trips   int
}

var MoverComponent = NewComponent[Mover]()
