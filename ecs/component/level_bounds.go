package component

import "github.com/jakecoffman/cp"

// LevelBounds is the world rectangle of the loaded level.
type LevelBounds struct {
	BB cp.BB
}

func (b *LevelBounds) Width() float64 {
	return b.BB.R - b.BB.L
}

func (b *LevelBounds) Height() float64 {
	return b.BB.T - b.BB.B
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
