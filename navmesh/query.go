package navmesh

import "github.com/jakecoffman/cp"

// OverlapQuerier reports whether any collider on the masked layers overlaps
// the axis-aligned box centered on center.
type OverlapQuerier interface {
	Overlaps(center, halfExtent cp.Vector, mask uint) bool
}

// RayHit is the first collider hit by a ray. Object identifies the collider
// (for the physics world this is the *cp.Shape).
type RayHit struct {
	Point    cp.Vector
	Normal   cp.Vector
	Distance float64
	Object   any
}

// Raycaster casts a ray from origin along dir for at most maxDist.
type Raycaster interface {
	Raycast(origin, dir cp.Vector, maxDist float64, mask uint) (RayHit, bool)
}

// OverlapFunc adapts a function to OverlapQuerier.
type OverlapFunc func(center, halfExtent cp.Vector, mask uint) bool

func (f OverlapFunc) Overlaps(center, halfExtent cp.Vector, mask uint) bool {
	return f(center, halfExtent, mask)
}
