package ecs

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/levels"
	"github.com/milk9111/npcnav/navmesh"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeMover
)

// Collision categories. LayerGround matches the nav mesh default mask, so
// static tiles and solid movers block cells.
const (
	LayerGround uint = 1 << 8
	LayerBounds uint = 1 << 9
)

var physicsLog = log.WithPrefix("physics")

// SetLogger replaces the physics logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	physicsLog = l
}

// PhysicsWorld owns the Chipmunk space built from a level and answers the
// overlap and raycast queries used for navigation.
type PhysicsWorld struct {
	level *levels.Level
	space *cp.Space

	static []*cp.Shape
	movers map[*cp.Body]*cp.Shape
}

// NewPhysicsWorld creates a physics world for a level. A nil level yields an
// empty space.
func NewPhysicsWorld(level *levels.Level) *PhysicsWorld {
	space := cp.NewSpace()
	space.Iterations = 10

	pw := &PhysicsWorld{
		level:  level,
		space:  space,
		movers: make(map[*cp.Body]*cp.Shape),
	}
	pw.buildStaticShapes()
	return pw
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

func (pw *PhysicsWorld) Level() *levels.Level {
	if pw == nil {
		return nil
	}
	return pw.level
}

// Bounds returns the world rectangle of the level.
func (pw *PhysicsWorld) Bounds() cp.BB {
	if pw == nil || pw.level == nil {
		return cp.BB{}
	}
	return pw.level.Bounds()
}

// StaticShapes returns the merged tile boxes.
func (pw *PhysicsWorld) StaticShapes() []*cp.Shape {
	if pw == nil {
		return nil
	}
	return pw.static
}

// AddKinematicBox adds a box of the given size centered on pos, driven by
// MoveBody rather than by the solver.
func (pw *PhysicsWorld) AddKinematicBox(pos, size cp.Vector, category uint) *cp.Body {
	if pw == nil || pw.space == nil || size.X <= 0 || size.Y <= 0 {
		return nil
	}
	body := pw.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(pos)
	shape := pw.space.AddShape(cp.NewBox(body, size.X, size.Y, 0))
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeMover)
	shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: category, Mask: cp.ALL_CATEGORIES})
	pw.movers[body] = shape
	return body
}

// MoveBody teleports a kinematic body and reindexes its shapes so queries
// see the new position immediately.
func (pw *PhysicsWorld) MoveBody(body *cp.Body, pos cp.Vector) {
	if pw == nil || body == nil {
		return
	}
	body.SetPosition(pos)
	pw.space.ReindexShapesForBody(body)
}

// Step advances the physics simulation.
func (pw *PhysicsWorld) Step(dt float64) {
	if pw == nil || pw.space == nil || dt <= 0 {
		return
	}
	pw.space.Step(dt)
}

// Overlaps reports whether a shape on mask overlaps the box. Shapes that only
// touch the box edge do not count.
func (pw *PhysicsWorld) Overlaps(center, half cp.Vector, mask uint) bool {
	if pw == nil || pw.space == nil {
		return false
	}
	q := cp.BB{L: center.X - half.X, B: center.Y - half.Y, R: center.X + half.X, T: center.Y + half.Y}
	hit := false
	pw.space.BBQuery(q, queryFilter(mask), func(shape *cp.Shape, data interface{}) {
		bb := shape.BB()
		if q.L < bb.R && bb.L < q.R && q.B < bb.T && bb.B < q.T {
			hit = true
		}
	}, nil)
	return hit
}

// Raycast returns the first shape on mask hit by the ray.
func (pw *PhysicsWorld) Raycast(origin, dir cp.Vector, maxDist float64, mask uint) (navmesh.RayHit, bool) {
	if pw == nil || pw.space == nil || dir.Length() == 0 {
		return navmesh.RayHit{}, false
	}
	if math.IsInf(maxDist, 1) {
		b := pw.Bounds()
		maxDist = (b.R - b.L) + (b.T - b.B) + 1
	}
	end := origin.Add(dir.Normalize().Mult(maxDist))
	info := pw.space.SegmentQueryFirst(origin, end, 0, queryFilter(mask))
	if info.Shape == nil {
		return navmesh.RayHit{}, false
	}
	return navmesh.RayHit{
		Point:    info.Point,
		Normal:   info.Normal,
		Distance: info.Alpha * maxDist,
		Object:   info.Shape,
	}, true
}

// PlatformSpecs describes every static tile box as a platform keyed by its
// shape, which is what Raycast reports.
func (pw *PhysicsWorld) PlatformSpecs() []navmesh.PlatformSpec {
	if pw == nil {
		return nil
	}
	specs := make([]navmesh.PlatformSpec, 0, len(pw.static))
	for _, shape := range pw.static {
		specs = append(specs, navmesh.PlatformSpec{Key: shape, Bounds: shape.BB()})
	}
	return specs
}

func queryFilter(mask uint) cp.ShapeFilter {
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: mask}
}

func (pw *PhysicsWorld) buildStaticShapes() {
	if pw == nil || pw.space == nil || pw.level == nil {
		return
	}
	pw.processSolidTiles()

	b := pw.level.Bounds()
	if b.R <= b.L || b.T <= b.B {
		return
	}
	segments := []struct {
		a cp.Vector
		b cp.Vector
	}{
		{a: cp.Vector{X: b.L, Y: b.B}, b: cp.Vector{X: b.R, Y: b.B}},
		{a: cp.Vector{X: b.L, Y: b.T}, b: cp.Vector{X: b.R, Y: b.T}},
		{a: cp.Vector{X: b.L, Y: b.B}, b: cp.Vector{X: b.L, Y: b.T}},
		{a: cp.Vector{X: b.R, Y: b.B}, b: cp.Vector{X: b.R, Y: b.T}},
	}
	for _, seg := range segments {
		shape := pw.space.AddShape(cp.NewSegment(pw.space.StaticBody, seg.a, seg.b, 0))
		shape.SetFriction(0.8)
		shape.SetCollisionType(collisionTypeSolid)
		shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: LayerBounds, Mask: cp.ALL_CATEGORIES})
	}
}

// processSolidTiles merges solid tiles into as few boxes as possible: each
// box grows right along its row, then up while the whole span stays solid.
func (pw *PhysicsWorld) processSolidTiles() {
	lvl := pw.level
	processed := make([]bool, lvl.Width*lvl.Height)
	ts := lvl.TileSize
	for y := 0; y < lvl.Height; y++ {
		for x := 0; x < lvl.Width; x++ {
			idx := y*lvl.Width + x
			if processed[idx] {
				continue
			}
			if !lvl.Solid(x, y) {
				processed[idx] = true
				continue
			}

			w := 1
			for x+w < lvl.Width && !processed[y*lvl.Width+x+w] && lvl.Solid(x+w, y) {
				w++
			}

			h := 1
		heightLoop:
			for y+h < lvl.Height {
				for xi := x; xi < x+w; xi++ {
					if processed[(y+h)*lvl.Width+xi] || !lvl.Solid(xi, y+h) {
						break heightLoop
					}
				}
				h++
			}

			bb := cp.BB{
				L: float64(x) * ts,
				B: float64(y) * ts,
				R: float64(x+w) * ts,
				T: float64(y+h) * ts,
			}
			shape := pw.space.AddShape(cp.NewBox2(pw.space.StaticBody, bb, 0))
			shape.SetFriction(0.8)
			shape.SetCollisionType(collisionTypeSolid)
			shape.SetFilter(cp.ShapeFilter{Group: cp.NO_GROUP, Categories: LayerGround, Mask: cp.ALL_CATEGORIES})
			pw.static = append(pw.static, shape)

			for yy := y; yy < y+h; yy++ {
				for xx := x; xx < x+w; xx++ {
					processed[yy*lvl.Width+xx] = true
				}
			}
		}
	}
	physicsLog.Debug("static shapes built", "level", lvl.Name, "boxes", len(pw.static))
}
