package navmesh

import (
	"errors"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/common"
)

var (
	ErrNoRoute        = errors.New("navmesh: no route between platforms")
	ErrBudgetExceeded = errors.New("navmesh: route search budget exceeded")
)

type ConnectionType int

const (
	ConnectionWalk ConnectionType = iota
	ConnectionJump
	ConnectionDrop
)

func (t ConnectionType) String() string {
	switch t {
	case ConnectionWalk:
		return "walk"
	case ConnectionJump:
		return "jump"
	case ConnectionDrop:
		return "drop"
	}
	return "unknown"
}

// PlatformConfig holds the agent capabilities used to connect platforms.
type PlatformConfig struct {
	JumpHeight   float64
	JumpDistance float64
	DropHeight   float64
	GridUnit     float64
	LayerMask    uint
}

func DefaultPlatformConfig() PlatformConfig {
	return PlatformConfig{
		JumpHeight:   2,
		JumpDistance: 2,
		DropHeight:   4,
		GridUnit:     0.5,
		LayerMask:    defaultLayerMask,
	}
}

// PlatformSpec declares a walkable surface. Key is the collider reference the
// raycaster reports for it.
type PlatformSpec struct {
	Key    any
	Bounds cp.BB
}

type Connection struct {
	Type ConnectionType
	To   *Platform
}

type Platform struct {
	ID          int
	Key         any
	Bounds      cp.BB
	LeftEdge    cp.Vector
	RightEdge   cp.Vector
	Connections []Connection
}

func (p *Platform) Center() cp.Vector {
	return p.Bounds.Center()
}

func (p *Platform) connect(t ConnectionType, to *Platform) {
	if to == nil || to == p {
		return
	}
	for _, c := range p.Connections {
		if c.To == to && c.Type == t {
			return
		}
	}
	p.Connections = append(p.Connections, Connection{Type: t, To: to})
}

// PlatformGraph connects discrete platform surfaces by raycasting from their
// tops and edges.
type PlatformGraph struct {
	cfg       PlatformConfig
	rc        Raycaster
	platforms []*Platform
	byKey     map[any]*Platform
}

func NewPlatformGraph(cfg PlatformConfig, rc Raycaster, specs []PlatformSpec) *PlatformGraph {
	if cfg.LayerMask == 0 {
		cfg.LayerMask = defaultLayerMask
	}
	pg := &PlatformGraph{
		cfg:   cfg,
		rc:    rc,
		byKey: make(map[any]*Platform, len(specs)),
	}
	for i, s := range specs {
		p := &Platform{
			ID:        i,
			Key:       s.Key,
			Bounds:    s.Bounds,
			LeftEdge:  cp.Vector{X: s.Bounds.L, Y: s.Bounds.T},
			RightEdge: cp.Vector{X: s.Bounds.R, Y: s.Bounds.T},
		}
		pg.platforms = append(pg.platforms, p)
		if s.Key != nil {
			pg.byKey[s.Key] = p
		}
	}
	pg.Rebuild()
	return pg
}

func (pg *PlatformGraph) Platforms() []*Platform {
	if pg == nil {
		return nil
	}
	return pg.platforms
}

// Rebuild recomputes every connection.
func (pg *PlatformGraph) Rebuild() {
	if pg == nil {
		return
	}
	for _, p := range pg.platforms {
		p.Connections = p.Connections[:0]
	}
	if pg.rc == nil {
		logger.Warn("platform graph has no raycaster")
		return
	}
	for _, p := range pg.platforms {
		pg.findConnections(p)
	}
}

func (pg *PlatformGraph) findConnections(p *Platform) {
	// Agents can't jump up through platforms, so only the first hit above
	// each probe counts.
	for _, x := range []float64{p.Bounds.L, (p.Bounds.L + p.Bounds.R) / 2, p.Bounds.R} {
		origin := cp.Vector{X: x, Y: p.Bounds.T + pg.probeOffset()}
		if hit, ok := pg.rc.Raycast(origin, cp.Vector{X: 0, Y: 1}, pg.cfg.JumpHeight, pg.cfg.LayerMask); ok {
			if other := pg.byKey[hit.Object]; other != nil {
				p.connect(ConnectionJump, other)
			}
		}
	}

	pg.edgeConnections(p, p.LeftEdge, -1)
	pg.edgeConnections(p, p.RightEdge, 1)
}

func (pg *PlatformGraph) edgeConnections(p *Platform, edge cp.Vector, dir float64) {
	unit := pg.cfg.GridUnit
	if unit <= 0 {
		return
	}
	top := edge.Y + pg.cfg.JumpHeight
	reach := pg.cfg.JumpHeight + pg.cfg.DropHeight
	for dx := unit / 2; dx <= pg.cfg.JumpDistance; dx += unit {
		origin := cp.Vector{X: edge.X + dx*dir, Y: top}
		hit, ok := pg.rc.Raycast(origin, cp.Vector{X: 0, Y: -1}, reach, pg.cfg.LayerMask)
		if !ok {
			continue
		}
		other := pg.byKey[hit.Object]
		if other == nil || other == p {
			continue
		}
		dy := hit.Point.Y - edge.Y
		switch {
		case math.Abs(dy) < unit/2:
			p.connect(ConnectionWalk, other)
		case dy > 0:
			p.connect(ConnectionJump, other)
		case -dy <= pg.cfg.DropHeight:
			p.connect(ConnectionDrop, other)
		}
	}
}

func (pg *PlatformGraph) probeOffset() float64 {
	if pg.cfg.GridUnit > 0 {
		return pg.cfg.GridUnit / 10
	}
	return 0.01
}

// PlatformAt returns the platform directly below p.
func (pg *PlatformGraph) PlatformAt(p cp.Vector) (*Platform, bool) {
	if pg == nil || pg.rc == nil {
		return nil, false
	}
	hit, ok := pg.rc.Raycast(p, cp.Vector{X: 0, Y: -1}, math.Inf(1), pg.cfg.LayerMask)
	if !ok {
		return nil, false
	}
	plat := pg.byKey[hit.Object]
	return plat, plat != nil
}

// FindRoute searches depth first from one platform to another. Children are
// tried first when they lie on the same side of the agent as the target, then
// by distance to the agent. The returned route starts with a walk connection
// onto from itself.
func (pg *PlatformGraph) FindRoute(from, to *Platform, agentX float64, b *common.Budget) ([]Connection, error) {
	if from == nil || to == nil {
		return nil, ErrNoRoute
	}
	visited := make(map[*Platform]bool, len(pg.platforms))
	route, err := pg.routeFrom(Connection{Type: ConnectionWalk, To: from}, to, agentX, visited, b)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, ErrNoRoute
	}
	return route, nil
}

func (pg *PlatformGraph) routeFrom(start Connection, target *Platform, agentX float64, visited map[*Platform]bool, b *common.Budget) ([]Connection, error) {
	if visited[start.To] {
		return nil, nil
	}
	if !b.Spend() {
		return nil, ErrBudgetExceeded
	}
	visited[start.To] = true
	if start.To == target {
		return []Connection{start}, nil
	}

	targetSide := common.Sign(target.Center().X - agentX)
	children := append([]Connection(nil), start.To.Connections...)
	sort.SliceStable(children, func(i, j int) bool {
		si := sideRank(children[i].To, targetSide, agentX)
		sj := sideRank(children[j].To, targetSide, agentX)
		if si != sj {
			return si < sj
		}
		return math.Abs(children[i].To.Center().X-agentX) < math.Abs(children[j].To.Center().X-agentX)
	})

	for _, c := range children {
		sub, err := pg.routeFrom(c, target, agentX, visited, b)
		if err != nil {
			return nil, err
		}
		if sub != nil {
			return append([]Connection{start}, sub...), nil
		}
	}
	return nil, nil
}

func sideRank(p *Platform, targetSide int, agentX float64) int {
	if common.Sign(p.Center().X-agentX) == targetSide {
		return 0
	}
	return 1
}
