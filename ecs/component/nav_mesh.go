package component

import (
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/navmesh"
)

// NavMesh holds the level's grid index and, optionally, its platform graph.
// The nav mesh system creates Grid and Graph from the configs.
type NavMesh struct {
	Config         navmesh.Config
	Incremental    bool
	BuildSlice     time.Duration
	BuildSteps     int
	RefreshSlice   time.Duration
	RefreshSteps   int
	PlatformGraph  bool
	PlatformConfig navmesh.PlatformConfig

	Grid   *navmesh.Grid
	Graph  *navmesh.PlatformGraph
	Failed bool
	Passes int
}

// Ready reports whether the grid can be queried.
func (n *NavMesh) Ready() bool {
	return n != nil && !n.Failed && n.Grid.Built()
}

var NavMeshComponent = NewComponent[NavMesh]()

// DynamicNavElement marks a world rectangle whose cells are re-sampled
// continuously once registered with the nav mesh.
type DynamicNavElement struct {
	Min        cp.Vector
	Max        cp.Vector
	Registered bool
	Region     navmesh.Region
}

var DynamicNavElementComponent = NewComponent[DynamicNavElement]()
