package navmesh

import (
	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
)

const (
	defaultCellSize    = 0.5
	defaultSampleScale = 0.9
	defaultLayerMask   = 1 << 8
)

var logger = log.WithPrefix("navmesh")

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	logger = l
}

// Config describes the navigable region and how cells are sampled.
type Config struct {
	Min      cp.Vector
	Max      cp.Vector
	CellSize float64
	// LayerMask selects the collision categories that block a cell.
	LayerMask uint
	// SampleScale shrinks the sampled box so colliders that only touch a cell
	// edge do not block it.
	SampleScale float64
}

// DefaultConfig returns the tunables used when a prefab leaves them unset.
func DefaultConfig() Config {
	return Config{
		CellSize:    defaultCellSize,
		LayerMask:   defaultLayerMask,
		SampleScale: defaultSampleScale,
	}
}

func (c Config) withDefaults() Config {
	if c.LayerMask == 0 {
		c.LayerMask = defaultLayerMask
	}
	if c.SampleScale <= 0 || c.SampleScale > 1 {
		c.SampleScale = defaultSampleScale
	}
	return c
}
