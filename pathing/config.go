package pathing

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

var ErrInvalidConfig = errors.New("pathing: invalid config")

var logger = log.WithPrefix("pathing")

// SetLogger replaces the package logger.
func SetLogger(l *log.Logger) {
	if l == nil {
		return
	}
	logger = l
}

// Config holds the tunables of one agent. Distances are in cells unless
// noted otherwise.
type Config struct {
	// Action model.
	MaxClimb     int
	MaxJump      int
	MaxDrop      int
	MaxFloat     int
	DashEnabled  bool
	DashDistance int
	MaxDashes    int

	// Search.
	EndDistance float64       // world units
	SearchSlice time.Duration // wall-clock work per frame

	// Executor.
	Speed      float64 // world units per second
	Threshold  float64 // world units
	MinAirTime time.Duration
	MinApex    float64

	// Controller.
	TargetTolerance float64 // world units
	MinPathAge      time.Duration
	TeleportTimeout time.Duration
}

// DefaultConfig mirrors the pathing_agent prefab defaults.
func DefaultConfig() Config {
	return Config{
		MaxClimb:        1,
		MaxJump:         3,
		MaxDrop:         4,
		MaxFloat:        1,
		DashEnabled:     false,
		DashDistance:    2,
		MaxDashes:       1,
		EndDistance:     0.5,
		SearchSlice:     2 * time.Millisecond,
		Speed:           5,
		Threshold:       0.05,
		MinAirTime:      250 * time.Millisecond,
		MinApex:         0.2,
		TargetTolerance: 0.2,
		MinPathAge:      500 * time.Millisecond,
		TeleportTimeout: 3 * time.Second,
	}
}

// Validate reports the first invalid tunable.
func (c Config) Validate() error {
	switch {
	case c.MaxClimb < 0:
		return fmt.Errorf("%w: max_climb %d", ErrInvalidConfig, c.MaxClimb)
	case c.MaxJump < 0 || c.MaxDrop < 0 || c.MaxFloat < 0:
		return fmt.Errorf("%w: negative chain limit", ErrInvalidConfig)
	case c.DashEnabled && c.DashDistance <= 0:
		return fmt.Errorf("%w: dash_distance %d", ErrInvalidConfig, c.DashDistance)
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed %v", ErrInvalidConfig, c.Speed)
	case c.EndDistance < 0 || c.Threshold < 0 || c.TargetTolerance < 0:
		return fmt.Errorf("%w: negative distance", ErrInvalidConfig)
	case c.TeleportTimeout <= 0:
		return fmt.Errorf("%w: teleport_timeout %v", ErrInvalidConfig, c.TeleportTimeout)
	}
	return nil
}
