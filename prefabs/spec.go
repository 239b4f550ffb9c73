package prefabs

import (
	"fmt"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/npcnav/navmesh"
	"github.com/milk9111/npcnav/pathing"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// DecodeOverrides re-decodes raw (typically level entity props) on top of
// base, so only the keys present in raw change.
func DecodeOverrides[T any](base T, raw any) (T, error) {
	if raw == nil {
		return base, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return base, fmt.Errorf("prefabs: marshal overrides: %w", err)
	}
	out := base
	if err := yaml.Unmarshal(b, &out); err != nil {
		return base, fmt.Errorf("prefabs: decode overrides: %w", err)
	}
	return out, nil
}

type NavMeshSpec struct {
	Name           string  `yaml:"name"`
	CellSize       float64 `yaml:"cell_size"`
	LayerMask      uint    `yaml:"layer_mask"`
	SampleScale    float64 `yaml:"sample_scale"`
	Incremental    bool    `yaml:"incremental"`
	BuildSliceMS   float64 `yaml:"build_slice_ms"`
	BuildSteps     int     `yaml:"build_steps"`
	RefreshSliceMS float64 `yaml:"refresh_slice_ms"`
	RefreshSteps   int     `yaml:"refresh_steps"`
	PlatformGraph  bool    `yaml:"platform_graph"`
	// Bounds override the level extent when non-zero.
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

func LoadNavMeshSpec() (NavMeshSpec, error) {
	return LoadSpec[NavMeshSpec]("nav_mesh.yaml")
}

// GridConfig converts the spec for a level spanning bounds.
func (s NavMeshSpec) GridConfig(bounds cp.BB) navmesh.Config {
	cfg := navmesh.DefaultConfig()
	cfg.Min = cp.Vector{X: bounds.L, Y: bounds.B}
	cfg.Max = cp.Vector{X: bounds.R, Y: bounds.T}
	if s.MaxX != s.MinX && s.MaxY != s.MinY {
		cfg.Min = cp.Vector{X: s.MinX, Y: s.MinY}
		cfg.Max = cp.Vector{X: s.MaxX, Y: s.MaxY}
	}
	if s.CellSize > 0 {
		cfg.CellSize = s.CellSize
	}
	if s.LayerMask != 0 {
		cfg.LayerMask = s.LayerMask
	}
	if s.SampleScale > 0 {
		cfg.SampleScale = s.SampleScale
	}
	return cfg
}

func (s NavMeshSpec) BuildSlice() time.Duration {
	return millis(s.BuildSliceMS)
}

func (s NavMeshSpec) RefreshSlice() time.Duration {
	return millis(s.RefreshSliceMS)
}

type PlatformGraphSpec struct {
	Name         string  `yaml:"name"`
	JumpHeight   float64 `yaml:"jump_height"`
	JumpDistance float64 `yaml:"jump_distance"`
	DropHeight   float64 `yaml:"drop_height"`
	GridUnit     float64 `yaml:"grid_unit"`
	LayerMask    uint    `yaml:"layer_mask"`
}

func LoadPlatformGraphSpec() (PlatformGraphSpec, error) {
	return LoadSpec[PlatformGraphSpec]("platform_graph.yaml")
}

func (s PlatformGraphSpec) Config() navmesh.PlatformConfig {
	cfg := navmesh.DefaultPlatformConfig()
	if s.JumpHeight > 0 {
		cfg.JumpHeight = s.JumpHeight
	}
	if s.JumpDistance > 0 {
		cfg.JumpDistance = s.JumpDistance
	}
	if s.DropHeight > 0 {
		cfg.DropHeight = s.DropHeight
	}
	if s.GridUnit > 0 {
		cfg.GridUnit = s.GridUnit
	}
	if s.LayerMask != 0 {
		cfg.LayerMask = s.LayerMask
	}
	return cfg
}

type PathingAgentSpec struct {
	Name          string `yaml:"name"`
	Script        string `yaml:"script"`
	StepsPerFrame int    `yaml:"steps_per_frame"`

	MaxClimb     int  `yaml:"max_climb"`
	MaxJump      int  `yaml:"max_jump"`
	MaxDrop      int  `yaml:"max_drop"`
	MaxFloat     int  `yaml:"max_float"`
	DashEnabled  bool `yaml:"dash_enabled"`
	DashDistance int  `yaml:"dash_distance"`
	MaxDashes    int  `yaml:"max_dashes"`

	EndDistance   float64 `yaml:"end_distance"`
	SearchSliceMS float64 `yaml:"search_slice_ms"`

	Speed       float64 `yaml:"speed"`
	Threshold   float64 `yaml:"threshold"`
	MinAirTimeS float64 `yaml:"min_air_time"`
	MinApex     float64 `yaml:"min_apex"`

	TargetTolerance  float64 `yaml:"target_tolerance"`
	MinPathAgeS      float64 `yaml:"min_path_age"`
	TeleportTimeoutS float64 `yaml:"teleport_timeout"`
}

func LoadPathingAgentSpec() (PathingAgentSpec, error) {
	return LoadSpec[PathingAgentSpec]("pathing_agent.yaml")
}

// Config converts the spec and validates the result.
func (s PathingAgentSpec) Config() (pathing.Config, error) {
	cfg := pathing.Config{
		MaxClimb:        s.MaxClimb,
		MaxJump:         s.MaxJump,
		MaxDrop:         s.MaxDrop,
		MaxFloat:        s.MaxFloat,
		DashEnabled:     s.DashEnabled,
		DashDistance:    s.DashDistance,
		MaxDashes:       s.MaxDashes,
		EndDistance:     s.EndDistance,
		SearchSlice:     millis(s.SearchSliceMS),
		Speed:           s.Speed,
		Threshold:       s.Threshold,
		MinAirTime:      seconds(s.MinAirTimeS),
		MinApex:         s.MinApex,
		TargetTolerance: s.TargetTolerance,
		MinPathAge:      seconds(s.MinPathAgeS),
		TeleportTimeout: seconds(s.TeleportTimeoutS),
	}
	if err := cfg.Validate(); err != nil {
		return pathing.Config{}, fmt.Errorf("prefabs: pathing agent %q: %w", s.Name, err)
	}
	return cfg, nil
}

func millis(v float64) time.Duration {
	return time.Duration(v * float64(time.Millisecond))
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
