package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed *.json
var LevelsFS embed.FS

//go:embed schema/level.schema.json
var levelSchemaJSON string

var levelSchema = jsonschema.MustCompileString("level.schema.json", levelSchemaJSON)

// Level is a tile map stored as JSON. Layers are row-major with row 0 at the
// top, as the editor writes them; the accessors below use y-up tile
// coordinates with y=0 at the bottom row.
type Level struct {
	Name      string      `json:"name,omitempty"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	TileSize  float64     `json:"tile_size,omitempty"`
	Layers    [][]int     `json:"layers"`
	LayerMeta []LayerMeta `json:"layer_meta,omitempty"`
	Entities  []Entity    `json:"entities,omitempty"`
}

type LayerMeta struct {
	Physics bool `json:"physics"`
}

// Entity is a placed level object. X and Y are tile coordinates in the same
// top-first convention as the layers.
type Entity struct {
	Type  string                 `json:"type"`
	X     int                    `json:"x"`
	Y     int                    `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// LoadLevelFromFS reads an embedded level; the .json extension is optional.
func LoadLevelFromFS(name string) (*Level, error) {
	if path.Ext(name) == "" {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parse(name, data)
}

// LoadLevel reads a level from disk, falling back to the embedded levels.
func LoadLevel(name string) (*Level, error) {
	if data, err := os.ReadFile(name); err == nil {
		return parse(name, data)
	}
	return LoadLevelFromFS(path.Base(name))
}

// List returns the embedded level names.
func List() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

func parse(name string, data []byte) (*Level, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := levelSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("level %s: %w", name, err)
	}

	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if lvl.Width <= 0 || lvl.Height <= 0 {
		return nil, fmt.Errorf("level %s: invalid size %dx%d", name, lvl.Width, lvl.Height)
	}
	for i, layer := range lvl.Layers {
		if len(layer) != lvl.Width*lvl.Height {
			return nil, fmt.Errorf("level %s: layer %d has %d tiles, want %d", name, i, len(layer), lvl.Width*lvl.Height)
		}
	}
	if lvl.TileSize <= 0 {
		lvl.TileSize = 1
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(path.Base(name), ".json")
	}
	return &lvl, nil
}

// HasPhysics reports whether tiles on layer idx collide. Levels without layer
// meta treat every layer as solid.
func (l *Level) HasPhysics(idx int) bool {
	if len(l.LayerMeta) == 0 {
		return true
	}
	return idx < len(l.LayerMeta) && l.LayerMeta[idx].Physics
}

// Solid reports whether any physics layer has a tile at (x, y), y-up.
func (l *Level) Solid(x, y int) bool {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return false
	}
	idx := (l.Height-1-y)*l.Width + x
	for i, layer := range l.Layers {
		if l.HasPhysics(i) && layer[idx] != 0 {
			return true
		}
	}
	return false
}

// Bounds returns the world rectangle covered by the level.
func (l *Level) Bounds() cp.BB {
	return cp.BB{L: 0, B: 0, R: float64(l.Width) * l.TileSize, T: float64(l.Height) * l.TileSize}
}

// TileCenter returns the world center of tile (x, y), y-up.
func (l *Level) TileCenter(x, y int) cp.Vector {
	return cp.Vector{
		X: (float64(x) + 0.5) * l.TileSize,
		Y: (float64(y) + 0.5) * l.TileSize,
	}
}

// Position returns the world center of the tile e was placed on.
func (l *Level) Position(e Entity) cp.Vector {
	return l.TileCenter(e.X, l.Height-1-e.Y)
}

// TilePoint converts a top-first tile coordinate pair to a world point at the
// tile center.
func (l *Level) TilePoint(x, y float64) cp.Vector {
	return cp.Vector{
		X: (x + 0.5) * l.TileSize,
		Y: (float64(l.Height-1) - y + 0.5) * l.TileSize,
	}
}

func (e Entity) PropFloat(key string, def float64) float64 {
	switch v := e.Props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func (e Entity) PropString(key, def string) string {
	if v, ok := e.Props[key].(string); ok && v != "" {
		return v
	}
	return def
}

func (e Entity) PropBool(key string, def bool) bool {
	if v, ok := e.Props[key].(bool); ok {
		return v
	}
	return def
}

// HasProp reports whether key is set.
func (e Entity) HasProp(key string) bool {
	_, ok := e.Props[key]
	return ok
}
