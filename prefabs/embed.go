package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed *.yaml scripts/*.tengo
var FS embed.FS

// diskRoot is checked before the embedded files so prefabs and scripts can be
// tuned without rebuilding. Empty disables disk lookups.
var diskRoot = "prefabs"

// SetDiskRoot changes the directory searched before the embedded files.
func SetDiskRoot(dir string) {
	diskRoot = dir
}

// Load reads a YAML prefab by name, e.g. "nav_mesh.yaml".
func Load(name string) ([]byte, error) {
	return read(cleanPath(name, ""))
}

// LoadScript reads a target script by name, e.g. "patrol.tengo".
func LoadScript(name string) ([]byte, error) {
	return read(cleanPath(name, "scripts"))
}

func read(clean string) ([]byte, error) {
	if clean == "" {
		return nil, errors.New("prefabs: empty name")
	}
	if diskRoot != "" {
		if data, err := os.ReadFile(filepath.Join(diskRoot, filepath.FromSlash(clean))); err == nil {
			return data, nil
		}
	}
	return fs.ReadFile(FS, clean)
}

// cleanPath strips any leading "prefabs/" or dir prefix and returns the path
// relative to the prefab root.
func cleanPath(name, dir string) string {
	s := strings.TrimSpace(filepath.ToSlash(name))
	if s == "" {
		return ""
	}
	s = strings.TrimPrefix(s, "prefabs/")
	if dir != "" {
		s = path.Join(dir, strings.TrimPrefix(s, dir+"/"))
	}
	return s
}
