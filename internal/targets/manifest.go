package targets

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/psantana5/ceres-scripts/internal/workspace"
)

// ManifestPath is where a workspace declares extra targets.
const ManifestPath = ".ceres/targets.toml"

type manifestFile struct {
	Targets []manifestTarget `toml:"target"`
}

type manifestTarget struct {
	Name        string `toml:"name"`
	Path        string `toml:"path"`
	Component   string `toml:"component"`
	Interpreter string `toml:"interpreter"`
}

// LoadManifest reads extra targets from file. A missing file yields none.
func LoadManifest(file string) ([]Target, error) {
	var raw manifestFile
	meta, err := toml.DecodeFile(file, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("load target manifest: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("load target manifest: unknown keys %s", strings.Join(keys, ", "))
	}

	out := make([]Target, 0, len(raw.Targets))
	for _, mt := range raw.Targets {
		out = append(out, Target{
			Name:        strings.TrimSpace(mt.Name),
			Subpath:     strings.TrimSpace(mt.Path),
			Component:   strings.TrimSpace(mt.Component),
			Interpreter: strings.TrimSpace(mt.Interpreter),
		})
	}
	return out, nil
}

// Load builds the registry for the workspace at root: built-ins plus
// whatever its manifest declares.
func Load(root string) (*Registry, error) {
	extra, err := LoadManifest(workspace.Join(root, ManifestPath))
	if err != nil {
		return nil, err
	}
	return NewRegistry(extra...)
}
