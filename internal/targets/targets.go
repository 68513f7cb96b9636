// Package targets names the core scripts a delegator can hand off to.
package targets

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/psantana5/ceres-scripts/internal/workspace"
)

// Target is one core entry-point script.
type Target struct {
	Name        string `json:"name" yaml:"name"`
	Component   string `json:"component" yaml:"component"`
	Subpath     string `json:"path" yaml:"path"`
	Interpreter string `json:"interpreter,omitempty" yaml:"interpreter,omitempty"`
	Builtin     bool   `json:"builtin" yaml:"builtin"`
}

var (
	// LogEvent records an event through the core event logger.
	LogEvent = Target{
		Name:      "log_event",
		Component: "CERES core log_event.py",
		Subpath:   workspace.ScriptsDir + "/log_event.py",
		Builtin:   true,
	}

	// Preflight runs the core preflight checks.
	Preflight = Target{
		Name:      "preflight",
		Component: "CERES core preflight.py",
		Subpath:   workspace.ScriptsDir + "/preflight.py",
		Builtin:   true,
	}
)

// ErrUnknownTarget is returned by Lookup for names that are not registered.
var ErrUnknownTarget = errors.New("unknown target")

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// Builtins returns the targets compiled into every delegator.
func Builtins() []Target {
	return []Target{LogEvent, Preflight}
}

// DefaultComponent is the label used in diagnostics when none is given.
func DefaultComponent(subpath string) string {
	return "CERES core " + path.Base(subpath)
}

// Validate checks the name and keeps the subpath inside the workspace.
func (t Target) Validate() error {
	if !namePattern.MatchString(t.Name) {
		return fmt.Errorf("invalid target name %q", t.Name)
	}
	if strings.TrimSpace(t.Subpath) == "" {
		return fmt.Errorf("target %s: path is required", t.Name)
	}
	if strings.HasPrefix(t.Subpath, "/") || !filepath.IsLocal(filepath.FromSlash(t.Subpath)) {
		return fmt.Errorf("target %s: path %q must be relative to the workspace root", t.Name, t.Subpath)
	}
	return nil
}

// Registry is an ordered set of targets keyed by name.
type Registry struct {
	targets []Target
	byName  map[string]int
}

// NewRegistry returns the built-in targets followed by extra.
func NewRegistry(extra ...Target) (*Registry, error) {
	r := &Registry{byName: make(map[string]int)}
	for _, t := range Builtins() {
		r.add(t)
	}
	for _, t := range extra {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byName[t.Name]; exists {
			return nil, fmt.Errorf("target %s is already defined", t.Name)
		}
		t.Builtin = false
		if t.Component == "" {
			t.Component = DefaultComponent(t.Subpath)
		}
		r.add(t)
	}
	return r, nil
}

func (r *Registry) add(t Target) {
	r.byName[t.Name] = len(r.targets)
	r.targets = append(r.targets, t)
}

// Lookup returns the target registered under name.
func (r *Registry) Lookup(name string) (Target, error) {
	i, ok := r.byName[name]
	if !ok {
		return Target{}, fmt.Errorf("%w: %s", ErrUnknownTarget, name)
	}
	return r.targets[i], nil
}

// All returns every target in registration order.
func (r *Registry) All() []Target {
	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}

// Names returns target names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.targets))
	for _, t := range r.targets {
		names = append(names, t.Name)
	}
	return names
}
