package delegate

import (
	"path/filepath"
	"strings"

	"github.com/psantana5/ceres-scripts/internal/wrapper"
)

// defaultInterpreters run scripts whose extension they own. The first
// candidate found on PATH wins.
var defaultInterpreters = map[string][]string{
	".py": {"python3", "python"},
}

// Command builds the launch for the target with args forwarded.
//
// Interpreted targets run as `<interpreter> <TargetPath> args...`, so the
// script sees its own path as argv[0]. Anything else is executed directly
// with argv[0] set to TargetPath.
func (d *Delegator) Command(args []string) (wrapper.Command, error) {
	targetPath := d.ResolveTarget()

	candidates := d.interpreters(targetPath)
	if len(candidates) == 0 {
		argv := make([]string, 0, len(args)+1)
		argv = append(argv, targetPath)
		argv = append(argv, args...)
		return wrapper.Command{Name: d.Target.Name, Path: targetPath, Args: argv}, nil
	}

	interpPath, interp, err := d.findInterpreter(candidates)
	if err != nil {
		return wrapper.Command{}, newLaunchError(candidates[0], err)
	}

	argv := make([]string, 0, len(args)+2)
	argv = append(argv, interp, targetPath)
	argv = append(argv, args...)
	return wrapper.Command{Name: d.Target.Name, Path: interpPath, Args: argv}, nil
}

// interpreters picks, in order: the target's own interpreter, then for
// extensions with a default, the configured one or that default. Other
// files run directly.
func (d *Delegator) interpreters(targetPath string) []string {
	if d.Target.Interpreter != "" {
		return []string{d.Target.Interpreter}
	}
	defaults := defaultInterpreters[strings.ToLower(filepath.Ext(targetPath))]
	if len(defaults) > 0 && d.Interpreter != "" {
		return []string{d.Interpreter}
	}
	return defaults
}

func (d *Delegator) findInterpreter(candidates []string) (string, string, error) {
	var firstErr error
	for _, name := range candidates {
		path, err := d.lookPath(name)
		if err == nil {
			return path, name, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", "", firstErr
}
