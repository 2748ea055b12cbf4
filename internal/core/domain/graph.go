package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// EdgeFunc returns the dependency edges of the named target, or false if it is not registered.
type EdgeFunc func(name string) ([]Dependency, bool)

// DetectCycle walks the graph reachable from roots depth-first and returns
// ErrCycleDetected with the cycle path if one exists.
// Unregistered names are treated as leaves; reporting them is the caller's job.
func DetectCycle(roots []string, edges EdgeFunc) error {
	const (
		unvisited = iota
		visiting
		visited
	)
	state := make(map[TargetKey]int)
	var path []string

	var visit func(name string) error
	visit = func(name string) error {
		key := KeyOf(name)
		state[key] = visiting
		path = append(path, name)

		deps, ok := edges(name)
		if ok {
			for _, dep := range deps {
				switch state[KeyOf(dep.Name)] {
				case visiting:
					return buildCycleError(path, dep.Name)
				case unvisited:
					if err := visit(dep.Name); err != nil {
						return err
					}
				}
			}
		}

		state[key] = visited
		path = path[:len(path)-1]
		return nil
	}

	for _, root := range roots {
		if state[KeyOf(root)] == unvisited {
			if err := visit(root); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildCycleError constructs an error with cycle path metadata.
func buildCycleError(path []string, dep string) error {
	depKey := KeyOf(dep)
	start := 0
	for i, node := range path {
		if KeyOf(node) == depKey {
			start = i
			break
		}
	}

	cycle := append([]string{}, path[start:]...)
	cycle = append(cycle, dep)

	err := zerr.Wrap(ErrCycleDetected, "dependency graph is not acyclic")
	err = zerr.With(err, "cycle", strings.Join(cycle, " -> "))
	return WithCode(err, CodeCycleDetected)
}
