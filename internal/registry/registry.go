// Package registry provides a global registry of named scenarios.
// Built-in scenarios register themselves in init() functions, so the CLI and the
// viewer can discover them without hardcoded lists.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/sweep/internal/scenario"
)

// ErrUnknown is returned by Create for IDs that were never registered.
var ErrUnknown = errors.New("registry: unknown scenario")

// Info contains metadata about a registered scenario.
type Info struct {
	ID     string
	Title  string
	Frames int
	Pairs  int
}

// Factory builds a fresh copy of a scenario.
type Factory func() *scenario.Scenario

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]Info)
	mu        sync.RWMutex
)

// Register adds a scenario factory to the registry.
// Panics if a scenario with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scenario %q already registered", id))
	}

	factories[id] = f

	sc := f()
	infos[id] = Info{
		ID:     id,
		Title:  sc.Name,
		Frames: sc.Frames(),
		Pairs:  len(sc.Pairs),
	}
}

// List returns information about all registered scenarios, sorted by ID.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create builds the scenario registered under id.
func Create(id string) (*scenario.Scenario, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, id)
	}
	return f(), nil
}

// Exists checks if a scenario with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
