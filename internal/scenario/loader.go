package scenario

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Loader reads scenario files from a directory tree.
type Loader struct {
	Root string
}

// NewLoader creates a loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively loads every scenario file under Root, sorted by ID.
// Files that fail to parse are skipped.
func (l *Loader) LoadAll() ([]*Scenario, error) {
	var scenarios []*Scenario

	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !IsScenarioFile(path) {
			return nil
		}

		sc, err := LoadFile(path)
		if err != nil {
			return nil
		}
		scenarios = append(scenarios, sc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	sort.Slice(scenarios, func(i, j int) bool {
		return scenarios[i].ID < scenarios[j].ID
	})
	return scenarios, nil
}

// LoadByID loads the scenario with the given ID.
func (l *Loader) LoadByID(id string) (*Scenario, error) {
	scenarios, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	for _, sc := range scenarios {
		if sc.ID == id {
			return sc, nil
		}
	}
	return nil, fmt.Errorf("scenario not found: %s", id)
}

// LoadFile reads and parses one scenario file.
func LoadFile(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	sc, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing file %s: %w", path, err)
	}
	sc.FilePath = path
	return sc, nil
}

// IsScenarioFile reports whether the path has a scenario file extension.
func IsScenarioFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}
