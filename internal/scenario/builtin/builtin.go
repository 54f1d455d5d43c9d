// Package builtin registers the scenarios shipped with the binary.
// Import it for side effects:
//
//	import _ "github.com/vovakirdan/sweep/internal/scenario/builtin"
package builtin

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/vovakirdan/sweep/internal/registry"
	"github.com/vovakirdan/sweep/internal/scenario"
)

//go:embed scenarios/*.yaml
var files embed.FS

func init() {
	entries, err := fs.ReadDir(files, "scenarios")
	if err != nil {
		panic(fmt.Sprintf("builtin: %v", err))
	}

	for _, e := range entries {
		name := "scenarios/" + e.Name()
		data, err := files.ReadFile(name)
		if err != nil {
			panic(fmt.Sprintf("builtin: %s: %v", name, err))
		}

		// Parse once up front so a broken file fails at startup.
		sc, err := scenario.ParseYAML(data)
		if err != nil {
			panic(fmt.Sprintf("builtin: %s: %v", name, err))
		}

		registry.Register(sc.ID, func() *scenario.Scenario {
			fresh, _ := scenario.ParseYAML(data)
			return fresh
		})
	}
}
