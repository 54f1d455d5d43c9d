package builtin

import (
	"context"
	"testing"

	"github.com/vovakirdan/sweep/internal/collision"
	"github.com/vovakirdan/sweep/internal/history"
	"github.com/vovakirdan/sweep/internal/registry"
	"github.com/vovakirdan/sweep/internal/scenario"
)

func TestBuiltinScenariosRegistered(t *testing.T) {
	for _, id := range []string{"tunnel", "thin-wall", "landing", "pillar", "overtake", "orbit", "dive", "resting"} {
		if !registry.Exists(id) {
			t.Errorf("Exists(%q) = false, expected true", id)
		}
	}
}

func TestBuiltinScenariosPass(t *testing.T) {
	for _, info := range registry.List() {
		t.Run(info.ID, func(t *testing.T) {
			sc, err := registry.Create(info.ID)
			if err != nil {
				t.Fatalf("Create() failed: %v", err)
			}

			finder := collision.NewFinder(history.NewStore())
			report, err := scenario.Run(context.Background(), sc, finder)
			if err != nil {
				t.Fatalf("Run() failed: %v", err)
			}

			for _, f := range report.Failures {
				t.Errorf("%s", f)
			}
		})
	}
}
