package discover_test

import (
	"testing"

	"github.com/temirov/gitbrief/internal/discover"
	"github.com/temirov/gitbrief/internal/types"
)

func containsHint(hints []string, wanted string) bool {
	for _, hint := range hints {
		if hint == wanted {
			return true
		}
	}
	return false
}

func TestTechnologyHintsFromGoModule(t *testing.T) {
	goModContent := `module example.com/demo

go 1.24.0

require (
	github.com/spf13/cobra v1.10.1
	go.uber.org/zap v1.27.0
)

require (
	github.com/spf13/pflag v1.0.10 // indirect
)
`
	hints := discover.TechnologyHints([]types.FileContent{{Path: "go.mod", Content: goModContent}})

	if !containsHint(hints, "github.com/spf13/cobra") || !containsHint(hints, "go.uber.org/zap") {
		t.Fatalf("hints = %v, want direct requirements", hints)
	}
	if containsHint(hints, "github.com/spf13/pflag") {
		t.Errorf("hints include indirect dependency: %v", hints)
	}
}

func TestTechnologyHintsFromPackageJSON(t *testing.T) {
	packageJSONContent := `{
	"name": "demo",
	"dependencies": {"express": "^4.18.0", "react": "^18.0.0"},
	"devDependencies": {"vitest": "^1.0.0"}
}`
	hints := discover.TechnologyHints([]types.FileContent{{Path: "web/package.json", Content: packageJSONContent}})

	for _, wanted := range []string{"express", "react", "vitest"} {
		if !containsHint(hints, wanted) {
			t.Fatalf("hints = %v, missing %s", hints, wanted)
		}
	}
}

func TestTechnologyHintsFromRequirements(t *testing.T) {
	requirementsContent := "# web stack\nflask==3.0.0\nrequests>=2.31\n-r other.txt\n\nsqlalchemy[asyncio]~=2.0\n"
	hints := discover.TechnologyHints([]types.FileContent{{Path: "requirements.txt", Content: requirementsContent}})

	for _, wanted := range []string{"flask", "requests", "sqlalchemy"} {
		if !containsHint(hints, wanted) {
			t.Fatalf("hints = %v, missing %s", hints, wanted)
		}
	}
}

func TestTechnologyHintsFromPyProject(t *testing.T) {
	pyprojectContent := `[project]
name = "demo"
dependencies = [
    "fastapi>=0.100",
    "uvicorn[standard]==0.23.0",
]
`
	hints := discover.TechnologyHints([]types.FileContent{{Path: "pyproject.toml", Content: pyprojectContent}})

	for _, wanted := range []string{"fastapi", "uvicorn"} {
		if !containsHint(hints, wanted) {
			t.Fatalf("hints = %v, missing %s", hints, wanted)
		}
	}
}

func TestTechnologyHintsFromCargoToml(t *testing.T) {
	cargoContent := `[package]
name = "demo"

[dependencies]
serde = { version = "1.0", features = ["derive"] }
tokio = "1"

[dev-dependencies]
criterion = "0.5"
`
	hints := discover.TechnologyHints([]types.FileContent{{Path: "Cargo.toml", Content: cargoContent}})

	for _, wanted := range []string{"serde", "tokio", "criterion"} {
		if !containsHint(hints, wanted) {
			t.Fatalf("hints = %v, missing %s", hints, wanted)
		}
	}
}

func TestTechnologyHintsDeduplicatesAcrossManifests(t *testing.T) {
	files := []types.FileContent{
		{Path: "package.json", Content: `{"dependencies":{"react":"^18.0.0"}}`},
		{Path: "app/package.json", Content: `{"dependencies":{"react":"^18.0.0"}}`},
	}

	hints := discover.TechnologyHints(files)

	occurrences := 0
	for _, hint := range hints {
		if hint == "react" {
			occurrences++
		}
	}
	if occurrences != 1 {
		t.Fatalf("react appears %d times in %v", occurrences, hints)
	}
}

func TestTechnologyHintsIgnoresMalformedManifest(t *testing.T) {
	files := []types.FileContent{
		{Path: "package.json", Content: "not json at all"},
		{Path: "go.mod", Content: "also not a module file {{{"},
	}

	if hints := discover.TechnologyHints(files); len(hints) != 0 {
		t.Fatalf("expected no hints from malformed manifests, got %v", hints)
	}
}
