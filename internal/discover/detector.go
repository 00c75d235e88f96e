// Package discover extracts dependency names from already-fetched manifest
// files. The names are surfaced as technology hints alongside the model's
// own list; nothing here inspects source code.
package discover

import (
	"sort"
	"strings"

	"github.com/temirov/gitbrief/internal/types"
)

// Ecosystem identifies the package manager or language family a manifest
// belongs to.
type Ecosystem string

const (
	// EcosystemGo represents Go modules.
	EcosystemGo Ecosystem = "go"
	// EcosystemJavaScript represents npm-based projects.
	EcosystemJavaScript Ecosystem = "js"
	// EcosystemPython represents Python packages.
	EcosystemPython Ecosystem = "python"
	// EcosystemRust represents Cargo crates.
	EcosystemRust Ecosystem = "rust"
)

// Dependency is one third-party dependency found in a manifest.
type Dependency struct {
	Name      string
	Ecosystem Ecosystem
}

// detector extracts dependencies from one manifest filename.
type detector interface {
	Ecosystem() Ecosystem
	// ManifestFilename is the final path segment the detector understands.
	ManifestFilename() string
	// Detect parses the manifest content. A malformed manifest yields no
	// dependencies rather than an error: hints are best-effort.
	Detect(content string) []Dependency
}

var registeredDetectors = []detector{
	goDetector{},
	javaScriptDetector{},
	pythonRequirementsDetector{},
	pythonProjectDetector{},
	rustDetector{},
}

// TechnologyHints scans the fetched files for recognized manifests and
// returns the dependency names, deduplicated and sorted.
func TechnologyHints(files []types.FileContent) []string {
	seen := map[string]struct{}{}
	var hints []string
	for _, file := range files {
		filename := finalPathSegment(file.Path)
		for _, registeredDetector := range registeredDetectors {
			if registeredDetector.ManifestFilename() != filename {
				continue
			}
			for _, dependency := range registeredDetector.Detect(file.Content) {
				normalized := strings.ToLower(dependency.Name)
				if _, alreadySeen := seen[normalized]; alreadySeen {
					continue
				}
				seen[normalized] = struct{}{}
				hints = append(hints, dependency.Name)
			}
		}
	}
	sort.Strings(hints)
	return hints
}

func finalPathSegment(path string) string {
	segments := strings.Split(path, "/")
	return segments[len(segments)-1]
}
