package repotree

import (
	"strings"

	"github.com/temirov/gitbrief/internal/types"
)

const (
	readmeFilenamePrefix    = "README"
	workflowDirectoryPrefix = ".github/workflows/"
	testFilenamePrefix      = "test_"
)

// testDirectoryNames marks whole path segments that signal test trees.
var testDirectoryNames = map[string]struct{}{
	"test":  {},
	"tests": {},
	"spec":  {},
}

// manifestFilenames holds build and package manifests ranked at
// types.TierManifest. Names are matched exactly against the final segment.
var manifestFilenames = map[string]struct{}{
	"package.json":        {},
	"pyproject.toml":      {},
	"setup.py":            {},
	"setup.cfg":           {},
	"Cargo.toml":          {},
	"go.mod":              {},
	"pom.xml":             {},
	"build.gradle":        {},
	"build.gradle.kts":    {},
	"Makefile":            {},
	"CMakeLists.txt":      {},
	"Dockerfile":          {},
	"docker-compose.yml":  {},
	"docker-compose.yaml": {},
	"requirements.txt":    {},
	"Gemfile":             {},
	"Pipfile":             {},
	"composer.json":       {},
	"tsconfig.json":       {},
	"tox.ini":             {},
	".eslintrc.json":      {},
	".eslintrc.js":        {},
	"webpack.config.js":   {},
	"vite.config.ts":      {},
	"vite.config.js":      {},
	"next.config.js":      {},
	"next.config.mjs":     {},
}

// entryPointFilenames holds conventional program entry points. The names give
// a tie-break boost within types.TierSource, not a distinct tier, and also
// rescue extensionless conventional names from the skip tier.
var entryPointFilenames = map[string]struct{}{
	"main.py":   {},
	"app.py":    {},
	"index.py":  {},
	"index.ts":  {},
	"index.js":  {},
	"main.ts":   {},
	"main.js":   {},
	"server.py": {},
	"server.ts": {},
	"server.js": {},
	"main.go":   {},
	"main.rs":   {},
	"lib.rs":    {},
	"mod.rs":    {},
}

// sourceExtensions holds the extensions recognized as informative text.
var sourceExtensions = map[string]struct{}{
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".go": {},
	".rs": {}, ".java": {}, ".kt": {}, ".rb": {}, ".php": {}, ".c": {},
	".cpp": {}, ".h": {}, ".hpp": {}, ".cs": {}, ".swift": {}, ".scala": {},
	".clj": {}, ".ex": {}, ".exs": {}, ".erl": {}, ".hs": {}, ".lua": {},
	".r": {}, ".jl": {}, ".sh": {}, ".bash": {}, ".zsh": {}, ".fish": {},
	".yaml": {}, ".yml": {}, ".toml": {}, ".json": {}, ".xml": {},
	".html": {}, ".css": {}, ".scss": {}, ".sass": {}, ".less": {},
	".sql": {}, ".graphql": {}, ".proto": {}, ".tf": {}, ".hcl": {},
	".md": {}, ".rst": {}, ".txt": {},
}

// testFilenameSuffixes marks test or spec files by filename suffix.
var testFilenameSuffixes = []string{
	"_test.py",
	"_test.go",
	".test.js",
	".test.ts",
	".spec.js",
	".spec.ts",
}

// Priority classifies a path into its selection tier. The result depends on
// the path alone.
func Priority(path string) types.Tier {
	segments := strings.Split(path, pathSegmentSeparator)
	filename := segments[len(segments)-1]

	if strings.HasPrefix(strings.ToUpper(filename), readmeFilenamePrefix) {
		return types.TierReadme
	}

	if _, isManifest := manifestFilenames[filename]; isManifest {
		return types.TierManifest
	}
	if strings.HasPrefix(path, workflowDirectoryPrefix) {
		return types.TierManifest
	}

	extension := extensionOf(strings.ToLower(filename))
	_, isSourceExtension := sourceExtensions[extension]
	_, isEntryPoint := entryPointFilenames[filename]
	if !isSourceExtension && !isEntryPoint {
		return types.TierSkip
	}

	if isTestPath(path, filename) {
		return types.TierTest
	}

	return types.TierSource
}

// IsEntryPoint reports whether the final path segment is a conventional
// program entry point.
func IsEntryPoint(path string) bool {
	segments := strings.Split(path, pathSegmentSeparator)
	_, isEntryPoint := entryPointFilenames[segments[len(segments)-1]]
	return isEntryPoint
}

func isTestPath(path string, filename string) bool {
	for _, segment := range strings.Split(strings.ToLower(path), pathSegmentSeparator) {
		if _, isTestDirectory := testDirectoryNames[segment]; isTestDirectory {
			return true
		}
	}
	if strings.HasPrefix(filename, testFilenamePrefix) {
		return true
	}
	for _, suffix := range testFilenameSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return true
		}
	}
	return false
}
