// Package repotree filters, ranks, and budgets repository file entries and
// renders the surviving paths as a directory tree. Everything here is a pure
// function of paths and sizes; no I/O and no shared mutable state, so one
// pipeline serves any number of concurrent requests.
package repotree

import "strings"

const pathSegmentSeparator = "/"

// excludedDirectoryNames lists directory segments that mark a path as build
// output, dependency storage, cache, or IDE metadata. Matching is exact and
// case-sensitive per segment.
var excludedDirectoryNames = map[string]struct{}{
	".git":             {},
	"node_modules":     {},
	"vendor":           {},
	"bower_components": {},
	"jspm_packages":    {},
	"dist":             {},
	"build":            {},
	"target":           {},
	"bin":              {},
	"obj":              {},
	"out":              {},
	".output":          {},
	".cache":           {},
	"__pycache__":      {},
	".venv":            {},
	"venv":             {},
	"env":              {},
	".env":             {},
	"eggs":             {},
	".eggs":            {},
	".tox":             {},
	".mypy_cache":      {},
	".pytest_cache":    {},
	".idea":            {},
	".vscode":          {},
	".next":            {},
	".nuxt":            {},
	".gradle":          {},
	".terraform":       {},
	".serverless":      {},
	"coverage":         {},
	".coverage":        {},
	".nyc_output":      {},
	"htmlcov":          {},
}

// excludedFilenames lists lock files and filesystem junk that carry no signal.
var excludedFilenames = map[string]struct{}{
	"package-lock.json":   {},
	"yarn.lock":           {},
	"pnpm-lock.yaml":      {},
	"npm-shrinkwrap.json": {},
	"poetry.lock":         {},
	"Pipfile.lock":        {},
	"Cargo.lock":          {},
	"Gemfile.lock":        {},
	"composer.lock":       {},
	"go.sum":              {},
	".DS_Store":           {},
	"Thumbs.db":           {},
}

// excludedExtensions lists binary, media, archive, and compiled-artifact
// extensions. Matching is a case-insensitive suffix check on the filename.
var excludedExtensions = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".ico": {}, ".svg": {},
	".bmp": {}, ".webp": {},
	".woff": {}, ".woff2": {}, ".ttf": {}, ".eot": {}, ".otf": {},
	".mp3": {}, ".mp4": {}, ".avi": {}, ".mov": {}, ".mkv": {}, ".wav": {},
	".zip": {}, ".tar": {}, ".gz": {}, ".bz2": {}, ".xz": {}, ".rar": {}, ".7z": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".exe": {}, ".dll": {}, ".so": {}, ".dylib": {}, ".pyc": {}, ".pyo": {},
	".class": {}, ".o": {}, ".a": {}, ".jar": {}, ".war": {}, ".ear": {}, ".wasm": {},
	".sqlite": {}, ".sqlite3": {}, ".db": {}, ".dat": {}, ".bin": {},
	".map": {},
}

const (
	minifiedJavaScriptSuffix = ".min.js"
	minifiedStylesheetSuffix = ".min.css"
	buildChunkMarker         = ".chunk."
)

// IsExcluded reports whether a repository path is structurally uninformative
// and must never reach ranking or selection. The predicate is pure: the same
// path yields the same answer regardless of call order or other entries.
func IsExcluded(path string) bool {
	segments := strings.Split(path, pathSegmentSeparator)

	for _, directorySegment := range segments[:len(segments)-1] {
		if _, excluded := excludedDirectoryNames[directorySegment]; excluded {
			return true
		}
	}

	filename := segments[len(segments)-1]
	if _, excluded := excludedFilenames[filename]; excluded {
		return true
	}

	lowerFilename := strings.ToLower(filename)
	if extension := extensionOf(lowerFilename); extension != "" {
		if _, excluded := excludedExtensions[extension]; excluded {
			return true
		}
	}

	if strings.HasSuffix(lowerFilename, minifiedJavaScriptSuffix) || strings.HasSuffix(lowerFilename, minifiedStylesheetSuffix) {
		return true
	}
	if strings.Contains(filename, buildChunkMarker) {
		return true
	}

	return false
}

// extensionOf returns the final dot-suffix of a filename, including the dot,
// or an empty string when the filename has no dot.
func extensionOf(filename string) string {
	dotIndex := strings.LastIndex(filename, ".")
	if dotIndex == -1 {
		return ""
	}
	return filename[dotIndex:]
}
