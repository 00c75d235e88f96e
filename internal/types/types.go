// Package types defines every cross-package data structure used by gitbrief.
package types

// Tier orders files for content selection. Lower values are fetched first.
type Tier int

const (
	// TierReadme covers canonical top-level documentation such as README variants.
	TierReadme Tier = 1
	// TierManifest covers build and package manifests plus CI workflow configuration.
	TierManifest Tier = 2
	// TierSource covers ordinary source files.
	TierSource Tier = 3
	// TierTest covers test and spec files.
	TierTest Tier = 4
	// TierSkip marks files that are never fetched.
	TierSkip Tier = 99
)

// RepoEntry is a single file reported by the repository tree listing.
// SizeBytes is the host's approximation and stands in for the content
// character count until the file is actually fetched.
type RepoEntry struct {
	Path      string
	SizeBytes int64
}

// RepoMetadata holds repository identity and the descriptive fields returned
// by the repository host.
type RepoMetadata struct {
	Owner         string
	Name          string
	Description   string
	Stars         int
	Forks         int
	Language      string
	DefaultBranch string
}

// FileContent pairs a selected path with its fetched content. RepoContext
// keeps these in selection order; a map would lose the priority ordering the
// summarizer is shown.
type FileContent struct {
	Path    string
	Content string
}

// RepoContext is the assembled input for one summarization request. It is
// built once per request and discarded after the summarizer returns.
type RepoContext struct {
	Metadata      RepoMetadata
	DirectoryTree string
	Files         []FileContent
}

// ContentByPath returns the fetched content for a path.
func (repoContext RepoContext) ContentByPath(path string) (string, bool) {
	for _, file := range repoContext.Files {
		if file.Path == path {
			return file.Content, true
		}
	}
	return "", false
}

// Summary is the structured result produced by the summarization backend.
type Summary struct {
	Summary      string   `json:"summary"`
	Technologies []string `json:"technologies"`
	Structure    string   `json:"structure"`
}

// SummarizeRequest is the HTTP request body accepted by the summarize endpoint.
type SummarizeRequest struct {
	GitHubURL string `json:"github_url"`
}

// ErrorResponse is the uniform HTTP error envelope.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
