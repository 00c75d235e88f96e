package summarize

import (
	"fmt"
	"strings"

	"github.com/temirov/gitbrief/internal/types"
)

const systemPrompt = `You are a senior software engineer analyzing a GitHub repository.
You will be given: repository metadata, its directory tree, and contents of key files.

Respond with a JSON object containing exactly these fields:
- "summary": A 2-4 paragraph description of what this project does, its purpose, and how it works at a high level.
- "technologies": A list of programming languages, frameworks, libraries, and tools used in this project.
- "structure": A description of how the project is organized, its main directories, and the role of key files.

Respond ONLY with the JSON object. Do not wrap it in markdown code fences or add any text outside the JSON.`

const (
	codeFence             = "```"
	directoryTreeHeading  = "## Directory Tree"
	fileContentsHeading   = "## File Contents"
	repositoryLineFormat  = "# Repository: %s/%s"
	descriptionLineFormat = "# Description: %s"
	statisticsLineFormat  = "# Stars: %d | Forks: %d | Language: %s"
	fileHeadingFormat     = "\n### %s"
)

// BuildPrompt renders the assembled repository context into the text blob
// sent to the summarization backend. Files appear in selection order, which
// is the priority order the model should weight them in.
func BuildPrompt(repoContext types.RepoContext) string {
	var sections []string

	metadata := repoContext.Metadata
	sections = append(sections, fmt.Sprintf(repositoryLineFormat, metadata.Owner, metadata.Name))
	if metadata.Description != "" {
		sections = append(sections, fmt.Sprintf(descriptionLineFormat, metadata.Description))
	}
	sections = append(sections, fmt.Sprintf(statisticsLineFormat, metadata.Stars, metadata.Forks, metadata.Language))
	sections = append(sections, "")

	sections = append(sections, directoryTreeHeading)
	sections = append(sections, codeFence)
	sections = append(sections, repoContext.DirectoryTree)
	sections = append(sections, codeFence)
	sections = append(sections, "")

	sections = append(sections, fileContentsHeading)
	for _, file := range repoContext.Files {
		sections = append(sections, fmt.Sprintf(fileHeadingFormat, file.Path))
		sections = append(sections, codeFence)
		sections = append(sections, file.Content)
		sections = append(sections, codeFence)
	}

	return strings.Join(sections, "\n")
}
