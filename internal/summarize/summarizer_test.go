package summarize_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/temirov/gitbrief/internal/summarize"
	"github.com/temirov/gitbrief/internal/types"
)

func sampleContext() types.RepoContext {
	return types.RepoContext{
		Metadata: types.RepoMetadata{
			Owner:       "octocat",
			Name:        "hello-world",
			Description: "demo project",
			Stars:       42,
			Forks:       7,
			Language:    "Python",
		},
		DirectoryTree: "|-- README.md\n`-- src/\n    `-- main.py",
		Files: []types.FileContent{
			{Path: "README.md", Content: "# hello"},
			{Path: "src/main.py", Content: "print('hi')"},
		},
	}
}

func chatCompletionBody(content string) string {
	encoded, _ := json.Marshal(content)
	return `{"choices":[{"message":{"content":` + string(encoded) + `}}]}`
}

func newTestSummarizer(server *httptest.Server) summarize.Summarizer {
	return summarize.NewSummarizer(server.Client(), "test-key").WithBaseURL(server.URL)
}

func TestBuildPromptOrdersSections(t *testing.T) {
	prompt := summarize.BuildPrompt(sampleContext())

	requiredInOrder := []string{
		"# Repository: octocat/hello-world",
		"# Description: demo project",
		"# Stars: 42 | Forks: 7 | Language: Python",
		"## Directory Tree",
		"## File Contents",
		"### README.md",
		"### src/main.py",
	}
	searchOffset := 0
	for _, required := range requiredInOrder {
		foundIndex := strings.Index(prompt[searchOffset:], required)
		if foundIndex == -1 {
			t.Fatalf("prompt missing %q after offset %d:\n%s", required, searchOffset, prompt)
		}
		searchOffset += foundIndex + len(required)
	}
}

func TestBuildPromptOmitsEmptyDescription(t *testing.T) {
	repoContext := sampleContext()
	repoContext.Metadata.Description = ""

	prompt := summarize.BuildPrompt(repoContext)

	if strings.Contains(prompt, "# Description:") {
		t.Error("prompt contains a description line for an empty description")
	}
}

func TestSummarizeParsesValidResponse(t *testing.T) {
	responseJSON := `{"summary":"A demo.","technologies":["Python","Flask"],"structure":"Flat."}`
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", request.URL.Path)
		}
		if authorization := request.Header.Get("Authorization"); authorization != "Bearer test-key" {
			t.Errorf("Authorization = %q", authorization)
		}
		writer.Write([]byte(chatCompletionBody(responseJSON)))
	}))
	defer server.Close()

	summary, summarizeError := newTestSummarizer(server).Summarize(context.Background(), sampleContext())
	if summarizeError != nil {
		t.Fatalf("Summarize returned error: %v", summarizeError)
	}
	if summary.Summary != "A demo." {
		t.Errorf("Summary = %q", summary.Summary)
	}
	if len(summary.Technologies) != 2 || summary.Technologies[0] != "Python" {
		t.Errorf("Technologies = %v", summary.Technologies)
	}
	if summary.Structure != "Flat." {
		t.Errorf("Structure = %q", summary.Structure)
	}
}

func TestSummarizeStripsMarkdownFences(t *testing.T) {
	fenced := "```json\n{\"summary\":\"A demo.\",\"technologies\":[\"Go\"],\"structure\":\"Flat.\"}\n```"
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(chatCompletionBody(fenced)))
	}))
	defer server.Close()

	summary, summarizeError := newTestSummarizer(server).Summarize(context.Background(), sampleContext())
	if summarizeError != nil {
		t.Fatalf("Summarize returned error: %v", summarizeError)
	}
	if summary.Summary != "A demo." {
		t.Errorf("Summary = %q", summary.Summary)
	}
}

func TestSummarizeRejectsMalformedOutput(t *testing.T) {
	testCases := []struct {
		name           string
		backendContent string
	}{
		{name: "not_json", backendContent: "The project is a web framework."},
		{name: "missing_summary_field", backendContent: `{"technologies":["Go"],"structure":"Flat."}`},
		{name: "missing_technologies_field", backendContent: `{"summary":"A demo.","structure":"Flat."}`},
		{name: "missing_structure_field", backendContent: `{"summary":"A demo.","technologies":["Go"]}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				writer.Write([]byte(chatCompletionBody(testCase.backendContent)))
			}))
			defer server.Close()

			_, summarizeError := newTestSummarizer(server).Summarize(context.Background(), sampleContext())
			if !errors.Is(summarizeError, summarize.ErrMalformedSummary) {
				t.Fatalf("error = %v, want ErrMalformedSummary", summarizeError)
			}
		})
	}
}

func TestSummarizeRejectsEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, summarizeError := newTestSummarizer(server).Summarize(context.Background(), sampleContext())
	if !errors.Is(summarizeError, summarize.ErrMalformedSummary) {
		t.Fatalf("error = %v, want ErrMalformedSummary", summarizeError)
	}
}

func TestSummarizeReportsBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, summarizeError := newTestSummarizer(server).Summarize(context.Background(), sampleContext())
	if !errors.Is(summarizeError, summarize.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want ErrBackendUnavailable", summarizeError)
	}
}

func TestSummarizeRequiresAPIKey(t *testing.T) {
	summarizer := summarize.NewSummarizer(nil, "")
	_, summarizeError := summarizer.Summarize(context.Background(), sampleContext())
	if !errors.Is(summarizeError, summarize.ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", summarizeError)
	}
}

func TestMergeTechnologiesAppendsNewHintsOnly(t *testing.T) {
	summary := types.Summary{Technologies: []string{"Python", "Flask"}}

	merged := summarize.MergeTechnologies(summary, []string{"python", "PostgreSQL", "", "flask", "PostgreSQL"})

	expected := []string{"Python", "Flask", "PostgreSQL"}
	if len(merged.Technologies) != len(expected) {
		t.Fatalf("Technologies = %v, want %v", merged.Technologies, expected)
	}
	for technologyIndex, technology := range expected {
		if merged.Technologies[technologyIndex] != technology {
			t.Fatalf("Technologies = %v, want %v", merged.Technologies, expected)
		}
	}
}
