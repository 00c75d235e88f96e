package service_test

import (
	"testing"

	"github.com/temirov/gitbrief/internal/service"
)

func TestParseReference(t *testing.T) {
	testCases := []struct {
		name          string
		rawReference  string
		expectedOwner string
		expectedName  string
		expectError   bool
	}{
		{
			name:          "owner_name_pair",
			rawReference:  "temirov/ctx",
			expectedOwner: "temirov",
			expectedName:  "ctx",
		},
		{
			name:          "https_url",
			rawReference:  "https://github.com/golang/go",
			expectedOwner: "golang",
			expectedName:  "go",
		},
		{
			name:          "url_without_scheme",
			rawReference:  "github.com/spf13/cobra",
			expectedOwner: "spf13",
			expectedName:  "cobra",
		},
		{
			name:          "url_with_www_prefix",
			rawReference:  "https://www.github.com/spf13/viper",
			expectedOwner: "spf13",
			expectedName:  "viper",
		},
		{
			name:          "url_with_git_suffix",
			rawReference:  "https://github.com/temirov/ctx.git",
			expectedOwner: "temirov",
			expectedName:  "ctx",
		},
		{
			name:          "url_with_trailing_path",
			rawReference:  "https://github.com/golang/go/tree/master/src",
			expectedOwner: "golang",
			expectedName:  "go",
		},
		{
			name:          "surrounding_whitespace_trimmed",
			rawReference:  "  temirov/ctx  ",
			expectedOwner: "temirov",
			expectedName:  "ctx",
		},
		{
			name:         "empty_reference",
			rawReference: "",
			expectError:  true,
		},
		{
			name:         "whitespace_only_reference",
			rawReference: "   ",
			expectError:  true,
		},
		{
			name:         "bare_owner_without_name",
			rawReference: "temirov",
			expectError:  true,
		},
		{
			name:         "interior_whitespace",
			rawReference: "temirov / ctx",
			expectError:  true,
		},
		{
			name:         "non_github_host",
			rawReference: "https://gitlab.com/group/project",
			expectError:  true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			reference, parseError := service.ParseReference(testCase.rawReference)
			if testCase.expectError {
				if parseError == nil {
					t.Fatalf("expected error for %q, got %v", testCase.rawReference, reference)
				}
				if statusCode := service.StatusCodeFromError(parseError); statusCode != 400 {
					t.Fatalf("expected status 400, got %d", statusCode)
				}
				return
			}
			if parseError != nil {
				t.Fatalf("unexpected error: %v", parseError)
			}
			if reference.Owner != testCase.expectedOwner || reference.Name != testCase.expectedName {
				t.Fatalf("expected %s/%s, got %s/%s",
					testCase.expectedOwner, testCase.expectedName, reference.Owner, reference.Name)
			}
		})
	}
}

func TestRepositoryReferenceString(t *testing.T) {
	reference := service.RepositoryReference{Owner: "temirov", Name: "gitbrief"}
	if reference.String() != "temirov/gitbrief" {
		t.Fatalf("unexpected rendering %q", reference.String())
	}
}
