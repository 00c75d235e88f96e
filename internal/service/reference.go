package service

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	referenceSeparator            = "/"
	gitSuffix                     = ".git"
	emptyReferenceMessage         = "repository reference is empty"
	malformedReferenceMessage     = "repository reference %q is not owner/name or a GitHub URL"
	githubHostPattern             = `^(?:https?://)?(?:www\.)?github\.com/`
	repositoryPathPattern         = `([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)`
	ownerNameReferencePatternText = `^([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)$`
)

var (
	githubURLPattern      = regexp.MustCompile(githubHostPattern + repositoryPathPattern + `(?:/.*)?$`)
	ownerNamePattern      = regexp.MustCompile(ownerNameReferencePatternText)
	whitespaceInReference = regexp.MustCompile(`\s`)
)

// RepositoryReference identifies a repository by owner and name.
type RepositoryReference struct {
	Owner string
	Name  string
}

// String renders the reference as owner/name.
func (reference RepositoryReference) String() string {
	return reference.Owner + referenceSeparator + reference.Name
}

// ParseReference accepts either an owner/name pair or a GitHub URL and
// returns the repository it names. A trailing .git suffix and any path
// segments after the repository name are tolerated.
func ParseReference(rawReference string) (RepositoryReference, error) {
	trimmedReference := strings.TrimSpace(rawReference)
	if trimmedReference == "" {
		return RepositoryReference{}, NewError(KindInvalidInput, fmt.Errorf(emptyReferenceMessage))
	}
	if whitespaceInReference.MatchString(trimmedReference) {
		return RepositoryReference{}, NewError(KindInvalidInput, fmt.Errorf(malformedReferenceMessage, rawReference))
	}
	if urlMatch := githubURLPattern.FindStringSubmatch(trimmedReference); urlMatch != nil {
		return newReference(urlMatch[1], urlMatch[2]), nil
	}
	if pairMatch := ownerNamePattern.FindStringSubmatch(trimmedReference); pairMatch != nil {
		return newReference(pairMatch[1], pairMatch[2]), nil
	}
	return RepositoryReference{}, NewError(KindInvalidInput, fmt.Errorf(malformedReferenceMessage, rawReference))
}

func newReference(owner string, name string) RepositoryReference {
	return RepositoryReference{
		Owner: owner,
		Name:  strings.TrimSuffix(name, gitSuffix),
	}
}
