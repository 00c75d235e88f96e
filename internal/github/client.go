// Package github lists repository trees and fetches file contents from the
// GitHub REST API and the raw content host.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitbrief/internal/types"
	"github.com/temirov/gitbrief/internal/utils"
)

const (
	defaultAPIBaseURL         = "https://api.github.com"
	defaultRawContentBaseURL  = "https://raw.githubusercontent.com"
	defaultAPITimeout         = 30 * time.Second
	defaultUserAgent          = "gitbrief-client"
	defaultFetchConcurrency   = 8
	headerAuthorization       = "Authorization"
	headerAccept              = "Accept"
	headerUserAgent           = "User-Agent"
	headerGitHubAPIVersion    = "X-GitHub-Api-Version"
	acceptGitHubJSON          = "application/vnd.github+json"
	githubAPIVersionValue     = "2022-11-28"
	authorizationBearerPrefix = "Bearer "
	authorizationTokenPrefix  = "token "
	treeEntryTypeBlob         = "blob"
	truncatedContentMarker    = "\n\n... [truncated]"
)

// Upstream failure classes. Callers map each to a distinct user-facing status.
var (
	// ErrRepositoryNotFound reports a repository the host does not know.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrRateLimited reports an exhausted API quota.
	ErrRateLimited = errors.New("rate limit exceeded")
	// ErrUpstreamUnavailable reports any other upstream failure.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

type apiRepository struct {
	Description   string `json:"description"`
	Stars         int    `json:"stargazers_count"`
	Forks         int    `json:"forks_count"`
	Language      string `json:"language"`
	DefaultBranch string `json:"default_branch"`
}

type apiTreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type apiTree struct {
	Tree      []apiTreeEntry `json:"tree"`
	Truncated bool           `json:"truncated"`
}

// TreeListing is the flat file listing of one repository ref.
type TreeListing struct {
	Entries []types.RepoEntry
	// Truncated reports that the host hit its tree-size ceiling and the
	// listing is incomplete.
	Truncated bool
}

// Client talks to the GitHub API. The zero value is not usable; construct it
// with NewClient and the With builders.
type Client struct {
	client                   httpClient
	apiBase                  string
	rawContentBase           string
	userAgent                string
	fetchConcurrency         int
	maxFileChars             int
	authorizationHeaderValue string
}

// NewClient creates a Client with defaults applied. A nil httpClient gets a
// plain http.Client with the default timeout.
func NewClient(client httpClient) Client {
	if client == nil {
		client = &http.Client{Timeout: defaultAPITimeout}
	}
	return Client{
		client:           client,
		apiBase:          defaultAPIBaseURL,
		rawContentBase:   defaultRawContentBaseURL,
		userAgent:        defaultUserAgent,
		fetchConcurrency: defaultFetchConcurrency,
	}
}

// WithAPIBase overrides the GitHub API base URL.
func (gitHubClient Client) WithAPIBase(base string) Client {
	if base == "" {
		return gitHubClient
	}
	gitHubClient.apiBase = strings.TrimRight(base, "/")
	return gitHubClient
}

// WithRawContentBase overrides the raw file content base URL.
func (gitHubClient Client) WithRawContentBase(base string) Client {
	if base == "" {
		return gitHubClient
	}
	gitHubClient.rawContentBase = strings.TrimRight(base, "/")
	return gitHubClient
}

// WithUserAgent overrides the User-Agent header value.
func (gitHubClient Client) WithUserAgent(agent string) Client {
	if agent == "" {
		return gitHubClient
	}
	gitHubClient.userAgent = agent
	return gitHubClient
}

// WithAuthorizationToken configures authenticated GitHub API calls, which
// raises rate limits. An empty token leaves requests anonymous.
func (gitHubClient Client) WithAuthorizationToken(token string) Client {
	gitHubClient.authorizationHeaderValue = formatAuthorizationHeaderValue(token)
	return gitHubClient
}

// WithFetchConcurrency bounds the number of concurrent content fetches.
func (gitHubClient Client) WithFetchConcurrency(limit int) Client {
	if limit <= 0 {
		return gitHubClient
	}
	gitHubClient.fetchConcurrency = limit
	return gitHubClient
}

// WithMaxFileChars truncates individual fetched files beyond the limit.
// Zero disables per-file truncation.
func (gitHubClient Client) WithMaxFileChars(limit int) Client {
	if limit < 0 {
		return gitHubClient
	}
	gitHubClient.maxFileChars = limit
	return gitHubClient
}

// ResolveRepository fetches repository metadata including the default branch.
func (gitHubClient Client) ResolveRepository(ctx context.Context, owner string, name string) (types.RepoMetadata, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s", gitHubClient.apiBase, url.PathEscape(owner), url.PathEscape(name))
	body, requestError := gitHubClient.getJSON(ctx, apiURL)
	if requestError != nil {
		return types.RepoMetadata{}, requestError
	}

	var repository apiRepository
	if decodeError := json.Unmarshal(body, &repository); decodeError != nil {
		return types.RepoMetadata{}, fmt.Errorf("%w: decode repository payload: %v", ErrUpstreamUnavailable, decodeError)
	}

	defaultBranch := repository.DefaultBranch
	if defaultBranch == "" {
		defaultBranch = "main"
	}
	return types.RepoMetadata{
		Owner:         owner,
		Name:          name,
		Description:   repository.Description,
		Stars:         repository.Stars,
		Forks:         repository.Forks,
		Language:      repository.Language,
		DefaultBranch: defaultBranch,
	}, nil
}

// ListTree fetches the recursive tree for a ref and returns the blob entries
// with their reported sizes.
func (gitHubClient Client) ListTree(ctx context.Context, owner string, name string, reference string) (TreeListing, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1",
		gitHubClient.apiBase, url.PathEscape(owner), url.PathEscape(name), url.PathEscape(reference))
	body, requestError := gitHubClient.getJSON(ctx, apiURL)
	if requestError != nil {
		return TreeListing{}, requestError
	}

	var tree apiTree
	if decodeError := json.Unmarshal(body, &tree); decodeError != nil {
		return TreeListing{}, fmt.Errorf("%w: decode tree payload: %v", ErrUpstreamUnavailable, decodeError)
	}

	listing := TreeListing{Truncated: tree.Truncated}
	for _, treeEntry := range tree.Tree {
		if treeEntry.Type != treeEntryTypeBlob {
			continue
		}
		listing.Entries = append(listing.Entries, types.RepoEntry{
			Path:      treeEntry.Path,
			SizeBytes: treeEntry.Size,
		})
	}
	return listing, nil
}

// FetchContents downloads the provided paths concurrently and returns the
// contents in the order the paths were supplied. A failed or binary file is
// dropped from the result; it never fails the batch.
func (gitHubClient Client) FetchContents(ctx context.Context, owner string, name string, reference string, paths []string) ([]types.FileContent, error) {
	// Each goroutine writes its own slot, so no locking is needed; the
	// final pass restores selection order regardless of completion order.
	fetched := make([]*string, len(paths))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(gitHubClient.fetchConcurrency)
	for pathIndex, path := range paths {
		pathIndex, path := pathIndex, path
		group.Go(func() error {
			content, fetchError := gitHubClient.fetchFile(groupCtx, owner, name, reference, path)
			if fetchError != nil {
				if groupCtx.Err() != nil {
					return groupCtx.Err()
				}
				return nil
			}
			fetched[pathIndex] = &content
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	contents := make([]types.FileContent, 0, len(paths))
	for pathIndex, path := range paths {
		if fetched[pathIndex] == nil {
			continue
		}
		contents = append(contents, types.FileContent{Path: path, Content: *fetched[pathIndex]})
	}
	return contents, nil
}

// fetchFile downloads one raw file. Any failure, including binary content,
// is reported as an error the caller is expected to swallow.
func (gitHubClient Client) fetchFile(ctx context.Context, owner string, name string, reference string, path string) (string, error) {
	rawURL := gitHubClient.buildRawContentURL(owner, name, reference, path)
	request, requestError := gitHubClient.buildRequest(ctx, rawURL, "")
	if requestError != nil {
		return "", requestError
	}
	response, responseError := gitHubClient.client.Do(request)
	if responseError != nil {
		return "", responseError
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", response.StatusCode, rawURL)
	}
	contentBytes, readError := io.ReadAll(response.Body)
	if readError != nil {
		return "", readError
	}
	if utils.IsBinary(contentBytes) {
		return "", fmt.Errorf("binary content at %s", path)
	}
	content := string(contentBytes)
	if gitHubClient.maxFileChars > 0 && len(content) > gitHubClient.maxFileChars {
		content = content[:gitHubClient.maxFileChars] + truncatedContentMarker
	}
	return content, nil
}

func (gitHubClient Client) getJSON(ctx context.Context, apiURL string) ([]byte, error) {
	request, requestError := gitHubClient.buildRequest(ctx, apiURL, acceptGitHubJSON)
	if requestError != nil {
		return nil, requestError
	}
	response, responseError := gitHubClient.client.Do(request)
	if responseError != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, responseError)
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrRepositoryNotFound
	case http.StatusForbidden, http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(response.Body, 8*1024))
		return nil, fmt.Errorf("%w: unexpected status %d for %s: %s", ErrUpstreamUnavailable, response.StatusCode, apiURL, string(body))
	}

	body, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUpstreamUnavailable, readError)
	}
	return body, nil
}

func (gitHubClient Client) buildRequest(ctx context.Context, rawURL string, acceptValue string) (*http.Request, error) {
	request, requestError := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if requestError != nil {
		return nil, requestError
	}
	request.Header.Set(headerUserAgent, gitHubClient.userAgent)
	if gitHubClient.authorizationHeaderValue != "" {
		request.Header.Set(headerAuthorization, gitHubClient.authorizationHeaderValue)
	}
	if acceptValue != "" {
		request.Header.Set(headerAccept, acceptValue)
		request.Header.Set(headerGitHubAPIVersion, githubAPIVersionValue)
	}
	return request, nil
}

func (gitHubClient Client) buildRawContentURL(owner string, name string, reference string, path string) string {
	var builder strings.Builder
	builder.WriteString(gitHubClient.rawContentBase)
	builder.WriteByte('/')
	builder.WriteString(url.PathEscape(owner))
	builder.WriteByte('/')
	builder.WriteString(url.PathEscape(name))
	builder.WriteByte('/')
	builder.WriteString(url.PathEscape(reference))
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		builder.WriteByte('/')
		builder.WriteString(url.PathEscape(segment))
	}
	return builder.String()
}

func formatAuthorizationHeaderValue(rawToken string) string {
	trimmed := strings.TrimSpace(rawToken)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, strings.ToLower(authorizationBearerPrefix)) || strings.HasPrefix(lower, strings.ToLower(authorizationTokenPrefix)) {
		return trimmed
	}
	if strings.Contains(trimmed, ".") {
		return authorizationBearerPrefix + trimmed
	}
	return authorizationTokenPrefix + trimmed
}
