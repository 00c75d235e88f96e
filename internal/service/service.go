// Package service orchestrates one summarization request from repository
// reference to structured summary.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/gitbrief/internal/config"
	"github.com/temirov/gitbrief/internal/discover"
	"github.com/temirov/gitbrief/internal/github"
	"github.com/temirov/gitbrief/internal/repotree"
	"github.com/temirov/gitbrief/internal/summarize"
	"github.com/temirov/gitbrief/internal/tokenizer"
	"github.com/temirov/gitbrief/internal/types"
	"github.com/temirov/gitbrief/internal/utils"
)

const (
	emptyRepositoryMessageFormat = "repository %s has no summarizable content"

	logFieldRepository     = "repository"
	logFieldBranch         = "branch"
	logFieldTreeEntries    = "tree_entries"
	logFieldEligibleFiles  = "eligible_files"
	logFieldSelectedFiles  = "selected_files"
	logFieldFetchedFiles   = "fetched_files"
	logFieldBudgetChars    = "budget_chars"
	logFieldConsumedChars  = "consumed_chars"
	logFieldContentSize    = "content_size"
	logFieldEstimatedToken = "estimated_tokens"
	logFieldDuration       = "duration"
)

// RepositoryHost lists a repository's tree and fetches file contents.
type RepositoryHost interface {
	ResolveRepository(ctx context.Context, owner string, name string) (types.RepoMetadata, error)
	ListTree(ctx context.Context, owner string, name string, reference string) (github.TreeListing, error)
	FetchContents(ctx context.Context, owner string, name string, reference string, paths []string) ([]types.FileContent, error)
}

// SummaryBackend produces a structured summary from an assembled context.
type SummaryBackend interface {
	Summarize(ctx context.Context, repoContext types.RepoContext) (types.Summary, error)
}

// Service runs the summarization pipeline: resolve, list, filter, rank,
// select, fetch, assemble, summarize.
type Service struct {
	host          RepositoryHost
	backend       SummaryBackend
	configuration config.Configuration
	logger        *zap.Logger
	tokenCounter  tokenizer.Counter
}

// NewService wires the pipeline collaborators together. A nil logger is
// replaced with a no-op logger; a failed tokenizer load only disables the
// token estimate, never the pipeline.
func NewService(host RepositoryHost, backend SummaryBackend, configuration config.Configuration, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	tokenCounter, counterError := tokenizer.NewCounter(configuration.OpenAIModel)
	if counterError != nil {
		logger.Warn("token estimation disabled", zap.Error(counterError))
		tokenCounter = nil
	}
	return Service{
		host:          host,
		backend:       backend,
		configuration: configuration,
		logger:        logger,
		tokenCounter:  tokenCounter,
	}
}

// Summarize resolves rawReference, assembles the budgeted repository context,
// and returns the backend's validated summary with manifest-derived
// technology hints merged in.
func (summarizeService Service) Summarize(ctx context.Context, rawReference string) (types.Summary, error) {
	repoContext, buildError := summarizeService.BuildContext(ctx, rawReference)
	if buildError != nil {
		return types.Summary{}, buildError
	}
	return summarizeService.SummarizeContext(ctx, repoContext)
}

// SummarizeContext sends an already-assembled context to the backend and
// merges manifest-derived technology hints into the validated summary.
func (summarizeService Service) SummarizeContext(ctx context.Context, repoContext types.RepoContext) (types.Summary, error) {
	summary, summarizeError := summarizeService.backend.Summarize(ctx, repoContext)
	if summarizeError != nil {
		return types.Summary{}, classifyBackendError(summarizeError)
	}
	return summarize.MergeTechnologies(summary, discover.TechnologyHints(repoContext.Files)), nil
}

// BuildContext runs every pipeline stage up to and including content
// assembly, without calling the summarization backend.
func (summarizeService Service) BuildContext(ctx context.Context, rawReference string) (types.RepoContext, error) {
	startedAt := time.Now()

	reference, parseError := ParseReference(rawReference)
	if parseError != nil {
		return types.RepoContext{}, parseError
	}

	metadata, resolveError := summarizeService.host.ResolveRepository(ctx, reference.Owner, reference.Name)
	if resolveError != nil {
		return types.RepoContext{}, classifyHostError(resolveError)
	}

	listing, listError := summarizeService.host.ListTree(ctx, reference.Owner, reference.Name, metadata.DefaultBranch)
	if listError != nil {
		return types.RepoContext{}, classifyHostError(listError)
	}
	if listing.Truncated {
		summarizeService.logger.Warn("upstream truncated the tree listing",
			zap.String(logFieldRepository, reference.String()))
	}

	treePaths := make([]string, 0, len(listing.Entries))
	for _, repoEntry := range listing.Entries {
		if repotree.IsExcluded(repoEntry.Path) {
			continue
		}
		treePaths = append(treePaths, repoEntry.Path)
	}
	renderedTree := repotree.Render(treePaths, summarizeService.configuration.TreeLineLimit)

	eligibleEntries := repotree.EligibleEntries(listing.Entries)
	budgetChars := summarizeService.configuration.ContentBudget(len(renderedTree))
	selectedEntries, consumedChars := repotree.Select(eligibleEntries, budgetChars)

	selectedPaths := make([]string, 0, len(selectedEntries))
	for _, selectedEntry := range selectedEntries {
		selectedPaths = append(selectedPaths, selectedEntry.Path)
	}
	fetchedFiles, fetchError := summarizeService.host.FetchContents(ctx, reference.Owner, reference.Name, metadata.DefaultBranch, selectedPaths)
	if fetchError != nil {
		return types.RepoContext{}, classifyHostError(fetchError)
	}

	if len(fetchedFiles) == 0 && renderedTree == "" {
		return types.RepoContext{}, NewError(KindEmptyResult, fmt.Errorf(emptyRepositoryMessageFormat, reference))
	}

	repoContext := types.RepoContext{
		Metadata:      metadata,
		DirectoryTree: renderedTree,
		Files:         fetchedFiles,
	}

	var totalContentBytes int64
	for _, fetchedFile := range fetchedFiles {
		totalContentBytes += int64(len(fetchedFile.Content))
	}

	summarizeService.logger.Info("assembled repository context",
		zap.String(logFieldRepository, reference.String()),
		zap.String(logFieldBranch, metadata.DefaultBranch),
		zap.Int(logFieldTreeEntries, len(treePaths)),
		zap.Int(logFieldEligibleFiles, len(eligibleEntries)),
		zap.Int(logFieldSelectedFiles, len(selectedEntries)),
		zap.Int(logFieldFetchedFiles, len(fetchedFiles)),
		zap.Int64(logFieldBudgetChars, budgetChars),
		zap.Int64(logFieldConsumedChars, consumedChars),
		zap.String(logFieldContentSize, utils.FormatFileSize(totalContentBytes)),
		zap.Int(logFieldEstimatedToken, summarizeService.estimateTokens(repoContext)),
		zap.Duration(logFieldDuration, time.Since(startedAt)),
	)
	return repoContext, nil
}

// EstimateTokens reports the token estimate of the assembled context, or
// zero when the tokenizer is unavailable.
func (summarizeService Service) EstimateTokens(repoContext types.RepoContext) int {
	return summarizeService.estimateTokens(repoContext)
}

func (summarizeService Service) estimateTokens(repoContext types.RepoContext) int {
	if summarizeService.tokenCounter == nil {
		return 0
	}
	tokenCount, countError := summarizeService.tokenCounter.CountString(summarize.BuildPrompt(repoContext))
	if countError != nil {
		return 0
	}
	return tokenCount
}

// classifyHostError maps repository-host failures onto pipeline error kinds.
func classifyHostError(hostError error) error {
	switch {
	case errors.Is(hostError, github.ErrRepositoryNotFound):
		return NewError(KindUpstreamNotFound, hostError)
	case errors.Is(hostError, github.ErrRateLimited):
		return NewError(KindUpstreamRateLimited, hostError)
	default:
		return NewError(KindUpstreamUnavailable, hostError)
	}
}

// classifyBackendError maps summarization failures onto pipeline error kinds.
func classifyBackendError(backendError error) error {
	switch {
	case errors.Is(backendError, summarize.ErrMissingAPIKey):
		return NewError(KindMisconfigured, backendError)
	case errors.Is(backendError, summarize.ErrMalformedSummary):
		return NewError(KindDownstreamMalformed, backendError)
	case errors.Is(backendError, summarize.ErrBackendTimeout), errors.Is(backendError, context.DeadlineExceeded):
		return NewError(KindDownstreamTimeout, backendError)
	default:
		return NewError(KindDownstreamUnavailable, backendError)
	}
}
