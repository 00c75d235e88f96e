// Package cli provides the command line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gitbrief/internal/config"
	"github.com/temirov/gitbrief/internal/github"
	"github.com/temirov/gitbrief/internal/service"
	"github.com/temirov/gitbrief/internal/services/clipboard"
	"github.com/temirov/gitbrief/internal/services/httpapi"
	"github.com/temirov/gitbrief/internal/summarize"
	"github.com/temirov/gitbrief/internal/types"
	"github.com/temirov/gitbrief/internal/utils"
)

const (
	rootUse              = "gitbrief"
	rootShortDescription = "gitbrief command line interface"
	rootLongDescription  = `gitbrief fetches a public GitHub repository and produces a structured summary.
It selects the most informative files within a character budget, sends them to
an OpenAI-compatible model, and prints the summary, technologies, and structure.
Use --version to print the application version.`

	configFlagName         = "config"
	configFlagDescription  = "path to a configuration file"
	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	versionTemplate        = "gitbrief version: %s\n"

	summarizeUse              = "summarize <owner/repo | GitHub URL>"
	summarizeAlias            = "s"
	summarizeShortDescription = "summarize a public GitHub repository (" + summarizeAlias + ")"
	summarizeLongDescription  = `Fetch the repository metadata, directory tree, and a budgeted selection of
file contents, then ask the model for a structured summary.
Requires OPENAI_API_KEY; GITHUB_TOKEN raises the GitHub rate limit.`
	summarizeUsageExample = `  # Summarize by owner/repo shorthand
  gitbrief summarize golang/go

  # Summarize a URL and print raw JSON
  gitbrief summarize https://github.com/spf13/cobra --json

  # Copy the summary to the clipboard with a tighter content budget
  gitbrief summarize temirov/ctx --copy --budget 50000`

	serveUse              = "serve"
	serveShortDescription = "run the summarization HTTP API"
	serveLongDescription  = `Start an HTTP server exposing POST /summarize and GET /healthz.
The server stops gracefully on SIGINT or SIGTERM.`
	serveUsageExample = `  # Serve on the configured address (default :8080)
  gitbrief serve

  # Serve on an explicit address
  gitbrief serve --address 127.0.0.1:9000`

	jsonFlagName           = "json"
	jsonFlagDescription    = "print the summary as raw JSON"
	copyFlagName           = "copy"
	copyFlagDescription    = "copy the output to the system clipboard"
	budgetFlagName         = "budget"
	budgetFlagDescription  = "override the content character budget"
	modelFlagName          = "model"
	modelFlagDescription   = "override the summarization model"
	addressFlagName        = "address"
	addressFlagDescription = "listen address for the HTTP API"

	invalidBudgetMessageFormat = "budget must be at least %d characters, got %d"
	clipboardCopiedMessage     = "Copied to clipboard."
	serverListeningFormat      = "gitbrief API listening on %s"

	summarySectionHeading      = "Summary:"
	technologiesSectionHeading = "Technologies:"
	structureSectionHeading    = "Structure:"
	technologyItemPrefix       = "  - "
	sectionIndent              = "  "
	estimatedTokensFormat      = "Estimated context tokens: %d\n"
)

// Execute runs the gitbrief application.
func Execute() error {
	rootCommand := createRootCommand()
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand() *cobra.Command {
	var showVersion bool
	var configFilePath string

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configFilePath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createSummarizeCommand(&configFilePath),
		createServeCommand(&configFilePath),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// summarizeOptions stores configuration for the summarize subcommand flags.
type summarizeOptions struct {
	jsonOutput      bool
	copyToClipboard bool
	budgetOverride  int64
	modelOverride   string
}

// createSummarizeCommand returns the summarize subcommand.
func createSummarizeCommand(configFilePath *string) *cobra.Command {
	var options summarizeOptions

	summarizeCommand := &cobra.Command{
		Use:     summarizeUse,
		Aliases: []string{summarizeAlias},
		Short:   summarizeShortDescription,
		Long:    summarizeLongDescription,
		Example: summarizeUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runSummarize(command.Context(), arguments[0], *configFilePath, options)
		},
	}

	summarizeCommand.Flags().BoolVar(&options.jsonOutput, jsonFlagName, false, jsonFlagDescription)
	summarizeCommand.Flags().BoolVar(&options.copyToClipboard, copyFlagName, false, copyFlagDescription)
	summarizeCommand.Flags().Int64Var(&options.budgetOverride, budgetFlagName, 0, budgetFlagDescription)
	summarizeCommand.Flags().StringVar(&options.modelOverride, modelFlagName, "", modelFlagDescription)
	return summarizeCommand
}

// createServeCommand returns the serve subcommand.
func createServeCommand(configFilePath *string) *cobra.Command {
	var listenAddress string

	serveCommand := &cobra.Command{
		Use:     serveUse,
		Short:   serveShortDescription,
		Long:    serveLongDescription,
		Example: serveUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runServe(command.Context(), *configFilePath, listenAddress)
		},
	}

	serveCommand.Flags().StringVar(&listenAddress, addressFlagName, "", addressFlagDescription)
	return serveCommand
}

// runSummarize executes the pipeline once and prints the result.
func runSummarize(ctx context.Context, rawReference string, configFilePath string, options summarizeOptions) error {
	configuration, configurationError := config.Load(config.LoadOptions{ExplicitFilePath: configFilePath})
	if configurationError != nil {
		return configurationError
	}
	if options.budgetOverride != 0 {
		if options.budgetOverride < config.MinContentChars {
			return fmt.Errorf(invalidBudgetMessageFormat, config.MinContentChars, options.budgetOverride)
		}
		configuration.MaxContentChars = options.budgetOverride
	}
	if options.modelOverride != "" {
		configuration.OpenAIModel = options.modelOverride
	}

	logger, loggerError := utils.NewApplicationLogger()
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer logger.Sync()

	pipeline := newPipeline(configuration, logger)

	repoContext, buildError := pipeline.BuildContext(ctx, rawReference)
	if buildError != nil {
		return buildError
	}
	summary, summarizeError := pipeline.SummarizeContext(ctx, repoContext)
	if summarizeError != nil {
		return summarizeError
	}

	renderedOutput, renderError := renderSummary(summary, options.jsonOutput)
	if renderError != nil {
		return renderError
	}
	fmt.Println(renderedOutput)
	if !options.jsonOutput {
		if estimatedTokens := pipeline.EstimateTokens(repoContext); estimatedTokens > 0 {
			fmt.Printf(estimatedTokensFormat, estimatedTokens)
		}
	}

	if options.copyToClipboard {
		if copyError := clipboard.NewSystemCopier().Copy(renderedOutput); copyError != nil {
			return copyError
		}
		fmt.Fprintln(os.Stderr, clipboardCopiedMessage)
	}
	return nil
}

// runServe starts the HTTP API and blocks until the process is signaled.
func runServe(ctx context.Context, configFilePath string, listenAddress string) error {
	configuration, configurationError := config.Load(config.LoadOptions{ExplicitFilePath: configFilePath})
	if configurationError != nil {
		return configurationError
	}
	if listenAddress != "" {
		configuration.ServeAddress = listenAddress
	}

	logger, loggerError := utils.NewServerLogger()
	if loggerError != nil {
		return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerError)
	}
	defer logger.Sync()

	pipeline := newPipeline(configuration, logger)
	apiServer := httpapi.NewServer(httpapi.Config{
		Address:        configuration.ServeAddress,
		Summarize:      pipeline.Summarize,
		RequestTimeout: configuration.RequestTimeout,
		Logger:         logger,
	})

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return apiServer.Run(signalCtx, func(boundAddress string) {
		logger.Info(fmt.Sprintf(serverListeningFormat, boundAddress))
	})
}

// newPipeline wires the production collaborators from the configuration.
func newPipeline(configuration config.Configuration, logger *zap.Logger) service.Service {
	gitHubClient := github.NewClient(&http.Client{Timeout: configuration.GitHubTimeout}).
		WithAPIBase(configuration.GitHubBaseURL).
		WithRawContentBase(configuration.RawContentBaseURL).
		WithAuthorizationToken(configuration.GitHubToken).
		WithFetchConcurrency(configuration.FetchConcurrency).
		WithMaxFileChars(configuration.MaxFileChars)

	summarizer := summarize.NewSummarizer(&http.Client{Timeout: configuration.OpenAITimeout}, configuration.OpenAIAPIKey).
		WithBaseURL(configuration.OpenAIBaseURL).
		WithModel(configuration.OpenAIModel)

	return service.NewService(gitHubClient, summarizer, configuration, logger)
}

// renderSummary formats a summary either as indented JSON or as labeled
// plain-text sections.
func renderSummary(summary types.Summary, asJSON bool) (string, error) {
	if asJSON {
		encodedSummary, encodeError := json.MarshalIndent(summary, "", "  ")
		if encodeError != nil {
			return "", fmt.Errorf("encode summary: %w", encodeError)
		}
		return string(encodedSummary), nil
	}

	var builder strings.Builder
	builder.WriteString(summarySectionHeading)
	builder.WriteString("\n")
	builder.WriteString(sectionIndent + summary.Summary)
	builder.WriteString("\n\n")
	builder.WriteString(technologiesSectionHeading)
	builder.WriteString("\n")
	for _, technology := range summary.Technologies {
		builder.WriteString(technologyItemPrefix + technology)
		builder.WriteString("\n")
	}
	builder.WriteString("\n")
	builder.WriteString(structureSectionHeading)
	builder.WriteString("\n")
	builder.WriteString(sectionIndent + summary.Structure)
	return builder.String(), nil
}
