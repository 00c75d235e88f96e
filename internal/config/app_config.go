// Package config loads the application configuration from defaults, an
// optional YAML file, and the environment, producing an immutable snapshot
// that is threaded into the pipeline. Nothing reads configuration ambiently
// after startup.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the optional local configuration file.
	ConfigFileName = "gitbrief.yaml"

	environmentPrefix       = "GITBRIEF"
	openAIKeyEnvironment    = "OPENAI_API_KEY"
	gitHubTokenEnvironment  = "GITHUB_TOKEN"

	defaultOpenAIModel      = "gpt-4o-mini"
	defaultOpenAIBaseURL    = "https://api.openai.com"
	defaultGitHubBaseURL    = "https://api.github.com"
	defaultRawContentURL    = "https://raw.githubusercontent.com"
	defaultServeAddress     = ":8080"
	defaultMaxContentChars  = 100_000
	defaultMaxFileChars     = 50_000
	defaultTreeLineLimit    = 200
	defaultFetchConcurrency = 8
	defaultGitHubTimeout    = 30 * time.Second
	defaultOpenAITimeout    = 120 * time.Second
	defaultRequestTimeout   = 150 * time.Second

	// MinContentChars is the floor applied to the content budget after tree
	// and metadata headroom are reserved. The selector itself never sees a
	// smaller budget.
	MinContentChars = 10_000

	// MetadataHeadroomChars is reserved for the metadata header and section
	// scaffolding around the file contents.
	MetadataHeadroomChars = 2_000

	settingKeyOpenAIModel      = "openai_model"
	settingKeyOpenAIBaseURL    = "openai_base_url"
	settingKeyGitHubBaseURL    = "github_base_url"
	settingKeyRawContentURL    = "raw_content_base_url"
	settingKeyServeAddress     = "serve_address"
	settingKeyMaxContentChars  = "max_content_chars"
	settingKeyMaxFileChars     = "max_file_chars"
	settingKeyTreeLineLimit    = "tree_line_limit"
	settingKeyFetchConcurrency = "fetch_concurrency"
	settingKeyGitHubTimeout    = "github_timeout"
	settingKeyOpenAITimeout    = "openai_timeout"
	settingKeyRequestTimeout   = "request_timeout"
)

// Configuration is the immutable runtime configuration snapshot.
type Configuration struct {
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string
	GitHubToken       string
	GitHubBaseURL     string
	RawContentBaseURL string
	ServeAddress      string
	MaxContentChars   int64
	MaxFileChars      int
	TreeLineLimit     int
	FetchConcurrency  int
	GitHubTimeout     time.Duration
	OpenAITimeout     time.Duration
	RequestTimeout    time.Duration
}

// LoadOptions controls configuration discovery.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
}

// Load resolves the configuration from defaults, the optional configuration
// file, and environment variables, in that order of increasing precedence.
func Load(options LoadOptions) (Configuration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Configuration{}, fmt.Errorf("determine working directory: %w", workingDirectoryError)
		}
		workingDirectory = currentDirectory
	}

	viperInstance := viper.New()
	viperInstance.SetDefault(settingKeyOpenAIModel, defaultOpenAIModel)
	viperInstance.SetDefault(settingKeyOpenAIBaseURL, defaultOpenAIBaseURL)
	viperInstance.SetDefault(settingKeyGitHubBaseURL, defaultGitHubBaseURL)
	viperInstance.SetDefault(settingKeyRawContentURL, defaultRawContentURL)
	viperInstance.SetDefault(settingKeyServeAddress, defaultServeAddress)
	viperInstance.SetDefault(settingKeyMaxContentChars, defaultMaxContentChars)
	viperInstance.SetDefault(settingKeyMaxFileChars, defaultMaxFileChars)
	viperInstance.SetDefault(settingKeyTreeLineLimit, defaultTreeLineLimit)
	viperInstance.SetDefault(settingKeyFetchConcurrency, defaultFetchConcurrency)
	viperInstance.SetDefault(settingKeyGitHubTimeout, defaultGitHubTimeout)
	viperInstance.SetDefault(settingKeyOpenAITimeout, defaultOpenAITimeout)
	viperInstance.SetDefault(settingKeyRequestTimeout, defaultRequestTimeout)

	viperInstance.SetEnvPrefix(environmentPrefix)
	viperInstance.AutomaticEnv()

	configFilePath := options.ExplicitFilePath
	if configFilePath == "" {
		candidatePath := filepath.Join(workingDirectory, ConfigFileName)
		if _, statError := os.Stat(candidatePath); statError == nil {
			configFilePath = candidatePath
		}
	}
	if configFilePath != "" {
		viperInstance.SetConfigFile(configFilePath)
		if readError := viperInstance.ReadInConfig(); readError != nil {
			return Configuration{}, fmt.Errorf("read configuration file %s: %w", configFilePath, readError)
		}
	}

	configuration := Configuration{
		OpenAIAPIKey:      os.Getenv(openAIKeyEnvironment),
		OpenAIModel:       viperInstance.GetString(settingKeyOpenAIModel),
		OpenAIBaseURL:     viperInstance.GetString(settingKeyOpenAIBaseURL),
		GitHubToken:       os.Getenv(gitHubTokenEnvironment),
		GitHubBaseURL:     viperInstance.GetString(settingKeyGitHubBaseURL),
		RawContentBaseURL: viperInstance.GetString(settingKeyRawContentURL),
		ServeAddress:      viperInstance.GetString(settingKeyServeAddress),
		MaxContentChars:   viperInstance.GetInt64(settingKeyMaxContentChars),
		MaxFileChars:      viperInstance.GetInt(settingKeyMaxFileChars),
		TreeLineLimit:     viperInstance.GetInt(settingKeyTreeLineLimit),
		FetchConcurrency:  viperInstance.GetInt(settingKeyFetchConcurrency),
		GitHubTimeout:     viperInstance.GetDuration(settingKeyGitHubTimeout),
		OpenAITimeout:     viperInstance.GetDuration(settingKeyOpenAITimeout),
		RequestTimeout:    viperInstance.GetDuration(settingKeyRequestTimeout),
	}

	return configuration.normalized(), nil
}

// normalized replaces non-positive numeric settings with their defaults so a
// hostile or sloppy configuration file cannot zero out the pipeline.
func (configuration Configuration) normalized() Configuration {
	if configuration.MaxContentChars < MinContentChars {
		configuration.MaxContentChars = defaultMaxContentChars
	}
	if configuration.MaxFileChars <= 0 {
		configuration.MaxFileChars = defaultMaxFileChars
	}
	if configuration.TreeLineLimit <= 0 {
		configuration.TreeLineLimit = defaultTreeLineLimit
	}
	if configuration.FetchConcurrency <= 0 {
		configuration.FetchConcurrency = defaultFetchConcurrency
	}
	if configuration.GitHubTimeout <= 0 {
		configuration.GitHubTimeout = defaultGitHubTimeout
	}
	if configuration.OpenAITimeout <= 0 {
		configuration.OpenAITimeout = defaultOpenAITimeout
	}
	if configuration.RequestTimeout <= 0 {
		configuration.RequestTimeout = defaultRequestTimeout
	}
	if configuration.OpenAIModel == "" {
		configuration.OpenAIModel = defaultOpenAIModel
	}
	if configuration.ServeAddress == "" {
		configuration.ServeAddress = defaultServeAddress
	}
	return configuration
}

// ContentBudget returns the character budget available for file contents
// after reserving room for the rendered tree and the metadata header,
// clamped to MinContentChars.
func (configuration Configuration) ContentBudget(treeChars int) int64 {
	budget := configuration.MaxContentChars - int64(treeChars) - MetadataHeadroomChars
	if budget < MinContentChars {
		budget = MinContentChars
	}
	return budget
}
