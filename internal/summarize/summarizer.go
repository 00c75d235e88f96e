// Package summarize turns an assembled repository context into a structured
// summary by calling an OpenAI-compatible chat completion endpoint.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/temirov/gitbrief/internal/types"
)

const (
	defaultChatBaseURL      = "https://api.openai.com"
	chatCompletionsPath     = "/v1/chat/completions"
	defaultChatTimeout      = 120 * time.Second
	defaultModel            = "gpt-4o-mini"
	requestTemperature      = 0.3
	roleSystem              = "system"
	roleUser                = "user"
	headerAuthorization     = "Authorization"
	headerContentType       = "Content-Type"
	mimeTypeJSON            = "application/json"
	markdownFencePrefix     = "```"
)

var (
	// ErrMissingAPIKey reports a summarizer constructed without credentials.
	ErrMissingAPIKey = errors.New("summarization API key is not configured")
	// ErrBackendUnavailable reports a transport or server failure at the
	// summarization backend.
	ErrBackendUnavailable = errors.New("summarization backend unavailable")
	// ErrBackendTimeout reports an exceeded summarization deadline.
	ErrBackendTimeout = errors.New("summarization backend timed out")
	// ErrMalformedSummary reports backend output that failed to parse as the
	// required three-field JSON shape. A malformed summary is never patched
	// into a partial result.
	ErrMalformedSummary = errors.New("summarization backend returned a malformed response")
)

type httpClient interface {
	Do(request *http.Request) (*http.Response, error)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Summarizer calls the chat completion endpoint and validates its output.
type Summarizer struct {
	client  httpClient
	baseURL string
	apiKey  string
	model   string
}

// NewSummarizer creates a Summarizer with defaults applied. A nil httpClient
// gets a plain http.Client with the default timeout.
func NewSummarizer(client httpClient, apiKey string) Summarizer {
	if client == nil {
		client = &http.Client{Timeout: defaultChatTimeout}
	}
	return Summarizer{
		client:  client,
		baseURL: defaultChatBaseURL,
		apiKey:  apiKey,
		model:   defaultModel,
	}
}

// WithBaseURL overrides the chat completion base URL.
func (summarizer Summarizer) WithBaseURL(base string) Summarizer {
	if base == "" {
		return summarizer
	}
	summarizer.baseURL = strings.TrimRight(base, "/")
	return summarizer
}

// WithModel overrides the model identifier sent to the backend.
func (summarizer Summarizer) WithModel(model string) Summarizer {
	if model == "" {
		return summarizer
	}
	summarizer.model = model
	return summarizer
}

// Summarize sends the repository context to the backend and returns the
// validated structured summary.
func (summarizer Summarizer) Summarize(ctx context.Context, repoContext types.RepoContext) (types.Summary, error) {
	if summarizer.apiKey == "" {
		return types.Summary{}, ErrMissingAPIKey
	}

	payload := chatRequest{
		Model: summarizer.model,
		Messages: []chatMessage{
			{Role: roleSystem, Content: systemPrompt},
			{Role: roleUser, Content: BuildPrompt(repoContext)},
		},
		Temperature: requestTemperature,
	}
	encodedPayload, encodeError := json.Marshal(payload)
	if encodeError != nil {
		return types.Summary{}, fmt.Errorf("encode chat request: %w", encodeError)
	}

	request, requestError := http.NewRequestWithContext(ctx, http.MethodPost, summarizer.baseURL+chatCompletionsPath, bytes.NewReader(encodedPayload))
	if requestError != nil {
		return types.Summary{}, requestError
	}
	request.Header.Set(headerContentType, mimeTypeJSON)
	request.Header.Set(headerAuthorization, "Bearer "+summarizer.apiKey)

	response, responseError := summarizer.client.Do(request)
	if responseError != nil {
		if errors.Is(responseError, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return types.Summary{}, ErrBackendTimeout
		}
		return types.Summary{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, responseError)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 8*1024))
		return types.Summary{}, fmt.Errorf("%w: status %d: %s", ErrBackendUnavailable, response.StatusCode, string(body))
	}

	var completion chatResponse
	if decodeError := json.NewDecoder(response.Body).Decode(&completion); decodeError != nil {
		return types.Summary{}, fmt.Errorf("%w: %v", ErrMalformedSummary, decodeError)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return types.Summary{}, fmt.Errorf("%w: empty completion", ErrMalformedSummary)
	}

	return parseSummary(completion.Choices[0].Message.Content)
}

// parseSummary validates the model output against the required shape. The
// model occasionally wraps its JSON in markdown fences despite instructions,
// so fences are stripped before decoding.
func parseSummary(rawContent string) (types.Summary, error) {
	content := strings.TrimSpace(rawContent)
	if strings.HasPrefix(content, markdownFencePrefix) {
		if newlineIndex := strings.Index(content, "\n"); newlineIndex != -1 {
			content = content[newlineIndex+1:]
		} else {
			content = strings.TrimPrefix(content, markdownFencePrefix)
		}
	}
	if strings.HasSuffix(content, markdownFencePrefix) {
		content = content[:len(content)-len(markdownFencePrefix)]
	}
	content = strings.TrimSpace(content)

	var decoded struct {
		Summary      *string  `json:"summary"`
		Technologies []string `json:"technologies"`
		Structure    *string  `json:"structure"`
	}
	if decodeError := json.Unmarshal([]byte(content), &decoded); decodeError != nil {
		return types.Summary{}, fmt.Errorf("%w: %v", ErrMalformedSummary, decodeError)
	}
	if decoded.Summary == nil || decoded.Technologies == nil || decoded.Structure == nil {
		return types.Summary{}, fmt.Errorf("%w: missing required fields", ErrMalformedSummary)
	}

	return types.Summary{
		Summary:      *decoded.Summary,
		Technologies: decoded.Technologies,
		Structure:    *decoded.Structure,
	}, nil
}

// MergeTechnologies appends hinted technologies that the model did not
// already mention. Comparison is case-insensitive; model order wins.
func MergeTechnologies(summary types.Summary, hints []string) types.Summary {
	seen := make(map[string]struct{}, len(summary.Technologies))
	for _, technology := range summary.Technologies {
		seen[strings.ToLower(technology)] = struct{}{}
	}
	for _, hint := range hints {
		normalized := strings.ToLower(strings.TrimSpace(hint))
		if normalized == "" {
			continue
		}
		if _, alreadyListed := seen[normalized]; alreadyListed {
			continue
		}
		seen[normalized] = struct{}{}
		summary.Technologies = append(summary.Technologies, strings.TrimSpace(hint))
	}
	return summary
}
