// Package httpapi exposes the summarization pipeline over HTTP.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/gitbrief/internal/types"
)

const (
	defaultListenAddress    = "127.0.0.1:0"
	defaultShutdownDuration = 5 * time.Second
	headerContentType       = "Content-Type"
	mimeTypeJSON            = "application/json"
	summarizePath           = "/summarize"
	healthPath              = "/healthz"
	statusError             = "error"
	statusOK                = "ok"
	maxRequestBodyBytes     = 64 * 1024

	emptyURLMessage       = "github_url is required"
	malformedBodyMessage  = "request body is not valid JSON"
	unreadableBodyMessage = "read request body: %v"
)

// SummarizeFunc runs the pipeline for one repository reference.
type SummarizeFunc func(ctx context.Context, reference string) (types.Summary, error)

// Config defines runtime options for the HTTP API server.
type Config struct {
	Address         string
	Summarize       SummarizeFunc
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
}

// Server serves the summarize and health endpoints.
type Server struct {
	config Config
}

// NewServer creates a Server with defaults applied.
func NewServer(config Config) Server {
	normalized := config
	if normalized.Address == "" {
		normalized.Address = defaultListenAddress
	}
	if normalized.ShutdownTimeout <= 0 {
		normalized.ShutdownTimeout = defaultShutdownDuration
	}
	if normalized.Logger == nil {
		normalized.Logger = zap.NewNop()
	}
	return Server{config: normalized}
}

// Handler returns the routed HTTP handler.
func (server Server) Handler() http.Handler {
	router := http.NewServeMux()
	router.HandleFunc(summarizePath, server.handleSummarize)
	router.HandleFunc(healthPath, server.handleHealth)
	return router
}

// Run starts the server and blocks until the provided context is canceled.
// The notify callback receives the bound address once the listener is active.
func (server Server) Run(ctx context.Context, notify func(string)) error {
	listener, listenErr := net.Listen("tcp", server.config.Address)
	if listenErr != nil {
		return fmt.Errorf("listen on %s: %w", server.config.Address, listenErr)
	}
	actualAddress := listener.Addr().String()

	httpServer := &http.Server{Handler: server.Handler()}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		serveErr := httpServer.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			return fmt.Errorf("serve summarize API: %w", serveErr)
		}
		return nil
	})

	if notify != nil {
		notify(actualAddress)
	}

	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.config.ShutdownTimeout)
		defer cancel()
		shutdownErr := httpServer.Shutdown(shutdownCtx)
		if shutdownErr != nil && !errors.Is(shutdownErr, context.Canceled) && !errors.Is(shutdownErr, http.ErrServerClosed) {
			return fmt.Errorf("shutdown summarize API: %w", shutdownErr)
		}
		return nil
	})

	return group.Wait()
}

func (server Server) handleHealth(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	server.writeJSON(writer, http.StatusOK, map[string]string{"status": statusOK})
}

func (server Server) handleSummarize(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodPost {
		writer.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, readErr := io.ReadAll(io.LimitReader(request.Body, maxRequestBodyBytes))
	if readErr != nil {
		server.writeError(writer, http.StatusBadRequest, fmt.Sprintf(unreadableBodyMessage, readErr))
		return
	}
	var summarizeRequest types.SummarizeRequest
	if decodeErr := json.Unmarshal(body, &summarizeRequest); decodeErr != nil {
		server.writeError(writer, http.StatusBadRequest, malformedBodyMessage)
		return
	}
	if summarizeRequest.GitHubURL == "" {
		server.writeError(writer, http.StatusBadRequest, emptyURLMessage)
		return
	}

	requestCtx := request.Context()
	if server.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(requestCtx, server.config.RequestTimeout)
		defer cancel()
	}

	startedAt := time.Now()
	summary, summarizeErr := server.config.Summarize(requestCtx, summarizeRequest.GitHubURL)
	if summarizeErr != nil {
		statusCode := statusCodeFromError(summarizeErr)
		server.config.Logger.Warn("summarize request failed",
			zap.String("github_url", summarizeRequest.GitHubURL),
			zap.Int("status", statusCode),
			zap.Error(summarizeErr),
		)
		server.writeError(writer, statusCode, summarizeErr.Error())
		return
	}
	server.config.Logger.Info("summarize request completed",
		zap.String("github_url", summarizeRequest.GitHubURL),
		zap.Duration("duration", time.Since(startedAt)),
	)
	server.writeJSON(writer, http.StatusOK, summary)
}

func (server Server) writeError(writer http.ResponseWriter, statusCode int, message string) {
	server.writeJSON(writer, statusCode, types.ErrorResponse{Status: statusError, Message: message})
}

func (server Server) writeJSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	var buffer bytes.Buffer
	if encodeErr := json.NewEncoder(&buffer).Encode(payload); encodeErr != nil {
		fallback := types.ErrorResponse{Status: statusError, Message: fmt.Sprintf("encode response: %v", encodeErr)}
		writer.Header().Set(headerContentType, mimeTypeJSON)
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(fallback)
		return
	}
	writer.Header().Set(headerContentType, mimeTypeJSON)
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(buffer.Bytes())
}

type statusCoder interface {
	StatusCode() int
}

func statusCodeFromError(err error) int {
	var coded statusCoder
	if errors.As(err, &coded) {
		return coded.StatusCode()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}
