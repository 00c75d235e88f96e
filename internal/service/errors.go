package service

import (
	"errors"
	"net/http"
)

// Kind classifies a pipeline failure so callers can choose a distinct
// user-facing status for each class.
type Kind string

const (
	// KindInvalidInput marks malformed references or bad budgets, rejected
	// before any I/O.
	KindInvalidInput Kind = "invalid_input"
	// KindUpstreamNotFound marks a repository the host does not know.
	KindUpstreamNotFound Kind = "upstream_not_found"
	// KindUpstreamRateLimited marks an exhausted repository-host quota.
	KindUpstreamRateLimited Kind = "upstream_rate_limited"
	// KindUpstreamUnavailable marks any other repository-host failure.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindEmptyResult marks a repository with nothing to show after
	// filtering and selection.
	KindEmptyResult Kind = "empty_result"
	// KindDownstreamMalformed marks summarization output that failed to
	// parse as the required shape.
	KindDownstreamMalformed Kind = "downstream_malformed"
	// KindDownstreamUnavailable marks a transport or server failure at the
	// summarization backend.
	KindDownstreamUnavailable Kind = "downstream_unavailable"
	// KindDownstreamTimeout marks an exceeded summarization deadline.
	KindDownstreamTimeout Kind = "downstream_timeout"
	// KindMisconfigured marks missing server-side configuration.
	KindMisconfigured Kind = "misconfigured"
)

// statusCodeByKind maps each failure class to its HTTP status.
var statusCodeByKind = map[Kind]int{
	KindInvalidInput:          http.StatusBadRequest,
	KindUpstreamNotFound:      http.StatusNotFound,
	KindUpstreamRateLimited:   http.StatusTooManyRequests,
	KindUpstreamUnavailable:   http.StatusBadGateway,
	KindEmptyResult:           http.StatusUnprocessableEntity,
	KindDownstreamMalformed:   http.StatusBadGateway,
	KindDownstreamUnavailable: http.StatusBadGateway,
	KindDownstreamTimeout:     http.StatusGatewayTimeout,
	KindMisconfigured:         http.StatusInternalServerError,
}

// Error is a pipeline failure with a classification and an HTTP status.
type Error struct {
	kind Kind
	err  error
}

// NewError wraps err with a failure classification.
func NewError(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return Error{kind: kind, err: err}
}

// Error returns the underlying error string.
func (serviceError Error) Error() string {
	return serviceError.err.Error()
}

// Unwrap exposes the wrapped error.
func (serviceError Error) Unwrap() error {
	return serviceError.err
}

// Kind reports the failure classification.
func (serviceError Error) Kind() Kind {
	return serviceError.kind
}

// StatusCode reports the HTTP status for the failure classification.
func (serviceError Error) StatusCode() int {
	if statusCode, known := statusCodeByKind[serviceError.kind]; known {
		return statusCode
	}
	return http.StatusInternalServerError
}

// StatusCodeFromError resolves the HTTP status for any error, defaulting to
// 500 for unclassified failures.
func StatusCodeFromError(err error) int {
	var serviceError Error
	if errors.As(err, &serviceError) {
		return serviceError.StatusCode()
	}
	return http.StatusInternalServerError
}
