package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
)

// Kind classifies a failed operation.
type Kind int

const (
	KindInvalidInput Kind = iota + 1
	KindNotFound
	KindSectionNotFound
	KindUpstreamNetwork
	KindUpstreamAPI
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindSectionNotFound:
		return "section_not_found"
	case KindUpstreamNetwork:
		return "upstream_network"
	case KindUpstreamAPI:
		return "upstream_api"
	}
	return "unknown"
}

// Sentinels for errors.Is. ErrNotFound matches both page and section misses.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrNotFound        = errors.New("not found")
	ErrSectionNotFound = errors.New("section not found")
	ErrUpstreamNetwork = errors.New("upstream network failure")
	ErrUpstreamAPI     = errors.New("upstream api failure")
)

// Error is the only error type returned by Service operations. Message is
// safe to show to callers.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrInvalidInput:
		return e.Kind == KindInvalidInput
	case ErrNotFound:
		return e.Kind == KindNotFound || e.Kind == KindSectionNotFound
	case ErrSectionNotFound:
		return e.Kind == KindSectionNotFound
	case ErrUpstreamNetwork:
		return e.Kind == KindUpstreamNetwork
	case ErrUpstreamAPI:
		return e.Kind == KindUpstreamAPI
	}
	return false
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func pageNotFound(slug string) *Error {
	return &Error{Kind: KindNotFound, Message: "Page not found: " + slug}
}

// upstreamError maps a retrieval failure to exactly one caller-facing kind and
// logs it. badRequest prefixes the message for rejected parameters.
func upstreamError(log *slog.Logger, err error, slug, badRequest string) *Error {
	var netErr *grokipedia.NetworkError
	switch {
	case slug != "" && errors.Is(err, grokipedia.ErrNotFound):
		log.Error("page not found", "error", err)
		return &Error{Kind: KindNotFound, Message: "Page not found: " + slug, Err: err}
	case errors.Is(err, grokipedia.ErrBadRequest):
		log.Error("bad request", "error", err)
		return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf("%s: %v", badRequest, err), Err: err}
	case errors.As(err, &netErr), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Error("network error", "error", err)
		return &Error{Kind: KindUpstreamNetwork, Message: fmt.Sprintf("Failed to connect to Grokipedia API: %v", err), Err: err}
	default:
		log.Error("api error", "error", err)
		return &Error{Kind: KindUpstreamAPI, Message: fmt.Sprintf("Grokipedia API error: %v", err), Err: err}
	}
}
