// Package articles implements the article operations: search, page retrieval,
// citations, related pages and section extraction. Every operation returns a
// render.Result on success or an *Error on failure.
package articles

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/dgallion1/grokmcp/internal/grokipedia"
)

// Backend retrieves articles. Both the HTTP client and the local corpus
// implement it.
type Backend interface {
	Search(ctx context.Context, query string, limit, offset int) (*grokipedia.SearchResponse, error)
	GetPage(ctx context.Context, slug string, includeContent bool) (*grokipedia.PageResponse, error)
}

// Service runs operations against a Backend. It holds no per-call state and
// is safe for concurrent use; the backend's lifetime must cover every call.
type Service struct {
	backend  Backend
	validate *validator.Validate
}

func NewService(backend Backend) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Service{backend: backend, validate: v}
}

// check validates in and returns an InvalidInput error describing every
// failed field.
func (s *Service) check(log *slog.Logger, in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &Error{Kind: KindInvalidInput, Message: "Invalid input: " + err.Error(), Err: err}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeField(fe))
	}
	msg := "Invalid input: " + strings.Join(msgs, "; ")
	log.Warn("invalid input", "error", msg)
	return &Error{Kind: KindInvalidInput, Message: msg, Err: err}
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
}

// fetchPage loads a page, mapping backend failures. A missing page yields a
// nil page and a nil error.
func (s *Service) fetchPage(ctx context.Context, log *slog.Logger, slug string, includeContent bool) (*grokipedia.Page, error) {
	resp, err := s.backend.GetPage(ctx, slug, includeContent)
	if err != nil {
		return nil, upstreamError(log, err, slug, "Invalid page slug")
	}
	if resp == nil || !resp.Found || resp.Page == nil {
		return nil, nil
	}
	return resp.Page, nil
}

// suggestNotFound builds the page-not-found error, naming up to three close
// matches from a fallback search.
func (s *Service) suggestNotFound(ctx context.Context, log *slog.Logger, slug string) error {
	log.Warn("page not found, searching for alternatives", "slug", slug)
	resp, err := s.backend.Search(ctx, slug, 5, 0)
	if err != nil {
		return upstreamError(log, err, slug, "Invalid page slug")
	}
	if resp == nil || len(resp.Results) == 0 {
		return pageNotFound(slug)
	}
	log.Info("found similar pages", "count", len(resp.Results))

	n := min(3, len(resp.Results))
	suggestions := make([]string, 0, n)
	for _, r := range resp.Results[:n] {
		suggestions = append(suggestions, fmt.Sprintf("%s (%s)", r.Title, r.Slug))
	}
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("Page not found: %s. Did you mean one of these? %s", slug, strings.Join(suggestions, ", ")),
	}
}
