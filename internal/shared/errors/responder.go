package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper translates one bounded context's errors. ok is false for errors it does not own.
type ErrorMapper func(err error) (problem ProblemDetail, ok bool)

// ChainedResponder writes problem documents for the HTTP handlers. Each bounded context
// (orders, catalog, users, media) registers a mapper; the first mapper that claims an error
// wins and anything unclaimed becomes a 500.
type ChainedResponder struct {
	baseURI string
	logger  *slog.Logger
	mappers []ErrorMapper
}

// NewChainedResponder prefixes relative problem types with baseURI when it is non-empty.
func NewChainedResponder(baseURI string, mappers ...ErrorMapper) *ChainedResponder {
	return &ChainedResponder{baseURI: baseURI, mappers: mappers}
}

// WithLogger attaches the logger that records 5xx responses. 4xx responses are the caller's
// problem and stay out of the server log.
func (r *ChainedResponder) WithLogger(logger *slog.Logger) *ChainedResponder {
	r.logger = logger
	return r
}

// Respond aborts the request with problem, filling Instance from the request path.
func (r *ChainedResponder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if problem.Status >= http.StatusInternalServerError && r.logger != nil {
		r.logger.LogAttrs(c.Request.Context(), slog.LevelError, "request failed",
			slog.String("http.route", c.FullPath()),
			slog.Int("http.status", problem.Status),
			slog.String("error", problem.Detail))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.AbortWithStatusJSON(problem.Status, problem)
}

// RespondError runs err through the mappers. A ProblemDetail passed directly is written as is.
func (r *ChainedResponder) RespondError(c *gin.Context, err error) {
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	r.Respond(c, ErrInternal.WithDetail(err.Error()))
}
