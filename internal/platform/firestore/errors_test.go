package firestore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestWrapError_ClassifiesStatusCodes(t *testing.T) {
	notFound := WrapError("get", status.Error(codes.NotFound, "missing"))
	assert.True(t, IsNotFound(notFound))
	assert.False(t, IsConflict(notFound))
	assert.Contains(t, notFound.Error(), "get:")

	conflict := WrapError("create", status.Error(codes.AlreadyExists, "dup"))
	assert.True(t, IsConflict(conflict))

	var repoErr *Error
	unavailable := WrapError("list", status.Error(codes.Unavailable, "down"))
	assert.True(t, errors.As(unavailable, &repoErr))
	assert.True(t, repoErr.IsUnavailable())
}

func TestWrapError_PassesThroughPlainAndContextErrors(t *testing.T) {
	assert.Nil(t, WrapError("op", nil))

	domainErr := errors.New("insufficient stock")
	assert.Same(t, domainErr, WrapError("transaction", domainErr))

	assert.ErrorIs(t, WrapError("op", status.Error(codes.Canceled, "stop")), context.Canceled)
	assert.ErrorIs(t, WrapError("op", context.DeadlineExceeded), context.DeadlineExceeded)
}
