package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessError_Is(t *testing.T) {
	driverErr := fmt.Errorf("dial tcp 127.0.0.1:3306: connect: connection refused")

	err := fmt.Errorf("open session: %w", WrapStoreUnavailable(driverErr))
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrQueryFailed)
	assert.ErrorIs(t, err, driverErr)

	q := WrapQueryFailed("repayments", context.DeadlineExceeded)
	assert.ErrorIs(t, q, ErrQueryFailed)
	assert.ErrorIs(t, q, context.DeadlineExceeded)

	assert.ErrorIs(t, WrapUnknownReport("nope"), ErrUnknownReport)
}

func TestBusinessError_Error(t *testing.T) {
	assert.Equal(t, `UNKNOWN_REPORT: Report "x" does not exist (unknown report)`, WrapUnknownReport("x").Error())
	assert.Equal(t, "CACHE_ERROR: boom", NewBusinessError(ErrCodeCacheError, "boom", nil).Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeQueryFailed, CodeOf(fmt.Errorf("wrapped: %w", WrapQueryFailed("borrowers", errors.New("x")))))
	assert.Equal(t, "", CodeOf(errors.New("plain")))
	assert.Equal(t, "", CodeOf(nil))
}
