package errors

import (
	"net/http"
	"testing"

	"foodorder/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseError_IsMatchesCopiesWithDetails(t *testing.T) {
	err := ErrItemNotFound.WithDetails("item 42")

	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.False(t, errors.Is(err, ErrOrderNotFound))
	assert.Equal(t, "item 42", err.Details())
}

func TestBaseError_WrapMessageKeepsAppError(t *testing.T) {
	err := ErrDuplicateSlug.WrapMessage("create restaurant")

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusConflict, appErr.HTTPCode())
	assert.Equal(t, "DUPLICATE_SLUG", appErr.ErrorCode())
	assert.True(t, errors.Is(err, ErrDuplicateSlug))
}

func TestInvalidTransitionError(t *testing.T) {
	err := errors.Wrap(NewInvalidTransitionError("delivered", "pending", nil), "update status")

	var transitionErr *InvalidTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, "delivered", transitionErr.From)
	assert.Equal(t, "pending", transitionErr.To)

	var appErr AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode())
	assert.Equal(t, "delivered -> pending; delivered is final", appErr.Details())

	withAllowed := NewInvalidTransitionError("pending", "delivered", []string{"accepted", "rejected", "cancelled"})
	assert.Equal(t, "pending -> delivered; allowed: accepted, rejected, cancelled", withAllowed.Details())
}

func TestDatabaseExecuteError_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation \"orders\" does not exist")
	err := NewDatabaseExecuteError(cause, "failed to list orders")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Empty(t, err.Details())
	assert.NotContains(t, err.Message(), "relation")
	assert.True(t, errors.Is(err, cause))
}
