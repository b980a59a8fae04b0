package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "foodorder/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	return c, rec
}

func TestError_DropsDetails(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		details     any
		wantDetails any
	}{
		{"bad request keeps details", http.StatusBadRequest, "quantity must be positive", "quantity must be positive"},
		{"empty string is omitted", http.StatusBadRequest, "", nil},
		{"unauthorized", http.StatusUnauthorized, "signature mismatch", nil},
		{"forbidden", http.StatusForbidden, "restaurant not in scope", nil},
		{"server error", http.StatusInternalServerError, "connection reset", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext()
			require.NoError(t, Error(c, tt.status, "CODE", "message", tt.details))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.wantDetails, body.Error.Details)
		})
	}
}

func TestHandleAppError(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, HandleAppError(c, domainerrors.ErrOrderNotFound))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ORDER_NOT_FOUND"`)

	c, rec = newContext()
	err := HandleAppError(c, domainerrors.ErrTransactionFailed)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrTransactionFailed)
	assert.False(t, c.Response().Committed)
	assert.Zero(t, rec.Body.Len())
}
