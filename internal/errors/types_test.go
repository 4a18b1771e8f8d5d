package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorError(t *testing.T) {
	err := &AppError{Code: "X", Message: "boom"}
	assert.Equal(t, "boom", err.Error())

	wrapped := Wrap(ErrChunkIO, "save failed", fmt.Errorf("disk full"))
	assert.Equal(t, "save failed: disk full", wrapped.Error())
}

func TestWrapPreservesCode(t *testing.T) {
	inner := fmt.Errorf("connection refused")
	err := Wrap(ErrChronicleStore, "append failed", inner)

	assert.Equal(t, ErrChronicleStore.Code, err.Code)
	assert.True(t, stdErrors.Is(err, ErrChronicleStore))
	assert.Equal(t, inner, stdErrors.Unwrap(err))
}

func TestIsMatchesByCode(t *testing.T) {
	err := Wrap(ErrImageTooLarge, "map too big", nil)

	assert.True(t, stdErrors.Is(err, ErrImageTooLarge))
	assert.False(t, stdErrors.Is(err, ErrChunkIO))
}

func TestRespondWithError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, ErrImageTooLarge)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "IMAGE_TOO_LARGE")
}

func TestRespondWithUnknownError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithError(rec, fmt.Errorf("plain error"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "UNKNOWN_ERROR")
}
