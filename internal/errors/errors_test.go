package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Is_MatchesByCode(t *testing.T) {
	err := NotFoundf("book %s not found", "book-1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
}

func TestError_Is_ThroughWrapping(t *testing.T) {
	inner := AlreadyExists("isbn already in catalog")
	wrapped := fmt.Errorf("create book: %w", inner)

	assert.True(t, Is(wrapped, ErrAlreadyExists))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeAlreadyExists, domainErr.Code)
}

func TestError_WithCause(t *testing.T) {
	cause := fmt.Errorf("badger: disk full")
	err := Storage("persist loan", cause)

	assert.Contains(t, err.Error(), "persist loan")
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, cause, Unwrap(err))
	assert.True(t, Is(err, ErrStorage))
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrStorage, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestError_WithDetails(t *testing.T) {
	err := ValidationWithDetails("validation failed", map[string]string{"isbn": "is required"})

	assert.Equal(t, CodeValidation, err.Code)
	assert.Equal(t, map[string]string{"isbn": "is required"}, err.Details)
}
