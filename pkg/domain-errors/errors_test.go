package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeExpired, "pass expired")
		assert.True(t, HasCode(err, CodeExpired))
		assert.False(t, HasCode(err, CodeInvalidState))
	})

	t.Run("wrapped through fmt.Errorf", func(t *testing.T) {
		err := fmt.Errorf("scan failed: %w", New(CodeInvalidState, "pass already used"))
		assert.True(t, HasCode(err, CodeInvalidState))
	})

	t.Run("untyped error", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
	})
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeDependency, "datastore unavailable")

	require.True(t, errors.Is(err, cause))
	assert.Equal(t, CodeDependency, CodeOf(err))
	assert.Contains(t, err.Error(), "datastore unavailable")
}

func TestCodeOfDefaultsToInternal(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("unclassified")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeExpired, http.StatusBadRequest},
		{CodeInvalidState, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeDependency, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{CodeConfiguration, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ToHTTPStatus(tt.code), string(tt.code))
	}
}
