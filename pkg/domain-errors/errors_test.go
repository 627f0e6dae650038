package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndInspect(t *testing.T) {
	cause := errors.New("malformed credential")
	err := fmt.Errorf("begin session: %w", Wrap(cause, CodeUnauthorized, "please log in again"))

	require.ErrorIs(t, err, cause)
	require.ErrorIs(t, err, New(CodeUnauthorized, "please log in again"))
	assert.True(t, HasCode(err, CodeUnauthorized))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
	assert.Equal(t, "please log in again", MessageOf(err))
}

func TestPlainErrorsAreInternal(t *testing.T) {
	err := errors.New("boom")
	assert.Equal(t, CodeInternal, CodeOf(err))
	assert.Equal(t, "internal server error", MessageOf(err))
	assert.Nil(t, Wrap(nil, CodeInternal, "unused"))
}

func TestHTTPStatus(t *testing.T) {
	tests := map[Code]int{
		CodeBadRequest:         http.StatusBadRequest,
		CodeInvalidInput:       http.StatusBadRequest,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeNotFound:           http.StatusNotFound,
		CodeInvariantViolation: http.StatusUnprocessableEntity,
		CodeUnavailable:        http.StatusServiceUnavailable,
		CodeInternal:           http.StatusInternalServerError,
		Code("mystery"):        http.StatusInternalServerError,
	}
	for code, want := range tests {
		assert.Equal(t, want, HTTPStatus(code), code)
	}
}
