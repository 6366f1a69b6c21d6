package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesChain(t *testing.T) {
	root := errors.New("connection refused")
	err := Wrap(root, CodeInternal, "failed to save computation")

	require.Error(t, err)
	assert.True(t, errors.Is(err, root))
	assert.True(t, Is(err, CodeInternal))
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestHasCodeSearchesNestedErrors(t *testing.T) {
	inner := New(CodeInvalidInput, "negative amount")
	outer := Wrap(fmt.Errorf("batch item 3: %w", inner), CodeValidation, "batch rejected")

	assert.True(t, HasCode(outer, CodeValidation))
	assert.True(t, HasCode(outer, CodeInvalidInput))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.False(t, Is(outer, CodeInvalidInput), "Is only inspects the outermost coded error")
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:         http.StatusBadRequest,
		CodeInvalidInput:       http.StatusBadRequest,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeNotFound:           http.StatusNotFound,
		CodeInvariantViolation: http.StatusUnprocessableEntity,
		CodeInternal:           http.StatusInternalServerError,
		Code("unknown"):        http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
