package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewError(CodeTrackNotFound, "Track with ID %q not found in library", "abc")
		assert.Equal(t, `Track with ID "abc" not found in library`, err.Error())
		assert.Nil(t, errors.Unwrap(err))
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := Wrap(CodeBrowserInit, cause, "Browser initialization failed")
		assert.Equal(t, "Browser initialization failed: boom", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestError_IsMatchesCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(CodeDownload, "no trigger"))
	assert.ErrorIs(t, err, &Error{Code: CodeDownload})
	assert.NotErrorIs(t, err, &Error{Code: CodeGenerate})
}

func TestEnsure(t *testing.T) {
	assert.NoError(t, Ensure(nil, CodeLogin, "login failed"))

	typed := NewError(CodeBrowserInit, "init")
	assert.Same(t, typed, Ensure(typed, CodeLogin, "login failed"))

	wrapped := Ensure(errors.New("timeout"), CodeLogin, "Login failed")
	assert.Equal(t, CodeLogin, CodeOf(wrapped))
	assert.Equal(t, "Login failed: timeout", wrapped.Error())
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeClose, CodeOf(fmt.Errorf("x: %w", NewError(CodeClose, "y"))))
}
