package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/KirkDiggler/sceneview/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrapPreservesCodeAndMeta(t *testing.T) {
	base := errors.NotFoundf("scene %q", "lobby").WithMeta("scene", "lobby")

	wrapped := errors.Wrap(base, "set level")

	assert.True(t, errors.IsNotFound(wrapped))
	assert.Equal(t, "set level: scene \"lobby\"", wrapped.Error())
	assert.Equal(t, "lobby", errors.GetMeta(wrapped)["scene"])

	// meta is copied, not shared
	wrapped.WithMeta("extra", 1)
	assert.NotContains(t, base.Meta, "extra")
}

func TestWrapForeignError(t *testing.T) {
	wrapped := errors.Wrap(stderrors.New("disk full"), "save parameters")

	assert.Equal(t, errors.CodeUnknown, errors.GetCode(wrapped))
	assert.Equal(t, "save parameters: disk full", wrapped.Error())
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, errors.Wrap(nil, "nothing"))
	assert.Nil(t, errors.Wrapf(nil, "nothing %d", 1))
	assert.Nil(t, errors.WrapWithCode(nil, errors.CodeInternal, "nothing"))
}

func TestWrapWithCode(t *testing.T) {
	err := errors.WrapWithCode(stderrors.New("timeout"), errors.CodeUnavailable, "load model")

	assert.True(t, errors.Is(err, errors.CodeUnavailable))
	assert.False(t, errors.IsInternal(err))
}

func TestPredicatesOnPlainErrors(t *testing.T) {
	plain := stderrors.New("plain")

	assert.False(t, errors.IsInvalidArgument(plain))
	assert.False(t, errors.IsValidation(plain))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(plain))
	assert.Nil(t, errors.GetMeta(plain))
}
