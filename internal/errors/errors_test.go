package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_PreservesAppErrorCode(t *testing.T) {
	base := ConfigInvalid("alpha must be in (0, 1)")

	wrapped := Wrap(base, "configuration validation failed")

	appErr, ok := wrapped.(*AppError)
	require.True(t, ok)
	assert.Equal(t, CodeConfigInvalid, appErr.Code)
	assert.Equal(t, "configuration validation failed: alpha must be in (0, 1)", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	cause := fmt.Errorf("disk full")

	wrapped := Wrap(cause, "write failed")

	appErr, ok := wrapped.(*AppError)
	require.True(t, ok)
	assert.Equal(t, CodeInternalError, appErr.Code)
	assert.ErrorIs(t, wrapped, cause)
}

func TestWrap_Nil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
}

func TestIOError(t *testing.T) {
	cause := fmt.Errorf("permission denied")

	err := IOError("failed to save workbook", cause)

	assert.Equal(t, CodeIOError, err.Code)
	assert.Equal(t, "failed to save workbook: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
}
