package database

import (
	"errors"
	"testing"

	"secretreels/internal/utils"

	"github.com/stretchr/testify/assert"
)

func TestWithTxRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := WithTxRetry(3, func() error {
		calls++
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithTxRetryRetriesOnConflict(t *testing.T) {
	calls := 0
	err := WithTxRetry(3, func() error {
		calls++
		if calls < 3 {
			return utils.NewAppError(utils.ErrTxConflict, "concurrent write", nil)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithTxRetryExhaustionReturnsLastConflict(t *testing.T) {
	calls := 0
	err := WithTxRetry(3, func() error {
		calls++
		return utils.NewAppError(utils.ErrTxConflict, "concurrent write", nil)
	})
	assert.Equal(t, 3, calls)
	assert.True(t, utils.IsErrorCode(err, utils.ErrTxConflict))
}

func TestWithTxRetryStopsOnOtherErrors(t *testing.T) {
	calls := 0
	wantErr := errors.New("broken pipe")
	err := WithTxRetry(3, func() error {
		calls++
		return wantErr
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, wantErr, err)
}

func TestWithTxRetryClampsAttempts(t *testing.T) {
	calls := 0
	err := WithTxRetry(0, func() error {
		calls++
		return utils.NewAppError(utils.ErrTxConflict, "concurrent write", nil)
	})
	assert.Equal(t, 1, calls)
	assert.True(t, utils.IsErrorCode(err, utils.ErrTxConflict))
}
