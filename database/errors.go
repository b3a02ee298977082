package database

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/batchkit/errors"
)

// IsBusyError reports sqlite lock contention, which clears on retry.
func IsBusyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"database is locked", "database table is locked", "sqlite_busy"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsConnectionError reports failures caused by a closed or unusable pool.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range []string{"database is closed", "driver: bad connection", "unable to open database file"} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsRetryableError determines if a database error should trigger a retry.
func IsRetryableError(err error) bool {
	return IsBusyError(err) || IsConnectionError(err)
}

// FromDatabase converts a database error into a STORE_FAILURE AppError whose
// Retryable flag reflects the underlying cause. Context errors are returned
// unchanged.
func FromDatabase(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	appErr := apperrors.StoreFailure(op, key, err)
	appErr.Retryable = IsRetryableError(err)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		appErr.Retryable = false
	}
	return appErr
}
