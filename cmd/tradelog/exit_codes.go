package main

import "github.com/odvcencio/tradelog/pkg/errors"

const (
	exitFailure  = 1
	exitUsage    = 2
	exitConfig   = 3
	exitNotFound = 4
	exitStorage  = 5
)

func exitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigLoad, errors.ErrCodeConfigParse, errors.ErrCodeConfigInvalid, errors.ErrCodeFormInvalid:
		return exitConfig
	case errors.ErrCodeNotFound:
		return exitNotFound
	case errors.ErrCodeStorageRead, errors.ErrCodeStorageWrite:
		return exitStorage
	case errors.ErrCodeInvalidInput:
		return exitUsage
	default:
		return exitFailure
	}
}
