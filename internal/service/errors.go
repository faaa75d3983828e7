package service

import "errors"

var (
	ErrReadFailure  = errors.New("failed to read grid file")
	ErrWriteFailure = errors.New("failed to write grid file")
)
