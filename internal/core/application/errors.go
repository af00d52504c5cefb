package application

import "errors"

var (
	// ErrParamsNotResolved is thrown when confirming a flow whose parameter
	// bundle misses a pool address, memo or amount
	ErrParamsNotResolved = errors.New("transaction parameters are not fully resolved")
	// ErrSubmissionInProgress ...
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	// ErrSecretNotValid ...
	ErrSecretNotValid = errors.New("secret validation failed")
)
