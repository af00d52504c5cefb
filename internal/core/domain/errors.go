package domain

import "errors"

var (
	// ErrInvalidAsset is thrown when an asset string cannot be parsed
	ErrInvalidAsset = errors.New("invalid asset notation")
	// ErrInvalidPoolAddress ...
	ErrInvalidPoolAddress = errors.New("pool address must not be empty")
)
