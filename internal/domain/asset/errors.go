package asset

import "errors"

var (
	// ErrAssetNotFound indicates the asset index is out of range.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrInvalidInput indicates invalid asset fields.
	ErrInvalidInput = errors.New("invalid asset input")
)
