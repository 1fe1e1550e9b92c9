package maintenance

import "errors"

var (
	// ErrRecordNotFound indicates a maintenance index is out of range.
	ErrRecordNotFound = errors.New("maintenance record not found")
	// ErrInvalidInput indicates an entry with a negative cost.
	ErrInvalidInput = errors.New("invalid maintenance input")
)
