package activity

import "errors"

// ErrInvalidInput indicates an entry without a kind.
var ErrInvalidInput = errors.New("invalid activity input")
