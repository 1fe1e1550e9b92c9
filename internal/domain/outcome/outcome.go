// Package outcome defines the structured result reported by every mutating
// registry operation.
//
// Domain failures are values, not errors: a rejected call still returns a
// nil error alongside an Outcome whose Reason names the failure. Err converts
// the reason back into a sentinel for callers that prefer errors.Is.
package outcome

import "errors"

// Reason names why a mutating call did not succeed.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonUnauthorized  Reason = "unauthorized"
	ReasonNotFound      Reason = "not_found"
	ReasonDuplicateName Reason = "duplicate_name"
)

var (
	// ErrUnauthorized indicates the caller credential has no registered identity.
	ErrUnauthorized = errors.New("caller is not a registered identity")
	// ErrNotFound indicates a referenced index is out of range.
	ErrNotFound = errors.New("referenced index not found")
	// ErrDuplicateName indicates the display name is already registered.
	ErrDuplicateName = errors.New("display name already registered")
)

// Err returns the sentinel for r, or nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonUnauthorized:
		return ErrUnauthorized
	case ReasonNotFound:
		return ErrNotFound
	case ReasonDuplicateName:
		return ErrDuplicateName
	default:
		return nil
	}
}

// Outcome is reported by asset and maintenance mutations.
type Outcome struct {
	AssetFound       bool   `json:"asset_found"`
	CallerAuthorized bool   `json:"caller_authorized"`
	Success          bool   `json:"success"`
	Reason           Reason `json:"reason,omitempty"`
}

// Err returns the sentinel matching o.Reason.
func (o Outcome) Err() error {
	return o.Reason.Err()
}

// Unauthorized is the outcome for an unresolvable caller.
func Unauthorized() Outcome {
	return Outcome{Reason: ReasonUnauthorized}
}

// NotFound is the outcome for an authorized caller naming a missing index.
func NotFound() Outcome {
	return Outcome{CallerAuthorized: true, Reason: ReasonNotFound}
}

// Succeeded is the outcome of a committed mutation.
func Succeeded() Outcome {
	return Outcome{AssetFound: true, CallerAuthorized: true, Success: true}
}
