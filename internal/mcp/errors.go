package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/assetledger/internal/domain/asset"
	"github.com/rpggio/assetledger/internal/domain/identity"
	"github.com/rpggio/assetledger/internal/domain/maintenance"
	"github.com/rpggio/assetledger/internal/domain/outcome"
)

// ErrInvalidArgument indicates a tool argument that could not be parsed.
var ErrInvalidArgument = errors.New("invalid argument")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error(), RecoveryHint: "Check argument formats"}
	case errors.Is(err, asset.ErrAssetNotFound):
		return &APIError{Code: "ASSET_NOT_FOUND", Message: "asset not found", RecoveryHint: "Use list_assets to find valid indices"}
	case errors.Is(err, asset.ErrInvalidInput), errors.Is(err, maintenance.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Quantities, lifetimes and amounts must not be negative"}
	case errors.Is(err, maintenance.ErrRecordNotFound):
		return &APIError{Code: "RECORD_NOT_FOUND", Message: "maintenance record not found"}
	case errors.Is(err, identity.ErrInvalidName):
		return &APIError{Code: "INVALID_NAME", Message: "display name must not be blank"}
	case errors.Is(err, identity.ErrIdentityNotFound):
		return &APIError{Code: "IDENTITY_NOT_FOUND", Message: "identity not found"}
	case errors.Is(err, outcome.ErrUnauthorized):
		return &APIError{Code: "UNAUTHORIZED", Message: "caller is not a registered identity", RecoveryHint: "Call register_identity first"}
	case errors.Is(err, outcome.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "referenced index is out of range"}
	case errors.Is(err, outcome.ErrDuplicateName):
		return &APIError{Code: "DUPLICATE_NAME", Message: "display name already registered"}
	default:
		return nil
	}
}

// toolError converts err into the error returned from a tool handler.
func toolError(op string, err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
