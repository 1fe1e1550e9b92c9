package sqlite

import (
	"fmt"
	"strings"

	"github.com/rpggio/assetledger/internal/repository"
)

func isForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translate maps constraint failures onto repository sentinels.
func translate(err error, op string) error {
	switch {
	case isUniqueViolation(err):
		return repository.ErrUniqueViolation
	case isForeignKeyViolation(err):
		return repository.ErrForeignKeyViolation
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
