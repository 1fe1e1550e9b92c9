package identity

import "strings"

// ValidateName rejects names that would render like "no identity".
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	return nil
}
