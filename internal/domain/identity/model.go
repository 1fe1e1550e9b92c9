package identity

import "github.com/rpggio/assetledger/internal/domain/outcome"

// ID is a dense 1-based identity index. The zero value means "no identity".
type ID uint64

// None is the reserved "no identity" reference; it is never assigned.
const None ID = 0

// Valid reports whether id refers to a registered identity slot.
func (id ID) Valid() bool {
	return id != None
}

// Identity binds a caller credential to a unique display name
type Identity struct {
	Index       ID     `json:"index"`
	Credential  string `json:"credential"`
	DisplayName string `json:"display_name"`
}

// RegisterOutcome reports the result of a registration attempt.
type RegisterOutcome struct {
	Registered bool           `json:"registered"`
	Index      ID             `json:"index"`
	Reason     outcome.Reason `json:"reason,omitempty"`
}

// Err returns the sentinel matching the failure reason, if any.
func (o RegisterOutcome) Err() error {
	return o.Reason.Err()
}
