package coordinator

import "github.com/google/uuid"

// newTransactionID mints a globally unique tx id: a random 128-bit value,
// unguessable relative to other concurrent transactions on this
// coordinator, formatted as a canonical hex string.
func newTransactionID() string {
	return uuid.New().String()
}
