package identity

import (
	"time"

	"idaas/cmd/identity/ids"
)

// NewID returns a fresh identity ID (ULID, 26 chars).
func NewID() (string, error) {
	return ids.NewULID(time.Now().UTC())
}
