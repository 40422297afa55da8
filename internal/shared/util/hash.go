package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// OwnerKey maps a user id (guest or signed in) to a fixed-width path
// segment, so storage keys never expose the id itself.
func OwnerKey(userID string) string {
	sum := sha256.Sum256([]byte("owner:" + userID))
	return hex.EncodeToString(sum[:16])
}
