package id

import (
	"crypto/rand"
	"encoding/hex"
)

// Size is the length of every public identifier: loans, rules, decisions,
// profit entries, notifications.
const Size = 32

// NewID32 returns exactly 32 lowercase hex characters.
func NewID32() string {
	b := make([]byte, Size/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// IsID32 reports whether s has the shape NewID32 produces.
func IsID32(s string) bool {
	if len(s) != Size {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
