package auth

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Hash digests a plaintext password into its stored comparable form. It is
// deterministic and salt-free: equality of digests is the password check, so
// every path that accepts a plaintext (provisioning, login, password change)
// must pass it through here and never persist the input.
func Hash(plaintext string) string {
	digest := sha3.Sum256([]byte(plaintext))
	return hex.EncodeToString(digest[:])
}
