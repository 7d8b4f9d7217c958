package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestHex returns the lowercase hex SHA-256 digest of b
func DigestHex(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// SHA256Hex hashes a string
func SHA256Hex(s string) string {
	return DigestHex([]byte(s))
}
