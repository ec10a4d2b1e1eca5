// internal/utils/crypto.go
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateEntityID builds ids like "product-1716394000123-9f2ca1b3", matching
// the persisted id format of the original store.
func GenerateEntityID(prefix string) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand is effectively infallible; fall back to the clock.
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(suffix))
}

func HashString(input string) string {
	hasher := sha256.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

// ShortHash abbreviates a transaction hash for human-readable provenance
// details ("0x12345678...").
func ShortHash(hash string) string {
	if len(hash) <= 10 {
		return hash
	}
	return hash[:10] + "..."
}

// ShortAddress abbreviates a wallet address ("0x1234...").
func ShortAddress(address string) string {
	if len(address) <= 6 {
		return address
	}
	return address[:6] + "..."
}
