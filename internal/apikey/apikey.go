// Package apikey generates the gateway access credential. It is used by
// the one-shot deployment-time keygen command, never on the request path.
package apikey

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultLength matches the gateway's expectations for API key size.
const DefaultLength = 32

// Generate returns a random alphanumeric credential of the given length,
// drawn from a cryptographically secure source with uniform character
// distribution.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("key length must be positive")
	}

	max := big.NewInt(int64(len(alphabet)))
	key := make([]byte, length)
	for i := range key {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		key[i] = alphabet[n.Int64()]
	}
	return string(key), nil
}

// Mask returns a loggable form of the key: the first 8 characters and an
// ellipsis. The full value must never reach a durable log store.
func Mask(key string) string {
	const visible = 8
	if len(key) <= visible {
		return key
	}
	return key[:visible] + "..."
}
