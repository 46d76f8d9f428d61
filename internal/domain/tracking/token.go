package tracking

import (
	"crypto/rand"
	"math/big"
)

// TokenLength is the length of a public tracking token
const TokenLength = 8

// tokenAlphabet gives 36^8 (~2.8e12) possible tokens, wide enough that
// collision across the active record set is negligible. Creation still
// checks the issued token against the store and retries on the rare hit.
const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateToken returns a new random public tracking token drawn from a
// cryptographic source. Tokens are the only credential on the public
// lookup endpoint, so they must not be guessable from prior tokens.
func GenerateToken() (string, error) {
	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, TokenLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tokenAlphabet[n.Int64()]
	}
	return string(buf), nil
}
