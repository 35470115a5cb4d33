package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const keyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateRandomString generates a cryptographically secure random string
// using the provided charset and length
func GenerateRandomString(length int, charset string) string {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			panic(fmt.Sprintf("failed to generate random string: %v", err))
		}
		b[i] = charset[n.Int64()]
	}
	return string(b)
}

// GenerateKey returns an alphanumeric secret, used when no signing key is
// configured. Tokens signed with it do not survive a restart.
func GenerateKey(length int) string {
	return GenerateRandomString(length, keyCharset)
}
