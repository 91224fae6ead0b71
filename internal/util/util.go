// Package util holds small helpers shared by the session and gateway layers.
package util

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFKD normalization so that visually identical credentials
// typed on different platforms compare and derive keys identically.
func Normalize(s string) string {
	return norm.NFKD.String(s)
}

// WipeBytes best-effort zeroes the provided byte slice in place.
func WipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generating random bytes: %w", err)
	}
	return b, nil
}
