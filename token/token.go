// Package token inspects bearer tokens on the client side without verifying
// signatures. Signature verification belongs to the backend; the client only
// needs to know whether attaching a token to a request is pointless.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status classifies a token from the client's point of view.
type Status int

const (
	// StatusValid means the token decodes and its expiry, if any, has not passed.
	StatusValid Status = iota
	// StatusMalformed means the token is not a decodable 3-segment structure.
	StatusMalformed
	// StatusExpired means the token's expiry claim lies in the past.
	StatusExpired
)

// timeNow is swapped in tests.
var timeNow = time.Now

// Inspect decodes the claims segment of tok without verifying the signature
// and classifies the token. It never panics; undecodable input is reported as
// malformed.
func Inspect(tok string) Status {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return StatusMalformed
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return StatusMalformed
	}
	if exp == nil {
		// No expiry claim: the client has no basis to reject it.
		return StatusValid
	}
	if exp.Time.Before(timeNow()) {
		return StatusExpired
	}
	return StatusValid
}

// IsExpired reports whether tok should be treated as unusable for an outbound
// request. Malformed tokens count as expired so that every failure path
// resolves to a boolean rather than an error.
func IsExpired(tok string) bool {
	return Inspect(tok) != StatusValid
}
