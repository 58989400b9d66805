// Package internal holds the crypto-random primitives behind token
// generation. Nothing here knows about stores or retry policy; callers get
// raw candidate material and decide what to do with it.
package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

const (
	// MinOpaqueTokenBytes is the smallest raw size accepted for opaque
	// token material. Below this the encoded token stops being
	// unguessable in any meaningful sense.
	MinOpaqueTokenBytes = 16
)

// NewOpaqueToken returns rawLen bytes from the platform CSPRNG encoded as
// compact base64url without padding.
func NewOpaqueToken(rawLen int) (string, error) {
	if rawLen < MinOpaqueTokenBytes {
		return "", errors.New("opaque token raw length too small")
	}

	raw := make([]byte, rawLen)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}

	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(raw), nil
}
