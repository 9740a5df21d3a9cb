// Package hasher provides the password digests used by the account registry.
//
// SHA256 reproduces the unsalted demo digest and must never be considered
// secure. Argon2ID is the salted, configurable-cost alternative.
package hasher

import (
	"fmt"

	"github.com/dtroode/storefront-server/internal/model"
)

const (
	AlgorithmSHA256   = "sha256"
	AlgorithmArgon2ID = "argon2id"
)

// New returns the hasher named by algorithm.
func New(algorithm string, params Argon2Params) (model.PasswordHasher, error) {
	switch algorithm {
	case AlgorithmSHA256, "":
		return NewSHA256(), nil
	case AlgorithmArgon2ID:
		return NewArgon2ID(params), nil
	default:
		return nil, fmt.Errorf("unknown password hash algorithm %q", algorithm)
	}
}
