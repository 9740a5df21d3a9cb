package hasher

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/storefront-server/internal/model"
)

const (
	saltLen = 16
	keyLen  = 32
)

var errMalformedHash = errors.New("malformed argon2id hash")

// Argon2Params is the cost of an argon2id derivation.
type Argon2Params struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// DefaultArgon2Params mirrors the cost used for master key derivation elsewhere in the stack.
var DefaultArgon2Params = Argon2Params{Time: 1, MemKiB: 64 * 1024, Par: 4}

var _ model.PasswordHasher = (*Argon2ID)(nil)

// Argon2ID hashes passwords into the PHC string format
// $argon2id$v=19$m=<mem>,t=<time>,p=<par>$<salt>$<key>.
type Argon2ID struct {
	params Argon2Params
}

// NewArgon2ID fills zero params with DefaultArgon2Params.
func NewArgon2ID(params Argon2Params) *Argon2ID {
	if params.Time == 0 {
		params.Time = DefaultArgon2Params.Time
	}
	if params.MemKiB == 0 {
		params.MemKiB = DefaultArgon2Params.MemKiB
	}
	if params.Par == 0 {
		params.Par = DefaultArgon2Params.Par
	}
	return &Argon2ID{params: params}
}

func (h *Argon2ID) Hash(_ context.Context, password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.params.Time, h.params.MemKiB, h.params.Par, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemKiB, h.params.Time, h.params.Par,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify re-derives the key with the parameters stored in encoded.
func (h *Argon2ID) Verify(_ context.Context, password, encoded string) (bool, error) {
	params, salt, key, err := decode(encoded)
	if err != nil {
		return false, err
	}

	derived := argon2.IDKey([]byte(password), salt, params.Time, params.MemKiB, params.Par, uint32(len(key)))
	return subtle.ConstantTimeCompare(derived, key) == 1, nil
}

func decode(encoded string) (Argon2Params, []byte, []byte, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return Argon2Params{}, nil, nil, errMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	if version != argon2.Version {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: unsupported version %d", errMalformedHash, version)
	}

	var p Argon2Params
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemKiB, &p.Time, &p.Par); err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	// argon2.IDKey panics below these bounds.
	if p.Time == 0 || p.Par == 0 || p.MemKiB < 8*uint32(p.Par) {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: cost out of range", errMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return Argon2Params{}, nil, nil, fmt.Errorf("%w: %v", errMalformedHash, err)
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return Argon2Params{}, nil, nil, errMalformedHash
	}

	return p, salt, key, nil
}
