package hasher

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"github.com/dtroode/storefront-server/internal/model"
)

var _ model.PasswordHasher = (*SHA256)(nil)

// SHA256 is the single-round unsalted hex digest. Demo only.
type SHA256 struct{}

func NewSHA256() *SHA256 {
	return &SHA256{}
}

func (h *SHA256) Hash(_ context.Context, password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

func (h *SHA256) Verify(ctx context.Context, password, encoded string) (bool, error) {
	digest, _ := h.Hash(ctx, password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(encoded)) == 1, nil
}
