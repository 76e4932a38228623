package v1

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and verifies one-way password digests.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher hashes new passwords with bcrypt. Verify also accepts the
// legacy unsalted SHA-256 hex digests written by earlier versions of the
// app, so existing accounts keep logging in.
//
// bcrypt only reads 72 bytes of input, so the password is first reduced to
// base64(SHA-256(password)), 44 bytes, and passwords of any length hash.
type BcryptHasher struct {
	Cost int
}

// NewBcryptHasher returns a BcryptHasher; cost 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{Cost: cost}
}

// Hash returns a salted bcrypt hash of the pre-hashed password.
func (h BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches a bcrypt hash produced by Hash or
// a legacy SHA-256 hex digest.
func (h BcryptHasher) Verify(hash, password string) bool {
	if strings.HasPrefix(hash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
	}
	if isLegacyDigest(hash) {
		return subtle.ConstantTimeCompare([]byte(LegacyDigest(password)), []byte(strings.ToLower(hash))) == 1
	}
	return false
}

// LegacyDigest is the unsalted SHA-256 hex digest used by the first
// versions of the user table.
func LegacyDigest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func isLegacyDigest(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])
	return out
}
