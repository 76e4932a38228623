package v1

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// TokenCodec turns an email into a URL-safe session token and back.
// Decode is total: any malformed input reports ok=false.
type TokenCodec interface {
	Encode(email string) (string, error)
	Decode(token string) (email string, ok bool)
}

// PlainCodec is the reversible, unsigned token format: base64url(email)
// without padding. It hides nothing and proves nothing beyond possession.
type PlainCodec struct{}

// Encode returns base64url(email) without padding.
func (PlainCodec) Encode(email string) (string, error) {
	if !ValidEmail(email) {
		return "", ErrInvalidInput
	}
	return base64.RawURLEncoding.EncodeToString([]byte(email)), nil
}

// Decode reverses Encode. Padded tokens are accepted; anything that does not
// decode to a valid email reports ok=false.
func (PlainCodec) Decode(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(token, "="))
	if err != nil {
		return "", false
	}
	email := string(raw)
	if !ValidEmail(email) {
		return "", false
	}
	return email, true
}

// SignedCodec issues HS256 JWTs with the email as subject. A zero TTL
// issues tokens without expiry.
type SignedCodec struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSignedCodec creates a SignedCodec keyed with key. ttl <= 0 disables expiry.
func NewSignedCodec(key string, ttl time.Duration) (*SignedCodec, error) {
	if key == "" {
		return nil, errors.New("signing key is required")
	}
	return &SignedCodec{key: []byte(key), ttl: ttl, now: time.Now}, nil
}

// Encode signs a token whose subject is email.
func (c *SignedCodec) Encode(email string) (string, error) {
	if !ValidEmail(email) {
		return "", ErrInvalidInput
	}

	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:  email,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Decode verifies the signature, algorithm and expiry, and returns the subject.
func (c *SignedCodec) Decode(token string) (string, bool) {
	if token == "" {
		return "", false
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !ValidEmail(claims.Subject) {
		return "", false
	}
	return claims.Subject, true
}

// emailValidator applies the same "email" rule gin uses when binding
// RegisterRequest.
var emailValidator = validator.New()

// ValidEmail reports whether s is a bare address such as "a@x.com", under
// the validator "email" tag used by the HTTP binding layer.
func ValidEmail(s string) bool {
	return emailValidator.Var(s, "required,email") == nil
}
